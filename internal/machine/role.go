package machine

// Role records which component signals are placed for an axis and where.
// A nil field means the signal is not on any pin.
type Role struct {
	Axis     Axis
	Stepgen  *Location
	Tandem   *Location
	PWM      *Location
	TPPWM    *Location
	Amp8i20  *Location
	Pot      *Location
	Encoder  *Location
	Resolver *Location
}

// Drivers counts the output components commanding the axis.
func (r Role) Drivers() int {
	n := 0

	for _, l := range []*Location{r.Stepgen, r.PWM, r.TPPWM, r.Amp8i20, r.Pot} {
		if l != nil {
			n++
		}
	}

	return n
}

// HasServoOutput reports a velocity output that needs position feedback.
func (r Role) HasServoOutput() bool {
	return r.PWM != nil || r.TPPWM != nil || r.Amp8i20 != nil
}

// HasFeedback reports an encoder or resolver on the axis.
func (r Role) HasFeedback() bool {
	return r.Encoder != nil || r.Resolver != nil
}

// ClosedLoop reports whether the axis is driven through a pid loop.
func (r Role) ClosedLoop() bool {
	return r.HasFeedback() && (r.HasServoOutput() || r.Stepgen != nil)
}

// RoleSignal is the controlling signal name for each component of an axis.
func RoleSignal(a Axis, component string) string {
	switch component {
	case "stepgen":
		return a.Prefix() + "-stepgen-step"
	case "tandem":
		return a.Prefix() + "2-stepgen-step"
	case "pwm":
		return a.Prefix() + "-pwm-pulse"
	case "tppwm":
		return a.Prefix() + "-tppwm-a"
	case "8i20":
		return a.Prefix() + "-8i20"
	case "pot":
		return a.Prefix() + "-pot-output"
	case "encoder":
		return a.Prefix() + "-encoder-a"
	case "resolver":
		return a.Prefix() + "-resolver"
	default:
		return ""
	}
}

// Role discovers the wiring of an axis from the placed signals.
func (m *MachineConfig) Role(a Axis) Role {
	find := func(component string) *Location {
		l, ok := m.FindSignal(RoleSignal(a, component))
		if !ok {
			return nil
		}

		return &l
	}

	r := Role{
		Axis:     a,
		Stepgen:  find("stepgen"),
		PWM:      find("pwm"),
		TPPWM:    find("tppwm"),
		Amp8i20:  find("8i20"),
		Pot:      find("pot"),
		Encoder:  find("encoder"),
		Resolver: find("resolver"),
	}

	if a != AxisA && a != AxisSpindle {
		r.Tandem = find("tandem")
	}

	return r
}
