package persist

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"halconf-generator/internal/firmware"
	"halconf-generator/internal/machine"
)

// field binds one record name to a value of the configuration.
type field struct {
	name string
	typ  Type
	get  func() Property
	set  func(Property) error
}

func stringField(name string, p *string) field {
	return textField(name, func() string { return *p }, func(s string) error {
		*p = s

		return nil
	})
}

// textField is a string record with custom conversion.
func textField(name string, get func() string, set func(string) error) field {
	return field{
		name: name,
		typ:  TypeString,
		get:  func() Property { return Property{Name: name, Type: TypeString, Value: get()} },
		set:  func(p Property) error { return set(p.Value) },
	}
}

func intField(name string, p *int) field {
	return field{
		name: name,
		typ:  TypeInt,
		get:  func() Property { return Property{Name: name, Type: TypeInt, Value: strconv.Itoa(*p)} },
		set: func(prop Property) error {
			v, err := strconv.Atoi(prop.Value)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidValue, name, err)
			}

			*p = v

			return nil
		},
	}
}

func floatField(name string, p *float64) field {
	return field{
		name: name,
		typ:  TypeFloat,
		get:  func() Property { return Property{Name: name, Type: TypeFloat, Value: formatFloat(*p)} },
		set: func(prop Property) error {
			v, err := strconv.ParseFloat(prop.Value, 64)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidValue, name, err)
			}

			*p = v

			return nil
		},
	}
}

func boolField(name string, p *bool) field {
	return field{
		name: name,
		typ:  TypeBool,
		get:  func() Property { return Property{Name: name, Type: TypeBool, Value: strconv.FormatBool(*p)} },
		set: func(prop Property) error {
			v, err := strconv.ParseBool(prop.Value)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidValue, name, err)
			}

			*p = v

			return nil
		},
	}
}

func floatsField(name string, p *[]float64) field {
	return field{
		name: name,
		typ:  TypeList,
		get: func() Property {
			items := lo.Map(*p, func(v float64, _ int) string { return formatFloat(v) })

			return Property{Name: name, Type: TypeList, Items: items}
		},
		set: func(prop Property) error {
			out := make([]float64, 0, len(prop.Items))

			for _, s := range prop.Items {
				v, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return fmt.Errorf("%w: %s: %w", ErrInvalidValue, name, err)
				}

				out = append(out, v)
			}

			*p = out

			return nil
		},
	}
}

// enumField stores an enum by its String form.
func enumField[T fmt.Stringer](name string, p *T, values []T) field {
	return textField(name, func() string { return (*p).String() }, func(s string) error {
		v, ok := lo.Find(values, func(v T) bool { return v.String() == s })
		if !ok {
			return fmt.Errorf("%w: %s: %q", ErrInvalidValue, name, s)
		}

		*p = v

		return nil
	})
}

func familyField(name string, p *firmware.Family) field {
	return textField(name, func() string { return p.String() }, func(s string) error {
		f, ok := firmware.ParseFamily(s)
		if !ok {
			return fmt.Errorf("%w: %s: unknown pin type %q", ErrInvalidValue, name, s)
		}

		*p = f

		return nil
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionFields(o *machine.Options) []field {
	return []field{
		enumField("options.frontend", &o.Frontend,
			[]machine.Frontend{machine.FrontendAxis, machine.FrontendTkLinuxCNC, machine.FrontendTouchy}),
		enumField("options.toolchange", &o.ToolChange,
			[]machine.ToolChange{machine.ToolChangeManual, machine.ToolChangeSignals}),
		boolField("options.individual_homing", &o.IndividualHoming),
		boolField("options.external_mpg", &o.ExternalMPG),
		boolField("options.shared_mpg", &o.SharedMPG),
		boolField("options.increments_selectable", &o.IncrementsSelectable),
		floatsField("options.increments", &o.Increments),
		boolField("options.external_feed_override", &o.ExternalFeedOverride),
		boolField("options.external_spindle_override", &o.ExternalSpindleOverride),
		boolField("options.external_maxvel_override", &o.ExternalMaxVelOverride),
		boolField("options.classicladder", &o.ClassicLadder),
		boolField("options.ladder_estop", &o.LadderEstop),
		intField("options.servo_period", &o.ServoPeriodNS),
		floatField("options.default_linear_vel", &o.DefaultLinearVel),
		floatField("options.max_linear_vel", &o.MaxLinearVel),
		floatField("options.max_feed_override", &o.MaxFeedOverride),
		floatField("options.max_spindle_override", &o.MaxSpindleOverride),
		stringField("options.position", &o.Position),
	}
}

func transmissionFields(prefix string, t *machine.Transmission) []field {
	return []field{
		floatField(prefix+".pulley_driver", &t.PulleyDriver),
		floatField(prefix+".pulley_driven", &t.PulleyDriven),
		floatField(prefix+".worm_driver", &t.WormDriver),
		floatField(prefix+".worm_driven", &t.WormDriven),
		floatField(prefix+".leadscrew", &t.Leadscrew),
	}
}

// axisFields lists the stored parameters of an axis. StepScale and
// EncoderScale are left out.
func axisFields(a machine.Axis, c *machine.AxisConfig) []field {
	p := "axis." + a.String()

	fs := []field{
		floatField(p+".steps_per_rev", &c.StepsPerRev),
		floatField(p+".microstep", &c.Microstep),
	}
	fs = append(fs, transmissionFields(p+".motor", &c.Motor)...)
	fs = append(fs, floatField(p+".encoder_counts", &c.EncoderCounts))
	fs = append(fs, transmissionFields(p+".encoder", &c.Encoder)...)
	fs = append(fs,
		floatField(p+".p", &c.P),
		floatField(p+".i", &c.I),
		floatField(p+".d", &c.D),
		floatField(p+".ff0", &c.FF0),
		floatField(p+".ff1", &c.FF1),
		floatField(p+".ff2", &c.FF2),
		floatField(p+".bias", &c.Bias),
		floatField(p+".deadband", &c.Deadband),
		floatField(p+".maxoutput", &c.MaxOutput),
		floatField(p+".output_scale", &c.OutputScale),
		floatField(p+".output_min_limit", &c.OutputMinLimit),
		floatField(p+".output_max_limit", &c.OutputMaxLimit),
		floatField(p+".steptime", &c.StepTime),
		floatField(p+".stepspace", &c.StepSpace),
		floatField(p+".dirhold", &c.DirHold),
		floatField(p+".dirsetup", &c.DirSetup),
		floatField(p+".maxvel", &c.MaxVel),
		floatField(p+".maxaccel", &c.MaxAccel),
		floatField(p+".min_limit", &c.MinLimit),
		floatField(p+".max_limit", &c.MaxLimit),
		floatField(p+".ferror", &c.FError),
		floatField(p+".min_ferror", &c.MinFError),
		floatField(p+".backlash", &c.Backlash),
		boolField(p+".use_backlash", &c.UseBacklash),
		boolField(p+".use_comp", &c.UseComp),
		stringField(p+".comp_file", &c.CompFile),
		intField(p+".comp_type", &c.CompType),
		floatField(p+".home", &c.Home),
		floatField(p+".home_offset", &c.HomeOffset),
		floatField(p+".search_vel", &c.SearchVel),
		floatField(p+".latch_vel", &c.LatchVel),
		floatField(p+".final_vel", &c.FinalVel),
		boolField(p+".search_positive", &c.SearchPositive),
		boolField(p+".latch_same_direction", &c.LatchSameDirection),
		boolField(p+".use_index", &c.UseIndex),
		boolField(p+".bldc.enabled", &c.BLDC.Enabled),
		boolField(p+".bldc.quadrature", &c.BLDC.Quadrature),
		boolField(p+".bldc.hall", &c.BLDC.Hall),
		boolField(p+".bldc.fanuc", &c.BLDC.Fanuc),
		boolField(p+".bldc.index", &c.BLDC.Index),
		boolField(p+".bldc.encoder_commutation", &c.BLDC.EncoderCommutation),
		boolField(p+".bldc.hall_invert", &c.BLDC.HallInvert),
		enumField(p+".bldc.output", &c.BLDC.Output,
			[]machine.BLDCOutput{machine.BLDCOutputValue, machine.BLDCOutputBridgeBits, machine.BLDCOutputBinaryHall}),
		intField(p+".bldc.pole_pairs", &c.BLDC.PolePairs),
		intField(p+".bldc.encoder_offset", &c.BLDC.EncoderOffset),
	)

	if a == machine.AxisSpindle {
		fs = append(fs, floatField(p+".at_speed_scale", &c.AtSpeedScale))
	}

	return fs
}

func countsFields(prefix string, c *firmware.Counts) []field {
	return []field{
		intField(prefix+".encoders", &c.Encoders),
		intField(prefix+".resolvers", &c.Resolvers),
		intField(prefix+".pwmgens", &c.PWMGens),
		intField(prefix+".tppwmgens", &c.TPPWMGens),
		intField(prefix+".stepgens", &c.StepGens),
		intField(prefix+".sserial_ports", &c.SSerialPorts),
		intField(prefix+".sserial_channels", &c.SSerialChannels),
	}
}

func mesaFields(prefix string, mb *machine.MesaBoard) []field {
	return []field{
		intField(prefix+".pwm_frequency", &mb.PWMFrequency),
		intField(prefix+".pdm_frequency", &mb.PDMFrequency),
		intField(prefix+".watchdog_ns", &mb.WatchdogNS),
	}
}

func parportFields(prefix string, p *machine.Parport) []field {
	return []field{
		stringField(prefix+".address", &p.Address),
		enumField(prefix+".direction", &p.Direction, []machine.ParportDirection{machine.ParportOut, machine.ParportIn}),
	}
}
