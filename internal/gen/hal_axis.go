package gen

import (
	"fmt"
	"strings"

	"halconf-generator/internal/machine"
)

// axisPlan is the discovered wiring of one axis or the spindle.
type axisPlan struct {
	Axis   machine.Axis
	Role   machine.Role
	Config *machine.AxisConfig
	PID    bool
	BLDC   bool
}

// planAxes returns the configured axes in order followed by the spindle.
func planAxes(m *machine.MachineConfig) []axisPlan {
	axes := append(append([]machine.Axis(nil), m.Axes...), machine.AxisSpindle)

	out := make([]axisPlan, 0, len(axes))

	for _, a := range axes {
		r := m.Role(a)
		c := m.Axis(a)

		out = append(out, axisPlan{
			Axis:   a,
			Role:   r,
			Config: c,
			PID:    r.ClosedLoop(),
			BLDC:   c.BLDC.Enabled && r.TPPWM != nil,
		})
	}

	return out
}

func (p axisPlan) pidName() string {
	return "pid." + p.Axis.String()
}

func (p axisPlan) bldcName() string {
	return "bldc." + p.Axis.String()
}

// bldcConfig is the compact cfg token of the bldc component.
func bldcConfig(o machine.BLDCOptions) string {
	var b strings.Builder

	flags := []struct {
		on bool
		c  byte
	}{
		{o.Quadrature, 'q'},
		{o.Hall, 'h'},
		{o.Fanuc, 'f'},
		{o.Index, 'i'},
		{o.EncoderCommutation, 'c'},
		{o.HallInvert, 'n'},
	}

	for _, f := range flags {
		if f.on {
			b.WriteByte(f.c)
		}
	}

	switch o.Output {
	case machine.BLDCOutputBridgeBits:
		b.WriteByte('6')
	case machine.BLDCOutputBinaryHall:
		b.WriteByte('B')
	case machine.BLDCOutputValue:
	}

	return b.String()
}

func (n *netlist) spindlePlan() axisPlan {
	return n.plans[len(n.plans)-1]
}

// spindleAbs reports whether the spindle pwm needs the magnitude of the command.
func (n *netlist) spindleAbs() bool {
	return n.spindlePlan().Role.PWM != nil
}

// spindleNear reports whether at-speed is computed from spindle feedback.
func (n *netlist) spindleNear() bool {
	return n.spindlePlan().Role.HasFeedback() && !n.w.has("spindle-at-speed")
}

func (n *netlist) selectableIncrements() bool {
	o := n.m.Options

	return o.ExternalMPG && o.IncrementsSelectable && o.Frontend != machine.FrontendTouchy
}

// component returns the hal stem of the component at l.
func (n *netlist) component(l *machine.Location) (string, error) {
	p, err := n.m.Pin(*l)
	if err != nil {
		return "", err
	}

	slot, err := n.m.Slot(*l)
	if err != nil {
		return "", err
	}

	return n.w.halName(placed{Loc: *l, Signal: p.Signal, Type: p.Type, Slot: slot, Invert: p.Inverted})
}

// sibling returns the hal pin carrying base+ending, if placed.
func (n *netlist) sibling(base, ending string) (string, bool) {
	p, ok := n.w.find(base + ending)
	if !ok {
		return "", false
	}

	name, err := n.w.halName(p)

	return name, err == nil
}

func (n *netlist) axes() error {
	for _, p := range n.plans {
		var err error
		if p.Axis == machine.AxisSpindle {
			err = n.spindle(p)
		} else {
			err = n.axis(p)
		}

		if err != nil {
			return fmt.Errorf("axis %s: %w", p.Axis, err)
		}
	}

	return nil
}

func (n *netlist) axis(p axisPlan) error {
	t := n.t
	l, idx, sec := p.Axis.String(), p.Axis.Index(), p.Axis.Section()

	t.comment("---%s-axis---", strings.ToUpper(l))
	t.blank()

	motor := fmt.Sprintf("axis.%d", idx)

	t.net(l+"-enable", "<=", motor+".amp-enable-out")
	t.net(l+"-pos-cmd", "<=", motor+".motor-pos-cmd")
	t.net(l+"-pos-fb", "=>", motor+".motor-pos-fb")

	if err := n.servo(p, sec, motor); err != nil {
		return err
	}

	n.switches(p)
	t.blank()

	return nil
}

func (n *netlist) spindle(p axisPlan) error {
	t := n.t
	sec := p.Axis.Section()

	t.comment("---spindle---")
	t.blank()

	t.net("spindle-vel-cmd", "<=", "motion.spindle-speed-out")
	t.net("spindle-vel-cmd-rps", "<=", "motion.spindle-speed-out-rps")
	t.net("spindle-enable", "<=", "motion.spindle-on")

	return n.servo(p, sec, "")
}

// servo writes the pid, drive and feedback blocks shared by axes and the
// spindle. motor is the axis.n stem, empty for the spindle.
func (n *netlist) servo(p axisPlan, sec, motor string) error {
	if p.PID {
		n.pid(p, sec)
	}

	if err := n.drive(p, sec); err != nil {
		return err
	}

	return n.feedback(p, sec, motor)
}

// cmdSignal is the signal a velocity drive is commanded with.
func (p axisPlan) cmdSignal() string {
	if p.PID {
		return p.Axis.Prefix() + "-output"
	}

	if p.Axis == machine.AxisSpindle {
		return "spindle-vel-cmd"
	}

	return p.Axis.String() + "-pos-cmd"
}

func (p axisPlan) enableSignal() string {
	if p.Axis == machine.AxisSpindle {
		return "spindle-enable"
	}

	return p.Axis.String() + "-enable"
}

func (p axisPlan) cmdPosSignal() string {
	if p.Axis == machine.AxisSpindle {
		return "spindle-vel-cmd-rps"
	}

	return p.Axis.String() + "-pos-cmd"
}

func (p axisPlan) fbSignal() string {
	if p.Axis == machine.AxisSpindle {
		return "spindle-vel-fb-rps"
	}

	return p.Axis.String() + "-pos-fb"
}

func (n *netlist) pid(p axisPlan, sec string) {
	t := n.t
	pid := p.pidName()
	l := p.Axis.String()

	if n.g.config.GenerateComments {
		t.comment("--- %s pid ---", strings.ToUpper(l))
	}

	for _, kv := range [][2]string{
		{"Pgain", "P"},
		{"Igain", "I"},
		{"Dgain", "D"},
		{"bias", "BIAS"},
		{"FF0", "FF0"},
		{"FF1", "FF1"},
		{"FF2", "FF2"},
		{"deadband", "DEADBAND"},
		{"maxoutput", "MAX_OUTPUT"},
	} {
		t.setp(pid+"."+kv[0], fmt.Sprintf("[%s]%s", sec, kv[1]))
	}

	if p.Axis != machine.AxisSpindle {
		t.net(l+"-index-enable", "<=>", pid+".index-enable")
	}

	t.net(p.enableSignal(), "=>", pid+".enable")
	t.net(p.cmdPosSignal(), "=>", pid+".command")
	t.net(p.fbSignal(), "=>", pid+".feedback")
	t.net(p.cmdSignal(), "<=", pid+".output")
}

// drive writes the output wiring of whichever component commands the axis.
func (n *netlist) drive(p axisPlan, sec string) error {
	r := p.Role

	switch {
	case r.Stepgen != nil:
		return n.stepgen(p, sec)
	case r.PWM != nil:
		return n.pwm(p, sec)
	case r.TPPWM != nil:
		return n.tppwm(p, sec)
	case r.Amp8i20 != nil:
		return n.amp8i20(p)
	case r.Pot != nil:
		return n.pot(p, sec)
	default:
		return nil
	}
}

func (n *netlist) stepgen(p axisPlan, sec string) error {
	t := n.t
	sg, err := n.component(p.Role.Stepgen)
	if err != nil {
		return err
	}

	if n.g.config.GenerateComments {
		t.comment("Step Gen signals/setup")
	}

	n.stepgenSetup(sg, sec)

	switch {
	case p.PID:
		t.setp(sg+".control-type", 1)
		t.net(p.cmdSignal(), "=>", sg+".velocity-cmd")
	case p.Axis == machine.AxisSpindle:
		t.setp(sg+".control-type", 1)
		t.net("spindle-vel-cmd-rps", "=>", sg+".velocity-cmd")
	default:
		t.setp(sg+".control-type", 0)
		t.net(p.cmdPosSignal(), "=>", sg+".position-cmd")
		t.net(p.fbSignal(), "<=", sg+".position-fb")
	}

	t.net(p.enableSignal(), "=>", sg+".enable")

	if p.Role.Tandem != nil {
		return n.tandem(p, sec)
	}

	return nil
}

// tandem follows the master stepgen's command and enable; feedback stays with the master.
func (n *netlist) tandem(p axisPlan, sec string) error {
	t := n.t
	sg, err := n.component(p.Role.Tandem)
	if err != nil {
		return err
	}

	if n.g.config.GenerateComments {
		t.comment("Tandem Step Gen signals/setup")
	}

	n.stepgenSetup(sg, sec)

	if p.PID {
		t.setp(sg+".control-type", 1)
		t.net(p.cmdSignal(), "=>", sg+".velocity-cmd")
	} else {
		t.setp(sg+".control-type", 0)
		t.net(p.cmdPosSignal(), "=>", sg+".position-cmd")
	}

	t.net(p.enableSignal(), "=>", sg+".enable")

	return nil
}

func (n *netlist) stepgenSetup(sg, sec string) {
	for _, kv := range [][2]string{
		{"dirsetup", "DIRSETUP"},
		{"dirhold", "DIRHOLD"},
		{"steplen", "STEPLEN"},
		{"stepspace", "STEPSPACE"},
		{"position-scale", "STEP_SCALE"},
		{"maxaccel", "STEPGEN_MAXACCEL"},
		{"maxvel", "STEPGEN_MAXVEL"},
	} {
		n.t.setp(sg+"."+kv[0], fmt.Sprintf("[%s]%s", sec, kv[1]))
	}

	n.t.setp(sg+".step_type", 0)
}

func (n *netlist) pwm(p axisPlan, sec string) error {
	t := n.t
	pl, err := n.placedAt(p.Role.PWM)
	if err != nil {
		return err
	}

	stem, err := n.w.halName(pl)
	if err != nil {
		return err
	}

	if n.g.config.GenerateComments {
		t.comment("PWM Generator signals/setup")
	}

	cmd := p.cmdSignal()
	if p.Axis == machine.AxisSpindle {
		t.net(cmd, "=>", "abs.spindle.in")
		cmd = "spindle-output-abs"
		t.net(cmd, "<=", "abs.spindle.out")
	}

	// smart-serial analog outputs have their own scaling pins
	if mode, ok := pl.Type.Mode(); ok && pl.Loc.Source == machine.SourceMesa {
		t.setp(stem+".output-type", mode.OutputType())
		t.setp(stem+".scale", fmt.Sprintf("[%s]OUTPUT_SCALE", sec))
		t.net(cmd, "=>", stem+".value")
		t.net(p.enableSignal(), "=>", stem+".enable")

		return nil
	}

	t.setp(stem+"-scalemax", fmt.Sprintf("[%s]OUTPUT_SCALE", sec))
	t.setp(stem+"-minlim", fmt.Sprintf("[%s]OUTPUT_MIN_LIMIT", sec))
	t.setp(stem+"-maxlim", fmt.Sprintf("[%s]OUTPUT_MAX_LIMIT", sec))
	t.net(cmd, "=>", stem)

	prefix, err := n.w.channelPrefix(pl.Loc)
	if err != nil {
		return err
	}

	t.net(p.enableSignal(), "=>", prefix+".analogena")

	return nil
}

func (n *netlist) placedAt(l *machine.Location) (placed, error) {
	pin, err := n.m.Pin(*l)
	if err != nil {
		return placed{}, err
	}

	slot, err := n.m.Slot(*l)
	if err != nil {
		return placed{}, err
	}

	return placed{Loc: *l, Signal: pin.Signal, Type: pin.Type, Slot: slot, Invert: pin.Inverted}, nil
}

func (n *netlist) tppwm(p axisPlan, sec string) error {
	t := n.t
	l := p.Axis.String()

	gen, err := n.component(p.Role.TPPWM)
	if err != nil {
		return err
	}

	if n.g.config.GenerateComments {
		t.comment("3-phase PWM signals/setup")
	}

	t.setp(gen+".scale", fmt.Sprintf("[%s]OUTPUT_SCALE", sec))

	if p.BLDC {
		b := p.bldcName()
		t.setp(b+".poles", fmt.Sprintf("[%s]BLDC_POLES", sec))
		t.setp(b+".encoder-offset", fmt.Sprintf("[%s]BLDC_ENCODER_OFFSET", sec))
		t.net(p.cmdSignal(), "=>", b+".value")
		t.net(p.enableSignal(), "=>", b+".init")

		if p.Role.Encoder != nil {
			enc, err := n.component(p.Role.Encoder)
			if err != nil {
				return err
			}

			t.net(l+"-rawcounts", "<=", enc+".rawcounts")
			t.net(l+"-rawcounts", "=>", b+".rawcounts")
		}

		for _, ph := range []string{"A", "B", "C"} {
			t.net(l+"-"+ph+"-value", "<=", b+"."+ph+"-value")
			t.net(l+"-"+ph+"-value", "=>", gen+"."+ph+"-value")
		}
	} else {
		t.net(p.cmdSignal(), "=>", gen+".A-value")
	}

	t.net(p.enableSignal(), "=>", gen+".enable")

	if p.Axis != machine.AxisSpindle {
		t.net(l+"-fault", "<=", gen+".fault")
		t.net(l+"-fault", "=>", fmt.Sprintf("axis.%d.amp-fault-in", p.Axis.Index()))
	}

	return nil
}

func (n *netlist) amp8i20(p axisPlan) error {
	amp, err := n.component(p.Role.Amp8i20)
	if err != nil {
		return err
	}

	if n.g.config.GenerateComments {
		n.t.comment("8i20 amplifier signals/setup")
	}

	n.t.net(p.cmdSignal(), "=>", amp+".current")
	n.t.net(p.enableSignal(), "=>", amp+".amp_enable")

	return nil
}

func (n *netlist) pot(p axisPlan, sec string) error {
	t := n.t

	out, err := n.component(p.Role.Pot)
	if err != nil {
		return err
	}

	if n.g.config.GenerateComments {
		t.comment("Potentiometer output signals/setup")
	}

	t.setp(out+"-scalemax", fmt.Sprintf("[%s]OUTPUT_SCALE", sec))
	t.setp(out+"-minlim", fmt.Sprintf("[%s]OUTPUT_MIN_LIMIT", sec))
	t.setp(out+"-maxlim", fmt.Sprintf("[%s]OUTPUT_MAX_LIMIT", sec))
	t.net(p.cmdSignal(), "=>", out)

	base := p.Axis.Prefix() + "-pot"
	if ena, ok := n.sibling(base, "-enable"); ok {
		t.net(p.enableSignal(), "=>", ena)
	}

	if dir, ok := n.sibling(base, "-dir"); ok && p.Axis == machine.AxisSpindle {
		t.net("spindle-ccw", "=>", dir)
	}

	return nil
}

// feedback writes encoder or resolver wiring. An open loop stepgen reports
// its own position from drive.
func (n *netlist) feedback(p axisPlan, sec, motor string) error {
	t := n.t
	r := p.Role
	l := p.Axis.String()

	var (
		loc  *machine.Location
		kind string
	)

	switch {
	case r.Encoder != nil:
		loc, kind = r.Encoder, "Encoder"
	case r.Resolver != nil:
		loc, kind = r.Resolver, "Resolver"
	default:
		return nil
	}

	stem, err := n.component(loc)
	if err != nil {
		return err
	}

	if n.g.config.GenerateComments {
		t.comment("%s signals/setup", kind)
	}

	if kind == "Encoder" {
		t.setp(stem+".counter-mode", 0)
		t.setp(stem+".filter", 1)
		t.setp(stem+".index-invert", 0)
		t.setp(stem+".index-mask", 0)
		t.setp(stem+".index-mask-invert", 0)
	}

	t.setp(stem+".scale", fmt.Sprintf("[%s]ENCODER_SCALE", sec))

	if motor == "" {
		t.net("spindle-revs", "<=", stem+".position")
		t.net("spindle-revs", "=>", "motion.spindle-revs")
		t.net("spindle-vel-fb-rps", "<=", stem+".velocity")
		t.net("spindle-vel-fb-rps", "=>", "motion.spindle-speed-in")
		t.net("spindle-index-enable", "<=>", stem+".index-enable")
		t.net("spindle-index-enable", "<=>", "motion.spindle-index-enable")

		return nil
	}

	t.net(l+"-pos-fb", "<=", stem+".position")
	t.net(l+"-vel-fb", "<=", stem+".velocity")
	t.net(l+"-index-enable", "<=>", stem+".index-enable")
	t.net(l+"-index-enable", "<=>", motor+".index-enable")

	return nil
}

// homeSignals are the inputs that can home an axis, in order of preference.
func homeSignals(l string) []string {
	return []string{"home-" + l, "min-home-" + l, "max-home-" + l, "both-home-" + l, "all-home", "all-limit-home"}
}

func negLimitSignals(l string) []string {
	return []string{"min-" + l, "min-home-" + l, "both-" + l, "both-home-" + l, "all-limit", "all-limit-home"}
}

func posLimitSignals(l string) []string {
	return []string{"max-" + l, "max-home-" + l, "both-" + l, "both-home-" + l, "all-limit", "all-limit-home"}
}

// switches binds home and limit inputs, inventing a signal name for any
// that is not wired.
func (n *netlist) switches(p axisPlan) {
	t := n.t
	l, motor := p.Axis.String(), fmt.Sprintf("axis.%d", p.Axis.Index())

	if n.g.config.GenerateComments {
		t.comment("---setup home / limit switch signals---")
	}

	for _, sw := range []struct {
		candidates []string
		fallback   string
		pin        string
	}{
		{homeSignals(l), l + "-home-sw-in", ".home-sw-in"},
		{negLimitSignals(l), l + "-neg-limit", ".neg-lim-sw-in"},
		{posLimitSignals(l), l + "-pos-limit", ".pos-lim-sw-in"},
	} {
		sig, ok := n.w.first(sw.candidates...)
		if !ok {
			sig = sw.fallback
		}

		t.net(sig, "=>", motor+sw.pin)
	}
}
