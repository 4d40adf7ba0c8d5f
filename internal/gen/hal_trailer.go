package gen

import (
	"fmt"

	"halconf-generator/internal/machine"
)

func (n *netlist) trailer() error {
	steps := []func() error{
		n.spindleControl,
		n.coolantAndIO,
		n.jogging,
		n.overrides,
		n.toolChange,
		n.estop,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

func (n *netlist) spindleControl() error {
	t := n.t

	t.comment("---setup spindle control signals---")
	t.blank()
	t.net("spindle-cw", "<=", "motion.spindle-forward")
	t.net("spindle-ccw", "<=", "motion.spindle-reverse")
	t.net("spindle-brake", "<=", "motion.spindle-brake")

	switch {
	case n.w.has("spindle-at-speed"):
	case n.spindleNear():
		t.setp("near.spindle.scale", "[SPINDLE_9]NEAR_SCALE")
		t.net("spindle-vel-cmd-rps", "=>", "near.spindle.in1")
		t.net("spindle-vel-fb-rps", "=>", "near.spindle.in2")
		t.net("spindle-at-speed", "<=", "near.spindle.out")
	default:
		t.line("sets spindle-at-speed true")
	}

	t.net("spindle-at-speed", "=>", "motion.spindle-at-speed")
	t.blank()

	return nil
}

func (n *netlist) coolantAndIO() error {
	t := n.t

	t.comment("---coolant signals---")
	t.blank()
	t.net("coolant-mist", "<=", "iocontrol.0.coolant-mist")
	t.net("coolant-flood", "<=", "iocontrol.0.coolant-flood")
	t.blank()

	t.comment("---probe signal---")
	t.blank()
	t.net("probe-in", "=>", "motion.probe-input")
	t.blank()

	t.comment("---motion control signals---")
	t.blank()

	for i := range 4 {
		t.net(fmt.Sprintf("dout-%02d", i), "<=", fmt.Sprintf("motion.digital-out-%02d", i))
	}

	for i := range 4 {
		t.net(fmt.Sprintf("din-%02d", i), "=>", fmt.Sprintf("motion.digital-in-%02d", i))
	}

	t.net("machine-is-enabled", "<=", "motion.motion-enabled")

	for _, c := range []struct{ signal, pin string }{
		{"cycle-start", "halui.program.run"},
		{"abort", "halui.abort"},
		{"single-step", "halui.program.step"},
	} {
		if n.w.has(c.signal) {
			t.net(c.signal, "=>", c.pin)
		}
	}

	t.blank()

	return nil
}

func (n *netlist) jogging() error {
	t := n.t
	o := n.m.Options

	t.comment("---jog button signals---")
	t.blank()

	for _, a := range n.m.Axes {
		l, i := a.String(), a.Index()

		for _, dir := range []struct{ name, pin string }{{"pos", "plus"}, {"neg", "minus"}} {
			sig := fmt.Sprintf("jog-%s-%s", l, dir.name)
			if n.w.has(sig) {
				t.net(sig, "=>", fmt.Sprintf("halui.jog.%d.%s", i, dir.pin))
			}
		}
	}

	t.blank()

	if !o.ExternalMPG {
		return nil
	}

	t.comment("---jogwheel signals---")
	t.blank()

	touchy := o.Frontend == machine.FrontendTouchy

	switch {
	case touchy:
		// touchy drives the increment and the selected axis
	case o.IncrementsSelectable:
		t.net("jog-incr-a", "=>", "jogincr.sel0")
		t.net("jog-incr-b", "=>", "jogincr.sel1")
		t.net("selected-jog-incr", "<=", "jogincr.out-f")

		for i := range 4 {
			inc := 0.0
			if i < len(o.Increments) {
				inc = o.Increments[i]
			}

			t.setp(fmt.Sprintf("jogincr.in%d", i), num(inc))
		}
	default:
		inc := 0.0
		if len(o.Increments) > 0 {
			inc = o.Increments[0]
		}

		t.line("sets selected-jog-incr %s", num(inc))
	}

	if o.SharedMPG {
		if err := n.mpgCounts("mpg-encoder", "joint-selected-count"); err != nil {
			return err
		}
	}

	for _, a := range n.m.Axes {
		l, motor := a.String(), fmt.Sprintf("axis.%d", a.Index())

		t.setp(motor+".jog-vel-mode", 0)
		t.net("selected-jog-incr", "=>", motor+".jog-scale")

		if o.SharedMPG {
			t.net("joint-selected-count", "=>", motor+".jog-counts")
			if !touchy {
				t.net(l+"-is-selected", "<=", fmt.Sprintf("halui.joint.%d.is-selected", a.Index()))
			}

			t.net(l+"-is-selected", "=>", motor+".jog-enable")

			continue
		}

		count := l + "-jog-count"
		if err := n.mpgCounts(l+"-mpg", count); err != nil {
			return err
		}

		t.net(count, "=>", motor+".jog-counts")
		t.setp(motor+".jog-enable", "true")
	}

	t.blank()

	return nil
}

// mpgCounts nets the count of the encoder carrying base into signal. An
// unplaced encoder leaves the signal undriven.
func (n *netlist) mpgCounts(base, signal string) error {
	p, ok := n.w.find(base + "-a")
	if !ok {
		return nil
	}

	stem, err := n.w.halName(p)
	if err != nil {
		return err
	}

	if p.Loc.Source == machine.SourceMesa {
		n.t.setp(stem+".filter", "true")
		n.t.setp(stem+".counter-mode", "true")
	}

	n.t.net(signal, "<=", stem+".count")

	return nil
}

func (n *netlist) overrides() error {
	o := n.m.Options

	for _, ov := range []struct {
		on     bool
		base   string
		signal string
		halui  string
	}{
		{o.ExternalFeedOverride, "fo-mpg", "fo-count", "halui.feed-override"},
		{o.ExternalSpindleOverride, "so-mpg", "so-count", "halui.spindle.0.override"},
		{o.ExternalMaxVelOverride, "mvo-mpg", "mvo-count", "halui.max-velocity"},
	} {
		if !ov.on {
			continue
		}

		n.t.comment("---%s signals---", ov.base)

		if err := n.mpgCounts(ov.base, ov.signal); err != nil {
			return err
		}

		n.t.net(ov.signal, "=>", ov.halui+".counts")
		n.t.setp(ov.halui+".count-enable", "true")
		n.t.setp(ov.halui+".scale", "0.01")
		n.t.blank()
	}

	return nil
}

func (n *netlist) toolChange() error {
	t := n.t

	t.comment("---toolchange signals for custom tool changer---")
	t.blank()

	switch n.m.Options.ToolChange {
	case machine.ToolChangeSignals:
		t.net("tool-number", "<=", "iocontrol.0.tool-prep-number")
		t.net("tool-change", "<=", "iocontrol.0.tool-change")
		t.net("tool-changed", "=>", "iocontrol.0.tool-changed")
		t.net("tool-prepare", "<=", "iocontrol.0.tool-prepare")
		t.net("tool-prepared", "=>", "iocontrol.0.tool-prepared")
	case machine.ToolChangeManual:
		t.line("loadusr -W hal_manualtoolchange")
		t.net("tool-change-request", "<=", "iocontrol.0.tool-change")
		t.net("tool-change-request", "=>", "hal_manualtoolchange.change")
		t.net("tool-change-confirmed", "<=", "hal_manualtoolchange.changed")
		t.net("tool-change-confirmed", "=>", "iocontrol.0.tool-changed")
		t.net("tool-number", "<=", "iocontrol.0.tool-prep-number")
		t.net("tool-number", "=>", "hal_manualtoolchange.number")
		t.net("tool-prepare-loopback", "<=", "iocontrol.0.tool-prepare")
		t.net("tool-prepare-loopback", "=>", "iocontrol.0.tool-prepared")
	}

	t.blank()

	return nil
}

func (n *netlist) estop() error {
	t := n.t
	o := n.m.Options

	t.comment("---estop signals---")
	t.blank()

	switch {
	case o.ClassicLadder && o.LadderEstop:
		t.net("estop-strobe", "<=", "iocontrol.0.user-request-enable")
		t.net("estop-strobe", "=>", "classicladder.0.in-00")
		t.net("estop-ext", "=>", "classicladder.0.in-01")
		t.net("estop-out", "<=", "classicladder.0.out-00")
		t.net("estop-out", "=>", "iocontrol.0.emc-enable-in")
		t.net("estop-reset", "<=", "iocontrol.0.user-enable-out")
		t.net("estop-reset", "=>", "classicladder.0.in-02")
	case n.w.has("estop-ext"):
		t.net("estop-out", "<=", "iocontrol.0.user-enable-out")
		t.net("estop-ext", "=>", "iocontrol.0.emc-enable-in")
	default:
		t.net("estop-out", "<=", "iocontrol.0.user-enable-out")
		t.net("estop-out", "=>", "iocontrol.0.emc-enable-in")
	}

	t.blank()

	return nil
}
