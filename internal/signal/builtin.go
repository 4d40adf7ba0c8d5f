package signal

import "fmt"

// CustomCategory is the category custom signals are listed under.
const CustomCategory = "Custom Signals"

type category struct {
	kind  Kind
	name  string
	bases []string
}

var axisLetters = []string{"x", "y", "z", "a"}

func perAxis(format string, withSpindle bool) []string {
	var out []string
	for _, l := range axisLetters {
		out = append(out, fmt.Sprintf(format, l))
	}

	if withSpindle {
		out = append(out, fmt.Sprintf(format, "spindle"))
	}

	return out
}

func numbered(format string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf(format, i)
	}

	return out
}

func joinLists(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}

	return out
}

func builtinCategories() []category {
	return []category{
		{KindOutput, "Spindle", []string{"spindle-enable", "spindle-cw", "spindle-ccw", "spindle-brake"}},
		{KindOutput, "Coolant", []string{"coolant-mist", "coolant-flood"}},
		{KindOutput, "Control", []string{"estop-out", "machine-is-enabled", "charge-pump", "force-pin-true"}},
		{KindOutput, "Digital", numbered("dout-%02d", 4)},
		{KindOutput, "Axis Enable", perAxis("%s-enable", false)},
		{KindOutput, "Tool Change", []string{"tool-change", "tool-prepare"}},

		{KindInput, "E-Stop", []string{"estop-ext"}},
		{KindInput, "Probe", []string{"probe-in"}},
		{KindInput, "Digital", numbered("din-%02d", 4)},
		{KindInput, "Limits", joinLists(
			perAxis("min-%s", false), perAxis("max-%s", false), perAxis("both-%s", false),
			[]string{"all-limit"},
		)},
		{KindInput, "Home", joinLists(perAxis("home-%s", false), []string{"all-home"})},
		{KindInput, "Limit/Home Shared", joinLists(
			perAxis("min-home-%s", false), perAxis("max-home-%s", false), perAxis("both-home-%s", false),
			[]string{"all-limit-home"},
		)},
		{KindInput, "Spindle", []string{"spindle-at-speed"}},
		{KindInput, "Jog", joinLists(
			perAxis("jog-%s-pos", false), perAxis("jog-%s-neg", false),
			[]string{"jog-incr-a", "jog-incr-b"},
		)},
		{KindInput, "External Control", []string{"cycle-start", "abort", "single-step"}},
		{KindInput, "Tool Change", []string{"tool-changed", "tool-prepared"}},

		{KindEncoder, "Axis Encoder", perAxis("%s-encoder", true)},
		{KindEncoder, "MPG", joinLists([]string{"mpg-encoder"}, perAxis("%s-mpg", false))},
		{KindEncoder, "Override", []string{"fo-mpg", "so-mpg", "mvo-mpg"}},

		{KindResolver, "Axis Resolver", perAxis("%s-resolver", true)},

		{KindPWM, "Axis PWM", perAxis("%s-pwm", true)},

		{KindStepgen, "Axis Stepgen", perAxis("%s-stepgen", true)},
		{KindStepgen, "Tandem Stepgen", []string{"x2-stepgen", "y2-stepgen", "z2-stepgen"}},

		{KindThreePhasePWM, "Axis 3-Phase PWM", perAxis("%s-tppwm", true)},

		{KindAnalogIn, "Analog", numbered("analog-in-%02d", 4)},

		{KindPot, "Spindle", []string{"spindle-pot"}},

		{KindAmp8i20, "Axis Amplifier", perAxis("%s-8i20", true)},
	}
}
