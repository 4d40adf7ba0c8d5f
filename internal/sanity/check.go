package sanity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"halconf-generator/internal/diagnostic"
	"halconf-generator/internal/firmware"
	"halconf-generator/internal/machine"
	"halconf-generator/internal/signal"
)

// Check runs every rule against m and returns the collected warnings.
func Check(m *machine.MachineConfig) diagnostic.Diagnostics {
	var d diagnostic.Diagnostics

	checkAxes(m, &d)
	checkSwitches(m, &d)
	checkTouchy(m, &d)
	checkDaughters(m, &d)
	checkDuplicates(m, &d)

	return d
}

func checkAxes(m *machine.MachineConfig, d *diagnostic.Diagnostics) {
	for _, a := range m.Axes {
		r := m.Role(a)
		subject := strings.ToUpper(a.String())

		if r.Tandem != nil && r.Stepgen == nil {
			d.AddWarning(CodeTandemMaster,
				fmt.Sprintf("tandem stepgen %s needs the master stepgen %s", a.Prefix()+"2-stepgen", a.Prefix()+"-stepgen"),
				subject, machine.RoleSignal(a, "stepgen"))
		}

		switch n := r.Drivers(); {
		case n == 0 && r.Tandem != nil:
			continue
		case n == 0:
			d.AddWarning(CodeAxisDriver,
				fmt.Sprintf("axis %s has no stepgen or pwm driving it", subject), subject,
				machine.RoleSignal(a, "stepgen"), machine.RoleSignal(a, "pwm"))

			continue
		case n > 1:
			d.AddWarning(CodeAxisDriver,
				fmt.Sprintf("axis %s is driven by %d outputs, only one is allowed", subject, n), subject)

			continue
		}

		if r.HasServoOutput() && !r.HasFeedback() {
			d.AddWarning(CodeClosedLoop,
				fmt.Sprintf("axis %s has a servo output but no encoder or resolver feedback", subject), subject,
				machine.RoleSignal(a, "encoder"), machine.RoleSignal(a, "resolver"))
		}
	}
}

func checkSwitches(m *machine.MachineConfig, d *diagnostic.Diagnostics) {
	for _, a := range m.Axes {
		l := a.String()
		subject := strings.ToUpper(l)

		homes := lo.Filter([]string{
			"home-" + l, "min-home-" + l, "max-home-" + l, "both-home-" + l, "all-home", "all-limit-home",
		}, func(s string, _ int) bool { return m.HasSignal(s) })

		if len(homes) > 1 {
			d.AddWarning(CodeHomeExclusive,
				fmt.Sprintf("axis %s has more than one home input: %s", subject, strings.Join(homes, ", ")), subject)
		}

		shared := lo.Filter([]string{"both-" + l, "both-home-" + l, "all-limit", "all-limit-home"},
			func(s string, _ int) bool { return m.HasSignal(s) })
		single := lo.Filter([]string{"min-" + l, "max-" + l, "min-home-" + l, "max-home-" + l},
			func(s string, _ int) bool { return m.HasSignal(s) })

		if len(shared) > 1 || (len(shared) > 0 && len(single) > 0) {
			d.AddWarning(CodeLimitExclusive,
				fmt.Sprintf("axis %s mixes limit inputs: %s", subject, strings.Join(append(shared, single...), ", ")), subject)
		}
	}
}

func checkTouchy(m *machine.MachineConfig, d *diagnostic.Diagnostics) {
	if m.Options.Frontend != machine.FrontendTouchy {
		return
	}

	const subject = "touchy"

	for _, s := range []string{"cycle-start", "abort", "single-step"} {
		if !m.HasSignal(s) {
			d.AddWarning(CodeTouchy, fmt.Sprintf("touchy needs an external %s input", s), subject, s)
		}
	}

	if !m.HasSignal("mpg-encoder-a") {
		d.AddWarning(CodeTouchy, "touchy needs a shared mpg encoder", subject, "mpg-encoder")
	}

	if !m.Options.ExternalMPG {
		d.AddWarning(CodeTouchy, "touchy needs external mpg jogging enabled", subject)
	}

	if !m.Options.SharedMPG {
		d.AddWarning(CodeTouchy, "touchy needs one shared mpg, not one per axis", subject)
	}

	if m.Options.IncrementsSelectable {
		d.AddWarning(CodeTouchy, "touchy cannot use selectable jog increments", subject)
	}
}

func checkDaughters(m *machine.MachineConfig, d *diagnostic.Diagnostics) {
	for i, mb := range m.Mesa {
		if mb == nil {
			continue
		}

		conns := lo.Keys(mb.ConnectorDaughters)
		slices.Sort(conns)

		for _, conn := range conns {
			model := mb.ConnectorDaughters[conn]

			req, ok := firmware.LookupConnectorDaughter(model)
			if !ok {
				continue
			}

			subject := fmt.Sprintf("mesa%d connector %d (%s)", i, conn, model)

			modes := pwmModesOnConnector(m, i, conn)
			if len(modes) == 0 {
				continue
			}

			for _, mode := range modes {
				if mode != req.Mode {
					d.AddWarning(CodeDaughterMode,
						fmt.Sprintf("%s needs %s generators, found %s", model, req.Mode, mode), subject)

					break
				}
			}

			freq := mb.PWMFrequency
			if req.Mode == firmware.ModePDM {
				freq = mb.PDMFrequency
			}

			if freq != req.Frequency {
				d.AddWarning(CodeDaughterFrequency,
					fmt.Sprintf("%s needs a %s base frequency of %d Hz, board is set to %d Hz", model, req.Mode, req.Frequency, freq),
					subject)
			}
		}
	}
}

// pwmModesOnConnector returns the modes of used pwm generator pins on a connector.
func pwmModesOnConnector(m *machine.MachineConfig, board, conn int) []firmware.PWMMode {
	var modes []firmware.PWMMode

	for _, l := range m.Locations() {
		if l.Source != machine.SourceMesa || l.Board != board || l.Connector != conn {
			continue
		}

		p, err := m.Pin(l)
		if err != nil || !p.IsUsed() || !p.Type.IsControlling() {
			continue
		}

		if mode, ok := p.Type.Mode(); ok && p.Type != firmware.AnalogOutput {
			modes = append(modes, mode)
		}
	}

	return lo.Uniq(modes)
}

func checkDuplicates(m *machine.MachineConfig, d *diagnostic.Diagnostics) {
	seen := map[string][]machine.Location{}

	var order []string

	for _, l := range m.Locations() {
		p, err := m.Pin(l)
		if err != nil || !p.IsUsed() || !p.Type.IsControlling() {
			continue
		}

		// one output signal may drive several pins
		if kind, ok := signal.KindOf(p.Type); ok && kind == signal.KindOutput {
			continue
		}

		if _, ok := seen[p.Signal]; !ok {
			order = append(order, p.Signal)
		}

		seen[p.Signal] = append(seen[p.Signal], l)
	}

	for _, name := range order {
		locs := seen[name]
		if len(locs) < 2 {
			continue
		}

		where := lo.Map(locs, func(l machine.Location, _ int) string { return l.String() })
		d.AddWarning(CodeDuplicateSignal,
			fmt.Sprintf("%s is placed on %d pins: %s", name, len(locs), strings.Join(where, ", ")), name)
	}
}
