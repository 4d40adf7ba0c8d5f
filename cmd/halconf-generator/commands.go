package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"halconf-generator/internal/common"
	"halconf-generator/internal/diagnostic"
	"halconf-generator/internal/firmware"
	"halconf-generator/internal/gen"
	"halconf-generator/internal/machine"
	"halconf-generator/internal/match"
	"halconf-generator/internal/sanity"
	"halconf-generator/internal/scale"
	"halconf-generator/internal/signal"
)

var (
	errUsage    = errors.New("wrong arguments")
	errWarnings = errors.New("configuration has warnings")
)

func needArgs(c *cli.Context, n int) error {
	if c.NArg() < n {
		return fmt.Errorf("%w: %s %s", errUsage, c.Command.Name, c.Command.ArgsUsage)
	}

	return nil
}

func (t *tool) boardsAction(c *cli.Context) error {
	w := c.App.Writer

	boards := newTable("Board", "Driver", "Connectors", "Encoders", "Resolvers", "PWM", "3PWM", "Stepgens", "SSerial")
	for _, b := range t.catalog.Boards() {
		conns := lo.Map(b.Connectors, func(n int, _ int) string { return strconv.Itoa(n) })
		boards.AppendRow([]any{
			b.Key(), b.Driver, strings.Join(conns, ","),
			b.Max.Encoders, b.Max.Resolvers, b.Max.PWMGens, b.Max.TPPWMGens, b.Max.StepGens,
			b.Max.Of(firmware.GroupSmartSerial),
		})
	}

	printf(w, "%s", boards.Render())

	daughters := newTable("Daughter board", "Component", "Mode", "Pins")
	for _, d := range t.catalog.Daughters() {
		daughters.AppendRow([]any{d.Model, d.Component, d.Mode, len(d.Pins)})
	}

	printf(w, "%s", daughters.Render())

	conn := newTable("Connector board", "Mode", "Frequency")
	for _, d := range firmware.ConnectorDaughters() {
		conn.AppendRow([]any{d.Model, d.Mode, d.Frequency})
	}

	printf(w, "%s", conn.Render())

	return nil
}

func (t *tool) signalsAction(c *cli.Context) error {
	ns := signal.NewNamespace(t.logger)

	if _, err := os.Stat(c.String(flagMachine)); err == nil {
		s, err := t.open(c)
		if err != nil {
			return err
		}

		ns = s.ns
	}

	kinds := signal.Kinds
	if c.IsSet("kind") {
		k, ok := signal.ParseKind(c.String("kind"))
		if !ok {
			names := lo.Map(signal.Kinds, func(k signal.Kind, _ int) string { return k.String() })

			return fmt.Errorf("%w: unknown kind %q, want one of %s", errUsage, c.String("kind"), strings.Join(names, ", "))
		}

		kinds = []signal.Kind{k}
	}

	tbl := newTable("Signal", "Label", "Category", "Kind", "Custom")
	for _, k := range kinds {
		for _, s := range ns.ByKind(k) {
			tbl.AppendRow([]any{s.Name, s.Label, s.Category, s.Kind, mark(s.Custom)})
		}
	}

	printf(c.App.Writer, "%s", tbl.Render())

	return nil
}

func (t *tool) newAction(c *cli.Context) error {
	if err := needArgs(c, 1); err != nil {
		return err
	}

	path := c.String(flagMachine)
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists, use --force to replace it", path)
	}

	units, ok := lo.Find([]machine.Units{machine.UnitsMetric, machine.UnitsImperial}, func(u machine.Units) bool {
		return u.String() == c.String("units")
	})
	if !ok {
		return fmt.Errorf("%w: units must be mm or inch", errUsage)
	}

	axes, ok := machine.ParseCoordinates(c.String("axes"))
	if !ok {
		return fmt.Errorf("%w: bad axes %q", errUsage, c.String("axes"))
	}

	frontend, ok := lo.Find(
		[]machine.Frontend{machine.FrontendAxis, machine.FrontendTkLinuxCNC, machine.FrontendTouchy},
		func(f machine.Frontend) bool { return f.String() == c.String("frontend") },
	)
	if !ok {
		return fmt.Errorf("%w: unknown frontend %q", errUsage, c.String("frontend"))
	}

	m := machine.New(strings.Join(c.Args().Slice(), " "), units)
	m.Axes = axes
	m.Options.Frontend = frontend

	s := t.session(path, m, signal.NewNamespace(t.logger))

	for i, key := range c.StringSlice("board") {
		title, fw, ok := strings.Cut(key, "/")
		if !ok {
			return fmt.Errorf("%w: board %q is not TITLE/FIRMWARE", errUsage, key)
		}

		if err := s.r.SelectBoard(i, title, fw); err != nil {
			return err
		}
	}

	for i, spec := range c.StringSlice("parport") {
		p, err := parseParport(spec)
		if err != nil {
			return err
		}

		if err := m.SetParport(i, p); err != nil {
			return err
		}
	}

	if err := s.save(); err != nil {
		return err
	}

	successf(c.App.Writer, "created %s (%s)", path, m.ID)

	return nil
}

func parseParport(spec string) (machine.Parport, error) {
	addr, dir, _ := strings.Cut(spec, ":")

	p := machine.Parport{Address: addr, Direction: machine.ParportOut}

	switch dir {
	case "", "out":
	case "in":
		p.Direction = machine.ParportIn
	default:
		return p, fmt.Errorf("%w: parport mode must be in or out, got %q", errUsage, dir)
	}

	return p, nil
}

func slotArg(c *cli.Context, i int) (int, error) {
	n, err := strconv.Atoi(c.Args().Get(i))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, c.Args().Get(i))
	}

	return n, nil
}

func (t *tool) boardAction(c *cli.Context) error {
	if err := needArgs(c, 1); err != nil {
		return err
	}

	slot, err := slotArg(c, 0)
	if err != nil {
		return err
	}

	if !common.IsInRange(0, slot, machine.MaxMesaBoards-1) {
		return fmt.Errorf("%w: slot must be 0..%d", errUsage, machine.MaxMesaBoards-1)
	}

	return t.edit(c, func(s *session) error {
		if c.Bool("remove") {
			s.m.RemoveMesa(slot)

			return nil
		}

		if c.NArg() > 1 {
			title, fw, ok := strings.Cut(c.Args().Get(1), "/")
			if !ok {
				return fmt.Errorf("%w: board %q is not TITLE/FIRMWARE", errUsage, c.Args().Get(1))
			}

			if err := s.r.SelectBoard(slot, title, fw); err != nil {
				return err
			}
		}

		mb, err := s.m.MesaBoard(slot)
		if err != nil {
			return err
		}

		counts := mb.Board.Counts
		changed := false

		for name, p := range map[string]*int{
			"encoders":         &counts.Encoders,
			"resolvers":        &counts.Resolvers,
			"pwmgens":          &counts.PWMGens,
			"tppwmgens":        &counts.TPPWMGens,
			"stepgens":         &counts.StepGens,
			"sserial-channels": &counts.SSerialChannels,
		} {
			if c.IsSet(name) {
				*p = c.Int(name)
				changed = true
			}
		}

		if changed {
			if err := s.r.SetCounts(slot, counts); err != nil {
				return err
			}

			mb, _ = s.m.MesaBoard(slot)
		}

		if c.IsSet("pwm-frequency") {
			mb.PWMFrequency = c.Int("pwm-frequency")
		}

		if c.IsSet("pdm-frequency") {
			mb.PDMFrequency = c.Int("pdm-frequency")
		}

		if c.IsSet("watchdog") {
			mb.WatchdogNS = c.Int("watchdog")
		}

		printf(c.App.Writer, "mesa%d: %s %+v", slot, mb.Board.Key(), mb.Board.Counts)

		return nil
	})
}

func (t *tool) daughterAction(c *cli.Context) error {
	if err := needArgs(c, 3); err != nil {
		return err
	}

	slot, err := slotArg(c, 0)
	if err != nil {
		return err
	}

	n, err := slotArg(c, 1)
	if err != nil {
		return err
	}

	model := c.Args().Get(2)

	return t.edit(c, func(s *session) error {
		if c.Bool("connector") {
			return s.r.SetConnectorDaughter(slot, n, model)
		}

		return s.r.SelectDaughterBoard(slot, n, model)
	})
}

func (t *tool) assignAction(c *cli.Context) error {
	if err := needArgs(c, 2); err != nil {
		return err
	}

	loc, err := machine.ParseLocation(c.Args().First())
	if err != nil {
		return err
	}

	text := strings.Join(c.Args().Tail(), " ")

	return t.edit(c, func(s *session) error {
		if err := s.r.AssignSignal(loc, text); err != nil {
			return err
		}

		pin, err := s.m.Pin(loc)
		if err != nil {
			return err
		}

		printf(c.App.Writer, "%s = %s", loc, lo.Ternary(pin.IsUsed(), pin.Signal, "unused"))

		return nil
	})
}

func (t *tool) invertAction(c *cli.Context) error {
	if err := needArgs(c, 1); err != nil {
		return err
	}

	loc, err := machine.ParseLocation(c.Args().First())
	if err != nil {
		return err
	}

	return t.edit(c, func(s *session) error {
		return s.r.SetInverted(loc, !c.Bool("off"))
	})
}

func (t *tool) pinTypeAction(c *cli.Context) error {
	if err := needArgs(c, 2); err != nil {
		return err
	}

	loc, err := machine.ParseLocation(c.Args().First())
	if err != nil {
		return err
	}

	name := c.Args().Get(1)

	f, ok := firmware.ParseFamily(name)
	if !ok {
		names := make([]string, 0, int(firmware.FamilyTotal))
		for i := range firmware.FamilyTotal {
			names = append(names, firmware.Family(i).String())
		}

		err := fmt.Errorf("%w: unknown pin type %q", errUsage, name)
		if s := match.Suggest(name, names, 3); len(s) > 0 {
			err = fmt.Errorf("%w (did you mean %s)", err, strings.Join(s, ", "))
		}

		return err
	}

	return t.edit(c, func(s *session) error {
		return s.r.SetPinType(loc, f)
	})
}

func (t *tool) pinsAction(c *cli.Context) error {
	s, err := t.open(c)
	if err != nil {
		return err
	}

	locs := s.m.Locations()
	if c.Bool("used") {
		locs = lo.Filter(locs, func(l machine.Location, _ int) bool { return pinSignal(s.m, l) != "" })
	}

	tbl := newTable("Location", "Type", "Signal", "Inverted")
	for _, l := range locs {
		pin, err := s.m.Pin(l)
		if err != nil {
			return err
		}

		tbl.AppendRow([]any{l, pin.Type, lo.Ternary(pin.IsUsed(), pin.Signal, "-"), mark(pin.Inverted)})
	}

	printf(c.App.Writer, "%s", tbl.Render())

	return nil
}

func pinSignal(m *machine.MachineConfig, l machine.Location) string {
	pin, err := m.Pin(l)
	if err != nil {
		return ""
	}

	return pin.Signal
}

func (t *tool) scaleAction(c *cli.Context) error {
	if err := needArgs(c, 1); err != nil {
		return err
	}

	a, ok := machine.ParseAxis(c.Args().First())
	if !ok {
		return fmt.Errorf("%w: unknown axis %q", errUsage, c.Args().First())
	}

	s, err := t.open(c)
	if err != nil {
		return err
	}

	t.logger.Debug("scale inputs", zap.String("params", spew.Sdump(scale.ParamsFor(s.m, a))))

	res, err := scale.Apply(s.m, a)
	if err != nil {
		return err
	}

	tbl := newTable("Axis", "Step scale", "Encoder scale", "Max step rate (Hz)")
	tbl.AppendRow([]any{
		strings.ToUpper(a.String()),
		res.StepScale.String(),
		res.EncoderScale.String(),
		res.MaxStepRate.Round(1).String(),
	})

	printf(c.App.Writer, "%s", tbl.Render())

	return nil
}

func (t *tool) checkAction(c *cli.Context) error {
	s, err := t.open(c)
	if err != nil {
		return err
	}

	d := sanity.Check(s.m)
	report(c, d)

	if c.Bool("strict") && !common.IsEmpty(d.Warnings) {
		return errWarnings
	}

	return nil
}

func report(c *cli.Context, d diagnostic.Diagnostics) {
	w := c.App.Writer

	if common.IsEmpty(d.Warnings) {
		successf(w, "no problems found")

		return
	}

	for _, warn := range d.Warnings {
		msg := fmt.Sprintf("[%s] %s: %s", warn.Code, warn.Subject, warn.Message)
		if best, ok := common.First(warn.Suggestions); ok {
			msg += fmt.Sprintf(" (try %s)", best)
		}

		warningf(w, "%s", msg)
	}
}

func (t *tool) generateAction(c *cli.Context) error {
	s, err := t.open(c)
	if err != nil {
		return err
	}

	report(c, sanity.Check(s.m))

	dir := t.cfg.Output.Dir
	if c.IsSet("out") {
		dir = c.String("out")
	}

	files, err := gen.NewGenerator(gen.DefaultGeneratorConfig(), t.logger).Generate(s.m)
	if err != nil {
		return err
	}

	written, err := gen.WriteFiles(files, dir, t.cfg.Output.OverwriteCustom || c.Bool("overwrite-custom"))
	if err != nil {
		return err
	}

	for _, f := range files {
		path := filepath.Join(dir, f.Filename)
		if slices.Contains(written, f.Filename) {
			printf(c.App.Writer, "wrote %s", path)
		} else {
			printf(c.App.Writer, "kept %s", path)
		}
	}

	return nil
}

func mark(b bool) string {
	return lo.Ternary(b, "yes", "")
}
