package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"halconf-generator/internal/firmware"
	"halconf-generator/internal/machine"
)

// netlist is the state of one netlist rendering.
type netlist struct {
	g     *Generator
	m     *machine.MachineConfig
	w     *wiring
	t     *text
	plans []axisPlan
}

// Netlist renders the hal file of a configuration.
func (g *Generator) Netlist(m *machine.MachineConfig) ([]byte, error) {
	w, err := newWiring(m)
	if err != nil {
		return nil, err
	}

	n := &netlist{g: g, m: m, w: w, t: &text{}, plans: planAxes(m)}

	g.header(n.t, m)
	n.t.blank()

	steps := []func() error{
		n.loads,
		n.functions,
		n.chargePump,
		n.outputs,
		n.inputs,
		n.axes,
		n.trailer,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	return n.t.bytes(), nil
}

// mesa returns the selected boards with their slot index.
func (n *netlist) mesa() []lo.Tuple2[int, *machine.MesaBoard] {
	var out []lo.Tuple2[int, *machine.MesaBoard]

	for i, mb := range n.m.Mesa {
		if mb != nil {
			out = append(out, lo.T2(i, mb))
		}
	}

	return out
}

func (n *netlist) parports() []lo.Tuple2[int, *machine.Parport] {
	var out []lo.Tuple2[int, *machine.Parport]

	for i, p := range n.m.Parports {
		if p != nil {
			out = append(out, lo.T2(i, p))
		}
	}

	return out
}

// sserialConfig is the per channel mode string of smart-serial port 0,
// a mode digit for channels with a daughter board and 'x' for the rest.
func sserialConfig(mb *machine.MesaBoard) string {
	var b strings.Builder

	for ch := range 8 {
		if d, ok := mb.Channels[ch]; ok {
			b.WriteString(strconv.Itoa(d.Mode))
		} else {
			b.WriteByte('x')
		}
	}

	return b.String()
}

// boardConfig is the config string the hostmot2 driver loads a board with.
func boardConfig(mb *machine.MesaBoard) string {
	b, c := mb.Board, mb.Board.Counts

	parts := []string{
		fmt.Sprintf("firmware=hm2/%s/%s.BIT", b.BoardName, b.Firmware),
		fmt.Sprintf("num_encoders=%d", c.Encoders),
	}

	if b.Max.Resolvers > 0 {
		parts = append(parts, fmt.Sprintf("num_resolvers=%d", c.Resolvers))
	}

	parts = append(parts,
		fmt.Sprintf("num_pwmgens=%d", c.PWMGens),
		fmt.Sprintf("num_3pwmgens=%d", c.TPPWMGens),
		fmt.Sprintf("num_stepgens=%d", c.StepGens),
	)

	if c.SSerialPorts > 0 {
		parts = append(parts, "sserial_port_0="+sserialConfig(mb))
	}

	return strings.Join(parts, " ")
}

func (n *netlist) loads() error {
	t := n.t

	t.line("loadrt trivkins")
	t.line("loadrt [EMCMOT]EMCMOT servo_period_nsec=[EMCMOT]SERVO_PERIOD num_joints=[TRAJ]AXES")

	boards := n.mesa()
	if len(boards) > 0 {
		t.line("loadrt hostmot2")

		drivers := lo.Uniq(lo.Map(boards, func(b lo.Tuple2[int, *machine.MesaBoard], _ int) string {
			return b.B.Board.Driver
		}))

		for _, driver := range drivers {
			configs := lo.FilterMap(boards, func(b lo.Tuple2[int, *machine.MesaBoard], _ int) (string, bool) {
				return boardConfig(b.B), b.B.Board.Driver == driver
			})

			t.line("loadrt %s config=%q", driver, strings.Join(configs, ","))
		}

		for _, b := range boards {
			prefix, c := boardPrefix(b.B, b.A), b.B.Board.Counts

			if c.PWMGens > 0 {
				t.setp(prefix+".pwmgen.pwm_frequency", b.B.PWMFrequency)
				t.setp(prefix+".pwmgen.pdm_frequency", b.B.PDMFrequency)
			}

			if c.TPPWMGens > 0 {
				t.setp(prefix+".3pwmgen.frequency", b.B.PWMFrequency)
			}

			t.setp(prefix+".watchdog.timeout_ns", b.B.WatchdogNS)
		}
	}

	if ports := n.parports(); len(ports) > 0 {
		cfg := lo.Map(ports, func(p lo.Tuple2[int, *machine.Parport], _ int) string {
			return p.B.Address + " " + p.B.Direction.String()
		})

		t.line("loadrt hal_parport cfg=%q", strings.Join(cfg, " "))
	}

	pids := lo.FilterMap(n.plans, func(p axisPlan, _ int) (string, bool) {
		return p.pidName(), p.PID
	})
	if len(pids) > 0 {
		t.line("loadrt pid names=%s", strings.Join(pids, ","))
	}

	bldcs := lo.Filter(n.plans, func(p axisPlan, _ int) bool { return p.BLDC })
	if len(bldcs) > 0 {
		cfg := lo.Map(bldcs, func(p axisPlan, _ int) string { return bldcConfig(p.Config.BLDC) })
		names := lo.Map(bldcs, func(p axisPlan, _ int) string { return p.bldcName() })
		t.line("loadrt bldc cfg=%s names=%s", strings.Join(cfg, ","), strings.Join(names, ","))
	}

	if n.spindleAbs() {
		t.line("loadrt abs names=abs.spindle")
	}

	if n.spindleNear() {
		t.line("loadrt near names=near.spindle")
	}

	if n.w.has("charge-pump") {
		t.line("loadrt charge_pump")
	}

	if n.m.Options.ClassicLadder {
		t.line("loadrt classicladder_rt")
	}

	if n.selectableIncrements() {
		t.line("loadrt mux4 names=jogincr")
	}

	t.blank()

	return nil
}

func (n *netlist) functionList() []function {
	var fns []function

	for _, b := range n.mesa() {
		fns = append(fns, function{Name: boardPrefix(b.B, b.A) + ".read", Stage: stageRead})
	}

	for _, p := range n.parports() {
		fns = append(fns, function{Name: fmt.Sprintf("parport.%d.read", p.A), Stage: stageRead})
	}

	fns = append(fns,
		function{Name: "motion-command-handler", Stage: stageMotion},
		function{Name: "motion-controller", Stage: stageMotion, After: []string{"motion-command-handler"}},
	)

	for _, p := range n.plans {
		if p.PID {
			fns = append(fns, function{Name: p.pidName() + ".do-pid-calcs", Stage: stageCompute})
		}

		if p.BLDC {
			fns = append(fns, function{
				Name:  p.bldcName(),
				Stage: stageCompute,
				After: []string{p.pidName() + ".do-pid-calcs"},
			})
		}
	}

	if n.spindleAbs() {
		fns = append(fns, function{Name: "abs.spindle", Stage: stageCompute, After: []string{"pid.s.do-pid-calcs"}})
	}

	if n.spindleNear() {
		fns = append(fns, function{Name: "near.spindle", Stage: stageCompute})
	}

	if n.selectableIncrements() {
		fns = append(fns, function{Name: "jogincr", Stage: stageCompute})
	}

	if n.w.has("charge-pump") {
		fns = append(fns, function{Name: "charge-pump", Stage: stageCompute})
	}

	if n.m.Options.ClassicLadder {
		fns = append(fns, function{Name: "classicladder.0.refresh", Stage: stageCompute})
	}

	for _, b := range n.mesa() {
		fns = append(fns, function{Name: boardPrefix(b.B, b.A) + ".write", Stage: stageWrite})
	}

	for _, p := range n.parports() {
		fns = append(fns, function{Name: fmt.Sprintf("parport.%d.write", p.A), Stage: stageWrite})
	}

	for _, b := range n.mesa() {
		fns = append(fns, function{Name: boardPrefix(b.B, b.A) + ".pet_watchdog", Stage: stageWatchdog})
	}

	return fns
}

func (n *netlist) functions() error {
	fns, err := orderFunctions(n.functionList())
	if err != nil {
		return fmt.Errorf("ordering thread functions: %w", err)
	}

	for _, f := range fns {
		n.t.line("addf %s servo-thread", f.Name)
	}

	n.t.blank()

	return nil
}

func (n *netlist) chargePump() error {
	if !n.w.has("charge-pump") {
		return nil
	}

	n.t.comment("---charge pump signals---")
	n.t.net("estop-out", "=>", "charge-pump.enable")
	n.t.net("charge-pump", "<=", "charge-pump.out")
	n.t.blank()

	return nil
}

func isOutputType(f firmware.Family) bool {
	return f == firmware.GPIOOutput || f == firmware.GPIOOpenDrain
}

func isInputType(f firmware.Family) bool {
	return f == firmware.GPIOInput || f == firmware.AnalogIn
}

func (n *netlist) outputs() error {
	t := n.t
	t.comment("external output signals")
	t.blank()

	for _, p := range n.w.pins {
		if !isOutputType(p.Type) {
			continue
		}

		pin, err := n.w.outputPin(p)
		if err != nil {
			return err
		}

		t.comment("--- %s ---", strings.ToUpper(p.Signal))
		t.line("net %s  =>  %s", p.Signal, pin)

		switch p.Loc.Source {
		case machine.SourceMesa:
			stem, err := n.w.halName(p)
			if err != nil {
				return err
			}

			t.setp(stem+".is_output", "true")

			if p.Invert {
				t.setp(stem+".invert_output", "true")
			}

			if p.Type == firmware.GPIOOpenDrain {
				t.setp(stem+".is_opendrain", "true")
			}
		default:
			if p.Invert {
				t.setp(pin+"-invert", "true")
			}
		}

		t.blank()
	}

	return nil
}

func (n *netlist) inputs() error {
	t := n.t
	t.comment("external input signals")
	t.blank()

	for _, p := range n.w.pins {
		if !isInputType(p.Type) {
			continue
		}

		pin, err := n.w.inputPin(p)
		if err != nil {
			return err
		}

		t.comment("--- %s ---", strings.ToUpper(p.Signal))
		t.line("net %s  <=  %s", p.Signal, pin)
		t.blank()
	}

	return nil
}
