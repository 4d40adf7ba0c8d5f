package gen

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"halconf-generator/internal/machine"
	"halconf-generator/internal/scale"
)

var (
	stepgenMargin     = decimal.RequireFromString("1.25")
	stepgenCompMargin = decimal.RequireFromString("2.0")
	limitPadMetric    = decimal.RequireFromString("0.01")
	limitPadImperial  = decimal.RequireFromString("0.001")
)

// homeSequence is the homing order by axis index: z first, then x, y, a.
const homeSequence = "1203"

// StepgenMaxAccel is the stepgen acceleration limit of an axis. Backlash or
// screw compensation needs extra headroom.
func StepgenMaxAccel(c *machine.AxisConfig) decimal.Decimal {
	m := stepgenMargin
	if c.UseBacklash || c.UseComp {
		m = stepgenCompMargin
	}

	return decimal.NewFromFloat(c.MaxAccel).Mul(m)
}

// StepgenMaxVel is the stepgen velocity limit of an axis.
func StepgenMaxVel(c *machine.AxisConfig) decimal.Decimal {
	return decimal.NewFromFloat(c.MaxVel).Mul(stepgenMargin)
}

// Parameters renders the ini file of a configuration.
func (g *Generator) Parameters(m *machine.MachineConfig) ([]byte, error) {
	w, err := newWiring(m)
	if err != nil {
		return nil, err
	}

	t := &text{}
	g.header(t, m)
	t.blank()

	base := FileBase(m)
	o := m.Options
	plans := planAxes(m)

	t.line("[EMC]")
	t.key("MACHINE", m.Name)
	t.key("DEBUG", 0)
	t.blank()

	t.line("[DISPLAY]")
	t.key("DISPLAY", o.Frontend)
	t.key("POSITION_OFFSET", o.Position)
	t.key("POSITION_FEEDBACK", "ACTUAL")
	t.key("MAX_FEED_OVERRIDE", pyFloat(o.MaxFeedOverride))
	t.key("MAX_SPINDLE_OVERRIDE", pyFloat(o.MaxSpindleOverride))
	t.key("DEFAULT_LINEAR_VELOCITY", pyFloat(o.DefaultLinearVel))
	t.key("MAX_LINEAR_VELOCITY", pyFloat(o.MaxLinearVel))

	if m.HasAxis(machine.AxisA) {
		a := m.Axis(machine.AxisA)
		t.key("DEFAULT_ANGULAR_VELOCITY", pyFloat(a.MaxVel/4))
		t.key("MAX_ANGULAR_VELOCITY", pyFloat(a.MaxVel))
	}

	t.key("INTRO_GRAPHIC", "linuxcnc.gif")
	t.key("INTRO_TIME", 5)
	t.key("PROGRAM_PREFIX", "~/linuxcnc/nc_files")
	t.key("INCREMENTS", increments(o.Increments, m.Units))
	t.blank()

	t.line("[FILTER]")
	t.key("PROGRAM_EXTENSION", ".png,.gif,.jpg Greyscale Depth Image")
	t.key("PROGRAM_EXTENSION", ".py Python Script")
	t.key("png", "image-to-gcode")
	t.key("gif", "image-to-gcode")
	t.key("jpg", "image-to-gcode")
	t.key("py", "python")
	t.blank()

	t.line("[TASK]")
	t.key("TASK", "milltask")
	t.key("CYCLE_TIME", "0.010")
	t.blank()

	t.line("[RS274NGC]")
	t.key("PARAMETER_FILE", "linuxcnc.var")
	t.blank()

	t.line("[EMCMOT]")
	t.key("EMCMOT", "motmod")
	t.key("COMM_TIMEOUT", "1.0")
	t.key("COMM_WAIT", "0.010")
	t.key("SERVO_PERIOD", o.ServoPeriodNS)
	t.blank()

	hostmot2(t, m)

	t.line("[HAL]")
	t.key("HALUI", "halui")
	t.key("HALFILE", base+".hal")
	t.key("HALFILE", "custom.hal")

	if o.Frontend == machine.FrontendTouchy {
		t.key("POSTGUI_HALFILE", "touchy.hal")
	} else {
		t.key("POSTGUI_HALFILE", "custom_postgui.hal")
	}

	t.key("SHUTDOWN", "shutdown.hal")
	t.blank()

	t.line("[HALUI]")
	t.comment("add halui MDI commands here (max 64)")
	t.blank()

	t.line("[TRAJ]")
	t.key("AXES", lo.Max(lo.Map(m.Axes, func(a machine.Axis, _ int) int { return a.Index() }))+1)
	t.key("COORDINATES", strings.Join(strings.Split(machine.Coordinates(m.Axes), ""), " "))
	t.key("LINEAR_UNITS", m.Units)
	t.key("ANGULAR_UNITS", "degree")
	t.key("CYCLE_TIME", "0.010")
	t.key("DEFAULT_VELOCITY", pyFloat(o.DefaultLinearVel))
	t.key("MAX_LINEAR_VELOCITY", pyFloat(o.MaxLinearVel))
	t.blank()

	t.line("[EMCIO]")
	t.key("EMCIO", "io")
	t.key("CYCLE_TIME", "0.100")
	t.key("TOOL_TABLE", "tool.tbl")
	t.blank()

	sequenced := !o.IndividualHoming && lo.EveryBy(m.Axes, func(a machine.Axis) bool {
		_, ok := w.first(homeSignals(a.String())...)

		return ok
	})

	for _, p := range plans {
		if err := axisSection(t, m, w, p, sequenced); err != nil {
			return nil, fmt.Errorf("axis %s: %w", p.Axis, err)
		}
	}

	return t.bytes(), nil
}

func increments(incs []float64, u machine.Units) string {
	return strings.Join(lo.Map(incs, func(v float64, _ int) string { return num(v) + u.String() }), " ")
}

func hostmot2(t *text, m *machine.MachineConfig) {
	var boards []*machine.MesaBoard

	for _, mb := range m.Mesa {
		if mb != nil {
			boards = append(boards, mb)
		}
	}

	if len(boards) == 0 {
		return
	}

	t.line("[HOSTMOT2]")

	for i, mb := range boards {
		t.key(fmt.Sprintf("DRIVER%d", i), mb.Board.Driver)
		t.key(fmt.Sprintf("BOARD%d", i), mb.Board.BoardName)
		t.key(fmt.Sprintf("CONFIG%d", i), fmt.Sprintf("%q", boardConfig(mb)))
	}

	t.blank()
}

func axisSection(t *text, m *machine.MachineConfig, w *wiring, p axisPlan, sequenced bool) error {
	c, r, a := p.Config, p.Role, p.Axis

	t.line("[%s]", a.Section())

	if a != machine.AxisSpindle {
		kind := "LINEAR"
		if a.IsRotary() {
			kind = "ANGULAR"
		}

		t.key("TYPE", kind)
		t.key("HOME", pyFloat(c.Home))
		t.key("FERROR", pyFloat(c.FError))
		t.key("MIN_FERROR", pyFloat(c.MinFError))
	}

	t.key("MAX_VELOCITY", pyFloat(c.MaxVel))
	t.key("MAX_ACCELERATION", pyFloat(c.MaxAccel))

	params := scale.ParamsFor(m, a)

	if r.Stepgen != nil {
		step, err := scale.StepScale(params)
		if err != nil {
			return err
		}

		t.key("STEPGEN_MAXVEL", decText(StepgenMaxVel(c)))
		t.key("STEPGEN_MAXACCEL", decText(StepgenMaxAccel(c)))
		t.comment("these are in nanoseconds")
		t.key("DIRSETUP", num(c.DirSetup))
		t.key("DIRHOLD", num(c.DirHold))
		t.key("STEPLEN", num(c.StepTime))
		t.key("STEPSPACE", num(c.StepSpace))
		t.key("STEP_SCALE", decText(step))
	}

	if p.PID {
		for _, kv := range []struct {
			k string
			v float64
		}{
			{"P", c.P}, {"I", c.I}, {"D", c.D},
			{"FF0", c.FF0}, {"FF1", c.FF1}, {"FF2", c.FF2},
			{"BIAS", c.Bias}, {"DEADBAND", c.Deadband}, {"MAX_OUTPUT", c.MaxOutput},
		} {
			t.key(kv.k, pyFloat(kv.v))
		}
	}

	if r.PWM != nil || r.TPPWM != nil || r.Pot != nil || r.Amp8i20 != nil {
		t.key("OUTPUT_SCALE", pyFloat(c.OutputScale))
		t.key("OUTPUT_MIN_LIMIT", pyFloat(c.OutputMinLimit))
		t.key("OUTPUT_MAX_LIMIT", pyFloat(c.OutputMaxLimit))
	}

	if r.HasFeedback() {
		enc, err := scale.EncoderScale(params)
		if err != nil {
			return err
		}

		t.key("ENCODER_SCALE", decText(enc))
	}

	if p.BLDC {
		t.key("BLDC_POLES", c.BLDC.PolePairs)
		t.key("BLDC_ENCODER_OFFSET", c.BLDC.EncoderOffset)
	}

	if a == machine.AxisSpindle {
		if r.HasFeedback() && c.AtSpeedScale > 0 {
			near := decimal.NewFromInt(1).Div(decimal.NewFromFloat(c.AtSpeedScale)).Round(4)
			t.key("NEAR_SCALE", decText(near))
		}

		t.blank()

		return nil
	}

	if c.UseBacklash {
		t.key("BACKLASH", pyFloat(c.Backlash))
	}

	if c.UseComp {
		t.key("COMP_FILE", c.CompFile)
		t.key("COMP_FILE_TYPE", c.CompType)
	}

	minLimit, maxLimit := travel(c, m.Units)
	t.key("MIN_LIMIT", decText(minLimit))
	t.key("MAX_LIMIT", decText(maxLimit))

	homing(t, w, p, sequenced)
	t.blank()

	return nil
}

// travel returns the soft limits, pushed just past the home position when
// home sits exactly on a limit.
func travel(c *machine.AxisConfig, u machine.Units) (decimal.Decimal, decimal.Decimal) {
	pad := limitPadMetric
	if u == machine.UnitsImperial {
		pad = limitPadImperial
	}

	minL, maxL := decimal.NewFromFloat(c.MinLimit), decimal.NewFromFloat(c.MaxLimit)
	home := decimal.NewFromFloat(c.Home)

	if home.Equal(minL) {
		minL = minL.Sub(pad)
	}

	if home.Equal(maxL) {
		maxL = maxL.Add(pad)
	}

	return minL, maxL
}

func homing(t *text, w *wiring, p axisPlan, sequenced bool) {
	c, l := p.Config, p.Axis.String()

	home, hasHome := w.first(homeSignals(l)...)

	search, latch := 0.0, 0.0
	if hasHome {
		search = math.Abs(c.SearchVel)
		if !c.SearchPositive && search != 0 {
			search = -search
		}

		// latch follows the search direction or reverses it
		neg := !c.SearchPositive
		if !c.LatchSameDirection {
			neg = !neg
		}

		latch = math.Abs(c.LatchVel)
		if neg && latch != 0 {
			latch = -latch
		}
	}

	t.key("HOME_OFFSET", pyFloat(c.HomeOffset))
	t.key("HOME_SEARCH_VEL", pyFloat(search))
	t.key("HOME_LATCH_VEL", pyFloat(latch))

	if c.FinalVel != 0 {
		t.key("HOME_FINAL_VEL", pyFloat(c.FinalVel))
	}

	t.key("HOME_USE_INDEX", yesNo(c.UseIndex && p.Role.HasFeedback()))

	if hasHome && slices.Contains([]string{"min-home-" + l, "max-home-" + l, "both-home-" + l, "all-limit-home"}, home) {
		t.key("HOME_IGNORE_LIMITS", "YES")
	}

	if hasHome && (home == "all-home" || home == "all-limit-home") {
		t.key("HOME_IS_SHARED", 1)
	}

	if sequenced {
		t.key("HOME_SEQUENCE", string(homeSequence[p.Axis.Index()]))
	}
}
