package sanity

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halconf-generator/internal/firmware"
	"halconf-generator/internal/machine"
	"halconf-generator/internal/resolve"
	"halconf-generator/internal/signal"
)

type fixture struct {
	m *machine.MachineConfig
	r *resolve.Resolver
}

func newFixture(t *testing.T, title, fw string, axes ...machine.Axis) *fixture {
	t.Helper()

	m := machine.New("test", machine.UnitsMetric)
	if len(axes) > 0 {
		m.Axes = axes
	}

	r := resolve.New(m, signal.NewNamespace(nil), firmware.NewCatalog())
	require.NoError(t, r.SelectBoard(0, title, fw))

	return &fixture{m: m, r: r}
}

func (f *fixture) assign(t *testing.T, loc machine.Location, text string) {
	t.Helper()
	require.NoError(t, f.r.AssignSignal(loc, text))
}

func codes(ds []string) map[string]int {
	out := map[string]int{}
	for _, c := range ds {
		out[c]++
	}

	return out
}

func TestStepgenAndPWMOnOneAxisGivesOneWarning(t *testing.T) {
	f := newFixture(t, "5i20", "SVST8_4", machine.AxisX)
	f.assign(t, machine.MesaPin(0, 4, 0), "x-stepgen")
	f.assign(t, machine.MesaPin(0, 2, 9), "x-pwm")

	d := Check(f.m)

	require.Len(t, d.Warnings, 1, spew.Sdump(d.Warnings))
	assert.Equal(t, CodeAxisDriver, d.Warnings[0].Code)
	assert.Equal(t, "X", d.Warnings[0].Subject)
	assert.Contains(t, d.Warnings[0].Message, "axis X")
}

func TestAxisWithoutDriver(t *testing.T) {
	f := newFixture(t, "5i20", "SVST8_4")
	f.assign(t, machine.MesaPin(0, 4, 0), "x-stepgen")
	f.assign(t, machine.MesaPin(0, 4, 6), "y-stepgen")

	d := Check(f.m)

	require.Len(t, d.Warnings, 1)
	assert.Equal(t, "Z", d.Warnings[0].Subject)
	assert.Equal(t, []string{"z-stepgen-step", "z-pwm-pulse"}, d.Warnings[0].Suggestions)
}

func TestClosedLoopNeedsFeedback(t *testing.T) {
	f := newFixture(t, "5i20", "SVST8_4", machine.AxisX, machine.AxisY)
	f.assign(t, machine.MesaPin(0, 2, 9), "x-pwm")
	f.assign(t, machine.MesaPin(0, 2, 8), "y-pwm")
	f.assign(t, machine.MesaPin(0, 2, 3), "y-encoder")

	d := Check(f.m)

	require.Len(t, d.Warnings, 1)
	assert.Equal(t, CodeClosedLoop, d.Warnings[0].Code)
	assert.Equal(t, "X", d.Warnings[0].Subject)
}

func TestSpindleIsExempt(t *testing.T) {
	f := newFixture(t, "5i20", "SVST8_4", machine.AxisX)
	f.assign(t, machine.MesaPin(0, 4, 0), "x-stepgen")
	f.assign(t, machine.MesaPin(0, 2, 9), "spindle-pwm")

	d := Check(f.m)
	assert.Empty(t, d.Warnings)
}

func TestTandemNeedsMaster(t *testing.T) {
	f := newFixture(t, "5i20", "SVST8_4", machine.AxisX, machine.AxisY)
	f.assign(t, machine.MesaPin(0, 2, 9), "x-pwm")
	f.assign(t, machine.MesaPin(0, 2, 5), "x-encoder")
	f.assign(t, machine.MesaPin(0, 4, 0), "x2-stepgen")
	f.assign(t, machine.MesaPin(0, 4, 6), "y-stepgen")

	d := Check(f.m)

	require.Len(t, d.Warnings, 1)
	assert.Equal(t, CodeTandemMaster, d.Warnings[0].Code)
}

func TestTandemAloneNeedsMaster(t *testing.T) {
	f := newFixture(t, "5i20", "SVST2_8", machine.AxisX)
	f.assign(t, machine.MesaPin(0, 3, 2), "x2-stepgen")

	d := Check(f.m)

	require.Len(t, d.Warnings, 1, spew.Sdump(d.Warnings))
	assert.Equal(t, CodeTandemMaster, d.Warnings[0].Code)
	assert.Equal(t, "X", d.Warnings[0].Subject)
	assert.Equal(t, []string{"x-stepgen-step"}, d.Warnings[0].Suggestions)

	f.assign(t, machine.MesaPin(0, 3, 0), "x-stepgen")

	d = Check(f.m)
	assert.Empty(t, d.Warnings, spew.Sdump(d.Warnings))
}

func TestTouchyRequirements(t *testing.T) {
	f := newFixture(t, "5i20", "SVST2_8", machine.AxisX)
	f.assign(t, machine.MesaPin(0, 3, 0), "x-stepgen")
	f.m.Options.Frontend = machine.FrontendTouchy
	f.m.Options.ExternalMPG = false
	f.m.Options.SharedMPG = false
	f.m.Options.IncrementsSelectable = true

	d := Check(f.m)
	assert.Len(t, d.Warnings, 7)

	for _, w := range d.Warnings {
		assert.Equal(t, CodeTouchy, w.Code)
	}

	f.assign(t, machine.MesaPin(0, 2, 12), "cycle-start")
	f.assign(t, machine.MesaPin(0, 2, 13), "abort")
	f.assign(t, machine.MesaPin(0, 2, 14), "single-step")
	f.assign(t, machine.MesaPin(0, 2, 5), "mpg-encoder")
	f.m.Options.ExternalMPG = true
	f.m.Options.SharedMPG = true
	f.m.Options.IncrementsSelectable = false

	d = Check(f.m)
	assert.Empty(t, d.Warnings, spew.Sdump(d.Warnings))
}

func TestDaughterBoardRequirements(t *testing.T) {
	f := newFixture(t, "5i20", "SVST8_4", machine.AxisX)
	f.assign(t, machine.MesaPin(0, 2, 9), "x-pwm")
	f.assign(t, machine.MesaPin(0, 2, 5), "x-encoder")
	require.NoError(t, f.r.SetConnectorDaughter(0, 2, "7i33"))

	d := Check(f.m)

	require.Len(t, d.Warnings, 1)
	assert.Equal(t, CodeDaughterMode, d.Warnings[0].Code)
	assert.Equal(t, "mesa0 connector 2 (7i33)", d.Warnings[0].Subject)

	require.NoError(t, f.r.SetPinType(machine.MesaPin(0, 2, 9), firmware.PDMPulse))

	d = Check(f.m)
	assert.Empty(t, d.Warnings, "default pdm frequency already matches")

	mb, err := f.m.MesaBoard(0)
	require.NoError(t, err)
	mb.PDMFrequency = 1_000_000

	d = Check(f.m)
	require.Len(t, d.Warnings, 1)
	assert.Equal(t, CodeDaughterFrequency, d.Warnings[0].Code)
}

func TestDaughterBoardFrequency(t *testing.T) {
	f := newFixture(t, "5i20", "SVST8_4", machine.AxisX)
	f.assign(t, machine.MesaPin(0, 2, 9), "x-pwm")
	f.assign(t, machine.MesaPin(0, 2, 5), "x-encoder")
	require.NoError(t, f.r.SetConnectorDaughter(0, 2, "7i40"))

	d := Check(f.m)
	require.Len(t, d.Warnings, 1)
	assert.Equal(t, CodeDaughterFrequency, d.Warnings[0].Code)

	mb, err := f.m.MesaBoard(0)
	require.NoError(t, err)
	mb.PWMFrequency = 50_000

	assert.Empty(t, Check(f.m).Warnings)
}

func TestDaughterOnUnusedConnector(t *testing.T) {
	f := newFixture(t, "5i20", "SVST8_4", machine.AxisX)
	f.assign(t, machine.MesaPin(0, 4, 0), "x-stepgen")
	require.NoError(t, f.r.SetConnectorDaughter(0, 3, "7i33"))

	assert.Empty(t, Check(f.m).Warnings)
}

func TestDuplicateSignal(t *testing.T) {
	f := newFixture(t, "5i20", "SVST2_8", machine.AxisX)
	f.assign(t, machine.MesaPin(0, 3, 0), "x-stepgen")
	f.assign(t, machine.MesaPin(0, 3, 2), "x-stepgen")
	f.assign(t, machine.MesaPin(0, 2, 12), "estop-ext")
	f.assign(t, machine.MesaPin(0, 2, 13), "estop-ext")
	require.NoError(t, f.r.SetPinType(machine.MesaPin(0, 2, 14), firmware.GPIOOutput))
	require.NoError(t, f.r.SetPinType(machine.MesaPin(0, 2, 15), firmware.GPIOOutput))
	f.assign(t, machine.MesaPin(0, 2, 14), "coolant-flood")
	f.assign(t, machine.MesaPin(0, 2, 15), "coolant-flood")

	d := Check(f.m)

	var subjects []string
	for _, w := range d.Warnings {
		if w.Code == CodeDuplicateSignal {
			subjects = append(subjects, w.Subject)
		}
	}

	assert.Equal(t, []string{"estop-ext", "x-stepgen-step"}, subjects)
}

func TestHomeAndLimitExclusive(t *testing.T) {
	f := newFixture(t, "5i20", "SVST2_8", machine.AxisX)
	f.assign(t, machine.MesaPin(0, 3, 0), "x-stepgen")
	f.assign(t, machine.MesaPin(0, 2, 12), "home-x")
	f.assign(t, machine.MesaPin(0, 2, 13), "min-home-x")
	f.assign(t, machine.MesaPin(0, 2, 14), "both-x")

	d := Check(f.m)

	var got []string
	for _, w := range d.Warnings {
		got = append(got, w.Code)
	}

	assert.Equal(t, map[string]int{CodeHomeExclusive: 1, CodeLimitExclusive: 1}, codes(got))
}
