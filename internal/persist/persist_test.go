package persist

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halconf-generator/internal/firmware"
	"halconf-generator/internal/gen"
	"halconf-generator/internal/machine"
	"halconf-generator/internal/resolve"
	"halconf-generator/internal/scale"
	"halconf-generator/internal/signal"
)

// fullMachine builds a configuration touching every saved section.
func fullMachine(t *testing.T, ns *signal.Namespace) *machine.MachineConfig {
	t.Helper()

	m := machine.New("Round Trip", machine.UnitsMetric)
	r := resolve.New(m, ns, firmware.NewCatalog())

	require.NoError(t, r.SelectBoard(0, "5i20", "SVST2_8"))
	require.NoError(t, r.SetCounts(0, firmware.Counts{Encoders: 2, PWMGens: 2, StepGens: 3}))
	require.NoError(t, r.SetConnectorDaughter(0, 2, "7i33"))

	steps := []struct {
		loc machine.Location
		sig string
	}{
		{machine.MesaPin(0, 2, 9), "x-pwm"},
		{machine.MesaPin(0, 2, 5), "x-encoder"},
		{machine.MesaPin(0, 2, 8), "spindle-pwm"},
		{machine.MesaPin(0, 2, 3), "spindle-encoder"},
		{machine.MesaPin(0, 3, 0), "y-stepgen"},
		{machine.MesaPin(0, 3, 2), "z-stepgen"},
		{machine.MesaPin(0, 2, 12), "home-x"},
		{machine.MesaPin(0, 2, 13), "door switch"},
	}

	require.NoError(t, r.SetPinType(machine.MesaPin(0, 2, 14), firmware.GPIOOutput))
	require.NoError(t, r.SetPinType(machine.MesaPin(0, 2, 8), firmware.PDMPulse))

	for _, s := range steps {
		require.NoError(t, r.AssignSignal(s.loc, s.sig), s.sig)
	}

	require.NoError(t, r.AssignSignal(machine.MesaPin(0, 2, 14), "Air Blast"))
	require.NoError(t, r.SetInverted(machine.MesaPin(0, 2, 14), true))

	mb, err := m.MesaBoard(0)
	require.NoError(t, err)
	mb.PWMFrequency = 25_000

	require.NoError(t, r.SelectBoard(1, "5i25", "7i76x2"))
	require.NoError(t, r.SelectDaughterBoard(1, 0, "7i76-m0"))
	require.NoError(t, r.AssignSignal(machine.SSerialPin(1, 0, 0, 16), "estop-ext"))

	require.NoError(t, m.SetParport(0, machine.Parport{Address: "0x378", Direction: machine.ParportOut}))
	require.NoError(t, r.AssignSignal(machine.ParportPin(0, 10), "probe-in"))
	require.NoError(t, r.SetInverted(machine.ParportPin(0, 10), true))

	m.Options.Frontend = machine.FrontendTouchy
	m.Options.IndividualHoming = true
	m.Options.ClassicLadder = true
	m.Options.Increments = []float64{0.5, 0.05}

	x := m.Axis(machine.AxisX)
	x.MaxVel = 33.3
	x.Backlash = 0.02
	x.UseBacklash = true
	x.P = 120.5
	m.Axis(machine.AxisY).SearchPositive = true
	m.Axis(machine.AxisSpindle).AtSpeedScale = 0.9

	return m
}

func generateAll(t *testing.T, m *machine.MachineConfig) map[string]string {
	t.Helper()

	files, err := gen.NewGenerator(gen.DefaultGeneratorConfig(), nil).Generate(m)
	require.NoError(t, err)

	out := map[string]string{}
	for _, f := range files {
		out[f.Filename] = string(f.Content)
	}

	return out
}

func TestRoundTripGeneratesSameFiles(t *testing.T) {
	ns := signal.NewNamespace(nil)
	m := fullMachine(t, ns)

	_, err := scale.Apply(m, machine.AxisY)
	require.NoError(t, err)

	doc, err := Save(m, ns)
	require.NoError(t, err)

	data, err := Marshal(doc)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	ns2 := signal.NewNamespace(nil)
	loaded, err := Load(parsed, firmware.NewCatalog(), ns2)
	require.NoError(t, err, spew.Sdump(parsed))

	if diff := cmp.Diff(generateAll(t, m), generateAll(t, loaded)); diff != "" {
		t.Errorf("generated files differ after round trip (-want +got):\n%s", diff)
	}

	assert.Equal(t, m.ID, loaded.ID)
	assert.ElementsMatch(t, ns.Customs(), ns2.Customs())
	assert.Zero(t, loaded.Axis(machine.AxisY).StepScale)

	again, err := Save(loaded, ns2)
	require.NoError(t, err)

	if diff := cmp.Diff(doc, again); diff != "" {
		t.Errorf("second save differs (-want +got):\n%s", diff)
	}
}

func TestSaveRecords(t *testing.T) {
	ns := signal.NewNamespace(nil)
	m := fullMachine(t, ns)

	doc, err := Save(m, ns)
	require.NoError(t, err)

	byName := map[string]Property{}
	for _, p := range doc.Properties {
		byName[p.Name] = p
	}

	for _, want := range []Property{
		{Name: "machine.name", Type: TypeString, Value: "Round Trip"},
		{Name: "machine.units", Type: TypeString, Value: "mm"},
		{Name: "machine.axes", Type: TypeString, Value: "XYZ"},
		{Name: "axis.x.maxvel", Type: TypeFloat, Value: "33.3"},
		{Name: "axis.x.use_backlash", Type: TypeBool, Value: "true"},
		{Name: "axis.s.at_speed_scale", Type: TypeFloat, Value: "0.9"},
		{Name: "options.frontend", Type: TypeString, Value: "touchy"},
		{Name: "options.increments", Type: TypeList, Items: []string{"0.5", "0.05"}},
		{Name: "options.servo_period", Type: TypeInt, Value: "1000000"},
		{Name: "mesa0.board", Type: TypeString, Value: "5i20"},
		{Name: "mesa0.counts.stepgens", Type: TypeInt, Value: "3"},
		{Name: "mesa0.pwm_frequency", Type: TypeInt, Value: "25000"},
		{Name: "mesa0.c2.daughter", Type: TypeString, Value: "7i33"},
		{Name: "mesa0.c2.pin05.signal", Type: TypeString, Value: "x-encoder-a"},
		{Name: "mesa0.c2.pin14.inverted", Type: TypeBool, Value: "true"},
		{Name: "mesa1.sserial0.ch0.board", Type: TypeString, Value: "7i76-m0"},
		{Name: "mesa1.sserial0.ch0.pin16.signal", Type: TypeString, Value: "estop-ext"},
		{Name: "parport0.direction", Type: TypeString, Value: "out"},
		{Name: "parport0.pin10.inverted", Type: TypeBool, Value: "true"},
		{Name: "signals.custom.output", Type: TypeList, Items: []string{"Air-Blast"}},
		{Name: "signals.custom.input", Type: TypeList, Items: []string{"door-switch"}},
	} {
		assert.Equal(t, want, byName[want.Name], want.Name)
	}

	assert.Equal(t, firmware.PDMPulse.String(), byName["mesa0.c2.pin08.type"].Value)
	assert.NotContains(t, byName, "mesa0.c2.pin20.signal")
	assert.NotContains(t, byName, "mesa0.c2.pin20.type")
	assert.NotContains(t, byName, "axis.x.step_scale")
}

func TestLoadResetsNamespace(t *testing.T) {
	ns := signal.NewNamespace(nil)
	m := fullMachine(t, ns)

	doc, err := Save(m, ns)
	require.NoError(t, err)

	ns2 := signal.NewNamespace(nil)
	_, err = ns2.RegisterCustom("left over", signal.KindOutput)
	require.NoError(t, err)

	_, err = Load(doc, firmware.NewCatalog(), ns2)
	require.NoError(t, err)

	_, err = ns2.Resolve("left-over")
	require.ErrorIs(t, err, signal.ErrUnknownSignal)

	_, err = ns2.Resolve("Air-Blast")
	require.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	base := func() *Document {
		return &Document{Version: Version, Properties: []Property{
			{Name: "machine.name", Type: TypeString, Value: "mill"},
			{Name: "mesa0.board", Type: TypeString, Value: "5i20"},
			{Name: "mesa0.firmware", Type: TypeString, Value: "SVST8_4"},
		}}
	}

	tests := []struct {
		name  string
		extra Property
		want  error
	}{
		{
			name:  "wrong type tag",
			extra: Property{Name: "axis.x.maxvel", Type: TypeString, Value: "25"},
			want:  ErrTypeMismatch,
		},
		{
			name:  "bad float",
			extra: Property{Name: "axis.x.maxvel", Type: TypeFloat, Value: "fast"},
			want:  ErrInvalidValue,
		},
		{
			name:  "bad enum",
			extra: Property{Name: "options.frontend", Type: TypeString, Value: "gmoccapy"},
			want:  ErrInvalidValue,
		},
		{
			name:  "unknown signal",
			extra: Property{Name: "mesa0.c2.pin05.signal", Type: TypeString, Value: "no-such-signal"},
			want:  signal.ErrUnknownSignal,
		},
		{
			name:  "signal of another kind",
			extra: Property{Name: "mesa0.c2.pin05.signal", Type: TypeString, Value: "x-pwm-pulse"},
			want:  signal.ErrIncompatibleSignal,
		},
		{
			name:  "unknown firmware",
			extra: Property{Name: "mesa0.firmware", Type: TypeString, Value: "SVST9_9"},
			want:  firmware.ErrUnknownFirmware,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := base()
			doc.Properties = append(doc.Properties, tt.extra)

			_, err := Load(doc, firmware.NewCatalog(), signal.NewNamespace(nil))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadIgnoresUnknownNames(t *testing.T) {
	doc := &Document{Version: Version, Properties: []Property{
		{Name: "machine.name", Type: TypeString, Value: "mill"},
		{Name: "machine.colour", Type: TypeString, Value: "red"},
		{Name: "axis.x.step_scale", Type: TypeFloat, Value: "80"},
	}}

	m, err := Load(doc, firmware.NewCatalog(), signal.NewNamespace(nil))
	require.NoError(t, err)
	assert.Equal(t, "mill", m.Name)
	assert.Zero(t, m.Axis(machine.AxisX).StepScale)
	assert.Empty(t, m.Mesa)
}

func TestParseVersion(t *testing.T) {
	doc, err := Parse([]byte("properties: []\n"))
	require.NoError(t, err)
	assert.Equal(t, Version, doc.Version)

	_, err = Parse([]byte("version: \"2\"\nproperties: []\n"))
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}
