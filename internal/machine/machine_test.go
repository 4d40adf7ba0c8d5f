package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halconf-generator/internal/firmware"
)

func board(t *testing.T, title, fw string) firmware.Board {
	t.Helper()

	b, err := firmware.NewCatalog().Lookup(title, fw)
	require.NoError(t, err)

	return b
}

func TestLocationStringRoundTrip(t *testing.T) {
	tests := []struct {
		loc  Location
		text string
	}{
		{MesaPin(0, 2, 5), "mesa0.c2.pin05"},
		{MesaPin(1, 4, 23), "mesa1.c4.pin23"},
		{SSerialPin(0, 0, 1, 12), "mesa0.sserial0.ch1.pin12"},
		{ParportPin(1, 10), "parport1.pin10"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.loc.String())

			got, err := ParseLocation(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.loc, got)
		})
	}

	for _, bad := range []string{"", "mesa", "mesaX.c2.pin1", "serial0.pin1", "parport1"} {
		_, err := ParseLocation(bad)
		require.ErrorIs(t, err, ErrUnknownLocation, bad)
	}
}

func TestAxis(t *testing.T) {
	assert.Equal(t, "AXIS_2", AxisZ.Section())
	assert.Equal(t, "SPINDLE_9", AxisSpindle.Section())
	assert.Equal(t, "spindle", AxisSpindle.Prefix())
	assert.Equal(t, "x", AxisX.Prefix())

	axes, ok := ParseCoordinates("XZ")
	require.True(t, ok)
	assert.Equal(t, []Axis{AxisX, AxisZ}, axes)
	assert.Equal(t, "XZ", Coordinates(axes))

	_, ok = ParseCoordinates("XQ")
	assert.False(t, ok)

	_, ok = ParseCoordinates("XS")
	assert.False(t, ok)
}

func TestSetMesaCreatesDefaultAssignments(t *testing.T) {
	m := New("mill", UnitsMetric)

	b := board(t, "5i20", "SVST2_8").WithCounts(firmware.Counts{Encoders: 1, StepGens: 5})
	_, err := m.SetMesa(0, b)
	require.NoError(t, err)

	assert.Len(t, m.Locations(), 72)

	p, err := m.Pin(MesaPin(0, 3, 0))
	require.NoError(t, err)
	assert.Equal(t, firmware.StepA, p.Type)
	assert.False(t, p.IsUsed())

	p, err = m.Pin(MesaPin(0, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, firmware.GPIOInput, p.Type)

	_, err = m.SetMesa(2, b)
	require.ErrorIs(t, err, ErrUnknownLocation)

	_, err = m.Pin(MesaPin(0, 5, 0))
	require.ErrorIs(t, err, ErrUnknownLocation)
}

func TestSetMesaReplacesWholesale(t *testing.T) {
	m := New("mill", UnitsMetric)

	_, err := m.SetMesa(0, board(t, "5i25", "7i76x2"))
	require.NoError(t, err)

	d, err := firmware.NewCatalog().Daughter("7i76-m0")
	require.NoError(t, err)
	require.NoError(t, m.SetChannel(0, 0, &d))
	assert.Len(t, m.Locations(), 34+firmware.SubPinCount)

	p, err := m.Pin(SSerialPin(0, 0, 0, 3))
	require.NoError(t, err)
	p.Signal = "coolant-flood"

	_, err = m.SetMesa(0, board(t, "7i43", "SV8"))
	require.NoError(t, err)
	assert.Len(t, m.Locations(), 48)
	assert.False(t, m.HasSignal("coolant-flood"))

	m.RemoveMesa(0)
	assert.Empty(t, m.Locations())
	assert.Empty(t, m.Mesa)
}

func TestParportPins(t *testing.T) {
	m := New("lathe", UnitsImperial)
	require.NoError(t, m.SetParport(0, Parport{Address: "0x378", Direction: ParportOut}))
	require.NoError(t, m.SetParport(1, Parport{Address: "0x278", Direction: ParportIn}))

	tests := []struct {
		loc  Location
		want firmware.Family
	}{
		{ParportPin(0, 1), firmware.GPIOOutput},
		{ParportPin(0, 2), firmware.GPIOOutput},
		{ParportPin(0, 10), firmware.GPIOInput},
		{ParportPin(0, 15), firmware.GPIOInput},
		{ParportPin(1, 2), firmware.GPIOInput},
		{ParportPin(1, 14), firmware.GPIOOutput},
	}

	for _, tt := range tests {
		t.Run(tt.loc.String(), func(t *testing.T) {
			s, err := m.Slot(tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Family)
			assert.False(t, s.Free)
		})
	}

	require.ErrorIs(t, m.SetParport(3, Parport{}), ErrUnknownLocation)

	_, err := m.Slot(ParportPin(0, 18))
	require.ErrorIs(t, err, ErrUnknownLocation)
}

func TestRoleDiscovery(t *testing.T) {
	m := New("mill", UnitsMetric)
	_, err := m.SetMesa(0, board(t, "5i20", "SVST8_4"))
	require.NoError(t, err)

	set := func(l Location, sig string) {
		p, err := m.Pin(l)
		require.NoError(t, err)
		p.Signal = sig
	}

	set(MesaPin(0, 2, 9), "x-pwm-pulse")
	set(MesaPin(0, 2, 5), "x-encoder-a")
	set(MesaPin(0, 4, 0), "y-stepgen-step")

	x := m.Role(AxisX)
	require.NotNil(t, x.PWM)
	assert.Equal(t, MesaPin(0, 2, 9), *x.PWM)
	assert.True(t, x.ClosedLoop())
	assert.Equal(t, 1, x.Drivers())

	y := m.Role(AxisY)
	assert.False(t, y.ClosedLoop())
	assert.Equal(t, 1, y.Drivers())
	assert.Nil(t, y.Encoder)

	z := m.Role(AxisZ)
	assert.Equal(t, 0, z.Drivers())
}

func TestDefaultAxisConfig(t *testing.T) {
	z := DefaultAxisConfig(AxisZ, UnitsMetric)
	assert.InDelta(t, 0.0, z.MaxLimit, 1e-9)
	assert.InDelta(t, -100.0, z.MinLimit, 1e-9)

	a := DefaultAxisConfig(AxisA, UnitsImperial)
	assert.InDelta(t, 360.0, a.MaxVel, 1e-9)

	m := New("m", UnitsImperial)
	assert.InDelta(t, 1.0, m.Axis(AxisX).MaxVel, 1e-9)
	assert.True(t, m.HasAxis(AxisSpindle))
	assert.False(t, m.HasAxis(AxisA))
}
