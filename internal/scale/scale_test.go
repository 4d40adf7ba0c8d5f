package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halconf-generator/internal/machine"
)

func unity(leadscrew float64) machine.Transmission {
	return machine.Transmission{PulleyDriver: 1, PulleyDriven: 1, WormDriver: 1, WormDriven: 1, Leadscrew: leadscrew}
}

func TestStepScale(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want string
	}{
		{
			name: "metric 5mm screw",
			p:    Params{StepsPerRev: 200, Microstep: 2, Motor: unity(5)},
			want: "80",
		},
		{
			name: "imperial 5 tpi",
			p:    Params{Units: machine.UnitsImperial, StepsPerRev: 200, Microstep: 10, Motor: unity(5)},
			want: "10000",
		},
		{
			name: "2:1 pulley reduction",
			p: Params{StepsPerRev: 200, Microstep: 2, Motor: machine.Transmission{
				PulleyDriver: 20, PulleyDriven: 40, WormDriver: 1, WormDriven: 1, Leadscrew: 5,
			}},
			want: "160",
		},
		{
			name: "rotary 90:1 worm",
			p: Params{Rotary: true, StepsPerRev: 200, Microstep: 1, Motor: machine.Transmission{
				PulleyDriver: 1, PulleyDriven: 1, WormDriver: 1, WormDriven: 90,
			}},
			want: "50",
		},
		{
			name: "spindle",
			p:    Params{Spindle: true, StepsPerRev: 200, Microstep: 4, Motor: unity(0)},
			want: "800",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StepScale(tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEncoderScale(t *testing.T) {
	got, err := EncoderScale(Params{EncoderCounts: 4000, Encoder: unity(5)})
	require.NoError(t, err)
	assert.Equal(t, "800", got.String())

	got, err = EncoderScale(Params{Units: machine.UnitsImperial, EncoderCounts: 2000, Encoder: unity(10)})
	require.NoError(t, err)
	assert.Equal(t, "20000", got.String())
}

func TestInvalidInputsAreReported(t *testing.T) {
	base := Params{StepsPerRev: 200, Microstep: 2, Motor: unity(5), EncoderCounts: 4000, Encoder: unity(5)}

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero pitch", func(p *Params) { p.Motor.Leadscrew = 0 }},
		{"negative microstep", func(p *Params) { p.Microstep = -1 }},
		{"zero steps", func(p *Params) { p.StepsPerRev = 0 }},
		{"zero pulley", func(p *Params) { p.Motor.PulleyDriver = 0 }},
		{"zero worm", func(p *Params) { p.Encoder.WormDriven = 0 }},
		{"zero counts", func(p *Params) { p.EncoderCounts = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)

			_, err := Compute(p)
			require.ErrorIs(t, err, ErrInvalidScaleInput)
		})
	}
}

func TestMaxStepRate(t *testing.T) {
	p := Params{StepsPerRev: 200, Microstep: 2, Motor: unity(5), EncoderCounts: 4000, Encoder: unity(5), MaxVel: 25}

	res, err := Compute(p)
	require.NoError(t, err)
	assert.Equal(t, "2000", res.MaxStepRate.String())

	p.Spindle = true
	p.MaxVel = 3000

	res, err = Compute(p)
	require.NoError(t, err)
	assert.Equal(t, "400", res.StepScale.String())
	assert.Equal(t, "20000", res.MaxStepRate.String())
}

func TestApplyStoresScales(t *testing.T) {
	m := machine.New("mill", machine.UnitsMetric)

	_, err := Apply(m, machine.AxisX)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, m.Axis(machine.AxisX).StepScale, 1e-9)
	assert.InDelta(t, 800.0, m.Axis(machine.AxisX).EncoderScale, 1e-9)

	m.Axis(machine.AxisY).Motor.Leadscrew = 0
	_, err = Apply(m, machine.AxisY)
	require.ErrorIs(t, err, ErrInvalidScaleInput)
	assert.Zero(t, m.Axis(machine.AxisY).StepScale)
}
