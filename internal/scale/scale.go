package scale

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"halconf-generator/internal/machine"
)

// ErrInvalidScaleInput is returned for zero or negative drive train values.
var ErrInvalidScaleInput = errors.New("invalid scale input")

var (
	degreesPerRev = decimal.NewFromInt(360)
	secondsPerMin = decimal.NewFromInt(60)
)

// Params are the inputs of a scale calculation for one axis.
type Params struct {
	Units         machine.Units
	Rotary        bool
	Spindle       bool
	StepsPerRev   float64
	Microstep     float64
	Motor         machine.Transmission
	EncoderCounts float64
	Encoder       machine.Transmission
	// MaxVel is in machine units per second, rpm for the spindle.
	MaxVel float64
}

// Result holds the computed scales.
type Result struct {
	StepScale    decimal.Decimal
	EncoderScale decimal.Decimal
	MaxStepRate  decimal.Decimal
}

// ParamsFor collects the scale inputs of an axis.
func ParamsFor(m *machine.MachineConfig, a machine.Axis) Params {
	c := m.Axis(a)

	return Params{
		Units:         m.Units,
		Rotary:        a.IsRotary(),
		Spindle:       a == machine.AxisSpindle,
		StepsPerRev:   c.StepsPerRev,
		Microstep:     c.Microstep,
		Motor:         c.Motor,
		EncoderCounts: c.EncoderCounts,
		Encoder:       c.Encoder,
		MaxVel:        c.MaxVel,
	}
}

func positive(name string, v float64) (decimal.Decimal, error) {
	if !(v > 0) {
		return decimal.Zero, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidScaleInput, name, v)
	}

	return decimal.NewFromFloat(v), nil
}

// fraction keeps numerator and denominator apart so the only rounding
// happens in the final division.
type fraction struct {
	num decimal.Decimal
	den decimal.Decimal
}

func (f fraction) mul(g fraction) fraction {
	return fraction{num: f.num.Mul(g.num), den: f.den.Mul(g.den)}
}

func (f fraction) value() decimal.Decimal {
	return f.num.Div(f.den)
}

func whole(d decimal.Decimal) fraction {
	return fraction{num: d, den: decimal.NewFromInt(1)}
}

// ratio is the number of motor (or encoder) turns per leadscrew turn.
func ratio(side string, t machine.Transmission) (fraction, error) {
	driver, err := positive(side+" pulley driver", t.PulleyDriver)
	if err != nil {
		return fraction{}, err
	}

	driven, err := positive(side+" pulley driven", t.PulleyDriven)
	if err != nil {
		return fraction{}, err
	}

	wormDriver, err := positive(side+" worm driver", t.WormDriver)
	if err != nil {
		return fraction{}, err
	}

	wormDriven, err := positive(side+" worm driven", t.WormDriven)
	if err != nil {
		return fraction{}, err
	}

	return fraction{num: driven.Mul(wormDriven), den: driver.Mul(wormDriver)}, nil
}

// revsPerUnit is leadscrew turns per machine unit.
func revsPerUnit(side string, p Params, t machine.Transmission) (fraction, error) {
	one := decimal.NewFromInt(1)

	switch {
	case p.Spindle:
		return whole(one), nil
	case p.Rotary:
		return fraction{num: one, den: degreesPerRev}, nil
	case p.Units == machine.UnitsImperial:
		// threads per inch is already turns per inch
		tpi, err := positive(side+" leadscrew TPI", t.Leadscrew)

		return whole(tpi), err
	default:
		pitch, err := positive(side+" leadscrew pitch", t.Leadscrew)

		return fraction{num: one, den: pitch}, err
	}
}

// StepScale returns steps per machine unit.
func StepScale(p Params) (decimal.Decimal, error) {
	steps, err := positive("steps per rev", p.StepsPerRev)
	if err != nil {
		return decimal.Zero, err
	}

	micro, err := positive("microstep", p.Microstep)
	if err != nil {
		return decimal.Zero, err
	}

	r, err := ratio("motor", p.Motor)
	if err != nil {
		return decimal.Zero, err
	}

	rpu, err := revsPerUnit("motor", p, p.Motor)
	if err != nil {
		return decimal.Zero, err
	}

	return whole(steps.Mul(micro)).mul(r).mul(rpu).value(), nil
}

// EncoderScale returns encoder counts per machine unit.
func EncoderScale(p Params) (decimal.Decimal, error) {
	counts, err := positive("encoder counts", p.EncoderCounts)
	if err != nil {
		return decimal.Zero, err
	}

	r, err := ratio("encoder", p.Encoder)
	if err != nil {
		return decimal.Zero, err
	}

	rpu, err := revsPerUnit("encoder", p, p.Encoder)
	if err != nil {
		return decimal.Zero, err
	}

	return whole(counts).mul(r).mul(rpu).value(), nil
}

// MaxStepRate is the step frequency at maximum velocity, in Hz.
func MaxStepRate(p Params, stepScale decimal.Decimal) decimal.Decimal {
	vel := decimal.NewFromFloat(p.MaxVel).Abs()
	if p.Spindle {
		vel = vel.Div(secondsPerMin)
	}

	return vel.Mul(stepScale.Abs())
}

// Compute returns the step scale, the encoder scale and the maximum step rate.
func Compute(p Params) (Result, error) {
	step, err := StepScale(p)
	if err != nil {
		return Result{}, err
	}

	enc, err := EncoderScale(p)
	if err != nil {
		return Result{}, err
	}

	return Result{
		StepScale:    step,
		EncoderScale: enc,
		MaxStepRate:  MaxStepRate(p, step),
	}, nil
}

// Apply computes the scales of an axis and stores them in its configuration.
// Nothing is stored on error.
func Apply(m *machine.MachineConfig, a machine.Axis) (Result, error) {
	res, err := Compute(ParamsFor(m, a))
	if err != nil {
		return Result{}, fmt.Errorf("axis %s: %w", a, err)
	}

	c := m.Axis(a)
	c.StepScale = res.StepScale.InexactFloat64()
	c.EncoderScale = res.EncoderScale.InexactFloat64()

	return res, nil
}
