package machine

import (
	"strings"

	"halconf-generator/internal/common"
)

// Axis is one logical motion axis, or the spindle.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisA
	AxisSpindle
)

// AllAxes lists every axis including the spindle.
var AllAxes = []Axis{AxisX, AxisY, AxisZ, AxisA, AxisSpindle}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	case AxisA:
		return "a"
	case AxisSpindle:
		return "s"
	default:
		return common.UnknownStr
	}
}

// Prefix is the start of the built-in signal names belonging to the axis.
func (a Axis) Prefix() string {
	if a == AxisSpindle {
		return "spindle"
	}

	return a.String()
}

// Index is the number used in [AXIS_n] sections and axis.n pins.
func (a Axis) Index() int {
	switch a {
	case AxisX:
		return 0
	case AxisY:
		return 1
	case AxisZ:
		return 2
	case AxisA:
		return 3
	default:
		return 9
	}
}

// Section is the INI section holding the axis parameters.
func (a Axis) Section() string {
	if a == AxisSpindle {
		return "SPINDLE_9"
	}

	return "AXIS_" + string(rune('0'+a.Index()))
}

// IsRotary reports whether the axis moves in degrees.
func (a Axis) IsRotary() bool {
	return a == AxisA
}

// ParseAxis accepts a letter ("x", "S") or "spindle".
func ParseAxis(s string) (Axis, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, true
	case "y":
		return AxisY, true
	case "z":
		return AxisZ, true
	case "a":
		return AxisA, true
	case "s", "spindle":
		return AxisSpindle, true
	default:
		return 0, false
	}
}

// ParseCoordinates turns "XYZ", "XZ" or "XYZA" into axes.
func ParseCoordinates(s string) ([]Axis, bool) {
	var out []Axis

	for _, r := range s {
		a, ok := ParseAxis(string(r))
		if !ok || a == AxisSpindle {
			return nil, false
		}

		out = append(out, a)
	}

	return out, len(out) > 0
}

// Coordinates is the inverse of ParseCoordinates.
func Coordinates(axes []Axis) string {
	var b strings.Builder
	for _, a := range axes {
		b.WriteString(strings.ToUpper(a.String()))
	}

	return b.String()
}

// Transmission is one side of an axis drive train: pulley and worm stages
// followed by a leadscrew. Leadscrew is pitch in mm for metric machines and
// threads per inch for imperial ones.
type Transmission struct {
	PulleyDriver float64
	PulleyDriven float64
	WormDriver   float64
	WormDriven   float64
	Leadscrew    float64
}

// BLDCOutput selects how the bldc component drives the amplifier.
type BLDCOutput int

const (
	BLDCOutputValue BLDCOutput = iota
	BLDCOutputBridgeBits
	BLDCOutputBinaryHall
)

func (o BLDCOutput) String() string {
	switch o {
	case BLDCOutputValue:
		return "value"
	case BLDCOutputBridgeBits:
		return "bridge-bits"
	case BLDCOutputBinaryHall:
		return "binary-hall"
	default:
		return common.UnknownStr
	}
}

// BLDCOptions are the brushless motor commutation flags of a 3-phase axis.
type BLDCOptions struct {
	Enabled            bool
	Quadrature         bool
	Hall               bool
	Fanuc              bool
	Index              bool
	EncoderCommutation bool
	HallInvert         bool
	Output             BLDCOutput
	PolePairs          int
	EncoderOffset      int
}

// AxisConfig holds the mechanics, tuning and homing parameters of one axis.
type AxisConfig struct {
	StepsPerRev   float64
	Microstep     float64
	Motor         Transmission
	EncoderCounts float64
	Encoder       Transmission

	// Scales stored by the last scale calculation.
	StepScale    float64
	EncoderScale float64

	P         float64
	I         float64
	D         float64
	FF0       float64
	FF1       float64
	FF2       float64
	Bias      float64
	Deadband  float64
	MaxOutput float64

	OutputScale    float64
	OutputMinLimit float64
	OutputMaxLimit float64

	// Stepper driver timing in ns.
	StepTime  float64
	StepSpace float64
	DirHold   float64
	DirSetup  float64

	MaxVel      float64
	MaxAccel    float64
	MinLimit    float64
	MaxLimit    float64
	FError      float64
	MinFError   float64
	Backlash    float64
	UseBacklash bool
	UseComp     bool
	CompFile    string
	CompType    int

	Home               float64
	HomeOffset         float64
	SearchVel          float64
	LatchVel           float64
	FinalVel           float64
	SearchPositive     bool
	LatchSameDirection bool
	UseIndex           bool

	BLDC BLDCOptions

	// Spindle only.
	AtSpeedScale float64
}

// DefaultAxisConfig returns starting values for an axis.
func DefaultAxisConfig(a Axis, units Units) AxisConfig {
	c := AxisConfig{
		StepsPerRev:    200,
		Microstep:      2,
		Motor:          Transmission{PulleyDriver: 1, PulleyDriven: 1, WormDriver: 1, WormDriven: 1},
		EncoderCounts:  4000,
		Encoder:        Transmission{PulleyDriver: 1, PulleyDriven: 1, WormDriver: 1, WormDriven: 1},
		P:              1,
		FF1:            1,
		OutputScale:    10,
		OutputMaxLimit: 10,
		OutputMinLimit: -10,
		StepTime:       5000,
		StepSpace:      5000,
		DirHold:        20000,
		DirSetup:       20000,
	}

	switch {
	case a == AxisSpindle:
		c.Motor.Leadscrew = 1
		c.Encoder.Leadscrew = 1
		c.MaxVel = 3000
		c.MaxAccel = 1000
		c.AtSpeedScale = 0.95
	case a.IsRotary():
		c.Motor.Leadscrew = 1
		c.Encoder.Leadscrew = 1
		c.MaxVel = 360
		c.MaxAccel = 1200
		c.MinLimit = -9999
		c.MaxLimit = 9999
		c.FError = 1
		c.MinFError = 0.25
		c.SearchVel = 10
		c.LatchVel = 1
	case units == UnitsImperial:
		c.Motor.Leadscrew = 5
		c.Encoder.Leadscrew = 5
		c.MaxVel = 1
		c.MaxAccel = 30
		c.MaxLimit = 8
		c.FError = 0.05
		c.MinFError = 0.01
		c.SearchVel = 0.05
		c.LatchVel = 0.02
	default:
		c.Motor.Leadscrew = 5
		c.Encoder.Leadscrew = 5
		c.MaxVel = 25
		c.MaxAccel = 750
		c.MaxLimit = 200
		c.FError = 1
		c.MinFError = 0.25
		c.SearchVel = 1
		c.LatchVel = 0.5
	}

	if a == AxisZ {
		c.MinLimit, c.MaxLimit = -c.MaxLimit/2, 0
	}

	return c
}
