package machine

import "halconf-generator/internal/common"

// Units is the linear unit system of the machine.
type Units int

const (
	UnitsMetric Units = iota
	UnitsImperial
)

func (u Units) String() string {
	switch u {
	case UnitsMetric:
		return "mm"
	case UnitsImperial:
		return "inch"
	default:
		return common.UnknownStr
	}
}

// Frontend is the operator screen started with the machine.
type Frontend int

const (
	FrontendAxis Frontend = iota
	FrontendTkLinuxCNC
	FrontendTouchy
)

func (f Frontend) String() string {
	switch f {
	case FrontendAxis:
		return "axis"
	case FrontendTkLinuxCNC:
		return "tklinuxcnc"
	case FrontendTouchy:
		return "touchy"
	default:
		return common.UnknownStr
	}
}

// ToolChange selects how tool changes are handled.
type ToolChange int

const (
	// ToolChangeManual pops up a dialog asking the operator to change the tool.
	ToolChangeManual ToolChange = iota
	// ToolChangeSignals hands the change to external hardware through pins.
	ToolChangeSignals
)

func (t ToolChange) String() string {
	switch t {
	case ToolChangeManual:
		return "manual"
	case ToolChangeSignals:
		return "signals"
	default:
		return common.UnknownStr
	}
}

// ParportDirection is the data direction a parallel port is loaded with.
type ParportDirection int

const (
	ParportOut ParportDirection = iota
	ParportIn
)

func (d ParportDirection) String() string {
	switch d {
	case ParportOut:
		return "out"
	case ParportIn:
		return "in"
	default:
		return common.UnknownStr
	}
}

// Options are the machine wide choices that drive generation.
type Options struct {
	Frontend                Frontend
	ToolChange              ToolChange
	IndividualHoming        bool
	ExternalMPG             bool
	SharedMPG               bool
	IncrementsSelectable    bool
	Increments              []float64
	ExternalFeedOverride    bool
	ExternalSpindleOverride bool
	ExternalMaxVelOverride  bool
	ClassicLadder           bool
	LadderEstop             bool
	ServoPeriodNS           int
	DefaultLinearVel        float64
	MaxLinearVel            float64
	MaxFeedOverride         float64
	MaxSpindleOverride      float64
	Position                string
}
