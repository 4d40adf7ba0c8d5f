package firmware

import (
	"strings"

	"halconf-generator/internal/common"
)

//go:generate go tool stringer -type=Family -linecomment -output=family_string.go

// Family is the function a firmware image assigns to a single pin.
type Family int

const (
	Unused Family = iota // Not Used

	GPIOInput     // GPIO Input
	GPIOOutput    // GPIO Output
	GPIOOpenDrain // GPIO Open Drain

	EncoderA         // Quad Encoder-A
	EncoderB         // Quad Encoder-B
	EncoderIndex     // Quad Encoder-I
	EncoderIndexMask // Quad Encoder-M

	ResolverChannel   // Resolver
	ResolverInterface // Resolver Interface

	PWMPulse     // PWM Pulse
	PWMDir       // PWM Dir
	PWMEnable    // PWM Enable
	PDMPulse     // PDM Pulse
	PDMDir       // PDM Dir
	PDMEnable    // PDM Enable
	UDMUp        // UDM Up
	UDMDown      // UDM Down
	UDMEnable    // UDM Enable
	AnalogOutput // Analog Output

	StepA // Step Gen-A
	StepB // Step Gen-B
	StepC // Step Gen-C
	StepD // Step Gen-D
	StepE // Step Gen-E
	StepF // Step Gen-F

	TPPWMA      // 3PWM Gen-A
	TPPWMB      // 3PWM Gen-B
	TPPWMC      // 3PWM Gen-C
	TPPWMAN     // 3PWM Gen-A Not
	TPPWMBN     // 3PWM Gen-B Not
	TPPWMCN     // 3PWM Gen-C Not
	TPPWMEnable // 3PWM Gen-Enable
	TPPWMFault  // 3PWM Gen-Fault

	SSerialRX       // SSerial RX
	SSerialTX       // SSerial TX
	SSerialTXEnable // SSerial TX Enable

	AnalogIn // Analog Input

	PotOutput // Pot Output
	PotEnable // Pot Enable
	PotDir    // Pot Dir

	Amp8i20 // 8i20 Amplifier

	// FamilyTotal is the number of families defined.
	FamilyTotal = int(iota)
)

// Group is the hardware component class a Family belongs to.
type Group int

const (
	GroupNone Group = iota
	GroupGPIO
	GroupEncoder
	GroupResolver
	GroupPWM
	GroupStepgen
	GroupThreePhasePWM
	GroupSmartSerial
	GroupAnalogIn
	GroupPotentiometer
	GroupAmp8i20
)

// String returns the group name as used in listings.
func (g Group) String() string {
	switch g {
	case GroupNone:
		return "none"
	case GroupGPIO:
		return "gpio"
	case GroupEncoder:
		return "encoder"
	case GroupResolver:
		return "resolver"
	case GroupPWM:
		return "pwmgen"
	case GroupStepgen:
		return "stepgen"
	case GroupThreePhasePWM:
		return "3pwmgen"
	case GroupSmartSerial:
		return "sserial"
	case GroupAnalogIn:
		return "analog-in"
	case GroupPotentiometer:
		return "potentiometer"
	case GroupAmp8i20:
		return "8i20"
	default:
		return common.UnknownStr
	}
}

// Group returns the component class of f.
func (f Family) Group() Group {
	switch f {
	case GPIOInput, GPIOOutput, GPIOOpenDrain:
		return GroupGPIO
	case EncoderA, EncoderB, EncoderIndex, EncoderIndexMask:
		return GroupEncoder
	case ResolverChannel, ResolverInterface:
		return GroupResolver
	case PWMPulse, PWMDir, PWMEnable, PDMPulse, PDMDir, PDMEnable,
		UDMUp, UDMDown, UDMEnable, AnalogOutput:
		return GroupPWM
	case StepA, StepB, StepC, StepD, StepE, StepF:
		return GroupStepgen
	case TPPWMA, TPPWMB, TPPWMC, TPPWMAN, TPPWMBN, TPPWMCN, TPPWMEnable, TPPWMFault:
		return GroupThreePhasePWM
	case SSerialRX, SSerialTX, SSerialTXEnable:
		return GroupSmartSerial
	case AnalogIn:
		return GroupAnalogIn
	case PotOutput, PotEnable, PotDir:
		return GroupPotentiometer
	case Amp8i20:
		return GroupAmp8i20
	default:
		return GroupNone
	}
}

// IsControlling reports whether a signal may be assigned to a pin of this
// family directly. Assigning to the controlling pin of a multi-pin component
// also names its siblings.
func (f Family) IsControlling() bool {
	switch f {
	case GPIOInput, GPIOOutput, GPIOOpenDrain,
		EncoderA, ResolverChannel,
		PWMPulse, PDMPulse, UDMUp, AnalogOutput,
		StepA, TPPWMA,
		AnalogIn, PotOutput, Amp8i20:
		return true
	default:
		return false
	}
}

// IsFixed reports whether the pin is owned by the firmware and can never
// carry a user signal.
func (f Family) IsFixed() bool {
	switch f {
	case Unused, ResolverInterface, SSerialRX, SSerialTX, SSerialTXEnable:
		return true
	default:
		return false
	}
}

// IsGPIO reports whether f is a general purpose pin.
func (f Family) IsGPIO() bool {
	return f.Group() == GroupGPIO
}

// IsOutput reports whether a GPIO pin of this family drives its signal.
func (f Family) IsOutput() bool {
	return f == GPIOOutput || f == GPIOOpenDrain
}

// Ending is the suffix appended to a base signal name to form the name of
// the signal on a pin of this family.
func (f Family) Ending() string {
	switch f {
	case EncoderA:
		return "-a"
	case EncoderB:
		return "-b"
	case EncoderIndex:
		return "-i"
	case EncoderIndexMask:
		return "-m"
	case PWMPulse, PDMPulse, UDMUp, AnalogOutput:
		return "-pulse"
	case PWMDir, PDMDir, UDMDown:
		return "-dir"
	case PWMEnable, PDMEnable, UDMEnable:
		return "-enable"
	case StepA:
		return "-step"
	case StepB:
		return "-dir"
	case StepC:
		return "-phase-c"
	case StepD:
		return "-phase-d"
	case StepE:
		return "-phase-e"
	case StepF:
		return "-phase-f"
	case TPPWMA:
		return "-a"
	case TPPWMB:
		return "-b"
	case TPPWMC:
		return "-c"
	case TPPWMAN:
		return "-anot"
	case TPPWMBN:
		return "-bnot"
	case TPPWMCN:
		return "-cnot"
	case TPPWMEnable:
		return "-enable"
	case TPPWMFault:
		return "-fault"
	case PotOutput:
		return "-output"
	case PotEnable:
		return "-enable"
	case PotDir:
		return "-dir"
	default:
		return ""
	}
}

// PWMMode is the modulation a pwm generator runs in.
type PWMMode int

const (
	ModePWM PWMMode = iota
	ModePDM
	ModeUDM
)

// String returns the short mode name.
func (m PWMMode) String() string {
	switch m {
	case ModePWM:
		return "pwm"
	case ModePDM:
		return "pdm"
	case ModeUDM:
		return "udm"
	default:
		return common.UnknownStr
	}
}

// OutputType is the hostmot2 pwmgen output-type parameter for the mode.
func (m PWMMode) OutputType() int {
	switch m {
	case ModeUDM:
		return 2
	case ModePDM:
		return 3
	default:
		return 1
	}
}

// Mode returns the pwm generator mode implied by a PWM group family.
func (f Family) Mode() (PWMMode, bool) {
	switch f {
	case PWMPulse, PWMDir, PWMEnable, AnalogOutput:
		return ModePWM, true
	case PDMPulse, PDMDir, PDMEnable:
		return ModePDM, true
	case UDMUp, UDMDown, UDMEnable:
		return ModeUDM, true
	default:
		return ModePWM, false
	}
}

// WithMode maps a pwm generator family onto the same role in another mode.
// Families outside the switchable pwm set are returned unchanged.
func (f Family) WithMode(m PWMMode) Family {
	var role int

	switch f {
	case PWMPulse, PDMPulse, UDMUp:
		role = 0
	case PWMDir, PDMDir, UDMDown:
		role = 1
	case PWMEnable, PDMEnable, UDMEnable:
		role = 2
	default:
		return f
	}

	table := map[PWMMode][3]Family{
		ModePWM: {PWMPulse, PWMDir, PWMEnable},
		ModePDM: {PDMPulse, PDMDir, PDMEnable},
		ModeUDM: {UDMUp, UDMDown, UDMEnable},
	}

	return table[m][role]
}

// ParseFamily returns the family with the given display name. Matching
// ignores case and surrounding blanks.
func ParseFamily(name string) (Family, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i := range FamilyTotal {
		f := Family(i)
		if strings.ToLower(f.String()) == want {
			return f, true
		}
	}

	return Unused, false
}
