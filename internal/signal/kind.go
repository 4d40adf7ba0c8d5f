package signal

import (
	"halconf-generator/internal/common"
	"halconf-generator/internal/firmware"
)

// Kind is the class of pin a signal fits.
type Kind int

const (
	KindOutput Kind = iota
	KindInput
	KindEncoder
	KindResolver
	KindPWM
	KindStepgen
	KindThreePhasePWM
	KindAnalogIn
	KindPot
	KindAmp8i20
)

// Kinds lists every kind in display order.
var Kinds = []Kind{
	KindOutput, KindInput, KindEncoder, KindResolver, KindPWM,
	KindStepgen, KindThreePhasePWM, KindAnalogIn, KindPot, KindAmp8i20,
}

// String returns the kind name used in saved configurations.
func (k Kind) String() string {
	switch k {
	case KindOutput:
		return "output"
	case KindInput:
		return "input"
	case KindEncoder:
		return "encoder"
	case KindResolver:
		return "resolver"
	case KindPWM:
		return "pwm"
	case KindStepgen:
		return "stepgen"
	case KindThreePhasePWM:
		return "tppwm"
	case KindAnalogIn:
		return "analog-in"
	case KindPot:
		return "pot"
	case KindAmp8i20:
		return "8i20"
	default:
		return common.UnknownStr
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}

	return 0, false
}

// KindOf returns the kind of signal a pin family can carry. Fixed families
// carry none.
func KindOf(f firmware.Family) (Kind, bool) {
	switch f.Group() {
	case firmware.GroupGPIO:
		if f.IsOutput() {
			return KindOutput, true
		}

		return KindInput, true
	case firmware.GroupEncoder:
		return KindEncoder, true
	case firmware.GroupResolver:
		if f == firmware.ResolverInterface {
			return 0, false
		}

		return KindResolver, true
	case firmware.GroupPWM:
		return KindPWM, true
	case firmware.GroupStepgen:
		return KindStepgen, true
	case firmware.GroupThreePhasePWM:
		return KindThreePhasePWM, true
	case firmware.GroupAnalogIn:
		return KindAnalogIn, true
	case firmware.GroupPotentiometer:
		return KindPot, true
	case firmware.GroupAmp8i20:
		return KindAmp8i20, true
	case firmware.GroupSmartSerial, firmware.GroupNone:
		return 0, false
	default:
		return 0, false
	}
}

// Endings returns the endings of every pin of a component of this kind,
// controlling pin first. Single pin kinds have the one empty ending.
func (k Kind) Endings() []string {
	switch k {
	case KindEncoder:
		return []string{"-a", "-b", "-i", "-m"}
	case KindPWM:
		return []string{"-pulse", "-dir", "-enable"}
	case KindStepgen:
		return []string{"-step", "-dir", "-phase-c", "-phase-d", "-phase-e", "-phase-f"}
	case KindThreePhasePWM:
		return []string{"-a", "-b", "-c", "-anot", "-bnot", "-cnot", "-enable", "-fault"}
	case KindPot:
		return []string{"-output", "-enable", "-dir"}
	case KindOutput, KindInput, KindResolver, KindAnalogIn, KindAmp8i20:
		return []string{""}
	default:
		return []string{""}
	}
}

// ControllingEnding is the ending of the pin that names the component.
func (k Kind) ControllingEnding() string {
	return k.Endings()[0]
}
