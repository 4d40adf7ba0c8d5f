package machine

import (
	"fmt"

	"halconf-generator/internal/firmware"
)

// ParportPins is the number of DB25 pins carrying signals (1..17).
const ParportPins = 17

// Parport is a selected parallel port.
type Parport struct {
	Address   string
	Direction ParportDirection
}

// parportInputs are the status register pins, inputs in either mode.
var parportInputs = map[int]bool{10: true, 11: true, 12: true, 13: true, 15: true}

// parportControl are the control register pins, outputs in either mode.
var parportControl = map[int]bool{1: true, 14: true, 16: true, 17: true}

// ParportFamily returns the fixed direction of DB25 pin n in the given mode.
func ParportFamily(dir ParportDirection, pin int) (firmware.Family, error) {
	switch {
	case pin < 1 || pin > ParportPins:
		return firmware.Unused, fmt.Errorf("%w: parport pin %d", ErrUnknownLocation, pin)
	case parportInputs[pin]:
		return firmware.GPIOInput, nil
	case parportControl[pin]:
		return firmware.GPIOOutput, nil
	case dir == ParportIn:
		// data pins 2..9 become inputs
		return firmware.GPIOInput, nil
	default:
		return firmware.GPIOOutput, nil
	}
}
