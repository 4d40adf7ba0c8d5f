package resolve

import (
	"errors"

	"halconf-generator/internal/machine"
)

var (
	// ErrNotControllingPin is returned for an edit aimed at a sibling or fixed pin.
	ErrNotControllingPin = errors.New("not a controlling pin")
	// ErrFixedDirection is returned when changing the direction of a gpio the firmware hard-wires.
	ErrFixedDirection = errors.New("gpio direction fixed by firmware")
	// ErrIncompatibleType is returned when a pin type outside the pin's family is requested.
	ErrIncompatibleType = errors.New("incompatible pin type")
	// ErrUnknownLocation is returned for a pin that is not part of the configuration.
	ErrUnknownLocation = machine.ErrUnknownLocation
)
