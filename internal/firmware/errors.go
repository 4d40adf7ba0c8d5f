package firmware

import "errors"

var (
	// ErrUnknownFirmware is returned when a board title or firmware name is not in the catalog.
	ErrUnknownFirmware = errors.New("unknown firmware")
	// ErrInvalidFirmware is returned when a firmware descriptor does not have a consistent shape.
	ErrInvalidFirmware = errors.New("invalid firmware descriptor")
	// ErrIncompatibleDaughterBoard is returned when a daughter board cannot be fitted to a channel.
	ErrIncompatibleDaughterBoard = errors.New("incompatible daughter board")
	// ErrPinOutOfRange is returned for a connector or pin the board does not have.
	ErrPinOutOfRange = errors.New("pin out of range")
)
