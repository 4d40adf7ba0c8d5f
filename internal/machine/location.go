package machine

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"halconf-generator/internal/common"
)

// ErrUnknownLocation is returned for a pin that is not part of the configuration.
var ErrUnknownLocation = errors.New("unknown pin location")

// Source is the kind of hardware a pin sits on.
type Source int

const (
	SourceMesa Source = iota
	SourceSSerial
	SourceParport
)

func (s Source) String() string {
	switch s {
	case SourceMesa:
		return "mesa"
	case SourceSSerial:
		return "sserial"
	case SourceParport:
		return "parport"
	default:
		return common.UnknownStr
	}
}

// Location addresses one physical pin.
//
// For mesa pins Connector is the connector number. For smart-serial sub-pins
// Board is the mesa board carrying the port, Connector is the port and
// Channel the channel. For parallel ports Board is the port index and Pin the
// DB25 pin number.
type Location struct {
	Source    Source
	Board     int
	Connector int
	Channel   int
	Pin       int
}

// MesaPin addresses a mainboard connector pin.
func MesaPin(board, connector, pin int) Location {
	return Location{Source: SourceMesa, Board: board, Connector: connector, Pin: pin}
}

// SSerialPin addresses a smart-serial sub-pin.
func SSerialPin(board, port, channel, pin int) Location {
	return Location{Source: SourceSSerial, Board: board, Connector: port, Channel: channel, Pin: pin}
}

// ParportPin addresses a parallel port DB25 pin.
func ParportPin(port, pin int) Location {
	return Location{Source: SourceParport, Board: port, Pin: pin}
}

// String returns the dotted form used in saved configurations,
// e.g. "mesa0.c2.pin05", "mesa0.sserial0.ch1.pin12" or "parport1.pin10".
func (l Location) String() string {
	switch l.Source {
	case SourceMesa:
		return fmt.Sprintf("mesa%d.c%d.pin%02d", l.Board, l.Connector, l.Pin)
	case SourceSSerial:
		return fmt.Sprintf("mesa%d.sserial%d.ch%d.pin%02d", l.Board, l.Connector, l.Channel, l.Pin)
	case SourceParport:
		return fmt.Sprintf("parport%d.pin%02d", l.Board, l.Pin)
	default:
		return common.UnknownStr
	}
}

// ParseLocation is the inverse of Location.String.
func ParseLocation(s string) (Location, error) {
	var (
		l   Location
		n   int
		err error
	)

	switch {
	case strings.HasPrefix(s, "parport"):
		l.Source = SourceParport
		n, err = fmt.Sscanf(s, "parport%d.pin%d", &l.Board, &l.Pin)
		if err == nil && n != 2 {
			err = errors.New("short match")
		}
	case strings.HasPrefix(s, "mesa") && strings.Contains(s, ".sserial"):
		l.Source = SourceSSerial
		n, err = fmt.Sscanf(s, "mesa%d.sserial%d.ch%d.pin%d", &l.Board, &l.Connector, &l.Channel, &l.Pin)
		if err == nil && n != 4 {
			err = errors.New("short match")
		}
	case strings.HasPrefix(s, "mesa"):
		l.Source = SourceMesa
		n, err = fmt.Sscanf(s, "mesa%d.c%d.pin%d", &l.Board, &l.Connector, &l.Pin)
		if err == nil && n != 3 {
			err = errors.New("short match")
		}
	default:
		err = errors.New("unrecognised prefix")
	}

	if err != nil {
		return Location{}, fmt.Errorf("%w: %q: %w", ErrUnknownLocation, s, err)
	}

	return l, nil
}

// CompareLocations orders locations by source, board, connector, channel, pin.
func CompareLocations(a, b Location) int {
	return cmp.Or(
		cmp.Compare(a.Source, b.Source),
		cmp.Compare(a.Board, b.Board),
		cmp.Compare(a.Connector, b.Connector),
		cmp.Compare(a.Channel, b.Channel),
		cmp.Compare(a.Pin, b.Pin),
	)
}
