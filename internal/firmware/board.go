package firmware

import (
	"fmt"
	"slices"
)

// Counts is the number of each component class a firmware provides, or a
// machine enables.
type Counts struct {
	Encoders        int `yaml:"encoders"`
	Resolvers       int `yaml:"resolvers"`
	PWMGens         int `yaml:"pwmgens"`
	TPPWMGens       int `yaml:"tppwmgens"`
	StepGens        int `yaml:"stepgens"`
	SSerialPorts    int `yaml:"sserial_ports"`
	SSerialChannels int `yaml:"sserial_channels"`
}

// Of returns the count for a component group. Groups that are not mainboard
// components report -1.
func (c Counts) Of(g Group) int {
	switch g {
	case GroupEncoder:
		return c.Encoders
	case GroupResolver:
		return c.Resolvers
	case GroupPWM:
		return c.PWMGens
	case GroupThreePhasePWM:
		return c.TPPWMGens
	case GroupStepgen:
		return c.StepGens
	case GroupSmartSerial:
		if c.SSerialPorts == 0 {
			return 0
		}

		return c.SSerialChannels
	default:
		return -1
	}
}

// clamp limits every count to the matching maximum.
func (c Counts) clamp(limit Counts) Counts {
	return Counts{
		Encoders:        min(max(c.Encoders, 0), limit.Encoders),
		Resolvers:       min(max(c.Resolvers, 0), limit.Resolvers),
		PWMGens:         min(max(c.PWMGens, 0), limit.PWMGens),
		TPPWMGens:       min(max(c.TPPWMGens, 0), limit.TPPWMGens),
		StepGens:        min(max(c.StepGens, 0), limit.StepGens),
		SSerialPorts:    min(max(c.SSerialPorts, 0), limit.SSerialPorts),
		SSerialChannels: min(max(c.SSerialChannels, 0), limit.SSerialChannels),
	}
}

// rawPin is one entry of a firmware pin table.
type rawPin struct {
	Family   Family
	Instance int
	Free     bool
}

// Slot is the resolved view of one board pin under the configured counts.
type Slot struct {
	Family   Family
	Instance int
	// Free marks a GPIO pin whose direction is user selectable.
	Free bool
}

// PinRef addresses one pin of a board together with its slot.
type PinRef struct {
	Connector int
	Pin       int
	Slot      Slot
}

// Board is an interface card loaded with a particular firmware image.
// Values are copied, never changed in place; WithCounts returns a new Board.
type Board struct {
	Title            string
	BoardName        string
	Driver           string
	Firmware         string
	ClockLow         int
	ClockHigh        int
	Connectors       []int
	PinsPerConnector int
	Max              Counts
	Counts           Counts
	Custom           bool

	pins []rawPin
}

// Key identifies the board and firmware pair.
func (b Board) Key() string {
	return b.Title + "/" + b.Firmware
}

// WithCounts returns a copy of b with the enabled component counts set,
// clamped to the firmware maximum.
func (b Board) WithCounts(c Counts) Board {
	b.Counts = c.clamp(b.Max)
	b.Connectors = slices.Clone(b.Connectors)

	return b
}

// ConnectorIndex returns the position of connector number conn.
func (b Board) ConnectorIndex(conn int) (int, bool) {
	i := slices.Index(b.Connectors, conn)

	return i, i >= 0
}

// PinCount is the total number of pins across all connectors.
func (b Board) PinCount() int {
	return len(b.Connectors) * b.PinsPerConnector
}

func (b Board) offset(conn, pin int) (int, error) {
	ci, ok := b.ConnectorIndex(conn)
	if !ok || pin < 0 || pin >= b.PinsPerConnector {
		return 0, fmt.Errorf("%w: %s connector %d pin %d", ErrPinOutOfRange, b.Key(), conn, pin)
	}

	return ci*b.PinsPerConnector + pin, nil
}

// Slot returns the family and instance of a pin. Pins of components beyond
// the configured count are reported as free GPIO inputs.
func (b Board) Slot(conn, pin int) (Slot, error) {
	off, err := b.offset(conn, pin)
	if err != nil {
		return Slot{}, err
	}

	return b.slotAt(off), nil
}

func (b Board) slotAt(off int) Slot {
	raw := b.pins[off]

	limit := b.Counts.Of(raw.Family.Group())
	if limit >= 0 && raw.Instance >= limit {
		return Slot{Family: GPIOInput, Free: true}
	}

	return Slot(raw)
}

// GPIONumber is the hostmot2 gpio index of a pin. Every pin of the board is
// numbered, whatever its family.
func (b Board) GPIONumber(conn, pin int) (int, error) {
	return b.offset(conn, pin)
}

// Siblings returns the other pins belonging to the same component instance
// as (conn, pin), in board order. GPIO pins have no siblings.
func (b Board) Siblings(conn, pin int) ([]PinRef, error) {
	off, err := b.offset(conn, pin)
	if err != nil {
		return nil, err
	}

	self := b.slotAt(off)

	g := self.Family.Group()
	if g == GroupGPIO || g == GroupNone {
		return nil, nil
	}

	var out []PinRef

	for i := range b.pins {
		if i == off {
			continue
		}

		s := b.slotAt(i)
		if s.Family.Group() == g && s.Instance == self.Instance && !s.Family.IsGPIO() {
			out = append(out, PinRef{
				Connector: b.Connectors[i/b.PinsPerConnector],
				Pin:       i % b.PinsPerConnector,
				Slot:      s,
			})
		}
	}

	return out, nil
}

// Pins returns every pin of the board in connector order.
func (b Board) Pins() []PinRef {
	out := make([]PinRef, 0, len(b.pins))
	for i := range b.pins {
		out = append(out, PinRef{
			Connector: b.Connectors[i/b.PinsPerConnector],
			Pin:       i % b.PinsPerConnector,
			Slot:      b.slotAt(i),
		})
	}

	return out
}

// ComponentPins returns the pins of one component instance in board order.
func (b Board) ComponentPins(g Group, instance int) []PinRef {
	var out []PinRef

	for _, p := range b.Pins() {
		if p.Slot.Family.Group() == g && p.Slot.Instance == instance && !p.Slot.Family.IsGPIO() {
			out = append(out, p)
		}
	}

	return out
}

// SSerialChannels returns the smart-serial channel numbers enabled on the board.
func (b Board) SSerialChannels() []int {
	var out []int

	for _, p := range b.Pins() {
		if p.Slot.Family == SSerialRX && !slices.Contains(out, p.Slot.Instance) {
			out = append(out, p.Slot.Instance)
		}
	}

	slices.Sort(out)

	return out
}
