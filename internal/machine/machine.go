package machine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"halconf-generator/internal/firmware"
)

const (
	// MaxMesaBoards is the number of mesa boards a machine may carry.
	MaxMesaBoards = 2
	// MaxParports is the number of parallel ports a machine may carry.
	MaxParports = 3
)

// PinAssignment is the editable state of one pin.
type PinAssignment struct {
	// Signal is the full signal name, empty when unused.
	Signal   string
	Type     firmware.Family
	Inverted bool
}

// IsUsed reports whether a signal is placed on the pin.
func (p PinAssignment) IsUsed() bool {
	return p.Signal != ""
}

// MesaBoard is a selected mesa board with its machine specific settings.
type MesaBoard struct {
	Board        firmware.Board
	PWMFrequency int
	PDMFrequency int
	WatchdogNS   int
	// ConnectorDaughters maps a connector number to a plain daughter board model.
	ConnectorDaughters map[int]string
	// Channels maps a smart-serial channel of port 0 to its daughter board.
	Channels map[int]firmware.DaughterBoard
}

// MachineConfig is the aggregate root of one machine configuration.
type MachineConfig struct {
	ID      uuid.UUID
	Name    string
	Units   Units
	Axes    []Axis
	Options Options

	Mesa     []*MesaBoard
	Parports []*Parport

	pins map[Location]*PinAssignment
	axes map[Axis]*AxisConfig
}

// New returns an XYZ machine with no hardware selected.
func New(name string, units Units) *MachineConfig {
	m := &MachineConfig{
		ID:    uuid.New(),
		Name:  name,
		Units: units,
		Axes:  []Axis{AxisX, AxisY, AxisZ},
		Options: Options{
			ServoPeriodNS:      1_000_000,
			SharedMPG:          true,
			Increments:         []float64{0.1, 0.01, 0.001, 0.0001},
			MaxFeedOverride:    2.0,
			MaxSpindleOverride: 1.0,
			Position:           "RELATIVE",
		},
		pins: map[Location]*PinAssignment{},
		axes: map[Axis]*AxisConfig{},
	}

	if units == UnitsMetric {
		m.Options.Increments = []float64{1, 0.1, 0.01, 0.001}
		m.Options.DefaultLinearVel = 5
		m.Options.MaxLinearVel = 25
	} else {
		m.Options.DefaultLinearVel = 0.25
		m.Options.MaxLinearVel = 1
	}

	for _, a := range AllAxes {
		c := DefaultAxisConfig(a, units)
		m.axes[a] = &c
	}

	return m
}

// Axis returns the parameters of an axis.
func (m *MachineConfig) Axis(a Axis) *AxisConfig {
	c, ok := m.axes[a]
	if !ok {
		d := DefaultAxisConfig(a, m.Units)
		c = &d
		m.axes[a] = c
	}

	return c
}

// HasAxis reports whether a is one of the configured coordinates.
// The spindle is always configured.
func (m *MachineConfig) HasAxis(a Axis) bool {
	return a == AxisSpindle || slices.Contains(m.Axes, a)
}

// SetMesa places a board in slot index, replacing whatever was there.
// Every pin of the slot, including smart-serial sub-pins, is reset to unused.
func (m *MachineConfig) SetMesa(index int, b firmware.Board) (*MesaBoard, error) {
	if index < 0 || index >= MaxMesaBoards {
		return nil, fmt.Errorf("%w: mesa board %d", ErrUnknownLocation, index)
	}

	for len(m.Mesa) <= index {
		m.Mesa = append(m.Mesa, nil)
	}

	m.dropPins(func(l Location) bool {
		return (l.Source == SourceMesa || l.Source == SourceSSerial) && l.Board == index
	})

	mb := &MesaBoard{
		Board:              b,
		PWMFrequency:       20_000,
		PDMFrequency:       6_000_000,
		WatchdogNS:         5_000_000,
		ConnectorDaughters: map[int]string{},
		Channels:           map[int]firmware.DaughterBoard{},
	}
	m.Mesa[index] = mb

	for _, p := range b.Pins() {
		m.pins[MesaPin(index, p.Connector, p.Pin)] = &PinAssignment{Type: p.Slot.Family}
	}

	return mb, nil
}

// RemoveMesa drops the board in slot index together with its pins.
func (m *MachineConfig) RemoveMesa(index int) {
	if index < 0 || index >= len(m.Mesa) {
		return
	}

	m.Mesa[index] = nil
	m.dropPins(func(l Location) bool {
		return (l.Source == SourceMesa || l.Source == SourceSSerial) && l.Board == index
	})

	for len(m.Mesa) > 0 && m.Mesa[len(m.Mesa)-1] == nil {
		m.Mesa = m.Mesa[:len(m.Mesa)-1]
	}
}

// MesaBoard returns the board in slot index.
func (m *MachineConfig) MesaBoard(index int) (*MesaBoard, error) {
	if index < 0 || index >= len(m.Mesa) || m.Mesa[index] == nil {
		return nil, fmt.Errorf("%w: mesa board %d", ErrUnknownLocation, index)
	}

	return m.Mesa[index], nil
}

// SetChannel fits a daughter board to a smart-serial channel, or removes it
// when d is nil. Prior assignments on the channel are discarded.
func (m *MachineConfig) SetChannel(board, channel int, d *firmware.DaughterBoard) error {
	mb, err := m.MesaBoard(board)
	if err != nil {
		return err
	}

	m.dropPins(func(l Location) bool {
		return l.Source == SourceSSerial && l.Board == board && l.Channel == channel
	})
	delete(mb.Channels, channel)

	if d == nil {
		return nil
	}

	mb.Channels[channel] = *d

	for i, p := range d.Pins {
		m.pins[SSerialPin(board, 0, channel, i)] = &PinAssignment{Type: p.Family}
	}

	return nil
}

// SetParport places a parallel port in slot index and resets its pins.
func (m *MachineConfig) SetParport(index int, p Parport) error {
	if index < 0 || index >= MaxParports {
		return fmt.Errorf("%w: parport %d", ErrUnknownLocation, index)
	}

	for len(m.Parports) <= index {
		m.Parports = append(m.Parports, nil)
	}

	m.dropPins(func(l Location) bool {
		return l.Source == SourceParport && l.Board == index
	})

	pp := p
	m.Parports[index] = &pp

	for pin := 1; pin <= ParportPins; pin++ {
		f, err := ParportFamily(p.Direction, pin)
		if err != nil {
			return err
		}

		m.pins[ParportPin(index, pin)] = &PinAssignment{Type: f}
	}

	return nil
}

// Pin returns the assignment at a location.
func (m *MachineConfig) Pin(l Location) (*PinAssignment, error) {
	p, ok := m.pins[l]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, l)
	}

	return p, nil
}

// Locations returns every pin location in a stable order.
func (m *MachineConfig) Locations() []Location {
	locs := slices.Collect(maps.Keys(m.pins))
	slices.SortFunc(locs, CompareLocations)

	return locs
}

// Slot returns the firmware view of the pin at a location.
func (m *MachineConfig) Slot(l Location) (firmware.Slot, error) {
	switch l.Source {
	case SourceMesa:
		mb, err := m.MesaBoard(l.Board)
		if err != nil {
			return firmware.Slot{}, err
		}

		return mb.Board.Slot(l.Connector, l.Pin)
	case SourceSSerial:
		mb, err := m.MesaBoard(l.Board)
		if err != nil {
			return firmware.Slot{}, err
		}

		d, ok := mb.Channels[l.Channel]
		if !ok || l.Connector != 0 {
			return firmware.Slot{}, fmt.Errorf("%w: %s", ErrUnknownLocation, l)
		}

		sp, err := d.SubPin(l.Pin)
		if err != nil {
			return firmware.Slot{}, err
		}

		return sp.Slot, nil
	case SourceParport:
		if l.Board < 0 || l.Board >= len(m.Parports) || m.Parports[l.Board] == nil {
			return firmware.Slot{}, fmt.Errorf("%w: %s", ErrUnknownLocation, l)
		}

		f, err := ParportFamily(m.Parports[l.Board].Direction, l.Pin)

		return firmware.Slot{Family: f}, err
	default:
		return firmware.Slot{}, fmt.Errorf("%w: %s", ErrUnknownLocation, l)
	}
}

// FindSignal returns the first location, in Locations order, carrying signal name.
func (m *MachineConfig) FindSignal(name string) (Location, bool) {
	if name == "" {
		return Location{}, false
	}

	for _, l := range m.Locations() {
		if m.pins[l].Signal == name {
			return l, true
		}
	}

	return Location{}, false
}

// HasSignal reports whether any pin carries signal name.
func (m *MachineConfig) HasSignal(name string) bool {
	_, ok := m.FindSignal(name)

	return ok
}

func (m *MachineConfig) dropPins(match func(Location) bool) {
	for l := range m.pins {
		if match(l) {
			delete(m.pins, l)
		}
	}
}
