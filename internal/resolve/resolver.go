package resolve

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"halconf-generator/internal/firmware"
	"halconf-generator/internal/machine"
	"halconf-generator/internal/signal"
)

// UnusedText clears a pin when given as the signal of an edit.
const UnusedText = "unused"

// Resolver edits one machine configuration.
type Resolver struct {
	m       *machine.MachineConfig
	ns      *signal.Namespace
	catalog *firmware.Catalog
	logger  *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for propagation traces.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a resolver editing m.
func New(m *machine.MachineConfig, ns *signal.Namespace, catalog *firmware.Catalog, opts ...Option) *Resolver {
	r := &Resolver{m: m, ns: ns, catalog: catalog, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Machine returns the configuration being edited.
func (r *Resolver) Machine() *machine.MachineConfig {
	return r.m
}

// AssignSignal places a signal on a controlling pin and names its siblings.
// text is a known signal, base or label, free text for a new custom signal,
// or empty / "unused" to clear the component.
func (r *Resolver) AssignSignal(loc machine.Location, text string) error {
	pin, err := r.m.Pin(loc)
	if err != nil {
		return err
	}

	f := pin.Type
	if f.IsFixed() || !f.IsControlling() {
		return fmt.Errorf("%w: %s is %s", ErrNotControllingPin, loc, f)
	}

	siblings, err := r.siblings(loc)
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" || text == UnusedText {
		pin.Signal = ""
		for _, s := range siblings {
			if p, err := r.m.Pin(s); err == nil {
				p.Signal = ""
			}
		}

		r.logger.Debug("cleared pin", zap.Stringer("location", loc), zap.Int("siblings", len(siblings)))

		return nil
	}

	kind, ok := signal.KindOf(f)
	if !ok {
		return fmt.Errorf("%w: %s carries no signals", ErrNotControllingPin, loc)
	}

	sig, err := r.ns.Lookup(text, kind)
	if errors.Is(err, signal.ErrUnknownSignal) {
		sig, err = r.ns.RegisterCustom(text, kind)
	}

	if err != nil {
		return fmt.Errorf("assign %s: %w", loc, err)
	}

	pin.Signal = sig.Name

	for _, s := range siblings {
		p, err := r.m.Pin(s)
		if err != nil {
			return err
		}

		name, err := r.ns.Name(sig.Base, p.Type.Ending())
		if err != nil {
			return fmt.Errorf("assign %s sibling %s: %w", loc, s, err)
		}

		p.Signal = name
	}

	r.logger.Debug("assigned signal",
		zap.Stringer("location", loc),
		zap.String("signal", sig.Name),
		zap.Int("siblings", len(siblings)),
	)

	return nil
}

// SetInverted sets the inversion flag of exactly one pin.
func (r *Resolver) SetInverted(loc machine.Location, inverted bool) error {
	pin, err := r.m.Pin(loc)
	if err != nil {
		return err
	}

	if pin.Type.IsFixed() {
		return fmt.Errorf("%w: %s is %s", ErrNotControllingPin, loc, pin.Type)
	}

	pin.Inverted = inverted

	return nil
}

// SetPinType changes how a pin is used where the firmware allows a choice:
// gpio direction on free pins, and pwm/pdm/udm mode on pwm generators. A mode
// change re-types every sibling of the generator.
func (r *Resolver) SetPinType(loc machine.Location, want firmware.Family) error {
	pin, err := r.m.Pin(loc)
	if err != nil {
		return err
	}

	slot, err := r.m.Slot(loc)
	if err != nil {
		return err
	}

	switch {
	case slot.Family.IsGPIO():
		return r.setGPIOType(loc, pin, slot, want)
	case isSwitchablePWM(slot.Family):
		return r.setPWMMode(loc, pin, want)
	case want == pin.Type:
		return nil
	default:
		return fmt.Errorf("%w: %s is %s, cannot become %s", ErrIncompatibleType, loc, slot.Family, want)
	}
}

func (r *Resolver) setGPIOType(loc machine.Location, pin *machine.PinAssignment, slot firmware.Slot, want firmware.Family) error {
	if !want.IsGPIO() {
		return fmt.Errorf("%w: %s is a gpio, cannot become %s", ErrIncompatibleType, loc, want)
	}

	if want == pin.Type {
		return nil
	}

	if !slot.Free {
		return fmt.Errorf("%w: %s is %s", ErrFixedDirection, loc, slot.Family)
	}

	// an input signal cannot stay on an output
	if pin.Type.IsOutput() != want.IsOutput() {
		pin.Signal = ""
		pin.Inverted = false
	}

	pin.Type = want

	return nil
}

func isSwitchablePWM(f firmware.Family) bool {
	_, ok := f.Mode()

	return ok && f != firmware.AnalogOutput
}

func (r *Resolver) setPWMMode(loc machine.Location, pin *machine.PinAssignment, want firmware.Family) error {
	mode, ok := want.Mode()
	if !ok || !isSwitchablePWM(want) {
		return fmt.Errorf("%w: %s is a pwm generator, cannot become %s", ErrIncompatibleType, loc, want)
	}

	if !pin.Type.IsControlling() {
		return fmt.Errorf("%w: %s is %s", ErrNotControllingPin, loc, pin.Type)
	}

	if want != pin.Type.WithMode(mode) {
		return fmt.Errorf("%w: controlling pin %s cannot become %s", ErrIncompatibleType, loc, want)
	}

	siblings, err := r.siblings(loc)
	if err != nil {
		return err
	}

	pin.Type = want

	for _, s := range siblings {
		p, err := r.m.Pin(s)
		if err != nil {
			return err
		}

		p.Type = p.Type.WithMode(mode)
	}

	r.logger.Debug("switched pwm mode", zap.Stringer("location", loc), zap.Stringer("mode", mode))

	return nil
}

func (r *Resolver) siblings(loc machine.Location) ([]machine.Location, error) {
	switch loc.Source {
	case machine.SourceMesa:
		mb, err := r.m.MesaBoard(loc.Board)
		if err != nil {
			return nil, err
		}

		refs, err := mb.Board.Siblings(loc.Connector, loc.Pin)
		if err != nil {
			return nil, err
		}

		out := make([]machine.Location, 0, len(refs))
		for _, p := range refs {
			out = append(out, machine.MesaPin(loc.Board, p.Connector, p.Pin))
		}

		return out, nil
	case machine.SourceSSerial:
		mb, err := r.m.MesaBoard(loc.Board)
		if err != nil {
			return nil, err
		}

		d, ok := mb.Channels[loc.Channel]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, loc)
		}

		var out []machine.Location
		for _, i := range d.Siblings(loc.Pin) {
			out = append(out, machine.SSerialPin(loc.Board, loc.Connector, loc.Channel, i))
		}

		return out, nil
	default:
		return nil, nil
	}
}

// SelectBoard loads a board/firmware pair from the catalog into mesa slot index.
func (r *Resolver) SelectBoard(index int, title, fw string) error {
	b, err := r.catalog.Lookup(title, fw)
	if err != nil {
		return err
	}

	_, err = r.m.SetMesa(index, b)
	if err != nil {
		return err
	}

	r.logger.Info("selected board", zap.Int("index", index), zap.String("board", b.Key()))

	return nil
}

// SetCounts enables a number of each component on a selected board. The
// board is rebuilt, so its pins return to unused.
func (r *Resolver) SetCounts(index int, c firmware.Counts) error {
	old, err := r.m.MesaBoard(index)
	if err != nil {
		return err
	}

	keep := *old

	mb, err := r.m.SetMesa(index, old.Board.WithCounts(c))
	if err != nil {
		return err
	}

	mb.PWMFrequency = keep.PWMFrequency
	mb.PDMFrequency = keep.PDMFrequency
	mb.WatchdogNS = keep.WatchdogNS
	mb.ConnectorDaughters = keep.ConnectorDaughters

	return nil
}

// SelectDaughterBoard fits a smart-serial daughter board to a channel of
// port 0, or removes it for "" / "none". The channel's previous sub-pin
// assignments are discarded.
func (r *Resolver) SelectDaughterBoard(board, channel int, model string) error {
	mb, err := r.m.MesaBoard(board)
	if err != nil {
		return err
	}

	if !slices.Contains(mb.Board.SSerialChannels(), channel) {
		return fmt.Errorf("%w: %s has no smart-serial channel %d enabled",
			firmware.ErrIncompatibleDaughterBoard, mb.Board.Key(), channel)
	}

	if model == "" || model == "none" {
		return r.m.SetChannel(board, channel, nil)
	}

	d, err := r.catalog.Daughter(model)
	if err != nil {
		return err
	}

	if err := r.m.SetChannel(board, channel, &d); err != nil {
		return err
	}

	r.logger.Info("selected daughter board",
		zap.Int("board", board),
		zap.Int("channel", channel),
		zap.String("model", model),
	)

	return nil
}

// SetConnectorDaughter declares a plain daughter board on a mesa connector,
// or removes the declaration for "" / "none".
func (r *Resolver) SetConnectorDaughter(board, connector int, model string) error {
	mb, err := r.m.MesaBoard(board)
	if err != nil {
		return err
	}

	if _, ok := mb.Board.ConnectorIndex(connector); !ok {
		return fmt.Errorf("%w: %s has no connector %d", ErrUnknownLocation, mb.Board.Key(), connector)
	}

	if model == "" || model == "none" {
		delete(mb.ConnectorDaughters, connector)

		return nil
	}

	if _, ok := firmware.LookupConnectorDaughter(model); !ok {
		return fmt.Errorf("%w: unknown connector daughter board %q", firmware.ErrIncompatibleDaughterBoard, model)
	}

	mb.ConnectorDaughters[connector] = model

	return nil
}
