package persist

import (
	"fmt"

	"go.uber.org/zap"

	"halconf-generator/internal/firmware"
	"halconf-generator/internal/machine"
	"halconf-generator/internal/signal"
)

// Option configures Load.
type Option func(*reader)

// WithLogger sets the logger used to report skipped records.
func WithLogger(l *zap.Logger) Option {
	return func(r *reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// reader hands records to fields and remembers which were consumed.
type reader struct {
	logger *zap.Logger
	props  map[string]Property
	order  []string
	used   map[string]bool
}

func newReader(doc *Document, opts []Option) *reader {
	r := &reader{
		logger: zap.NewNop(),
		props:  make(map[string]Property, len(doc.Properties)),
		used:   map[string]bool{},
	}

	for _, opt := range opts {
		opt(r)
	}

	for _, p := range doc.Properties {
		if _, seen := r.props[p.Name]; !seen {
			r.order = append(r.order, p.Name)
		}

		r.props[p.Name] = p
	}

	return r
}

// lookup returns the record called name after checking its type tag.
func (r *reader) lookup(name string, typ Type) (Property, bool, error) {
	p, ok := r.props[name]
	if !ok {
		return Property{}, false, nil
	}

	r.used[name] = true

	if p.Type != typ {
		return Property{}, false, fmt.Errorf("%w: %s is %s, want %s", ErrTypeMismatch, name, p.Type, typ)
	}

	return p, true, nil
}

// apply sets every field that has a record. Missing records keep the
// current value.
func (r *reader) apply(fs ...field) error {
	for _, f := range fs {
		p, ok, err := r.lookup(f.name, f.typ)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		if err := f.set(p); err != nil {
			return err
		}
	}

	return nil
}

func (r *reader) text(name string) (string, bool, error) {
	p, ok, err := r.lookup(name, TypeString)

	return p.Value, ok, err
}

// Load rebuilds a machine configuration from a Document. The namespace is
// reset and the saved custom signals are registered again before any pin is
// restored. Boards are looked up in catalog, so custom firmware must be
// registered beforehand. Records with unknown names are skipped.
func Load(doc *Document, catalog *firmware.Catalog, ns *signal.Namespace, opts ...Option) (*machine.MachineConfig, error) {
	r := newReader(doc, opts)

	units := machine.UnitsMetric
	if err := r.apply(enumField("machine.units", &units,
		[]machine.Units{machine.UnitsMetric, machine.UnitsImperial})); err != nil {
		return nil, err
	}

	m := machine.New("", units)

	if err := r.apply(machineFields(m)...); err != nil {
		return nil, err
	}

	ns.Reset()

	for _, k := range signal.Kinds {
		p, ok, err := r.lookup(customName(k), TypeList)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		for _, base := range p.Items {
			if _, err := ns.RegisterCustom(base, k); err != nil {
				return nil, fmt.Errorf("failed to restore custom signal %q: %w", base, err)
			}
		}
	}

	if err := r.apply(optionFields(&m.Options)...); err != nil {
		return nil, err
	}

	for _, a := range machine.AllAxes {
		if err := r.apply(axisFields(a, m.Axis(a))...); err != nil {
			return nil, err
		}
	}

	for i := range machine.MaxMesaBoards {
		if err := r.mesa(m, catalog, i); err != nil {
			return nil, err
		}
	}

	for i := range machine.MaxParports {
		if err := r.parport(m, i); err != nil {
			return nil, err
		}
	}

	for _, l := range m.Locations() {
		if err := r.pin(m, ns, l); err != nil {
			return nil, err
		}
	}

	for _, name := range r.order {
		if !r.used[name] {
			r.logger.Debug("ignoring unknown property", zap.String("name", name))
		}
	}

	return m, nil
}

func (r *reader) mesa(m *machine.MachineConfig, catalog *firmware.Catalog, index int) error {
	prefix := fmt.Sprintf("mesa%d", index)

	title, ok, err := r.text(prefix + ".board")
	if err != nil || !ok {
		return err
	}

	fw, _, err := r.text(prefix + ".firmware")
	if err != nil {
		return err
	}

	b, err := catalog.Lookup(title, fw)
	if err != nil {
		return err
	}

	counts := b.Max
	if err := r.apply(countsFields(prefix+".counts", &counts)...); err != nil {
		return err
	}

	mb, err := m.SetMesa(index, b.WithCounts(counts))
	if err != nil {
		return err
	}

	if err := r.apply(mesaFields(prefix, mb)...); err != nil {
		return err
	}

	for _, c := range mb.Board.Connectors {
		model, ok, err := r.text(fmt.Sprintf("%s.c%d.daughter", prefix, c))
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		if _, known := firmware.LookupConnectorDaughter(model); !known {
			return fmt.Errorf("%w: unknown connector daughter board %q", firmware.ErrIncompatibleDaughterBoard, model)
		}

		mb.ConnectorDaughters[c] = model
	}

	for _, ch := range mb.Board.SSerialChannels() {
		model, ok, err := r.text(channelName(prefix, ch))
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		d, err := catalog.Daughter(model)
		if err != nil {
			return err
		}

		if err := m.SetChannel(index, ch, &d); err != nil {
			return err
		}
	}

	return nil
}

func (r *reader) parport(m *machine.MachineConfig, index int) error {
	prefix := fmt.Sprintf("parport%d", index)
	if _, ok := r.props[prefix+".address"]; !ok {
		return nil
	}

	var p machine.Parport
	if err := r.apply(parportFields(prefix, &p)...); err != nil {
		return err
	}

	return m.SetParport(index, p)
}

func (r *reader) pin(m *machine.MachineConfig, ns *signal.Namespace, l machine.Location) error {
	pin, err := m.Pin(l)
	if err != nil {
		return err
	}

	name := l.String()

	if err := r.apply(familyField(name+".type", &pin.Type), boolField(name+".inverted", &pin.Inverted)); err != nil {
		return err
	}

	sig, ok, err := r.text(name + ".signal")
	if err != nil || !ok {
		return err
	}

	s, err := ns.Resolve(sig)
	if err != nil {
		return fmt.Errorf("failed to restore %s: %w", name, err)
	}

	kind, known := signal.KindOf(pin.Type)
	if !known || s.Kind != kind {
		return fmt.Errorf("failed to restore %s: %w: %q on a %s pin",
			name, signal.ErrIncompatibleSignal, sig, pin.Type)
	}

	pin.Signal = sig

	return nil
}
