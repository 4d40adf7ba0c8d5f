package persist

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"halconf-generator/internal/machine"
	"halconf-generator/internal/signal"
)

// Save writes a machine configuration and the custom signals of its
// namespace into a Document. Pins are stored only where they differ from
// the unused default of their slot.
func Save(m *machine.MachineConfig, ns *signal.Namespace) (*Document, error) {
	doc := &Document{Version: Version}

	emit := func(fs ...field) {
		for _, f := range fs {
			doc.Properties = append(doc.Properties, f.get())
		}
	}

	emit(machineFields(m)...)

	for _, k := range signal.Kinds {
		bases := lo.FilterMap(ns.Customs(), func(c signal.Custom, _ int) (string, bool) {
			return c.Base, c.Kind == k
		})
		if len(bases) > 0 {
			doc.Properties = append(doc.Properties, Property{Name: customName(k), Type: TypeList, Items: bases})
		}
	}

	emit(optionFields(&m.Options)...)

	for _, a := range machine.AllAxes {
		emit(axisFields(a, m.Axis(a))...)
	}

	for i, mb := range m.Mesa {
		if mb == nil {
			continue
		}

		prefix := fmt.Sprintf("mesa%d", i)
		counts := mb.Board.Counts

		emit(stringField(prefix+".board", &mb.Board.Title), stringField(prefix+".firmware", &mb.Board.Firmware))
		emit(countsFields(prefix+".counts", &counts)...)
		emit(mesaFields(prefix, mb)...)

		conns := lo.Keys(mb.ConnectorDaughters)
		slices.Sort(conns)

		for _, c := range conns {
			model := mb.ConnectorDaughters[c]
			emit(stringField(fmt.Sprintf("%s.c%d.daughter", prefix, c), &model))
		}

		chans := lo.Keys(mb.Channels)
		slices.Sort(chans)

		for _, ch := range chans {
			model := mb.Channels[ch].Model
			emit(stringField(channelName(prefix, ch), &model))
		}
	}

	for i, p := range m.Parports {
		if p == nil {
			continue
		}

		emit(parportFields(fmt.Sprintf("parport%d", i), p)...)
	}

	for _, l := range m.Locations() {
		pin, err := m.Pin(l)
		if err != nil {
			return nil, err
		}

		slot, err := m.Slot(l)
		if err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", l, err)
		}

		if pin.Type != slot.Family {
			emit(familyField(l.String()+".type", &pin.Type))
		}

		if pin.IsUsed() {
			emit(stringField(l.String()+".signal", &pin.Signal))
		}

		if pin.Inverted {
			emit(boolField(l.String()+".inverted", &pin.Inverted))
		}
	}

	return doc, nil
}

func machineFields(m *machine.MachineConfig) []field {
	return []field{
		textField("machine.id", m.ID.String, func(s string) error {
			id, err := uuid.Parse(s)
			if err != nil {
				return fmt.Errorf("%w: machine.id: %w", ErrInvalidValue, err)
			}

			m.ID = id

			return nil
		}),
		stringField("machine.name", &m.Name),
		enumField("machine.units", &m.Units, []machine.Units{machine.UnitsMetric, machine.UnitsImperial}),
		textField("machine.axes", func() string { return machine.Coordinates(m.Axes) }, func(s string) error {
			axes, ok := machine.ParseCoordinates(s)
			if !ok {
				return fmt.Errorf("%w: machine.axes: %q", ErrInvalidValue, s)
			}

			m.Axes = axes

			return nil
		}),
	}
}

func customName(k signal.Kind) string {
	return "signals.custom." + k.String()
}

func channelName(prefix string, ch int) string {
	return fmt.Sprintf("%s.sserial0.ch%d.board", prefix, ch)
}
