package gen

import (
	"fmt"

	"halconf-generator/internal/firmware"
	"halconf-generator/internal/machine"
)

// placed is a pin carrying a signal, as seen by the generators.
type placed struct {
	Loc    machine.Location
	Signal string
	Type   firmware.Family
	Slot   firmware.Slot
	Invert bool
}

// wiring indexes the placed signals of a configuration.
type wiring struct {
	m      *machine.MachineConfig
	pins   []placed
	byName map[string][]placed
}

func newWiring(m *machine.MachineConfig) (*wiring, error) {
	if len(m.Axes) == 0 {
		return nil, ErrNoAxes
	}

	w := &wiring{m: m, byName: map[string][]placed{}}

	for _, l := range m.Locations() {
		p, err := m.Pin(l)
		if err != nil {
			return nil, err
		}

		if !p.IsUsed() {
			continue
		}

		slot, err := m.Slot(l)
		if err != nil {
			return nil, fmt.Errorf("pin %s: %w", l, err)
		}

		pl := placed{Loc: l, Signal: p.Signal, Type: p.Type, Slot: slot, Invert: p.Inverted}
		w.pins = append(w.pins, pl)
		w.byName[p.Signal] = append(w.byName[p.Signal], pl)
	}

	return w, nil
}

// find returns the first pin carrying signal.
func (w *wiring) find(signal string) (placed, bool) {
	ps := w.byName[signal]
	if len(ps) == 0 {
		return placed{}, false
	}

	return ps[0], true
}

func (w *wiring) has(signal string) bool {
	return len(w.byName[signal]) > 0
}

// first returns the first of signals that is placed.
func (w *wiring) first(signals ...string) (string, bool) {
	for _, s := range signals {
		if w.has(s) {
			return s, true
		}
	}

	return "", false
}

// boardPrefix is the hostmot2 name of a mesa board, e.g. "hm2_5i20.0".
func boardPrefix(mb *machine.MesaBoard, index int) string {
	return fmt.Sprintf("hm2_%s.%d", mb.Board.BoardName, index)
}

// channelPrefix is the hal name of a smart-serial daughter board,
// e.g. "hm2_5i25.0.7i76.0.1".
func (w *wiring) channelPrefix(l machine.Location) (string, error) {
	mb, err := w.m.MesaBoard(l.Board)
	if err != nil {
		return "", err
	}

	d, ok := mb.Channels[l.Channel]
	if !ok {
		return "", fmt.Errorf("%w: %s", machine.ErrUnknownLocation, l)
	}

	return fmt.Sprintf("%s.%s.%d.%d", boardPrefix(mb, l.Board), d.Component, l.Connector, l.Channel), nil
}

// halName is the hal stem of the component or gpio a pin belongs to.
// Component pins are reached by appending ".position", ".enable" and so on;
// gpio pins by appending ".in", ".out" or the smart-serial "-not" form.
func (w *wiring) halName(p placed) (string, error) {
	switch p.Loc.Source {
	case machine.SourceMesa:
		return w.mesaName(p)
	case machine.SourceSSerial:
		prefix, err := w.channelPrefix(p.Loc)
		if err != nil {
			return "", err
		}

		if p.Slot.Family == firmware.Amp8i20 {
			return prefix, nil
		}

		mb, _ := w.m.MesaBoard(p.Loc.Board)

		sp, err := mb.Channels[p.Loc.Channel].SubPin(p.Loc.Pin)
		if err != nil {
			return "", err
		}

		return prefix + "." + sp.Name, nil
	case machine.SourceParport:
		return fmt.Sprintf("parport.%d.pin-%02d", p.Loc.Board, p.Loc.Pin), nil
	default:
		return "", fmt.Errorf("%w: %s", machine.ErrUnknownLocation, p.Loc)
	}
}

func (w *wiring) mesaName(p placed) (string, error) {
	mb, err := w.m.MesaBoard(p.Loc.Board)
	if err != nil {
		return "", err
	}

	prefix := boardPrefix(mb, p.Loc.Board)

	switch g := p.Slot.Family.Group(); g {
	case firmware.GroupGPIO:
		n, err := mb.Board.GPIONumber(p.Loc.Connector, p.Loc.Pin)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s.gpio.%03d", prefix, n), nil
	case firmware.GroupEncoder:
		return fmt.Sprintf("%s.encoder.%02d", prefix, p.Slot.Instance), nil
	case firmware.GroupResolver:
		return fmt.Sprintf("%s.resolver.%02d", prefix, p.Slot.Instance), nil
	case firmware.GroupPWM:
		return fmt.Sprintf("%s.pwmgen.%02d", prefix, p.Slot.Instance), nil
	case firmware.GroupThreePhasePWM:
		return fmt.Sprintf("%s.3pwmgen.%02d", prefix, p.Slot.Instance), nil
	case firmware.GroupStepgen:
		return fmt.Sprintf("%s.stepgen.%02d", prefix, p.Slot.Instance), nil
	case firmware.GroupNone, firmware.GroupSmartSerial, firmware.GroupAnalogIn,
		firmware.GroupPotentiometer, firmware.GroupAmp8i20:
		return "", fmt.Errorf("%w: %s has no hal pin for %s", machine.ErrUnknownLocation, p.Loc, g)
	default:
		return "", fmt.Errorf("%w: %s has no hal pin for %s", machine.ErrUnknownLocation, p.Loc, g)
	}
}

// inputPin is the hal pin an input signal is read from.
func (w *wiring) inputPin(p placed) (string, error) {
	name, err := w.halName(p)
	if err != nil {
		return "", err
	}

	switch {
	case p.Slot.Family == firmware.AnalogIn:
		return name, nil
	case p.Loc.Source == machine.SourceMesa && p.Invert:
		return name + ".in_not", nil
	case p.Loc.Source == machine.SourceMesa:
		return name + ".in", nil
	case p.Loc.Source == machine.SourceParport && p.Invert:
		return name + "-in-not", nil
	case p.Loc.Source == machine.SourceParport:
		return name + "-in", nil
	case p.Invert:
		return name + "-not", nil
	default:
		return name, nil
	}
}

// outputPin is the hal pin an output signal drives.
func (w *wiring) outputPin(p placed) (string, error) {
	name, err := w.halName(p)
	if err != nil {
		return "", err
	}

	switch p.Loc.Source {
	case machine.SourceMesa:
		return name + ".out", nil
	case machine.SourceParport:
		return name + "-out", nil
	default:
		return name, nil
	}
}
