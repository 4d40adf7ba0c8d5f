package signal

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"halconf-generator/internal/match"
)

// Custom is a user created base name and the kind it was created for.
type Custom struct {
	Kind Kind
	Base string
}

// Namespace is the set of signal names known to one configuration.
// It is not safe for concurrent use.
type Namespace struct {
	logger *zap.Logger

	signals    []Signal
	byName     map[string]int
	bases      map[string]Kind
	labels     map[string]string
	categories map[Kind][]string
	customs    []Custom
}

// NewNamespace returns a namespace holding the built-in signals.
// A nil logger disables logging.
func NewNamespace(logger *zap.Logger) *Namespace {
	if logger == nil {
		logger = zap.NewNop()
	}

	n := &Namespace{logger: logger}
	n.Reset()

	return n
}

// Reset drops every custom signal.
func (n *Namespace) Reset() {
	n.signals = nil
	n.byName = map[string]int{}
	n.bases = map[string]Kind{}
	n.labels = map[string]string{}
	n.categories = map[Kind][]string{}
	n.customs = nil

	for _, c := range builtinCategories() {
		n.categories[c.kind] = append(n.categories[c.kind], c.name)
		for _, base := range c.bases {
			n.add(base, labelFor(base), c.name, c.kind, false)
		}
	}

	for _, k := range Kinds {
		n.categories[k] = append(n.categories[k], CustomCategory)
	}
}

func (n *Namespace) add(base, label, category string, kind Kind, custom bool) {
	n.bases[base] = kind
	n.labels[strings.ToLower(label)] = base

	for _, ending := range kind.Endings() {
		s := Signal{
			Name:     base + ending,
			Base:     base,
			Ending:   ending,
			Label:    label,
			Category: category,
			Kind:     kind,
			Custom:   custom,
		}
		n.byName[s.Name] = len(n.signals)
		n.signals = append(n.signals, s)
	}
}

// Resolve looks a signal up by its full name.
func (n *Namespace) Resolve(name string) (Signal, error) {
	if i, ok := n.byName[name]; ok {
		return n.signals[i], nil
	}

	return Signal{}, n.unknown(name)
}

// ResolveBase returns the controlling signal of a base name. A base that
// exists under another kind fails with ErrIncompatibleSignal.
func (n *Namespace) ResolveBase(base string, kind Kind) (Signal, error) {
	k, ok := n.bases[base]
	if !ok {
		return Signal{}, n.unknown(base)
	}

	if k != kind {
		return Signal{}, fmt.Errorf("%w: %q is a %s signal, not %s", ErrIncompatibleSignal, base, k, kind)
	}

	return n.Resolve(base + kind.ControllingEnding())
}

// Lookup finds the controlling signal named by text for a pin of the given
// kind. text may be a full name, a base, or a label.
func (n *Namespace) Lookup(text string, kind Kind) (Signal, error) {
	if s, err := n.Resolve(text); err == nil {
		if s.Kind != kind {
			return Signal{}, fmt.Errorf("%w: %q is a %s signal, not %s", ErrIncompatibleSignal, text, s.Kind, kind)
		}

		return n.ResolveBase(s.Base, kind)
	}

	if _, ok := n.bases[text]; ok {
		return n.ResolveBase(text, kind)
	}

	if base, ok := n.labels[strings.ToLower(strings.TrimSpace(text))]; ok {
		return n.ResolveBase(base, kind)
	}

	return Signal{}, n.unknown(text)
}

// RegisterCustom adds a new base name for the given kind along with every
// ending of that kind, and returns its controlling signal.
func (n *Namespace) RegisterCustom(text string, kind Kind) (Signal, error) {
	base := Legalize(text)
	if base == "" {
		return Signal{}, fmt.Errorf("%w: empty name", ErrUnknownSignal)
	}

	if n.taken(base, strings.TrimSpace(text), kind) {
		return Signal{}, fmt.Errorf("%w: %q", ErrDuplicateSignal, base)
	}

	n.add(base, strings.TrimSpace(text), CustomCategory, kind, true)
	n.customs = append(n.customs, Custom{Kind: kind, Base: base})

	n.logger.Debug("registered custom signal",
		zap.String("base", base),
		zap.Stringer("kind", kind),
	)

	return n.Resolve(base + kind.ControllingEnding())
}

func (n *Namespace) taken(base, label string, kind Kind) bool {
	if _, ok := n.bases[base]; ok {
		return true
	}

	if _, ok := n.labels[strings.ToLower(label)]; ok {
		return true
	}

	if _, ok := n.labels[strings.ToLower(base)]; ok {
		return true
	}

	for _, ending := range kind.Endings() {
		if _, ok := n.byName[base+ending]; ok {
			return true
		}
	}

	_, ok := n.byName[base]

	return ok
}

// Name returns the full signal name for a base on a pin with the given ending.
func (n *Namespace) Name(base, ending string) (string, error) {
	s, err := n.Resolve(base + ending)
	if err != nil {
		return "", err
	}

	return s.Name, nil
}

// ByKind returns the controlling signals of a kind in category order.
func (n *Namespace) ByKind(kind Kind) []Signal {
	var out []Signal

	for _, cat := range n.categories[kind] {
		for _, s := range n.signals {
			if s.Kind == kind && s.Category == cat && s.IsControlling() {
				out = append(out, s)
			}
		}
	}

	return out
}

// Categories returns the category names of a kind in display order.
func (n *Namespace) Categories(kind Kind) []string {
	return slices.Clone(n.categories[kind])
}

// Customs lists custom bases in registration order.
func (n *Namespace) Customs() []Custom {
	return slices.Clone(n.customs)
}

// Suggest returns up to three known names close to name.
func (n *Namespace) Suggest(name string) []string {
	names := make([]string, 0, len(n.signals))
	for _, s := range n.signals {
		names = append(names, s.Name)
	}

	return match.Suggest(name, names, 3)
}

func (n *Namespace) unknown(name string) error {
	if s := n.Suggest(name); len(s) > 0 {
		return fmt.Errorf("%w: %q (did you mean %s)", ErrUnknownSignal, name, strings.Join(s, ", "))
	}

	return fmt.Errorf("%w: %q", ErrUnknownSignal, name)
}
