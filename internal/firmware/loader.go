package firmware

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// File is a custom firmware descriptor document.
type File struct {
	Version string      `yaml:"version"`
	Boards  []BoardSpec `yaml:"boards"`
}

// BoardSpec is the YAML form of a Board.
type BoardSpec struct {
	Title            string     `yaml:"title"`
	BoardName        string     `yaml:"board_name,omitempty"`
	Driver           string     `yaml:"driver"`
	Firmware         string     `yaml:"firmware"`
	ClockLow         int        `yaml:"clock_low,omitempty"`
	ClockHigh        int        `yaml:"clock_high,omitempty"`
	Connectors       []int      `yaml:"connectors"`
	PinsPerConnector int        `yaml:"pins_per_connector"`
	Max              Counts     `yaml:"max"`
	Pins             []PinEntry `yaml:"pins"`
}

// PinEntry is one pin row written as a flow sequence:
// [family, instance] or [family, instance, free].
type PinEntry struct {
	Family   Family
	Instance int
	Free     bool
}

// UnmarshalYAML decodes a pin row.
func (p *PinEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) < 2 || len(value.Content) > 3 {
		return fmt.Errorf("line %d: pin row must be [family, instance] or [family, instance, free]", value.Line)
	}

	f, ok := ParseFamily(value.Content[0].Value)
	if !ok {
		return fmt.Errorf("line %d: unknown pin family %q", value.Line, value.Content[0].Value)
	}

	var instance int
	if err := value.Content[1].Decode(&instance); err != nil {
		return fmt.Errorf("line %d: instance: %w", value.Line, err)
	}

	var free bool
	if len(value.Content) == 3 {
		if err := value.Content[2].Decode(&free); err != nil {
			return fmt.Errorf("line %d: free flag: %w", value.Line, err)
		}
	}

	*p = PinEntry{Family: f, Instance: instance, Free: free}

	return nil
}

// MarshalYAML encodes a pin row as a flow sequence.
func (p PinEntry) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	n.Content = append(n.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: p.Family.String(), Style: yaml.DoubleQuotedStyle},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(p.Instance)},
	)

	if p.Free {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}

	return n, nil
}

// LoadFile reads a custom firmware descriptor file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read firmware file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses a custom firmware descriptor document.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse firmware YAML: %w", err)
	}

	if f.Version == "" {
		f.Version = "1"
	}

	for i := range f.Boards {
		if f.Boards[i].BoardName == "" {
			f.Boards[i].BoardName = f.Boards[i].Title
		}
	}

	return &f, nil
}

// Marshal serializes a descriptor document.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// Board converts the spec into a Board without validating it.
func (s BoardSpec) Board() Board {
	pins := make([]rawPin, len(s.Pins))
	for i, p := range s.Pins {
		pins[i] = rawPin(p)
	}

	return Board{
		Title:            s.Title,
		BoardName:        s.BoardName,
		Driver:           s.Driver,
		Firmware:         s.Firmware,
		ClockLow:         s.ClockLow,
		ClockHigh:        s.ClockHigh,
		Connectors:       slices.Clone(s.Connectors),
		PinsPerConnector: s.PinsPerConnector,
		Max:              s.Max,
		Counts:           s.Max,
		pins:             pins,
	}
}

// SpecOf converts a Board back to its YAML form.
func SpecOf(b Board) BoardSpec {
	pins := make([]PinEntry, len(b.pins))
	for i, p := range b.pins {
		pins[i] = PinEntry(p)
	}

	return BoardSpec{
		Title:            b.Title,
		BoardName:        b.BoardName,
		Driver:           b.Driver,
		Firmware:         b.Firmware,
		ClockLow:         b.ClockLow,
		ClockHigh:        b.ClockHigh,
		Connectors:       slices.Clone(b.Connectors),
		PinsPerConnector: b.PinsPerConnector,
		Max:              b.Max,
		Pins:             pins,
	}
}

// componentGroups must carry exactly one controlling pin for every counted instance.
var componentGroups = []Group{GroupEncoder, GroupResolver, GroupPWM, GroupStepgen, GroupThreePhasePWM}

// Validate checks the shape of a board descriptor. All problems are
// reported together, wrapped in ErrInvalidFirmware.
func Validate(b Board) error {
	var errs []error

	required := []struct{ name, value string }{
		{"title", b.Title},
		{"firmware", b.Firmware},
		{"driver", b.Driver},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is empty", r.name))
		}
	}

	if len(b.Connectors) == 0 {
		errs = append(errs, errors.New("no connectors"))
	}

	sorted := slices.Clone(b.Connectors)
	slices.Sort(sorted)

	if len(slices.Compact(sorted)) != len(b.Connectors) {
		errs = append(errs, errors.New("duplicate connector numbers"))
	}

	if b.PinsPerConnector <= 0 {
		errs = append(errs, fmt.Errorf("pins_per_connector must be positive, got %d", b.PinsPerConnector))
	} else if want := len(b.Connectors) * b.PinsPerConnector; len(b.pins) != want {
		errs = append(errs, fmt.Errorf("pin table has %d rows, want %d", len(b.pins), want))
	}

	if b.Max.SSerialPorts > 1 {
		errs = append(errs, fmt.Errorf("sserial_ports is %d, only port 0 is supported", b.Max.SSerialPorts))
	}

	controlling := map[Group]map[int]int{}

	for i, p := range b.pins {
		switch {
		case p.Family < 0 || int(p.Family) >= FamilyTotal:
			errs = append(errs, fmt.Errorf("pin %d: family %d out of range", i, p.Family))

			continue
		case p.Instance < 0:
			errs = append(errs, fmt.Errorf("pin %d: negative instance", i))
		case p.Free && !p.Family.IsGPIO():
			errs = append(errs, fmt.Errorf("pin %d: only gpio pins can be free", i))
		}

		g := p.Family.Group()
		if limit := b.Max.Of(g); limit >= 0 && p.Instance >= limit {
			errs = append(errs, fmt.Errorf("pin %d: %s instance %d exceeds maximum %d", i, g, p.Instance, limit))
		}

		if slices.Contains(componentGroups, g) && p.Family.IsControlling() {
			if controlling[g] == nil {
				controlling[g] = map[int]int{}
			}

			controlling[g][p.Instance]++
		}
	}

	for _, g := range componentGroups {
		for inst := range max(b.Max.Of(g), 0) {
			if n := controlling[g][inst]; n != 1 {
				errs = append(errs, fmt.Errorf("%s %d has %d controlling pins, want 1", g, inst, n))
			}
		}
	}

	if err := multierr.Combine(errs...); err != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalidFirmware, b.Key(), err)
	}

	return nil
}

// LoadDir registers every *.yaml descriptor found in dir. Files are
// processed in name order; the first failure stops loading.
func (c *Catalog) LoadDir(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return 0, fmt.Errorf("failed to list firmware dir %s: %w", dir, err)
	}

	slices.Sort(paths)

	n := 0

	for _, path := range paths {
		f, err := LoadFile(path)
		if err != nil {
			return n, err
		}

		for _, spec := range f.Boards {
			if err := c.Register(spec.Board()); err != nil {
				return n, fmt.Errorf("%s: %w", path, err)
			}

			n++
		}
	}

	return n, nil
}
