package gen

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"halconf-generator/internal/machine"
)

// ErrNoAxes is returned for a configuration without any coordinate axis.
var ErrNoAxes = errors.New("no axes configured")

// GeneratorConfig holds configuration for file generation.
type GeneratorConfig struct {
	// ToolName is written into the header of every generated file.
	ToolName string
	// GenerateComments enables the explanatory comment lines in the netlist.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		ToolName:         "halconf-generator",
		GenerateComments: true,
	}
}

// Generator renders machine configurations.
type Generator struct {
	config GeneratorConfig
	logger *zap.Logger
}

// NewGenerator creates a new Generator. A nil logger discards output.
func NewGenerator(config GeneratorConfig, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{config: config, logger: logger}
}

// GeneratedFile is one output file.
type GeneratedFile struct {
	// Filename is the base name, e.g. "mill.hal".
	Filename string
	// Content is the complete file text.
	Content []byte
	// Preserve marks user editable files that are only written when absent.
	Preserve bool
}

// Generate renders every file of a configuration, netlist first. Sanity
// warnings are not consulted.
func (g *Generator) Generate(m *machine.MachineConfig) ([]GeneratedFile, error) {
	base := FileBase(m)

	hal, err := g.Netlist(m)
	if err != nil {
		return nil, fmt.Errorf("generating netlist: %w", err)
	}

	ini, err := g.Parameters(m)
	if err != nil {
		return nil, fmt.Errorf("generating parameters: %w", err)
	}

	files := []GeneratedFile{
		{Filename: base + ".hal", Content: hal},
		{Filename: base + ".ini", Content: ini},
	}

	extras, err := g.companions(m)
	if err != nil {
		return nil, fmt.Errorf("generating companion files: %w", err)
	}

	files = append(files, extras...)

	for _, f := range files {
		g.logger.Info("generated file",
			zap.String("file", f.Filename),
			zap.Int("bytes", len(f.Content)),
			zap.Bool("preserve", f.Preserve),
		)
	}

	return files, nil
}

// FileBase is the netlist and parameter file name without extension.
func FileBase(m *machine.MachineConfig) string {
	name := strings.ToLower(strings.TrimSpace(m.Name))
	name = strings.Join(strings.Fields(name), "_")

	if name == "" {
		return "machine"
	}

	return name
}

func (g *Generator) header(t *text, m *machine.MachineConfig) {
	t.comment("Generated by %s for machine %q", g.config.ToolName, m.Name)
	t.comment("If you make changes to this file, they will be")
	t.comment("overwritten when you run %s again", g.config.ToolName)
}
