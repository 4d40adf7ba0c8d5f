package gen

import (
	"bytes"
	"fmt"
	"text/template"

	"halconf-generator/internal/machine"
)

type companionData struct {
	ToolName string
	Machine  string
	Axes     []touchyAxis
	HasMPG   bool
}

type touchyAxis struct {
	Letter string
}

var companionTemplates = []struct {
	name     string
	preserve bool
	tmpl     *template.Template
}{
	{"custom.hal", true, template.Must(template.New("custom").Parse(
		`# Include your customized HAL commands here
# This file will not be overwritten when you run {{.ToolName}} again
`))},
	{"custom_postgui.hal", true, template.Must(template.New("postgui").Parse(
		`# Include your customized HAL commands here
# The commands in this file are run after the GUI loads
# This file will not be overwritten when you run {{.ToolName}} again
`))},
	{"shutdown.hal", true, template.Must(template.New("shutdown").Parse(
		`# Include your customized HAL commands here
# The commands in this file are run when the machine shuts down
# This file will not be overwritten when you run {{.ToolName}} again
`))},
}

var touchyTemplate = template.Must(template.New("touchy").Parse(
	`# These commands are required for Touchy
# Generated by {{.ToolName}} for machine "{{.Machine}}"
# If you make changes to this file, they will be
# overwritten when you run {{.ToolName}} again

net cycle-start => touchy.cycle-start
net abort => touchy.abort
net single-step => touchy.single-block
{{- if .HasMPG}}
net joint-selected-count => touchy.wheel-counts
{{- end}}
net selected-jog-incr <= touchy.jog.wheel.increment
{{- range .Axes}}
net {{.Letter}}-is-selected <= touchy.jog.wheel.{{.Letter}}
{{- end}}

source custom_postgui.hal
`))

func (g *Generator) companions(m *machine.MachineConfig) ([]GeneratedFile, error) {
	data := companionData{ToolName: g.config.ToolName, Machine: m.Name}

	for _, a := range m.Axes {
		data.Axes = append(data.Axes, touchyAxis{Letter: a.String()})
	}

	data.HasMPG = m.HasSignal("mpg-encoder-a")

	files := make([]GeneratedFile, 0, len(companionTemplates)+1)

	for _, c := range companionTemplates {
		content, err := render(c.tmpl, data)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", c.name, err)
		}

		files = append(files, GeneratedFile{Filename: c.name, Content: content, Preserve: c.preserve})
	}

	if m.Options.Frontend == machine.FrontendTouchy {
		content, err := render(touchyTemplate, data)
		if err != nil {
			return nil, fmt.Errorf("rendering touchy.hal: %w", err)
		}

		files = append(files, GeneratedFile{Filename: "touchy.hal", Content: content})
	}

	return files, nil
}

func render(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
