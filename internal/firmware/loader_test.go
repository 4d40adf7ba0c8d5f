package firmware

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customYAML = `
boards:
  - title: 5i23
    driver: hm2_pci
    firmware: SV2
    clock_low: 48000000
    clock_high: 96000000
    connectors: [2]
    pins_per_connector: 8
    max: {encoders: 1, pwmgens: 1}
    pins:
      - ["Quad Encoder-A", 0]
      - ["Quad Encoder-B", 0]
      - ["Quad Encoder-I", 0]
      - ["PWM Pulse", 0]
      - ["PWM Dir", 0]
      - ["PWM Enable", 0]
      - ["GPIO Input", 0, true]
      - ["GPIO Output", 0]
`

func TestParseCustomFirmware(t *testing.T) {
	f, err := Parse([]byte(customYAML))
	require.NoError(t, err)
	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Boards, 1)

	spec := f.Boards[0]
	assert.Equal(t, "5i23", spec.BoardName)
	require.Len(t, spec.Pins, 8)
	assert.Equal(t, PinEntry{Family: GPIOInput, Free: true}, spec.Pins[6])

	b := spec.Board()
	require.NoError(t, Validate(b))

	s, err := b.Slot(2, 3)
	require.NoError(t, err)
	assert.Equal(t, Slot{Family: PWMPulse}, s)
}

func TestMarshalRoundTrip(t *testing.T) {
	f, err := Parse([]byte(customYAML))
	require.NoError(t, err)

	data, err := Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), `["GPIO Input", 0, true]`)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestParseRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"unknown family", `["Quad Encoder-Q", 0]`},
		{"too short", `["GPIO Input"]`},
		{"bad instance", `["GPIO Input", x]`},
		{"not a sequence", `GPIO Input`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "boards:\n  - title: a\n    pins:\n      - " + tt.row + "\n"
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	spec := BoardSpec{
		Title:            "bad",
		Connectors:       []int{1, 1},
		PinsPerConnector: 2,
		Max:              Counts{Encoders: 1, StepGens: 1},
		Pins: []PinEntry{
			{Family: EncoderB, Instance: 0},
			{Family: EncoderA, Instance: 3},
			{Family: StepA, Instance: 0, Free: true},
			{Family: StepA, Instance: 0},
		},
	}

	err := Validate(spec.Board())
	require.ErrorIs(t, err, ErrInvalidFirmware)

	msg := err.Error()
	for _, want := range []string{
		"firmware is empty",
		"driver is empty",
		"duplicate connector numbers",
		"only gpio pins can be free",
		"encoder instance 3 exceeds maximum 1",
		"encoder 0 has 0 controlling pins",
		"stepgen 0 has 2 controlling pins",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(customYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("junk"), 0o644))

	c := NewCatalog()
	n, err := c.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, c.Titles(), "5i23")

	_, err = c.LoadDir(dir)
	require.ErrorIs(t, err, ErrInvalidFirmware)
}

func TestValidateRequiresEveryCountedInstance(t *testing.T) {
	f, err := Parse([]byte(customYAML))
	require.NoError(t, err)

	spec := f.Boards[0]
	spec.Max = Counts{Encoders: 4, PWMGens: 1, StepGens: 2, Resolvers: 1, SSerialPorts: 2}

	err = Validate(spec.Board())
	require.ErrorIs(t, err, ErrInvalidFirmware)

	msg := err.Error()
	for _, want := range []string{
		"encoder 1 has 0 controlling pins",
		"encoder 3 has 0 controlling pins",
		"stepgen 0 has 0 controlling pins",
		"stepgen 1 has 0 controlling pins",
		"resolver 0 has 0 controlling pins",
		"only port 0 is supported",
	} {
		assert.Contains(t, msg, want)
	}

	assert.NotContains(t, msg, "encoder 0 has")
	assert.NotContains(t, msg, "pwmgen 0 has")
}
