package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning("driver", "axis has no driver", "z", "assign z-stepgen")
	d.AddInfo("note", "just saying", "")

	var other Diagnostics
	other.AddError("io", "cannot read", "file.yaml")
	other.AddWarning("driver", "axis has two drivers", "x")

	d.Merge(other)

	assert.False(t, d.IsValid())
	assert.True(t, d.HasErrors())
	assert.True(t, d.HasWarnings())
	assert.Len(t, d.Warnings, 2)
	assert.Len(t, d.WarningsFor("x"), 1)
	assert.EqualError(t, d.Error(), "file.yaml: [io] cannot read")
	assert.Equal(t, "z: [driver] axis has no driver (try: assign z-stepgen)", d.Warnings[0].String())
	assert.Equal(t, "[note] just saying", d.Infos[0].String())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "unknown", Severity(7).String())
}
