package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (run func(args ...string) (string, error), dir string) {
	t.Helper()

	dir = t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("HALCONF_LOGGING_LEVEL", "error")

	path := filepath.Join(dir, "mill.yaml")

	return func(args ...string) (string, error) {
		var buf bytes.Buffer

		err := newApp(&buf).Run(append([]string{"halconf-generator", "-m", path}, args...))

		return buf.String(), err
	}, dir
}

func TestEditAndGenerate(t *testing.T) {
	run, dir := newRunner(t)

	out, err := run("new", "--board", "5i20/SVST8_4", "--parport", "0x378", "Test Mill")
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	_, err = run("new", "Other")
	require.ErrorContains(t, err, "already exists")

	for _, args := range [][]string{
		{"assign", "mesa0.c2.pin09", "x-pwm"},
		{"assign", "mesa0.c2.pin05", "x-encoder"},
		{"assign", "parport0.pin10", "probe-in"},
		{"invert", "parport0.pin10"},
	} {
		_, err := run(args...)
		require.NoError(t, err, args)
	}

	out, err = run("assign", "parport0.pin02", "Air", "Blast")
	require.NoError(t, err)
	assert.Contains(t, out, "parport0.pin02 = Air-Blast")

	out, err = run("pins", "--used")
	require.NoError(t, err)
	assert.Contains(t, out, "x-encoder-a")
	assert.Contains(t, out, "Air-Blast")
	assert.NotContains(t, out, "mesa0.c4.pin00")

	out, err = run("signals", "--kind", "output")
	require.NoError(t, err)
	assert.Contains(t, out, "Air-Blast")

	out, err = run("scale", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "800")

	out, err = run("check")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: ")

	_, err = run("check", "--strict")
	require.ErrorIs(t, err, errWarnings)

	outDir := filepath.Join(dir, "out")

	out, err = run("generate", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+filepath.Join(outDir, "custom.hal"))

	hal, err := os.ReadFile(filepath.Join(outDir, "test_mill.hal"))
	require.NoError(t, err)
	assert.Contains(t, string(hal), "net x-pos-fb <= hm2_5i20.0.encoder.00.position")
	assert.Contains(t, string(hal), "parport.0.pin-10-in-not")

	_, err = os.Stat(filepath.Join(outDir, "test_mill.ini"))
	require.NoError(t, err)

	out, err = run("generate", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "kept "+filepath.Join(outDir, "custom.hal"))
}

func TestBoardCommands(t *testing.T) {
	run, _ := newRunner(t)

	_, err := run("new", "Lathe")
	require.NoError(t, err)

	out, err := run("board", "--stepgens", "4", "--pwm-frequency", "30000", "0", "5i25/7i76x2")
	require.NoError(t, err)
	assert.Contains(t, out, "5i25/7i76x2")

	_, err = run("daughter", "0", "0", "7i76-m0")
	require.NoError(t, err)

	out, err = run("assign", "mesa0.sserial0.ch0.pin16", "estop-ext")
	require.NoError(t, err)
	assert.Contains(t, out, "estop-ext")

	_, err = run("daughter", "--connector", "0", "2", "7i99")
	require.Error(t, err)

	_, err = run("board", "5", "5i25/7i76x2")
	require.ErrorIs(t, err, errUsage)
}

func TestUsageErrors(t *testing.T) {
	run, _ := newRunner(t)

	_, err := run("new", "--board", "5i20/SVST8_4", "Mill")
	require.NoError(t, err)

	_, err = run("pintype", "mesa0.c2.pin09", "Bogus")
	require.ErrorIs(t, err, errUsage)

	_, err = run("assign", "mesa0.c2.pin09")
	require.ErrorIs(t, err, errUsage)

	_, err = run("scale", "q")
	require.ErrorIs(t, err, errUsage)

	_, err = run("signals", "--kind", "laser")
	require.ErrorIs(t, err, errUsage)
}

func TestBoardsListing(t *testing.T) {
	run, _ := newRunner(t)

	out, err := run("boards")
	require.NoError(t, err)
	assert.Contains(t, out, "5i20/SVST8_4")
	assert.Contains(t, out, "7i76-m0")
	assert.Contains(t, out, "7i40")
}
