package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halconf-generator/internal/firmware"
)

func TestBuiltinMultiPinBasesHaveEveryEnding(t *testing.T) {
	n := NewNamespace(nil)

	for _, name := range []string{
		"x-encoder-a", "x-encoder-b", "x-encoder-i", "x-encoder-m",
		"x-stepgen-step", "x-stepgen-dir", "x-stepgen-phase-f",
		"spindle-pwm-pulse", "spindle-pwm-dir", "spindle-pwm-enable",
		"y-tppwm-cnot", "y-tppwm-fault",
		"spindle-pot-output", "spindle-pot-dir",
		"z-resolver", "a-8i20", "analog-in-03",
		"estop-ext", "min-home-x", "all-limit-home", "spindle-cw",
	} {
		t.Run(name, func(t *testing.T) {
			s, err := n.Resolve(name)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)
			assert.False(t, s.Custom)
		})
	}
}

func TestResolveUnknownSuggests(t *testing.T) {
	n := NewNamespace(nil)

	_, err := n.Resolve("x-encodr-a")
	require.ErrorIs(t, err, ErrUnknownSignal)
	assert.Contains(t, err.Error(), "x-encoder-a")
}

func TestResolveBase(t *testing.T) {
	n := NewNamespace(nil)

	s, err := n.ResolveBase("x-stepgen", KindStepgen)
	require.NoError(t, err)
	assert.Equal(t, "x-stepgen-step", s.Name)
	assert.True(t, s.IsControlling())

	_, err = n.ResolveBase("x-stepgen", KindEncoder)
	require.ErrorIs(t, err, ErrIncompatibleSignal)

	_, err = n.ResolveBase("w-stepgen", KindStepgen)
	require.ErrorIs(t, err, ErrUnknownSignal)
}

func TestLookup(t *testing.T) {
	n := NewNamespace(nil)

	tests := []struct {
		text string
		kind Kind
		want string
	}{
		{"x-encoder-a", KindEncoder, "x-encoder-a"},
		{"x-encoder-i", KindEncoder, "x-encoder-a"},
		{"x-encoder", KindEncoder, "x-encoder-a"},
		{"X Encoder", KindEncoder, "x-encoder-a"},
		{"estop-ext", KindInput, "estop-ext"},
		{"Coolant Flood", KindOutput, "coolant-flood"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s, err := n.Lookup(tt.text, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Name)
		})
	}

	_, err := n.Lookup("estop-ext", KindOutput)
	require.ErrorIs(t, err, ErrIncompatibleSignal)

	_, err = n.Lookup("my thing", KindOutput)
	require.ErrorIs(t, err, ErrUnknownSignal)
}

func TestRegisterCustom(t *testing.T) {
	n := NewNamespace(nil)

	s, err := n.RegisterCustom("  knee  encoder ", KindEncoder)
	require.NoError(t, err)
	assert.Equal(t, "knee-encoder-a", s.Name)
	assert.Equal(t, "knee-encoder", s.Base)
	assert.Equal(t, "knee  encoder", s.Label)
	assert.Equal(t, CustomCategory, s.Category)
	assert.True(t, s.Custom)

	for _, ending := range KindEncoder.Endings() {
		_, err := n.Resolve("knee-encoder" + ending)
		require.NoError(t, err)
	}

	t.Run("reuse resolves to the same signal", func(t *testing.T) {
		again, err := n.Lookup("knee-encoder", KindEncoder)
		require.NoError(t, err)
		assert.Equal(t, s, again)
	})

	t.Run("registering twice fails", func(t *testing.T) {
		_, err := n.RegisterCustom("knee encoder", KindEncoder)
		require.ErrorIs(t, err, ErrDuplicateSignal)
	})

	t.Run("collision with another kind fails", func(t *testing.T) {
		_, err := n.RegisterCustom("knee-encoder", KindOutput)
		require.ErrorIs(t, err, ErrDuplicateSignal)
	})

	t.Run("collision with a builtin label fails", func(t *testing.T) {
		_, err := n.RegisterCustom("spindle cw", KindOutput)
		require.ErrorIs(t, err, ErrDuplicateSignal)
	})

	t.Run("collision with a builtin full name fails", func(t *testing.T) {
		_, err := n.RegisterCustom("x-encoder-b", KindOutput)
		require.ErrorIs(t, err, ErrDuplicateSignal)
	})

	t.Run("empty name fails", func(t *testing.T) {
		_, err := n.RegisterCustom("   ", KindOutput)
		require.Error(t, err)
	})

	assert.Equal(t, []Custom{{Kind: KindEncoder, Base: "knee-encoder"}}, n.Customs())
	assert.Equal(t, "knee-encoder", n.ByKind(KindEncoder)[len(n.ByKind(KindEncoder))-1].Base)
}

func TestReset(t *testing.T) {
	n := NewNamespace(nil)

	_, err := n.RegisterCustom("lube-pump", KindOutput)
	require.NoError(t, err)

	n.Reset()

	assert.Empty(t, n.Customs())

	_, err = n.Resolve("lube-pump")
	require.ErrorIs(t, err, ErrUnknownSignal)

	_, err = n.RegisterCustom("lube-pump", KindOutput)
	require.NoError(t, err)
}

func TestCategories(t *testing.T) {
	n := NewNamespace(nil)

	cats := n.Categories(KindOutput)
	assert.Equal(t, "Spindle", cats[0])
	assert.Equal(t, CustomCategory, cats[len(cats)-1])

	for _, s := range n.ByKind(KindStepgen) {
		assert.Equal(t, "-step", s.Ending)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		family firmware.Family
		kind   Kind
		ok     bool
	}{
		{firmware.GPIOInput, KindInput, true},
		{firmware.GPIOOpenDrain, KindOutput, true},
		{firmware.EncoderIndexMask, KindEncoder, true},
		{firmware.ResolverChannel, KindResolver, true},
		{firmware.ResolverInterface, 0, false},
		{firmware.UDMDown, KindPWM, true},
		{firmware.AnalogOutput, KindPWM, true},
		{firmware.StepE, KindStepgen, true},
		{firmware.TPPWMFault, KindThreePhasePWM, true},
		{firmware.SSerialTX, 0, false},
		{firmware.Unused, 0, false},
		{firmware.PotDir, KindPot, true},
		{firmware.Amp8i20, KindAmp8i20, true},
	}

	for _, tt := range tests {
		t.Run(tt.family.String(), func(t *testing.T) {
			k, ok := KindOf(tt.family)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.kind, k)
			}
		})
	}
}

func TestEndingsMatchFamilies(t *testing.T) {
	// the ending a pin family reports must be one its kind registers
	for i := range firmware.FamilyTotal {
		f := firmware.Family(i)

		k, ok := KindOf(f)
		if !ok {
			continue
		}

		assert.Contains(t, k.Endings(), f.Ending(), f.String())
	}
}

func TestLegalize(t *testing.T) {
	assert.Equal(t, "my-signal", Legalize("my signal"))
	assert.Equal(t, "a-b", Legalize("\ta \n b "))
	assert.Equal(t, "", Legalize("   "))
	assert.Equal(t, "Keep-Case", Legalize("Keep Case"))
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}

	_, ok := ParseKind("laser")
	assert.False(t, ok)
}
