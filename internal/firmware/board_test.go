package firmware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, title, fw string) Board {
	t.Helper()

	b, err := NewCatalog().Lookup(title, fw)
	require.NoError(t, err)

	return b
}

func TestBuiltinBoardsAreValid(t *testing.T) {
	for _, b := range NewCatalog().Boards() {
		t.Run(b.Key(), func(t *testing.T) {
			require.NoError(t, Validate(b))
			assert.Len(t, b.Pins(), b.PinCount())
		})
	}
}

func TestBoardSlot(t *testing.T) {
	b := mustBoard(t, "5i20", "SVST8_4")

	s, err := b.Slot(2, 5)
	require.NoError(t, err)
	assert.Equal(t, Slot{Family: EncoderA, Instance: 0}, s)

	s, err = b.Slot(3, 9)
	require.NoError(t, err)
	assert.Equal(t, Slot{Family: PWMPulse, Instance: 4}, s)

	s, err = b.Slot(4, 6)
	require.NoError(t, err)
	assert.Equal(t, Slot{Family: StepA, Instance: 1}, s)

	_, err = b.Slot(5, 0)
	require.ErrorIs(t, err, ErrPinOutOfRange)

	_, err = b.Slot(2, 24)
	require.ErrorIs(t, err, ErrPinOutOfRange)
}

func TestWithCountsDemotesDisabledComponents(t *testing.T) {
	full := mustBoard(t, "5i20", "SVST2_8")
	b := full.WithCounts(Counts{Encoders: 1, PWMGens: 0, StepGens: 5})

	// encoder 1 is beyond the count
	s, err := b.Slot(2, 3)
	require.NoError(t, err)
	assert.Equal(t, Slot{Family: GPIOInput, Free: true}, s)

	// encoder 0 stays
	s, err = b.Slot(2, 5)
	require.NoError(t, err)
	assert.Equal(t, EncoderA, s.Family)

	// stepgen 4 stays, stepgen 5 goes
	s, err = b.Slot(3, 8)
	require.NoError(t, err)
	assert.Equal(t, Slot{Family: StepA, Instance: 4}, s)

	s, err = b.Slot(3, 10)
	require.NoError(t, err)
	assert.True(t, s.Family.IsGPIO())

	// the original value is untouched
	s, err = full.Slot(2, 3)
	require.NoError(t, err)
	assert.Equal(t, EncoderA, s.Family)
}

func TestWithCountsClampsToMaximum(t *testing.T) {
	b := mustBoard(t, "5i20", "SVST2_8").WithCounts(Counts{Encoders: 40, StepGens: -2})
	assert.Equal(t, 2, b.Counts.Encoders)
	assert.Equal(t, 0, b.Counts.StepGens)
}

func TestGPIONumber(t *testing.T) {
	b := mustBoard(t, "5i20", "SVST2_8")

	n, err := b.GPIONumber(2, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = b.GPIONumber(3, 0)
	require.NoError(t, err)
	assert.Equal(t, 24, n)

	n, err = b.GPIONumber(4, 23)
	require.NoError(t, err)
	assert.Equal(t, 71, n)
}

func TestSiblings(t *testing.T) {
	b := mustBoard(t, "5i20", "SVST8_4")

	t.Run("encoder", func(t *testing.T) {
		sib, err := b.Siblings(2, 5)
		require.NoError(t, err)

		fams := make([]Family, 0, len(sib))
		for _, p := range sib {
			assert.Equal(t, 0, p.Slot.Instance)
			fams = append(fams, p.Slot.Family)
		}

		assert.ElementsMatch(t, []Family{EncoderIndex, EncoderB}, fams)
	})

	t.Run("stepgen with six phases", func(t *testing.T) {
		sib, err := b.Siblings(4, 0)
		require.NoError(t, err)
		assert.Len(t, sib, 5)
	})

	t.Run("gpio has none", func(t *testing.T) {
		g := mustBoard(t, "5i20", "SVST2_8")
		sib, err := g.Siblings(2, 12)
		require.NoError(t, err)
		assert.Empty(t, sib)
	})
}

func TestSSerialChannels(t *testing.T) {
	b := mustBoard(t, "5i25", "7i77_7i76")
	assert.Equal(t, []int{0, 1, 2}, b.SSerialChannels())

	b = b.WithCounts(Counts{Encoders: 5, StepGens: 5, SSerialPorts: 1, SSerialChannels: 1})
	assert.Equal(t, []int{0}, b.SSerialChannels())

	b = b.WithCounts(Counts{SSerialChannels: 3})
	assert.Empty(t, b.SSerialChannels())
}

func TestComponentPins(t *testing.T) {
	b := mustBoard(t, "7i80", "SVTP6_7I39")
	pins := b.ComponentPins(GroupThreePhasePWM, 3)
	require.Len(t, pins, 8)
	assert.Equal(t, 2, pins[0].Connector)
	assert.Equal(t, TPPWMA, pins[0].Slot.Family)
}
