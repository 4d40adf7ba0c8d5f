package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"x-stepgen", "x-stepgen", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"kitten", "sitting", 3},
		{"x-encoder", "y-encoder", 1},
		{"spindle-cw", "spindle-ccw", 1},
		{"7i76-m0", "7i77-m0", 1},
		{"µm", "um", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.expected, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("abc", "abc"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.5, Similarity("ab", "ax"), 1e-9)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"X-StepGen":     "xstepgen",
		"hm2_5i20.0":    "hm25i200",
		"5i20/SVST8_4":  "5i20svst84",
		" min home x ":  "minhomex",
		"":              "",
		"spindle_cw.go": "spindlecwgo",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Normalize(in))
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"min", "home", "x"}, Tokens("min-home-x"))
	assert.Equal(t, []string{"5i20", "svst8", "4"}, Tokens("5i20/SVST8_4"))
	assert.Empty(t, Tokens("--"))
}

func TestSuggest(t *testing.T) {
	known := []string{"x-encoder", "y-encoder", "z-encoder", "spindle-cw", "spindle-ccw", "estop-out"}

	t.Run("close typo first", func(t *testing.T) {
		got := Suggest("x-encodr", known, 3)
		assert.Equal(t, "x-encoder", got[0])
		assert.LessOrEqual(t, len(got), 3)
	})

	t.Run("separator differences ignored", func(t *testing.T) {
		got := Suggest("SPINDLE_CW", known, 1)
		assert.Equal(t, []string{"spindle-cw"}, got)
	})

	t.Run("nothing similar", func(t *testing.T) {
		assert.Empty(t, Suggest("qqqqqqqqqq", known, 3))
	})

	t.Run("stable order on ties", func(t *testing.T) {
		got := Suggest("encoder", known, 0)
		assert.Equal(t, []string{"x-encoder", "y-encoder", "z-encoder"}, got)
	})
}
