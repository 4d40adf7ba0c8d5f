package signal

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ErrUnknownSignal is returned when a name is not in the namespace.
	ErrUnknownSignal = errors.New("unknown signal")
	// ErrDuplicateSignal is returned when a custom name is already taken.
	ErrDuplicateSignal = errors.New("duplicate signal")
	// ErrIncompatibleSignal is returned when a signal is used on a pin of another kind.
	ErrIncompatibleSignal = errors.New("incompatible signal")
)

// Signal is one name that can be placed on a pin.
type Signal struct {
	// Name is the full hal signal name, base plus ending.
	Name string
	// Base names the component; equal to Name for single pin kinds.
	Base     string
	Ending   string
	Label    string
	Category string
	Kind     Kind
	Custom   bool
}

// IsControlling reports whether the signal belongs on a component's controlling pin.
func (s Signal) IsControlling() bool {
	return s.Ending == s.Kind.ControllingEnding()
}

var blanks = regexp.MustCompile(`\s+`)

// Legalize turns user text into a signal base name: surrounding blanks are
// trimmed and inner runs of whitespace become a single '-'.
func Legalize(text string) string {
	return blanks.ReplaceAllString(strings.TrimSpace(text), "-")
}

// labelFor builds a display label from a hal name: "min-home-x" -> "Min Home X".
func labelFor(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}

		words[i] = string(r)
	}

	return strings.Join(words, " ")
}
