package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// num formats a value in its shortest decimal form, "20000" or "0.95".
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// pyFloat formats like num but always keeps a fractional part, "1.0".
func pyFloat(v float64) string {
	return withPoint(num(v))
}

// decText is pyFloat for exact decimal values.
func decText(d decimal.Decimal) string {
	return withPoint(d.String())
}

func withPoint(s string) string {
	if strings.ContainsAny(s, ".eEn") {
		return s
	}

	return s + ".0"
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}

	return "NO"
}

// text accumulates lines of a generated file.
type text struct {
	b strings.Builder
}

func (t *text) line(format string, args ...any) {
	if len(args) == 0 {
		t.b.WriteString(format)
	} else {
		fmt.Fprintf(&t.b, format, args...)
	}

	t.b.WriteByte('\n')
}

func (t *text) blank() {
	t.b.WriteByte('\n')
}

func (t *text) comment(format string, args ...any) {
	t.line("# "+format, args...)
}

func (t *text) setp(pin string, value any) {
	t.line("setp %s %v", pin, value)
}

// net writes a binding; arrow is "<=", "=>", "<=>" or "" for a bare pin.
func (t *text) net(signal, arrow, pin string) {
	if arrow == "" {
		t.line("net %s %s", signal, pin)

		return
	}

	t.line("net %s %s %s", signal, arrow, pin)
}

// key writes an ini entry.
func (t *text) key(name string, value any) {
	t.line("%s = %v", name, value)
}

func (t *text) bytes() []byte {
	return []byte(t.b.String())
}
