package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// moneyCleaner strips currency markers, percent signs and all spaces,
// including non-breaking ones used as thousands separators.
var moneyCleaner = strings.NewReplacer("R$", "", "%", "", " ", "", " ", "")

// ParseMoney parses a monetary string into a decimal. It accepts Brazilian
// ("1.234,56") and US ("1,234.56") formats: when both separators occur, the
// one appearing later in the string is the decimal point. A lone comma is
// always a decimal comma; a lone dot is a thousands separator. A trailing "-"
// or a parenthesis wrap marks a negative value. Returns ok=false for
// unparseable input; callers must treat that as "unknown", never as zero.
func ParseMoney(s string) (decimal.Decimal, bool) {
	t := moneyCleaner.Replace(strings.TrimSpace(s))
	if t == "" {
		return decimal.Decimal{}, false
	}

	neg := false
	if strings.HasSuffix(t, "-") {
		neg = true
		t = t[:len(t)-1]
	}
	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") && len(t) >= 2 {
		neg = true
		t = t[1 : len(t)-1]
	}

	lastComma := strings.LastIndex(t, ",")
	lastDot := strings.LastIndex(t, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			t = strings.ReplaceAll(t, ".", "")
			t = strings.Replace(t, ",", ".", 1)
		} else {
			t = strings.ReplaceAll(t, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(t, ",") > 1 {
			return decimal.Decimal{}, false
		}
		t = strings.Replace(t, ",", ".", 1)
	case lastDot >= 0:
		t = strings.ReplaceAll(t, ".", "")
	}

	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

// FormatBRL renders a decimal in Brazilian format with two fractional digits,
// e.g. 1234.5 -> "1.234,50".
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// brlVariants returns the Brazilian rendering of d with and without the
// thousands separator, for matching amounts inside raw page text.
func brlVariants(d *decimal.Decimal) []string {
	if d == nil {
		return nil
	}
	full := FormatBRL(d.Round(2))
	stripped := strings.ReplaceAll(full, ".", "")
	if stripped == full {
		return []string{full}
	}
	return []string{full, stripped}
}
