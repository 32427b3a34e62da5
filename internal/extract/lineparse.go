package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// monetaryRe matches pt-BR formatted amounts like 1.234,56 or 150,00.
var monetaryRe = regexp.MustCompile(`\b\d{1,3}(?:\.\d{3})*,\d{2}\b`)

// qtyTailRe captures a bare small integer at the end of the text preceding
// the monetary triplet.
var qtyTailRe = regexp.MustCompile(`(\d{1,3})\s*$`)

// bareQtyTailRe matches that integer only when whitespace separates it from
// the procedure name.
var bareQtyTailRe = regexp.MustCompile(`\s\d{1,3}\s*$`)

// LineFields is a best-effort partial extraction from one flat text line.
// Nil/empty fields mean "not found".
type LineFields struct {
	Data           string
	Codigo         string
	Procedimento   string
	Quantidade     *decimal.Decimal
	ValorProduzido *decimal.Decimal
	Imposto        *decimal.Decimal
	ValorLiquido   *decimal.Decimal
}

// ParseLineFallback recovers fields from a single unstructured line using
// positional conventions of this report family: the last three monetary
// tokens are, left to right, produzido, imposto and liquido; the bare integer
// right before them is the quantity; the code is the first short digit-bearing
// token after the date. It trades precision for coverage and is meant to fill
// holes a stronger strategy left behind, not to replace one.
func ParseLineFallback(text string) LineFields {
	var f LineFields

	f.Data = FindDate(text)

	amts := monetaryRe.FindAllString(text, -1)
	if len(amts) >= 3 {
		f.ValorProduzido = moneyPtr(amts[len(amts)-3])
		f.Imposto = moneyPtr(amts[len(amts)-2])
		f.ValorLiquido = moneyPtr(amts[len(amts)-1])
		if idx := strings.LastIndex(text, amts[len(amts)-3]); idx >= 0 {
			pre := strings.TrimSpace(text[:idx])
			if m := qtyTailRe.FindStringSubmatch(pre); m != nil {
				f.Quantidade = moneyPtr(m[1])
			}
		}
	}

	parts := strings.Fields(text)
	span := parts
	if f.Data != "" {
		for i, p := range parts {
			if p == f.Data {
				span = parts[i+1:]
				break
			}
		}
	}
	for _, tok := range span {
		if hasDigit(tok) && utf8.RuneCountInString(tok) <= 12 {
			f.Codigo = tok
			break
		}
	}

	if f.Codigo != "" && len(amts) >= 1 {
		firstAmt := amts[0]
		if len(amts) >= 3 {
			firstAmt = amts[len(amts)-3]
		}
		left := strings.Index(text, f.Codigo)
		right := strings.Index(text, firstAmt)
		if left >= 0 {
			left += len(f.Codigo)
			if right > left {
				proc := Normalize(text[left:right])
				// Drop a trailing bare quantity left of the amounts. It must
				// stand alone as a token; digits glued to the name stay.
				proc = bareQtyTailRe.ReplaceAllString(proc, "")
				f.Procedimento = strings.TrimSpace(proc)
			}
		}
	}

	return f
}

func moneyPtr(s string) *decimal.Decimal {
	d, ok := ParseMoney(s)
	if !ok {
		return nil
	}
	return &d
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
