package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"remitex/internal/domain"
	"remitex/internal/port"
)

// Parse runs the full reconciliation pipeline over an extracted document:
// strategy selection, header recognition and date enrichment. An empty item
// list is a valid outcome (unrecognized layout), not an error. All state is
// local to the call, so documents may be parsed concurrently.
func Parse(doc *port.Document) (domain.ParsedHeader, []domain.ParsedItem) {
	rows := FlattenGrids(doc)
	header := ParseHeaderFromWords(doc)

	var items []domain.ParsedItem
	if TablesLookCollapsed(rows) {
		// Collapsed grids mean the table detector failed; word positions
		// are the stronger signal.
		items = ParseItemsFromWords(doc.Pages)
		if len(items) == 0 {
			items = ParseItemsFromText(doc.Pages)
		}
		if len(items) == 0 {
			items = ParseItemsFromGrid(rows)
		}
	} else {
		items = ParseItemsFromGrid(rows)
		if len(items) == 0 {
			items = ParseItemsFromWords(doc.Pages)
		}
		if len(items) == 0 {
			items = ParseItemsFromText(doc.Pages)
		}
	}

	enrichDatesBySignature(doc, items)
	enrichDatesFromPageText(doc, items)

	return header, items
}

// itemSignature matches the same line item across strategies without relying
// on the patient column, which the weaker strategies often mangle.
type itemSignature struct {
	codigo       string
	procedimento string
	quantidade   string
	produzido    string
	imposto      string
	liquido      string
}

func roundedKey(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.Round(2).StringFixed(2)
}

func signatureOf(it domain.ParsedItem) itemSignature {
	proc := strings.ToLower(strings.TrimSpace(it.Procedimento))
	if len(proc) > 80 {
		proc = proc[:80]
	}
	liq := it.ValorLiquido
	if liq == nil {
		d := derivedLiquido(it)
		liq = &d
	}
	return itemSignature{
		codigo:       strings.ToLower(strings.TrimSpace(it.Codigo)),
		procedimento: proc,
		quantidade:   roundedKey(it.Quantidade),
		produzido:    roundedKey(it.ValorProduzido),
		imposto:      roundedKey(it.Imposto),
		liquido:      roundedKey(liq),
	}
}

func derivedLiquido(it domain.ParsedItem) decimal.Decimal {
	vp := decimal.Zero
	if it.ValorProduzido != nil {
		vp = *it.ValorProduzido
	}
	imp := decimal.Zero
	if it.Imposto != nil {
		imp = *it.Imposto
	}
	return vp.Sub(imp)
}

// enrichDatesBySignature fills missing dates by matching item signatures
// against the alternate strategies (words first, text as a fallback).
// Best-effort: no match is a normal branch, never a failure.
func enrichDatesBySignature(doc *port.Document, items []domain.ParsedItem) {
	missing := false
	for i := range items {
		if strings.TrimSpace(items[i].Data) == "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	datesBySig := make(map[itemSignature]string)
	for _, alt := range ParseItemsFromWords(doc.Pages) {
		if alt.Data != "" {
			datesBySig[signatureOf(alt)] = alt.Data
		}
	}
	if len(datesBySig) == 0 {
		for _, alt := range ParseItemsFromText(doc.Pages) {
			if alt.Data != "" {
				datesBySig[signatureOf(alt)] = alt.Data
			}
		}
	}
	if len(datesBySig) == 0 {
		return
	}

	for i := range items {
		if strings.TrimSpace(items[i].Data) != "" {
			continue
		}
		if d, ok := datesBySig[signatureOf(items[i])]; ok {
			items[i].Data = d
		}
	}
}

// enrichDatesFromPageText is the final rescue: for an item still missing a
// date, find a raw text line on its source page containing the item's gross,
// tax and net amounts (with and without thousands separators) and pull a date
// off that line.
func enrichDatesFromPageText(doc *port.Document, items []domain.ParsedItem) {
	missing := false
	for i := range items {
		if strings.TrimSpace(items[i].Data) == "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	pageLines := make(map[int][]string, len(doc.Pages))
	for _, page := range doc.Pages {
		pageLines[page.Number] = splitLines(page.Text)
	}

	for i := range items {
		it := &items[i]
		if strings.TrimSpace(it.Data) != "" {
			continue
		}
		liq := it.ValorLiquido
		if liq == nil {
			d := derivedLiquido(*it)
			liq = &d
		}
		vpVars := brlVariants(it.ValorProduzido)
		impVars := brlVariants(it.Imposto)
		liqVars := brlVariants(liq)
		if len(vpVars) == 0 || len(impVars) == 0 || len(liqVars) == 0 {
			continue
		}
		for _, line := range pageLines[it.Page] {
			if !containsAny(line, vpVars) || !containsAny(line, impVars) || !containsAny(line, liqVars) {
				continue
			}
			if d := FindDate(line); d != "" {
				it.Data = d
			}
			break
		}
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
