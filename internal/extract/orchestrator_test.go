package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remitex/internal/domain"
	"remitex/internal/port"
)

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func itemWith(codigo, proc string, vp, imp, vl *decimal.Decimal) domain.ParsedItem {
	return domain.ParsedItem{
		Codigo:         codigo,
		Procedimento:   proc,
		ValorProduzido: vp,
		Imposto:        imp,
		ValorLiquido:   vl,
		Page:           1,
	}
}

func TestParse_GridStrategyPreferred(t *testing.T) {
	doc := gridDoc([][]string{
		gridHeader,
		{"01/08/2025", "MARIA SILVA", "UNIMED", "31010012", "CONSULTA", "1", "150,00", "15,00", "135,00"},
	})

	_, items := Parse(doc)
	require.Len(t, items, 1)
	assert.Equal(t, "MARIA SILVA", items[0].Paciente)
}

func TestParse_CollapsedGridFallsBackToWords(t *testing.T) {
	// Grid rows with everything in the first cell mean the table detector
	// collapsed; positioned words recover the items instead.
	page := wordTablePage()
	page.Grids = [][][]string{{
		{"01/08/2025 MARIA UNIMED 31010012 CONSULTA 1 150,00 15,00 135,00", "", ""},
		{"JOAO UNIMED 40304361 HEMOGRAMA 1 30,00 3,00 27,00", "", ""},
	}}
	doc := &port.Document{Pages: []port.Page{page}}

	_, items := Parse(doc)
	require.Len(t, items, 2)
	assert.Equal(t, "MARIA", items[0].Paciente)
	assert.Equal(t, "31010012", items[0].Codigo)
}

func TestParse_EmptyDocument(t *testing.T) {
	hdr, items := Parse(&port.Document{})
	assert.Equal(t, "", hdr.RepasseNumero)
	assert.Empty(t, items)
}

func TestParse_DateRescueFromPageText(t *testing.T) {
	// Grid items carry no date anywhere, but the raw page text has a line
	// with the same three amounts and a date; the rescue pass pulls it in.
	doc := gridDoc([][]string{
		gridHeader,
		{"", "MARIA SILVA", "UNIMED", "31010012", "CONSULTA", "1", "150,00", "15,00", "135,00"},
	})
	doc.Pages[0].Text = "31010012 CONSULTA 05/08/2025 1 150,00 15,00 135,00"

	_, items := Parse(doc)
	require.Len(t, items, 1)
	assert.Equal(t, "05/08/2025", items[0].Data)
}

func TestSignatureOf_MatchesAcrossMissingLiquido(t *testing.T) {
	d150 := mustDec(t, "150")
	d15 := mustDec(t, "15")
	d135 := mustDec(t, "135")

	a := itemWith("31010012", "CONSULTA", &d150, &d15, &d135)
	b := itemWith("31010012", "CONSULTA", &d150, &d15, nil)

	// Missing net is derived as gross minus tax, so both sign the same.
	assert.Equal(t, signatureOf(a), signatureOf(b))
}

func TestEnrichDatesBySignature(t *testing.T) {
	// The word strategy sees the same item with a date; the dateless grid
	// item picks it up by signature.
	doc := &port.Document{Pages: []port.Page{wordTablePage()}}

	d150 := mustDec(t, "150")
	d15 := mustDec(t, "15")
	d135 := mustDec(t, "135")
	one := mustDec(t, "1")

	it := itemWith("31010012", "CONSULTA", &d150, &d15, &d135)
	it.Quantidade = &one
	items := []domain.ParsedItem{it}

	enrichDatesBySignature(doc, items)
	assert.Equal(t, "01/08/2025", items[0].Data)
}

func TestEnrichDatesBySignature_NoMissingDatesIsNoop(t *testing.T) {
	it := itemWith("31010012", "CONSULTA", nil, nil, nil)
	it.Data = "01/08/2025"
	items := []domain.ParsedItem{it}

	enrichDatesBySignature(&port.Document{}, items)
	assert.Equal(t, "01/08/2025", items[0].Data)
}
