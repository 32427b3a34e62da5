package extract

import (
	"github.com/shopspring/decimal"

	"remitex/internal/domain"
)

// rowFields is the fixed-shape record every strategy fills before an item is
// built. Text fields hold the raw (normalized) cell text; the fb* fields hold
// amounts recovered by the line fallback, used only when the corresponding
// cell text is empty or unparseable.
type rowFields struct {
	Atendimento  string
	Conta        string
	Paciente     string
	Convenio     string
	Categoria    string
	Data         string
	Codigo       string
	Procedimento string
	Funcao       string

	Quantidade string
	Produzido  string
	Imposto    string
	Liquido    string

	fbQuantidade *decimal.Decimal
	fbProduzido  *decimal.Decimal
	fbImposto    *decimal.Decimal
	fbLiquido    *decimal.Decimal
}

func (r *rowFields) set(f field, v string) {
	switch f {
	case fieldData:
		r.Data = v
	case fieldPaciente:
		r.Paciente = v
	case fieldConvenio:
		r.Convenio = v
	case fieldCategoria:
		r.Categoria = v
	case fieldCodigo:
		r.Codigo = v
	case fieldProcedimento:
		r.Procedimento = v
	case fieldFuncao:
		r.Funcao = v
	case fieldQuantidade:
		r.Quantidade = v
	case fieldProduzido:
		r.Produzido = v
	case fieldImposto:
		r.Imposto = v
	case fieldLiquido:
		r.Liquido = v
	case fieldAtendimento:
		r.Atendimento = v
	case fieldConta:
		r.Conta = v
	}
}

// mergeFallback copies line-fallback fields into the slots that are still
// empty.
func (r *rowFields) mergeFallback(fb LineFields) {
	if r.Data == "" && fb.Data != "" {
		r.Data = fb.Data
	}
	if r.Codigo == "" && fb.Codigo != "" {
		r.Codigo = fb.Codigo
	}
	if r.Procedimento == "" && fb.Procedimento != "" {
		r.Procedimento = fb.Procedimento
	}
	if r.fbQuantidade == nil {
		r.fbQuantidade = fb.Quantidade
	}
	if r.fbProduzido == nil {
		r.fbProduzido = fb.ValorProduzido
	}
	if r.fbImposto == nil {
		r.fbImposto = fb.Imposto
	}
	if r.fbLiquido == nil {
		r.fbLiquido = fb.ValorLiquido
	}
}

// amount parses a raw cell, falling back to a line-fallback value when the
// cell is empty or unparseable. Amounts are rounded to two fractional digits
// so no ambiguous locale formatting survives into the result.
func amount(raw string, fb *decimal.Decimal) *decimal.Decimal {
	if d, ok := ParseMoney(raw); ok {
		r := d.Round(2)
		return &r
	}
	if fb != nil {
		r := fb.Round(2)
		return &r
	}
	return nil
}

// buildItem applies the numeric derivations and the retain/discard filter.
// An item survives only with (codigo OR procedimento) AND at least one
// numeric amount; everything else is page furniture. When liquido is missing
// but produzido and imposto are known it is derived as produzido-imposto, and
// symmetrically for a missing imposto.
func buildItem(rf rowFields, page int) (domain.ParsedItem, bool) {
	q := amount(rf.Quantidade, rf.fbQuantidade)
	vp := amount(rf.Produzido, rf.fbProduzido)
	imp := amount(rf.Imposto, rf.fbImposto)
	vl := amount(rf.Liquido, rf.fbLiquido)

	if vl == nil && vp != nil && imp != nil {
		d := vp.Sub(*imp)
		vl = &d
	}
	if imp == nil && vp != nil && vl != nil {
		d := vp.Sub(*vl)
		imp = &d
	}

	hasCodeOrProc := rf.Codigo != "" || rf.Procedimento != ""
	anyNumeric := q != nil || vp != nil || imp != nil || vl != nil
	if !hasCodeOrProc || !anyNumeric {
		return domain.ParsedItem{}, false
	}

	return domain.ParsedItem{
		Atendimento:    rf.Atendimento,
		Conta:          rf.Conta,
		Paciente:       rf.Paciente,
		Convenio:       rf.Convenio,
		Categoria:      rf.Categoria,
		Data:           rf.Data,
		Codigo:         rf.Codigo,
		Procedimento:   rf.Procedimento,
		Funcao:         rf.Funcao,
		Quantidade:     q,
		ValorProduzido: vp,
		Imposto:        imp,
		ValorLiquido:   vl,
		Page:           page,
	}, true
}
