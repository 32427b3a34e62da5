// Package analysis computes reconciliation figures over parsed statements:
// totals, differences between reported and computed net, tax-rate metrics and
// per-payer alerts.
package analysis

import (
	"github.com/shopspring/decimal"

	"remitex/internal/domain"
)

// Alert types raised per convênio.
const (
	AlertLucroMenorQueImposto   = "lucro_menor_que_imposto"
	AlertLucroQuaseIgualImposto = "lucro_quase_igual_imposto"
)

// alertTolerance is how close (as a fraction of the tax) net profit must get
// to the tax before it is flagged as nearly consumed by it.
var alertTolerance = decimal.NewFromFloat(0.10)

const (
	semProcedimento = "(sem procedimento)"
	semConvenio     = "(sem convênio)"
)

// RankEntry names the procedure or payer leading a ranking and its value.
type RankEntry struct {
	Nome  string          `json:"nome"`
	Valor decimal.Decimal `json:"valor"`
}

// Alert flags a convênio whose net profit is smaller than, or dangerously
// close to, the tax withheld for it.
type Alert struct {
	Tipo      string           `json:"tipo"`
	Convenio  string           `json:"convenio"`
	Lucro     decimal.Decimal  `json:"lucro"`
	Imposto   decimal.Decimal  `json:"imposto"`
	Diferenca decimal.Decimal  `json:"diferenca"`
	Percent   *decimal.Decimal `json:"percent"`
}

// ConvenioTax reports the payer with the highest tax share of its profit.
type ConvenioTax struct {
	Convenio string          `json:"convenio"`
	Percent  decimal.Decimal `json:"percent"`
	Lucro    decimal.Decimal `json:"lucro"`
	Imposto  decimal.Decimal `json:"imposto"`
}

// Summary aggregates one statement's items.
type Summary struct {
	TotalQuantidade       decimal.Decimal  `json:"total_quantidade"`
	TotalBruto            decimal.Decimal  `json:"total_bruto"`
	TotalImposto          decimal.Decimal  `json:"total_imposto"`
	TotalLiquidoInformado decimal.Decimal  `json:"total_liquido_informado"`
	LiquidoCalculado      decimal.Decimal  `json:"liquido_calculado"`
	Diferenca             decimal.Decimal  `json:"diferenca"`
	PercentDiferenca      *decimal.Decimal `json:"percent_diferenca"`
	TaxaMediaImpostos     *decimal.Decimal `json:"taxa_media_impostos"`
	TopProcedimento       *RankEntry       `json:"top_procedimento"`
	TopConvenio           *RankEntry       `json:"top_convenio"`
	Alerts                []Alert          `json:"alerts"`
	WorstConvenio         *ConvenioTax     `json:"worst_convenio"`
}

// Summarize computes reconciliation figures for a list of items. Nil amounts
// count as zero for the aggregates; the net of an item missing valor_liquido
// is produzido minus imposto.
func Summarize(items []domain.ParsedItem) Summary {
	var s Summary

	profitByProc := map[string]decimal.Decimal{}
	profitByConv := map[string]decimal.Decimal{}
	taxByConv := map[string]decimal.Decimal{}
	var procOrder, convOrder []string

	for _, it := range items {
		q := orZero(it.Quantidade)
		vp := orZero(it.ValorProduzido)
		imp := orZero(it.Imposto)
		liq := vp.Sub(imp)
		if it.ValorLiquido != nil {
			liq = *it.ValorLiquido
			s.TotalLiquidoInformado = s.TotalLiquidoInformado.Add(liq)
		}
		s.TotalQuantidade = s.TotalQuantidade.Add(q)
		s.TotalBruto = s.TotalBruto.Add(vp)
		s.TotalImposto = s.TotalImposto.Add(imp)

		proc := it.Procedimento
		if proc == "" {
			proc = semProcedimento
		}
		if _, seen := profitByProc[proc]; !seen {
			procOrder = append(procOrder, proc)
		}
		profitByProc[proc] = profitByProc[proc].Add(liq)

		conv := it.Convenio
		if conv == "" {
			conv = semConvenio
		}
		if _, seen := profitByConv[conv]; !seen {
			convOrder = append(convOrder, conv)
		}
		profitByConv[conv] = profitByConv[conv].Add(liq)
		taxByConv[conv] = taxByConv[conv].Add(imp)
	}

	s.LiquidoCalculado = s.TotalBruto.Sub(s.TotalImposto)
	s.Diferenca = s.TotalLiquidoInformado.Sub(s.LiquidoCalculado)
	if !s.LiquidoCalculado.IsZero() {
		p := percentOf(s.Diferenca, s.LiquidoCalculado)
		s.PercentDiferenca = &p
	}
	if !s.TotalBruto.IsZero() {
		p := percentOf(s.TotalImposto, s.TotalBruto)
		s.TaxaMediaImpostos = &p
	}

	s.TopProcedimento = topEntry(procOrder, profitByProc)
	s.TopConvenio = topEntry(convOrder, profitByConv)
	s.Alerts = buildAlerts(convOrder, profitByConv, taxByConv)
	s.WorstConvenio = worstConvenio(convOrder, profitByConv, taxByConv)

	return s
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	return part.Mul(decimal.NewFromInt(100)).DivRound(whole, 2)
}

func topEntry(order []string, values map[string]decimal.Decimal) *RankEntry {
	var best *RankEntry
	for _, name := range order {
		v := values[name]
		if best == nil || v.GreaterThan(best.Valor) {
			best = &RankEntry{Nome: name, Valor: v}
		}
	}
	return best
}

func buildAlerts(order []string, profit, tax map[string]decimal.Decimal) []Alert {
	var alerts []Alert
	for _, conv := range order {
		lucro := profit[conv]
		imp := tax[conv]
		if lucro.IsZero() && imp.IsZero() {
			continue
		}
		diff := lucro.Sub(imp)
		var pct *decimal.Decimal
		if !imp.IsZero() {
			p := percentOf(diff, imp)
			pct = &p
		}
		switch {
		case lucro.LessThan(imp):
			alerts = append(alerts, Alert{
				Tipo: AlertLucroMenorQueImposto, Convenio: conv,
				Lucro: lucro, Imposto: imp, Diferenca: diff, Percent: pct,
			})
		case !imp.IsZero() && diff.Abs().LessThanOrEqual(imp.Mul(alertTolerance)):
			alerts = append(alerts, Alert{
				Tipo: AlertLucroQuaseIgualImposto, Convenio: conv,
				Lucro: lucro, Imposto: imp, Diferenca: diff, Percent: pct,
			})
		}
	}
	return alerts
}

func worstConvenio(order []string, profit, tax map[string]decimal.Decimal) *ConvenioTax {
	var worst *ConvenioTax
	for _, conv := range order {
		lucro := profit[conv]
		if lucro.IsZero() {
			continue
		}
		pct := percentOf(tax[conv], lucro)
		if worst == nil || pct.GreaterThan(worst.Percent) {
			worst = &ConvenioTax{Convenio: conv, Percent: pct, Lucro: lucro, Imposto: tax[conv]}
		}
	}
	return worst
}
