package domain

import (
	"github.com/shopspring/decimal"
)

// ParsedHeader holds the document-level fields recovered from a remittance
// statement. Every field is optional: an empty string means "not detected",
// never an error.
type ParsedHeader struct {
	RepasseNumero     string `json:"repasse_numero"`
	TerceiroNome      string `json:"terceiro_nome"`
	Competencia       string `json:"competencia"`
	CNPJ              string `json:"cnpj"`
	PrevisaoPagamento string `json:"previsao_pagamento"`
	ProfissionalNome  string `json:"profissional_nome"`
	Especialidade     string `json:"especialidade"`
}

// ParsedItem is one detected line item of a remittance statement.
// Numeric fields are nil when the source cell was absent or unparseable;
// nil means "unknown", not zero. Data is a free-form date string
// (dd/mm, dd/mm/yy or dd/mm/yyyy) because the source may omit the year.
type ParsedItem struct {
	Atendimento    string           `json:"atendimento"`
	Conta          string           `json:"conta"`
	Paciente       string           `json:"paciente"`
	Convenio       string           `json:"convenio"`
	Categoria      string           `json:"categoria"`
	Data           string           `json:"data"`
	Codigo         string           `json:"codigo"`
	Procedimento   string           `json:"procedimento"`
	Funcao         string           `json:"funcao"`
	Quantidade     *decimal.Decimal `json:"quantidade"`
	ValorProduzido *decimal.Decimal `json:"valor_produzido"`
	Imposto        *decimal.Decimal `json:"imposto"`
	ValorLiquido   *decimal.Decimal `json:"valor_liquido"`
	Page           int              `json:"page"`
}

// Professional identifies the healthcare professional a statement page
// belongs to.
type Professional struct {
	Nome          string `json:"nome"`
	Especialidade string `json:"especialidade"`
}

// Statement groups the items belonging to one professional under a header.
// A single PDF may interleave statements for multiple professionals across
// pages; the extractor splits it into one Statement per professional.
type Statement struct {
	Header ParsedHeader `json:"header"`
	Items  []ParsedItem `json:"items"`
}

// ParseResult is the full outcome of parsing one remittance PDF.
type ParseResult struct {
	Header     ParsedHeader `json:"header"`
	Items      []ParsedItem `json:"items"`
	Statements []Statement  `json:"statements"`
}
