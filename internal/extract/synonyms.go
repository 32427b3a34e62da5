package extract

import (
	"sort"
	"strings"
)

// field is a semantic column of the remittance line-item table.
type field int

const (
	fieldNone field = iota
	fieldData
	fieldPaciente
	fieldConvenio
	fieldCategoria
	fieldCodigo
	fieldProcedimento
	fieldFuncao
	fieldQuantidade
	fieldProduzido
	fieldImposto
	fieldLiquido
	fieldAtendimento
	fieldConta
)

// synonyms maps each semantic column to the header spellings seen across the
// report family. Keys are matched accent/case-insensitively as substrings of
// header cells.
var synonyms = map[field][]string{
	fieldData:         {"data", "dt"},
	fieldPaciente:     {"paciente", "nome do paciente", "nome"},
	fieldConvenio:     {"convenio", "convênio", "plano"},
	fieldCategoria:    {"categoria", "setor"},
	fieldCodigo:       {"codigo", "código", "cod", "cd"},
	fieldProcedimento: {"procedimento", "descricao", "descrição", "servico", "serviço", "exame"},
	fieldFuncao:       {"funcao", "função", "func."},
	fieldQuantidade:   {"qtd", "quantidade", "qtde", "qte"},
	fieldProduzido:    {"produzido", "valor produzido", "vlr prod", "valor bruto", "bruto", "total"},
	fieldImposto:      {"imposto", "taxa", "retencao", "retenção"},
	fieldLiquido:      {"liquido", "líquido", "valor liquido", "valor líquido", "vlr liq", "a pagar"},
	fieldAtendimento:  {"atendimento"},
	fieldConta:        {"conta"},
}

type keywordEntry struct {
	key string
	f   field
}

// keywordIndex holds all folded synonyms sorted by descending length so a
// single pass over it implements the longest-keyword-wins tie-break.
var keywordIndex = buildKeywordIndex()

func buildKeywordIndex() []keywordEntry {
	var entries []keywordEntry
	for f, keys := range synonyms {
		for _, k := range keys {
			entries = append(entries, keywordEntry{key: foldKey(k), f: f})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].key) != len(entries[j].key) {
			return len(entries[i].key) > len(entries[j].key)
		}
		return entries[i].key < entries[j].key
	})
	return entries
}

// matchField returns the semantic column whose longest synonym is a substring
// of the folded cell text.
func matchField(folded string) (field, bool) {
	if folded == "" {
		return fieldNone, false
	}
	for _, e := range keywordIndex {
		if strings.Contains(folded, e.key) {
			return e.f, true
		}
	}
	return fieldNone, false
}

// footerMarkers end a header/data block. The scanner consumes the footer row
// and re-arms, since one document may carry several blocks.
var footerMarkers = []string{"resultado", "resumo", "total geral", "totais", "assinatura"}

func isFooter(text string) bool {
	n := foldKey(text)
	for _, m := range footerMarkers {
		if strings.Contains(n, m) {
			return true
		}
	}
	return false
}
