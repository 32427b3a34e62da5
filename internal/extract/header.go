package extract

import (
	"regexp"
	"strings"

	"remitex/internal/domain"
	"remitex/internal/port"
)

// Labeled-field patterns for the statement header. These reports print the
// header as "LABEL: value" runs, so the recognizer works over the page-1
// words joined as one string, independent of which item strategy runs.
var (
	repasseRe      = regexp.MustCompile(`REPASSE:\s*(\d+)`)
	terceiroRe     = regexp.MustCompile(`TERCEIRO:\s*([\p{L}\d_\s./&-]+) COMPETÊNCIA:`)
	competenciaRe  = regexp.MustCompile(`COMPETÊNCIA:\s*([0-9/]{7})`)
	cnpjRe         = regexp.MustCompile(`CNPJ:\s*([\d./-]+)`)
	previsaoRe     = regexp.MustCompile(`(?i)previs[aã]o\s*:\s*([0-9/]{4,5})`)
	previsaoLongRe = regexp.MustCompile(`(?i)previs[aã]o\s+de\s+pagamento\s*:\s*([0-9/]{4,5})`)

	profissionalRe = regexp.MustCompile(`([A-ZÁÉÍÓÚÂÊÔÃÕÇ][A-Za-z0-9_ÁÉÍÓÚÂÊÔÃÕÇáéíóúâêôãõç\s]+)\s+Especialidade:\s+([A-Za-z\sÁÉÍÓÚáéíóúâêôãõç/]+)`)
)

// stopTokens are table-header words that bleed into the captured specialty
// when the table starts right below the professional line.
var stopTokens = []string{
	"Atendimento", "Conta", "Paciente", "Convênio", "Convenio", "Categoria",
	"Data", "Código", "Codigo", "Procedimento", "Função", "Funcao",
	"Quantidade", "Qtd",
}

func truncateAtStopToken(s string) string {
	cut := len(s)
	for _, tok := range stopTokens {
		if k := strings.Index(s, tok); k != -1 && k < cut {
			cut = k
		}
	}
	return strings.TrimSpace(s[:cut])
}

func joinWords(words []port.Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

// ParseHeaderFromWords recovers the document header from the first page.
// Absent fields stay empty; absence is never an error.
func ParseHeaderFromWords(doc *port.Document) domain.ParsedHeader {
	var hdr domain.ParsedHeader
	if doc == nil || len(doc.Pages) == 0 {
		return hdr
	}
	text := joinWords(doc.Pages[0].Words)

	if m := repasseRe.FindStringSubmatch(text); m != nil {
		hdr.RepasseNumero = m[1]
	}
	if m := terceiroRe.FindStringSubmatch(text); m != nil {
		hdr.TerceiroNome = strings.TrimSpace(m[1])
	}
	if m := competenciaRe.FindStringSubmatch(text); m != nil {
		hdr.Competencia = m[1]
	}
	if m := cnpjRe.FindStringSubmatch(text); m != nil {
		hdr.CNPJ = m[1]
	}
	if m := previsaoRe.FindStringSubmatch(text); m != nil {
		hdr.PrevisaoPagamento = m[1]
	} else if m := previsaoLongRe.FindStringSubmatch(text); m != nil {
		hdr.PrevisaoPagamento = m[1]
	}
	if nome, esp, ok := findProfessional(text); ok {
		hdr.ProfissionalNome = nome
		hdr.Especialidade = esp
	}

	return hdr
}

func findProfessional(text string) (nome, especialidade string, ok bool) {
	m := profissionalRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), truncateAtStopToken(strings.TrimSpace(m[2])), true
}

// DetectProfessionals maps page numbers to the professional whose statement
// the page belongs to. Pages without an explicit professional line inherit
// the most recently seen one, so a caller can split one PDF into one logical
// statement per professional.
func DetectProfessionals(doc *port.Document) map[int]domain.Professional {
	result := make(map[int]domain.Professional)
	var last *domain.Professional
	for _, page := range doc.Pages {
		text := joinWords(page.Words)
		if nome, esp, ok := findProfessional(text); ok {
			p := domain.Professional{Nome: nome, Especialidade: esp}
			last = &p
			result[page.Number] = p
		} else if last != nil {
			result[page.Number] = *last
		}
	}
	return result
}
