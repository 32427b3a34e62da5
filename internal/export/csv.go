// Package export writes parsed remittance statements to CSV and XLSX sinks
// for downstream consumers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"remitex/internal/domain"
)

// BOM is the UTF-8 byte-order mark, written first so Excel on Windows opens
// accented Portuguese text correctly.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// itemColumns defines the CSV header row (15 columns).
var itemColumns = []string{
	"Repasse",
	"Profissional",
	"Especialidade",
	"Atendimento",
	"Conta",
	"Paciente",
	"Convênio",
	"Categoria",
	"Data",
	"Código",
	"Procedimento",
	"Quantidade",
	"Valor Produzido",
	"Imposto",
	"Valor Líquido",
}

// CSVWriter wraps csv.Writer for exporting statements.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(itemColumns)
}

// WriteStatement writes one row per item, repeating the statement-level
// columns on every row.
func (w *CSVWriter) WriteStatement(st domain.Statement) error {
	for i := range st.Items {
		if err := w.csv.Write(itemToRow(&st.Header, &st.Items[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func itemToRow(hdr *domain.ParsedHeader, it *domain.ParsedItem) []string {
	return []string{
		hdr.RepasseNumero,
		hdr.ProfissionalNome,
		hdr.Especialidade,
		it.Atendimento,
		it.Conta,
		it.Paciente,
		it.Convenio,
		it.Categoria,
		it.Data,
		it.Codigo,
		it.Procedimento,
		formatAmount(it.Quantidade),
		formatAmount(it.ValorProduzido),
		formatAmount(it.Imposto),
		formatAmount(it.ValorLiquido),
	}
}

func formatAmount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

var accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// SanitizeFilename cleans a statement label for use in Content-Disposition.
// Accents are stripped rather than replaced so "São" becomes "Sao".
func SanitizeFilename(name string) string {
	if stripped, _, err := transform.String(accentStripper, name); err == nil {
		name = stripped
	}
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized download filename, e.g.
// "repasse_1234_2026-08-31.csv".
func BuildFilename(label, ext string) string {
	sanitized := SanitizeFilename(label)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
