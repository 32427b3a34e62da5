package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"remitex/internal/analysis"
	"remitex/internal/domain"
)

const (
	sheetItems  = "Itens"
	sheetResumo = "Resumo"
)

// WriteXLSX renders a parse result as a workbook: one "Itens" sheet with all
// items (statement columns repeated per row) and one "Resumo" sheet with the
// per-professional reconciliation summary.
func WriteXLSX(w io.Writer, result *domain.ParseResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetItems); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetResumo); err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}

	if err := writeItemsSheet(f, result.Statements); err != nil {
		return err
	}
	if err := writeResumoSheet(f, result.Statements); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeItemsSheet(f *excelize.File, statements []domain.Statement) error {
	header := make([]interface{}, len(itemColumns))
	for i, c := range itemColumns {
		header[i] = c
	}
	if err := setRow(f, sheetItems, 1, header); err != nil {
		return err
	}

	rowIdx := 2
	for si := range statements {
		st := &statements[si]
		for ii := range st.Items {
			cells := itemToRow(&st.Header, &st.Items[ii])
			row := make([]interface{}, len(cells))
			for i, c := range cells {
				row[i] = c
			}
			if err := setRow(f, sheetItems, rowIdx, row); err != nil {
				return err
			}
			rowIdx++
		}
	}
	return nil
}

var resumoColumns = []string{
	"Profissional",
	"Especialidade",
	"Itens",
	"Quantidade",
	"Total Bruto",
	"Total Imposto",
	"Líquido Informado",
	"Líquido Calculado",
	"Diferença",
	"Taxa Média Impostos (%)",
}

func writeResumoSheet(f *excelize.File, statements []domain.Statement) error {
	header := make([]interface{}, len(resumoColumns))
	for i, c := range resumoColumns {
		header[i] = c
	}
	if err := setRow(f, sheetResumo, 1, header); err != nil {
		return err
	}

	for i := range statements {
		st := &statements[i]
		s := analysis.Summarize(st.Items)
		taxa := ""
		if s.TaxaMediaImpostos != nil {
			taxa = s.TaxaMediaImpostos.StringFixed(2)
		}
		row := []interface{}{
			st.Header.ProfissionalNome,
			st.Header.Especialidade,
			len(st.Items),
			s.TotalQuantidade.StringFixed(2),
			s.TotalBruto.StringFixed(2),
			s.TotalImposto.StringFixed(2),
			s.TotalLiquidoInformado.StringFixed(2),
			s.LiquidoCalculado.StringFixed(2),
			s.Diferenca.StringFixed(2),
			taxa,
		}
		if err := setRow(f, sheetResumo, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("export: set row: %w", err)
	}
	return nil
}
