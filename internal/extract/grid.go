package extract

import (
	"strings"

	"remitex/internal/domain"
	"remitex/internal/port"
)

// minHeaderScore is how many cells of a row must match a column synonym for
// the row to be accepted as a table header.
const minHeaderScore = 3

// GridRow is one flattened table row with its page and table-within-page
// provenance.
type GridRow struct {
	Page  int
	Table int
	Cells []string
}

// FlattenGrids turns the per-page table grids of a document into a flat row
// list, normalizing every cell.
func FlattenGrids(doc *port.Document) []GridRow {
	var rows []GridRow
	for _, page := range doc.Pages {
		for t, grid := range page.Grids {
			for _, cells := range grid {
				norm := make([]string, len(cells))
				for i, c := range cells {
					norm[i] = Normalize(c)
				}
				rows = append(rows, GridRow{Page: page.Number, Table: t, Cells: norm})
			}
		}
	}
	return rows
}

// scoreHeaderRow counts how many cells match some column synonym.
func scoreHeaderRow(cells []string) int {
	score := 0
	for _, c := range cells {
		if _, ok := matchField(foldKey(c)); ok {
			score++
		}
	}
	return score
}

// buildColumnMap maps cell indexes to semantic columns. When a cell matches
// synonyms of more than one column the longest keyword wins.
func buildColumnMap(cells []string) map[int]field {
	m := make(map[int]field)
	for i, c := range cells {
		if f, ok := matchField(foldKey(c)); ok {
			m[i] = f
		}
	}
	return m
}

// ParseItemsFromGrid walks the flattened grid detecting repeated
// header/data/footer blocks. A footer row is consumed and the header scan
// re-arms, because statements often carry one block per professional or page
// section. Within a block the last seen date fills down onto rows that omit
// it, matching how these reports print one date per visit.
func ParseItemsFromGrid(rows []GridRow) []domain.ParsedItem {
	var items []domain.ParsedItem

	i := 0
	for i < len(rows) {
		if scoreHeaderRow(rows[i].Cells) < minHeaderScore {
			i++
			continue
		}
		colMap := buildColumnMap(rows[i].Cells)
		i++

		lastDate := ""
		emptyRows := 0
		for i < len(rows) {
			row := rows[i]
			rowText := Normalize(strings.Join(row.Cells, " "))
			if rowText == "" {
				emptyRows++
				if emptyRows <= 2 {
					i++
					continue
				}
				break
			}
			emptyRows = 0

			if isFooter(rowText) {
				i++
				break
			}

			// A repeated header row (new page or section) re-arms the
			// column map and the date fill-down.
			if scoreHeaderRow(row.Cells) >= minHeaderScore {
				colMap = buildColumnMap(row.Cells)
				lastDate = ""
				i++
				continue
			}

			var rf rowFields
			for j, cell := range row.Cells {
				if f, ok := colMap[j]; ok && cell != "" {
					rf.set(f, cell)
				}
			}

			if rf.Data == "" {
				rf.Data = FindDate(rowText)
			}
			if rf.Data != "" {
				lastDate = rf.Data
			} else if lastDate != "" {
				rf.Data = lastDate
			}

			if rf.Codigo == "" && rf.Procedimento == "" {
				rf.mergeFallback(ParseLineFallback(rowText))
			}
			if rf.Codigo == "" {
				if fb := ParseLineFallback(rowText); fb.Codigo != "" {
					rf.Codigo = fb.Codigo
				}
			}

			if it, ok := buildItem(rf, row.Page); ok {
				items = append(items, it)
			}
			i++
		}
	}

	return items
}

// TablesLookCollapsed reports whether the grid extraction flattened the
// layout: most rows carrying text only in the first cell mean the table
// detector crammed whole lines into one column and word positions are the
// only column signal left.
func TablesLookCollapsed(rows []GridRow) bool {
	if len(rows) == 0 {
		return false
	}
	collapsed := 0
	for _, r := range rows {
		n := len(r.Cells)
		if n > 10 {
			n = 10
		}
		if n == 0 || r.Cells[0] == "" {
			continue
		}
		rest := false
		for _, c := range r.Cells[1:n] {
			if c != "" {
				rest = true
				break
			}
		}
		if !rest {
			collapsed++
		}
	}
	return float64(collapsed)/float64(len(rows)) >= 0.7
}
