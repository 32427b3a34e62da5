// Package pdfext implements port.PageExtractor on top of github.com/ledongthuc/pdf.
// It reconstructs words from positioned character runs, groups them into
// visual rows, renders layout-preserving plain text and derives a
// text-alignment table grid per page.
package pdfext

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"remitex/internal/domain"
	"remitex/internal/port"
)

// Config tunes the layout reconstruction.
type Config struct {
	// RowTolerance groups characters/words whose top coordinates differ by
	// at most this many points into one visual row.
	RowTolerance float64
	// WordGapFactor times the font size is the horizontal gap that splits
	// two character runs into separate words.
	WordGapFactor float64
	// ColumnGapMin is the gap, in points, rendered as a column break (two
	// spaces) in the plain-text view.
	ColumnGapMin float64
	// ColumnSupportPct is the minimum percentage of rows that must start a
	// word at an x-position for it to become a grid column edge.
	ColumnSupportPct int
}

// DefaultConfig mirrors the tolerances the report family was tuned against.
func DefaultConfig() Config {
	return Config{
		RowTolerance:     2.0,
		WordGapFactor:    0.3,
		ColumnGapMin:     6.0,
		ColumnSupportPct: 25,
	}
}

// Extractor reads a PDF and yields the page-level view the extraction
// strategies consume.
type Extractor struct {
	cfg Config
}

// New creates an Extractor. Zero-valued config fields fall back to defaults.
func New(cfg Config) *Extractor {
	def := DefaultConfig()
	if cfg.RowTolerance <= 0 {
		cfg.RowTolerance = def.RowTolerance
	}
	if cfg.WordGapFactor <= 0 {
		cfg.WordGapFactor = def.WordGapFactor
	}
	if cfg.ColumnGapMin <= 0 {
		cfg.ColumnGapMin = def.ColumnGapMin
	}
	if cfg.ColumnSupportPct <= 0 {
		cfg.ColumnSupportPct = def.ColumnSupportPct
	}
	return &Extractor{cfg: cfg}
}

// Extract buffers every page of the document. The underlying reader panics on
// some malformed files, so the whole pass is fenced and surfaced as
// domain.ErrUnreadableDocument.
func (e *Extractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (doc *port.Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	}

	doc = &port.Document{}
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		doc.Pages = append(doc.Pages, e.buildPage(p, i))
	}
	return doc, nil
}

// word carries the right edge too, which port.Word does not need but text
// rendering and the grid builder do.
type word struct {
	text string
	x0   float64
	x1   float64
	top  float64
}

func (e *Extractor) buildPage(p pdf.Page, number int) port.Page {
	width, height := mediaBoxSize(p)
	words := e.buildWords(p.Content().Text, height)
	rows := e.groupRows(words)

	out := port.Page{
		Number: number,
		Width:  width,
		Text:   e.renderText(rows),
	}
	if grid := e.buildGrid(rows); len(grid) > 0 {
		out.Grids = [][][]string{grid}
	}
	for _, w := range words {
		out.Words = append(out.Words, port.Word{Text: w.text, X0: w.x0, Top: w.top})
	}
	return out
}

func mediaBoxSize(p pdf.Page) (width, height float64) {
	box := p.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() < 4 {
		return 612, 792 // US Letter fallback
	}
	width = box.Index(2).Float64() - box.Index(0).Float64()
	height = box.Index(3).Float64() - box.Index(1).Float64()
	return width, height
}

// buildWords merges adjacent character runs into words. Runs on the same
// visual row whose gap stays under WordGapFactor*fontSize belong to the same
// word.
func (e *Extractor) buildWords(chars []pdf.Text, pageHeight float64) []word {
	if len(chars) == 0 {
		return nil
	}

	type run struct {
		pdf.Text
		top float64
	}
	runs := make([]run, 0, len(chars))
	for _, c := range chars {
		if strings.TrimSpace(c.S) == "" && c.S != " " {
			continue
		}
		runs = append(runs, run{Text: c, top: pageHeight - c.Y})
	}
	sort.SliceStable(runs, func(i, j int) bool {
		if abs(runs[i].top-runs[j].top) > e.cfg.RowTolerance {
			return runs[i].top < runs[j].top
		}
		return runs[i].X < runs[j].X
	})

	var words []word
	var cur *word
	var curEnd float64
	for _, r := range runs {
		gapLimit := e.cfg.WordGapFactor * r.FontSize
		if gapLimit < 1 {
			gapLimit = 1
		}
		sameRow := cur != nil && abs(r.top-cur.top) <= e.cfg.RowTolerance
		joined := sameRow && r.X-curEnd <= gapLimit
		if joined && strings.TrimSpace(r.S) != "" {
			cur.text += strings.TrimSpace(r.S)
			cur.x1 = r.X + r.W
			curEnd = cur.x1
			continue
		}
		if strings.TrimSpace(r.S) == "" {
			// A literal space run ends the current word.
			if cur != nil && cur.text != "" {
				words = append(words, *cur)
				cur = nil
			}
			curEnd = r.X + r.W
			continue
		}
		if cur != nil && cur.text != "" {
			words = append(words, *cur)
		}
		cur = &word{text: strings.TrimSpace(r.S), x0: r.X, x1: r.X + r.W, top: r.top}
		curEnd = cur.x1
	}
	if cur != nil && cur.text != "" {
		words = append(words, *cur)
	}
	return words
}

// groupRows clusters words into visual rows sorted top to bottom, left to
// right.
func (e *Extractor) groupRows(words []word) [][]word {
	if len(words) == 0 {
		return nil
	}
	sorted := make([]word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].top != sorted[j].top {
			return sorted[i].top < sorted[j].top
		}
		return sorted[i].x0 < sorted[j].x0
	})

	var rows [][]word
	var cur []word
	curTop := 0.0
	for _, w := range sorted {
		if cur == nil || abs(w.top-curTop) <= e.cfg.RowTolerance {
			if cur == nil {
				curTop = w.top
			}
			cur = append(cur, w)
		} else {
			rows = append(rows, sortRow(cur))
			cur = []word{w}
			curTop = w.top
		}
	}
	if cur != nil {
		rows = append(rows, sortRow(cur))
	}
	return rows
}

func sortRow(row []word) []word {
	sort.SliceStable(row, func(i, j int) bool { return row[i].x0 < row[j].x0 })
	return row
}

// renderText produces a layout-preserving plain-text view: one line per
// visual row, wide horizontal gaps rendered as double spaces so columns stay
// splittable.
func (e *Extractor) renderText(rows [][]word) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, w := range row {
			if j > 0 {
				if w.x0-row[j-1].x1 >= e.cfg.ColumnGapMin {
					b.WriteString("  ")
				} else {
					b.WriteByte(' ')
				}
			}
			b.WriteString(w.text)
		}
	}
	return b.String()
}

// buildGrid derives a table grid from text alignment alone: x-positions where
// enough rows start a word become column edges, and each row's words are
// binned between consecutive edges. Pages without consistent alignment yield
// single-cell rows, which downstream collapse detection treats as a failed
// table extraction.
func (e *Extractor) buildGrid(rows [][]word) [][]string {
	if len(rows) == 0 {
		return nil
	}

	edges := e.columnEdges(rows)
	grid := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(edges) < 2 {
			grid = append(grid, []string{joinWords(row)})
			continue
		}
		cells := make([]string, len(edges))
		for _, w := range row {
			idx := len(edges) - 1
			for k := 0; k+1 < len(edges); k++ {
				if w.x0 >= edges[k]-1 && w.x0 < edges[k+1]-1 {
					idx = k
					break
				}
			}
			if w.x0 < edges[0]-1 {
				idx = 0
			}
			if cells[idx] != "" {
				cells[idx] += " "
			}
			cells[idx] += w.text
		}
		grid = append(grid, cells)
	}
	return grid
}

// columnEdges clusters word start positions across rows and keeps the ones
// supported by at least ColumnSupportPct percent of rows.
func (e *Extractor) columnEdges(rows [][]word) []float64 {
	var xs []float64
	for _, row := range rows {
		for _, w := range row {
			xs = append(xs, w.x0)
		}
	}
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)

	type cluster struct {
		x       float64
		support int
	}
	var clusters []cluster
	for _, x := range xs {
		if len(clusters) > 0 && x-clusters[len(clusters)-1].x <= e.cfg.RowTolerance {
			clusters[len(clusters)-1].support++
			continue
		}
		clusters = append(clusters, cluster{x: x, support: 1})
	}

	minSupport := len(rows) * e.cfg.ColumnSupportPct / 100
	if minSupport < 2 {
		minSupport = 2
	}
	var edges []float64
	for _, c := range clusters {
		if c.support >= minSupport {
			edges = append(edges, c.x)
		}
	}
	return edges
}

func joinWords(row []word) string {
	parts := make([]string, 0, len(row))
	for _, w := range row {
		parts = append(parts, w.text)
	}
	return strings.Join(parts, " ")
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
