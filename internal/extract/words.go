package extract

import (
	"math"
	"sort"
	"strings"

	"remitex/internal/domain"
	"remitex/internal/port"
)

// lineYTolerance groups words whose top coordinates differ by at most this
// many points into one visual line.
const lineYTolerance = 2.0

// clusterLines groups positioned words into visual lines by top proximity,
// each line sorted left to right.
func clusterLines(words []port.Word, yTol float64) [][]port.Word {
	if len(words) == 0 {
		return nil
	}
	sorted := make([]port.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var lines [][]port.Word
	var current []port.Word
	currentTop := math.Inf(-1)
	for _, w := range sorted {
		if current == nil || math.Abs(w.Top-currentTop) <= yTol {
			if current == nil {
				currentTop = w.Top
			}
			current = append(current, w)
		} else {
			lines = append(lines, sortByX(current))
			current = []port.Word{w}
			currentTop = w.Top
		}
	}
	if current != nil {
		lines = append(lines, sortByX(current))
	}
	return lines
}

func sortByX(line []port.Word) []port.Word {
	sort.SliceStable(line, func(i, j int) bool { return line[i].X0 < line[j].X0 })
	return line
}

type columnAnchor struct {
	x float64
	f field
}

// scoreWordLine scores a line as a potential header and records the x0 of the
// first word matching each semantic column. A column claims one anchor; later
// matching words still raise the score but do not move it.
func scoreWordLine(line []port.Word) (int, []columnAnchor) {
	score := 0
	claimed := make(map[field]bool)
	var anchors []columnAnchor
	for _, w := range line {
		f, ok := matchField(foldKey(w.Text))
		if !ok {
			continue
		}
		score++
		if !claimed[f] {
			claimed[f] = true
			anchors = append(anchors, columnAnchor{x: w.X0, f: f})
		}
	}
	return score, anchors
}

type columnBoundary struct {
	left  float64
	right float64
	f     field
}

// buildBoundaries derives column x-ranges from header anchors: each anchor
// reaches the midpoint to the next one, and the last extends past the page
// edge.
func buildBoundaries(anchors []columnAnchor, pageWidth float64) []columnBoundary {
	if len(anchors) == 0 {
		return nil
	}
	sorted := make([]columnAnchor, len(anchors))
	copy(sorted, anchors)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].x < sorted[j].x })

	bounds := make([]columnBoundary, 0, len(sorted))
	for i, a := range sorted {
		right := pageWidth + 10
		if i+1 < len(sorted) {
			right = (sorted[i+1].x + a.x) / 2
		}
		bounds = append(bounds, columnBoundary{left: a.x - 1, right: right, f: a.f})
	}
	return bounds
}

// ParseItemsFromWords recovers items from raw positioned words. It is the
// strategy of choice when table detection fails or collapses: the header line
// is found by synonym scoring, its word positions become column boundaries,
// and every later word is assigned to the column whose x-range contains its
// left edge.
func ParseItemsFromWords(pages []port.Page) []domain.ParsedItem {
	var items []domain.ParsedItem

	for _, page := range pages {
		lines := clusterLines(page.Words, lineYTolerance)

		headerIdx := -1
		bestScore := -1
		var boundaries []columnBoundary
		for idx, line := range lines {
			score, anchors := scoreWordLine(line)
			if score >= minHeaderScore && score > bestScore {
				bestScore = score
				headerIdx = idx
				boundaries = buildBoundaries(anchors, page.Width)
			}
		}
		if headerIdx == -1 || len(boundaries) == 0 {
			continue
		}

		lastDate := ""
		for _, line := range lines[headerIdx+1:] {
			cells := make(map[field][]string, len(boundaries))
			for _, w := range line {
				t := Normalize(w.Text)
				if t == "" {
					continue
				}
				for _, b := range boundaries {
					if b.left <= w.X0 && w.X0 < b.right {
						cells[b.f] = append(cells[b.f], t)
						break
					}
				}
			}

			var rf rowFields
			var parts []string
			for _, b := range boundaries {
				v := strings.Join(cells[b.f], " ")
				if v != "" {
					rf.set(b.f, v)
					parts = append(parts, v)
				}
			}
			if len(parts) == 0 {
				continue
			}
			rowText := strings.Join(parts, " ")

			if isFooter(rowText) {
				lastDate = ""
				break
			}

			if rf.Data == "" {
				rf.Data = FindDate(rowText)
			}
			if rf.Codigo == "" {
				if fb := ParseLineFallback(rowText); fb.Codigo != "" {
					rf.Codigo = fb.Codigo
				}
			}
			if rf.Data != "" {
				lastDate = rf.Data
			} else if lastDate != "" {
				rf.Data = lastDate
			}

			if it, ok := buildItem(rf, page.Number); ok {
				items = append(items, it)
			}
		}
	}

	return items
}
