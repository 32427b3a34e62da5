package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"remitex/internal/domain"
	"remitex/internal/port"
)

var (
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
	visitPairRe  = regexp.MustCompile(`^\s*(\d{4,})\s+(\d{4,})\s+(.*)$`)
)

// textHeaderKeys must all appear (accent-folded) on a line for it to count as
// a table header in plain extracted text.
var textHeaderKeys = []string{"paciente", "convenio", "procedimento"}

func isTextHeader(folded string) bool {
	for _, k := range textHeaderKeys {
		if !strings.Contains(folded, k) {
			return false
		}
	}
	return true
}

// ParseItemsFromText is the weakest strategy: it splits page text on runs of
// two or more spaces and maps columns from the right, assuming the last four
// segments are quantity, gross, tax and net. Used only when both the grid and
// the word strategies yield nothing, since spacing is the only column signal
// it has.
func ParseItemsFromText(pages []port.Page) []domain.ParsedItem {
	var items []domain.ParsedItem

	for _, page := range pages {
		seenHeader := false
		lastDate := ""
		for _, line := range splitLines(page.Text) {
			folded := foldKey(line)
			if !seenHeader {
				if isTextHeader(folded) {
					seenHeader = true
					lastDate = ""
				}
				continue
			}
			if isFooter(line) {
				break
			}

			parts := multiSpaceRe.Split(strings.TrimSpace(line), -1)
			if len(parts) < 6 {
				continue
			}

			var rf rowFields
			rf.fbQuantidade = moneyPtr(parts[len(parts)-4])
			rf.fbProduzido = moneyPtr(parts[len(parts)-3])
			rf.fbImposto = moneyPtr(parts[len(parts)-2])
			rf.fbLiquido = moneyPtr(parts[len(parts)-1])

			left := parts[:len(parts)-4]
			if len(left) == 0 {
				continue
			}
			// Visit and account ids lead the left segment when both look
			// like long numbers. Matching over the joined text recovers
			// them even when they share a segment with the patient name;
			// joining with a double space keeps the segment boundaries
			// intact for the re-split.
			if m := visitPairRe.FindStringSubmatch(strings.Join(left, "  ")); m != nil {
				rf.Atendimento = m[1]
				rf.Conta = m[2]
				left = multiSpaceRe.Split(strings.TrimSpace(m[3]), -1)
			}

			dateIdx := -1
			for i, p := range left {
				if d := FindDate(p); d != "" {
					rf.Data = d
					dateIdx = i
					break
				}
			}
			if rf.Data != "" {
				lastDate = rf.Data
			} else if lastDate != "" {
				rf.Data = lastDate
			}

			for i, p := range left {
				if i == dateIdx {
					continue
				}
				if hasDigit(p) && utf8.RuneCountInString(p) <= 12 {
					rf.Codigo = p
					break
				}
			}

			longest := ""
			for _, p := range left {
				if len(p) > len(longest) {
					longest = p
				}
			}
			rf.Procedimento = Normalize(longest)

			if it, ok := buildItem(rf, page.Number); ok {
				items = append(items, it)
			}
		}
	}

	return items
}

func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
