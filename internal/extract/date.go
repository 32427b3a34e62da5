package extract

import (
	"fmt"
	"regexp"
)

// Accepts variants like 01/08/2025, 01/08/25, 01-08-2025, 01.08.2025 and
// "01 / 08 / 2025", plus ISO 2025-08-01 (converted to dd/mm/yyyy). The year
// may be absent entirely.
var (
	dateDMYRe = regexp.MustCompile(`\b(\d{2})\s*[/.\-]\s*(\d{2})(?:\s*[/.\-]\s*(\d{2,4}))?\b`)
	dateYMDRe = regexp.MustCompile(`\b(\d{4})\s*[-/.]\s*(\d{2})\s*[-/.]\s*(\d{2})\b`)
)

func normalizeDateStr(day, month, year string) string {
	if year == "" {
		return fmt.Sprintf("%s/%s", day, month)
	}
	if len(year) == 2 {
		return fmt.Sprintf("%s/%s/%s", day, month, year)
	}
	for len(year) < 4 {
		year = "0" + year
	}
	return fmt.Sprintf("%s/%s/%s", day, month, year)
}

// FindDate scans text for a date and returns it normalized to dd/mm,
// dd/mm/yy or dd/mm/yyyy. Day-first patterns take priority over ISO.
// It is a pattern matcher, not a validator: calendar correctness of the
// matched digits is not checked. Returns "" when nothing matches.
func FindDate(text string) string {
	if text == "" {
		return ""
	}
	isoSpans := dateYMDRe.FindAllStringIndex(text, -1)

	// An ISO date contains a day-first looking fragment ("08-01" inside
	// "2025-08-01"); such fragments are skipped and the scan resumes past
	// the ISO span, so a standalone day-first date elsewhere still wins.
	for start := 0; start < len(text); {
		loc := dateDMYRe.FindStringIndex(text[start:])
		if loc == nil {
			break
		}
		lo, hi := start+loc[0], start+loc[1]
		if span := spanContaining(isoSpans, lo, hi); span != nil {
			start = span[1]
			continue
		}
		m := dateDMYRe.FindStringSubmatch(text[lo:hi])
		return normalizeDateStr(m[1], m[2], m[3])
	}

	if len(isoSpans) > 0 {
		m := dateYMDRe.FindStringSubmatch(text[isoSpans[0][0]:isoSpans[0][1]])
		return fmt.Sprintf("%s/%s/%s", m[3], m[2], m[1])
	}
	return ""
}

func spanContaining(spans [][]int, lo, hi int) []int {
	for _, s := range spans {
		if lo >= s[0] && hi <= s[1] {
			return s
		}
	}
	return nil
}
