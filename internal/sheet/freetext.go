package sheet

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"clawledge/pkg/models"
)

const (
	maxTitleRunes = 120
	minTitleRunes = 3
)

var (
	urlPattern       = regexp.MustCompile(`https?://[^\s)]+`)
	enumerationStart = regexp.MustCompile(`^\d+[.)]\s*`)
)

// ParseFreeText reads the first column of each data row. Consecutive
// non-empty cells form one block and an empty cell ends it; every block
// becomes at most one case.
func ParseFreeText(rows [][]string, sheetLabel string) []models.PartialCase {
	var (
		out   []models.PartialCase
		block []string
	)
	flush := func() {
		if len(block) == 0 {
			return
		}
		if p, ok := ParseBlock(strings.Join(block, "\n"), sheetLabel); ok {
			out = append(out, p)
		}
		block = block[:0]
	}

	for _, row := range rows {
		cell := ""
		if len(row) > 0 {
			cell = strings.TrimSpace(row[0])
		}
		if cell == "" {
			flush()
			continue
		}
		block = append(block, cell)
	}
	flush()
	return out
}

// ParseBlock turns one block of prose into a partial case. The first line is
// the title, the first URL anywhere in the block is the source and the next
// two lines make the description.
func ParseBlock(text, sheetLabel string) (models.PartialCase, bool) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return models.PartialCase{}, false
	}

	title := enumerationStart.ReplaceAllString(lines[0], "")
	title = strings.TrimSpace(strings.ReplaceAll(title, "**", ""))
	if utf8.RuneCountInString(title) > maxTitleRunes {
		title = string([]rune(title)[:maxTitleRunes-3]) + "..."
	}
	if utf8.RuneCountInString(title) < minTitleRunes {
		return models.PartialCase{}, false
	}

	rest := lines[1:]
	if len(rest) > 2 {
		rest = rest[:2]
	}
	description := strings.TrimSpace(urlPattern.ReplaceAllString(strings.Join(rest, " "), ""))
	if description == "" {
		description = title
	}

	return models.PartialCase{
		Title:       title,
		Description: description,
		Category:    string(GuessCategory(text)),
		Source: &models.PartialSource{
			URL:    urlPattern.FindString(text),
			Author: orElse(sheetLabel, "Unknown"),
		},
	}, true
}
