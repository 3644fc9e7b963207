package sheet

import (
	"regexp"
	"strings"

	"clawledge/internal/schema"
	"clawledge/pkg/models"
)

// UntitledCase is the title given to rows that only carry a URL.
const UntitledCase = "Untitled Case"

var tagSplit = regexp.MustCompile(`[,;]`)

// ExtractCase builds a partial case from one data row. Rows without a title
// and without a URL yield false.
func ExtractCase(row []string, m ColumnMap, sheetName string) (models.PartialCase, bool) {
	get := func(col int) string {
		if col == Absent || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	title := get(m.Title)
	url := get(m.URL)
	if title == "" && url == "" {
		return models.PartialCase{}, false
	}
	description := get(m.Description)

	category, ok := schema.ResolveCategory(get(m.Category))
	if !ok {
		category = GuessCategory(title + " " + description)
	}

	author := get(m.Author)
	if author == "" {
		author = sheetName
	}
	if author == "" {
		author = "Unknown"
	}

	p := models.PartialCase{
		Title:       orElse(title, UntitledCase),
		Description: orElse(description, title),
		Category:    string(category),
		Source:      &models.PartialSource{URL: url, Author: author},
	}

	if d := models.Difficulty(strings.ToLower(get(m.Difficulty))); d.Valid() {
		p.Difficulty = string(d)
	}
	p.MonthlyAPICost = get(m.Cost)
	if raw := get(m.Tags); raw != "" {
		for _, t := range tagSplit.Split(raw, -1) {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				p.Tags = append(p.Tags, t)
			}
		}
	}
	return p, true
}

func orElse(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
