// Package sheet turns free-form spreadsheet sheets into partial cases. Column
// roles are inferred by an ordered chain of strategies; sheets that hold one
// block of prose per case go through the free-text parser instead.
package sheet

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"clawledge/internal/schema"
)

// Absent marks a ColumnMap slot that no column fills.
const Absent = -1

// sampleRows is how many data rows the content strategies look at.
const sampleRows = 5

// ColumnMap holds the column index of each field, or Absent.
type ColumnMap struct {
	Title       int
	URL         int
	Author      int
	Category    int
	Description int
	Difficulty  int
	Cost        int
	Tags        int
}

func NewColumnMap() ColumnMap {
	return ColumnMap{
		Title: Absent, URL: Absent, Author: Absent, Category: Absent,
		Description: Absent, Difficulty: Absent, Cost: Absent, Tags: Absent,
	}
}

// Claimed reports whether any slot already points at col.
func (m ColumnMap) Claimed(col int) bool {
	for _, v := range m.slots() {
		if *v == col {
			return true
		}
	}
	return false
}

func (m *ColumnMap) slots() []*int {
	return []*int{&m.Title, &m.URL, &m.Author, &m.Category, &m.Description, &m.Difficulty, &m.Cost, &m.Tags}
}

// DetectContext is shared by the strategies of one detection run.
type DetectContext struct {
	Headers []string
	Sample  [][]string
	Width   int
	Map     ColumnMap
}

// values returns the non-empty sampled cells of col.
func (dc *DetectContext) values(col int) []string {
	var out []string
	for _, row := range dc.Sample {
		if col < len(row) && row[col] != "" {
			out = append(out, row[col])
		}
	}
	return out
}

// Strategy fills slots it can decide and leaves the rest for later ones.
type Strategy interface {
	Detect(dc *DetectContext)
}

// DefaultChain is the detection order used by DetectColumns.
var DefaultChain = []Strategy{
	HeaderStrategy{},
	ContentFallback{URLContentStrategy{}, CategoryContentStrategy{}, TitleLengthStrategy{}},
	FirstFreeColumnStrategy{},
}

// DetectColumns infers the column layout from the header row and the data
// rows that follow it.
func DetectColumns(headers []string, rows [][]string) ColumnMap {
	return DetectWith(DefaultChain, headers, rows)
}

// DetectWith runs an explicit strategy chain.
func DetectWith(chain []Strategy, headers []string, rows [][]string) ColumnMap {
	sample := rows
	if len(sample) > sampleRows {
		sample = sample[:sampleRows]
	}
	width := len(headers)
	for _, r := range sample {
		if len(r) > width {
			width = len(r)
		}
	}

	dc := &DetectContext{Headers: headers, Sample: sample, Width: width, Map: NewColumnMap()}
	for _, s := range chain {
		s.Detect(dc)
	}
	return dc.Map
}

type headerRule struct {
	re   *regexp.Regexp
	slot func(*ColumnMap) *int
}

var headerRules = []headerRule{
	{regexp.MustCompile(`(?i)^(title|name|use.?case|projekt|titel)$`), func(m *ColumnMap) *int { return &m.Title }},
	{regexp.MustCompile(`(?i)^(url|link|source|quelle|href)$`), func(m *ColumnMap) *int { return &m.URL }},
	{regexp.MustCompile(`(?i)^(author|user|creator|verfasser|handle)$`), func(m *ColumnMap) *int { return &m.Author }},
	{regexp.MustCompile(`(?i)^(category|kategorie|cat|typ|type)$`), func(m *ColumnMap) *int { return &m.Category }},
	{regexp.MustCompile(`(?i)^(desc|description|beschreibung|summary|zusammenfassung)$`), func(m *ColumnMap) *int { return &m.Description }},
	{regexp.MustCompile(`(?i)^(difficulty|schwierigkeit|level)$`), func(m *ColumnMap) *int { return &m.Difficulty }},
	{regexp.MustCompile(`(?i)^(cost|kosten|price|preis|api.?cost)$`), func(m *ColumnMap) *int { return &m.Cost }},
	{regexp.MustCompile(`(?i)^(tags?|labels?|stichworte?)$`), func(m *ColumnMap) *int { return &m.Tags }},
}

// HeaderStrategy matches header names (English and German). The first
// header matching a field wins it.
type HeaderStrategy struct{}

func (HeaderStrategy) Detect(dc *DetectContext) {
	for i, h := range dc.Headers {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, rule := range headerRules {
			if !rule.re.MatchString(h) {
				continue
			}
			if slot := rule.slot(&dc.Map); *slot == Absent {
				*slot = i
			}
			break
		}
	}
}

// ContentFallback runs its strategies only when the url or title slot is
// still empty once it is reached.
type ContentFallback []Strategy

func (f ContentFallback) Detect(dc *DetectContext) {
	if dc.Map.URL != Absent && dc.Map.Title != Absent {
		return
	}
	for _, s := range f {
		s.Detect(dc)
	}
}

// URLContentStrategy picks the first free column where at least half of the
// sampled cells start with "http".
type URLContentStrategy struct{}

func (URLContentStrategy) Detect(dc *DetectContext) {
	if dc.Map.URL != Absent {
		return
	}
	for col := 0; col < dc.Width; col++ {
		if dc.Map.Claimed(col) {
			continue
		}
		vals := dc.values(col)
		if len(vals) == 0 {
			continue
		}
		hits := 0
		for _, v := range vals {
			if strings.HasPrefix(v, "http") {
				hits++
			}
		}
		if atLeastHalf(hits, len(vals)) {
			dc.Map.URL = col
			return
		}
	}
}

// CategoryContentStrategy picks the first non-URL column where at least half
// of the sampled cells resolve to a known category. Columns already named by
// a header still qualify.
type CategoryContentStrategy struct{}

func (CategoryContentStrategy) Detect(dc *DetectContext) {
	if dc.Map.Category != Absent {
		return
	}
	for col := 0; col < dc.Width; col++ {
		if col == dc.Map.URL {
			continue
		}
		vals := dc.values(col)
		if len(vals) == 0 {
			continue
		}
		hits := 0
		for _, v := range vals {
			if _, ok := schema.ResolveCategory(v); ok {
				hits++
			}
		}
		if atLeastHalf(hits, len(vals)) {
			dc.Map.Category = col
			return
		}
	}
}

// TitleLengthStrategy picks a column whose sampled cells average more than
// 10 and fewer than 200 characters. Every qualifying column overwrites the
// previous pick, so the last one wins; existing imports depend on that.
type TitleLengthStrategy struct{}

func (TitleLengthStrategy) Detect(dc *DetectContext) {
	if dc.Map.Title != Absent {
		return
	}
	for col := 0; col < dc.Width; col++ {
		if col == dc.Map.URL || col == dc.Map.Category {
			continue
		}
		vals := dc.values(col)
		if len(vals) == 0 {
			continue
		}
		total := 0
		for _, v := range vals {
			total += utf8.RuneCountInString(v)
		}
		avg := float64(total) / float64(len(vals))
		if avg > 10 && avg < 200 {
			dc.Map.Title = col
		}
	}
}

// FirstFreeColumnStrategy gives the title to the first column that is neither
// the url nor the category column.
type FirstFreeColumnStrategy struct{}

func (FirstFreeColumnStrategy) Detect(dc *DetectContext) {
	if dc.Map.Title != Absent {
		return
	}
	for col := 0; col < dc.Width; col++ {
		if col != dc.Map.URL && col != dc.Map.Category {
			dc.Map.Title = col
			return
		}
	}
}

func atLeastHalf(hits, n int) bool {
	return float64(hits) >= float64(n)*0.5
}
