// Package stats summarises the dataset for the stats and verify-urls
// commands.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"regexp"
	"slices"
	"strings"

	"clawledge/pkg/models"
)

// PowerUserMin is the number of cases that makes an author a power user.
const PowerUserMin = 2

var xProfile = regexp.MustCompile(`x\.com/([^/]+)`)

// Count is one bucket of a frequency table.
type Count struct {
	Name string
	N    int
}

// Author groups the cases credited to one handle.
type Author struct {
	Handle  string   `json:"handle"`
	Count   int      `json:"count"`
	IDs     []string `json:"-"`
	Profile string   `json:"-"`
}

type Summary struct {
	TotalCases      int
	TotalRepos      int
	Verified        int
	Featured        int
	Monetizable     int
	ByCategory      []Count
	BySource        []Count
	PowerUsers      []Author
	FirstDate       string
	LastDate        string
	EmptyCategories []models.Category
	Unverified      int
}

// Compute builds the summary. repos is the size of the repository list.
func Compute(cases []models.Case, repos int) Summary {
	s := Summary{TotalCases: len(cases), TotalRepos: repos}

	var (
		byCat   = newCounter()
		bySrc   = newCounter()
		dates   []string
		seenCat = map[models.Category]bool{}
	)
	for _, c := range cases {
		if c.Verified {
			s.Verified++
		} else {
			s.Unverified++
		}
		if c.Featured {
			s.Featured++
		}
		if c.Monetizable {
			s.Monetizable++
		}
		byCat.add(string(c.Category))
		seenCat[c.Category] = true
		src := string(c.Source.Type)
		if src == "" {
			src = "unknown"
		}
		bySrc.add(src)
		if c.DateAdded != "" {
			dates = append(dates, c.DateAdded)
		}
	}
	s.ByCategory = byCat.sorted()
	s.BySource = bySrc.sorted()
	s.PowerUsers = PowerUsers(cases, PowerUserMin)

	if len(dates) > 0 {
		slices.Sort(dates)
		s.FirstDate, s.LastDate = dates[0], dates[len(dates)-1]
	}
	for _, cat := range models.Categories {
		if !seenCat[cat] {
			s.EmptyCategories = append(s.EmptyCategories, cat)
		}
	}
	return s
}

// DateRange renders the first and last dateAdded, or "n/a".
func (s Summary) DateRange() string {
	if s.FirstDate == "" {
		return "n/a"
	}
	return s.FirstDate + " to " + s.LastDate
}

// PowerUsers returns authors with at least min cases, most prolific first.
// An author is the source handle, else the source author name.
func PowerUsers(cases []models.Case, min int) []Author {
	var order []string
	byHandle := map[string]*Author{}
	for _, c := range cases {
		handle := c.Source.AuthorHandle
		if handle == "" {
			handle = c.Source.Author
		}
		if handle == "" {
			handle = "unknown"
		}
		a, ok := byHandle[handle]
		if !ok {
			a = &Author{Handle: handle}
			byHandle[handle] = a
			order = append(order, handle)
		}
		a.Count++
		a.IDs = append(a.IDs, c.ID)
		if a.Profile == "" && c.Source.Type == models.SourceXPost {
			if m := xProfile.FindStringSubmatch(c.Source.URL); m != nil {
				a.Profile = "https://x.com/" + m[1]
			}
		}
	}

	var out []Author
	for _, h := range order {
		if a := byHandle[h]; a.Count >= min {
			out = append(out, *a)
		}
	}
	slices.SortStableFunc(out, func(a, b Author) int { return b.Count - a.Count })
	return out
}

// CountRepos returns the number of entries in the repository list at path.
// A missing file counts as zero.
func CountRepos(path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(b, &entries); err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return len(entries), nil
}

// WriteBrief prints the one-line summary.
func (s Summary) WriteBrief(w io.Writer) {
	fmt.Fprintf(w, "%d cases, %d cats, %d verified, %d repos\n", s.TotalCases, len(s.ByCategory), s.Verified, s.TotalRepos)
}

// WriteJSON prints the machine-readable summary.
func (s Summary) WriteJSON(w io.Writer) error {
	out := struct {
		TotalCases  int            `json:"totalCases"`
		TotalRepos  int            `json:"totalRepos"`
		Categories  int            `json:"categories"`
		Verified    int            `json:"verified"`
		Featured    int            `json:"featured"`
		Monetizable int            `json:"monetizable"`
		ByCategory  map[string]int `json:"byCategory"`
		BySource    map[string]int `json:"bySource"`
		PowerUsers  []Author       `json:"powerUsers"`
		DateRange   string         `json:"dateRange"`
	}{
		TotalCases:  s.TotalCases,
		TotalRepos:  s.TotalRepos,
		Categories:  len(s.ByCategory),
		Verified:    s.Verified,
		Featured:    s.Featured,
		Monetizable: s.Monetizable,
		ByCategory:  toMap(s.ByCategory),
		BySource:    toMap(s.BySource),
		PowerUsers:  s.PowerUsers,
		DateRange:   s.DateRange(),
	}
	if out.PowerUsers == nil {
		out.PowerUsers = []Author{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteReport prints the full human report. Power users are listed when
// authors is set.
func (s Summary) WriteReport(w io.Writer, today string, authors bool) {
	fmt.Fprintf(w, "\nClawledge Stats — %s\n%s\n", today, strings.Repeat("═", 40))
	fmt.Fprintf(w, "Total: %d cases | %d repos | %d categories\n", s.TotalCases, s.TotalRepos, len(s.ByCategory))
	fmt.Fprintf(w, "Verified: %d/%d (%d%%) | Featured: %d | Monetizable: %d (%d%%)\n",
		s.Verified, s.TotalCases, percent(s.Verified, s.TotalCases), s.Featured, s.Monetizable, percent(s.Monetizable, s.TotalCases))
	fmt.Fprintf(w, "Date range: %s\n\nBy category:\n", s.DateRange())

	maxCat := 1
	if len(s.ByCategory) > 0 {
		maxCat = s.ByCategory[0].N
	}
	for _, c := range s.ByCategory {
		bar := strings.Repeat("█", int(math.Round(float64(c.N)/float64(maxCat)*20)))
		fmt.Fprintf(w, "  %-20s %3d %s\n", c.Name, c.N, bar)
	}

	fmt.Fprintln(w, "\nBy source type:")
	for _, c := range s.BySource {
		fmt.Fprintf(w, "  %-14s %3d (%d%%)\n", c.Name, c.N, percent(c.N, s.TotalCases))
	}

	if authors && len(s.PowerUsers) > 0 {
		fmt.Fprintf(w, "\nPower Users (%d+ cases) — prioritize for weekly check:\n", PowerUserMin)
		for i, a := range s.PowerUsers {
			if i == 20 {
				break
			}
			fmt.Fprintf(w, "  %-25s %d cases\n", a.Handle, a.Count)
		}
	}

	if len(s.EmptyCategories) > 0 {
		names := make([]string, len(s.EmptyCategories))
		for i, c := range s.EmptyCategories {
			names[i] = string(c)
		}
		fmt.Fprintf(w, "\nEmpty categories: %s\n", strings.Join(names, ", "))
	}
	if s.Unverified > 0 {
		fmt.Fprintf(w, "\n%d unverified cases\n", s.Unverified)
	}
}

type counter struct {
	order []string
	n     map[string]int
}

func newCounter() *counter { return &counter{n: map[string]int{}} }

func (c *counter) add(k string) {
	if _, ok := c.n[k]; !ok {
		c.order = append(c.order, k)
	}
	c.n[k]++
}

func (c *counter) sorted() []Count {
	out := make([]Count, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Count{Name: k, N: c.n[k]})
	}
	slices.SortStableFunc(out, func(a, b Count) int { return b.N - a.N })
	return out
}

func toMap(cs []Count) map[string]int {
	m := make(map[string]int, len(cs))
	for _, c := range cs {
		m[c.Name] = c.N
	}
	return m
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
