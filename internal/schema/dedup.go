package schema

import (
	"fmt"
	"strings"

	"clawledge/pkg/models"
)

// Index answers "is this case already in the dataset?" by source URL and by
// identifier. Batch callers must Add each accepted case before checking the
// next one so that a batch cannot duplicate itself.
type Index struct {
	byURL map[string]struct{}
	byID  map[string]struct{}
}

type Duplicate struct {
	Duplicate bool
	Reason    string
}

func NewIndex() *Index {
	return &Index{
		byURL: make(map[string]struct{}),
		byID:  make(map[string]struct{}),
	}
}

// BuildIndex indexes an existing collection.
func BuildIndex(cases []models.Case) *Index {
	idx := NewIndex()
	for _, c := range cases {
		idx.Add(c)
	}
	return idx
}

// NormalizeURL lowercases a URL and strips one trailing slash.
func NormalizeURL(url string) string {
	return strings.TrimSuffix(strings.ToLower(url), "/")
}

// Add records an accepted case. The identifier is inserted as-is, empty
// or not; an empty URL is not recorded.
func (idx *Index) Add(c models.Case) {
	if u := NormalizeURL(c.Source.URL); u != "" {
		idx.byURL[u] = struct{}{}
	}
	idx.byID[c.ID] = struct{}{}
}

// Check reports the first matching rule. URL identity is checked before the
// identifier; a case without an id is looked up by the slug of its title.
func (idx *Index) Check(c models.Case) Duplicate {
	if u := NormalizeURL(c.Source.URL); u != "" {
		if _, ok := idx.byURL[u]; ok {
			return Duplicate{Duplicate: true, Reason: fmt.Sprintf("URL exists: %s", u)}
		}
	}
	id := c.ID
	if id == "" {
		id = Slugify(c.Title)
	}
	if _, ok := idx.byID[id]; ok {
		return Duplicate{Duplicate: true, Reason: fmt.Sprintf("ID exists: %s", id)}
	}
	return Duplicate{}
}

// HasID reports whether an identifier is already taken.
func (idx *Index) HasID(id string) bool {
	_, ok := idx.byID[id]
	return ok
}

func (idx *Index) Len() int { return len(idx.byID) }
