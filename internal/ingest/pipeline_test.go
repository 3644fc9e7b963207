package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"clawledge/internal/dataset"
	"clawledge/pkg/models"
)

func fixedClock() time.Time { return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC) }

func newPipeline(t *testing.T, existing []models.Case) *Pipeline {
	p := NewPipeline(existing, zaptest.NewLogger(t))
	p.Now = fixedClock
	return p
}

func partial(title, url string) models.PartialCase {
	return models.PartialCase{
		Title:       title,
		Description: "A description that is long enough to pass.",
		Source:      &models.PartialSource{URL: url},
	}
}

func TestRunAcceptsValidatesAndDedups(t *testing.T) {
	existing := []models.Case{{ID: "taken", Source: models.Source{URL: "https://github.com/old/repo"}}}
	p := newPipeline(t, existing)

	res := p.Run([]models.PartialCase{
		partial("Auto-tag my inbox", "https://x.com/someone/status/123"),
		partial("Same repo again", "https://github.com/old/repo/"),
		partial("Taken", "https://example.com/new"),
		{Title: "x"},
		partial("Second in batch", "https://x.com/someone/status/123/"),
		partial("Fresh one", "https://example.com/fresh"),
	})

	require.Len(t, res.Accepted, 2)
	assert.Equal(t, "auto-tag-my-inbox", res.Accepted[0].ID)
	assert.Equal(t, "fresh-one", res.Accepted[1].ID)
	assert.Equal(t, "2026-02-01", res.Accepted[0].DateAdded)

	require.Len(t, res.Invalid, 1)
	assert.Equal(t, "x", res.Invalid[0].Title)
	assert.Contains(t, res.Invalid[0].Errors, "source.url is missing")

	require.Len(t, res.Duplicates, 3)
	assert.Contains(t, res.Duplicates[0].Errors[0], "URL exists")
	assert.Equal(t, "ID exists: taken", res.Duplicates[1].Errors[0])
	assert.Contains(t, res.Duplicates[2].Errors[0], "URL exists", "intra-batch duplicate")

	assert.Equal(t, map[models.Category]int{models.CategoryWild: 2}, res.ByCategory())
}

func TestRunSynthesizesFullContent(t *testing.T) {
	p := newPipeline(t, nil)
	short := partial("Short body", "https://example.com/a")
	short.FullContent = "too short"
	short.Source.Author = "Ann"
	short.Source.AuthorHandle = "@ann"

	long := partial("Long body", "https://example.com/b")
	long.FullContent = "This body is definitely long enough to keep."

	res := p.Run([]models.PartialCase{short, long})
	require.Len(t, res.Accepted, 2)

	body := res.Accepted[0].FullContent
	assert.Contains(t, body, "Ann (@ann) shared their OpenClaw setup.")
	assert.Contains(t, body, "## Overview\n\nA description that is long enough to pass.")
	assert.Contains(t, body, "**Requirements:** OpenClaw or Clawdbot, ")
	assert.Contains(t, body, "[Original post](https://example.com/a)")

	assert.Equal(t, long.FullContent, res.Accepted[1].FullContent)
}

func TestCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "use-cases.json")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0o644))

	ds, err := dataset.Load(path)
	require.NoError(t, err)

	outcome, err := Commit(ds, path, Result{}, false)
	require.NoError(t, err)
	assert.Equal(t, NothingToWrite, outcome)

	res := newPipeline(t, nil).Run([]models.PartialCase{partial("Dry run case", "https://example.com/dry")})

	outcome, err = Commit(ds, path, res, true)
	require.NoError(t, err)
	assert.Equal(t, DryRun, outcome)
	b, _ := os.ReadFile(path)
	assert.Equal(t, "[]\n", string(b))

	outcome, err = Commit(ds, path, res, false)
	require.NoError(t, err)
	assert.Equal(t, Written, outcome)

	again, err := dataset.Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, again.Len())
	assert.Equal(t, "dry-run-case", again.Cases()[0].ID)
}

func TestPrintSummary(t *testing.T) {
	res := Result{
		Accepted: []models.Case{
			{ID: "a", Title: "A", Category: models.CategoryResearch},
			{ID: "b", Title: "B", Category: models.CategoryWild},
			{ID: "c", Title: "C", Category: models.CategoryWild},
		},
		Invalid:    []Rejection{{Title: "bad", Errors: []string{"title is missing or too short"}}},
		Duplicates: []Rejection{{Title: "dup"}},
	}

	var buf bytes.Buffer
	PrintSummary(&buf, res, Written, 10, true)
	out := buf.String()
	assert.Contains(t, out, "Added 3 cases")
	assert.Contains(t, out, "Total cases: 10")
	assert.Contains(t, out, "Skipped: 1 duplicates")
	assert.Regexp(t, `(?s)wild: \+2.*research: \+1`, out)
	assert.Contains(t, out, `"bad": [title is missing or too short]`)

	buf.Reset()
	PrintSummary(&buf, Result{Duplicates: res.Duplicates}, NothingToWrite, 10, false)
	assert.Equal(t, "No new cases to add (1 duplicates, 0 invalid).\n", buf.String())
}

func TestRunNonLatinTitlesDoNotShareAnIdentifier(t *testing.T) {
	p := newPipeline(t, nil)

	res := p.Run([]models.PartialCase{
		partial("日本語のボット", "https://example.com/jp"),
		partial("中文机器人助手", "https://example.com/cn"),
	})

	require.Len(t, res.Accepted, 1)
	assert.Equal(t, "untitled", res.Accepted[0].ID)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "ID exists: untitled", res.Duplicates[0].Errors[0])

	ids := map[string]bool{}
	for _, c := range res.Accepted {
		assert.False(t, ids[c.ID], "identifier %q accepted twice", c.ID)
		ids[c.ID] = true
	}
}
