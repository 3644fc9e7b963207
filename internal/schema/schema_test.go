package schema

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clawledge/pkg/models"
)

var fixedNow = time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		in   string
		want models.Category
		ok   bool
	}{
		{"development", models.CategoryDevelopment, true},
		{"  Coding ", models.CategoryDevelopment, true},
		{"PROGRAMMING", models.CategoryDevelopment, true},
		{"home-automation", models.CategorySmartHome, true},
		{"defi", models.CategoryCrypto, true},
		{"Wild", models.CategoryWild, true},
		{"", "", false},
		{"   ", "", false},
		{"gardening", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ResolveCategory(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCategoryCanonicalIsStable(t *testing.T) {
	for _, c := range models.Categories {
		got, ok := ResolveCategory(string(c))
		require.True(t, ok, c)
		again, ok := ResolveCategory(string(got))
		require.True(t, ok)
		assert.Equal(t, c, again)
	}
}

func TestDetectSourceType(t *testing.T) {
	tests := []struct {
		url  string
		want models.SourceType
	}{
		{"", models.SourceBlog},
		{"https://x.com/someone/status/1", models.SourceXPost},
		{"https://twitter.com/someone/status/1", models.SourceXPost},
		{"https://GitHub.com/a/b", models.SourceGitHub},
		{"https://www.reddit.com/r/x", models.SourceReddit},
		{"https://news.ycombinator.com/item?id=1", models.SourceHackerNews},
		{"https://medium.com/@a/post", models.SourceMedium},
		{"https://youtu.be/abc", models.SourceYouTube},
		{"https://discord.gg/abc", models.SourceDiscord},
		{"https://someone.substack.com/p/post", models.SourceSubstack},
		{"https://example.com/post", models.SourceBlog},
		// github wins over youtube because it is checked first
		{"https://github.com/youtube.com", models.SourceGitHub},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectSourceType(tt.url), tt.url)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Auto-tag my inbox":                  "auto-tag-my-inbox",
		"Don't Panic":                        "dont-panic",
		"Don’t Panic":                        "dont-panic",
		"  --Hello   World--  ":              "hello-world",
		"a . b":                              "a-b",
		"Café Bot 2.0!":                      "caf-bot-20",
		"":                                   "",
		"multi---dash":                       "multi-dash",
		"Tabs\tand\nnewlines":                "tabs-and-newlines",
		"abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij": "abcdefghij-abcdefghij-abcdefghij-abcdefghij-abcdefghij-abcde",
	}
	for in, want := range tests {
		got := Slugify(in)
		assert.Equal(t, want, got, in)
		assert.LessOrEqual(t, len(got), 60)
	}
}

func TestApplyDefaultsEmpty(t *testing.T) {
	got := ApplyDefaultsAt(models.PartialCase{}, fixedNow)

	want := models.Case{
		ID:                 "untitled",
		Title:              "Untitled",
		Category:           models.CategoryWild,
		Tags:               []string{},
		Difficulty:         models.DifficultyIntermediate,
		EstimatedSetupTime: "1-2 hours",
		Source:             models.Source{Type: models.SourceBlog, Author: "Unknown"},
		Requirements:       DefaultRequirements,
		MonthlyAPICost:     "$10-30",
		DateAdded:          "2026-03-14",
		ImpactScore:        models.Float(5),
		RelatedSkills:      []string{},
		RelatedRepos:       []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ApplyDefaultsAt mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyDefaultsDoesNotMutateInput(t *testing.T) {
	tags := []string{"mail"}
	p := models.PartialCase{
		Title:  "Inbox",
		Tags:   tags,
		Source: &models.PartialSource{URL: "https://github.com/a/b"},
	}
	c := ApplyDefaultsAt(p, fixedNow)
	c.Tags[0] = "changed"
	c.Requirements[0] = "changed"

	assert.Equal(t, "mail", tags[0])
	assert.Equal(t, "", p.Source.Type)
	assert.Equal(t, "OpenClaw or Clawdbot", DefaultRequirements[0])
}

func TestApplyDefaultsSourceMerge(t *testing.T) {
	t.Run("type derived from url", func(t *testing.T) {
		c := ApplyDefaultsAt(models.PartialCase{Source: &models.PartialSource{URL: "https://youtu.be/x"}}, fixedNow)
		assert.Equal(t, models.SourceYouTube, c.Source.Type)
		assert.Equal(t, "Unknown", c.Source.Author)
	})
	t.Run("explicit blog is re-derived", func(t *testing.T) {
		c := ApplyDefaultsAt(models.PartialCase{Source: &models.PartialSource{Type: "blog", URL: "https://github.com/a"}}, fixedNow)
		assert.Equal(t, models.SourceGitHub, c.Source.Type)
	})
	t.Run("explicit type kept", func(t *testing.T) {
		c := ApplyDefaultsAt(models.PartialCase{Source: &models.PartialSource{Type: "reddit", URL: "https://github.com/a", Author: "Ann"}}, fixedNow)
		assert.Equal(t, models.SourceReddit, c.Source.Type)
		assert.Equal(t, "Ann", c.Source.Author)
	})
}

func TestApplyDefaultsKeepsIdentifierDerivation(t *testing.T) {
	titles := []string{"Auto-tag my inbox", "Don't stop me now", "  spaced   out  ", "100% Uptime Monitor!!"}
	for _, title := range titles {
		c := ApplyDefaultsAt(models.PartialCase{Title: title}, fixedNow)
		assert.Equal(t, Slugify(title), c.ID, title)
	}

	c := ApplyDefaultsAt(models.PartialCase{ID: "given-id", Title: "Other"}, fixedNow)
	assert.Equal(t, "given-id", c.ID)
}

func TestApplyDefaultsNonLatinTitleGetsIdentifier(t *testing.T) {
	for _, title := range []string{"日本語のボット", "中文机器人助手", "🤖🚀"} {
		require.Equal(t, "", Slugify(title), title)
		c := ApplyDefaultsAt(models.PartialCase{Title: title}, fixedNow)
		assert.Equal(t, DefaultID, c.ID, title)
		assert.Equal(t, title, c.Title)
	}
}

func TestApplyDefaultsCategoryFallback(t *testing.T) {
	c := ApplyDefaultsAt(models.PartialCase{Category: "Coding"}, fixedNow)
	assert.Equal(t, models.CategoryDevelopment, c.Category)

	c = ApplyDefaultsAt(models.PartialCase{Category: "gardening"}, fixedNow)
	assert.Equal(t, models.CategoryWild, c.Category)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	c := models.Case{
		Title:       "ab",
		Description: "short",
		Category:    "nope",
		Difficulty:  "expert",
		Source:      models.Source{Type: "community", URL: "ftp://x"},
	}
	res := Validate(c)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"title is missing or too short",
		"description is missing or too short",
		"source.url invalid: ftp://x",
		"invalid category: nope",
		"invalid difficulty: expert",
		"invalid source type: community",
	}, res.Errors)
	assert.Error(t, res.Err())

	res = Validate(models.Case{Title: "abc", Description: "0123456789"})
	assert.Equal(t, []string{"source.url is missing"}, res.Errors)
}

func TestDefaultsNeverManufactureFailures(t *testing.T) {
	inputs := []models.PartialCase{
		{Title: "abc", Description: "0123456789", Source: &models.PartialSource{URL: "http://a.b"}},
		{Title: "Telegram butler", Description: "Answers messages while I sleep.", Category: "unknown", Source: &models.PartialSource{URL: "https://t.me/x"}},
		{Title: "Crypto watcher", Description: "Watches wallets all day long.", Category: "defi", Source: &models.PartialSource{URL: "https://reddit.com/r/x", Author: "bob"}},
	}
	for _, p := range inputs {
		res := Validate(ApplyDefaultsAt(p, fixedNow))
		assert.True(t, res.Valid, "%q: %v", p.Title, res.Errors)
		assert.NoError(t, res.Err())
	}
}

func TestIndex(t *testing.T) {
	idx := BuildIndex([]models.Case{
		{ID: "one", Source: models.Source{URL: "https://GitHub.com/a/b/"}},
		{ID: "two"},
	})
	assert.Equal(t, 2, idx.Len())

	dup := idx.Check(models.Case{ID: "x", Source: models.Source{URL: "https://github.com/a/b"}})
	assert.True(t, dup.Duplicate)
	assert.Equal(t, "URL exists: https://github.com/a/b", dup.Reason)

	dup = idx.Check(models.Case{ID: "two", Source: models.Source{URL: "https://other.example"}})
	assert.True(t, dup.Duplicate)
	assert.Equal(t, "ID exists: two", dup.Reason)

	dup = idx.Check(models.Case{Title: "One", Source: models.Source{URL: "https://new.example"}})
	assert.True(t, dup.Duplicate, "missing id falls back to the title slug")

	assert.False(t, idx.Check(models.Case{ID: "three", Source: models.Source{URL: "https://new.example"}}).Duplicate)
}

func TestIndexAddsEmptyIdentifier(t *testing.T) {
	idx := NewIndex()
	idx.Add(models.Case{Source: models.Source{URL: "https://example.com/a"}})
	assert.True(t, idx.HasID(""))

	dup := idx.Check(models.Case{Title: "日本語", Source: models.Source{URL: "https://example.com/b"}})
	assert.True(t, dup.Duplicate)
	assert.Equal(t, "ID exists: ", dup.Reason)
}

func TestIndexTrailingSlashInsensitive(t *testing.T) {
	idx := NewIndex()
	first := models.Case{ID: "a", Source: models.Source{URL: "https://github.com/a/b"}}
	second := models.Case{ID: "b", Source: models.Source{URL: "https://github.com/a/b/"}}

	require.False(t, idx.Check(first).Duplicate)
	idx.Add(first)
	assert.True(t, idx.Check(second).Duplicate)
}

func TestIndexSameCaseTwice(t *testing.T) {
	idx := BuildIndex(nil)
	c := ApplyDefaultsAt(models.PartialCase{
		Title:       "Morning brief",
		Description: "Summarises the news every morning.",
		Source:      &models.PartialSource{URL: "https://example.com/brief"},
	}, fixedNow)

	require.False(t, idx.Check(c).Duplicate)
	idx.Add(c)

	dup := idx.Check(c)
	assert.True(t, dup.Duplicate)
	assert.Contains(t, dup.Reason, "URL exists")
}

func TestPipelineScenarioAutoTag(t *testing.T) {
	p := models.PartialCase{
		Title:       "Auto-tag my inbox",
		Description: "Uses rules to label incoming mail by sender and keyword, then files it.",
		Source:      &models.PartialSource{URL: "https://x.com/someone/status/123"},
	}
	c := ApplyDefaultsAt(p, fixedNow)
	require.True(t, Validate(c).Valid)
	require.False(t, NewIndex().Check(c).Duplicate)

	assert.Equal(t, "auto-tag-my-inbox", c.ID)
	assert.Equal(t, models.CategoryWild, c.Category)
	assert.Equal(t, models.SourceXPost, c.Source.Type)
	assert.Equal(t, models.DifficultyIntermediate, c.Difficulty)
}
