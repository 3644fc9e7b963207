package schema

import (
	"time"

	"clawledge/pkg/models"
)

const (
	DefaultTitle              = "Untitled"
	DefaultID                 = "untitled"
	DefaultEstimatedSetupTime = "1-2 hours"
	DefaultMonthlyAPICost     = "$10-30"
	DefaultAuthor             = "Unknown"
	DefaultImpactScore        = 5

	DefaultCategory   = models.CategoryWild
	DefaultDifficulty = models.DifficultyIntermediate
)

// DefaultRequirements is copied into every case that does not list its own.
var DefaultRequirements = []string{
	"OpenClaw or Clawdbot",
	"Always-on machine (Mac Mini, VPS, etc.)",
	"Claude API Key",
}

// ApplyDefaults completes a partial case using today's date.
func ApplyDefaults(p models.PartialCase) models.Case {
	return ApplyDefaultsAt(p, time.Now())
}

// ApplyDefaultsAt completes a partial case. The input is never modified and
// the returned case shares no slices with it.
func ApplyDefaultsAt(p models.PartialCase, now time.Time) models.Case {
	c := models.Case{
		ID:                 p.ID,
		Title:              orDefault(p.Title, DefaultTitle),
		Description:        p.Description,
		FullContent:        p.FullContent,
		Category:           DefaultCategory,
		Tags:               cloneOr(p.Tags, nil),
		Difficulty:         models.Difficulty(orDefault(p.Difficulty, string(DefaultDifficulty))),
		EstimatedSetupTime: orDefault(p.EstimatedSetupTime, DefaultEstimatedSetupTime),
		Source:             mergeSource(p.Source),
		Requirements:       cloneOr(p.Requirements, DefaultRequirements),
		MonthlyAPICost:     orDefault(p.MonthlyAPICost, DefaultMonthlyAPICost),
		RevenueEstimate:    p.RevenueEstimate,
		DateAdded:          orDefault(p.DateAdded, now.UTC().Format(time.DateOnly)),
		ImpactScore:        models.Float(DefaultImpactScore),
		RelatedSkills:      cloneOr(p.RelatedSkills, nil),
		RelatedRepos:       cloneOr(p.RelatedRepos, nil),
	}

	if cat, ok := ResolveCategory(p.Category); ok {
		c.Category = cat
	}
	if p.Monetizable != nil {
		c.Monetizable = *p.Monetizable
	}
	if p.Verified != nil {
		c.Verified = *p.Verified
	}
	if p.Featured != nil {
		c.Featured = *p.Featured
	}
	if p.ImpactScore != nil {
		c.ImpactScore = models.Float(*p.ImpactScore)
	}

	// titles without any [a-z0-9] slug to "", which would leave the case
	// without an identifier
	if c.ID == "" {
		c.ID = Slugify(p.Title)
	}
	if c.ID == "" {
		c.ID = DefaultID
	}
	return c
}

// mergeSource fills each source field independently. A source without an
// explicit type, or one left at the blog default, is re-typed from its URL.
func mergeSource(p *models.PartialSource) models.Source {
	s := models.Source{Type: models.SourceBlog, Author: DefaultAuthor}
	if p != nil {
		s.URL = p.URL
		s.Author = orDefault(p.Author, DefaultAuthor)
		s.AuthorHandle = p.AuthorHandle
		s.Date = p.Date
		s.Quote = p.Quote
		if p.Type != "" {
			s.Type = models.SourceType(p.Type)
		}
	}
	if s.Type == models.SourceBlog {
		s.Type = DetectSourceType(s.URL)
	}
	return s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func cloneOr(v, def []string) []string {
	if v == nil {
		v = def
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}
