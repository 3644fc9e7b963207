// Package ingest runs batches of partial cases through defaults, validation
// and duplicate detection, and merges the survivors into the dataset.
package ingest

import (
	"time"

	"go.uber.org/zap"

	"clawledge/internal/schema"
	"clawledge/pkg/models"
)

// minFullContentLen is the length below which a body is regenerated.
const minFullContentLen = 20

// Rejection describes one record that was dropped.
type Rejection struct {
	ID     string
	Title  string
	Errors []string
}

// Result is the outcome of one batch.
type Result struct {
	Accepted   []models.Case
	Invalid    []Rejection
	Duplicates []Rejection
}

// Added returns the number of accepted cases.
func (r Result) Added() int { return len(r.Accepted) }

// ByCategory counts accepted cases per category.
func (r Result) ByCategory() map[models.Category]int {
	out := make(map[models.Category]int)
	for _, c := range r.Accepted {
		out[c.Category]++
	}
	return out
}

// Pipeline processes records strictly in input order. Every decision sees
// every earlier acceptance in the same run through Index.
type Pipeline struct {
	Index  *schema.Index
	Now    func() time.Time
	Logger *zap.Logger
}

// NewPipeline builds a pipeline over the cases already in the dataset.
func NewPipeline(existing []models.Case, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Index:  schema.BuildIndex(existing),
		Now:    time.Now,
		Logger: logger,
	}
}

// Run processes a batch. It never fails; per-record problems end up in the
// result.
func (p *Pipeline) Run(batch []models.PartialCase) Result {
	var res Result
	for _, raw := range batch {
		c, rej, dup := p.Process(raw)
		switch {
		case rej != nil && dup:
			res.Duplicates = append(res.Duplicates, *rej)
		case rej != nil:
			res.Invalid = append(res.Invalid, *rej)
		default:
			res.Accepted = append(res.Accepted, c)
		}
	}
	return res
}

// Process runs a single record. On acceptance the case is already recorded
// in the index. dup tells a duplicate rejection from an invalid one.
func (p *Pipeline) Process(raw models.PartialCase) (c models.Case, rej *Rejection, dup bool) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c = schema.ApplyDefaultsAt(raw, now())

	if v := schema.Validate(c); !v.Valid {
		log.Warn("invalid case", zap.String("title", c.Title), zap.Strings("errors", v.Errors))
		return c, &Rejection{ID: c.ID, Title: c.Title, Errors: v.Errors}, false
	}

	if d := p.Index.Check(c); d.Duplicate {
		log.Debug("duplicate case", zap.String("id", c.ID), zap.String("reason", d.Reason))
		return c, &Rejection{ID: c.ID, Title: c.Title, Errors: []string{d.Reason}}, true
	}

	if len(c.FullContent) < minFullContentLen {
		c.FullContent = FullContent(c)
	}

	p.Index.Add(c)
	return c, nil, false
}
