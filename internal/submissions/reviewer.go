package submissions

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"clawledge/internal/dataset"
	"clawledge/internal/ingest"
	"clawledge/internal/schema"
	"clawledge/pkg/models"
)

// SubmissionRequirements replaces the default requirement list for
// community cases.
var SubmissionRequirements = []string{"OpenClaw / Clawdbot setup"}

// Numbered is a row together with its 1-based row number.
type Numbered struct {
	N   int
	Row Row
}

// Stats counts rows per status.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Approval is what Approve added, or would add on a dry run.
type Approval struct {
	N       int
	Row     Row
	Case    models.Case
	Total   int
	Written bool
}

// Reviewer promotes submission rows into the dataset at DataPath. Approve
// and Reject are serialised, so a long-running server can take concurrent
// review requests without losing dataset writes. Other processes writing
// DataPath at the same time are not coordinated with.
type Reviewer struct {
	Store    Store
	DataPath string
	Now      func() time.Time
	Logger   *zap.Logger

	// mu covers status check, dataset load, save and status write.
	mu sync.Mutex
}

func (r *Reviewer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Reviewer) log() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Pending lists rows whose status is pending.
func (r *Reviewer) Pending(ctx context.Context) ([]Numbered, error) {
	rows, err := r.Store.Rows(ctx)
	if err != nil {
		return nil, err
	}
	var out []Numbered
	for i, row := range rows {
		if row.Status == StatusPending {
			out = append(out, Numbered{N: i + 1, Row: row})
		}
	}
	return out, nil
}

func (r *Reviewer) Stats(ctx context.Context) (Stats, error) {
	rows, err := r.Store.Rows(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case StatusPending:
			st.Pending++
		case StatusApproved:
			st.Approved++
		case StatusRejected:
			st.Rejected++
		}
	}
	return st, nil
}

func (r *Reviewer) row(ctx context.Context, n int) (Row, error) {
	rows, err := r.Store.Rows(ctx)
	if err != nil {
		return Row{}, err
	}
	if n < 1 || n > len(rows) {
		return Row{}, fmt.Errorf("%w: use 1-%d", ErrRowOutOfRange, len(rows))
	}
	return rows[n-1], nil
}

// Approve runs pending row n through the ingestion pipeline against the
// current dataset. On success the dataset is saved and then the row status
// set to approved. A dry run stops before either write.
func (r *Reviewer) Approve(ctx context.Context, n int, dryRun bool) (Approval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, err := r.row(ctx, n)
	if err != nil {
		return Approval{}, err
	}
	if row.Status != StatusPending {
		return Approval{}, fmt.Errorf("row %d is %q: %w", n, row.Status, ErrNotPending)
	}

	ds, err := dataset.Load(r.DataPath)
	if err != nil {
		return Approval{}, err
	}

	p := ingest.NewPipeline(ds.Cases(), r.log())
	p.Now = r.now
	c, rej, dup := p.Process(RowToPartial(row))
	switch {
	case rej != nil && dup:
		return Approval{}, fmt.Errorf("%s: %w", strings.Join(rej.Errors, "; "), ErrDuplicate)
	case rej != nil:
		return Approval{}, fmt.Errorf("%s: %w", strings.Join(rej.Errors, "; "), ErrInvalid)
	}

	out := Approval{N: n, Row: row, Case: c, Total: ds.Len() + 1}
	if dryRun {
		return out, nil
	}

	if _, err := ingest.Commit(ds, r.DataPath, ingest.Result{Accepted: []models.Case{c}}, false); err != nil {
		return Approval{}, err
	}
	if err := r.Store.UpdateStatus(ctx, n, StatusApproved); err != nil {
		return Approval{}, fmt.Errorf("case %s saved but status not updated: %w", c.ID, err)
	}
	out.Written = true
	r.log().Info("submission approved", zap.Int("row", n), zap.String("id", c.ID))
	return out, nil
}

// Reject marks row n as rejected whatever its current status.
func (r *Reviewer) Reject(ctx context.Context, n int) (Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, err := r.row(ctx, n)
	if err != nil {
		return Row{}, err
	}
	if err := r.Store.UpdateStatus(ctx, n, StatusRejected); err != nil {
		return Row{}, err
	}
	r.log().Info("submission rejected", zap.Int("row", n), zap.String("title", row.Title))
	row.Status = StatusRejected
	return row, nil
}

// RowToPartial maps a sheet row onto a partial case. Values outside the
// allow-lists fall back to wild and beginner.
func RowToPartial(row Row) models.PartialCase {
	title := strings.TrimSpace(row.Title)
	description := strings.TrimSpace(row.Description)

	category := models.CategoryWild
	if c, ok := schema.ResolveCategory(row.Category); ok {
		category = c
	}
	difficulty := models.DifficultyBeginner
	if d := models.Difficulty(row.Difficulty); d.Valid() {
		difficulty = d
	}
	skills := splitSkills(row.Skills)
	monetizable := row.Monetizable == "Yes"

	p := models.PartialCase{
		ID:                 schema.Slugify(title),
		Title:              title,
		Description:        description,
		FullContent:        description,
		Category:           string(category),
		Tags:               skills,
		Difficulty:         string(difficulty),
		EstimatedSetupTime: "Unknown",
		Source: &models.PartialSource{
			URL:          strings.TrimSpace(row.URL),
			Author:       strings.TrimSpace(row.Name),
			AuthorHandle: strings.TrimSpace(row.Contact),
		},
		Requirements:   append([]string(nil), SubmissionRequirements...),
		MonthlyAPICost: orUnknown(row.Cost),
		Monetizable:    models.Bool(monetizable),
		Verified:       models.Bool(false),
		Featured:       models.Bool(false),
		ImpactScore:    models.Float(schema.DefaultImpactScore),
		RelatedSkills:  append([]string(nil), skills...),
		RelatedRepos:   []string{},
	}
	if t := row.Submitted(); !t.IsZero() {
		p.Source.Date = t.UTC().Format(time.DateOnly)
	}
	if monetizable {
		p.RevenueEstimate = "Unknown"
	}
	return p
}

func splitSkills(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Unknown"
	}
	return s
}
