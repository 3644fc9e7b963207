// Package cases mirrors the dataset into SQLite and serves it over HTTP.
// The JSON file stays the system of record; the mirror is rebuilt by Sync.
package cases

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"clawledge/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q        string // keyword search in title/description/author
	Category string
	Source   string
	Tags     []string // any-match
	Verified *bool
	Limit    int
	Offset   int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const selectColumns = `
	SELECT id, title, description, full_content, category, tags, difficulty,
	       estimated_setup_time, source_type, source_url, source_author, source_handle,
	       monthly_api_cost, monetizable, verified, featured, impact_score, date_added
	FROM cases
`

type scanner interface {
	Scan(dest ...any) error
}

func scanCase(s scanner) (models.Case, error) {
	var (
		c        models.Case
		tagsJSON string
		impact   sql.NullFloat64
	)
	if err := s.Scan(
		&c.ID, &c.Title, &c.Description, &c.FullContent, &c.Category, &tagsJSON, &c.Difficulty,
		&c.EstimatedSetupTime, &c.Source.Type, &c.Source.URL, &c.Source.Author, &c.Source.AuthorHandle,
		&c.MonthlyAPICost, &c.Monetizable, &c.Verified, &c.Featured, &impact, &c.DateAdded,
	); err != nil {
		return c, err
	}
	if impact.Valid {
		c.ImpactScore = models.Float(impact.Float64)
	}
	_ = json.Unmarshal([]byte(tagsJSON), &c.Tags)
	c.Normalize()
	return c, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Case, error) {
	row := r.DB.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	c, err := scanCase(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return &c, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Case, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Case, 0, q.Limit)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// buildListSQL builds either COUNT(*) or the paged SELECT. Newest cases come
// first. The tag filter is any-match against the stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := selectColumns
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM cases`
	}

	var where []string
	var args []any

	if kw := strings.TrimSpace(q.Q); kw != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(source_author) LIKE ?)")
		kw = "%" + strings.ToLower(kw) + "%"
		args = append(args, kw, kw, kw)
	}
	if cat := strings.TrimSpace(q.Category); cat != "" {
		where = append(where, "category = ?")
		args = append(args, strings.ToLower(cat))
	}
	if src := strings.TrimSpace(q.Source); src != "" {
		where = append(where, "source_type = ?")
		args = append(args, strings.ToLower(src))
	}
	if q.Verified != nil {
		where = append(where, "verified = ?")
		args = append(args, *q.Verified)
	}

	if len(q.Tags) > 0 {
		var tagOr []string
		for _, t := range q.Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			tagOr = append(tagOr, "LOWER(tags) LIKE ?")
			args = append(args, `%"`+strings.ToLower(t)+`"%`)
		}
		if len(tagOr) > 0 {
			where = append(where, "("+strings.Join(tagOr, " OR ")+")")
		}
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY date_added DESC, id ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
