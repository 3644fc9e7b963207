package cases

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"clawledge/pkg/models"
)

// SaveToDatabase upserts the given cases into the cases table in one
// transaction.
func SaveToDatabase(ctx context.Context, db *sql.DB, cases []models.Case) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := upsert(ctx, tx, cases); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Sync makes the mirror hold exactly the given cases: rows for ids no longer
// in the dataset are deleted. It returns the number of deleted rows.
func Sync(ctx context.Context, db *sql.DB, cases []models.Case) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := upsert(ctx, tx, cases); err != nil {
		return 0, err
	}

	del := `DELETE FROM cases`
	args := make([]any, 0, len(cases))
	if len(cases) > 0 {
		del += ` WHERE id NOT IN (?` + strings.Repeat(",?", len(cases)-1) + `)`
		for _, c := range cases {
			args = append(args, c.ID)
		}
	}
	res, err := tx.ExecContext(ctx, del, args...)
	if err != nil {
		return 0, fmt.Errorf("prune stale cases: %w", err)
	}
	removed, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return removed, nil
}

func upsert(ctx context.Context, tx *sql.Tx, cases []models.Case) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cases (id, title, description, full_content, category, tags, difficulty,
			estimated_setup_time, source_type, source_url, source_author, source_handle,
			monthly_api_cost, monetizable, verified, featured, impact_score, date_added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  description = excluded.description,
		  full_content = excluded.full_content,
		  category = excluded.category,
		  tags = excluded.tags,
		  difficulty = excluded.difficulty,
		  estimated_setup_time = excluded.estimated_setup_time,
		  source_type = excluded.source_type,
		  source_url = excluded.source_url,
		  source_author = excluded.source_author,
		  source_handle = excluded.source_handle,
		  monthly_api_cost = excluded.monthly_api_cost,
		  monetizable = excluded.monetizable,
		  verified = excluded.verified,
		  featured = excluded.featured,
		  impact_score = excluded.impact_score,
		  date_added = excluded.date_added,
		  synced_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, c := range cases {
		tags := c.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", c.ID, err)
		}
		var impact sql.NullFloat64
		if c.ImpactScore != nil {
			impact = sql.NullFloat64{Float64: *c.ImpactScore, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			c.ID, c.Title, c.Description, c.FullContent, string(c.Category), string(tagsJSON), string(c.Difficulty),
			c.EstimatedSetupTime, string(c.Source.Type), c.Source.URL, c.Source.Author, c.Source.AuthorHandle,
			c.MonthlyAPICost, c.Monetizable, c.Verified, c.Featured, impact, c.DateAdded,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", c.ID, err)
		}
	}
	return nil
}
