package submissions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// SQLiteStore keeps the submission sheet in the local database. Row n is the
// n-th submission in insertion order.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Rows(ctx context.Context) ([]Row, error) {
	rs, err := s.db.QueryContext(ctx, `
		SELECT submitted_at, title, description, name, contact, url, category,
		       difficulty, cost, skills, monetizable, attribution, status
		FROM submissions
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rs.Close()

	var out []Row
	for rs.Next() {
		var r Row
		if err := rs.Scan(&r.Timestamp, &r.Title, &r.Description, &r.Name, &r.Contact, &r.URL,
			&r.Category, &r.Difficulty, &r.Cost, &r.Skills, &r.Monetizable, &r.Attribution, &r.Status); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, r)
	}
	return out, rs.Err()
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, n int, status string) error {
	if n < 1 {
		return ErrRowOutOfRange
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions SET status = ?
		WHERE seq = (SELECT seq FROM submissions ORDER BY seq LIMIT 1 OFFSET ?)
	`, status, n-1)
	if err != nil {
		return fmt.Errorf("update submission %d: %w", n, err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrRowOutOfRange
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, r Row) error {
	if r.Status == "" {
		r.Status = StatusPending
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (uid, submitted_at, title, description, name, contact, url,
			category, difficulty, cost, skills, monetizable, attribution, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), r.Timestamp, r.Title, r.Description, r.Name, r.Contact, r.URL,
		r.Category, r.Difficulty, r.Cost, r.Skills, r.Monetizable, r.Attribution, r.Status)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}
