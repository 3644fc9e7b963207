package cases

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

var csvHeader = []string{"id", "title", "category", "difficulty", "source_type", "source_url", "author", "tags", "verified", "date_added"}

// ExportCSV writes the mirror as CSV, newest first.
func ExportCSV(ctx context.Context, db *sql.DB, out io.Writer) (int, error) {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return 0, err
	}

	rows, err := db.QueryContext(ctx, selectColumns+` ORDER BY date_added DESC, id ASC`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return n, err
		}
		if err := w.Write([]string{
			c.ID,
			c.Title,
			string(c.Category),
			string(c.Difficulty),
			string(c.Source.Type),
			c.Source.URL,
			c.Source.Author,
			strings.Join(c.Tags, ";"),
			strconv.FormatBool(c.Verified),
			c.DateAdded,
		}); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}

	w.Flush()
	return n, w.Error()
}
