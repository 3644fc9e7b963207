package submissions

import "context"

// Store is the submission sheet. Row numbers are 1-based and count data rows
// only; the header row is not addressable.
type Store interface {
	Rows(ctx context.Context) ([]Row, error)
	UpdateStatus(ctx context.Context, n int, status string) error
	Append(ctx context.Context, row Row) error
}
