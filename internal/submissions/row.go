// Package submissions is the community submission sheet: the public form
// that appends rows to it, the stores that hold it and the reviewer that
// promotes approved rows into the dataset.
package submissions

import (
	"errors"
	"fmt"
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// NumColumns is the width of the sheet, A through M.
const NumColumns = 13

var (
	ErrNotPending    = errors.New("submission is not pending")
	ErrRowOutOfRange = errors.New("row number out of range")
	ErrDuplicate     = errors.New("case already exists")
	ErrInvalid       = errors.New("submission is invalid")
	ErrNoCredentials = errors.New("no spreadsheet credentials")
	ErrRateLimited   = errors.New("too many submissions")
	ErrSpam          = errors.New("spam detected")
)

// Row is one submission in sheet column order. Yes/No columns keep their
// sheet spelling.
type Row struct {
	Timestamp   string `json:"timestamp"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	Cost        string `json:"cost"`
	Skills      string `json:"skills"`
	Monetizable string `json:"monetizable"`
	Attribution string `json:"attribution"`
	Status      string `json:"status"`
}

// FromValues reads a row as returned by the spreadsheet service. Missing
// trailing cells are empty.
func FromValues(vals []any) Row {
	cell := func(i int) string {
		if i >= len(vals) || vals[i] == nil {
			return ""
		}
		return fmt.Sprint(vals[i])
	}
	return Row{
		Timestamp:   cell(0),
		Title:       cell(1),
		Description: cell(2),
		Name:        cell(3),
		Contact:     cell(4),
		URL:         cell(5),
		Category:    cell(6),
		Difficulty:  cell(7),
		Cost:        cell(8),
		Skills:      cell(9),
		Monetizable: cell(10),
		Attribution: cell(11),
		Status:      cell(12),
	}
}

func (r Row) Values() []any {
	return []any{
		r.Timestamp, r.Title, r.Description, r.Name, r.Contact, r.URL,
		r.Category, r.Difficulty, r.Cost, r.Skills, r.Monetizable, r.Attribution, r.Status,
	}
}

// Submitted parses the timestamp column. Unparseable values give the zero
// time.
func (r Row) Submitted() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, r.Timestamp); err == nil {
			return t
		}
	}
	return time.Time{}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
