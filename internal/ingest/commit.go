package ingest

import (
	"fmt"

	"clawledge/internal/dataset"
)

// Outcome tells the caller what Commit did.
type Outcome int

const (
	// NothingToWrite means no case was accepted; the dataset is untouched.
	NothingToWrite Outcome = iota
	// DryRun means cases were accepted but the write was skipped on request.
	DryRun
	// Written means the accepted cases were appended and the file saved.
	Written
)

// Commit appends the accepted cases and writes the dataset once. Nothing is
// written when the batch accepted nothing or dryRun is set.
func Commit(ds *dataset.Dataset, path string, res Result, dryRun bool) (Outcome, error) {
	if res.Added() == 0 {
		return NothingToWrite, nil
	}
	if dryRun {
		return DryRun, nil
	}
	ds.Append(res.Accepted...)
	if err := ds.Save(path); err != nil {
		return Written, fmt.Errorf("save dataset: %w", err)
	}
	return Written, nil
}
