package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"clawledge/pkg/models"
)

// DoneDir is the archive sub-directory of the pending directory.
const DoneDir = "done"

// Batch is a set of partial cases together with the files they came from.
type Batch struct {
	Cases []models.PartialCase
	Files []string
}

// DecodePartials accepts a single partial object or an array of them.
func DecodePartials(b []byte) ([]models.PartialCase, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, nil
	}
	if b[0] == '[' {
		var many []models.PartialCase
		if err := json.Unmarshal(b, &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one models.PartialCase
	if err := json.Unmarshal(b, &one); err != nil {
		return nil, err
	}
	return []models.PartialCase{one}, nil
}

// ReadPartials decodes a whole stream, e.g. standard input.
func ReadPartials(r io.Reader) ([]models.PartialCase, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	out, err := DecodePartials(b)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return out, nil
}

// LoadPartials reads every file in order. A file that cannot be read or
// parsed is skipped; its error is returned alongside the cases that did load.
func LoadPartials(paths []string) (Batch, error) {
	var (
		batch Batch
		errs  error
	)
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read %s: %w", p, err))
			continue
		}
		cases, err := DecodePartials(b)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("parse %s: %w", filepath.Base(p), err))
			continue
		}
		batch.Cases = append(batch.Cases, cases...)
		batch.Files = append(batch.Files, p)
	}
	return batch, errs
}

// PendingFiles lists *.json files directly inside dir, sorted by name. A
// missing directory yields no files and no error.
func PendingFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// ArchiveFiles moves processed pending files into doneDir.
func ArchiveFiles(files []string, doneDir string) error {
	if len(files) == 0 {
		return nil
	}
	if err := os.MkdirAll(doneDir, 0o755); err != nil {
		return fmt.Errorf("ensure %s: %w", doneDir, err)
	}
	var errs error
	for _, f := range files {
		dest := filepath.Join(doneDir, filepath.Base(f))
		if err := os.Rename(f, dest); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("archive %s: %w", f, err))
		}
	}
	return errs
}
