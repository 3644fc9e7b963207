// Package dataset reads and writes the persisted use-case file: a JSON array
// of complete cases, pretty-printed and newline-terminated.
//
// The file is read once, changed in memory and written once. Records that
// were loaded and not modified are written back byte-for-byte as they were
// read (modulo indentation), so unknown fields survive a round trip.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"clawledge/pkg/models"
)

type record struct {
	c     models.Case
	raw   json.RawMessage
	dirty bool
}

// Dataset is the in-memory form of the use-case file.
type Dataset struct {
	records []record
}

// Load reads the dataset at path.
func Load(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	ds, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return ds, nil
}

// Decode parses a dataset held in memory.
func Decode(b []byte) (*Dataset, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, err
	}
	ds := &Dataset{records: make([]record, 0, len(raws))}
	for i, raw := range raws {
		var c models.Case
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		ds.records = append(ds.records, record{c: c, raw: raw})
	}
	return ds, nil
}

// Cases returns a copy of every case in file order.
func (d *Dataset) Cases() []models.Case {
	out := make([]models.Case, len(d.records))
	for i, r := range d.records {
		out[i] = r.c
	}
	return out
}

func (d *Dataset) Len() int { return len(d.records) }

// Get returns the case with the given id.
func (d *Dataset) Get(id string) (models.Case, bool) {
	for _, r := range d.records {
		if r.c.ID == id {
			return r.c, true
		}
	}
	return models.Case{}, false
}

// Append adds new cases at the end of the dataset.
func (d *Dataset) Append(cases ...models.Case) {
	for _, c := range cases {
		c.Normalize()
		d.records = append(d.records, record{c: c, dirty: true})
	}
}

// SetVerified sets the verified flag on every listed id whose flag differs
// and returns the number of records changed.
func (d *Dataset) SetVerified(ids map[string]bool, verified bool) int {
	changed := 0
	for i := range d.records {
		r := &d.records[i]
		if !ids[r.c.ID] || r.c.Verified == verified {
			continue
		}
		r.c.Verified = verified
		r.dirty = true
		changed++
	}
	return changed
}

// Encode renders the dataset in its persisted form.
func (d *Dataset) Encode() ([]byte, error) {
	items := make([]json.RawMessage, 0, len(d.records))
	for _, r := range d.records {
		if !r.dirty && r.raw != nil {
			items = append(items, r.raw)
			continue
		}
		c := r.c
		c.Normalize()
		b, err := marshalRecord(c)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", c.ID, err)
		}
		items = append(items, b)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// marshalRecord encodes one case without HTML escaping, so & < > stay
// literal like the records already in the file.
func marshalRecord(c models.Case) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Save writes the dataset to path in a single replace.
func (d *Dataset) Save(path string) error {
	b, err := d.Encode()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, b)
}

func writeFileAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes any value as indented JSON with a trailing newline. Used
// for pending files.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}
