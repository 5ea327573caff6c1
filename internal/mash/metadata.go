package mash

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
)

// Accession column names across PLSDB releases.
var accessionColumns = []string{"NUCCORE_ACC", "ACC_NUCCORE"}

// Metadata holds the PLSDB rows for a set of accessions, keyed by accession.
type Metadata struct {
	Header []string
	Rows   map[string][]string
}

// Get returns the row for acc, or nil.
func (m Metadata) Get(acc string) []string {
	if m.Rows == nil {
		return nil
	}
	return m.Rows[acc]
}

// LoadMetadata streams the PLSDB TSV at path and keeps only the rows whose
// accession is in want.
func LoadMetadata(path string, want map[string]bool) (_ Metadata, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return ParseMetadata(f, want)
}

func ParseMetadata(r io.Reader, want map[string]bool) (Metadata, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return Metadata{}, fmt.Errorf("PLSDB metadata header: %w", err)
	}
	md := Metadata{Header: append([]string(nil), header...), Rows: map[string][]string{}}
	acc := -1
	for _, name := range accessionColumns {
		for i, h := range md.Header {
			if h == name {
				acc = i
				break
			}
		}
		if acc >= 0 {
			break
		}
	}
	if acc < 0 {
		return Metadata{}, errors.New("PLSDB metadata: no accession column")
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Metadata{}, fmt.Errorf("PLSDB metadata: %w", err)
		}
		if acc >= len(rec) || !want[rec[acc]] {
			continue
		}
		row := make([]string, len(md.Header))
		copy(row, rec)
		md.Rows[rec[acc]] = row
	}
	return md, nil
}
