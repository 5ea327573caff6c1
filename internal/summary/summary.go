// Package summary joins depth and PLSDB results per contig and applies the
// plasmid incompatibility heuristic.
package summary

import (
	"plassembler/internal/depth"
	"plassembler/internal/mash"
)

// Row is one contig of the final summary.
type Row struct {
	depth.Row
	PLSDBHit bool
	Hit      mash.Hit
	Meta     []string // PLSDB metadata, aligned with Table.MetaHeader
}

type Table struct {
	Rows       []Row
	MetaHeader []string
}

// HasShort reports whether any row carries short-read depth.
func (t Table) HasShort() bool {
	for _, r := range t.Rows {
		if r.HasShort {
			return true
		}
	}
	return false
}

func (t Table) HasLong() bool {
	for _, r := range t.Rows {
		if r.HasLong {
			return true
		}
	}
	return false
}

// Plasmids returns the non-chromosome rows.
func (t Table) Plasmids() []Row {
	var out []Row
	for _, r := range t.Rows {
		if !r.IsChromosome() {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the row for contig.
func (t Table) Find(contig string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Contig == contig {
			return r, true
		}
	}
	return Row{}, false
}

// Combine left-joins the closest PLSDB hit and its metadata onto each depth
// row. Chromosome rows come first; order is otherwise preserved.
func Combine(rows []depth.Row, top map[string]mash.Hit, md mash.Metadata) Table {
	t := Table{MetaHeader: md.Header}
	add := func(d depth.Row) {
		r := Row{Row: d}
		if h, ok := top[d.Contig]; ok {
			r.PLSDBHit = true
			r.Hit = h
			r.Meta = md.Get(h.Accession)
		}
		t.Rows = append(t.Rows, r)
	}
	for _, d := range rows {
		if d.IsChromosome() {
			add(d)
		}
	}
	for _, d := range rows {
		if !d.IsChromosome() {
			add(d)
		}
	}
	return t
}

// Incompatibility returns the plasmids without a PLSDB hit whose every
// available copy number is below 1. Such contigs often come from a second,
// incompatible isolate or from contamination.
func Incompatibility(t Table) []Row {
	var out []Row
	for _, r := range t.Plasmids() {
		if r.PLSDBHit || (!r.HasShort && !r.HasLong) {
			continue
		}
		if r.HasShort && r.CopyShort >= 1 {
			continue
		}
		if r.HasLong && r.CopyLong >= 1 {
			continue
		}
		out = append(out, r)
	}
	return out
}
