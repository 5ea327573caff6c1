package writers

import (
	"encoding/json"
	"io"

	"plassembler/internal/summary"
	"plassembler/pkg/api"
)

func init() { RegisterSummary("json", WriteJSON) }

// ToAPI converts a report to the v1 wire schema.
func ToAPI(r Report) api.SummaryV1 {
	out := api.SummaryV1{
		RunID:   r.RunID,
		Version: r.Version,
		Mode:    r.Mode,
		Contigs: make([]api.ContigV1, 0, len(r.Table.Rows)),
	}
	if len(r.Table.MetaHeader) > 0 {
		out.PLSDB = &api.PLSDBColsV1{Columns: r.Table.MetaHeader}
	}
	for _, row := range r.Table.Rows {
		out.Contigs = append(out.Contigs, contigV1(row))
	}
	for _, s := range r.Suspect {
		out.Suspect = append(out.Suspect, s.Contig)
	}
	return out
}

func contigV1(row summary.Row) api.ContigV1 {
	c := api.ContigV1{
		Contig:    row.Contig,
		Length:    row.Length,
		Circular:  row.Circular,
		PLSDBHit:  row.PLSDBHit,
		PLSDBMeta: row.Meta,
	}
	if row.HasShort {
		c.DepthShort = &api.DepthV1{Mean: row.Short.Mean, SD: row.Short.SD, CopyNumber: row.CopyShort}
	}
	if row.HasLong {
		c.DepthLong = &api.DepthV1{Mean: row.Long.Mean, SD: row.Long.SD, CopyNumber: row.CopyLong}
	}
	if row.PLSDBHit {
		c.Accession = row.Hit.Accession
		c.Distance = row.Hit.Distance
		c.PValue = row.Hit.PValue
		c.Hashes = row.Hit.MatchingHashes
	}
	return c
}

func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToAPI(r))
}
