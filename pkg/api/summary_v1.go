// pkg/api/summary_v1.go
package api

// SummaryV1 is the stable JSON schema of <prefix>_summary.json.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SummaryV1 struct {
	RunID   string       `json:"run_id"`
	Version string       `json:"version"`
	Mode    string       `json:"mode"` // "run" | "long" | "assembled"
	Contigs []ContigV1   `json:"contigs"`
	Suspect []string     `json:"incompatibility_suspects,omitempty"`
	PLSDB   *PLSDBColsV1 `json:"plsdb,omitempty"`
}

// PLSDBColsV1 names the metadata columns carried by ContigV1.PLSDBMeta.
type PLSDBColsV1 struct {
	Columns []string `json:"columns"`
}

// ContigV1 is one summary row.
type ContigV1 struct {
	Contig     string   `json:"contig"`
	Length     int      `json:"length"`
	Circular   bool     `json:"circular"`
	DepthShort *DepthV1 `json:"depth_short,omitempty"`
	DepthLong  *DepthV1 `json:"depth_long,omitempty"`
	PLSDBHit   bool     `json:"plsdb_hit"`
	Accession  string   `json:"plsdb_accession,omitempty"`
	Distance   float64  `json:"mash_distance,omitempty"`
	PValue     float64  `json:"mash_pval,omitempty"`
	Hashes     string   `json:"mash_matching_hashes,omitempty"`
	PLSDBMeta  []string `json:"plsdb_meta,omitempty"`
}

// DepthV1 is the depth of one read set over a contig.
type DepthV1 struct {
	Mean       float64 `json:"mean"`
	SD         float64 `json:"sd"`
	CopyNumber float64 `json:"copy_number"`
}
