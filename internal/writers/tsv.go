package writers

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

func init() { RegisterSummary("tsv", WriteTSV) }

func ff(x float64) string { return strconv.FormatFloat(x, 'f', 2, 64) }

func fg(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }

// WriteTSV writes the summary table. Copy-number columns appear only for the
// read sets used in the run; PLSDB metadata columns follow the mash columns.
func WriteTSV(w io.Writer, r Report) error {
	t := r.Table
	bw := bufio.NewWriter(w)
	short, long := t.HasShort(), t.HasLong()

	cols := []string{"contig", "length"}
	if short {
		cols = append(cols, "plasmid_copy_number_short")
	}
	if long {
		cols = append(cols, "plasmid_copy_number_long")
	}
	cols = append(cols, "circularity", "PLSDB_hit", "mash_distance", "mash_pval", "mash_matching_hashes")
	cols = append(cols, t.MetaHeader...)
	bw.WriteString(strings.Join(cols, "\t") + "\n")

	for _, row := range t.Rows {
		f := []string{row.Contig, strconv.Itoa(row.Length)}
		if short {
			f = append(f, ff(row.CopyShort))
		}
		if long {
			f = append(f, ff(row.CopyLong))
		}
		f = append(f, circularity(row.Circular), strconv.FormatBool(row.PLSDBHit))
		if row.PLSDBHit {
			f = append(f, fg(row.Hit.Distance), fg(row.Hit.PValue), row.Hit.MatchingHashes)
		} else {
			f = append(f, "", "", "")
		}
		meta := make([]string, len(t.MetaHeader))
		copy(meta, row.Meta)
		f = append(f, meta...)
		bw.WriteString(strings.Join(f, "\t") + "\n")
	}
	return bw.Flush()
}

func circularity(c bool) string {
	if c {
		return "circular"
	}
	return "linear"
}
