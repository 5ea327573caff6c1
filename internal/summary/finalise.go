package summary

import (
	"fmt"
	"strings"

	"plassembler/internal/seqfile"
)

// Header is the FASTA description written for a plasmid.
func Header(r Row, longOnly bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "len=%d", r.Length)
	if !longOnly && r.HasShort {
		fmt.Fprintf(&b, " plasmid_copy_number_short=%.2fx", r.CopyShort)
	}
	if r.HasLong {
		fmt.Fprintf(&b, " plasmid_copy_number_long=%.2fx", r.CopyLong)
	}
	fmt.Fprintf(&b, " circular=%t", r.Circular)
	return b.String()
}

// FinaliseContigs rewrites the plasmid FASTA src to out with copy-number
// headers. Records without a summary row keep their original description.
func FinaliseContigs(src, out string, t Table, longOnly bool) error {
	recs, err := seqfile.ReadFASTA(src)
	if err != nil {
		return err
	}
	for i := range recs {
		if r, ok := t.Find(recs[i].ID); ok {
			recs[i].Desc = Header(r, longOnly)
		}
	}
	return seqfile.WriteFASTA(out, recs)
}
