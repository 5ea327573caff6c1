package writers

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func init() { RegisterSummary("table", WriteTable) }

// WriteTable renders a terminal table of the plasmids (chromosomes excluded).
func WriteTable(w io.Writer, r Report) error {
	t := r.Table
	short, long := t.HasShort(), t.HasLong()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := table.Row{"Contig", "Length"}
	if short {
		header = append(header, "Copy (short)")
	}
	if long {
		header = append(header, "Copy (long)")
	}
	header = append(header, "Circular", "PLSDB hit", "Mash distance")
	tw.AppendHeader(header)

	suspect := map[string]bool{}
	for _, s := range r.Suspect {
		suspect[s.Contig] = true
	}
	for _, row := range t.Plasmids() {
		name := row.Contig
		if suspect[name] {
			name += " *"
		}
		tr := table.Row{name, humanize.Comma(int64(row.Length))}
		if short {
			tr = append(tr, ff(row.CopyShort))
		}
		if long {
			tr = append(tr, ff(row.CopyLong))
		}
		hit, dist := "-", "-"
		if row.PLSDBHit {
			hit, dist = row.Hit.Accession, fg(row.Hit.Distance)
		}
		tr = append(tr, row.Circular, hit, dist)
		tw.AppendRow(tr)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	if len(r.Suspect) > 0 {
		tw.SetCaption("* possible incompatibility: no PLSDB hit and copy number below 1")
	}
	tw.Render()
	return nil
}
