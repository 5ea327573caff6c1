// internal/clibase/usage.go
package clibase

import (
	"fmt"
	"io"
	"strings"

	"plassembler/internal/version"
)

// Banner is the header shown by --help on every command.
func Banner(summary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "plassembler – %s\n\n", summary)
	fmt.Fprintln(&b, "Author:  George Bouras (george.bouras@adelaide.edu.au)")
	fmt.Fprintln(&b, "License: MIT")
	fmt.Fprintf(&b, "Version: %s\n", version.Version)
	fmt.Fprint(&b, "Home:    https://github.com/gbouras13/plassembler")
	return b.String()
}

const citation = `If you use plassembler, please cite:

George Bouras, Anna E. Sheppard, Vijini Mallawaarachchi, Sarah Vreugde,
Plassembler: an automated bacterial plasmid assembly tool,
Bioinformatics, Volume 39, Issue 7, July 2023, btad409,
https://doi.org/10.1093/bioinformatics/btad409

Please also cite the tools plassembler runs:
  Flye       Kolmogorov et al. (2019) https://doi.org/10.1038/s41587-019-0072-8
  Raven      Vaser & Šikić (2021) https://doi.org/10.1038/s43588-021-00073-4
  Unicycler  Wick et al. (2017) https://doi.org/10.1371/journal.pcbi.1005595
  minimap2   Li (2018) https://doi.org/10.1093/bioinformatics/bty191
  samtools   Danecek et al. (2021) https://doi.org/10.1093/gigascience/giab008
  mash       Ondov et al. (2016) https://doi.org/10.1186/s13059-016-0997-x
  chopper    De Coster & Rademakers (2023) https://doi.org/10.1093/bioinformatics/btad311
  fastp      Chen et al. (2018) https://doi.org/10.1093/bioinformatics/bty560
  PLSDB      Schmartz et al. (2022) https://doi.org/10.1093/nar/gkab1111
`

// PrintCitation writes the citation block to out.
func PrintCitation(out io.Writer) error {
	_, err := io.WriteString(out, citation)
	return err
}
