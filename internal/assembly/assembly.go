// Package assembly wraps the long-read assemblers (Flye, Raven) and the hybrid
// plasmid assembler (Unicycler).
package assembly

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"plassembler/internal/layout"
	"plassembler/internal/seqfile"
	"plassembler/internal/tool"
)

// FlyeReadType picks Flye's read-type flag. A PacBio model wins over --raw_flag.
func FlyeReadType(raw bool, pacbioFlag string) string {
	switch {
	case pacbioFlag != "":
		return pacbioFlag
	case raw:
		return "--nano-raw"
	default:
		return "--nano-hq"
	}
}

// Flye assembles the filtered long reads into flye_output/.
func Flye(ctx context.Context, r tool.Runner, outdir string, threads int, raw bool, pacbioFlag string) error {
	l := layout.New(outdir)
	return r.Run(ctx, tool.Command{
		Name: "flye",
		Args: []string{
			FlyeReadType(raw, pacbioFlag), l.Path(layout.FilteredLong),
			"--out-dir", l.Path(layout.FlyeDir),
			"--threads", strconv.Itoa(threads),
		},
	})
}

// Raven assembles the filtered long reads into raven_output/assembly.fasta.
func Raven(ctx context.Context, r tool.Runner, outdir string, threads int) error {
	l := layout.New(outdir)
	dir := l.Path(layout.RavenDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return tool.RunToFile(ctx, r, tool.Command{
		Name: "raven",
		Args: []string{
			"-t", strconv.Itoa(threads),
			"--graphical-fragment-assembly", filepath.Join(dir, layout.AssemblyGFA),
			l.Path(layout.FilteredLong),
		},
	}, filepath.Join(dir, layout.AssemblyFasta))
}

// UnicyclerInput is the read set for the hybrid plasmid assembly.
type UnicyclerInput struct {
	R1, R2, Long string
}

// Unicycler runs a hybrid assembly of the plasmid-binned reads into dir.
func Unicycler(ctx context.Context, r tool.Runner, in UnicyclerInput, dir string, threads int) error {
	return r.Run(ctx, tool.Command{
		Name: "unicycler",
		Args: []string{
			"-1", in.R1, "-2", in.R2, "-l", in.Long,
			"-t", strconv.Itoa(threads),
			"-o", dir,
		},
	})
}

// UnicyclerSucceeded reports whether dir holds a non-empty assembly.fasta.
func UnicyclerSucceeded(dir string) bool {
	recs, err := seqfile.ReadFASTA(filepath.Join(dir, layout.AssemblyFasta))
	return err == nil && len(recs) > 0
}
