package mapping

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"plassembler/internal/layout"
	"plassembler/internal/seqfile"
	"plassembler/internal/tool"
)

func samtools(ctx context.Context, r tool.Runner, log string, args ...string) error {
	return r.Run(ctx, tool.Command{Name: "samtools", Args: args, Log: log})
}

// bamToPairs extracts read pairs from bam, dropping singletons and other reads.
func bamToPairs(ctx context.Context, r tool.Runner, bam, r1, r2 string, threads int) error {
	return samtools(ctx, r, "samtools_fastq",
		"fastq", "-@", strconv.Itoa(threads), bam,
		"-1", r1, "-2", r2, "-0", "/dev/null", "-s", "/dev/null", "-n")
}

// SplitShortReads converts short_read.sam into the pairs Unicycler assembles:
// every unmapped pair plus, when plasmid contigs exist, the pairs mapped to
// them (non_chromosome.bed). The result is short_read_concat_R{1,2}.fastq.
func SplitShortReads(ctx context.Context, r tool.Runner, outdir string, threads int, hasPlasmids bool) error {
	l := layout.New(outdir)
	t := strconv.Itoa(threads)
	bam := l.Path(layout.ShortBAM)
	if err := samtools(ctx, r, "samtools_view", "view", "-h", "-@", t, "-b", l.Path(layout.ShortSAM), "-o", bam); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out := l.Path(layout.UnmappedBAM)
		if err := samtools(gctx, r, "samtools_view", "view", "-b", "-h", "-f", "4", "-@", t, bam, "-o", out); err != nil {
			return err
		}
		return bamToPairs(gctx, r, out, l.Path(layout.UnmappedR1), l.Path(layout.UnmappedR2), threads)
	})
	if hasPlasmids {
		g.Go(func() error {
			out := l.Path(layout.MappedBAM)
			if err := samtools(gctx, r, "samtools_view", "view", "-b", "-h", "-L", l.Path(layout.NonChromBed), "-@", t, bam, "-o", out); err != nil {
				return err
			}
			return bamToPairs(gctx, r, out, l.Path(layout.MappedR1), l.Path(layout.MappedR2), threads)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r1 := []string{l.Path(layout.UnmappedR1)}
	r2 := []string{l.Path(layout.UnmappedR2)}
	if hasPlasmids {
		r1 = append(r1, l.Path(layout.MappedR1))
		r2 = append(r2, l.Path(layout.MappedR2))
	}
	if err := seqfile.Concat(l.Path(layout.ConcatR1), r1...); err != nil {
		return err
	}
	return seqfile.Concat(l.Path(layout.ConcatR2), r2...)
}
