// Package qc filters long reads with chopper and trims short reads with fastp.
package qc

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/multierr"

	"plassembler/internal/layout"
	"plassembler/internal/seqfile"
	"plassembler/internal/tool"
)

// Bases cropped from both read ends before length/quality filtering.
const cropBases = 25

type ChopperOptions struct {
	Input      string
	Outdir     string
	MinLength  int
	MinQuality int
	Threads    int
}

// Chopper streams the (optionally gzipped) long reads through chopper and
// writes the gzipped survivors to chopper_long_reads.fastq.gz.
func Chopper(ctx context.Context, r tool.Runner, o ChopperOptions) (err error) {
	in, err := seqfile.Open(o.Input)
	if err != nil {
		return fmt.Errorf("open long reads: %w", err)
	}
	defer func() { err = multierr.Append(err, in.Close()) }()

	out, err := os.Create(layout.New(o.Outdir).Path(layout.FilteredLong))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, out.Close()) }()
	zw := gzip.NewWriter(out)

	err = r.Run(ctx, tool.Command{
		Name: "chopper",
		Args: []string{
			"-q", strconv.Itoa(o.MinQuality),
			"--threads", strconv.Itoa(o.Threads),
			"-l", strconv.Itoa(o.MinLength),
			"--headcrop", strconv.Itoa(cropBases),
			"--tailcrop", strconv.Itoa(cropBases),
		},
		Stdin:  in,
		Stdout: zw,
	})
	if err != nil {
		return err
	}
	return zw.Close()
}

// SkipChopper copies the long reads unfiltered (--skip_qc).
func SkipChopper(input, outdir string) error {
	return seqfile.CopyGzipped(input, layout.New(outdir).Path(layout.FilteredLong))
}

// Fastp trims a short-read pair into trimmed_R1.fastq / trimmed_R2.fastq.
func Fastp(ctx context.Context, r tool.Runner, r1, r2, outdir string, threads int) error {
	l := layout.New(outdir)
	return r.Run(ctx, tool.Command{
		Name: "fastp",
		Args: []string{
			"--in1", r1, "--in2", r2,
			"--out1", l.Path(layout.TrimmedR1), "--out2", l.Path(layout.TrimmedR2),
			"--json", l.Path(layout.FastpJSON), "--html", l.Path(layout.FastpHTML),
			"--thread", strconv.Itoa(threads),
		},
	})
}

// SkipFastp decompresses/copies the short reads untrimmed (--skip_qc).
func SkipFastp(r1, r2, outdir string) error {
	l := layout.New(outdir)
	if err := seqfile.CopyFASTQ(r1, l.Path(layout.TrimmedR1)); err != nil {
		return fmt.Errorf("copy R1: %w", err)
	}
	if err := seqfile.CopyFASTQ(r2, l.Path(layout.TrimmedR2)); err != nil {
		return fmt.Errorf("copy R2: %w", err)
	}
	return nil
}
