// Package depth computes per-contig read depth and plasmid copy number.
package depth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"plassembler/internal/contigs"
	"plassembler/internal/layout"
	"plassembler/internal/mapping"
	"plassembler/internal/seqfile"
	"plassembler/internal/tool"
)

type Stats struct {
	Mean float64
	SD   float64
}

// Row is the depth summary of one contig. Copy numbers are relative to the
// length-weighted mean depth of the chromosome contigs.
type Row struct {
	Contig    string
	Length    int
	Circular  bool
	Short     Stats
	Long      Stats
	CopyShort float64
	CopyLong  float64
	HasShort  bool
	HasLong   bool
}

func (r Row) IsChromosome() bool { return contigs.IsChromosome(r.Contig) }

// Opts names the combined assembly and whichever read sets are available.
// Empty Long or R1/R2 skips that read set.
type Opts struct {
	Outdir      string
	Combined    string
	Long        string
	R1, R2      string
	PacbioModel string
	Threads     int
}

// Compute maps every available read set to the combined assembly, runs
// samtools depth and summarises each contig of the assembly.
func Compute(ctx context.Context, r tool.Runner, o Opts) ([]Row, error) {
	records, err := seqfile.ReadFASTA(o.Combined)
	if err != nil {
		return nil, fmt.Errorf("read combined assembly: %w", err)
	}
	l := layout.New(o.Outdir)
	var short, long map[string][]float64

	g, gctx := errgroup.WithContext(ctx)
	if o.Long != "" {
		g.Go(func() (err error) {
			sam := l.Path(layout.CombinedLong)
			if err := mapping.MinimapLong(gctx, r, o.Long, o.Combined, sam, o.Threads, o.PacbioModel); err != nil {
				return err
			}
			long, err = sortAndDepth(gctx, r, sam, l.Path(layout.SortedLong), l.Path(layout.DepthLong), o.Threads)
			return err
		})
	}
	if o.R1 != "" && o.R2 != "" {
		g.Go(func() (err error) {
			sam := l.Path(layout.CombinedShort)
			if err := mapping.MinimapShort(gctx, r, o.R1, o.R2, o.Combined, sam, o.Threads); err != nil {
				return err
			}
			short, err = sortAndDepth(gctx, r, sam, l.Path(layout.SortedShort), l.Path(layout.DepthShort), o.Threads)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Summarise(records, short, long), nil
}

func sortAndDepth(ctx context.Context, r tool.Runner, sam, bam, out string, threads int) (map[string][]float64, error) {
	err := r.Run(ctx, tool.Command{
		Name: "samtools",
		Args: []string{"sort", "-@", strconv.Itoa(threads), sam, "-o", bam},
		Log:  "samtools_sort",
	})
	if err != nil {
		return nil, err
	}
	err = tool.RunToFile(ctx, r, tool.Command{
		Name: "samtools",
		Args: []string{"depth", "-aa", bam},
		Log:  "samtools_depth",
	}, out)
	if err != nil {
		return nil, err
	}
	return ReadDepth(out)
}

// ReadDepth parses a samtools depth file.
func ReadDepth(path string) (_ map[string][]float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return ParseDepth(f)
}

// ParseDepth reads "contig<TAB>pos<TAB>depth" lines into per-contig depth vectors.
func ParseDepth(r io.Reader) (map[string][]float64, error) {
	out := make(map[string][]float64)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		s := sc.Text()
		if s == "" {
			continue
		}
		f := strings.Split(s, "\t")
		if len(f) < 3 {
			return nil, fmt.Errorf("depth line %d: want 3 columns, got %d", line, len(f))
		}
		d, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return nil, fmt.Errorf("depth line %d: %w", line, err)
		}
		out[f[0]] = append(out[f[0]], d)
	}
	return out, sc.Err()
}

// Summarise builds one row per record. A nil depth map means that read set
// was not used; contigs missing from a used map get zero depth.
func Summarise(records []seqfile.Record, short, long map[string][]float64) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			Contig:   rec.ID,
			Length:   rec.Len(),
			Circular: circularDesc(rec.Desc),
			HasShort: short != nil,
			HasLong:  long != nil,
		}
		if short != nil {
			row.Short = meanSD(short[rec.ID])
		}
		if long != nil {
			row.Long = meanSD(long[rec.ID])
		}
		rows = append(rows, row)
	}
	chromShort, chromLong := chromosomeDepth(rows)
	for i := range rows {
		rows[i].CopyShort = ratio(rows[i].Short.Mean, chromShort)
		rows[i].CopyLong = ratio(rows[i].Long.Mean, chromLong)
	}
	return rows
}

func meanSD(xs []float64) Stats {
	switch len(xs) {
	case 0:
		return Stats{}
	case 1:
		return Stats{Mean: xs[0]}
	}
	m, sd := stat.MeanStdDev(xs, nil)
	return Stats{Mean: m, SD: sd}
}

// chromosomeDepth is the length-weighted mean depth over chromosome rows.
func chromosomeDepth(rows []Row) (short, long float64) {
	var vs, vl, w []float64
	for _, r := range rows {
		if !r.IsChromosome() {
			continue
		}
		vs = append(vs, r.Short.Mean)
		vl = append(vl, r.Long.Mean)
		w = append(w, float64(r.Length))
	}
	if len(w) == 0 || floatsSum(w) == 0 {
		return 0, 0
	}
	return stat.Mean(vs, w), stat.Mean(vl, w)
}

func floatsSum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func ratio(x, chrom float64) float64 {
	if chrom == 0 {
		return 0
	}
	return x / chrom
}

// circularDesc recognises "circular=true" in Flye-renamed and Unicycler headers.
func circularDesc(desc string) bool {
	for _, f := range strings.Fields(desc) {
		if strings.EqualFold(f, "circular=true") {
			return true
		}
	}
	return false
}
