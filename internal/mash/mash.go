// Package mash sketches plasmid contigs and finds their closest PLSDB entries.
package mash

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"plassembler/internal/layout"
	"plassembler/internal/tool"
)

// Hits further than this, or less significant, are not reported by mash dist.
const (
	MaxDistance = "0.1"
	MaxPValue   = "0.1"
)

// Hit is one mash dist row. Contig is the sketched plasmid, Accession the PLSDB entry.
type Hit struct {
	Contig         string
	Accession      string
	Distance       float64
	PValue         float64
	MatchingHashes string
}

// Sketch writes <outdir>/sketch.msh with one sketch per sequence of fasta.
func Sketch(ctx context.Context, r tool.Runner, fasta, outdir string) error {
	return r.Run(ctx, tool.Command{
		Name: "mash",
		Args: []string{"sketch", fasta, "-i", "-o", layout.New(outdir).Path(layout.Sketch)},
		Log:  "mash_sketch",
	})
}

// Dist compares sketch.msh against the PLSDB sketch and writes mash.tsv.
func Dist(ctx context.Context, r tool.Runner, outdir, dbSketch string) error {
	l := layout.New(outdir)
	return tool.RunToFile(ctx, r, tool.Command{
		Name: "mash",
		Args: []string{"dist", l.SketchFile(), dbSketch, "-v", MaxPValue, "-d", MaxDistance, "-i"},
		Log:  "mash_dist",
	}, l.Path(layout.MashTSV))
}

// ReadDist parses mash.tsv.
func ReadDist(path string) (_ []Hit, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return ParseDist(f)
}

func ParseDist(r io.Reader) ([]Hit, error) {
	var out []Hit
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		f := strings.Split(s, "\t")
		if len(f) < 5 {
			return nil, fmt.Errorf("mash line %d: want 5 columns, got %d", line, len(f))
		}
		d, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return nil, fmt.Errorf("mash line %d: distance: %w", line, err)
		}
		p, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			return nil, fmt.Errorf("mash line %d: p-value: %w", line, err)
		}
		out = append(out, Hit{Contig: f[0], Accession: f[1], Distance: d, PValue: p, MatchingHashes: f[4]})
	}
	return out, sc.Err()
}

// TopHits keeps the closest hit per contig; the first row wins a tie.
func TopHits(hits []Hit) map[string]Hit {
	best := make(map[string]Hit)
	for _, h := range hits {
		if cur, ok := best[h.Contig]; !ok || h.Distance < cur.Distance {
			best[h.Contig] = h
		}
	}
	return best
}
