package mapping

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/sam"
	"go.uber.org/multierr"

	"plassembler/internal/contigs"
	"plassembler/internal/runutil"
)

// BinCounts summarises a long-read binning pass.
type BinCounts struct {
	Reads    int // distinct reads seen
	Plasmid  int // written to the plasmid bin
	MultiMap int // mapped to both chromosome and plasmid
	NoSeq    int // plasmid reads skipped for lack of a primary record with sequence
}

// readGroup collects the alignments of one read.
type readGroup struct {
	name     string
	primary  *sam.Record
	chrom    bool
	plasmid  bool
	unmapped bool
}

func (g *readGroup) add(rec *sam.Record) {
	switch {
	case rec.Flags&sam.Unmapped != 0 || rec.Ref == nil:
		g.unmapped = true
	case contigs.IsPlasmid(rec.Ref.Name()):
		g.plasmid = true
	case contigs.IsChromosome(rec.Ref.Name()):
		g.chrom = true
	}
	if g.primary == nil && rec.Flags&(sam.Secondary|sam.Supplementary) == 0 && rec.Seq.Length > 0 {
		g.primary = rec
	}
}

// toPlasmid: unmapped reads and reads touching any plasmid contig.
func (g *readGroup) toPlasmid() bool { return g.unmapped || g.plasmid }

func (g *readGroup) multiMapped() bool { return g.chrom && g.plasmid }

// BinLongReads splits the long-read SAM into plasmid reads (plasmidOut) and
// reads mapping to both chromosome and plasmid (multiOut). Alignments of one
// read must be adjacent, as minimap2 emits them. Each read is written at most once.
func BinLongReads(samPath, plasmidOut, multiOut string) (counts BinCounts, err error) {
	f, err := os.Open(samPath)
	if err != nil {
		return counts, err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	sr, err := sam.NewReader(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		return counts, fmt.Errorf("read SAM header: %w", err)
	}

	pf, err := os.Create(plasmidOut)
	if err != nil {
		return counts, err
	}
	defer func() { err = multierr.Append(err, pf.Close()) }()
	mf, err := os.Create(multiOut)
	if err != nil {
		return counts, err
	}
	defer func() { err = multierr.Append(err, mf.Close()) }()
	pw := bufio.NewWriterSize(pf, 1<<20)
	mw := bufio.NewWriterSize(mf, 1<<20)

	seen := runutil.NewSeenSet[string](0)
	var cur *readGroup
	flush := func() error {
		if cur == nil || seen.Seen(cur.name) {
			return nil
		}
		counts.Reads++
		if !cur.toPlasmid() {
			return nil
		}
		if cur.primary == nil {
			counts.NoSeq++
			return nil
		}
		counts.Plasmid++
		if err := writeFASTQ(pw, cur.primary); err != nil {
			return err
		}
		if cur.multiMapped() {
			counts.MultiMap++
			return writeFASTQ(mw, cur.primary)
		}
		return nil
	}

	for {
		rec, rerr := sr.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return counts, fmt.Errorf("read SAM record: %w", rerr)
		}
		if cur == nil || rec.Name != cur.name {
			if err := flush(); err != nil {
				return counts, err
			}
			cur = &readGroup{name: rec.Name}
		}
		cur.add(rec)
	}
	if err := flush(); err != nil {
		return counts, err
	}
	if err := pw.Flush(); err != nil {
		return counts, err
	}
	return counts, mw.Flush()
}

var complement = [256]byte{
	'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A', 'N': 'N',
	'a': 't', 'c': 'g', 'g': 'c', 't': 'a', 'n': 'n',
}

// missingQual is written when the record carries no base qualities.
const missingQual = '?'

// writeFASTQ restores the original read orientation of rec before writing.
func writeFASTQ(w *bufio.Writer, rec *sam.Record) error {
	seq := rec.Seq.Expand()
	qual := make([]byte, len(seq))
	hasQual := len(rec.Qual) == len(seq) && (len(rec.Qual) == 0 || rec.Qual[0] != 0xff)
	for i := range qual {
		if hasQual {
			qual[i] = rec.Qual[i] + 33
		} else {
			qual[i] = missingQual
		}
	}
	if rec.Flags&sam.Reverse != 0 {
		n := len(seq)
		rc := make([]byte, n)
		for i, b := range seq {
			c := complement[b]
			if c == 0 {
				c = 'N'
			}
			rc[n-1-i] = c
		}
		seq = rc
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			qual[i], qual[j] = qual[j], qual[i]
		}
	}
	_, err := fmt.Fprintf(w, "@%s\n%s\n+\n%s\n", rec.Name, seq, qual)
	return err
}
