package contigs

import (
	"fmt"
	"io"
	"strconv"

	"plassembler/internal/layout"
	"plassembler/internal/seqfile"
)

// Classification splits an assembly at the chromosome length threshold.
// Input order is preserved within each group.
type Classification struct {
	Chromosomes []Contig
	Plasmids    []Contig
}

// Classify marks every contig longer than threshold as chromosome.
func Classify(all []Contig, threshold int) Classification {
	var c Classification
	for _, ct := range all {
		if ct.Length > threshold {
			c.Chromosomes = append(c.Chromosomes, ct)
		} else {
			c.Plasmids = append(c.Plasmids, ct)
		}
	}
	return c
}

func (c Classification) HasChromosome() bool { return len(c.Chromosomes) > 0 }

// Count is the number of assembled contigs.
func (c Classification) Count() int { return len(c.Chromosomes) + len(c.Plasmids) }

func describe(ct Contig) string {
	return "len=" + strconv.Itoa(ct.Length) + " circular=" + strconv.FormatBool(ct.Circular)
}

// ChromosomeRecords names chromosome contigs chromosome_1..n.
func (c Classification) ChromosomeRecords() []seqfile.Record {
	out := make([]seqfile.Record, 0, len(c.Chromosomes))
	for i, ct := range c.Chromosomes {
		out = append(out, seqfile.Record{ID: ChromosomePrefix + strconv.Itoa(i+1), Desc: describe(ct), Seq: ct.Seq})
	}
	return out
}

// PlasmidRecords names plasmid candidates 1..n.
func (c Classification) PlasmidRecords() []seqfile.Record {
	out := make([]seqfile.Record, 0, len(c.Plasmids))
	for i, ct := range c.Plasmids {
		out = append(out, seqfile.Record{ID: strconv.Itoa(i + 1), Desc: describe(ct), Seq: ct.Seq})
	}
	return out
}

// RenamedRecords is the mapping reference: chromosome_i then plasmid_i.
func (c Classification) RenamedRecords() []seqfile.Record {
	out := c.ChromosomeRecords()
	for i, ct := range c.Plasmids {
		out = append(out, seqfile.Record{ID: PlasmidPrefix + strconv.Itoa(i+1), Desc: describe(ct), Seq: ct.Seq})
	}
	return out
}

// WriteBED writes one interval per plasmid contig of the renamed assembly.
func (c Classification) WriteBED(w io.Writer) error {
	for i, ct := range c.Plasmids {
		if _, err := fmt.Fprintf(w, "%s%d\t0\t%d\n", PlasmidPrefix, i+1, ct.Length); err != nil {
			return err
		}
	}
	return nil
}

// Write materialises chromosome.fasta, plasmids_initial.fasta, flye_renamed.fasta
// and non_chromosome.bed in outdir.
func (c Classification) Write(outdir string) error {
	l := layout.New(outdir)
	if err := seqfile.WriteFASTA(l.Path(layout.Chromosome), c.ChromosomeRecords()); err != nil {
		return err
	}
	if err := seqfile.WriteFASTA(l.Path(layout.PlasmidsInitial), c.PlasmidRecords()); err != nil {
		return err
	}
	if err := seqfile.WriteFASTA(l.Path(layout.Renamed), c.RenamedRecords()); err != nil {
		return err
	}
	return seqfile.WriteWith(l.Path(layout.NonChromBed), c.WriteBED)
}
