// Package contigs loads long-read assemblies and separates the chromosome from
// candidate plasmid contigs.
package contigs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"plassembler/internal/layout"
	"plassembler/internal/seqfile"
)

// Reference-name prefixes used in flye_renamed.fasta and combined.fasta.
const (
	ChromosomePrefix = "chromosome_"
	PlasmidPrefix    = "plasmid_"
)

// Contig is one assembled sequence.
type Contig struct {
	ID       string
	Length   int
	Circular bool
	Seq      []byte
}

// IsChromosome reports whether a reference name denotes a chromosome contig.
func IsChromosome(name string) bool { return strings.HasPrefix(name, ChromosomePrefix) }

// IsPlasmid reports whether a reference name denotes a plasmid contig in the renamed assembly.
func IsPlasmid(name string) bool { return strings.HasPrefix(name, PlasmidPrefix) }

// LoadFlye reads flye_output/assembly.fasta and takes circularity from assembly_info.txt.
// A missing info file leaves every contig linear.
func LoadFlye(dir string) ([]Contig, error) {
	recs, err := seqfile.ReadFASTA(filepath.Join(dir, layout.AssemblyFasta))
	if err != nil {
		return nil, fmt.Errorf("read flye assembly: %w", err)
	}
	circ := map[string]bool{}
	f, err := os.Open(filepath.Join(dir, layout.FlyeInfo))
	switch {
	case err == nil:
		circ, err = ParseFlyeInfo(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", layout.FlyeInfo, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	out := make([]Contig, 0, len(recs))
	for _, r := range recs {
		out = append(out, Contig{ID: r.ID, Length: r.Len(), Circular: circ[r.ID], Seq: r.Seq})
	}
	return out, nil
}

// ParseFlyeInfo maps contig name to circularity from Flye's assembly_info.txt.
func ParseFlyeInfo(r io.Reader) (map[string]bool, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	out := map[string]bool{}
	circCol := 3
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if strings.HasPrefix(line, "#") {
			for i, f := range fields {
				if strings.TrimSpace(f) == "circ." {
					circCol = i
				}
			}
			continue
		}
		if len(fields) <= circCol {
			return nil, fmt.Errorf("short line %q", line)
		}
		out[fields[0]] = strings.TrimSpace(fields[circCol]) == "Y"
	}
	return out, sc.Err()
}

// LoadRaven reads raven_output/assembly.fasta. Raven marks circular unitigs with XO:i:1.
func LoadRaven(dir string) ([]Contig, error) {
	recs, err := seqfile.ReadFASTA(filepath.Join(dir, layout.AssemblyFasta))
	if err != nil {
		return nil, fmt.Errorf("read raven assembly: %w", err)
	}
	out := make([]Contig, 0, len(recs))
	for _, r := range recs {
		circular := false
		for _, tag := range strings.Fields(r.Desc) {
			if tag == "XO:i:1" {
				circular = true
			}
		}
		out = append(out, Contig{ID: r.ID, Length: r.Len(), Circular: circular, Seq: r.Seq})
	}
	return out, nil
}

// Load dispatches on the assembler used.
func Load(outdir string, useRaven bool) ([]Contig, error) {
	dir := layout.New(outdir).AssemblerDir(useRaven)
	if useRaven {
		return LoadRaven(dir)
	}
	return LoadFlye(dir)
}
