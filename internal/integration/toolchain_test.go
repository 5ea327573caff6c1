package integration

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"plassembler/internal/app"
	"plassembler/internal/contigs"
	"plassembler/internal/db"
	"plassembler/internal/seqfile"
	"plassembler/internal/tool"
	"plassembler/internal/tool/tooltest"
)

// world scripts what the fake external tools "assemble".
type world struct {
	chromLen       int
	plasmidLen     int
	noPlasmid      bool // assembler returns only the chromosome
	unicyclerFails bool
	noHits         bool // mash finds nothing in PLSDB
	plasmidDepth   int  // chromosome depth is 10
}

func defaultWorld() world {
	return world{chromLen: 200, plasmidLen: 50, plasmidDepth: 25}
}

const testAccession = "NZ_TEST.1"

func seq(n int) string { return strings.Repeat("ACGT", n/4+1)[:n] }

func (w world) assemblyFASTA() string {
	s := ">contig_1\n" + seq(w.chromLen) + "\n"
	if !w.noPlasmid {
		s += ">contig_2\n" + seq(w.plasmidLen) + "\n"
	}
	return s
}

// versioned answers "<tool> --version" before dispatching to h.
func versioned(h tooltest.Handler) tooltest.Handler {
	return func(c tool.Command) error {
		if tooltest.Has(c.Args, "--version") {
			_, err := io.WriteString(c.Stdout, "9.9.9\n")
			return err
		}
		if h == nil {
			return nil
		}
		return h(c)
	}
}

func (w world) fake() *tooltest.Fake {
	f := tooltest.New()
	f.On("chopper", versioned(func(c tool.Command) error {
		_, err := io.Copy(c.Stdout, c.Stdin)
		return err
	}))
	f.On("fastp", versioned(func(c tool.Command) error {
		if err := seqfile.CopyFASTQ(tooltest.Flag(c.Args, "--in1"), tooltest.Flag(c.Args, "--out1")); err != nil {
			return err
		}
		return seqfile.CopyFASTQ(tooltest.Flag(c.Args, "--in2"), tooltest.Flag(c.Args, "--out2"))
	}))
	f.On("flye", versioned(func(c tool.Command) error {
		dir := tooltest.Flag(c.Args, "--out-dir")
		if err := tooltest.WriteFile(filepath.Join(dir, "assembly.fasta"), w.assemblyFASTA()); err != nil {
			return err
		}
		info := "#seq_name\tlength\tcov.\tcirc.\trepeat\tmult.\talt_group\tgraph_path\n" +
			fmt.Sprintf("contig_1\t%d\t10\tY\tN\t1\t*\t1\n", w.chromLen)
		if !w.noPlasmid {
			info += fmt.Sprintf("contig_2\t%d\t25\tY\tN\t1\t*\t2\n", w.plasmidLen)
		}
		return tooltest.WriteFile(filepath.Join(dir, "assembly_info.txt"), info)
	}))
	f.On("raven", versioned(func(c tool.Command) error {
		_, err := io.WriteString(c.Stdout, w.assemblyFASTA())
		return err
	}))
	f.On("minimap2", versioned(func(c tool.Command) error {
		ref := c.Args[4]
		sam := "@HD\tVN:1.6\tSO:unsorted\n"
		if !strings.HasSuffix(ref, "flye_renamed.fasta") {
			_, err := io.WriteString(c.Stdout, sam)
			return err
		}
		sam += fmt.Sprintf("@SQ\tSN:%s1\tLN:%d\n", contigs.ChromosomePrefix, w.chromLen)
		if !w.noPlasmid {
			sam += fmt.Sprintf("@SQ\tSN:%s1\tLN:%d\n", contigs.PlasmidPrefix, w.plasmidLen)
		}
		sam += "r1\t0\tchromosome_1\t1\t60\t4M\t*\t0\t0\tACGT\tIIII\n" +
			"r2\t4\t*\t0\t0\t*\t*\t0\t0\tACGT\tIIII\n"
		if !w.noPlasmid {
			sam += "r3\t0\tplasmid_1\t1\t60\t4M\t*\t0\t0\tACGT\tIIII\n"
		}
		_, err := io.WriteString(c.Stdout, sam)
		return err
	}))
	f.On("samtools", versioned(func(c tool.Command) error {
		switch c.Args[0] {
		case "fastq":
			if err := tooltest.WriteFile(tooltest.Flag(c.Args, "-1"), "@s/1\nACGT\n+\nIIII\n"); err != nil {
				return err
			}
			return tooltest.WriteFile(tooltest.Flag(c.Args, "-2"), "@s/2\nACGT\n+\nIIII\n")
		case "depth":
			bam := c.Args[len(c.Args)-1]
			recs, err := seqfile.ReadFASTA(filepath.Join(filepath.Dir(bam), "combined.fasta"))
			if err != nil {
				return err
			}
			for _, r := range recs {
				d := w.plasmidDepth
				if contigs.IsChromosome(r.ID) {
					d = 10
				}
				for i := 1; i <= r.Len(); i++ {
					if _, err := fmt.Fprintf(c.Stdout, "%s\t%d\t%d\n", r.ID, i, d); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}))
	f.On("unicycler", versioned(func(c tool.Command) error {
		if w.unicyclerFails {
			return fmt.Errorf("exit status 1")
		}
		dir := tooltest.Flag(c.Args, "-o")
		fa := fmt.Sprintf(">1 length=%d depth=2.50x circular=true\n%s\n", w.plasmidLen, seq(w.plasmidLen))
		if err := tooltest.WriteFile(filepath.Join(dir, "assembly.fasta"), fa); err != nil {
			return err
		}
		return tooltest.WriteFile(filepath.Join(dir, "assembly.gfa"), "S\t1\t"+seq(w.plasmidLen)+"\n")
	}))
	f.On("mash", versioned(func(c tool.Command) error {
		if c.Args[0] == "dist" && !w.noHits {
			_, err := io.WriteString(c.Stdout, "1\t"+testAccession+"\t0.005\t0\t990/1000\n")
			return err
		}
		return nil
	}))
	return f
}

func env(f *tooltest.Fake) app.Env {
	e := app.DefaultEnv()
	e.NewRunner = func(string, *zap.Logger) tool.Runner { return f }
	e.LookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	return e
}

// fixtures writes reads and a PLSDB directory into a temp dir.
type fixtures struct {
	dir, db, long, r1, r2, out string
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()
	dir := t.TempDir()
	fx := fixtures{
		dir:  dir,
		db:   filepath.Join(dir, "plsdb"),
		long: filepath.Join(dir, "long.fastq"),
		r1:   filepath.Join(dir, "r1.fastq"),
		r2:   filepath.Join(dir, "r2.fastq"),
		out:  filepath.Join(dir, "out"),
	}
	must(t, tooltest.WriteFile(fx.long, "@r1\nACGTACGT\n+\nIIIIIIII\n"))
	must(t, tooltest.WriteFile(fx.r1, "@s/1\nACGT\n+\nIIII\n"))
	must(t, tooltest.WriteFile(fx.r2, "@s/2\nACGT\n+\nIIII\n"))
	must(t, tooltest.WriteFile(filepath.Join(fx.db, db.SketchName), "sketch"))
	must(t, tooltest.WriteFile(filepath.Join(fx.db, db.MetadataName),
		"NUCCORE_ACC\tNUCCORE_Description\n"+testAccession+"\tTest plasmid pT\nNZ_OTHER.1\tOther\n"))
	return fx
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
