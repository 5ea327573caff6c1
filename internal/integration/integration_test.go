// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plassembler/internal/layout"
	"plassembler/internal/seqfile"
	"plassembler/internal/tool/tooltest"
	"plassembler/internal/version"
	"plassembler/pkg/api"
)

func run(t *testing.T, f *tooltest.Fake, argv ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := env(f).RunContext(context.Background(), argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRunEndToEnd(t *testing.T) {
	fx := newFixtures(t)
	f := defaultWorld().fake()
	code, out, errOut := run(t, f, "run",
		"-d", fx.db, "-l", fx.long, "-1", fx.r1, "-2", fx.r2,
		"-o", fx.out, "-c", "100", "-t", "2", "--keep_fastqs")
	require.Equal(t, 0, code, errOut)

	l := layout.New(fx.out)
	recs, err := seqfile.ReadFASTA(l.PlasmidsFasta("plassembler"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "1", recs[0].ID)
	assert.Equal(t, "len=50 plasmid_copy_number_short=2.50x plasmid_copy_number_long=2.50x circular=true", recs[0].Desc)

	tsv, err := os.ReadFile(l.SummaryTSV("plassembler"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(tsv)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "contig\tlength\tplasmid_copy_number_short\tplasmid_copy_number_long"))
	assert.True(t, strings.HasPrefix(lines[1], "chromosome_1\t200\t1.00\t1.00\tcircular\tfalse"))
	assert.Contains(t, lines[2], testAccession+"\tTest plasmid pT")

	b, err := os.ReadFile(l.SummaryJSON("plassembler"))
	require.NoError(t, err)
	var sum api.SummaryV1
	require.NoError(t, json.Unmarshal(b, &sum))
	assert.Equal(t, "run", sum.Mode)
	assert.Equal(t, version.Version, sum.Version)
	assert.NotEmpty(t, sum.RunID)
	assert.Empty(t, sum.Suspect)

	assert.True(t, exists(l.PlasmidsGFA("plassembler")))
	assert.True(t, exists(l.Path(layout.KeptFastqsDir, "plasmids_long.fastq")))
	assert.False(t, exists(l.Path(layout.LongSAM)))
	assert.False(t, exists(l.Path(layout.UnicyclerDir)))
	assert.False(t, exists(l.Path(layout.FlyeDir)))
	logs, _ := filepath.Glob(filepath.Join(fx.out, "plassembler_*.log"))
	assert.Len(t, logs, 1)

	assert.Contains(t, out, testAccession)
	assert.Len(t, f.Calls("unicycler"), 2) // version check + assembly
}

func TestRunUnicyclerFindsNothing(t *testing.T) {
	fx := newFixtures(t)
	w := defaultWorld()
	w.unicyclerFails = true
	code, _, errOut := run(t, w.fake(), "run",
		"-d", fx.db, "-l", fx.long, "-1", fx.r1, "-2", fx.r2, "-o", fx.out, "-c", "100")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "No plasmids found")

	l := layout.New(fx.out)
	for _, p := range []string{l.PlasmidsFasta("plassembler"), l.PlasmidsGFA("plassembler"), l.SummaryTSV("plassembler")} {
		fi, err := os.Stat(p)
		require.NoError(t, err)
		assert.Zero(t, fi.Size(), p)
	}
}

func TestRunNoChromosome(t *testing.T) {
	fx := newFixtures(t)
	argv := []string{"run", "-d", fx.db, "-l", fx.long, "-1", fx.r1, "-2", fx.r2, "-o", fx.out, "-c", "1000"}
	code, _, errOut := run(t, defaultWorld().fake(), argv...)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "No chromosome was identified")

	l := layout.New(fx.out)
	for _, p := range []string{l.PlasmidsFasta("plassembler"), l.PlasmidsGFA("plassembler"), l.SummaryTSV("plassembler")} {
		fi, err := os.Stat(p)
		require.NoError(t, err)
		assert.Zero(t, fi.Size(), p)
	}

	code, _, _ = run(t, defaultWorld().fake(), append(argv, "-f", "--no-chromosome-exit-code", "5")...)
	assert.Equal(t, 5, code)
}

func TestRunChromosomeOnly(t *testing.T) {
	fx := newFixtures(t)
	w := defaultWorld()
	w.noPlasmid = true
	f := w.fake()
	code, _, errOut := run(t, f, "run",
		"-d", fx.db, "-l", fx.long, "-1", fx.r1, "-2", fx.r2, "-o", fx.out, "-c", "100")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "Only one contig was assembled")

	for _, c := range f.Calls("samtools") {
		assert.False(t, tooltest.Has(c.Args, "-L"), "no plasmid BED without plasmid contigs: %v", c.Args)
	}
	assert.Len(t, f.Calls("unicycler"), 2)

	recs, err := seqfile.ReadFASTA(layout.New(fx.out).PlasmidsFasta("plassembler"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "len=50 plasmid_copy_number_short=2.50x plasmid_copy_number_long=2.50x circular=true", recs[0].Desc)
}

func TestRunWithRaven(t *testing.T) {
	fx := newFixtures(t)
	f := defaultWorld().fake()
	code, _, errOut := run(t, f, "run", "--use_raven", "--keep_chromosome",
		"-d", fx.db, "-l", fx.long, "-1", fx.r1, "-2", fx.r2, "-o", fx.out, "-c", "100")
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, f.Calls("flye"))
	l := layout.New(fx.out)
	assert.True(t, exists(l.ChromosomeFasta("plassembler")))
	assert.True(t, exists(l.Path(layout.RavenDir)))
}

func TestLongEndToEnd(t *testing.T) {
	fx := newFixtures(t)
	f := defaultWorld().fake()
	code, out, errOut := run(t, f, "long", "-d", fx.db, "-l", fx.long, "-o", fx.out, "-c", "100")
	require.Equal(t, 0, code, errOut)

	var q string
	for _, c := range f.Calls("chopper") {
		if v := tooltest.Flag(c.Args, "-q"); v != "" {
			q = v
		}
	}
	assert.Equal(t, "15", q)
	assert.Empty(t, f.Calls("unicycler"))
	assert.Empty(t, f.Calls("fastp"))

	recs, err := seqfile.ReadFASTA(layout.New(fx.out).PlasmidsFasta("plassembler"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "len=50 plasmid_copy_number_long=2.50x circular=true", recs[0].Desc)
	assert.Contains(t, out, testAccession)
}

func TestLongOnlyChromosome(t *testing.T) {
	fx := newFixtures(t)
	w := defaultWorld()
	w.noPlasmid = true
	code, _, _ := run(t, w.fake(), "long", "-d", fx.db, "-l", fx.long, "-o", fx.out, "-c", "100")
	assert.Equal(t, 1, code)
}

func TestLongSkipsIncompatibility(t *testing.T) {
	fx := newFixtures(t)
	w := defaultWorld()
	w.plasmidDepth = 5
	w.noHits = true
	code, out, errOut := run(t, w.fake(), "long", "-d", fx.db, "-l", fx.long, "-o", fx.out, "-c", "100")
	require.Equal(t, 0, code, errOut)
	assert.NotContains(t, errOut, "copy number below 1")
	assert.NotContains(t, out, "possible incompatibility")

	b, err := os.ReadFile(layout.New(fx.out).SummaryJSON("plassembler"))
	require.NoError(t, err)
	var sum api.SummaryV1
	require.NoError(t, json.Unmarshal(b, &sum))
	require.Len(t, sum.Contigs, 2)
	assert.False(t, sum.Contigs[1].PLSDBHit)
	assert.Empty(t, sum.Suspect)
}

func TestAssembledLongOnly(t *testing.T) {
	fx := newFixtures(t)
	chrom := filepath.Join(fx.dir, "chrom.fasta")
	plas := filepath.Join(fx.dir, "plas.fasta")
	must(t, tooltest.WriteFile(chrom, ">NC_1 my chromosome\n"+seq(200)+"\n"))
	must(t, tooltest.WriteFile(plas, ">1\n"+seq(40)+"\n>2\n"+seq(30)+"\n"))

	w := defaultWorld()
	w.plasmidDepth = 5 // copy number 0.5
	f := w.fake()
	code, _, errOut := run(t, f, "assembled", "-d", fx.db, "-l", fx.long, "-o", fx.out,
		"--input_chromosome", chrom, "--input_plasmids", plas, "--skip_qc")
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, f.Calls("flye"))

	b, err := os.ReadFile(layout.New(fx.out).SummaryJSON("plassembler"))
	require.NoError(t, err)
	var sum api.SummaryV1
	require.NoError(t, json.Unmarshal(b, &sum))
	require.Len(t, sum.Contigs, 3)
	assert.Equal(t, "chromosome_1", sum.Contigs[0].Contig)
	// contig 1 has a PLSDB hit; contig 2 has none and low copy number
	assert.Equal(t, []string{"2"}, sum.Suspect)
	assert.Contains(t, errOut, "copy number below 1")
}

func TestAssembledLoneShortMate(t *testing.T) {
	fx := newFixtures(t)
	code, _, errOut := run(t, defaultWorld().fake(), "assembled", "-d", fx.db, "-1", fx.r1, "-o", fx.out,
		"--input_chromosome", fx.long, "--input_plasmids", fx.long)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "-1 and -2")
}

func TestUsageErrors(t *testing.T) {
	fx := newFixtures(t)
	cases := [][]string{
		{"frobnicate"},
		{"run", "-d", fx.db, "-l", fx.long, "-o", fx.out},
		{"run", "--no-such-flag"},
		{"long", "-d", fx.db, "-l", fx.long, "-o", fx.out, "--pacbio_model", "nanopore"},
	}
	for _, argv := range cases {
		code, _, _ := run(t, defaultWorld().fake(), argv...)
		if code != 2 {
			t.Fatalf("%v: want exit 2, got %d", argv, code)
		}
	}
}

func TestOutdirExists(t *testing.T) {
	fx := newFixtures(t)
	must(t, os.MkdirAll(fx.out, 0o755))
	code, _, errOut := run(t, defaultWorld().fake(), "long", "-d", fx.db, "-l", fx.long, "-o", fx.out)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "already exists")
}

func TestMissingDatabase(t *testing.T) {
	fx := newFixtures(t)
	code, _, errOut := run(t, defaultWorld().fake(), "long", "-d", filepath.Join(fx.dir, "nope"), "-l", fx.long, "-o", fx.out)
	assert.Equal(t, 3, code)
	assert.Contains(t, errOut, "not installed")
}

func TestConfigFile(t *testing.T) {
	fx := newFixtures(t)
	cfg := filepath.Join(fx.dir, "cfg.yaml")
	must(t, os.WriteFile(cfg, []byte("chromosome: 100\nprefix: sample\n"), 0o644))
	code, _, errOut := run(t, defaultWorld().fake(), "long", "-d", fx.db, "-l", fx.long, "-o", fx.out, "--config", cfg)
	require.Equal(t, 0, code, errOut)
	assert.True(t, exists(layout.New(fx.out).SummaryTSV("sample")))
}

func TestVersionAndCitation(t *testing.T) {
	code, out, _ := run(t, tooltest.New(), "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "plassembler version "+version.Version+"\n", out)

	code, out, _ = run(t, tooltest.New(), "citation")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Plassembler: an automated bacterial plasmid assembly tool")
}
