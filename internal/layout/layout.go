// Package layout names every file the pipeline writes inside the output directory.
package layout

import "path/filepath"

const (
	FilteredLong  = "chopper_long_reads.fastq.gz"
	TrimmedR1     = "trimmed_R1.fastq"
	TrimmedR2     = "trimmed_R2.fastq"
	FastpJSON     = "fastp.json"
	FastpHTML     = "fastp.html"
	FlyeDir       = "flye_output"
	RavenDir      = "raven_output"
	AssemblyFasta = "assembly.fasta"
	AssemblyGFA   = "assembly.gfa"
	FlyeInfo      = "assembly_info.txt"

	Chromosome      = "chromosome.fasta"
	PlasmidsInitial = "plasmids_initial.fasta"
	Renamed         = "flye_renamed.fasta"
	NonChromBed     = "non_chromosome.bed"

	LongSAM      = "long_read.sam"
	ShortSAM     = "short_read.sam"
	ShortBAM     = "short_read.bam"
	UnmappedBAM  = "unmapped_bam_file.bam"
	MappedBAM    = "non_chromosome_bam_file.bam"
	UnmappedR1   = "unmapped_R1.fastq"
	UnmappedR2   = "unmapped_R2.fastq"
	MappedR1     = "mapped_non_chromosome_R1.fastq"
	MappedR2     = "mapped_non_chromosome_R2.fastq"
	PlasmidLong  = "plasmid_long.fastq"
	MultiMapLong = "multi_map_long.fastq"
	ConcatR1     = "short_read_concat_R1.fastq"
	ConcatR2     = "short_read_concat_R2.fastq"

	UnicyclerDir = "unicycler_output"

	Combined      = "combined.fasta"
	CombinedLong  = "combined_long.sam"
	CombinedShort = "combined_short.sam"
	SortedLong    = "combined_sorted_long.bam"
	SortedShort   = "combined_sorted_short.bam"
	DepthLong     = "depth_long.tsv"
	DepthShort    = "depth_short.tsv"

	Sketch  = "sketch"
	MashTSV = "mash.tsv"

	LogDir        = "logs"
	KeptFastqsDir = "plasmid_fastqs"
)

// Layout resolves names against one output directory.
type Layout struct{ Outdir string }

func New(outdir string) Layout { return Layout{Outdir: outdir} }

// Path joins name (and any further elements) onto the output directory.
func (l Layout) Path(name ...string) string {
	return filepath.Join(append([]string{l.Outdir}, name...)...)
}

func (l Layout) Logs() string { return l.Path(LogDir) }

// AssemblerDir is the long-read assembler's output directory.
func (l Layout) AssemblerDir(useRaven bool) string {
	if useRaven {
		return l.Path(RavenDir)
	}
	return l.Path(FlyeDir)
}

func (l Layout) SketchFile() string { return l.Path(Sketch + ".msh") }

// Final output names for a prefix.
func (l Layout) PlasmidsFasta(prefix string) string   { return l.Path(prefix + "_plasmids.fasta") }
func (l Layout) PlasmidsGFA(prefix string) string     { return l.Path(prefix + "_plasmids.gfa") }
func (l Layout) SummaryTSV(prefix string) string      { return l.Path(prefix + "_summary.tsv") }
func (l Layout) SummaryJSON(prefix string) string     { return l.Path(prefix + "_summary.json") }
func (l Layout) ChromosomeFasta(prefix string) string { return l.Path(prefix + "_chromosome.fasta") }

// Intermediates lists every scratch file and directory removed at the end of a run,
// except the assembler directory, which depends on --keep_chromosome.
var Intermediates = []string{
	FilteredLong, TrimmedR1, TrimmedR2, FastpJSON, FastpHTML,
	Chromosome, PlasmidsInitial, Renamed, NonChromBed,
	LongSAM, ShortSAM, ShortBAM, UnmappedBAM, MappedBAM,
	UnmappedR1, UnmappedR2, MappedR1, MappedR2,
	PlasmidLong, MultiMapLong, ConcatR1, ConcatR2,
	UnicyclerDir,
	Combined, CombinedLong, CombinedShort, SortedLong, SortedShort, DepthLong, DepthShort,
	Sketch + ".msh", MashTSV,
}
