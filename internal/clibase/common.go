// internal/clibase/common.go
package clibase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ErrUsage marks errors caused by the command line rather than the run.
var ErrUsage = errors.New("usage error")

func usagef(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, a...))
}

// Common holds the flags shared by run, long and assembled.
type Common struct {
	// Input / output
	Database string
	Outdir   string
	Prefix   string
	Force    bool

	// Assembly and QC
	Chromosome  int
	MinLength   int
	MinQuality  int
	SkipQC      bool
	PacbioModel string

	// Performance
	Threads int

	// Misc
	Verbose              bool
	Config               string
	NoChromosomeExitCode int
}

// Register wires the shared flags onto fs.
func Register(fs *pflag.FlagSet, c *Common) {
	fs.StringVarP(&c.Database, "database", "d", "", "directory of the PLSDB database (required)")
	fs.StringVarP(&c.Outdir, "outdir", "o", "plassembler.output/", "directory to write the output to")
	fs.StringVarP(&c.Prefix, "prefix", "p", "plassembler", "prefix for output files")
	fs.BoolVarP(&c.Force, "force", "f", false, "overwrite the output directory")

	fs.IntVarP(&c.Chromosome, "chromosome", "c", 1000000, "approximate lower-bound chromosome length (bp)")
	fs.IntVarP(&c.MinLength, "min_length", "m", 500, "minimum long read length for chopper")
	fs.IntVarP(&c.MinQuality, "min_quality", "q", 9, "minimum long read quality score for chopper")
	fs.BoolVar(&c.SkipQC, "skip_qc", false, "skip QC (chopper and fastp)")
	fs.StringVar(&c.PacbioModel, "pacbio_model", "", "PacBio model for Flye: pacbio-raw | pacbio-corr | pacbio-hifi")

	fs.IntVarP(&c.Threads, "threads", "t", 1, "number of threads (0=all CPUs)")

	fs.BoolVar(&c.Verbose, "verbose", false, "debug logging")
	fs.StringVar(&c.Config, "config", "", "YAML file of flag defaults (keys are long flag names)")
	fs.IntVar(&c.NoChromosomeExitCode, "no-chromosome-exit-code", 1, "exit code when no chromosome (or, in long mode, no plasmid) is assembled")
}

// Validate applies the shared invariants.
func Validate(c *Common) error {
	if c.Database == "" {
		return usagef("--database is required")
	}
	if c.Outdir == "" {
		return usagef("--outdir must not be empty")
	}
	if c.Prefix == "" || strings.ContainsAny(c.Prefix, `/\`) {
		return usagef("invalid --prefix %q", c.Prefix)
	}
	if c.Chromosome <= 0 {
		return usagef("--chromosome must be > 0")
	}
	if c.MinLength < 0 {
		return usagef("--min_length must be ≥ 0")
	}
	if c.MinQuality < 0 {
		return usagef("--min_quality must be ≥ 0")
	}
	if c.Threads < 0 {
		return usagef("--threads must be ≥ 0")
	}
	switch c.PacbioModel {
	case "", "pacbio-raw", "pacbio-corr", "pacbio-hifi":
	default:
		return usagef("invalid --pacbio_model %q: must be one of pacbio-raw, pacbio-corr or pacbio-hifi", c.PacbioModel)
	}
	return nil
}

// Required returns a usage error naming the first empty flag value.
func Required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return usagef("%s is required", pairs[i])
		}
	}
	return nil
}
