// internal/pipeline/pipeline.go
package pipeline

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"plassembler/internal/db"
	"plassembler/internal/tool"
)

var (
	ErrNoChromosome = errors.New("no chromosome was assembled")
	ErrNoPlasmids   = errors.New("no plasmids found")
	ErrInvalidInput = errors.New("invalid input")
)

type Mode string

const (
	ModeRun       Mode = "run"
	ModeLong      Mode = "long"
	ModeAssembled Mode = "assembled"
)

// Config is the resolved command line of one invocation.
type Config struct {
	Mode     Mode
	Outdir   string
	Prefix   string
	Database string

	// Reads. Long is required for run and long; R1/R2 for run.
	Long   string
	R1, R2 string

	// assembled mode
	InputChromosome string
	InputPlasmids   string

	ChromosomeLen int // contigs longer than this are chromosomes
	MinLength     int
	MinQuality    int
	Threads       int
	SkipQC        bool
	PacbioModel   string
	RawFlag       bool

	KeepFastqs     bool
	KeepChromosome bool
	UseRaven       bool
}

func (c Config) hasShort() bool { return c.R1 != "" && c.R2 != "" }

// Requirements lists the external tools the configured mode will call.
func (c Config) Requirements() []tool.Requirement {
	assembler := tool.Flye
	if c.UseRaven {
		assembler = tool.Raven
	}
	base := []tool.Requirement{tool.Minimap2, tool.Samtools, tool.Mash}
	switch c.Mode {
	case ModeRun:
		reqs := append([]tool.Requirement{assembler, tool.Unicycler}, base...)
		if !c.SkipQC {
			reqs = append(reqs, tool.Chopper, tool.Fastp)
		}
		return reqs
	case ModeLong:
		reqs := append([]tool.Requirement{assembler}, base...)
		if !c.SkipQC {
			reqs = append(reqs, tool.Chopper)
		}
		return reqs
	default:
		reqs := base
		if !c.SkipQC && c.Long != "" {
			reqs = append(reqs, tool.Chopper)
		}
		if !c.SkipQC && c.hasShort() {
			reqs = append(reqs, tool.Fastp)
		}
		return reqs
	}
}

// Pipeline holds what every mode shares.
type Pipeline struct {
	Runner  tool.Runner
	Logger  *zap.Logger
	DB      db.Paths
	RunID   string
	Version string
	// Stdout receives the end-of-run summary table; nil disables it.
	Stdout io.Writer
}
