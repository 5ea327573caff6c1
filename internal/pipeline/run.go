package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"plassembler/internal/assembly"
	"plassembler/internal/cleanup"
	"plassembler/internal/depth"
	"plassembler/internal/layout"
	"plassembler/internal/mapping"
	"plassembler/internal/seqfile"
)

// Run dispatches to the configured mode.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (Result, error) {
	switch cfg.Mode {
	case ModeRun:
		return p.Hybrid(ctx, cfg)
	case ModeLong:
		return p.LongOnly(ctx, cfg)
	case ModeAssembled:
		return p.Assembled(ctx, cfg)
	}
	return Result{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, cfg.Mode)
}

// Hybrid assembles with long reads, then recovers plasmids with Unicycler
// from the reads that do not map to the chromosome.
func (p *Pipeline) Hybrid(ctx context.Context, cfg Config) (Result, error) {
	pacbioFlag, err := validateLong(cfg)
	if err != nil {
		return Result{}, err
	}
	if err := validateShort(cfg); err != nil {
		return Result{}, err
	}
	l := p.layout(cfg)

	if err := p.qcLong(ctx, cfg, false); err != nil {
		return Result{}, fmt.Errorf("long read QC: %w", err)
	}
	c, err := p.assemble(ctx, cfg, pacbioFlag)
	if err != nil {
		return Result{}, err
	}
	if !c.HasChromosome() {
		return Result{}, p.noChromosome(cfg)
	}
	if c.Count() == 1 {
		p.Logger.Info("Only one contig was assembled, the chromosome. Trying to recover plasmids the long-read assembler missed with Unicycler")
	} else {
		p.Logger.Info("Chromosome and candidate plasmid contigs assembled. Recovering plasmids with Unicycler")
	}
	if err := c.Write(cfg.Outdir); err != nil {
		return Result{}, fmt.Errorf("write contigs: %w", err)
	}

	if err := p.qcShort(ctx, cfg); err != nil {
		return Result{}, fmt.Errorf("short read QC: %w", err)
	}

	p.Logger.Info("Mapping reads to the assembly")
	renamed := l.Path(layout.Renamed)
	if err := mapping.MinimapLong(ctx, p.Runner, l.Path(layout.FilteredLong), renamed, l.Path(layout.LongSAM), cfg.Threads, cfg.PacbioModel); err != nil {
		return Result{}, err
	}
	if err := mapping.MinimapShort(ctx, p.Runner, l.Path(layout.TrimmedR1), l.Path(layout.TrimmedR2), renamed, l.Path(layout.ShortSAM), cfg.Threads); err != nil {
		return Result{}, err
	}

	counts, err := mapping.BinLongReads(l.Path(layout.LongSAM), l.Path(layout.PlasmidLong), l.Path(layout.MultiMapLong))
	if err != nil {
		return Result{}, fmt.Errorf("bin long reads: %w", err)
	}
	p.Logger.Info("Binned long reads",
		zap.Int("reads", counts.Reads),
		zap.Int("plasmid", counts.Plasmid),
		zap.Int("multi_mapped", counts.MultiMap))
	if err := mapping.SplitShortReads(ctx, p.Runner, cfg.Outdir, cfg.Threads, len(c.Plasmids) > 0); err != nil {
		return Result{}, fmt.Errorf("split short reads: %w", err)
	}

	p.Logger.Info("Running Unicycler")
	uniDir := l.Path(layout.UnicyclerDir)
	err = assembly.Unicycler(ctx, p.Runner, assembly.UnicyclerInput{
		R1:   l.Path(layout.ConcatR1),
		R2:   l.Path(layout.ConcatR2),
		Long: l.Path(layout.PlasmidLong),
	}, uniDir, cfg.Threads)
	if err != nil {
		// Unicycler exits non-zero when nothing assembles; judge by its output.
		p.Logger.Warn("Unicycler failed", zap.Error(err))
	}

	res := Result{}
	if assembly.UnicyclerSucceeded(uniDir) {
		res, err = p.hybridReport(ctx, cfg)
		if err != nil {
			return res, err
		}
		res.UnicyclerSuccess = true
	} else {
		p.Logger.Info("No plasmids found")
	}

	p.tidy(cfg, cleanup.Opts{
		Prefix:           cfg.Prefix,
		RunMode:          true,
		UnicyclerSuccess: res.UnicyclerSuccess,
		KeepFastqs:       cfg.KeepFastqs,
		KeepChromosome:   cfg.KeepChromosome,
		UseRaven:         cfg.UseRaven,
	})
	return res, nil
}

func (p *Pipeline) hybridReport(ctx context.Context, cfg Config) (Result, error) {
	l := p.layout(cfg)
	plasmids := l.Path(layout.UnicyclerDir, layout.AssemblyFasta)
	combined := l.Path(layout.Combined)
	if err := seqfile.Concat(combined, l.Path(layout.Chromosome), plasmids); err != nil {
		return Result{}, err
	}
	p.Logger.Info("Calculating plasmid copy numbers")
	rows, err := depth.Compute(ctx, p.Runner, depth.Opts{
		Outdir:      cfg.Outdir,
		Combined:    combined,
		Long:        l.Path(layout.FilteredLong),
		R1:          l.Path(layout.TrimmedR1),
		R2:          l.Path(layout.TrimmedR2),
		PacbioModel: cfg.PacbioModel,
		Threads:     cfg.Threads,
	})
	if err != nil {
		return Result{}, fmt.Errorf("depth: %w", err)
	}
	return p.report(ctx, cfg, plasmids, rows, false)
}
