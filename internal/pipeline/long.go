package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"plassembler/internal/cleanup"
	"plassembler/internal/depth"
	"plassembler/internal/layout"
	"plassembler/internal/mapping"
	"plassembler/internal/seqfile"
)

// LongOnly reports the long-read assembler's own small contigs as plasmids.
// Without short reads there is no Unicycler step.
func (p *Pipeline) LongOnly(ctx context.Context, cfg Config) (Result, error) {
	pacbioFlag, err := validateLong(cfg)
	if err != nil {
		return Result{}, err
	}
	l := p.layout(cfg)

	if err := p.qcLong(ctx, cfg, true); err != nil {
		return Result{}, fmt.Errorf("long read QC: %w", err)
	}
	c, err := p.assemble(ctx, cfg, pacbioFlag)
	if err != nil {
		return Result{}, err
	}
	if !c.HasChromosome() {
		return Result{}, p.noChromosome(cfg)
	}
	opts := cleanup.Opts{Prefix: cfg.Prefix, KeepChromosome: cfg.KeepChromosome, UseRaven: cfg.UseRaven}
	if len(c.Plasmids) == 0 {
		p.Logger.Info("Only the chromosome was assembled. No plasmids found")
		if err := c.Write(cfg.Outdir); err != nil {
			return Result{}, fmt.Errorf("write contigs: %w", err)
		}
		p.tidy(cfg, opts)
		return Result{}, ErrNoPlasmids
	}
	if err := c.Write(cfg.Outdir); err != nil {
		return Result{}, fmt.Errorf("write contigs: %w", err)
	}

	if err := mapping.MinimapLong(ctx, p.Runner, l.Path(layout.FilteredLong), l.Path(layout.Renamed), l.Path(layout.LongSAM), cfg.Threads, cfg.PacbioModel); err != nil {
		return Result{}, err
	}
	counts, err := mapping.BinLongReads(l.Path(layout.LongSAM), l.Path(layout.PlasmidLong), l.Path(layout.MultiMapLong))
	if err != nil {
		return Result{}, fmt.Errorf("bin long reads: %w", err)
	}
	p.Logger.Info("Binned long reads", zap.Int("reads", counts.Reads), zap.Int("plasmid", counts.Plasmid))

	combined := l.Path(layout.Combined)
	plasmids := l.Path(layout.PlasmidsInitial)
	if err := seqfile.Concat(combined, l.Path(layout.Chromosome), plasmids); err != nil {
		return Result{}, err
	}
	p.Logger.Info("Calculating plasmid copy numbers")
	rows, err := depth.Compute(ctx, p.Runner, depth.Opts{
		Outdir:      cfg.Outdir,
		Combined:    combined,
		Long:        l.Path(layout.FilteredLong),
		PacbioModel: cfg.PacbioModel,
		Threads:     cfg.Threads,
	})
	if err != nil {
		return Result{}, fmt.Errorf("depth: %w", err)
	}
	res, err := p.report(ctx, cfg, plasmids, rows, true)
	if err != nil {
		return res, err
	}
	p.tidy(cfg, opts)
	return res, nil
}
