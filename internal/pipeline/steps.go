package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"plassembler/internal/assembly"
	"plassembler/internal/cleanup"
	"plassembler/internal/contigs"
	"plassembler/internal/layout"
	"plassembler/internal/mash"
	"plassembler/internal/qc"
	"plassembler/internal/runutil"
	"plassembler/internal/seqfile"
)

func (p *Pipeline) layout(cfg Config) layout.Layout { return layout.New(cfg.Outdir) }

// validateLong checks the long reads and returns the Flye flag for the PacBio model.
func validateLong(cfg Config) (string, error) {
	if _, err := seqfile.ValidateFASTQ(cfg.Long); err != nil {
		return "", fmt.Errorf("%w: long reads: %v", ErrInvalidInput, err)
	}
	flag, err := seqfile.ValidatePacbioModel(cfg.PacbioModel)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return flag, nil
}

func validateShort(cfg Config) error {
	for _, r := range []string{cfg.R1, cfg.R2} {
		if _, err := seqfile.ValidateFASTQ(r); err != nil {
			return fmt.Errorf("%w: short reads: %v", ErrInvalidInput, err)
		}
	}
	return nil
}

// qcLong filters the long reads into chopper_long_reads.fastq.gz.
func (p *Pipeline) qcLong(ctx context.Context, cfg Config, longOnly bool) error {
	if cfg.SkipQC {
		p.Logger.Info("Skipping long read QC (--skip_qc)")
		return qc.SkipChopper(cfg.Long, cfg.Outdir)
	}
	q, warns := runutil.EffectiveMinQuality(longOnly, cfg.MinQuality)
	for _, w := range warns {
		p.Logger.Warn(w)
	}
	p.Logger.Info("Filtering long reads with chopper",
		zap.Int("min_length", cfg.MinLength), zap.Int("min_quality", q))
	return qc.Chopper(ctx, p.Runner, qc.ChopperOptions{
		Input:      cfg.Long,
		Outdir:     cfg.Outdir,
		MinLength:  cfg.MinLength,
		MinQuality: q,
		Threads:    cfg.Threads,
	})
}

// qcShort writes trimmed_R1.fastq / trimmed_R2.fastq.
func (p *Pipeline) qcShort(ctx context.Context, cfg Config) error {
	if cfg.SkipQC {
		p.Logger.Info("Skipping short read QC (--skip_qc)")
		return qc.SkipFastp(cfg.R1, cfg.R2, cfg.Outdir)
	}
	p.Logger.Info("Trimming short reads with fastp")
	return qc.Fastp(ctx, p.Runner, cfg.R1, cfg.R2, cfg.Outdir, cfg.Threads)
}

// assemble runs the long-read assembler and classifies its contigs.
func (p *Pipeline) assemble(ctx context.Context, cfg Config, pacbioFlag string) (contigs.Classification, error) {
	var err error
	if cfg.UseRaven {
		p.Logger.Info("Assembling long reads with Raven")
		err = assembly.Raven(ctx, p.Runner, cfg.Outdir, cfg.Threads)
	} else {
		p.Logger.Info("Assembling long reads with Flye")
		err = assembly.Flye(ctx, p.Runner, cfg.Outdir, cfg.Threads, cfg.RawFlag, pacbioFlag)
	}
	if err != nil {
		return contigs.Classification{}, fmt.Errorf("long-read assembly: %w", err)
	}
	all, err := contigs.Load(cfg.Outdir, cfg.UseRaven)
	if err != nil {
		return contigs.Classification{}, fmt.Errorf("read assembly: %w", err)
	}
	c := contigs.Classify(all, cfg.ChromosomeLen)
	p.Logger.Info("Classified assembled contigs",
		zap.Int("contigs", c.Count()),
		zap.Int("chromosomes", len(c.Chromosomes)),
		zap.Int("plasmid_candidates", len(c.Plasmids)),
		zap.Int("threshold", cfg.ChromosomeLen))
	return c, nil
}

// noChromosome cleans up and reports a failed chromosome assembly.
func (p *Pipeline) noChromosome(cfg Config) error {
	p.Logger.Error("No chromosome was identified. Likely there was insufficient long read depth to assemble a chromosome; " +
		"increasing sequencing depth is recommended. Also check that -c/--chromosome is not too high.")
	p.tidy(cfg, cleanup.Opts{
		Prefix:         cfg.Prefix,
		RunMode:        cfg.Mode == ModeRun,
		KeepFastqs:     cfg.KeepFastqs,
		KeepChromosome: cfg.KeepChromosome,
		UseRaven:       cfg.UseRaven,
	})
	return ErrNoChromosome
}

// tidy finalises outputs and removes intermediates. Failures are logged, not
// returned, so they never mask the run's outcome.
func (p *Pipeline) tidy(cfg Config, o cleanup.Opts) {
	if err := cleanup.Finalise(cfg.Outdir, o); err != nil {
		p.Logger.Warn("Could not finalise outputs", zap.Error(err))
	}
	if err := cleanup.RemoveIntermediates(cfg.Outdir, cfg.KeepChromosome, cfg.UseRaven); err != nil {
		p.Logger.Warn("Could not remove intermediate files", zap.Error(err))
	}
}

// plsdb sketches the plasmids in fasta and returns the closest PLSDB entry
// per contig with the matching metadata rows.
func (p *Pipeline) plsdb(ctx context.Context, cfg Config, fasta string) (map[string]mash.Hit, mash.Metadata, error) {
	p.Logger.Info("Calculating mash distances to PLSDB")
	if err := mash.Sketch(ctx, p.Runner, fasta, cfg.Outdir); err != nil {
		return nil, mash.Metadata{}, err
	}
	if err := mash.Dist(ctx, p.Runner, cfg.Outdir, p.DB.Sketch()); err != nil {
		return nil, mash.Metadata{}, err
	}
	hits, err := mash.ReadDist(p.layout(cfg).Path(layout.MashTSV))
	if err != nil {
		return nil, mash.Metadata{}, err
	}
	top := mash.TopHits(hits)
	want := make(map[string]bool, len(top))
	for _, h := range top {
		want[h.Accession] = true
	}
	md, err := mash.LoadMetadata(p.DB.Metadata(), want)
	if err != nil {
		return nil, mash.Metadata{}, err
	}
	p.Logger.Info("PLSDB search finished", zap.Int("contigs_with_hit", len(top)))
	return top, md, nil
}
