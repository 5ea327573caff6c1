package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"plassembler/internal/cleanup"
	"plassembler/internal/contigs"
	"plassembler/internal/depth"
	"plassembler/internal/layout"
	"plassembler/internal/seqfile"
)

// Assembled computes depth and PLSDB hits for an existing assembly given as
// one chromosome FASTA and one plasmid FASTA. No assembler runs.
func (p *Pipeline) Assembled(ctx context.Context, cfg Config) (Result, error) {
	if err := validateAssembledReads(cfg); err != nil {
		return Result{}, err
	}
	for _, f := range []string{cfg.InputChromosome, cfg.InputPlasmids} {
		if err := seqfile.ValidateFASTA(f); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	chrom, err := seqfile.ReadFASTA(cfg.InputChromosome)
	if err != nil {
		return Result{}, err
	}
	if len(chrom) > 1 {
		p.Logger.Warn("Input chromosome FASTA has more than one record; all are treated as chromosome",
			zap.Int("records", len(chrom)))
	}
	plasmids, err := seqfile.ReadFASTA(cfg.InputPlasmids)
	if err != nil {
		return Result{}, err
	}

	// Chromosome records are renamed so depth recognises them as the
	// copy-number reference.
	combined := make([]seqfile.Record, 0, len(chrom)+len(plasmids))
	for i, r := range chrom {
		combined = append(combined, seqfile.Record{ID: contigs.ChromosomePrefix + strconv.Itoa(i+1), Desc: r.ID, Seq: r.Seq})
	}
	combined = append(combined, plasmids...)
	l := p.layout(cfg)
	if err := seqfile.WriteFASTA(l.Path(layout.Combined), combined); err != nil {
		return Result{}, err
	}

	opts := depth.Opts{
		Outdir:      cfg.Outdir,
		Combined:    l.Path(layout.Combined),
		PacbioModel: cfg.PacbioModel,
		Threads:     cfg.Threads,
	}
	if cfg.Long != "" {
		if err := p.qcLong(ctx, cfg, false); err != nil {
			return Result{}, fmt.Errorf("long read QC: %w", err)
		}
		opts.Long = l.Path(layout.FilteredLong)
	}
	if cfg.hasShort() {
		if err := p.qcShort(ctx, cfg); err != nil {
			return Result{}, fmt.Errorf("short read QC: %w", err)
		}
		opts.R1, opts.R2 = l.Path(layout.TrimmedR1), l.Path(layout.TrimmedR2)
	}

	p.Logger.Info("Calculating plasmid copy numbers")
	rows, err := depth.Compute(ctx, p.Runner, opts)
	if err != nil {
		return Result{}, fmt.Errorf("depth: %w", err)
	}
	res, err := p.report(ctx, cfg, cfg.InputPlasmids, rows, !cfg.hasShort())
	if err != nil {
		return res, err
	}
	p.tidy(cfg, cleanup.Opts{Prefix: cfg.Prefix})
	return res, nil
}

// validateAssembledReads needs long reads, a short pair, or both.
func validateAssembledReads(cfg Config) error {
	if (cfg.R1 == "") != (cfg.R2 == "") {
		return fmt.Errorf("%w: short reads need both -1 and -2", ErrInvalidInput)
	}
	if cfg.Long == "" && !cfg.hasShort() {
		return fmt.Errorf("%w: provide long reads (-l), short reads (-1/-2) or both", ErrInvalidInput)
	}
	if cfg.Long != "" {
		if _, err := validateLong(cfg); err != nil {
			return err
		}
	}
	if cfg.hasShort() {
		return validateShort(cfg)
	}
	return nil
}
