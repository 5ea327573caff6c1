package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"plassembler/internal/depth"
	"plassembler/internal/summary"
	"plassembler/internal/writers"
)

// Result is the outcome of a completed mode.
type Result struct {
	Table            summary.Table
	Suspect          []summary.Row
	UnicyclerSuccess bool
}

// report joins depth with PLSDB, writes the final plasmid FASTA and summary
// files, and prints the summary table.
func (p *Pipeline) report(ctx context.Context, cfg Config, plasmids string, rows []depth.Row, longOnly bool) (Result, error) {
	top, md, err := p.plsdb(ctx, cfg, plasmids)
	if err != nil {
		return Result{}, fmt.Errorf("PLSDB search: %w", err)
	}
	tab := summary.Combine(rows, top, md)
	// long mode skips the incompatibility check
	var sus []summary.Row
	if cfg.Mode != ModeLong {
		sus = summary.Incompatibility(tab)
	}
	for _, s := range sus {
		p.Logger.Warn("Plasmid has no PLSDB hit and copy number below 1. "+
			"This may indicate contamination or a mixed sample of incompatible isolates; check your input",
			zap.String("contig", s.Contig),
			zap.Float64("copy_number_short", s.CopyShort),
			zap.Float64("copy_number_long", s.CopyLong))
	}

	l := p.layout(cfg)
	if err := summary.FinaliseContigs(plasmids, l.PlasmidsFasta(cfg.Prefix), tab, longOnly); err != nil {
		return Result{}, fmt.Errorf("write plasmids: %w", err)
	}
	rep := writers.Report{RunID: p.RunID, Version: p.Version, Mode: string(cfg.Mode), Table: tab, Suspect: sus}
	if err := writeReport(l.SummaryTSV(cfg.Prefix), "tsv", rep); err != nil {
		return Result{}, err
	}
	if err := writeReport(l.SummaryJSON(cfg.Prefix), "json", rep); err != nil {
		return Result{}, err
	}
	if p.Stdout != nil {
		if err := writers.WriteSummary("table", p.Stdout, rep); err != nil && !writers.IsBrokenPipe(err) {
			return Result{}, err
		}
	}
	p.Logger.Info("Summary written", zap.String("tsv", l.SummaryTSV(cfg.Prefix)), zap.Int("plasmids", len(tab.Plasmids())))
	return Result{Table: tab, Suspect: sus}, nil
}

func writeReport(path, format string, rep writers.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return writers.WriteSummary(format, f, rep)
}
