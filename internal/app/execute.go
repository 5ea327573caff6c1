package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plassembler/internal/clibase"
	"plassembler/internal/cmdutil"
	"plassembler/internal/db"
	"plassembler/internal/layout"
	"plassembler/internal/pipeline"
	"plassembler/internal/runutil"
	"plassembler/internal/tool"
	"plassembler/internal/version"
)

// execute resolves flags into cfg, prepares the output directory and logger,
// checks the database and external tools, and runs the pipeline.
func (e Env) execute(cmd *cobra.Command, inv *invocation, c *clibase.Common, mode pipeline.Mode, cfg *pipeline.Config, stdout, stderr io.Writer, required func() error) error {
	if c.Config != "" {
		if err := clibase.ApplyConfig(cmd.Flags(), c.Config); err != nil {
			return err
		}
	}
	inv.noChromosomeExitCode = c.NoChromosomeExitCode
	if err := clibase.Validate(c); err != nil {
		return err
	}
	if err := required(); err != nil {
		return err
	}
	cfg.Mode = mode
	cfg.Outdir = c.Outdir
	cfg.Prefix = c.Prefix
	cfg.Database = c.Database
	cfg.ChromosomeLen = c.Chromosome
	cfg.MinLength = c.MinLength
	cfg.MinQuality = c.MinQuality
	cfg.Threads = runutil.EffectiveThreads(c.Threads)
	cfg.SkipQC = c.SkipQC
	cfg.PacbioModel = c.PacbioModel

	warns, err := runutil.PrepareOutdir(cfg.Outdir, c.Force)
	if err != nil {
		return err
	}
	start := e.Now()
	logger, closeLog, err := cmdutil.NewLogger(stderr, cmdutil.LogPath(cfg.Outdir, start.Unix()), c.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	runID := uuid.NewString()
	logger.Info("You are using plassembler", zap.String("version", version.Version), zap.String("mode", string(mode)), zap.String("run_id", runID))
	logger.Info("Repository homepage is https://github.com/gbouras13/plassembler")
	for _, w := range warns {
		logger.Warn(w)
	}
	logger.Info("Settings",
		zap.String("outdir", cfg.Outdir),
		zap.String("prefix", cfg.Prefix),
		zap.Int("threads", cfg.Threads),
		zap.Int("chromosome", cfg.ChromosomeLen),
		zap.Bool("skip_qc", cfg.SkipQC))

	err = e.runPipeline(cmd.Context(), logger, runID, *cfg, stdout)
	if err != nil && !isExpectedStop(err) {
		logger.Error("plassembler failed", zap.Error(err))
		return err
	}
	logger.Info("plassembler has finished", zap.Duration("elapsed", e.Now().Sub(start).Round(10*time.Millisecond)))
	return err
}

func isExpectedStop(err error) bool {
	return errors.Is(err, pipeline.ErrNoChromosome) || errors.Is(err, pipeline.ErrNoPlasmids)
}

func (e Env) runPipeline(ctx context.Context, logger *zap.Logger, runID string, cfg pipeline.Config, stdout io.Writer) error {
	paths, err := db.Check(cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("PLSDB database found", zap.String("dir", paths.Dir))

	runner := e.NewRunner(layout.New(cfg.Outdir).Logs(), logger)
	checker := tool.Checker{Runner: runner, LookPath: e.LookPath, Logger: logger}
	if err := checker.Check(ctx, cfg.Requirements()); err != nil {
		return fmt.Errorf("dependency check: %w", err)
	}

	p := pipeline.Pipeline{
		Runner:  runner,
		Logger:  logger,
		DB:      paths,
		RunID:   runID,
		Version: version.Version,
		Stdout:  stdout,
	}
	_, err = p.Run(ctx, cfg)
	return err
}

func (e Env) download(ctx context.Context, stderr io.Writer, dir, url string, force, verbose bool) error {
	logger, closeLog, err := cmdutil.NewLogger(stderr, "", verbose)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	d := db.Downloader{Client: e.HTTPClient, Logger: logger}
	if err := d.Download(ctx, dir, url, force); err != nil {
		return err
	}
	logger.Info("PLSDB database is installed", zap.String("dir", dir))
	return nil
}
