package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"plassembler/internal/clibase"
	"plassembler/internal/db"
	"plassembler/internal/pipeline"
	"plassembler/internal/version"
)

func (e Env) newRoot(inv *invocation, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "plassembler",
		Short:         "Automated bacterial plasmid assembly",
		Long:          clibase.Banner("automated bacterial plasmid assembly"),
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetVersionTemplate("plassembler version {{.Version}}\n")
	root.Flags().BoolP("version", "V", false, "print version and exit")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", clibase.ErrUsage, err)
	})
	root.AddCommand(
		e.runCmd(inv, stdout, stderr),
		e.longCmd(inv, stdout, stderr),
		e.assembledCmd(inv, stdout, stderr),
		e.downloadCmd(inv, stderr),
		citationCmd(inv, stdout),
	)
	return root
}

func (e Env) runCmd(inv *invocation, stdout, stderr io.Writer) *cobra.Command {
	var (
		c   clibase.Common
		cfg pipeline.Config
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Hybrid assembly of plasmids from long and short reads",
		Long:  clibase.Banner("hybrid plasmid assembly (long + short reads)"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv.ran = true
			return e.execute(cmd, inv, &c, pipeline.ModeRun, &cfg, stdout, stderr, func() error {
				return clibase.Required("--longreads", cfg.Long, "--short_one", cfg.R1, "--short_two", cfg.R2)
			})
		},
	}
	fs := cmd.Flags()
	clibase.Register(fs, &c)
	fs.StringVarP(&cfg.Long, "longreads", "l", "", "FASTQ file of long reads (required)")
	fs.StringVarP(&cfg.R1, "short_one", "1", "", "R1 short read FASTQ file (required)")
	fs.StringVarP(&cfg.R2, "short_two", "2", "", "R2 short read FASTQ file (required)")
	fs.BoolVarP(&cfg.RawFlag, "raw_flag", "r", false, "use --nano-raw for Flye (Guppy fast reads)")
	fs.BoolVar(&cfg.KeepFastqs, "keep_fastqs", false, "keep FASTQs of putative plasmid and multi-mapping reads")
	fs.BoolVar(&cfg.KeepChromosome, "keep_chromosome", false, "keep the chromosome assembly")
	fs.BoolVar(&cfg.UseRaven, "use_raven", false, "use Raven instead of Flye for the long-read assembly")
	return cmd
}

func (e Env) longCmd(inv *invocation, stdout, stderr io.Writer) *cobra.Command {
	var (
		c   clibase.Common
		cfg pipeline.Config
	)
	cmd := &cobra.Command{
		Use:   "long",
		Short: "Plasmid assembly from long reads only",
		Long:  clibase.Banner("long-read-only plasmid assembly"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv.ran = true
			return e.execute(cmd, inv, &c, pipeline.ModeLong, &cfg, stdout, stderr, func() error {
				return clibase.Required("--longreads", cfg.Long)
			})
		},
	}
	fs := cmd.Flags()
	clibase.Register(fs, &c)
	fs.StringVarP(&cfg.Long, "longreads", "l", "", "FASTQ file of long reads (required)")
	fs.BoolVarP(&cfg.RawFlag, "raw_flag", "r", false, "use --nano-raw for Flye (Guppy fast reads)")
	fs.BoolVar(&cfg.KeepChromosome, "keep_chromosome", false, "keep the chromosome assembly")
	fs.BoolVar(&cfg.UseRaven, "use_raven", false, "use Raven instead of Flye for the long-read assembly")
	return cmd
}

func (e Env) assembledCmd(inv *invocation, stdout, stderr io.Writer) *cobra.Command {
	var (
		c   clibase.Common
		cfg pipeline.Config
	)
	cmd := &cobra.Command{
		Use:   "assembled",
		Short: "Copy number and PLSDB hits for an existing assembly",
		Long:  clibase.Banner("depth and PLSDB typing of an existing assembly"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv.ran = true
			return e.execute(cmd, inv, &c, pipeline.ModeAssembled, &cfg, stdout, stderr, func() error {
				return clibase.Required("--input_chromosome", cfg.InputChromosome, "--input_plasmids", cfg.InputPlasmids)
			})
		},
	}
	fs := cmd.Flags()
	clibase.Register(fs, &c)
	fs.StringVarP(&cfg.Long, "longreads", "l", "", "FASTQ file of long reads")
	fs.StringVarP(&cfg.R1, "short_one", "1", "", "R1 short read FASTQ file")
	fs.StringVarP(&cfg.R2, "short_two", "2", "", "R2 short read FASTQ file")
	fs.StringVar(&cfg.InputChromosome, "input_chromosome", "", "FASTA of the chromosome (one record) (required)")
	fs.StringVar(&cfg.InputPlasmids, "input_plasmids", "", "FASTA of the plasmids (required)")
	return cmd
}

func (e Env) downloadCmd(inv *invocation, stderr io.Writer) *cobra.Command {
	var (
		dir, url       string
		force, verbose bool
	)
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download and install the PLSDB database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv.ran = true
			if err := clibase.Required("--database", dir); err != nil {
				return err
			}
			return e.download(cmd.Context(), stderr, dir, url, force, verbose)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&dir, "database", "d", "", "directory to install the database into (required)")
	fs.BoolVarP(&force, "force", "f", false, "reinstall even if the database is present")
	fs.StringVar(&url, "url", db.DefaultURL, "database tarball URL")
	fs.BoolVar(&verbose, "verbose", false, "debug logging")
	return cmd
}

func citationCmd(inv *invocation, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "citation",
		Short: "Print the citation(s) for plassembler",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			inv.ran = true
			return clibase.PrintCitation(stdout)
		},
	}
}
