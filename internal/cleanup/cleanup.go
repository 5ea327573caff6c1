// Package cleanup moves final outputs into place and removes scratch files.
package cleanup

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"plassembler/internal/layout"
	"plassembler/internal/seqfile"
)

type Opts struct {
	Prefix           string
	UnicyclerSuccess bool // run mode only
	RunMode          bool
	KeepFastqs       bool
	KeepChromosome   bool
	UseRaven         bool
}

// Names of the binned reads kept with --keep_fastqs.
const (
	KeptLong     = "plasmids_long.fastq"
	KeptR1       = "plasmids_R1.fastq"
	KeptR2       = "plasmids_R2.fastq"
	KeptMultiMap = "multi_map_long.fastq"
)

// Finalise puts the non-FASTA outputs in place. In run mode a successful
// Unicycler graph becomes <prefix>_plasmids.gfa; a failed run leaves empty
// plasmid and summary files so downstream tooling always finds them.
func Finalise(outdir string, o Opts) error {
	l := layout.New(outdir)
	if o.RunMode {
		if o.UnicyclerSuccess {
			if err := moveIfExists(l.Path(layout.UnicyclerDir, layout.AssemblyGFA), l.PlasmidsGFA(o.Prefix)); err != nil {
				return err
			}
		} else {
			for _, p := range []string{l.PlasmidsFasta(o.Prefix), l.PlasmidsGFA(o.Prefix), l.SummaryTSV(o.Prefix)} {
				if err := seqfile.Touch(p); err != nil {
					return err
				}
			}
		}
		if o.KeepFastqs {
			if err := keepFastqs(l); err != nil {
				return err
			}
		}
	}
	if o.KeepChromosome {
		if err := copyIfExists(l.Path(layout.Chromosome), l.ChromosomeFasta(o.Prefix)); err != nil {
			return err
		}
	}
	return nil
}

func keepFastqs(l layout.Layout) error {
	dir := l.Path(layout.KeptFastqsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var err error
	err = multierr.Append(err, moveIfExists(l.Path(layout.PlasmidLong), filepath.Join(dir, KeptLong)))
	err = multierr.Append(err, moveIfExists(l.Path(layout.ConcatR1), filepath.Join(dir, KeptR1)))
	err = multierr.Append(err, moveIfExists(l.Path(layout.ConcatR2), filepath.Join(dir, KeptR2)))
	err = multierr.Append(err, moveIfExists(l.Path(layout.MultiMapLong), filepath.Join(dir, KeptMultiMap)))
	return err
}

func moveIfExists(src, dst string) error {
	err := os.Rename(src, dst)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func copyIfExists(src, dst string) error {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return seqfile.Concat(dst, src)
}

// RemoveIntermediates deletes the scratch files of a run. The assembler
// output directory is kept when keepAssembler is set. Missing entries are
// ignored; other failures are collected.
func RemoveIntermediates(outdir string, keepAssembler, useRaven bool) error {
	l := layout.New(outdir)
	var err error
	for _, name := range layout.Intermediates {
		err = multierr.Append(err, os.RemoveAll(l.Path(name)))
	}
	if !keepAssembler {
		err = multierr.Append(err, os.RemoveAll(l.AssemblerDir(useRaven)))
	}
	return err
}
