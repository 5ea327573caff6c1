// internal/runutil/runutil.go
package runutil

import (
	"errors"
	"fmt"
	"os"
	"runtime"
)

// LongOnlyMinQuality is the quality floor applied to chopper in long-read-only mode.
const LongOnlyMinQuality = 15

// ErrOutdirExists is returned when the output directory exists and --force was not given.
var ErrOutdirExists = errors.New("output directory already exists")

// EffectiveThreads maps 0 to all CPUs.
func EffectiveThreads(threads int) int {
	if threads <= 0 {
		return runtime.NumCPU()
	}
	return threads
}

// EffectiveMinQuality returns the chopper quality threshold. Long-read-only
// assemblies need higher quality reads, so values below LongOnlyMinQuality are raised.
func EffectiveMinQuality(longOnly bool, minQuality int) (int, []string) {
	if longOnly && minQuality < LongOnlyMinQuality {
		return LongOnlyMinQuality, []string{
			fmt.Sprintf("increasing --min_quality from %d to %d in long only mode", minQuality, LongOnlyMinQuality),
		}
	}
	return minQuality, nil
}

// PrepareOutdir creates outdir. An existing directory is removed with force
// and rejected without it. Rules:
//   - exists && force  → removed and recreated
//   - exists && !force → ErrOutdirExists
//   - !exists && force → created, with a warning
func PrepareOutdir(outdir string, force bool) ([]string, error) {
	var warns []string
	st, err := os.Stat(outdir)
	switch {
	case err == nil && !st.IsDir():
		return nil, fmt.Errorf("%s exists and is not a directory", outdir)
	case err == nil && force:
		if err := os.RemoveAll(outdir); err != nil {
			return nil, fmt.Errorf("remove %s: %w", outdir, err)
		}
	case err == nil:
		return nil, fmt.Errorf("%s: %w; specify -f or --force to overwrite", outdir, ErrOutdirExists)
	case os.IsNotExist(err) && force:
		warns = append(warns, fmt.Sprintf("--force was specified even though the directory %s does not already exist; continuing", outdir))
	case !os.IsNotExist(err):
		return nil, err
	}
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return warns, fmt.Errorf("create %s: %w", outdir, err)
	}
	return warns, nil
}
