package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMissing = errors.New("required tool not found in $PATH")
	ErrTooOld  = errors.New("tool version is below the minimum supported")
)

// Requirement describes a binary and the oldest version the pipeline supports.
type Requirement struct {
	Name        string
	VersionArgs []string
	Min         string
}

var (
	Flye      = Requirement{Name: "flye", VersionArgs: []string{"--version"}, Min: "2.9"}
	Raven     = Requirement{Name: "raven", VersionArgs: []string{"--version"}, Min: "1.8"}
	Unicycler = Requirement{Name: "unicycler", VersionArgs: []string{"--version"}, Min: "0.4.8"}
	Minimap2  = Requirement{Name: "minimap2", VersionArgs: []string{"--version"}, Min: "2.11"}
	Samtools  = Requirement{Name: "samtools", VersionArgs: []string{"--version"}, Min: "1.10"}
	Mash      = Requirement{Name: "mash", VersionArgs: []string{"--version"}, Min: "2.2"}
	Chopper   = Requirement{Name: "chopper", VersionArgs: []string{"--version"}, Min: "0.5.0"}
	Fastp     = Requirement{Name: "fastp", VersionArgs: []string{"--version"}, Min: "0.20"}
)

var versionRe = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts the first dotted version from tool output and returns
// it in canonical semver form ("v2.9.2").
func ParseVersion(out string) (string, bool) {
	m := versionRe.FindStringSubmatch(out)
	if m == nil {
		return "", false
	}
	v := "v" + m[1] + "." + m[2]
	if m[3] != "" {
		v += "." + m[3]
	}
	return semver.Canonical(v), true
}

// AtLeast reports whether version v (canonical) is >= min ("2.9", "0.4.8").
func AtLeast(v, min string) bool {
	return semver.Compare(v, semver.Canonical("v"+min)) >= 0
}

// Checker verifies that the binaries a mode needs are installed and new enough.
type Checker struct {
	Runner   Runner
	LookPath func(string) (string, error)
	Logger   *zap.Logger
}

// Check runs every requirement concurrently and reports all failures together.
func (c *Checker) Check(ctx context.Context, reqs []Requirement) error {
	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	g.SetLimit(4)
	for _, req := range reqs {
		req := req
		g.Go(func() error {
			err := c.checkOne(ctx, lookPath, logger, req)
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

func (c *Checker) checkOne(ctx context.Context, lookPath func(string) (string, error), logger *zap.Logger, req Requirement) error {
	if _, err := lookPath(req.Name); err != nil {
		return fmt.Errorf("%s: %w", req.Name, ErrMissing)
	}
	var out bytes.Buffer
	err := c.Runner.Run(ctx, Command{
		Name:   req.Name,
		Args:   req.VersionArgs,
		Stdout: &out,
		Stderr: &out,
		Log:    req.Name + "_version",
	})
	if err != nil {
		return fmt.Errorf("%s version check: %w", req.Name, err)
	}
	v, ok := ParseVersion(out.String())
	if !ok {
		logger.Warn("Could not determine tool version, continuing", zap.String("tool", req.Name))
		return nil
	}
	if !AtLeast(v, req.Min) {
		return fmt.Errorf("%s %s (need >= %s): %w", req.Name, v, req.Min, ErrTooOld)
	}
	logger.Info("Tool version is ok", zap.String("tool", req.Name), zap.String("version", v))
	return nil
}
