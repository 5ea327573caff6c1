// internal/tool/tool.go
package tool

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Command is one invocation of an external binary.
type Command struct {
	Name string
	Args []string

	Stdin  io.Reader
	Stdout io.Writer // nil → <logdir>/<log>.out
	Stderr io.Writer // nil → <logdir>/<log>.err
	Dir    string

	// Log is the basename of the log files; defaults to Name.
	Log string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

func (c Command) logName() string {
	if c.Log != "" {
		return c.Log
	}
	return filepath.Base(c.Name)
}

// Runner executes external commands. Pipeline stages only ever talk to a Runner,
// never to os/exec directly.
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// ExecRunner runs commands on the host. Tool output that is not captured by the
// caller is appended to per-tool files under LogDir.
type ExecRunner struct {
	LogDir string
	Logger *zap.Logger
}

func NewExecRunner(logDir string, logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{LogDir: logDir, Logger: logger}
}

func (e *ExecRunner) Run(ctx context.Context, c Command) (err error) {
	if err := os.MkdirAll(e.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin

	errPath := filepath.Join(e.LogDir, c.logName()+".err")
	if c.Stderr != nil {
		cmd.Stderr = c.Stderr
	} else {
		f, ferr := appendFile(errPath)
		if ferr != nil {
			return ferr
		}
		defer func() { err = multierr.Append(err, f.Close()) }()
		cmd.Stderr = f
	}
	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	} else {
		f, ferr := appendFile(filepath.Join(e.LogDir, c.logName()+".out"))
		if ferr != nil {
			return ferr
		}
		defer func() { err = multierr.Append(err, f.Close()) }()
		cmd.Stdout = f
	}

	e.Logger.Info("Running external tool", zap.String("tool", c.Name), zap.String("command", c.String()))
	start := time.Now()
	if rerr := cmd.Run(); rerr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.Stderr == nil {
			return fmt.Errorf("%s failed (see %s): %w", c.Name, errPath, rerr)
		}
		return fmt.Errorf("%s failed: %w", c.Name, rerr)
	}
	e.Logger.Info("Finished external tool",
		zap.String("tool", c.Name),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)
	return nil
}

func appendFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tool log: %w", err)
	}
	return f, nil
}

// RunToFile runs c with stdout redirected into path (created/truncated).
func RunToFile(ctx context.Context, r Runner, c Command, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	c.Stdout = f
	return r.Run(ctx, c)
}
