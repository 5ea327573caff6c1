// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"plassembler/internal/clibase"
	"plassembler/internal/pipeline"
	"plassembler/internal/runutil"
	"plassembler/internal/tool"
	"plassembler/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// Env is the outside world a command talks to. Tests replace the runner and
// PATH lookup to run the whole CLI without external binaries.
type Env struct {
	NewRunner  func(logDir string, logger *zap.Logger) tool.Runner
	LookPath   func(string) (string, error)
	HTTPClient *http.Client
	Now        func() time.Time
}

func DefaultEnv() Env {
	return Env{
		NewRunner: func(logDir string, logger *zap.Logger) tool.Runner {
			return tool.NewExecRunner(logDir, logger)
		},
		LookPath:   exec.LookPath,
		HTTPClient: http.DefaultClient,
		Now:        time.Now,
	}
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	return DefaultEnv().RunContext(parent, argv, stdout, stderr)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// invocation tracks what exit-code mapping needs to know about one run.
type invocation struct {
	ran                  bool // a command's RunE was entered
	noChromosomeExitCode int
}

// RunContext executes argv and maps the outcome to an exit code.
func (e Env) RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	inv := &invocation{noChromosomeExitCode: 1}

	root := e.newRoot(inv, outw, stderr)
	root.SetArgs(argv)
	root.SetOut(outw)
	root.SetErr(stderr)
	err := root.ExecuteContext(parent)

	if ferr := outw.Flush(); ferr != nil && !writers.IsBrokenPipe(ferr) {
		_, _ = fmt.Fprintln(stderr, ferr)
		return ExitRuntime
	}
	return exitCode(parent, inv, err, stderr)
}

func exitCode(ctx context.Context, inv *invocation, err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, pipeline.ErrNoChromosome), errors.Is(err, pipeline.ErrNoPlasmids):
		// already logged by the pipeline
		return inv.noChromosomeExitCode
	case writers.IsBrokenPipe(err):
		return ExitOK
	}
	_, _ = fmt.Fprintln(stderr, "error:", err)
	switch {
	case !inv.ran,
		errors.Is(err, clibase.ErrUsage),
		errors.Is(err, pipeline.ErrInvalidInput),
		errors.Is(err, runutil.ErrOutdirExists):
		return ExitUsage
	}
	return ExitRuntime
}
