// Package appshell wires a command's RunContext to the process: signals,
// argv, stdio and the exit status.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitCanceled is the status of a run stopped by SIGINT or SIGTERM.
const ExitCanceled = 130

func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	os.Exit(Exec(run, os.Args[1:], os.Stdout, os.Stderr))
}

// Exec runs run under a context cancelled by SIGINT/SIGTERM. Without
// arguments it shows help. A cancelled run never reports success.
func Exec(run func(context.Context, []string, io.Writer, io.Writer) int, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(argv) == 0 {
		argv = []string{"--help"}
	}
	code := run(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = ExitCanceled
	}
	return code
}
