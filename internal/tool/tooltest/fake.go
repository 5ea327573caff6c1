// Package tooltest provides a scripted tool.Runner for tests.
package tooltest

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"plassembler/internal/tool"
)

type Handler func(c tool.Command) error

// Fake records every command and dispatches to a per-binary handler.
// Commands without a handler succeed and do nothing.
type Fake struct {
	mu       sync.Mutex
	calls    []tool.Command
	handlers map[string]Handler
}

func New() *Fake { return &Fake{handlers: map[string]Handler{}} }

func (f *Fake) On(name string, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = h
	return f
}

func (f *Fake) Run(ctx context.Context, c tool.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	h := f.handlers[c.Name]
	f.mu.Unlock()
	if h == nil {
		return nil
	}
	return h(c)
}

// Calls returns the recorded commands for name (all commands when name is "").
func (f *Fake) Calls(name string) []tool.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tool.Command
	for _, c := range f.calls {
		if name == "" || c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Flag returns the value following flag in args, or "".
func Flag(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// Has reports whether args contains s.
func Has(args []string, s string) bool {
	for _, a := range args {
		if a == s {
			return true
		}
	}
	return false
}

// WriteFile creates parent directories and writes data.
func WriteFile(path, data string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(data), 0o644)
}
