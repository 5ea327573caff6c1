// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the logger for one invocation. Messages go to stderr and,
// when logPath is set, are also appended to that file. The returned close
// func syncs the logger and closes the file.
func NewLogger(stderr io.Writer, logPath string, verbose bool) (*zap.Logger, func() error, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.ConsoleSeparator = " | "

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(stderr), level),
	}

	var file *os.File
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	closeFn := func() error {
		// Sync on a terminal or pipe returns EINVAL; only the file matters.
		_ = logger.Sync()
		if file == nil {
			return nil
		}
		return file.Close()
	}
	return logger, closeFn, nil
}

// LogPath returns the per-run log file name inside outdir.
func LogPath(outdir string, unixSeconds int64) string {
	return filepath.Join(outdir, fmt.Sprintf("plassembler_%d.log", unixSeconds))
}
