package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"sdklocator/internal/paths"
	"sdklocator/internal/sdk"
)

// Options controls where log lines go.
type Options struct {
	Level log.Level
	// File writes to a timestamped file inside the logs directory.
	File bool
	// Stderr tees every line to w, usually os.Stderr.
	Stderr io.Writer
}

// New creates a leveled logger. The returned closer should be closed when
// logging is no longer needed.
func New(p paths.AppPaths, opts Options) (*log.Logger, io.Closer, error) {
	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)

	if opts.File {
		if err := os.MkdirAll(p.LogsDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
		}

		filename := time.Now().Format("20060102-150405") + ".log"
		filePath := filepath.Join(p.LogsDir, filename)
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, file)
		closer = file
	}
	if opts.Stderr != nil {
		writers = append(writers, opts.Stderr)
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           opts.Level,
		ReportTimestamp: true,
		TimeFormat:      "2006/01/02 15:04:05.000000",
	})
	return logger, closer, nil
}

// ParseLevel accepts debug, info, warn, error or fatal. Blank means info.
func ParseLevel(s string) (log.Level, error) {
	if s == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("parse log level: %w", err)
	}
	return lvl, nil
}

// Func adapts l to the resolver's trace capability.
func Func(l *log.Logger) sdk.LogFunc {
	return func(level log.Level, msg string) {
		l.Log(level, msg)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
