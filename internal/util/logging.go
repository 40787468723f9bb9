package util

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LevelVar is shared by every logger NewLogger builds so debug mode can be toggled live.
var LevelVar = new(slog.LevelVar)

// SetDebug switches the shared level between Debug and Info.
func SetDebug(on bool) {
	if on {
		LevelVar.Set(slog.LevelDebug)
	} else {
		LevelVar.Set(slog.LevelInfo)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewLogger writes text records to path, or to stderr when path is "-". The returned
// writer is the log sink itself, for other line-oriented logs such as HTTP access lines;
// closing it releases the file.
func NewLogger(path string, debug bool) (*slog.Logger, io.WriteCloser, error) {
	SetDebug(debug)
	opts := &slog.HandlerOptions{Level: LevelVar}
	if path == "-" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nopCloser{os.Stderr}, nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "create log dir")
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}
