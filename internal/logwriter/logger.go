package logwriter

import (
	"io"
	"log/slog"
)

// Options selects where and how much procmon logs.
type Options struct {
	Enabled  bool
	File     string
	MaxSize  int64
	MaxFiles int
	Level    slog.Level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds a text slog.Logger over a RotatingWriter. With logging
// disabled it returns a logger that discards everything.
func NewLogger(opts Options) (*slog.Logger, io.Closer, error) {
	if !opts.Enabled || opts.File == "" {
		return Discard(), nopCloser{}, nil
	}
	w, err := New(opts.File, opts.MaxSize, opts.MaxFiles)
	if err != nil {
		return nil, nil, err
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(h), w, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
