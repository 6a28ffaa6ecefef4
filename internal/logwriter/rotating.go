// Package logwriter provides the size-rotated file sink behind procmon's
// structured log.
package logwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	defaultMaxSize  = 1 << 20
	defaultMaxFiles = 3
)

// RotatingWriter is an io.Writer that rotates its file by size. Rotated
// files are kept as path.1 (newest) through path.N (oldest).
type RotatingWriter struct {
	mu       sync.Mutex
	path     string
	maxSize  int64
	maxFiles int
	current  *os.File
	written  int64
}

// New opens path for appending, creating its directory if needed. maxSize
// is in bytes; zero or negative values fall back to 1MB and 3 files.
func New(path string, maxSize int64, maxFiles int) (*RotatingWriter, error) {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	if maxFiles <= 0 {
		maxFiles = defaultMaxFiles
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &RotatingWriter{
		path:     path,
		maxSize:  maxSize,
		maxFiles: maxFiles,
		current:  f,
		written:  info.Size(),
	}, nil
}

// Write appends p, rotating first when p would push the file past maxSize.
// A single record larger than maxSize is still written whole.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return 0, fmt.Errorf("write %s: writer is closed", w.path)
	}
	if w.written > 0 && w.written+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := w.current.Write(p)
	w.written += int64(n)
	return n, err
}

func (w *RotatingWriter) rotate() error {
	w.current.Close()
	w.current = nil

	os.Remove(w.rotatedName(w.maxFiles))
	for i := w.maxFiles - 1; i >= 1; i-- {
		os.Rename(w.rotatedName(i), w.rotatedName(i+1))
	}
	if err := os.Rename(w.path, w.rotatedName(1)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rotate %s: %w", w.path, err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	w.current = f
	w.written = 0
	return nil
}

func (w *RotatingWriter) rotatedName(i int) string {
	return fmt.Sprintf("%s.%d", w.path, i)
}

func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil
	}
	err := w.current.Close()
	w.current = nil
	return err
}

// Path returns the file path of this writer.
func (w *RotatingWriter) Path() string {
	return w.path
}
