//go:build tracing

package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileExporter appends trace records to a JSON Lines file and rotates it
// when it grows past a size threshold. Rotated files are named
// <path>.1 (newest) through <path>.N (oldest).
type FileExporter struct {
	path       string
	maxBytes   int64
	maxRotated int
	mu         sync.Mutex
	file       *os.File
	closed     bool
}

// WithMaxSize sets the maximum file size before rotation (default: 10MB).
func WithMaxSize(bytes int64) FileExporterOption {
	return func(iface interface{}) {
		if fe, ok := iface.(*FileExporter); ok {
			fe.maxBytes = bytes
		}
	}
}

// WithMaxRotatedFiles sets how many rotated files to keep (default: 5).
func WithMaxRotatedFiles(count int) FileExporterOption {
	return func(iface interface{}) {
		if fe, ok := iface.(*FileExporter); ok {
			fe.maxRotated = count
		}
	}
}

// NewFileExporter creates a file-based trace exporter. The parent directory
// is created if missing and the file is opened for append immediately.
func NewFileExporter(filePath string, opts ...FileExporterOption) (Exporter, error) {
	fe := &FileExporter{
		path:       filePath,
		maxBytes:   10 * 1024 * 1024,
		maxRotated: 5,
	}
	for _, opt := range opts {
		opt(fe)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	if err := fe.open(); err != nil {
		return nil, err
	}
	return fe, nil
}

func (fe *FileExporter) open() error {
	file, err := os.OpenFile(fe.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open trace file: %w", err)
	}
	fe.file = file
	return nil
}

// Export writes one record as a JSON line, rotating first if the file is
// already past the size threshold.
func (fe *FileExporter) Export(ctx context.Context, record *TraceRecord) error {
	fe.mu.Lock()
	defer fe.mu.Unlock()

	if fe.closed {
		return fmt.Errorf("exporter closed")
	}

	info, err := fe.file.Stat()
	if err != nil {
		return fmt.Errorf("stat trace file: %w", err)
	}
	if info.Size() >= fe.maxBytes {
		if err := fe.rotate(); err != nil {
			return fmt.Errorf("rotate trace file: %w", err)
		}
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode trace record: %w", err)
	}
	if _, err := fe.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write trace record: %w", err)
	}
	return nil
}

// Close flushes and closes the trace file.
func (fe *FileExporter) Close() error {
	fe.mu.Lock()
	defer fe.mu.Unlock()

	if fe.closed {
		return nil
	}
	fe.closed = true

	if err := fe.file.Sync(); err != nil {
		fe.file.Close()
		return fmt.Errorf("sync trace file: %w", err)
	}
	return fe.file.Close()
}

// rotate shifts <path>.i to <path>.i+1, dropping the oldest, then moves the
// live file to <path>.1 and reopens. Must be called with the lock held.
func (fe *FileExporter) rotate() error {
	if err := fe.file.Close(); err != nil {
		return fmt.Errorf("close for rotation: %w", err)
	}

	oldest := fmt.Sprintf("%s.%d", fe.path, fe.maxRotated)
	if _, err := os.Stat(oldest); err == nil {
		if err := os.Remove(oldest); err != nil {
			return fmt.Errorf("remove oldest rotated file: %w", err)
		}
	}
	for i := fe.maxRotated - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", fe.path, i)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, fmt.Sprintf("%s.%d", fe.path, i+1)); err != nil {
			return fmt.Errorf("shift rotated file: %w", err)
		}
	}
	if err := os.Rename(fe.path, fe.path+".1"); err != nil {
		return fmt.Errorf("rotate current file: %w", err)
	}

	return fe.open()
}
