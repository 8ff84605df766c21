package diagram

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// Sink persists assembled documents. path is slash-separated and relative.
type Sink interface {
	Write(ctx context.Context, path string, content string) error
}

// FileSink writes documents below Dir, creating directories as needed.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) Write(ctx context.Context, path string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := filepath.Join(s.Dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, "write %s", target)
	}
	return nil
}

// MemorySink keeps documents in memory. It is safe for concurrent use.
type MemorySink struct {
	mu    sync.Mutex
	files map[string]string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string]string)}
}

func (s *MemorySink) Write(ctx context.Context, path string, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
	return nil
}

func (s *MemorySink) Get(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[path]
	return content, ok
}

// Paths returns the written paths in sorted order.
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// WriterSink prints each document followed by a blank line. Writes are
// serialized, but their order follows emission order.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Write(ctx context.Context, path string, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, content+"\n\n"); err != nil {
		return errors.Wrapf(err, "print %s", path)
	}
	return nil
}
