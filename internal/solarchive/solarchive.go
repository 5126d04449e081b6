// Package solarchive writes batches of solution strings into a single
// zstd-compressed archive. Solution paths compress extremely well (long runs
// of WASD), so archiving a whole task set costs almost nothing on disk.
package solarchive

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Entry is one archived solution.
type Entry struct {
	Name     string
	Solution string
}

// Writer appends entries to an archive file. Safe for concurrent use by
// batch workers.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	bw  *bufio.Writer
}

// NewWriter creates (truncating) an archive at path.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, enc: enc, bw: bufio.NewWriter(enc)}, nil
}

// Add appends one entry. Names must not contain tabs or newlines; solution
// strings never do.
func (w *Writer) Add(name, solution string) error {
	if strings.ContainsAny(name, "\t\n") {
		return fmt.Errorf("solarchive: name %q contains a separator", name)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.bw, "%s\t%s\n", name, solution); err != nil {
		return err
	}
	return nil
}

// Close flushes and closes the archive.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.bw.Flush(); err != nil {
		_ = w.enc.Close()
		_ = w.f.Close()
		return err
	}
	if err := w.enc.Close(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}

// Read loads every entry from an archive.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		name, sol, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("solarchive: malformed line %q", line)
		}
		out = append(out, Entry{Name: name, Solution: sol})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
