// Package logscan reads a test log, plain or gzip-compressed, and extracts
// the distinct matches of catalog signatures from it.
package logscan

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/h2non/filetype"
)

// CompressedSuffix is appended to a log path to find its compressed sibling.
const CompressedSuffix = ".gz"

// sniffLen covers the longest magic number filetype inspects.
const sniffLen = 262

// Source supplies log content. The returned reader must be closed by the caller.
type Source interface {
	Open() (io.ReadCloser, error)
	Path() string
}

// ResolvePath returns path, or its compressed sibling when only that one exists.
func ResolvePath(path string) string {
	if exists(path) {
		return path
	}
	if gz := path + CompressedSuffix; exists(gz) {
		return gz
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileSource reads a log from disk, decompressing gzip content transparently.
// A missing file reads as an empty log.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the log at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the log path.
func (s *FileSource) Path() string {
	return s.path
}

// Open opens the log for reading.
func (s *FileSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return io.NopCloser(strings.NewReader("")), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	br := bufio.NewReader(f)
	head, _ := br.Peek(sniffLen)
	if !IsCompressed(head) {
		return &fileReader{Reader: br, f: f}, nil
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decompress log %s: %w", s.path, err)
	}
	return &gzipReader{zr: zr, f: f}, nil
}

// IsCompressed reports whether head starts with the gzip magic number.
func IsCompressed(head []byte) bool {
	return filetype.Is(head, "gz")
}

type fileReader struct {
	io.Reader
	f *os.File
}

func (r *fileReader) Close() error {
	return r.f.Close()
}

type gzipReader struct {
	zr *gzip.Reader
	f  *os.File
}

func (r *gzipReader) Read(p []byte) (int, error) {
	return r.zr.Read(p)
}

func (r *gzipReader) Close() error {
	zerr := r.zr.Close()
	ferr := r.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// BytesSource serves log content held in memory.
type BytesSource struct {
	Name    string
	Content []byte
}

// Path returns the source name.
func (s BytesSource) Path() string {
	return s.Name
}

// Open returns a reader over the content.
func (s BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s.Content))), nil
}
