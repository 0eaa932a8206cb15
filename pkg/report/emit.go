package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputSuffix replaces the result document's extension in the report path.
const OutputSuffix = "_test_report.json"

// OutputPath derives the report path from the result-document path: same
// directory and stem, extension replaced by OutputSuffix. Leading dots of the
// file name do not start an extension.
func OutputPath(resultPath string) string {
	return stem(resultPath) + OutputSuffix
}

func stem(path string) string {
	dir, base := filepath.Split(path)
	trimmed := strings.TrimLeft(base, ".")
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 {
		return path
	}
	lead := len(base) - len(trimmed)
	return dir + base[:lead+idx]
}

// Validator checks encoded report bytes before they are written.
type Validator func(data []byte) error

// Emitter writes encoded reports to disk.
type Emitter struct {
	validate Validator
}

// NewEmitter creates an emitter. A nil validator skips validation.
func NewEmitter(validate Validator) *Emitter {
	return &Emitter{validate: validate}
}

// Emit encodes records and writes them to path. The file is written to a
// temporary sibling and renamed into place, so readers never see a partial
// report.
func (e *Emitter) Emit(records []*Record, path string) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if e.validate != nil {
		if err := e.validate(data); err != nil {
			return fmt.Errorf("validate report: %w", err)
		}
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}
