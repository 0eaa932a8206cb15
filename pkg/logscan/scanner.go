package logscan

import (
	"fmt"
	"io"
	"regexp"
	"sort"

	"github.com/cloudflare/ahocorasick"

	"github.com/yugabyte/testreport/pkg/signature"
)

// ScanError reports that a signature could not be evaluated against the log.
// It is distinct from finding no matches.
type ScanError struct {
	Tag  string
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning %s for %s: %v", e.Path, e.Tag, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Scanner evaluates signatures against a single log. The log is read once, on
// the first Scan, and the source is closed right after reading.
type Scanner struct {
	src     Source
	hints   []string
	matcher *ahocorasick.Matcher

	loaded  bool
	content []byte
	present map[string]bool
	loadErr error
}

// NewScanner creates a scanner over src. The catalog's hint literals are
// located in one pass so signatures whose hint is absent skip regex evaluation.
func NewScanner(src Source, cat *signature.Catalog) *Scanner {
	hints := cat.Hints()
	s := &Scanner{src: src, hints: hints}
	if len(hints) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(hints)
	}
	return s
}

// Scan returns the sorted, distinct, non-empty matches of sig in the log.
func (s *Scanner) Scan(sig signature.Signature) ([]string, error) {
	s.load()
	if s.loadErr != nil {
		return nil, &ScanError{Tag: sig.Tag, Path: s.src.Path(), Err: s.loadErr}
	}
	if sig.Hint != "" && s.present != nil && !s.present[sig.Hint] {
		return nil, nil
	}
	return Matches(sig.Regexp(), s.content), nil
}

func (s *Scanner) load() {
	if s.loaded {
		return
	}
	s.loaded = true

	rc, err := s.src.Open()
	if err != nil {
		s.loadErr = err
		return
	}
	content, err := io.ReadAll(rc)
	closeErr := rc.Close()
	if err != nil {
		s.loadErr = fmt.Errorf("read log: %w", err)
		return
	}
	if closeErr != nil {
		s.loadErr = fmt.Errorf("close log: %w", closeErr)
		return
	}
	s.content = content

	if s.matcher == nil {
		return
	}
	s.present = make(map[string]bool, len(s.hints))
	for _, idx := range s.matcher.MatchThreadSafe(content) {
		if idx >= 0 && idx < len(s.hints) {
			s.present[s.hints[idx]] = true
		}
	}
}

// Matches extracts every match of re in content, dropping empty matches and
// duplicates, sorted lexicographically.
func Matches(re *regexp.Regexp, content []byte) []string {
	if re == nil || len(content) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, m := range re.FindAll(content, -1) {
		if len(m) == 0 {
			continue
		}
		k := string(m)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
