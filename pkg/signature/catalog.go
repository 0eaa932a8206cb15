package signature

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidSignal is returned for signal names that are not of the form SIG<NAME>.
var ErrInvalidSignal = errors.New("invalid signal name")

// DefaultSignals is the Linux signal set, excluding the SIG_* handler constants.
var DefaultSignals = []string{
	"SIGABRT", "SIGALRM", "SIGBUS", "SIGCHLD", "SIGCLD", "SIGCONT", "SIGFPE",
	"SIGHUP", "SIGILL", "SIGINT", "SIGIO", "SIGIOT", "SIGKILL", "SIGPIPE",
	"SIGPOLL", "SIGPROF", "SIGPWR", "SIGQUIT", "SIGRTMAX", "SIGRTMIN",
	"SIGSEGV", "SIGSTKFLT", "SIGSTOP", "SIGSYS", "SIGTERM", "SIGTRAP",
	"SIGTSTP", "SIGTTIN", "SIGTTOU", "SIGURG", "SIGUSR1", "SIGUSR2",
	"SIGVTALRM", "SIGWINCH", "SIGXCPU", "SIGXFSZ",
}

var signalNameRe = regexp.MustCompile(`^SIG[A-Z0-9]+$`)

// Catalog is an immutable, ordered list of failure signatures.
type Catalog struct {
	sigs    []Signature
	signals []string
}

// New builds the catalog, using signals for the parametric signal entry.
// A nil or empty list selects DefaultSignals.
func New(signals []string) (*Catalog, error) {
	names, err := normalizeSignals(signals)
	if err != nil {
		return nil, err
	}

	sigs := make([]Signature, 0, len(fixedEntries))
	for _, e := range fixedEntries {
		pattern := e.pattern
		if e.tag == SignalTag {
			pattern = SignalPattern(names)
		}
		re, err := Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", e.tag, err)
		}
		sigs = append(sigs, Signature{Tag: e.tag, Pattern: pattern, Hint: e.hint, re: re})
	}
	return &Catalog{sigs: sigs, signals: names}, nil
}

// Default returns the catalog built from DefaultSignals.
func Default() *Catalog {
	c, err := New(nil)
	if err != nil {
		panic(err)
	}
	return c
}

// Signatures returns the entries in evaluation order.
func (c *Catalog) Signatures() []Signature {
	out := make([]Signature, len(c.sigs))
	copy(out, c.sigs)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.sigs)
}

// Lookup finds an entry by tag.
func (c *Catalog) Lookup(tag string) (Signature, bool) {
	for _, s := range c.sigs {
		if s.Tag == tag {
			return s, true
		}
	}
	return Signature{}, false
}

// Signals returns the signal names behind the signal entry.
func (c *Catalog) Signals() []string {
	out := make([]string, len(c.signals))
	copy(out, c.signals)
	return out
}

// Hints returns the distinct non-empty prefilter literals of the catalog.
func (c *Catalog) Hints() []string {
	seen := make(map[string]bool, len(c.sigs))
	var hints []string
	for _, s := range c.sigs {
		if s.Hint == "" || seen[s.Hint] {
			continue
		}
		seen[s.Hint] = true
		hints = append(hints, s.Hint)
	}
	return hints
}

// SignalPattern builds the alternation of the given signal names.
func SignalPattern(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return strings.Join(quoted, "|")
}

func normalizeSignals(signals []string) ([]string, error) {
	if len(signals) == 0 {
		return append([]string(nil), DefaultSignals...), nil
	}
	seen := make(map[string]bool, len(signals))
	names := make([]string, 0, len(signals))
	for _, raw := range signals {
		name := strings.TrimSpace(raw)
		if strings.HasPrefix(name, "SIG_") || !signalNameRe.MatchString(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSignal, raw)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}
