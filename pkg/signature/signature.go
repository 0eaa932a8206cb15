// Package signature defines the fixed catalog of failure signatures searched
// for in a test log. The catalog is ordered; evaluation order determines the
// order of fail tags on a record.
package signature

import (
	"regexp"
	"strings"
)

// SignalTag is the tag template of the parametric signal entry. Every distinct
// signal name found in the log expands into its own tag, e.g. signal_SIGSEGV.
const SignalTag = "signal_{}"

// Signature is a single (tag, pattern) catalog entry.
type Signature struct {
	Tag     string
	Pattern string
	// Hint is a literal that every match contains. Empty disables prefiltering.
	Hint string

	re *regexp.Regexp
}

// Parametric reports whether matches expand into distinct tags.
func (s Signature) Parametric() bool {
	return s.Tag == SignalTag
}

// Expand returns the concrete tag for a matched substring.
func (s Signature) Expand(match string) string {
	return strings.Replace(s.Tag, "{}", match, 1)
}

// Regexp returns the compiled pattern.
func (s Signature) Regexp() *regexp.Regexp {
	return s.re
}

// entry is a catalog row before compilation.
type entry struct {
	tag, pattern, hint string
}

// fixedEntries mirrors the did_test_succeed checks of the test harness.
// The signal entry is spliced in at its position by New.
var fixedEntries = []entry{
	{"timeout", `Timeout reached`, "Timeout reached"},
	{"memory_leak", `LeakSanitizer: detected memory leaks`, "LeakSanitizer: detected memory leaks"},
	{"asan_heap_use_after_free", `AddressSanitizer: heap-use-after-free`, "AddressSanitizer: heap-use-after-free"},
	{"asan_undefined", `AddressSanitizer: undefined-behavior`, "AddressSanitizer: undefined-behavior"},
	{"undefined_behavior", `UndefinedBehaviorSanitizer: undefined-behavior`, "UndefinedBehaviorSanitizer: undefined-behavior"},
	{"tsan", `ThreadSanitizer`, "ThreadSanitizer"},
	{"leak_check_failure", `Leak check.*detected leaks`, "Leak check"},
	{"segmentation_fault", `Segmentation fault: `, "Segmentation fault: "},
	{"gtest", `^\[  FAILED  \]`, "[  FAILED  ]"},
	{SignalTag, "", "SIG"},
	{"check_failed", `Check failed: `, "Check failed: "},
	{"java_build", `^\[INFO\] BUILD FAILURE$`, "[INFO] BUILD FAILURE"},
}

// Compile compiles a catalog pattern with grep -E -o line semantics: anchors
// match at line boundaries and alternation prefers the longest match.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?m)" + pattern)
	if err != nil {
		return nil, err
	}
	re.Longest()
	return re, nil
}
