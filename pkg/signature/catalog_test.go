package signature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yugabyte/testreport/pkg/signature"
)

func TestDefault_OrderAndTags(t *testing.T) {
	t.Parallel()

	cat := signature.Default()
	var tags []string
	for _, s := range cat.Signatures() {
		tags = append(tags, s.Tag)
	}
	assert.Equal(t, []string{
		"timeout",
		"memory_leak",
		"asan_heap_use_after_free",
		"asan_undefined",
		"undefined_behavior",
		"tsan",
		"leak_check_failure",
		"segmentation_fault",
		"gtest",
		"signal_{}",
		"check_failed",
		"java_build",
	}, tags)
	assert.Equal(t, 12, cat.Len())
}

func TestDefault_SignalEntry(t *testing.T) {
	t.Parallel()

	sig, ok := signature.Default().Lookup(signature.SignalTag)
	require.True(t, ok)
	assert.True(t, sig.Parametric())
	assert.Equal(t, "signal_SIGSEGV", sig.Expand("SIGSEGV"))
	assert.Contains(t, sig.Pattern, "SIGABRT|")
	assert.NotContains(t, sig.Pattern, "SIG_")
}

func TestSignalEntry_PrefersLongestAlternative(t *testing.T) {
	t.Parallel()

	sig, ok := signature.Default().Lookup(signature.SignalTag)
	require.True(t, ok)

	got := sig.Regexp().FindAllString("received SIGIOT then SIGIO", -1)
	assert.Equal(t, []string{"SIGIOT", "SIGIO"}, got)
}

func TestGtestPattern_AnchorsAtLineStart(t *testing.T) {
	t.Parallel()

	sig, ok := signature.Default().Lookup("gtest")
	require.True(t, ok)

	assert.True(t, sig.Regexp().MatchString("[ RUN      ] A.B\n[  FAILED  ] A.B (3 ms)\n"))
	assert.False(t, sig.Regexp().MatchString("note: [  FAILED  ] in the middle"))
}

func TestJavaBuildPattern_AnchorsBothEnds(t *testing.T) {
	t.Parallel()

	sig, ok := signature.Default().Lookup("java_build")
	require.True(t, ok)

	assert.True(t, sig.Regexp().MatchString("[INFO] ---\n[INFO] BUILD FAILURE\n[INFO] ---"))
	assert.False(t, sig.Regexp().MatchString("[INFO] BUILD FAILURE (partial)"))
}

func TestLeakCheckPattern_DoesNotCrossLines(t *testing.T) {
	t.Parallel()

	sig, ok := signature.Default().Lookup("leak_check_failure")
	require.True(t, ok)

	assert.True(t, sig.Regexp().MatchString("Leak check main detected leaks"))
	assert.False(t, sig.Regexp().MatchString("Leak check main\ndetected leaks"))
}

func TestNew_CustomSignals(t *testing.T) {
	t.Parallel()

	cat, err := signature.New([]string{"SIGSEGV", " SIGABRT ", "SIGSEGV"})
	require.NoError(t, err)

	assert.Equal(t, []string{"SIGSEGV", "SIGABRT"}, cat.Signals())
	sig, ok := cat.Lookup(signature.SignalTag)
	require.True(t, ok)
	assert.Equal(t, "SIGSEGV|SIGABRT", sig.Pattern)
}

func TestNew_RejectsInvalidSignals(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"SIG_DFL", "sigsegv", "SEGV", "SIG", "SIG.*"} {
		_, err := signature.New([]string{name})
		assert.ErrorIs(t, err, signature.ErrInvalidSignal, name)
	}
}

func TestHints_Distinct(t *testing.T) {
	t.Parallel()

	hints := signature.Default().Hints()
	assert.Len(t, hints, 12)
	assert.Contains(t, hints, "SIG")
	assert.Contains(t, hints, "Leak check")
}
