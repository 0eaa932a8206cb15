package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yugabyte/testreport/pkg/pattern"
	"github.com/yugabyte/testreport/pkg/report"
)

func strptr(s string) *string { return &s }

func floatptr(f float64) *float64 { return &f }

func TestFromRecords_FailingFirst(t *testing.T) {
	records := []*report.Record{
		{TestName: strptr("ok"), ClassName: strptr("Foo"), Time: floatptr(0.25)},
		{TestName: strptr("skipped"), ClassName: strptr("Foo"), NumSkipped: 1},
		{
			TestName: strptr("broken"), ClassName: strptr("Foo"), NumFailures: 1, Time: floatptr(12.5),
			FailTags:         []string{"timeout", "signal_SIGABRT"},
			ProcessingErrors: []string{"scanning foo.log for tsan: boom"},
		},
	}

	patterns := FromRecords("foo-test", records)
	require.Len(t, patterns, 2)

	sum, ok := patterns[0].(*pattern.Summary)
	require.True(t, ok)
	assert.Equal(t, "FAIL 1/3 tests foo-test (12.8s)", sum.Label)
	require.Len(t, sum.Metrics, 4)
	assert.Equal(t, pattern.SummaryItem{Label: "failed", Value: "1/3 tests", Kind: pattern.KindError}, sum.Metrics[0])
	assert.Equal(t, pattern.KindInfo, sum.Metrics[1].Kind)
	assert.Equal(t, "signal_SIGABRT, timeout", sum.Metrics[3].Value)

	table, ok := patterns[1].(*pattern.TestTable)
	require.True(t, ok)
	require.Len(t, table.Results, 3)
	assert.Equal(t, "Foo.broken", table.Results[0].Name)
	assert.Equal(t, "12.5s", table.Results[0].Duration)
	assert.Equal(t, []string{"timeout", "signal_SIGABRT"}, table.Results[0].Tags)
	assert.Equal(t, []string{"scanning foo.log for tsan: boom"}, table.Results[0].Details)
	assert.Equal(t, pattern.StatusSkip, table.Results[1].Status)
	assert.Equal(t, "Foo.ok", table.Results[2].Name)
	assert.Equal(t, "250ms", table.Results[2].Duration)
}

func TestFromRecords_AllPass(t *testing.T) {
	patterns := FromRecords("", []*report.Record{{TestName: strptr("a")}})
	sum := patterns[0].(*pattern.Summary)
	assert.Equal(t, "PASS (0s)", sum.Label)
	require.Len(t, sum.Metrics, 1)
	assert.Equal(t, pattern.KindSuccess, sum.Metrics[0].Kind)
}

func TestFromRecords_Empty(t *testing.T) {
	patterns := FromRecords("", nil)
	require.Len(t, patterns, 1)
	assert.Equal(t, "NO TESTS (0s)", patterns[0].(*pattern.Summary).Label)
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats([]*report.Record{
		{NumErrors: 1, FailTags: []string{"gtest", "timeout"}},
		{NumFailures: 2, FailTags: []string{"gtest"}},
		{NumSkipped: 1},
		{},
	})
	assert.Equal(t, Stats{Total: 4, Passed: 1, Failed: 2, Skipped: 1, FailTags: []string{"gtest", "timeout"}}, s)
}
