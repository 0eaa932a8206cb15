// Package mapper converts test report records into visualization patterns.
package mapper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yugabyte/testreport/pkg/pattern"
	"github.com/yugabyte/testreport/pkg/report"
)

// Stats aggregates the records of one report.
type Stats struct {
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
	FailTags []string // distinct, sorted
}

// ComputeStats aggregates records.
func ComputeStats(records []*report.Record) Stats {
	var s Stats
	seen := make(map[string]bool)
	for _, r := range records {
		s.Total++
		switch r.Status() {
		case pattern.StatusFail:
			s.Failed++
		case pattern.StatusSkip:
			s.Skipped++
		default:
			s.Passed++
		}
		if r.Time != nil {
			s.Duration += secondsToDuration(*r.Time)
		}
		for _, tag := range r.FailTags {
			if !seen[tag] {
				seen[tag] = true
				s.FailTags = append(s.FailTags, tag)
			}
		}
	}
	sort.Strings(s.FailTags)
	return s
}

// FromRecords returns a Summary followed by one TestTable of the records in
// report order, failing records first.
func FromRecords(label string, records []*report.Record) []pattern.Pattern {
	stats := ComputeStats(records)
	patterns := []pattern.Pattern{testSummary(label, stats)}

	items := make([]pattern.TestTableItem, 0, len(records))
	for _, r := range records {
		items = append(items, tableItem(r))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return statusPriority(items[i].Status) < statusPriority(items[j].Status)
	})
	if len(items) > 0 {
		patterns = append(patterns, &pattern.TestTable{
			Label:   fmt.Sprintf("Test cases (%d)", len(items)),
			Results: items,
		})
	}
	return patterns
}

func testSummary(label string, s Stats) *pattern.Summary {
	var metrics []pattern.SummaryItem

	if s.Failed > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "failed", Value: fmt.Sprintf("%d/%d tests", s.Failed, s.Total), Kind: pattern.KindError,
		})
	}
	if s.Passed > 0 {
		kind := pattern.KindSuccess
		if s.Failed > 0 {
			kind = pattern.KindInfo
		}
		metrics = append(metrics, pattern.SummaryItem{
			Label: "passed", Value: fmt.Sprintf("%d/%d tests", s.Passed, s.Total), Kind: kind,
		})
	}
	if s.Skipped > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "skipped", Value: fmt.Sprintf("%d", s.Skipped), Kind: pattern.KindWarning,
		})
	}
	if len(s.FailTags) > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "fail tags", Value: strings.Join(s.FailTags, ", "), Kind: pattern.KindError,
		})
	}

	status := "PASS"
	switch {
	case s.Failed > 0:
		status = fmt.Sprintf("FAIL %d/%d tests", s.Failed, s.Total)
	case s.Total == 0:
		status = "NO TESTS"
	}
	if label != "" {
		status += " " + label
	}
	return &pattern.Summary{
		Label:   fmt.Sprintf("%s (%s)", status, formatDuration(s.Duration)),
		Metrics: metrics,
	}
}

func tableItem(r *report.Record) pattern.TestTableItem {
	item := pattern.TestTableItem{
		Name:   r.DisplayName(),
		Status: r.Status(),
		Tags:   append([]string(nil), r.FailTags...),
	}
	if item.Name == "" {
		item.Name = "(unnamed)"
	}
	if r.Time != nil {
		item.Duration = formatDuration(secondsToDuration(*r.Time))
	}
	item.Details = append(item.Details, r.ParsingErrors...)
	item.Details = append(item.Details, r.ProcessingErrors...)
	return item
}

func statusPriority(status string) int {
	switch status {
	case pattern.StatusFail:
		return 0
	case pattern.StatusSkip:
		return 1
	default:
		return 2
	}
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
