package junit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yugabyte/testreport/pkg/report"
)

// Element and attribute names of the result-document schema.
const (
	elemTestCase = "testcase"
	elemError    = "error"
	elemFailure  = "failure"
	elemSkipped  = "skipped"

	attrTestName  = "name"
	attrClassName = "classname"
	attrTime      = "time"
	attrStatus    = "status"
	statusNotRun  = "notrun"
)

// NormalizeFile parses the document at path and normalizes its test cases.
func NormalizeFile(path string) ([]*report.Record, error) {
	root, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Normalize(root), nil
}

// Normalize returns one record per testcase element, in document order.
func Normalize(root *Element) []*report.Record {
	cases := root.Find(elemTestCase)
	records := make([]*report.Record, 0, len(cases))
	for _, tc := range cases {
		records = append(records, NormalizeCase(tc))
	}
	return records
}

// NormalizeCase builds the record for a single testcase element.
//
// gtest reports a disabled test as status="notrun" without a skipped child,
// so that status counts as one skip on top of any skipped elements.
func NormalizeCase(tc *Element) *report.Record {
	rec := &report.Record{Attrs: make([]report.Attr, 0, len(tc.Attrs))}
	for _, a := range tc.Attrs {
		rec.Attrs = append(rec.Attrs, report.Attr{Name: a.Name, Value: a.Value})
	}

	rec.NumErrors = tc.CountDescendants(elemError)
	rec.NumFailures = tc.CountDescendants(elemFailure)
	rec.NumSkipped = tc.CountDescendants(elemSkipped)
	if status, _ := tc.Attr(attrStatus); status == statusNotRun {
		rec.NumSkipped++
	}

	if raw, ok := tc.Attr(attrTime); ok {
		rec.HasTime = true
		secs, err := ParseTime(raw)
		if err != nil {
			rec.ParsingErrors = append(rec.ParsingErrors,
				fmt.Sprintf("Could not parse time: %s. Error: %v", cleanTime(raw), err))
		} else {
			rec.Time = &secs
		}
	}

	if name, ok := tc.Attr(attrTestName); ok {
		rec.TestName = &name
	}
	if class, ok := tc.Attr(attrClassName); ok {
		rec.ClassName = &class
	}
	return rec
}

// ParseTime parses a duration in seconds, tolerating thousands separators
// such as "1,275.516".
func ParseTime(raw string) (float64, error) {
	s := cleanTime(raw)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			return 0, fmt.Errorf("could not convert %q to float: %w", s, ne.Err)
		}
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func cleanTime(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
}
