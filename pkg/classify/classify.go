// Package classify derives fail tags for failing test records by scanning the
// test log for known failure signatures.
package classify

import (
	"github.com/yugabyte/testreport/internal/logger"
	"github.com/yugabyte/testreport/pkg/report"
	"github.com/yugabyte/testreport/pkg/signature"
)

// Scanner evaluates one signature against the test log and returns its
// sorted, distinct matches.
type Scanner interface {
	Scan(sig signature.Signature) ([]string, error)
}

// Classifier applies the signature catalog to records.
type Classifier struct {
	catalog *signature.Catalog
	scanner Scanner
}

// New creates a classifier over cat, scanning with s.
func New(cat *signature.Catalog, s Scanner) *Classifier {
	return &Classifier{catalog: cat, scanner: s}
}

// Tags evaluates every signature in catalog order. Parametric signatures
// yield one tag per distinct match, others a single tag when anything
// matched. Scan errors are returned alongside the tags collected so far and
// do not stop evaluation.
func (c *Classifier) Tags() ([]string, []error) {
	var (
		tags []string
		errs []error
	)
	for _, sig := range c.catalog.Signatures() {
		matches, err := c.scanner.Scan(sig)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(matches) == 0 {
			continue
		}
		if sig.Parametric() {
			for _, m := range matches {
				tags = append(tags, sig.Expand(m))
			}
			continue
		}
		tags = append(tags, sig.Tag)
	}
	return tags, errs
}

// Apply adds fail tags to rec. Records without errors or failures are left
// alone and never scanned.
func (c *Classifier) Apply(rec *report.Record) {
	if !rec.HasFailures() {
		return
	}
	tags, errs := c.Tags()
	for _, err := range errs {
		logger.Warnf("Failure classification error for %s: %v", rec.DisplayName(), err)
		rec.AddProcessingError(err.Error())
	}
	rec.AddFailTags(tags...)
	if len(tags) > 0 {
		logger.Debugf("Fail tags for %s: %v", rec.DisplayName(), tags)
	}
}

// ApplyAll classifies every record and returns how many were scanned.
func (c *Classifier) ApplyAll(records []*report.Record) int {
	n := 0
	for _, rec := range records {
		if rec.HasFailures() {
			n++
		}
		c.Apply(rec)
	}
	return n
}
