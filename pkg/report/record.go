// Package report defines the normalized per-test-case record and writes the
// JSON test report.
package report

// Attr is a native attribute copied verbatim from a test-case entry.
type Attr struct {
	Name  string
	Value string
}

// Record is the normalized form of one test case. Count fields are omitted
// from the JSON encoding when zero; string and list fields when empty.
type Record struct {
	// Attrs holds the entry's attributes in document order.
	Attrs []Attr

	NumErrors   int
	NumFailures int
	NumSkipped  int

	// HasTime is set when the entry carried a time attribute. Time is nil
	// when that attribute could not be parsed.
	HasTime       bool
	Time          *float64
	ParsingErrors []string

	// TestName and ClassName are renamed from name and classname.
	TestName  *string
	ClassName *string

	Language          string
	CxxRelTestBinary  string
	LogPath           string
	JUnitXMLPath      string
	FatalDetailsPaths []string
	TestDescriptor    string
	ExtraErrorLogPath string

	FailTags         []string
	ProcessingErrors []string
}

// Attr returns the native attribute value.
func (r *Record) Attr(name string) (string, bool) {
	for _, a := range r.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasFailures reports whether the test errored or failed.
func (r *Record) HasFailures() bool {
	return r.NumErrors+r.NumFailures > 0
}

// Status classifies the record as "fail", "skip" or "pass".
func (r *Record) Status() string {
	switch {
	case r.HasFailures():
		return "fail"
	case r.NumSkipped > 0:
		return "skip"
	default:
		return "pass"
	}
}

// DisplayName joins class and test name.
func (r *Record) DisplayName() string {
	var class, test string
	if r.ClassName != nil {
		class = *r.ClassName
	}
	if r.TestName != nil {
		test = *r.TestName
	}
	switch {
	case class == "":
		return test
	case test == "":
		return class
	default:
		return class + "." + test
	}
}

// AddFailTags appends tags in order.
func (r *Record) AddFailTags(tags ...string) {
	r.FailTags = append(r.FailTags, tags...)
}

// AddProcessingError records a diagnostic once.
func (r *Record) AddProcessingError(msg string) {
	for _, m := range r.ProcessingErrors {
		if m == msg {
			return
		}
	}
	r.ProcessingErrors = append(r.ProcessingErrors, msg)
}
