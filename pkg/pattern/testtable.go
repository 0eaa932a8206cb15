package pattern

// TestTable represents test results with status and timing.
type TestTable struct {
	Label   string
	Results []TestTableItem
}

// TestTableItem is a single test case result.
type TestTableItem struct {
	Name     string   // class.test
	Status   string   // "pass", "fail", "skip"
	Duration string   // formatted duration
	Tags     []string // fail tags
	Details  []string // parsing and processing diagnostics
}

// Test statuses.
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusSkip = "skip"
)

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
