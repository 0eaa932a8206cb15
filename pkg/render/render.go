// Package render provides output renderers for the test report summary.
package render

import "github.com/yugabyte/testreport/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
