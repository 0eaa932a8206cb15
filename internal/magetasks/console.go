package magetasks

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Out receives all task output.
var Out io.Writer = os.Stdout

const headerWidth = 80

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// PrintH1Header prints a top-level header with decoration.
func PrintH1Header(title string) {
	rule := strings.Repeat("=", headerWidth)
	padding := max((headerWidth-len(title))/2, 0)
	fmt.Fprintf(Out, "\n%s\n%s%s\n%s\n\n", rule, strings.Repeat(" ", padding), headerStyle.Render(title), rule)
}

// PrintH2Header prints a section header.
func PrintH2Header(title string) {
	fmt.Fprintf(Out, "\n=== %s ===\n\n", headerStyle.Render(title))
}

// PrintSuccess prints a success message.
func PrintSuccess(msg string) {
	fmt.Fprintln(Out, successStyle.Render("✅ "+msg))
}

// PrintWarning prints a warning message.
func PrintWarning(msg string) {
	fmt.Fprintln(Out, warningStyle.Render("⚠️  "+msg))
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Fprintln(Out, errorStyle.Render("❌ "+msg))
}

// PrintInfo prints an info message.
func PrintInfo(msg string) {
	fmt.Fprintf(Out, "ℹ️  %s\n", msg)
}
