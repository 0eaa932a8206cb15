package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yugabyte/testreport/pkg/pattern"
)

const maxNameWidth = 60

var titler = cases.Title(language.English)

var _ Renderer = (*Terminal)(nil)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.TestTable:
		return t.renderTestTable(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Title.Render(s.Label))
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.iconStyle(m.Kind)
		sb.WriteString(style.Render(icon + " " + titler.String(m.Label) + ": " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderTestTable(tt *pattern.TestTable) string {
	if len(tt.Results) == 0 {
		return ""
	}
	var sb strings.Builder
	if tt.Label != "" {
		sb.WriteString(t.theme.Title.Render(tt.Label))
		sb.WriteString("\n")
	}

	maxName, maxDur := 0, 0
	for _, r := range tt.Results {
		maxName = max(maxName, runewidth.StringWidth(r.Name))
		maxDur = max(maxDur, runewidth.StringWidth(r.Duration))
	}
	maxName = min(maxName, maxNameWidth, t.width/2)

	for _, r := range tt.Results {
		sb.WriteString("  ")
		icon, style := t.statusIconStyle(r.Status)
		sb.WriteString(style.Render(icon + " "))
		sb.WriteString(padRight(runewidth.Truncate(r.Name, maxName, "..."), maxName))

		if r.Duration != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Muted.Render(padLeft(r.Duration, maxDur)))
		}
		if len(r.Tags) > 0 {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Tag.Render("[" + strings.Join(r.Tags, " ") + "]"))
		}
		for _, d := range r.Details {
			for _, line := range strings.Split(d, "\n") {
				sb.WriteString("\n    ")
				sb.WriteString(t.theme.Warning.Render(t.theme.Icons.Note + " " + line))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case pattern.KindSuccess:
		return t.theme.Icons.Pass, t.theme.Success
	case pattern.KindError:
		return t.theme.Icons.Fail, t.theme.Error
	case pattern.KindWarning:
		return t.theme.Icons.Skip, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Muted
	}
}

func (t *Terminal) statusIconStyle(status string) (string, lipgloss.Style) {
	switch status {
	case pattern.StatusPass:
		return t.theme.Icons.Pass, t.theme.Success
	case pattern.StatusFail:
		return t.theme.Icons.Fail, t.theme.Error
	case pattern.StatusSkip:
		return t.theme.Icons.Skip, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Muted
	}
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
