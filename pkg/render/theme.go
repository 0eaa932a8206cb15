package render

import "github.com/charmbracelet/lipgloss"

// Theme defines colors and icons for terminal rendering.
type Theme struct {
	Name    string
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Tag     lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Pass string
	Fail string
	Skip string
	Info string
	Note string
}

// ThemeNames lists the built-in themes.
var ThemeNames = []string{"default", "orca", "mono"}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")), // blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),            // green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),           // orange
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),           // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")),           // gray
		Tag:     lipgloss.NewStyle().Foreground(lipgloss.Color("213")),           // pink
		Icons: ThemeIcons{
			Pass: "✓",
			Fail: "✗",
			Skip: "○",
			Info: "●",
			Note: "⚠",
		},
	}
}

// OrcaTheme returns a muted, professional theme.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")), // pale blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("108")),           // sage green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("179")),           // muted gold
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("167")),           // muted red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),           // lighter gray
		Tag:     lipgloss.NewStyle().Foreground(lipgloss.Color("139")),           // dusty mauve
		Icons: ThemeIcons{
			Pass: "✓",
			Fail: "✗",
			Skip: "○",
			Info: "·",
			Note: "!",
		},
	}
}

// MonoTheme returns a monochrome theme with ASCII icons.
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Title:   lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Tag:     lipgloss.NewStyle(),
		Icons: ThemeIcons{
			Pass: "+",
			Fail: "x",
			Skip: "-",
			Info: "*",
			Note: "!",
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}

// SelectTheme picks the theme for the summary. Output that is not a terminal
// always gets the mono theme.
func SelectTheme(name string, isTTY bool) Theme {
	if !isTTY {
		return MonoTheme()
	}
	return ThemeByName(name)
}
