package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name       string
	Base       lipgloss.Style
	Border     lipgloss.Color
	Header     lipgloss.Style
	Task       lipgloss.Style
	ActiveTask lipgloss.Style
	Work       lipgloss.Style
	ShortBreak lipgloss.Style
	LongBreak  lipgloss.Style
	Input      lipgloss.Style
	Focused    lipgloss.Style
	Dim        lipgloss.Style
	Highlight  lipgloss.Style
	Error      lipgloss.Style
}

var Themes = map[string]Theme{
	"default": {
		Name:       "Default",
		Base:       lipgloss.NewStyle().Margin(1, 2),
		Border:     lipgloss.Color("63"),
		Header:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Align(lipgloss.Center),
		Task:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ActiveTask: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Work:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		ShortBreak: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		LongBreak:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Input:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1).Width(50),
		Focused:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Highlight:  lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	},
	"dracula": {
		Name:       "Dracula",
		Base:       lipgloss.NewStyle().Margin(1, 2),
		Border:     lipgloss.Color("62"),                                                                   // Purple
		Header:     lipgloss.NewStyle().Foreground(lipgloss.Color("50")).Bold(true).Align(lipgloss.Center), // Cyan
		Task:       lipgloss.NewStyle().Foreground(lipgloss.Color("255")),                                  // White
		ActiveTask: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),                       // Pink
		Work:       lipgloss.NewStyle().Foreground(lipgloss.Color("120")),                                  // Green
		ShortBreak: lipgloss.NewStyle().Foreground(lipgloss.Color("60")),                                   // Comment
		LongBreak:  lipgloss.NewStyle().Foreground(lipgloss.Color("141")),                                  // Purple
		Input:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("50")).Padding(0, 1).Width(50),
		Focused:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
		Highlight:  lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true), // Red
	},
}

// CurrentTheme holds the currently active theme.
var CurrentTheme = Themes["default"]

// SetTheme switches the active theme; unknown names are ignored.
func SetTheme(name string) {
	if t, ok := Themes[name]; ok {
		CurrentTheme = t
	}
}

// KindStyle returns the history strip style for an interval kind.
func (t Theme) KindStyle(kind string) lipgloss.Style {
	switch kind {
	case "short_break":
		return t.ShortBreak
	case "long_break":
		return t.LongBreak
	default:
		return t.Work
	}
}
