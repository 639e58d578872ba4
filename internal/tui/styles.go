package tui

import (
	"github.com/charmbracelet/lipgloss"

	"sdklocator/internal/sdk"
)

var (
	// HeaderStyle styles titles and column header rows.
	HeaderStyle = lipgloss.NewStyle().Bold(true)
	// FaintStyle styles hints and secondary text.
	FaintStyle = lipgloss.NewStyle().Faint(true)
	// CursorStyle styles the picker cursor.
	CursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	// SelectedStyle styles the highlighted picker row.
	SelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

	statusStyles = map[string]lipgloss.Style{
		"ok":      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}

	categoryStyles = map[sdk.SourceCategory]lipgloss.Style{
		sdk.Override:         lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		sdk.InstallerRecord:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		sdk.ConventionalPath: lipgloss.NewStyle().Faint(true),
		sdk.GlobPattern:      lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// CategoryStyle returns the style used to label a candidate's origin.
func CategoryStyle(c sdk.SourceCategory) lipgloss.Style {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
