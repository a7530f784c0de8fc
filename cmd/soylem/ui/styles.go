// Package ui provides the visual styling for the soylem interactive CLI.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Primary = lipgloss.Color("#2196F3") // Blue
	Accent  = lipgloss.Color("#8BC34A") // Lime Green
	Muted   = lipgloss.Color("#6c7a89")
	Border  = lipgloss.Color("#2a3850")

	// Semantic colors
	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#FFC107")
)

// Styles holds the precomputed lipgloss styles for the chat view.
type Styles struct {
	Bold           lipgloss.Style
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserInput      lipgloss.Style
	MutedText      lipgloss.Style
	ErrorText      lipgloss.Style
	WarningText    lipgloss.Style
	Footer         lipgloss.Style
	InputBox       lipgloss.Style
}

// NewStyles builds the default style set.
func NewStyles() Styles {
	return Styles{
		Bold:           lipgloss.NewStyle().Bold(true),
		UserLabel:      lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginTop(1),
		AssistantLabel: lipgloss.NewStyle().Bold(true).Foreground(Accent).MarginTop(1),
		UserInput:      lipgloss.NewStyle().Foreground(lipgloss.Color("#f2f2f2")),
		MutedText:      lipgloss.NewStyle().Foreground(Muted),
		ErrorText:      lipgloss.NewStyle().Foreground(Destructive),
		WarningText:    lipgloss.NewStyle().Foreground(Warning),
		Footer:         lipgloss.NewStyle().Foreground(Muted).BorderTop(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(Border),
		InputBox:       lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1),
	}
}
