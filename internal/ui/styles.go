// Package ui provides terminal styling for CLI output.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - single warm accent over neutral grays.
const (
	ColorAmber    = "214" // Primary accent - answer text, headers
	ColorAmberDim = "172" // Dimmed accent for labels
	ColorWhite    = "255" // Important text
	ColorGray     = "245" // Secondary text
	ColorDarkGray = "238" // Separators, scores
	ColorRed      = "196" // Errors
	ColorYellow   = "220" // Warnings
)

// Styles holds the styles used by CLI rendering.
type Styles struct {
	Header  lipgloss.Style
	Answer  lipgloss.Style
	Label   lipgloss.Style
	Dim     lipgloss.Style
	Score   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	SQL     lipgloss.Style
}

// DefaultStyles returns styled components for color terminals.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAmber)),
		Answer:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAmberDim)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Score:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAmber)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		SQL:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)).Italic(true),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Answer:  lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
		Score:   lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		SQL:     lipgloss.NewStyle(),
	}
}

// Select returns styles honoring the NO_COLOR convention.
func Select() Styles {
	if DetectNoColor() {
		return NoColorStyles()
	}
	return DefaultStyles()
}

// DetectNoColor checks whether the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
