// Package printer provides styled console output.
package printer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	faintStyle   = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // Red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan
)

var noColor bool

// SetNoColor disables all styling; render functions return their input
// unchanged. Used for --no-color and non-TTY output.
func SetNoColor(disable bool) {
	noColor = disable
}

func render(style lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return style.Render(text)
}

// Faint returns text with faint styling.
func Faint(text string) string { return render(faintStyle, text) }

// Bold returns text with bold styling.
func Bold(text string) string { return render(boldStyle, text) }

// Success returns text with success (green) styling.
func Success(text string) string { return render(successStyle, text) }

// Error returns text with error (red) styling.
func Error(text string) string { return render(errorStyle, text) }

// Warning returns text with warning (yellow) styling.
func Warning(text string) string { return render(warningStyle, text) }

// Info returns text with info (cyan) styling.
func Info(text string) string { return render(infoStyle, text) }

// PrintFaint prints text with faint styling.
func PrintFaint(text string) { fmt.Println(Faint(text)) }

// PrintBold prints text with bold styling.
func PrintBold(text string) { fmt.Println(Bold(text)) }

// PrintSuccess prints text with success (green) styling.
func PrintSuccess(text string) { fmt.Println(Success(text)) }

// PrintError prints text with error (red) styling.
func PrintError(text string) { fmt.Println(Error(text)) }

// PrintWarning prints text with warning (yellow) styling.
func PrintWarning(text string) { fmt.Println(Warning(text)) }

// PrintInfo prints text with info (cyan) styling.
func PrintInfo(text string) { fmt.Println(Info(text)) }
