package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#00FF00"})

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#AA6600", Dark: "#FFAA00"})

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"})

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"})

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#00AAFF"})
)

func Success(msg string) {
	fmt.Println(successStyle.Render("✓"), msg)
}

func Info(msg string) {
	fmt.Println(infoStyle.Render(msg))
}

func Warn(msg string) {
	fmt.Println(warnStyle.Render("!"), msg)
}

func Fail(msg string) {
	fmt.Println(failStyle.Render("✗"), msg)
}

// Command prints the exact command line about to be executed or injected.
// Operators read this trace to see precisely what ran where; only the
// color is decoration, never the content.
func Command(line string) {
	fmt.Println(commandStyle.Render(line))
}
