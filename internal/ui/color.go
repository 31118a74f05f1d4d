// Package ui holds the terminal colours and tables shared by attend commands
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// DarkTheme selects the light variants of the pterm colours.
var DarkTheme bool

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Magenta(a any) string {
	if DarkTheme {
		return pterm.LightMagenta(a)
	}

	return pterm.Magenta(a)
}

func Blue(a any) string {
	if DarkTheme {
		return pterm.LightBlue(a)
	}

	return pterm.Blue(a)
}

func Red(a any) string {
	if DarkTheme {
		return pterm.LightRed(a)
	}

	return pterm.Red(a)
}

// Paint renders a in the hex colour c.
func Paint(c string, a any) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(c)).
		Render(fmt.Sprint(a))
}

// Swatch renders a in black on a background of the hex colour c.
func Swatch(c string, a any) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c)).
		Foreground(lipgloss.Color("#000000")).
		Render(fmt.Sprint(a))
}
