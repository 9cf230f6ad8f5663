package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// FGC corporate green
const accentColor = "34"

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Theme is huh's Charm theme recoloured with the accent
func Theme() *huh.Theme {
	t := huh.ThemeCharm()
	p := lipgloss.Color(accentColor)

	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(p).Padding(0, 1)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(p)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(p)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(p)

	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	return t
}
