// Package style composes the lipgloss styles shared by the CLI and the player.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xtplay/xtplay/color"
)

// Player palette.
var (
	Base   = lipgloss.Color("#1e1e2e")
	Text   = lipgloss.Color("#cdd6f4")
	Border = lipgloss.Color("#313244")
	Accent = lipgloss.Color("#cba6f7")
	Alert  = lipgloss.Color("#f38ba8")
)

// New returns an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer that colors text.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Tag returns a renderer for a padded label on a colored background.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(fg).Background(bg).Padding(0, 1).Render(s) }
}

var (
	Title      = Tag(color.New("230"), color.New("62"))
	ErrorTitle = Tag(color.New("230"), color.Red)
	LiveTag    = Tag(color.New("230"), color.Red)
)

// Box returns a rounded panel with the given border color.
func Box(border lipgloss.Color) lipgloss.Style {
	return New().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
}
