// Package tui provides the terminal user interface: a catalog browser and the
// player screen, where mouse drags act as touch gestures.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/session"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Title and Items fill the browser. They are ignored when Target is set.
	Title string
	Items []catalog.Item

	// Target starts playback right away; leaving the player quits.
	Target mo.Option[session.Target]

	// Resolve turns a selected item into a playable target.
	Resolve func(catalog.Item) (session.Target, error)
	// Expand lists the episodes of a series.
	Expand func(context.Context, catalog.Item) ([]catalog.Item, error)
	// Deps builds the engine and the other collaborators of a player session.
	// The terminal display is filled in when Display is left nil.
	Deps func(session.Target) (session.Deps, error)

	Config      session.Config
	MaxRestarts int

	// CellWidth and CellHeight are the pixels a terminal cell counts for in gestures.
	CellWidth, CellHeight float64
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)

	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithMouseCellMotion())
	bubble.send = program.Send

	_, err := program.Run()
	bubble.closePlayer()
	return err
}
