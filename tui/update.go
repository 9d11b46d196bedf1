package tui

import (
	"context"
	"fmt"
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/favorites"
	"github.com/xtplay/xtplay/internal/ui"
)

const expandTimeout = 30 * time.Second

// Init starts playback right away when a target was given.
func (b *statefulBubble) Init() tea.Cmd {
	if target, ok := b.options.Target.Get(); ok {
		b.progressStatus = "Starting " + target.Title
		return b.play(target)
	}
	return nil
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		b.refresh()
		return b, cmd
	case postMsg:
		msg()
		b.refresh()
		return b, cmd
	case frameMsg:
		if b.supervisor == nil {
			b.ticking = false
			return b, cmd
		}
		b.refresh()
		return b, tea.Batch(cmd, b.frame())
	case spinner.TickMsg:
		var spin tea.Cmd
		b.spinnerC, spin = b.spinnerC.Update(msg)
		return b, tea.Batch(cmd, spin)
	case errorMsg:
		b.raiseError(msg.err)
		return b, cmd
	case episodesMsg:
		// the user backed out while they loaded
		if b.state != loadingState {
			return b, cmd
		}
		b.pushLevel(level(msg))
		b.newState(browseState)
		return b, cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			b.closePlayer()
			return b, tea.Quit
		}
	}

	var stateCmd tea.Cmd
	switch b.state {
	case loadingState:
		stateCmd = b.updateLoading(msg)
	case browseState:
		stateCmd = b.updateBrowse(msg)
	case playerState:
		stateCmd = b.updatePlayer(msg)
	case errorState:
		stateCmd = b.updateError(msg)
	}

	return b, tea.Batch(cmd, stateCmd)
}

func (b *statefulBubble) updateLoading(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.back) {
		if !b.previousState() {
			return tea.Quit
		}
	}
	return nil
}

func (b *statefulBubble) updateBrowse(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && b.itemsC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back) && b.itemsC.FilterState() == list.Unfiltered:
			if !b.popLevel() {
				return tea.Quit
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if selected, ok := b.itemsC.SelectedItem().(*listItem); ok {
				return b.open(selected.item)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.favorite):
			if selected, ok := b.itemsC.SelectedItem().(*listItem); ok {
				return b.toggleItemFavorite(selected)
			}
			return nil
		}
	}

	b.itemsC, cmd = b.itemsC.Update(msg)
	return cmd
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handlePlayerKey(msg)
	case tea.MouseMsg:
		b.handlePlayerMouse(msg)
	}
	return nil
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.back):
			if !b.previousState() {
				return tea.Quit
			}
		}
	}
	return nil
}

// open plays item, or lists its episodes when it is a series.
func (b *statefulBubble) open(item catalog.Item) tea.Cmd {
	if item.Kind == catalog.Series {
		if b.options.Expand == nil {
			return ui.Notify("Episodes are not available here")
		}

		b.progressStatus = "Fetching episodes of " + item.Name
		b.newState(loadingState)
		expand := b.options.Expand
		return tea.Batch(b.spinnerC.Tick, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), expandTimeout)
			defer cancel()

			episodes, err := expand(ctx, item)
			if err != nil {
				return errorMsg{err: fmt.Errorf("episodes of %s: %w", item.Name, err)}
			}
			return episodesMsg{title: item.Name, items: episodes}
		})
	}

	if b.options.Resolve == nil {
		return ui.Notify("Nothing can play this item")
	}

	target, err := b.options.Resolve(item)
	if err != nil {
		b.raiseError(err)
		return nil
	}

	b.progressStatus = "Starting " + target.Title
	return b.play(target)
}

func (b *statefulBubble) toggleItemFavorite(selected *listItem) tea.Cmd {
	kind, err := favorites.ParseKind(string(selected.item.Kind))
	if err != nil {
		return ui.Notify("Episodes cannot be favorites")
	}

	if selected.favorite {
		if _, err := favorites.Remove(kind, selected.item.ID); err != nil {
			return ui.Notify("Favorites unavailable: " + err.Error())
		}
		selected.favorite = false
		return ui.Notify("Removed " + selected.item.Name + " from favorites")
	}

	err = favorites.Add(favorites.Favorite{
		ID:      selected.item.ID,
		Kind:    kind,
		Name:    selected.item.Name,
		AddedAt: time.Now(),
	})
	if err != nil {
		return ui.Notify("Favorites unavailable: " + err.Error())
	}
	selected.favorite = true
	return ui.Notify("Added " + selected.item.Name + " to favorites")
}
