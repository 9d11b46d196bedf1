package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/icon"
	"github.com/xtplay/xtplay/style"
)

// listItem implements the list.Item interface for catalog entries.
type listItem struct {
	item     catalog.Item
	favorite bool
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() string {
	var sb strings.Builder

	sb.WriteString(kindIcon(t.item.Kind))
	sb.WriteString(" ")
	sb.WriteString(t.item.Name)

	if t.item.DVR {
		sb.WriteString(" ")
		sb.WriteString(style.Faint(icon.Get(icon.Archive)))
	}

	if t.favorite {
		sb.WriteString(" ")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(style.Accent).Render(icon.Get(icon.Favorite)))
	}

	return sb.String()
}

// Description retrieves the secondary line for the list item.
func (t *listItem) Description() string {
	return t.item.Category
}

// FilterValue is matched against the filter query.
func (t *listItem) FilterValue() string {
	return t.item.Name
}

func kindIcon(kind catalog.Kind) string {
	switch kind {
	case catalog.Live:
		return icon.Get(icon.Live)
	case catalog.Movie:
		return icon.Get(icon.Movie)
	default:
		return icon.Get(icon.Series)
	}
}

// fuzzyFilter ranks items the way the catalog command line filter does.
func fuzzyFilter(term string, targets []string) []list.Rank {
	ranks := fuzzy.RankFindNormalizedFold(term, targets)
	sort.Stable(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) list.Rank {
		return list.Rank{Index: r.OriginalIndex}
	})
}
