// Package icon renders the symbols used by the CLI and the player in the
// variant picked by icons.variant.
package icon

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/key"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

type glyphs struct {
	emoji, nerd, plain, kaomoji, squares string
}

func (g glyphs) variant(name string) (string, bool) {
	switch name {
	case emoji:
		return g.emoji, true
	case nerd:
		return g.nerd, true
	case plain:
		return g.plain, true
	case kaomoji:
		return g.kaomoji, true
	case squares:
		return g.squares, true
	}
	return "", false
}

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Get renders i. Unknown variants fall back to plain.
func Get(i Icon) string {
	g, ok := icons[i]
	if !ok {
		return ""
	}
	s, ok := g.variant(viper.GetString(key.IconsVariant))
	return lo.Ternary(ok, s, g.plain)
}
