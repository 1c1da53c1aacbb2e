// Package icon renders status symbols in the variant chosen by the user.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares.
package icon

import (
	"github.com/spf13/viper"
	"github.com/urlresolver/urlresolver/key"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns every supported variant name.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol.
type Icon int

const (
	Lua Icon = iota
	Go
	Success
	Fail
	Progress
	Lock
	Link
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Lua:      {emoji: "🌙", nerd: "", plain: "Lua", kaomoji: "(=^･ω･^=)", squares: "🟦"},
	Go:       {emoji: "🐹", nerd: "", plain: "Go", kaomoji: "ʕ•ᴥ•ʔ", squares: "🟩"},
	Success:  {emoji: "🎉", nerd: "", plain: "✓", kaomoji: "(^▽^)", squares: "🟩"},
	Fail:     {emoji: "💀", nerd: "", plain: "✗", kaomoji: "(×_×)", squares: "🟥"},
	Progress: {emoji: "⏳", nerd: "", plain: "…", kaomoji: "(・_・;)", squares: "🟨"},
	Lock:     {emoji: "🔒", nerd: "", plain: "[auth]", kaomoji: "(¬_¬)", squares: "🟪"},
	Link:     {emoji: "🔗", nerd: "", plain: "->", kaomoji: "(☞ﾟ∀ﾟ)☞", squares: "🟧"},
}

func (d *iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get renders i in the configured variant. Unknown variants render as an empty string.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.get()
}
