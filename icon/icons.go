package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Warn
	Live
	Movie
	Series
	Favorite
	Recent
	Play
	Pause
	Volume
	Mute
	Brightness
	Seek
	Fullscreen
	Settings
	Quality
	Info
	Archive
)

var icons = map[Icon]glyphs{
	Success:    {emoji: "✅", nerd: "\uf00c", plain: "✓", kaomoji: "(ᵔᴥᵔ)", squares: "🟩"},
	Fail:       {emoji: "❌", nerd: "\uf00d", plain: "✗", kaomoji: "(╯°□°)╯", squares: "🟥"},
	Progress:   {emoji: "⏳", nerd: "\uf110", plain: "~", kaomoji: "(・_・)", squares: "🟦"},
	Warn:       {emoji: "⚠️", nerd: "\uf071", plain: "!", kaomoji: "(°ロ°)", squares: "🟨"},
	Live:       {emoji: "📺", nerd: "\uf26c", plain: "●", kaomoji: "(◉_◉)", squares: "🟥"},
	Movie:      {emoji: "🎬", nerd: "\uf008", plain: "▶", kaomoji: "(￣▽￣)", squares: "🟪"},
	Series:     {emoji: "🎞️", nerd: "\uf03a", plain: "≡", kaomoji: "(・ω・)", squares: "🟫"},
	Favorite:   {emoji: "⭐", nerd: "\uf005", plain: "*", kaomoji: "(♥ω♥)", squares: "🟨"},
	Recent:     {emoji: "🕘", nerd: "\uf1da", plain: "@", kaomoji: "(¬‿¬)", squares: "⬜"},
	Play:       {emoji: "▶️", nerd: "\uf04b", plain: ">", kaomoji: "ᕕ(ᐛ)ᕗ", squares: "🟩"},
	Pause:      {emoji: "⏸️", nerd: "\uf04c", plain: "||", kaomoji: "(-_-)zzz", squares: "⬛"},
	Volume:     {emoji: "🔊", nerd: "\uf028", plain: "vol", kaomoji: "(o^▽^o)", squares: "🟦"},
	Mute:       {emoji: "🔇", nerd: "\uf026", plain: "mute", kaomoji: "(´-ω-`)", squares: "⬛"},
	Brightness: {emoji: "☀️", nerd: "\uf185", plain: "bri", kaomoji: "(☀‿☀)", squares: "🟨"},
	Seek:       {emoji: "⏩", nerd: "\uf04e", plain: ">>", kaomoji: "ε=ε=(ノ≧∇≦)ノ", squares: "🟧"},
	Fullscreen: {emoji: "🔲", nerd: "\uf065", plain: "[ ]", kaomoji: "(⌐■_■)", squares: "⬜"},
	Settings:   {emoji: "⚙️", nerd: "\uf013", plain: "#", kaomoji: "(・・?)", squares: "⬜"},
	Quality:    {emoji: "📶", nerd: "\uf012", plain: "net", kaomoji: "(•̀ᴗ•́)", squares: "🟩"},
	Info:       {emoji: "ℹ️", nerd: "\uf05a", plain: "i", kaomoji: "(ʘ‿ʘ)", squares: "🟦"},
	Archive:    {emoji: "⏪", nerd: "\uf04a", plain: "<<", kaomoji: "(⊙_⊙)", squares: "🟧"},
}
