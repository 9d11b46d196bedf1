package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/xtplay/xtplay/catalog"
	"github.com/xtplay/xtplay/favorites"
	"github.com/xtplay/xtplay/internal/ui"
	"github.com/xtplay/xtplay/log"
	"github.com/xtplay/xtplay/session"
	"github.com/xtplay/xtplay/style"
	"github.com/xtplay/xtplay/util"
)

// level is one page of the browser: a section listing or the episodes of a series.
type level struct {
	title string
	items []catalog.Item
}

// statefulBubble encapsulates the application state, its component models and the player.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	levels        util.Stack[level]

	keymap *statefulKeymap

	spinnerC  spinner.Model
	itemsC    list.Model
	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	supervisor   *session.Supervisor
	cancelPlayer context.CancelFunc
	display      *terminalDisplay
	pointer      pointer
	view         session.View
	ticking      bool

	// send delivers a message to the running program. Nil in tests, where
	// posted work runs inline.
	send func(tea.Msg)

	progressStatus string
	lastError      error
	cols, rows     int
	width, height  int

	options *Options
}

// postMsg carries work for the player session onto the Update goroutine.
type postMsg func()

// frameMsg redraws the player while fades run.
type frameMsg time.Time

type episodesMsg level

type errorMsg struct {
	err error
}

const frameInterval = 50 * time.Millisecond

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) raiseError(err error) {
	log.Errorf("tui: %s", err)
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering where it came from unless that was a transient state.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains([]state{loadingState, errorState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// previousState returns to the last remembered state. It reports false when
// there is nowhere to go, which quits the program.
func (b *statefulBubble) previousState() bool {
	s, ok := b.statesHistory.Pop()
	if !ok {
		return false
	}
	b.setState(s)
	return true
}

// pushLevel shows items in the browser.
func (b *statefulBubble) pushLevel(l level) {
	b.levels.Push(l)
	b.showLevel(l)
}

// popLevel goes back to the previous listing. It reports false on the first one.
func (b *statefulBubble) popLevel() bool {
	if b.levels.Len() <= 1 {
		return false
	}
	b.levels.Pop()
	l, _ := b.levels.Peek()
	b.showLevel(l)
	return true
}

func (b *statefulBubble) showLevel(l level) {
	saved := map[string]bool{}
	for _, kind := range []favorites.Kind{favorites.Live, favorites.Movie, favorites.Series} {
		favs, err := favorites.List(kind)
		if err != nil {
			log.Warnf("tui: favorites: %s", err)
			continue
		}
		for _, f := range favs {
			saved[favoriteKey(catalog.Kind(f.Kind), f.ID)] = true
		}
	}

	items := lo.Map(l.items, func(item catalog.Item, _ int) list.Item {
		return &listItem{item: item, favorite: saved[favoriteKey(item.Kind, item.ID)]}
	})

	b.itemsC.ResetFilter()
	b.itemsC.Title = l.title
	b.itemsC.SetItems(items)
	b.itemsC.Select(0)
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(cols, rows int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.cols, b.rows = cols, rows
	b.width, b.height = cols-x, rows-y

	b.itemsC.SetSize(cols-xx, rows-yy)
	b.itemsC.Help.Width = cols - xx
	b.progressC.Width = max(b.width-24, 10)
	b.helpC.Width = b.width

	b.resizePlayer()
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		levels:        util.Stack[level]{},
		keymap:        keymap,
		notifier:      &ui.Model{},
		pointer: pointer{
			cellWidth:  lo.Ternary(options.CellWidth > 0, options.CellWidth, 8),
			cellHeight: lo.Ternary(options.CellHeight > 0, options.CellHeight, 16),
		},
		options: options,
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.Accent).
		Foreground(style.Accent).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.itemsC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.itemsC.KeyMap = keymap.forList()
	bubble.itemsC.Filter = fuzzyFilter
	bubble.itemsC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.itemsC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.itemsC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Accent).Padding(0, 1)
	bubble.itemsC.Styles.NoItems = paddingStyle
	bubble.itemsC.SetStatusBarItemName("item", "items")

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	if _, ok := options.Target.Get(); !ok {
		bubble.setState(browseState)
		bubble.pushLevel(level{title: options.Title, items: options.Items})
	}

	return &bubble
}

func favoriteKey(kind catalog.Kind, id int) string {
	return string(kind) + ":" + strconv.Itoa(id)
}
