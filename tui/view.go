package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
	"github.com/xtplay/xtplay/epg"
	"github.com/xtplay/xtplay/gesture"
	"github.com/xtplay/xtplay/icon"
	"github.com/xtplay/xtplay/orientation"
	"github.com/xtplay/xtplay/session"
	"github.com/xtplay/xtplay/style"
	"github.com/xtplay/xtplay/util"
)

var (
	panelStyle    = style.Box(style.Border)
	errorBoxStyle = style.Box(style.Alert)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case browseState:
		output = b.viewBrowse()
	case playerState:
		output = b.viewPlayer()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewBrowse() string {
	return listExtraPaddingStyle.Render(b.itemsC.View())
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.Alert).Bold(true)
	message := "unknown error"
	if b.lastError != nil {
		message = b.lastError.Error()
	}

	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Something went wrong:",
			"",
			wrap.String(errorStyle.Render(message), b.width),
		},
	)
}

func (b *statefulBubble) viewPlayer() string {
	v := b.view
	now := time.Now()

	var lines []string

	// the header stands in for the status bar
	if !v.StatusBarHidden {
		lines = append(lines, b.viewHeader(v), "")
	}

	switch {
	case v.Lifecycle == session.Error:
		lines = append(lines, b.viewPlaybackError(v))
	case v.Loading():
		status := lo.Ternary(v.Lifecycle == session.Initializing, "Loading", "Buffering")
		lines = append(lines, b.spinnerC.View()+" "+status+"…")
	default:
		lines = append(lines, "")
	}

	if indicator := b.viewIndicator(v); indicator != "" {
		lines = append(lines, "", indicator)
	}

	if v.ControlsVisible && v.ControlsOpacity > 0 {
		controls := b.viewControls(v)
		if v.ControlsOpacity < 0.5 {
			controls = style.Faint(controls)
		}
		lines = append(lines, "", controls)
	}

	for _, p := range v.OpenPanels {
		lines = append(lines, "", b.viewPanel(v, p, now))
	}

	output := b.renderLines(true, lines)
	if b.display != nil && b.display.dimmed() {
		output = style.Faint(output)
	}
	return output
}

func (b *statefulBubble) viewHeader(v session.View) string {
	kind := lo.Ternary(v.Target.Kind == session.Live, icon.Live, icon.Movie)
	title := style.Title(icon.Get(kind) + " " + v.Target.Title)

	var tags []string
	if v.Layout == orientation.Fullscreen {
		tags = append(tags, icon.Get(icon.Fullscreen))
	}
	if v.Target.Kind == session.Live {
		tags = append(tags, style.LiveTag("LIVE"))
	}
	if program, ok := v.Now.Get(); ok {
		tags = append(tags, style.Faint(program.Title))
	}

	return truncate.StringWithTail(strings.Join(append([]string{title}, tags...), " "), uint(max(b.width, 1)), "…")
}

func (b *statefulBubble) viewPlaybackError(v session.View) string {
	body := []string{
		style.Fg(style.Alert)(icon.Get(icon.Fail) + " Playback failed"),
		wordwrap.String(v.Error, max(b.width-4, 10)),
		"",
		style.Faint("r retry · esc back"),
	}
	return errorBoxStyle.Render(strings.Join(body, "\n"))
}

func (b *statefulBubble) viewIndicator(v session.View) string {
	if pending, ok := v.PendingSeek.Get(); ok {
		return icon.Get(icon.Seek) + " " + util.FormatTimestamp(pending)
	}

	if v.IndicatorOpacity <= 0 {
		return ""
	}

	var text string
	switch v.IndicatorKind {
	case gesture.Volume:
		text = icon.Get(icon.Volume) + " " + percent(v.IndicatorValue)
	case gesture.Brightness:
		text = icon.Get(icon.Brightness) + " " + percent(v.IndicatorValue)
	case gesture.Seek:
		text = icon.Get(icon.Seek) + " " + util.FormatTimestamp(v.IndicatorValue)
	default:
		return ""
	}

	if v.IndicatorOpacity < 0.5 {
		return style.Faint(text)
	}
	return style.Bold(text)
}

func (b *statefulBubble) viewControls(v session.View) string {
	t := v.Transport

	state := lo.Ternary(t.Paused, icon.Get(icon.Pause), icon.Get(icon.Play))
	volume := lo.Ternary(t.Muted, icon.Get(icon.Mute), icon.Get(icon.Volume)+" "+percent(t.Volume))

	var timeline string
	switch {
	case v.Target.Kind == session.Live && !v.Seekable:
		timeline = style.LiveTag("LIVE")
	case t.Duration > 0:
		timeline = fmt.Sprintf(
			"%s %s / %s",
			b.progressC.ViewAs(t.Progress()),
			util.FormatTimestamp(t.CurrentTime),
			util.FormatTimestamp(t.Duration),
		)
	default:
		timeline = util.FormatTimestamp(t.CurrentTime)
	}

	status := []string{
		volume,
		icon.Get(icon.Brightness) + " " + percent(t.Brightness),
		fmt.Sprintf("%.2gx", v.Rate),
	}
	if v.QualityMenu {
		status = append(status, icon.Get(icon.Quality)+" "+t.Quality.String())
	}

	return state + " " + timeline + "\n" + style.Faint(strings.Join(status, "  "))
}

func (b *statefulBubble) viewPanel(v session.View, p session.Panel, now time.Time) string {
	var lines []string

	switch p {
	case session.Settings:
		lines = []string{
			style.Bold(icon.Get(icon.Settings) + " Settings"),
			fmt.Sprintf("Speed       %.2gx", v.Rate),
			fmt.Sprintf("Volume      %s%s", percent(v.Transport.Volume), lo.Ternary(v.Transport.Muted, " (muted)", "")),
			fmt.Sprintf("Brightness  %s", percent(v.Transport.Brightness)),
			fmt.Sprintf("Layout      %s", v.Layout),
		}
	case session.Quality:
		lines = []string{
			style.Bold(icon.Get(icon.Quality) + " Quality"),
			fmt.Sprintf("Stream      %s", v.Transport.Quality),
			fmt.Sprintf("Buffer      %.0f%%", v.Transport.BufferHealth),
		}
	case session.Info:
		lines = append([]string{style.Bold(icon.Get(icon.Info) + " " + v.Target.Title)}, b.viewGuide(v, now)...)
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) viewGuide(v session.View, now time.Time) []string {
	if v.Target.Kind != session.Live {
		return []string{style.Faint(util.Capitalize(v.Target.Kind.String()))}
	}

	width := max(b.width-6, 20)
	var lines []string

	if program, ok := v.Now.Get(); ok {
		lines = append(lines, fmt.Sprintf("Now   %s %s", program.Title, style.Faint(timespan(program))))
		lines = append(lines, b.progressC.ViewAs(program.Progress(now)))
		if description, ok := program.Description.Get(); ok {
			lines = append(lines, style.Faint(wordwrap.String(description, width)))
		}
	}

	if program, ok := v.Next.Get(); ok {
		lines = append(lines, fmt.Sprintf("Next  %s %s", program.Title, style.Faint(timespan(program))))
	}

	if len(lines) == 0 {
		lines = append(lines, style.Faint("No guide data"))
	}
	return lines
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	h := strings.Count(l, "\n") + 1
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func timespan(p epg.Program) string {
	return p.Start.Local().Format("15:04") + "–" + p.Stop.Local().Format("15:04")
}
