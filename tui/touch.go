package tui

import tea "github.com/charmbracelet/bubbletea"

type touchPhase int

const (
	touchNone touchPhase = iota
	touchStart
	touchMove
	touchEnd
	touchCancel
)

type touch struct {
	phase touchPhase
	x, y  float64
}

// pointer turns left-button mouse drags into touches. Cells are scaled to
// pixels so gesture thresholds keep their meaning on a terminal.
type pointer struct {
	cellWidth, cellHeight float64
	down                  bool
}

func (p *pointer) translate(msg tea.MouseMsg) touch {
	x := (float64(msg.X) + 0.5) * p.cellWidth
	y := (float64(msg.Y) + 0.5) * p.cellHeight

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			if p.down {
				p.down = false
				return touch{phase: touchCancel}
			}
			return touch{}
		}
		p.down = true
		return touch{phase: touchStart, x: x, y: y}
	case tea.MouseActionMotion:
		if !p.down {
			return touch{}
		}
		return touch{phase: touchMove, x: x, y: y}
	case tea.MouseActionRelease:
		if !p.down {
			return touch{}
		}
		p.down = false
		return touch{phase: touchEnd, x: x, y: y}
	}
	return touch{}
}

// pixels converts a terminal size into surface pixels.
func (p *pointer) pixels(cols, rows int) (width, height float64) {
	return float64(cols) * p.cellWidth, float64(rows) * p.cellHeight
}
