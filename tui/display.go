package tui

import "github.com/xtplay/xtplay/transport"

// terminalDisplay is the session's host surface. The header line plays the
// status bar and brightness dims the frame; orientation locks always succeed
// because the alternate screen already fills the terminal.
type terminalDisplay struct {
	statusBarHidden bool
	brightness      float64
	locked          bool
}

func newTerminalDisplay() *terminalDisplay {
	return &terminalDisplay{brightness: transport.MaxBrightness}
}

func (d *terminalDisplay) LockLandscape() error {
	d.locked = true
	return nil
}

func (d *terminalDisplay) Unlock() error {
	d.locked = false
	return nil
}

func (d *terminalDisplay) SetStatusBarHidden(hidden bool) {
	d.statusBarHidden = hidden
}

func (d *terminalDisplay) CanOverride() bool {
	return true
}

func (d *terminalDisplay) SetBrightness(level float64) {
	d.brightness = level
}

// dimmed reports whether the frame should be drawn faint.
func (d *terminalDisplay) dimmed() bool {
	return d.brightness < 0.5
}
