// Package orientation derives the player layout from the device orientation and
// the user's fullscreen toggle. It never touches playback state.
package orientation

import (
	"github.com/samber/mo"
	"github.com/xtplay/xtplay/log"
)

// Layout is how the player occupies the screen.
type Layout int

const (
	Embedded Layout = iota
	Fullscreen
)

func (l Layout) String() string {
	if l == Fullscreen {
		return "fullscreen"
	}
	return "embedded"
}

// Platform is the host surface the coordinator drives.
type Platform interface {
	LockLandscape() error
	Unlock() error
	SetStatusBarHidden(hidden bool)
	// CanOverride reports whether the layout may differ from the physical orientation.
	CanOverride() bool
}

// Coordinator tracks orientation and decides the layout.
type Coordinator struct {
	platform Platform
	pinned   bool

	mounted   bool
	landscape bool
	override  mo.Option[Layout]
	layout    Layout
	locked    bool
}

// New returns a coordinator. A pinned coordinator keeps the player in landscape
// fullscreen for as long as it is mounted.
func New(platform Platform, pinned bool) *Coordinator {
	return &Coordinator{
		platform: platform,
		pinned:   pinned,
		override: mo.None[Layout](),
	}
}

// Mount applies the initial layout and, when pinned, requests a landscape lock.
func (c *Coordinator) Mount() Layout {
	c.mounted = true
	if c.pinned {
		if err := c.platform.LockLandscape(); err != nil {
			log.Warnf("orientation: landscape lock failed: %s", err)
		} else {
			c.locked = true
		}
	}
	c.apply(true)
	return c.layout
}

// OnDimensions reports the current surface size. A physical rotation clears any
// explicit toggle.
func (c *Coordinator) OnDimensions(width, height float64) Layout {
	landscape := width > height
	if landscape != c.landscape {
		c.landscape = landscape
		c.override = mo.None[Layout]()
	}
	c.apply(false)
	return c.layout
}

// Toggle flips between embedded and fullscreen. It reports false when the
// platform does not allow overriding the orientation.
func (c *Coordinator) Toggle() bool {
	if !c.mounted || !c.platform.CanOverride() {
		return false
	}
	next := Fullscreen
	if c.layout == Fullscreen {
		next = Embedded
	}
	c.override = mo.Some(next)
	c.apply(false)
	return true
}

// Unmount releases the lock and shows the status bar again.
func (c *Coordinator) Unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false
	if c.locked {
		if err := c.platform.Unlock(); err != nil {
			log.Warnf("orientation: unlock failed: %s", err)
		}
		c.locked = false
	}
	c.platform.SetStatusBarHidden(false)
	c.layout = Embedded
	c.override = mo.None[Layout]()
}

// Layout returns the current layout.
func (c *Coordinator) Layout() Layout {
	return c.layout
}

// Landscape reports the last observed orientation.
func (c *Coordinator) Landscape() bool {
	return c.landscape
}

// StatusBarHidden reports whether the status bar is hidden by the current layout.
func (c *Coordinator) StatusBarHidden() bool {
	return c.mounted && c.layout == Fullscreen
}

func (c *Coordinator) apply(force bool) {
	if !c.mounted {
		return
	}

	next := Embedded
	if c.landscape || c.pinned {
		next = Fullscreen
	}
	if o, ok := c.override.Get(); ok {
		next = o
	}

	if next == c.layout && !force {
		return
	}
	c.layout = next
	c.platform.SetStatusBarHidden(next == Fullscreen)
	log.Debugf("orientation: layout %s", next)
}
