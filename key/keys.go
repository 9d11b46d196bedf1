// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Panel Connection - these keys identify the Xtream Codes panel. The password lives in the OS keyring.
const (
	PanelHost           = "panel.host"
	PanelUsername       = "panel.username"
	PanelOutput         = "panel.output"
	PanelTLSFingerprint = "panel.tls_fingerprint"
	PanelEPGLimit       = "panel.epg_limit"
	PanelRateLimit      = "panel.rate_limit"
)

// Media Playback - these keys configure the external engine and the session capabilities.
const (
	PlayerBinary       = "player.binary"
	PlayerVolume       = "player.volume"
	PlayerBrightness   = "player.brightness"
	PlayerSkipStep     = "player.skip_step"
	PlayerDVRSeek      = "player.dvr_seek"
	PlayerQualityMenu  = "player.quality_menu"
	PlayerPinLandscape = "player.pin_landscape"
	PlayerMaxRestarts  = "player.max_restarts"
	PlayerLiveWindow   = "player.live_buffer_window"
)

// Gesture Tuning - these keys govern how drags are classified and scaled.
const (
	GestureThreshold    = "gesture.threshold"
	GestureVerticalGain = "gesture.vertical_gain"
	GestureLiveRate     = "gesture.live_seek_rate"
	GestureDVRBack      = "gesture.dvr_back"
	GestureDVRForward   = "gesture.dvr_forward"
	GestureCellWidth    = "gesture.cell_width"
	GestureCellHeight   = "gesture.cell_height"
)

// Overlay Timing - product-tuned animation constants, in milliseconds.
const (
	OverlayHideDelay        = "overlay.hide_delay"
	OverlayFadeIn           = "overlay.fade_in"
	OverlayFadeOut          = "overlay.fade_out"
	OverlayIndicatorFadeIn  = "overlay.indicator_fade_in"
	OverlayIndicatorHold    = "overlay.indicator_hold"
	OverlayIndicatorFadeOut = "overlay.indicator_fade_out"
)

// Network Quality - buffer percentage thresholds for the display-only quality label.
const (
	QualityExcellent = "quality.excellent"
	QualityGood      = "quality.good"
	QualityFair      = "quality.fair"
)

// History Tracking - these keys configure the persistence of recently watched channels.
const (
	HistorySaveOnPlay = "history.save_on_play"
	HistoryMaxRecent  = "history.max_recent"
)

// Filter History - these keys manage remembered browser filters.
const (
	SearchRememberFilters   = "search.remember_filters"
	SearchFilterSuggestions = "search.filter_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
