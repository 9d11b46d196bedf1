package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/color"
	"github.com/xtplay/xtplay/constant"
	"github.com/xtplay/xtplay/key"
	"github.com/xtplay/xtplay/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Parse converts command line values into the type of the field's default.
func (f *Field) Parse(values []string) (any, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no value given for %s", f.Key)
	}

	switch f.Value.(type) {
	case string:
		return values[0], nil
	case int:
		v, err := strconv.Atoi(values[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", values[0])
		}
		return v, nil
	case float64:
		v, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number value: %s", values[0])
		}
		return v, nil
	case bool:
		v, err := strconv.ParseBool(values[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", values[0])
		}
		return v, nil
	case []string:
		return values, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", f.Value)
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PanelHost, "", "Xtream Codes panel address, e.g. http://panel.example:8080\nSet by \"xtplay login\"")
	register(key.PanelUsername, "", "Panel username. The password is kept in the system keyring")
	register(key.PanelOutput, "m3u8", "Live stream container requested from the panel.\nAvailable options are: m3u8, ts")
	register(key.PanelTLSFingerprint, false, "Use a browser TLS fingerprint for panels behind anti-bot CDNs")
	register(key.PanelEPGLimit, 4, "Number of guide entries requested per channel")
	register(key.PanelRateLimit, 5.0, "Panel API requests per second, 0 for no limit")

	register(key.PlayerBinary, "mpv", "mpv executable to launch")
	register(key.PlayerVolume, 1.0, "Initial volume, from 0 to 1")
	register(key.PlayerBrightness, 1.0, "Initial brightness, from 0.1 to 1")
	register(key.PlayerSkipStep, 10, "Seconds skipped by the skip controls")
	register(key.PlayerDVRSeek, true, "Allow seeking inside the archive window of DVR channels")
	register(key.PlayerQualityMenu, true, "Show the quality menu in the player")
	register(key.PlayerPinLandscape, false, "Keep the player in fullscreen while it is open")
	register(key.PlayerMaxRestarts, 3, "Times a crashed player screen is rebuilt before giving up")
	register(key.PlayerLiveWindow, 30.0, "Seconds of read-ahead counted as a full buffer on live streams")

	register(key.GestureThreshold, 15.0, "Drag distance in pixels before a gesture locks to a kind")
	register(key.GestureVerticalGain, 0.002, "Volume or brightness change per vertical pixel")
	register(key.GestureLiveRate, 0.1, "Seconds per horizontal pixel when the duration is unknown")
	register(key.GestureDVRBack, 300.0, "How far back a live DVR seek may go, in seconds")
	register(key.GestureDVRForward, 30.0, "How far forward a live DVR seek may go, in seconds")
	register(key.GestureCellWidth, 8, "Pixels per terminal column when mouse drags are turned into gestures")
	register(key.GestureCellHeight, 16, "Pixels per terminal row when mouse drags are turned into gestures")

	register(key.OverlayHideDelay, 4000, "Milliseconds of inactivity before the controls hide")
	register(key.OverlayFadeIn, 200, "Controls fade-in, in milliseconds")
	register(key.OverlayFadeOut, 300, "Controls fade-out, in milliseconds")
	register(key.OverlayIndicatorFadeIn, 150, "Gesture indicator fade-in, in milliseconds")
	register(key.OverlayIndicatorHold, 1200, "Gesture indicator hold, in milliseconds")
	register(key.OverlayIndicatorFadeOut, 200, "Gesture indicator fade-out, in milliseconds")

	register(key.QualityExcellent, 80.0, "Buffer health above which the network is Excellent")
	register(key.QualityGood, 60.0, "Buffer health above which the network is Good")
	register(key.QualityFair, 30.0, "Buffer health above which the network is Fair")

	register(key.HistorySaveOnPlay, true, "Remember live channels when they start playing")
	register(key.HistoryMaxRecent, 20, "Number of recent channels kept")

	register(key.SearchRememberFilters, true, "Remember the filters given to the browsers")
	register(key.SearchFilterSuggestions, true, "Complete --filter from remembered filters")

	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
