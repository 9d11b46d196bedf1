package xtream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt decodes panel fields that arrive as a number, a numeric string,
// an empty string or null.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = FlexInt(n)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the value as int.
func (f FlexInt) Int() int { return int(f) }

// FlexString decodes panel fields that arrive as either a string or a number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

func (f FlexString) String() string { return string(f) }

// Account is the response of an authenticated call without an action.
type Account struct {
	UserInfo   UserInfo   `json:"user_info"`
	ServerInfo ServerInfo `json:"server_info"`
}

type UserInfo struct {
	Username          string     `json:"username"`
	Auth              FlexInt    `json:"auth"`
	Status            string     `json:"status"`
	ExpDate           FlexString `json:"exp_date"`
	MaxConnections    FlexInt    `json:"max_connections"`
	ActiveConnections FlexInt    `json:"active_cons"`
	AllowedFormats    []string   `json:"allowed_output_formats"`
}

type ServerInfo struct {
	URL            string     `json:"url"`
	Port           FlexString `json:"port"`
	HTTPSPort      FlexString `json:"https_port"`
	ServerProtocol string     `json:"server_protocol"`
	Timezone       string     `json:"timezone"`
}

// Category groups streams in the panel.
type Category struct {
	ID       FlexString `json:"category_id"`
	Name     string     `json:"category_name"`
	ParentID FlexInt    `json:"parent_id"`
}

// LiveStream is a live channel.
type LiveStream struct {
	Num               FlexInt    `json:"num"`
	Name              string     `json:"name"`
	StreamID          FlexInt    `json:"stream_id"`
	Icon              string     `json:"stream_icon"`
	EPGChannelID      string     `json:"epg_channel_id"`
	CategoryID        FlexString `json:"category_id"`
	TVArchive         FlexInt    `json:"tv_archive"`
	TVArchiveDuration FlexInt    `json:"tv_archive_duration"`
}

// DVR reports whether the panel keeps a catch-up archive for the channel.
func (l LiveStream) DVR() bool {
	return l.TVArchive > 0
}

// VODStream is a movie.
type VODStream struct {
	Num                FlexInt    `json:"num"`
	Name               string     `json:"name"`
	StreamID           FlexInt    `json:"stream_id"`
	Icon               string     `json:"stream_icon"`
	Rating             FlexString `json:"rating"`
	CategoryID         FlexString `json:"category_id"`
	ContainerExtension string     `json:"container_extension"`
}

// Series is a show with episodes.
type Series struct {
	Num        FlexInt    `json:"num"`
	Name       string     `json:"name"`
	SeriesID   FlexInt    `json:"series_id"`
	Cover      string     `json:"cover"`
	Plot       string     `json:"plot"`
	CategoryID FlexString `json:"category_id"`
}

// SeriesInfo is the response of get_series_info.
type SeriesInfo struct {
	Info struct {
		Name  string `json:"name"`
		Plot  string `json:"plot"`
		Cover string `json:"cover"`
	} `json:"info"`
	// Episodes is keyed by season number.
	Episodes map[string][]Episode `json:"episodes"`
}

// Episode is one episode of a series.
type Episode struct {
	ID                 FlexString `json:"id"`
	EpisodeNum         FlexInt    `json:"episode_num"`
	Title              string     `json:"title"`
	ContainerExtension string     `json:"container_extension"`
	Season             FlexInt    `json:"season"`
	Info               struct {
		DurationSecs FlexInt `json:"duration_secs"`
		Plot         string  `json:"plot"`
	} `json:"info"`
}

// EPGEntry is one program returned by get_short_epg. Title and description are
// base64 encoded by most panels; timestamps are unix seconds in strings.
type EPGEntry struct {
	ID             FlexString `json:"id"`
	EPGID          FlexString `json:"epg_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Lang           string     `json:"lang"`
	Start          string     `json:"start"`
	End            string     `json:"end"`
	StartTimestamp FlexString `json:"start_timestamp"`
	StopTimestamp  FlexString `json:"stop_timestamp"`
}

type epgResponse struct {
	Listings []EPGEntry `json:"epg_listings"`
}
