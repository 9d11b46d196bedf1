// Package xtream is a client for the Xtream Codes player API (player_api.php)
// exposed by most IPTV panels.
package xtream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/xtplay/xtplay/constant"
	"github.com/xtplay/xtplay/log"
	"golang.org/x/time/rate"
)

var (
	// ErrUnauthorized is returned when the panel rejects the credentials.
	ErrUnauthorized = errors.New("xtream: invalid username or password")
	// ErrExpired is returned when the account exists but is not active.
	ErrExpired = errors.New("xtream: account is not active")
)

// Client talks to one panel with one set of credentials.
type Client struct {
	host     string
	username string
	password string
	http     *http.Client
	limiter  *rate.Limiter

	// Output is the container used for live stream URLs, "m3u8" or "ts".
	Output string
}

// DefaultRate is how many requests per second a client sends. Panels tend to
// ban accounts that list every category in a burst.
const DefaultRate = 5

// New validates host and returns a client. A nil hc uses http.DefaultClient.
func New(host, username, password string, hc *http.Client) (*Client, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return nil, errors.New("xtream: host is required")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	if _, err := url.Parse(host); err != nil {
		return nil, fmt.Errorf("xtream: invalid host: %w", err)
	}
	if username == "" || password == "" {
		return nil, ErrUnauthorized
	}
	if hc == nil {
		hc = http.DefaultClient
	}

	return &Client{
		host:     host,
		username: username,
		password: password,
		http:     hc,
		limiter:  rate.NewLimiter(DefaultRate, DefaultRate),
		Output:   "m3u8",
	}, nil
}

// SetRate changes the request rate. Zero or less removes the limit.
func (c *Client) SetRate(perSecond float64) {
	if perSecond <= 0 {
		c.limiter.SetLimit(rate.Inf)
		return
	}
	c.limiter.SetLimit(rate.Limit(perSecond))
	c.limiter.SetBurst(max(1, int(perSecond)))
}

// Host returns the normalized panel address.
func (c *Client) Host() string {
	return c.host
}

// Authenticate checks the credentials and returns the account details.
func (c *Client) Authenticate(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.call(ctx, "", nil, &account); err != nil {
		return nil, err
	}
	if account.UserInfo.Auth == 0 {
		return nil, ErrUnauthorized
	}
	if s := account.UserInfo.Status; s != "" && !strings.EqualFold(s, "Active") {
		return nil, fmt.Errorf("%w: %s", ErrExpired, s)
	}
	return &account, nil
}

func (c *Client) LiveCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.call(ctx, "get_live_categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) VODCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.call(ctx, "get_vod_categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) SeriesCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.call(ctx, "get_series_categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// LiveStreams lists live channels, optionally restricted to one category.
func (c *Client) LiveStreams(ctx context.Context, categoryID string) ([]LiveStream, error) {
	var streams []LiveStream
	if err := c.call(ctx, "get_live_streams", categoryParam(categoryID), &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// VODStreams lists movies, optionally restricted to one category.
func (c *Client) VODStreams(ctx context.Context, categoryID string) ([]VODStream, error) {
	var streams []VODStream
	if err := c.call(ctx, "get_vod_streams", categoryParam(categoryID), &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// Series lists shows, optionally restricted to one category.
func (c *Client) Series(ctx context.Context, categoryID string) ([]Series, error) {
	var series []Series
	if err := c.call(ctx, "get_series", categoryParam(categoryID), &series); err != nil {
		return nil, err
	}
	return series, nil
}

// SeriesInfo returns the seasons and episodes of a show.
func (c *Client) SeriesInfo(ctx context.Context, seriesID int) (*SeriesInfo, error) {
	var info SeriesInfo
	params := url.Values{"series_id": {strconv.Itoa(seriesID)}}
	if err := c.call(ctx, "get_series_info", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// EPG returns up to limit upcoming programs of a live channel. A limit of
// zero or less lets the panel pick.
func (c *Client) EPG(ctx context.Context, streamID, limit int) ([]EPGEntry, error) {
	params := url.Values{"stream_id": {strconv.Itoa(streamID)}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp epgResponse
	if err := c.call(ctx, "get_short_epg", params, &resp); err != nil {
		return nil, err
	}
	return resp.Listings, nil
}

// StreamURL returns the playable address of a live channel.
func (c *Client) StreamURL(streamID int) string {
	ext := c.Output
	if ext == "" {
		ext = "m3u8"
	}
	return c.mediaURL("live", strconv.Itoa(streamID), ext)
}

// VODURL returns the playable address of a movie.
func (c *Client) VODURL(streamID int, ext string) string {
	return c.mediaURL("movie", strconv.Itoa(streamID), defaultExt(ext))
}

// SeriesURL returns the playable address of an episode.
func (c *Client) SeriesURL(episodeID string, ext string) string {
	return c.mediaURL("series", episodeID, defaultExt(ext))
}

func (c *Client) mediaURL(kind, id, ext string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s.%s",
		c.host, kind, url.PathEscape(c.username), url.PathEscape(c.password), id, ext)
}

func defaultExt(ext string) string {
	if ext == "" {
		return "mp4"
	}
	return strings.TrimPrefix(ext, ".")
}

func categoryParam(categoryID string) url.Values {
	if categoryID == "" {
		return nil
	}
	return url.Values{"category_id": {categoryID}}
}

// call performs one player_api.php request. Credentials are part of the query
// string and are kept out of every log line and error.
func (c *Client) call(ctx context.Context, action string, params url.Values, dst any) error {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("username", c.username)
	query.Set("password", c.password)
	if action != "" {
		query.Set("action", action)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("xtream: %s on %s: %w", actionName(action), c.safeHost(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/player_api.php?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("xtream: build %s request: %w", actionName(action), err)
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "application/json")

	log.Debugf("xtream: %s on %s", actionName(action), c.safeHost())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("xtream: %s on %s: %w", actionName(action), c.safeHost(), redact(err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return fmt.Errorf("xtream: %s on %s: unexpected status %d", actionName(action), c.safeHost(), resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("xtream: decode %s: %w", actionName(action), err)
	}
	return nil
}

func (c *Client) safeHost() string {
	u, err := url.Parse(c.host)
	if err != nil {
		return "[host]"
	}
	return u.Host
}

func actionName(action string) string {
	if action == "" {
		return "login"
	}
	return action
}

// redact strips the request URL, which carries the password, from transport errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
