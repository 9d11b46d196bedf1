// Package network provides the shared HTTP client used to talk to IPTV panels.
package network

import (
	"net/http"
	"time"
)

// Client is the default client for panel API calls. Stream data itself is
// fetched by the player engine, not through this client.
var Client = New(false)

// New returns a client for panel calls. With fingerprint set, HTTPS requests
// present a browser TLS hello, which some panels behind CDNs require.
func New(fingerprint bool) *http.Client {
	var rt http.RoundTripper = newTransport()
	if fingerprint {
		rt = &FingerprintTransport{Plain: rt}
	}
	return &http.Client{
		Timeout:   time.Minute,
		Transport: rt,
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}
