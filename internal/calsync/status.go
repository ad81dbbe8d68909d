package calsync

import (
	"net/url"
	"strings"
	"time"

	"github.com/BruksfildServices01/residate/internal/httperr"
)

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateSyncing      State = "syncing"
	StateError        State = "error"
)

type Status struct {
	State       State      `json:"state"`
	FeedURL     string     `json:"feedUrl,omitempty"`
	Connected   bool       `json:"connected"`
	LastSyncAt  *time.Time `json:"lastSyncAt,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	SyncedCount int        `json:"syncedCount"`
}

// NormalizeFeedURL accepts http(s) and webcal feeds; webcal is rewritten to
// https.
func NormalizeFeedURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "webcal://"):
		s = "https://" + s[len("webcal://"):]
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	default:
		return "", httperr.ErrBusiness("invalid_feed_url")
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", httperr.ErrBusiness("invalid_feed_url")
	}
	return s, nil
}
