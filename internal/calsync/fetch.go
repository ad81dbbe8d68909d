package calsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Fetcher returns the raw body of a calendar feed.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]byte, error)
}

// HTTPFetcher reads the feed directly. It backs the proxy endpoint.
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed responded %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// ProxyFetcher goes through the same-origin proxy: <base>?url=<feed>.
type ProxyFetcher struct {
	BaseURL string
	Client  *http.Client
}

func (f ProxyFetcher) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	if f.BaseURL == "" {
		return nil, errors.New("proxy base url is empty")
	}

	sep := "?"
	if strings.Contains(f.BaseURL, "?") {
		sep = "&"
	}
	return HTTPFetcher{Client: f.Client}.Fetch(ctx, f.BaseURL+sep+"url="+url.QueryEscape(feedURL))
}
