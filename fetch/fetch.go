// Package fetch supplies raw bytes to the stac engine from local files and
// HTTP(S) URLs. The engine itself never touches transport; it consumes a
// stac.Fetcher.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	stac "github.com/stac-utils/go-stac"
)

const userAgent = "go-stac"

// File reads identifiers as filesystem paths; file:// URLs are unwrapped.
type File struct{}

func (File) Fetch(_ context.Context, href string) ([]byte, error) {
	return os.ReadFile(strings.TrimPrefix(href, "file://"))
}

// HTTP retrieves identifiers over HTTP(S). The zero value uses
// http.DefaultClient.
type HTTP struct {
	Client *http.Client
}

func (f HTTP) Fetch(ctx context.Context, href string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: %s: unexpected status %s", href, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Map serves fixed byte contents by identifier, falling back to Next for
// anything it does not hold. It backs local schema overrides and tests.
type Map struct {
	Contents map[string][]byte
	Next     stac.Fetcher
}

func (f Map) Fetch(ctx context.Context, href string) ([]byte, error) {
	if data, ok := f.Contents[href]; ok {
		return data, nil
	}
	if f.Next == nil {
		return nil, fmt.Errorf("fetch: no contents for %s", href)
	}
	return f.Next.Fetch(ctx, href)
}

// Dispatch routes identifiers by scheme: http and https to HTTP, everything
// else to File.
type Dispatch struct {
	HTTP HTTP
	File File
}

func (f Dispatch) Fetch(ctx context.Context, href string) ([]byte, error) {
	if u, err := url.Parse(href); err == nil {
		switch u.Scheme {
		case "http", "https":
			return f.HTTP.Fetch(ctx, href)
		}
	}
	return f.File.Fetch(ctx, href)
}

// Default returns the standard file-or-HTTP fetcher.
func Default() Dispatch {
	return Dispatch{}
}
