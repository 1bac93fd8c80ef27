// Package fetcher defines the page retrieval contract shared by the static
// and headless implementations.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Fetcher retrieves the markup of a single page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Kind classifies a fetch failure so callers can map it to a status code.
type Kind string

// Failure kinds surfaced by fetch implementations.
const (
	KindNetwork    Kind = "network"
	KindTimeout    Kind = "timeout"
	KindNavigation Kind = "navigation"
	KindLaunch     Kind = "launch"
)

// Error is the single error type surfaced by all fetchers.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a fetch deadline failure.
func IsTimeout(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindTimeout
}

// classify wraps err with the right Kind, promoting context deadline errors
// to the distinct timeout kind.
func classify(pageURL string, kind Kind, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, URL: pageURL, Err: err}
}

// NormalizeURL prepends https:// when the raw value carries no scheme and
// lowercases the host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}
