package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

// StaticConfig controls the plain HTTP GET path.
type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// Static fetches raw HTML with a single Colly request.
type Static struct {
	cfg  StaticConfig
	base *colly.Collector
}

// NewStatic builds a Static fetcher.
func NewStatic(cfg StaticConfig) *Static {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	c := colly.NewCollector(colly.Async(false))
	// Single-page product fetches, not a crawl.
	c.IgnoreRobotsTxt = true
	return &Static{cfg: cfg, base: c}
}

// Fetch executes one HTTP GET and returns the response body as text.
func (f *Static) Fetch(ctx context.Context, pageURL string) (string, error) {
	collector := f.base.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)

	var body []byte
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(pageURL)
	}()

	select {
	case <-ctx.Done():
		// The in-flight request is abandoned; Colly tears it down on its own.
		return "", classify(pageURL, KindNetwork, ctx.Err())
	case err := <-done:
		if err != nil {
			return "", classify(pageURL, KindNetwork, fmt.Errorf("visit: %w", err))
		}
	}
	return string(body), nil
}
