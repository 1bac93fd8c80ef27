package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/launchdir/directory-service/internal/fetcher"
)

type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.html, f.err
}

func newTestService(static, headless *fakeFetcher) *Service {
	return NewService(
		static,
		headless,
		fetcher.NewHeuristic(0),
		NewNormalizer(DefaultLimits()),
		5*time.Second,
		zap.NewNop(),
	)
}

func TestScrapeNormalizesScheme(t *testing.T) {
	t.Parallel()

	static := &fakeFetcher{html: "<html><head><title>Example</title></head><body><h1>Hello</h1><p>" +
		"Static page with plenty of real content so the detector stays quiet." +
		"</p></body></html>"}
	headless := &fakeFetcher{}
	svc := newTestService(static, headless)

	content, finalURL, raw, err := svc.Scrape(context.Background(), "example.com")
	require.NoError(t, err)
	require.Equal(t, "https://example.com", finalURL)
	require.Equal(t, "Example", content.Title)
	require.Contains(t, content.Headings, "Hello")
	require.NotEmpty(t, raw)
	require.Zero(t, headless.calls)
}

func TestScrapePromotesShellPages(t *testing.T) {
	t.Parallel()

	static := &fakeFetcher{html: `<html><body><div id="root"></div></body></html>`}
	headless := &fakeFetcher{html: `<html><head><title>Rendered</title></head><body><h1>Hi</h1></body></html>`}
	svc := newTestService(static, headless)

	content, _, _, err := svc.Scrape(context.Background(), "https://spa.example")
	require.NoError(t, err)
	require.Equal(t, "Rendered", content.Title)
	require.Equal(t, 1, headless.calls)
}

func TestScrapeFallsBackToHeadlessOnStaticFailure(t *testing.T) {
	t.Parallel()

	static := &fakeFetcher{err: errors.New("connection refused")}
	headless := &fakeFetcher{html: `<html><head><title>Rescued</title></head><body></body></html>`}
	svc := newTestService(static, headless)

	content, _, _, err := svc.Scrape(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "Rescued", content.Title)
}

func TestScrapeKeepsStaticWhenPromotionFails(t *testing.T) {
	t.Parallel()

	static := &fakeFetcher{html: `<html><head><title>Shell</title></head><body><div id="root">x</div></body></html>`}
	headless := &fakeFetcher{err: errors.New("browser launch failed")}
	svc := newTestService(static, headless)

	content, _, _, err := svc.Scrape(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "Shell", content.Title)
}

func TestScrapeSurfacesTimeoutDistinctly(t *testing.T) {
	t.Parallel()

	timeoutErr := &fetcher.Error{Kind: fetcher.KindTimeout, URL: "https://slow.example", Err: context.DeadlineExceeded}
	static := &fakeFetcher{err: timeoutErr}
	headless := &fakeFetcher{}
	svc := newTestService(static, headless)

	_, _, _, err := svc.Scrape(context.Background(), "https://slow.example")
	require.Error(t, err)
	require.True(t, fetcher.IsTimeout(err))
	require.Zero(t, headless.calls, "timeouts must not fall back to headless")
}

func TestScrapeRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeFetcher{}, &fakeFetcher{})
	_, _, _, err := svc.Scrape(context.Background(), "   ")
	require.Error(t, err)
}
