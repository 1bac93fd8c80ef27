package scrape

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/launchdir/directory-service/internal/fetcher"
)

// Service runs the fetch-and-normalize pipeline for one URL.
type Service struct {
	static     fetcher.Fetcher
	headless   fetcher.Fetcher
	detector   *fetcher.Heuristic
	normalizer *Normalizer
	timeout    time.Duration
	logger     *zap.Logger
}

// NewService wires the pipeline. The timeout bounds the whole fetch-and-render
// sequence, not individual requests.
func NewService(
	static fetcher.Fetcher,
	headless fetcher.Fetcher,
	detector *fetcher.Heuristic,
	normalizer *Normalizer,
	timeout time.Duration,
	logger *zap.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		static:     static,
		headless:   headless,
		detector:   detector,
		normalizer: normalizer,
		timeout:    timeout,
		logger:     logger,
	}
}

// Scrape fetches rawURL (scheme-normalized first), promotes to a headless
// render when the static markup looks like a client-rendered shell, and
// returns the bounded content record together with the final URL and the raw
// markup it was extracted from.
func (s *Service) Scrape(ctx context.Context, rawURL string) (PageContent, string, string, error) {
	pageURL, err := fetcher.NormalizeURL(rawURL)
	if err != nil {
		return PageContent{}, "", "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	html, err := s.static.Fetch(ctx, pageURL)
	switch {
	case err != nil && fetcher.IsTimeout(err):
		return PageContent{}, pageURL, "", err
	case err != nil:
		s.logger.Debug("static fetch failed, trying headless",
			zap.String("url", pageURL), zap.Error(err))
		html, err = s.headless.Fetch(ctx, pageURL)
		if err != nil {
			return PageContent{}, pageURL, "", err
		}
	case s.detector != nil && s.detector.ShouldRender(html):
		rendered, rerr := s.headless.Fetch(ctx, pageURL)
		if rerr != nil {
			// Keep the static markup rather than failing the whole scrape.
			s.logger.Warn("headless promotion failed, using static markup",
				zap.String("url", pageURL), zap.Error(rerr))
		} else {
			html = rendered
		}
	}

	content, err := s.normalizer.Normalize(html, pageURL)
	if err != nil {
		return PageContent{}, pageURL, "", err
	}
	return content, pageURL, html, nil
}
