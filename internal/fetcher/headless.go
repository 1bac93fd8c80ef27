package fetcher

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// HeadlessConfig controls the browser rendering path.
type HeadlessConfig struct {
	UserAgent  string
	NavTimeout time.Duration
	WaitDelay  time.Duration
}

// Headless renders pages in a throwaway Chrome process per call. No pooling:
// each fetch pays full startup cost and is fully isolated.
type Headless struct {
	cfg HeadlessConfig
}

// NewHeadless builds a Headless fetcher.
func NewHeadless(cfg HeadlessConfig) *Headless {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 25 * time.Second
	}
	if cfg.WaitDelay <= 0 {
		cfg.WaitDelay = 500 * time.Millisecond
	}
	return &Headless{cfg: cfg}
}

// Fetch navigates with a headless browser and returns the rendered DOM. The
// browser process is closed on every path via the deferred cancels.
func (f *Headless) Fetch(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, f.cfg.NavTimeout)
	defer cancel()

	chromedp.ListenTarget(taskCtx, func(ev any) {
		if paused, ok := ev.(*fetch.EventRequestPaused); ok {
			go resolvePaused(taskCtx, paused)
		}
	})

	var html string
	actions := []chromedp.Action{
		fetch.Enable(),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(f.cfg.WaitDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if f.cfg.UserAgent != "" {
		actions = append([]chromedp.Action{emulation.SetUserAgentOverride(f.cfg.UserAgent)}, actions...)
	}

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return "", classify(pageURL, headlessKind(err), err)
	}
	return html, nil
}

// resolvePaused blocks heavy sub-resources and continues everything else.
// Runs on the listener goroutine, so failures are best effort.
func resolvePaused(ctx context.Context, ev *fetch.EventRequestPaused) {
	c := chromedp.FromContext(ctx)
	if c == nil || c.Target == nil {
		return
	}
	execCtx := cdp.WithExecutor(ctx, c.Target)
	switch ev.ResourceType {
	case network.ResourceTypeImage, network.ResourceTypeFont, network.ResourceTypeMedia:
		_ = fetch.FailRequest(ev.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
	default:
		_ = fetch.ContinueRequest(ev.RequestID).Do(execCtx)
	}
}

func headlessKind(err error) Kind {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "exec"):
		return KindLaunch
	case strings.Contains(msg, "navigate"), strings.Contains(msg, "net::"):
		return KindNavigation
	default:
		return KindNetwork
	}
}
