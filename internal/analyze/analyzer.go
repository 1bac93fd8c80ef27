package analyze

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/launchdir/directory-service/internal/clock"
	"github.com/launchdir/directory-service/internal/scrape"
)

// CompletionClient sends one prompt to a text-generation API and returns the
// raw reply text.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Analyzer produces directory-listing metadata for scraped content. Every
// failure path degrades to the deterministic fallback; Analyze never fails.
type Analyzer struct {
	client CompletionClient
	clock  clock.Clock
	logger *zap.Logger
}

// New builds an Analyzer.
func New(client CompletionClient, clk clock.Clock, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{client: client, clock: clk, logger: logger}
}

// Analyze summarizes the content, calls the model, and normalizes the reply.
// AnalysisDate is stamped with the call's completion time.
func (a *Analyzer) Analyze(ctx context.Context, content scrape.PageContent, displayName string) AnalysisResult {
	raw, err := a.client.Complete(ctx, buildPrompt(content, displayName))
	if err != nil {
		a.logger.Warn("completion call failed, using fallback analysis",
			zap.String("website", displayName), zap.Error(err))
		return fallbackResult(a.clock.Now())
	}

	reply, err := parseReply(raw)
	if err != nil {
		a.logger.Warn("unparseable completion reply, using fallback analysis",
			zap.String("website", displayName), zap.Error(err))
		return fallbackResult(a.clock.Now())
	}

	description := strings.TrimSpace(reply.Description)
	if description == "" {
		description = defaultDescription
	}

	result := AnalysisResult{
		Description:  description,
		Categories:   normalizeList(reply.Categories, defaultCategories),
		Features:     normalizeList(reply.Features, defaultFeatures),
		AnalysisDate: a.clock.Now(),
	}
	if reply.SuggestedDirectoryCount > 0 {
		result.SuggestedDirectoryCount = reply.SuggestedDirectoryCount
	}
	return result
}
