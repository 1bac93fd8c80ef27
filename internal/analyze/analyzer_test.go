package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/launchdir/directory-service/internal/scrape"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

type fakeCompletion struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeCompletion) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer(client CompletionClient) *Analyzer {
	return New(client, fakeClock{now: testNow}, zap.NewNop())
}

func TestAnalyzeParsesWellFormedReply(t *testing.T) {
	t.Parallel()

	client := &fakeCompletion{reply: `{
		"description": "A code hosting platform.",
		"categories": ["Developer Tools", "SaaS", "Collaboration"],
		"features": ["Repositories", "Issues", "CI"],
		"suggestedDirectoryCount": 25
	}`}
	result := newTestAnalyzer(client).Analyze(context.Background(), scrape.PageContent{Title: "Example"}, "Example")

	require.Equal(t, "A code hosting platform.", result.Description)
	require.Equal(t, []string{"Developer Tools", "SaaS", "Collaboration"}, result.Categories)
	require.Equal(t, []string{"Repositories", "Issues", "CI"}, result.Features)
	require.Equal(t, 25, result.SuggestedDirectoryCount)
	require.Equal(t, testNow, result.AnalysisDate)
}

func TestAnalyzeStripsCodeFences(t *testing.T) {
	t.Parallel()

	client := &fakeCompletion{reply: "```json\n{\"description\":\"Fenced.\",\"categories\":[\"A\",\"B\",\"C\"],\"features\":[\"X\",\"Y\",\"Z\"]}\n```"}
	result := newTestAnalyzer(client).Analyze(context.Background(), scrape.PageContent{}, "Example")
	require.Equal(t, "Fenced.", result.Description)
	require.Equal(t, []string{"A", "B", "C"}, result.Categories)
}

func TestAnalyzeFallbackOnCompletionError(t *testing.T) {
	t.Parallel()

	client := &fakeCompletion{err: errors.New("rate limited")}
	result := newTestAnalyzer(client).Analyze(context.Background(), scrape.PageContent{}, "Example")

	require.Equal(t, defaultDescription, result.Description)
	require.Len(t, result.Categories, 3)
	require.Len(t, result.Features, 3)
	require.Equal(t, testNow, result.AnalysisDate)
}

func TestAnalyzeFallbackOnMalformedReplies(t *testing.T) {
	t.Parallel()

	for _, reply := range []string{"", "not json at all", "{broken", "null"} {
		client := &fakeCompletion{reply: reply}
		result := newTestAnalyzer(client).Analyze(context.Background(), scrape.PageContent{}, "Example")
		require.Equal(t, defaultDescription, result.Description, "reply %q", reply)
		require.Len(t, result.Categories, 3, "reply %q", reply)
		require.Len(t, result.Features, 3, "reply %q", reply)
	}
}

func TestAnalyzeClampsListsToExactlyThree(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		categories string
		wantFirst  string
	}{
		{"empty list", `[]`, defaultCategories[0]},
		{"one entry", `["Solo"]`, "Solo"},
		{"five entries", `["A","B","C","D","E"]`, "A"},
		{"ten entries", `["1","2","3","4","5","6","7","8","9","10"]`, "1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := &fakeCompletion{
				reply: `{"description":"d","categories":` + tc.categories + `,"features":[]}`,
			}
			result := newTestAnalyzer(client).Analyze(context.Background(), scrape.PageContent{}, "Example")
			require.Len(t, result.Categories, 3)
			require.Len(t, result.Features, 3)
			require.Equal(t, tc.wantFirst, result.Categories[0])
		})
	}
}

func TestPromptIsBounded(t *testing.T) {
	t.Parallel()

	content := scrape.PageContent{
		Title:       "Big Site",
		MainContent: strings.Repeat("word ", 5000),
		Headings:    []string{"a", "b", "c", "d", "e", "f", "g", "h"},
		Paragraphs:  []string{strings.Repeat("p", 2000), "two", "three", "four"},
	}
	client := &fakeCompletion{reply: `{}`}
	newTestAnalyzer(client).Analyze(context.Background(), content, "Big Site")

	require.NotEmpty(t, client.lastPrompt)
	require.Less(t, len(client.lastPrompt), 8000)
	require.Contains(t, client.lastPrompt, "Big Site")
	require.NotContains(t, client.lastPrompt, "f; g; h", "headings beyond the cap must be dropped")
}
