package analyze

import (
	"fmt"
	"strings"

	"github.com/launchdir/directory-service/internal/scrape"
)

// Prompt-side caps, deliberately smaller than the normalizer's own bounds so
// request size stays controlled regardless of scrape configuration.
const (
	promptMaxContentChars   = 1500
	promptMaxHeadings       = 5
	promptMaxParagraphs     = 3
	promptMaxParagraphChars = 200
)

const instructionTemplate = `You are generating directory-listing metadata for a website.
Reply with a single JSON object and nothing else, shaped as:
{"description": string, "categories": [string, string, string], "features": [string, string, string], "suggestedDirectoryCount": number}

Website name: %s
%s`

// buildPrompt renders the bounded text summary plus the fixed instruction.
func buildPrompt(content scrape.PageContent, displayName string) string {
	return fmt.Sprintf(instructionTemplate, displayName, buildSummary(content))
}

// buildSummary flattens the relevant PageContent fields under their own caps.
func buildSummary(content scrape.PageContent) string {
	var b strings.Builder

	if content.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", content.Title)
	}
	if content.MetaDescription != "" {
		fmt.Fprintf(&b, "Description: %s\n", content.MetaDescription)
	}
	if headings := capStrings(content.Headings, promptMaxHeadings); len(headings) > 0 {
		fmt.Fprintf(&b, "Headings: %s\n", strings.Join(headings, "; "))
	}
	for _, p := range capStrings(content.Paragraphs, promptMaxParagraphs) {
		fmt.Fprintf(&b, "Paragraph: %s\n", capRunes(p, promptMaxParagraphChars))
	}
	if content.MainContent != "" {
		fmt.Fprintf(&b, "Content: %s\n", capRunes(content.MainContent, promptMaxContentChars))
	}
	return b.String()
}

func capStrings(values []string, max int) []string {
	if len(values) <= max {
		return values
	}
	return values[:max]
}

func capRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
