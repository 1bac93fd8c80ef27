package scrape

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// nonContentSelectors lists elements stripped before any text extraction.
const nonContentSelectors = "script, style, iframe, noscript"

// mainContentSelectors are the designated content containers, preferred over
// whole-body text when any of them match.
const mainContentSelectors = "main, article, [role='main'], #content, .content"

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalizer turns raw HTML into a PageContent within the configured Limits.
type Normalizer struct {
	limits Limits
}

// NewNormalizer creates a Normalizer. Zero-valued limits fall back to defaults.
func NewNormalizer(limits Limits) *Normalizer {
	return &Normalizer{limits: limits.withDefaults()}
}

// Normalize extracts a bounded PageContent from raw HTML. The base URL is
// used to resolve relative link targets. An empty or element-free document
// yields zero-valued fields, not an error.
func (n *Normalizer) Normalize(rawHTML, baseURL string) (PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return PageContent{}, fmt.Errorf("parse html: %w", err)
	}

	doc.Find(nonContentSelectors).Remove()

	content := PageContent{
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription: extractDescription(doc),
		Headings:        n.extractHeadings(doc),
		Paragraphs:      n.extractParagraphs(doc),
		Links:           n.extractLinks(doc, baseURL),
	}
	content.MainContent = truncateRunes(n.extractMainContent(doc, rawHTML, baseURL), n.limits.MaxContentChars)
	return content, nil
}

// extractDescription prefers the meta description with an Open Graph fallback.
func extractDescription(doc *goquery.Document) string {
	if desc, ok := doc.Find("meta[name='description']").Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	if ogDesc, ok := doc.Find("meta[property='og:description']").Attr("content"); ok {
		return strings.TrimSpace(ogDesc)
	}
	return ""
}

// extractMainContent concatenates the designated content containers when any
// exist; otherwise it tries a readability extraction of the original markup
// and finally falls back to whole-body text.
func (n *Normalizer) extractMainContent(doc *goquery.Document, rawHTML, baseURL string) string {
	containers := doc.Find(mainContentSelectors)
	if containers.Length() > 0 {
		var parts []string
		containers.Each(func(_ int, s *goquery.Selection) {
			if text := collapseWhitespace(s.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		if joined := strings.Join(parts, " "); joined != "" {
			return joined
		}
	}

	if pageURL, err := url.Parse(baseURL); err == nil && pageURL.Host != "" {
		if article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL); err == nil {
			if text := collapseWhitespace(article.TextContent); text != "" {
				return text
			}
		}
	}

	return collapseWhitespace(doc.Find("body").Text())
}

func (n *Normalizer) extractHeadings(doc *goquery.Document) []string {
	var headings []string
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := collapseWhitespace(s.Text()); text != "" {
			headings = append(headings, text)
		}
		return len(headings) < n.limits.MaxHeadings
	})
	return headings
}

func (n *Normalizer) extractParagraphs(doc *goquery.Document) []string {
	var paragraphs []string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := collapseWhitespace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < n.limits.MaxParagraphs
	})
	return paragraphs
}

// extractLinks keeps anchors with visible text and a resolvable, non-fragment
// target, resolved against the page URL.
func (n *Normalizer) extractLinks(doc *goquery.Document, baseURL string) []Link {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var links []Link
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		text := collapseWhitespace(s.Text())
		if href == "" || text == "" || strings.HasPrefix(href, "#") {
			return true
		}
		target, err := url.Parse(href)
		if err != nil {
			return true
		}
		if base != nil {
			target = base.ResolveReference(target)
		}
		if target.Scheme != "http" && target.Scheme != "https" {
			return true
		}
		links = append(links, Link{Href: target.String(), Text: text})
		return len(links) < n.limits.MaxLinks
	})
	return links
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
