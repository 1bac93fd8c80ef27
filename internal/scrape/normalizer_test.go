package scrape

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Example Site</title>
  <meta name="description" content="A sample website for testing.">
  <script>var tracked = true;</script>
  <style>body { color: red; }</style>
</head>
<body>
  <h1>Hello</h1>
  <h2>About us</h2>
  <main>
    <p>We build useful things.</p>
    <p>Founded in 2020.</p>
  </main>
  <a href="/pricing">Pricing</a>
  <a href="#top">Back to top</a>
  <a href="https://other.example/docs">Docs</a>
  <a href="/empty"><img src="x.png"></a>
  <noscript>Enable JavaScript</noscript>
</body>
</html>`

func TestNormalizeExtractsStructuredFields(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(DefaultLimits())
	content, err := n.Normalize(samplePage, "https://example.com")
	require.NoError(t, err)

	require.Equal(t, "Example Site", content.Title)
	require.Equal(t, "A sample website for testing.", content.MetaDescription)
	require.Equal(t, []string{"Hello", "About us"}, content.Headings)
	require.Equal(t, []string{"We build useful things.", "Founded in 2020."}, content.Paragraphs)
	require.Contains(t, content.MainContent, "We build useful things.")
	require.NotContains(t, content.MainContent, "tracked")
	require.NotContains(t, content.MainContent, "color: red")
	require.NotContains(t, content.MainContent, "Enable JavaScript")

	require.Equal(t, []Link{
		{Href: "https://example.com/pricing", Text: "Pricing"},
		{Href: "https://other.example/docs", Text: "Docs"},
	}, content.Links)
}

func TestNormalizeOpenGraphDescriptionFallback(t *testing.T) {
	t.Parallel()

	page := `<html><head><meta property="og:description" content="OG description"></head><body></body></html>`
	n := NewNormalizer(DefaultLimits())
	content, err := n.Normalize(page, "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "OG description", content.MetaDescription)
}

func TestNormalizeWholeBodyFallback(t *testing.T) {
	t.Parallel()

	page := `<html><head><title>Plain</title></head><body>Just body text with no containers.</body></html>`
	n := NewNormalizer(DefaultLimits())
	content, err := n.Normalize(page, "https://example.com")
	require.NoError(t, err)
	require.Contains(t, content.MainContent, "Just body text")
}

func TestNormalizeEmptyDocument(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(DefaultLimits())
	content, err := n.Normalize("", "https://example.com")
	require.NoError(t, err)
	require.Empty(t, content.Title)
	require.Empty(t, content.MetaDescription)
	require.Empty(t, content.MainContent)
	require.Empty(t, content.Headings)
	require.Empty(t, content.Paragraphs)
	require.Empty(t, content.Links)
}

func TestNormalizeEnforcesCaps(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<html><head><title>Caps</title></head><body><main>")
	b.WriteString(strings.Repeat("long text ", 5000))
	b.WriteString("</main>")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "<h2>Heading %d</h2><p>Paragraph %d</p><a href='/p%d'>Link %d</a>", i, i, i, i)
	}
	b.WriteString("</body></html>")

	limits := Limits{MaxContentChars: 100, MaxHeadings: 3, MaxParagraphs: 4, MaxLinks: 5}
	n := NewNormalizer(limits)
	content, err := n.Normalize(b.String(), "https://example.com")
	require.NoError(t, err)

	require.LessOrEqual(t, len([]rune(content.MainContent)), limits.MaxContentChars)
	require.Len(t, content.Headings, limits.MaxHeadings)
	require.Len(t, content.Paragraphs, limits.MaxParagraphs)
	require.Len(t, content.Links, limits.MaxLinks)
}

func TestNormalizeTruncationIsRuneSafe(t *testing.T) {
	t.Parallel()

	page := "<html><body><main>" + strings.Repeat("héllo wörld ", 200) + "</main></body></html>"
	n := NewNormalizer(Limits{MaxContentChars: 55})
	content, err := n.Normalize(page, "https://example.com")
	require.NoError(t, err)
	require.LessOrEqual(t, len([]rune(content.MainContent)), 55)
	require.True(t, strings.HasPrefix(content.MainContent, "héllo wörld"))
}
