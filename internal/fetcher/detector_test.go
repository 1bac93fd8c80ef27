package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShouldRenderEmptyBody(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(0)
	require.True(t, h.ShouldRender(""))
	require.True(t, h.ShouldRender("   \n  "))
}

func TestShouldRenderSPAMarkers(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(2048)
	cases := []string{
		`<html><body><div id="root"></div></body></html>`,
		`<html><body><div id="app"></div></body></html>`,
		`<html><body><div data-reactroot></div></body></html>`,
		`<html><body><div class="__next"></div></body></html>`,
	}
	for _, markup := range cases {
		require.True(t, h.ShouldRender(markup), "expected promotion for %q", markup)
	}
}

func TestShouldRenderScriptHeavyShortBody(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(2048)
	markup := `<html><head><script src="a.js"></script><script src="b.js"></script></head><body>hi</body></html>`
	require.True(t, h.ShouldRender(markup))
}

func TestShouldRenderSkipsStaticContent(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(2048)
	markup := `<html><body><h1>Welcome</h1><p>` + strings.Repeat("plain text ", 300) + `</p></body></html>`
	require.False(t, h.ShouldRender(markup))
}
