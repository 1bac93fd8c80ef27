package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProviderRoundTrip(t *testing.T) {
	p := NewMemoryProvider()
	uri, err := p.Put(context.Background(), "snapshots/abc.html", []byte("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, "mem://snapshots/abc.html", uri)

	data, ok := p.Get("snapshots/abc.html")
	require.True(t, ok)
	assert.Equal(t, []byte("<html></html>"), data)
}

func TestMemoryProviderCopiesData(t *testing.T) {
	p := NewMemoryProvider()
	src := []byte("original")
	_, err := p.Put(context.Background(), "k", src)
	require.NoError(t, err)

	src[0] = 'X'
	data, ok := p.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("original"), data)
}

func TestNoOpProvider(t *testing.T) {
	p := NoOpProvider{}
	uri, err := p.Put(context.Background(), "k", []byte("data"))
	require.NoError(t, err)
	assert.Empty(t, uri)
	assert.NoError(t, p.Close())
}
