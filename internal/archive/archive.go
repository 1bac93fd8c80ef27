// Package archive stores raw page snapshots in blob storage.
package archive

import "context"

// Provider persists one snapshot blob and returns a URI referencing it.
type Provider interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Close() error
}

// NoOpProvider discards snapshots. Used when archival is not configured.
type NoOpProvider struct{}

// Put discards the data and returns an empty URI.
func (NoOpProvider) Put(context.Context, string, []byte) (string, error) { return "", nil }

// Close does nothing.
func (NoOpProvider) Close() error { return nil }
