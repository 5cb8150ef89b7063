package repository

import "context"

// ResultCache maps (portrait identity, item id) to a generated result URL.
// Entries are only valid for the identity they were generated under; Put must
// touch exactly one entry so concurrent completions never overwrite each
// other.
type ResultCache interface {
	// Get returns the cached URL or domain.ErrNotFound.
	Get(ctx context.Context, portraitID, itemID string) (string, error)
	Put(ctx context.Context, portraitID, itemID, url string) error
	All(ctx context.Context, portraitID string) (map[string]string, error)
	// Clear drops every entry for one portrait identity.
	Clear(ctx context.Context, portraitID string) error
}
