package repository

import "context"

// WishlistRepository holds the wishlisted catalog item ids.
type WishlistRepository interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, itemID string) error
	Remove(ctx context.Context, itemID string) error
}
