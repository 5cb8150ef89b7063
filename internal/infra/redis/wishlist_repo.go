package redis

import (
	"context"

	"tryon-studio/internal/domain/ports/repository"
)

var _ repository.WishlistRepository = (*WishlistRepo)(nil)

const wishlistKey = "tryon:wishlist"

// WishlistRepo keeps saved item IDs in a Redis set.
type WishlistRepo struct {
	client *redClient
}

func NewWishlistRepo(client *redClient) repository.WishlistRepository {
	return &WishlistRepo{client: client}
}

func (w *WishlistRepo) List(ctx context.Context) ([]string, error) {
	return w.client.SMembers(ctx, wishlistKey)
}

func (w *WishlistRepo) Add(ctx context.Context, itemID string) error {
	return w.client.SAdd(ctx, wishlistKey, itemID)
}

func (w *WishlistRepo) Remove(ctx context.Context, itemID string) error {
	return w.client.SRem(ctx, wishlistKey, itemID)
}
