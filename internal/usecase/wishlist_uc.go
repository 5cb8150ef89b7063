// File: internal/usecase/wishlist_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/model"
	"tryon-studio/internal/domain/ports/repository"
)

var _ WishlistUseCase = (*wishlistUC)(nil)

// Catalog resolves item IDs to catalog entries.
type Catalog interface {
	Find(itemID string) (model.CatalogItem, bool)
	All() []model.CatalogItem
}

type WishlistUseCase interface {
	List(ctx context.Context) ([]model.CatalogItem, error)
	Add(ctx context.Context, itemID string) error
	Remove(ctx context.Context, itemID string) error
	// GenerateAll fans the saved items out to the try-on pipeline for the
	// active portrait. Returns the number of pipelines scheduled.
	GenerateAll(ctx context.Context) (int, error)
}

type wishlistUC struct {
	repo    repository.WishlistRepository
	catalog Catalog
	tryon   TryOnUseCase
	log     *zerolog.Logger
}

func NewWishlistUseCase(repo repository.WishlistRepository, catalog Catalog, tryon TryOnUseCase, logger *zerolog.Logger) *wishlistUC {
	return &wishlistUC{repo: repo, catalog: catalog, tryon: tryon, log: logger}
}

func (u *wishlistUC) List(ctx context.Context) ([]model.CatalogItem, error) {
	ids, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]model.CatalogItem, 0, len(ids))
	for _, id := range ids {
		item, ok := u.catalog.Find(id)
		if !ok {
			// Stale entry from a removed catalog item; skip silently.
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (u *wishlistUC) Add(ctx context.Context, itemID string) error {
	if _, ok := u.catalog.Find(itemID); !ok {
		return domain.ErrNotFound
	}
	return u.repo.Add(ctx, itemID)
}

func (u *wishlistUC) Remove(ctx context.Context, itemID string) error {
	return u.repo.Remove(ctx, itemID)
}

func (u *wishlistUC) GenerateAll(ctx context.Context) (int, error) {
	portrait, err := u.tryon.ActivePortrait(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNoPortrait
		}
		return 0, err
	}
	items, err := u.List(ctx)
	if err != nil {
		return 0, err
	}
	return u.tryon.GenerateMany(ctx, portrait, items)
}
