// File: internal/usecase/wishlist_uc_test.go
package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/model"
)

type memWishlistRepo struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newMemWishlistRepo() *memWishlistRepo {
	return &memWishlistRepo{ids: make(map[string]struct{})}
}

func (m *memWishlistRepo) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memWishlistRepo) Add(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[itemID] = struct{}{}
	return nil
}

func (m *memWishlistRepo) Remove(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, itemID)
	return nil
}

type memCatalog struct {
	items map[string]model.CatalogItem
}

func newMemCatalog(items ...model.CatalogItem) *memCatalog {
	c := &memCatalog{items: make(map[string]model.CatalogItem)}
	for _, item := range items {
		c.items[item.ID] = item
	}
	return c
}

func (c *memCatalog) Find(itemID string) (model.CatalogItem, bool) {
	item, ok := c.items[itemID]
	return item, ok
}

func (c *memCatalog) All() []model.CatalogItem {
	out := make([]model.CatalogItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func newWishlistFixture(items ...model.CatalogItem) (*wishlistUC, *memWishlistRepo, *tryOnFixture) {
	f := newTryOnFixture()
	repo := newMemWishlistRepo()
	logger := zerolog.Nop()
	uc := NewWishlistUseCase(repo, newMemCatalog(items...), f.uc, &logger)
	return uc, repo, f
}

func TestWishlistUC_AddUnknownItem(t *testing.T) {
	t.Parallel()

	uc, _, _ := newWishlistFixture(testItem("A", "itemA"))
	if err := uc.Add(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Add unknown item: got %v, want ErrNotFound", err)
	}
}

func TestWishlistUC_AddListRemove(t *testing.T) {
	t.Parallel()

	uc, _, _ := newWishlistFixture(testItem("A", "itemA"), testItem("B", "itemB"))
	ctx := context.Background()

	if err := uc.Add(ctx, "A"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := uc.Add(ctx, "B"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	items, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "A" || items[1].ID != "B" {
		t.Fatalf("unexpected wishlist contents: %+v", items)
	}

	if err := uc.Remove(ctx, "A"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	items, _ = uc.List(ctx)
	if len(items) != 1 || items[0].ID != "B" {
		t.Fatalf("unexpected wishlist after remove: %+v", items)
	}
}

func TestWishlistUC_ListSkipsStaleEntries(t *testing.T) {
	t.Parallel()

	uc, repo, _ := newWishlistFixture(testItem("A", "itemA"))
	ctx := context.Background()

	// Entry saved before the item left the catalog.
	repo.Add(ctx, "discontinued")
	repo.Add(ctx, "A")

	items, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "A" {
		t.Fatalf("stale entry leaked into listing: %+v", items)
	}
}

func TestWishlistUC_GenerateAll_NoPortrait(t *testing.T) {
	t.Parallel()

	uc, _, _ := newWishlistFixture(testItem("A", "itemA"))
	if _, err := uc.GenerateAll(context.Background()); !errors.Is(err, domain.ErrNoPortrait) {
		t.Fatalf("GenerateAll without portrait: got %v, want ErrNoPortrait", err)
	}
}

func TestWishlistUC_GenerateAll(t *testing.T) {
	t.Parallel()

	uc, _, f := newWishlistFixture(testItem("A", "itemA"), testItem("B", "itemB"))
	ctx := context.Background()
	p := testPortrait("selfie-1")
	if err := f.uc.SetPortrait(ctx, p); err != nil {
		t.Fatalf("SetPortrait returned error: %v", err)
	}
	uc.Add(ctx, "A")
	uc.Add(ctx, "B")

	scheduled, err := uc.GenerateAll(ctx)
	if err != nil {
		t.Fatalf("GenerateAll returned error: %v", err)
	}
	if scheduled != 2 {
		t.Fatalf("scheduled = %d, want 2", scheduled)
	}
	f.uc.Wait()

	jobs := f.uc.Jobs()
	for _, id := range []string{"A", "B"} {
		if jobs[id] == nil || jobs[id].Status != model.TryOnStatusSuccess {
			t.Fatalf("item %s: expected success, got %+v", id, jobs[id])
		}
	}
}
