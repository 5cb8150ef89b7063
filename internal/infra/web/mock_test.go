// File: internal/infra/web/mock_test.go
package web

import (
	"context"
	"sync"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/model"
)

// stubTryOn is a scriptable TryOnUseCase for handler tests.
type stubTryOn struct {
	mu       sync.Mutex
	portrait *model.Portrait
	job      *model.TryOnJob
	jobs     map[string]*model.TryOnJob
	results  map[string]string
	genErr   error

	generatedItems []model.CatalogItem
	batchItems     []model.CatalogItem
}

func newStubTryOn() *stubTryOn {
	return &stubTryOn{
		jobs:    make(map[string]*model.TryOnJob),
		results: make(map[string]string),
	}
}

func (s *stubTryOn) SetPortrait(ctx context.Context, p *model.Portrait) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portrait = p
	return nil
}

func (s *stubTryOn) ActivePortrait(ctx context.Context) (*model.Portrait, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.portrait == nil {
		return nil, domain.ErrNotFound
	}
	return s.portrait, nil
}

func (s *stubTryOn) ClearPortrait(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portrait = nil
	return nil
}

func (s *stubTryOn) GenerateOne(ctx context.Context, p *model.Portrait, item model.CatalogItem) (*model.TryOnJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.genErr != nil {
		return nil, s.genErr
	}
	s.generatedItems = append(s.generatedItems, item)
	job := model.NewTryOnJob(p.ID, item.ID)
	job.MarkSuccess("https://cdn.example/" + item.ID + ".webp")
	s.job = job
	return job, nil
}

func (s *stubTryOn) GenerateMany(ctx context.Context, p *model.Portrait, items []model.CatalogItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.genErr != nil {
		return 0, s.genErr
	}
	s.batchItems = items
	return len(items), nil
}

func (s *stubTryOn) Retry(ctx context.Context, p *model.Portrait, item model.CatalogItem) (*model.TryOnJob, error) {
	return s.GenerateOne(ctx, p, item)
}

func (s *stubTryOn) ComposeCombo(ctx context.Context, necklace, earring model.CatalogItem) (model.CatalogItem, error) {
	return model.CatalogItem{
		ID:       "combo-test",
		Name:     "Custom Set",
		Category: model.CategoryCustomCombo,
		Image:    model.ImageRef{Data: []byte("merged")},
	}, nil
}

func (s *stubTryOn) Job(itemID string) (*model.TryOnJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[itemID]
	return job, ok
}

func (s *stubTryOn) Jobs() map[string]*model.TryOnJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*model.TryOnJob, len(s.jobs))
	for k, v := range s.jobs {
		out[k] = v
	}
	return out
}

func (s *stubTryOn) Results(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results, nil
}

func (s *stubTryOn) Wait() {}

// stubWishlist is a scriptable WishlistUseCase for handler tests.
type stubWishlist struct {
	items     []model.CatalogItem
	addErr    error
	scheduled int
}

func (s *stubWishlist) List(ctx context.Context) ([]model.CatalogItem, error) {
	return s.items, nil
}

func (s *stubWishlist) Add(ctx context.Context, itemID string) error {
	return s.addErr
}

func (s *stubWishlist) Remove(ctx context.Context, itemID string) error {
	return nil
}

func (s *stubWishlist) GenerateAll(ctx context.Context) (int, error) {
	return s.scheduled, nil
}
