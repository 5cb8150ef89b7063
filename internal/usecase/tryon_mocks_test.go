// File: internal/usecase/tryon_mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"sync"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/model"
	"tryon-studio/internal/domain/ports/adapter"
)

// memResultCache is a small in-memory ResultCache used by unit tests.
type memResultCache struct {
	mu     sync.Mutex
	store  map[string]map[string]string // portraitID -> itemID -> url
	putErr error                        // simulate persistence failures
}

func newMemResultCache() *memResultCache {
	return &memResultCache{store: make(map[string]map[string]string)}
}

func (m *memResultCache) Get(ctx context.Context, portraitID, itemID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url, ok := m.store[portraitID][itemID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return url, nil
}

func (m *memResultCache) Put(ctx context.Context, portraitID, itemID, url string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store[portraitID] == nil {
		m.store[portraitID] = make(map[string]string)
	}
	m.store[portraitID][itemID] = url
	return nil
}

func (m *memResultCache) All(ctx context.Context, portraitID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.store[portraitID]))
	for k, v := range m.store[portraitID] {
		out[k] = v
	}
	return out, nil
}

func (m *memResultCache) Clear(ctx context.Context, portraitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, portraitID)
	return nil
}

func (m *memResultCache) partition(portraitID string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.store[portraitID]))
	for k, v := range m.store[portraitID] {
		out[k] = v
	}
	return out
}

type memPortraitRepo struct {
	mu sync.Mutex
	p  *model.Portrait
}

func (m *memPortraitRepo) Save(ctx context.Context, p *model.Portrait) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p = p
	return nil
}

func (m *memPortraitRepo) Load(ctx context.Context) (*model.Portrait, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.p == nil {
		return nil, domain.ErrNotFound
	}
	return m.p, nil
}

func (m *memPortraitRepo) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p = nil
	return nil
}

// fakeNormalizer passes the reference payload through so downstream fakes can
// key their behavior on item identity.
type fakeNormalizer struct {
	width  int
	height int
	errFor map[string]error // keyed by payload
}

func newFakeNormalizer() *fakeNormalizer {
	return &fakeNormalizer{width: 1024, height: 1024, errFor: make(map[string]error)}
}

func (f *fakeNormalizer) Normalize(ctx context.Context, ref model.ImageRef) (*model.NormalizedImage, error) {
	payload := ref.Data
	if len(payload) == 0 {
		payload = []byte(ref.URL)
	}
	if err := f.errFor[string(payload)]; err != nil {
		return nil, err
	}
	return &model.NormalizedImage{
		Bytes:  payload,
		MIME:   "image/webp",
		Width:  f.width,
		Height: f.height,
	}, nil
}

type fakeCompositor struct {
	err error
}

func (f *fakeCompositor) Composite(ctx context.Context, a, b model.ImageRef) (*model.NormalizedImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	merged := append(append([]byte{}, a.URL...), '+')
	merged = append(merged, b.URL...)
	return &model.NormalizedImage{Bytes: merged, MIME: "image/webp", Width: 2098, Height: 1024}, nil
}

// fakeGen resolves generation per item payload (the second reference image).
// A key present in errs fails; everything else succeeds with a derived URL.
// blockOn, when set, holds Await until the channel is closed.
type fakeGen struct {
	mu      sync.Mutex
	submits map[string]int
	errs    map[string]error
	blockOn map[string]chan struct{}
}

func newFakeGen() *fakeGen {
	return &fakeGen{
		submits: make(map[string]int),
		errs:    make(map[string]error),
		blockOn: make(map[string]chan struct{}),
	}
}

func (f *fakeGen) Submit(ctx context.Context, req adapter.GenerationRequest) (string, error) {
	if len(req.References) != 2 {
		return "", fmt.Errorf("expected 2 reference images, got %d", len(req.References))
	}
	key := string(req.References[1].Bytes)
	f.mu.Lock()
	f.submits[key]++
	err := f.errs[key]
	f.mu.Unlock()
	if err != nil {
		return "", err
	}
	return "task-" + key, nil
}

func (f *fakeGen) Await(ctx context.Context, taskID string) (string, error) {
	key := taskID[len("task-"):]
	f.mu.Lock()
	gate := f.blockOn[key]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "https://cdn.example/" + key + ".webp", nil
}

func (f *fakeGen) submitCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submits[key]
}

// goDispatcher runs each task on its own goroutine, like the worker pool but
// without bounded concurrency.
type goDispatcher struct{}

func (goDispatcher) Submit(ctx context.Context, task func(ctx context.Context) error) error {
	go task(ctx)
	return nil
}
