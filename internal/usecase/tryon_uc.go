// File: internal/usecase/tryon_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/model"
	"tryon-studio/internal/domain/ports/adapter"
	"tryon-studio/internal/domain/ports/repository"
)

// Compile-time check
var _ TryOnUseCase = (*tryOnUC)(nil)

// Dispatcher runs batch pipelines concurrently without serializing them
// against each other. Satisfied by the worker pool.
type Dispatcher interface {
	Submit(ctx context.Context, task func(ctx context.Context) error) error
}

// StatusNotifier receives a snapshot after every job transition.
type StatusNotifier func(job *model.TryOnJob)

type TryOnUseCase interface {
	// SetPortrait makes p the active identity. Replacing the previous
	// identity clears its job table and cache partition.
	SetPortrait(ctx context.Context, p *model.Portrait) error
	ActivePortrait(ctx context.Context) (*model.Portrait, error)
	ClearPortrait(ctx context.Context) error

	// GenerateOne runs the full pipeline for one item, short-circuiting on a
	// cached success and reusing an already-active job for the same pair.
	GenerateOne(ctx context.Context, p *model.Portrait, item model.CatalogItem) (*model.TryOnJob, error)
	// GenerateMany schedules one independent pipeline per item that lacks a
	// cached success and is not already active. Returns the number scheduled.
	GenerateMany(ctx context.Context, p *model.Portrait, items []model.CatalogItem) (int, error)
	// Retry forces a fresh pipeline for a pair in a terminal state,
	// overwriting the cache entry on success.
	Retry(ctx context.Context, p *model.Portrait, item model.CatalogItem) (*model.TryOnJob, error)
	// ComposeCombo merges two product images into a synthetic custom_combo item.
	ComposeCombo(ctx context.Context, necklace, earring model.CatalogItem) (model.CatalogItem, error)

	Job(itemID string) (*model.TryOnJob, bool)
	Jobs() map[string]*model.TryOnJob
	// Results returns the cached item->URL map for the active identity.
	Results(ctx context.Context) (map[string]string, error)
	// Wait blocks until every in-flight pipeline has finished.
	Wait()
}

type tryOnUC struct {
	cache     repository.ResultCache
	portraits repository.PortraitRepository
	normalize adapter.ImageNormalizer
	compose   adapter.ImageCompositor
	gen       adapter.GenerationAdapter
	dispatch  Dispatcher
	notify    StatusNotifier
	log       *zerolog.Logger

	mu       sync.Mutex
	portrait *model.Portrait
	jobs     map[string]*model.TryOnJob // itemID -> job for the active identity
	inflight sync.WaitGroup
}

func NewTryOnUseCase(
	cache repository.ResultCache,
	portraits repository.PortraitRepository,
	normalize adapter.ImageNormalizer,
	compose adapter.ImageCompositor,
	gen adapter.GenerationAdapter,
	dispatch Dispatcher,
	notify StatusNotifier,
	logger *zerolog.Logger,
) *tryOnUC {
	if notify == nil {
		notify = func(*model.TryOnJob) {}
	}
	return &tryOnUC{
		cache:     cache,
		portraits: portraits,
		normalize: normalize,
		compose:   compose,
		gen:       gen,
		dispatch:  dispatch,
		notify:    notify,
		log:       logger,
		jobs:      make(map[string]*model.TryOnJob),
	}
}

func (u *tryOnUC) SetPortrait(ctx context.Context, p *model.Portrait) error {
	if p == nil || len(p.Bytes) == 0 {
		return domain.ErrInvalidArgument
	}
	if err := u.adopt(ctx, p); err != nil {
		return err
	}
	return u.portraits.Save(ctx, p)
}

func (u *tryOnUC) ActivePortrait(ctx context.Context) (*model.Portrait, error) {
	u.mu.Lock()
	p := u.portrait
	u.mu.Unlock()
	if p != nil {
		return p, nil
	}
	p, err := u.portraits.Load(ctx)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	if u.portrait == nil {
		u.portrait = p
	}
	p = u.portrait
	u.mu.Unlock()
	return p, nil
}

func (u *tryOnUC) ClearPortrait(ctx context.Context) error {
	u.mu.Lock()
	old := u.portrait
	u.portrait = nil
	u.jobs = make(map[string]*model.TryOnJob)
	u.mu.Unlock()

	if old != nil {
		if err := u.cache.Clear(ctx, old.ID); err != nil {
			u.log.Warn().Err(err).Str("portrait_id", old.ID).Msg("clear result cache")
		}
	}
	return u.portraits.Delete(ctx)
}

// adopt switches the active identity. A changed identity invalidates every
// job and cached result of the previous one; in-flight pipelines notice the
// switch and stop publishing.
func (u *tryOnUC) adopt(ctx context.Context, p *model.Portrait) error {
	u.mu.Lock()
	if u.portrait != nil && u.portrait.ID == p.ID {
		u.mu.Unlock()
		return nil
	}
	old := u.portrait
	u.portrait = p
	u.jobs = make(map[string]*model.TryOnJob)
	u.mu.Unlock()

	if old != nil {
		u.log.Info().Str("old", old.ID).Str("new", p.ID).Msg("portrait replaced, dropping cached results")
		if err := u.cache.Clear(ctx, old.ID); err != nil {
			u.log.Warn().Err(err).Str("portrait_id", old.ID).Msg("clear result cache")
		}
	}
	return nil
}

func (u *tryOnUC) GenerateOne(ctx context.Context, p *model.Portrait, item model.CatalogItem) (*model.TryOnJob, error) {
	if p == nil || len(p.Bytes) == 0 || item.ID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if err := u.adopt(ctx, p); err != nil {
		return nil, err
	}

	// Cached success short-circuits without touching the remote service.
	if url, err := u.cache.Get(ctx, p.ID, item.ID); err == nil && url != "" {
		job := model.NewTryOnJob(p.ID, item.ID)
		job.MarkSuccess(url)
		return job, nil
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		u.log.Warn().Err(err).Str("item_id", item.ID).Msg("result cache read")
	}

	job, started := u.begin(p.ID, item.ID, false)
	if !started {
		// An active pipeline already owns this pair; reuse it.
		return job.Clone(), nil
	}

	u.inflight.Add(1)
	defer u.inflight.Done()
	return u.run(ctx, p, item, job)
}

func (u *tryOnUC) GenerateMany(ctx context.Context, p *model.Portrait, items []model.CatalogItem) (int, error) {
	if p == nil || len(p.Bytes) == 0 {
		return 0, domain.ErrInvalidArgument
	}
	if err := u.adopt(ctx, p); err != nil {
		return 0, err
	}

	cached, err := u.cache.All(ctx, p.ID)
	if err != nil {
		u.log.Warn().Err(err).Msg("result cache snapshot")
		cached = map[string]string{}
	}

	scheduled := 0
	for _, item := range items {
		if item.ID == "" || cached[item.ID] != "" {
			continue
		}
		job, started := u.begin(p.ID, item.ID, false)
		if !started {
			continue // already pending/processing
		}

		item := item
		u.inflight.Add(1)
		if err := u.dispatch.Submit(ctx, func(taskCtx context.Context) error {
			defer u.inflight.Done()
			_, err := u.run(taskCtx, p, item, job)
			return err
		}); err != nil {
			u.inflight.Done()
			u.finish(job, "", fmt.Errorf("schedule pipeline: %w", err))
			continue
		}
		scheduled++
	}
	return scheduled, nil
}

func (u *tryOnUC) Retry(ctx context.Context, p *model.Portrait, item model.CatalogItem) (*model.TryOnJob, error) {
	if p == nil || len(p.Bytes) == 0 || item.ID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if err := u.adopt(ctx, p); err != nil {
		return nil, err
	}

	job, started := u.begin(p.ID, item.ID, true)
	if !started {
		// Never run two pipelines for one pair; hand back the live one.
		return job.Clone(), nil
	}

	u.inflight.Add(1)
	defer u.inflight.Done()
	return u.run(ctx, p, item, job)
}

func (u *tryOnUC) ComposeCombo(ctx context.Context, necklace, earring model.CatalogItem) (model.CatalogItem, error) {
	merged, err := u.compose.Composite(ctx, necklace.Image, earring.Image)
	if err != nil {
		return model.CatalogItem{}, err
	}
	return model.CatalogItem{
		ID:       "combo-" + ulid.Make().String(),
		Name:     "Custom Set",
		Category: model.CategoryCustomCombo,
		Image:    model.ImageRef{Data: merged.Bytes},
	}, nil
}

func (u *tryOnUC) Job(itemID string) (*model.TryOnJob, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	job, ok := u.jobs[itemID]
	if !ok {
		return nil, false
	}
	return job.Clone(), true
}

func (u *tryOnUC) Jobs() map[string]*model.TryOnJob {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make(map[string]*model.TryOnJob, len(u.jobs))
	for id, job := range u.jobs {
		out[id] = job.Clone()
	}
	return out
}

func (u *tryOnUC) Results(ctx context.Context) (map[string]string, error) {
	u.mu.Lock()
	p := u.portrait
	u.mu.Unlock()
	if p == nil {
		return map[string]string{}, nil
	}
	return u.cache.All(ctx, p.ID)
}

func (u *tryOnUC) Wait() { u.inflight.Wait() }

// begin claims the pair under the lock. An active job is never superseded;
// terminal jobs are replaced by a fresh pending record. With force set the
// claim also replaces a success (explicit retry).
func (u *tryOnUC) begin(portraitID, itemID string, force bool) (*model.TryOnJob, bool) {
	u.mu.Lock()
	if existing, ok := u.jobs[itemID]; ok {
		if existing.Active() {
			u.mu.Unlock()
			return existing, false
		}
		if existing.Status == model.TryOnStatusSuccess && !force {
			// Terminal success stays until the cache says otherwise; the
			// cache filter upstream normally prevents reaching here.
			u.mu.Unlock()
			return existing, false
		}
	}
	job := model.NewTryOnJob(portraitID, itemID)
	u.jobs[itemID] = job
	snapshot := job.Clone()
	u.mu.Unlock()

	u.notify(snapshot)
	return job, true
}

// run drives one pair's pipeline to a terminal state. Stage errors become the
// pair's error state and never escape to other pairs.
func (u *tryOnUC) run(ctx context.Context, p *model.Portrait, item model.CatalogItem, job *model.TryOnJob) (*model.TryOnJob, error) {
	u.transition(job, func(j *model.TryOnJob) { j.MarkProcessing() })

	url, err := u.pipeline(ctx, p, item)
	snapshot := u.finish(job, url, err)
	if err != nil {
		u.log.Error().Err(err).Str("item_id", item.ID).Str("portrait_id", p.ID).Msg("try-on pipeline failed")
		return snapshot, err
	}
	u.log.Info().Str("item_id", item.ID).Str("portrait_id", p.ID).Msg("try-on generated")
	return snapshot, nil
}

func (u *tryOnUC) pipeline(ctx context.Context, p *model.Portrait, item model.CatalogItem) (string, error) {
	base, err := u.normalize.Normalize(ctx, model.ImageRef{Data: p.Bytes})
	if err != nil {
		return "", fmt.Errorf("normalize portrait: %w", err)
	}
	product, err := u.normalize.Normalize(ctx, item.Image)
	if err != nil {
		return "", fmt.Errorf("normalize item %s: %w", item.ID, err)
	}

	ratio := model.SelectRatio(base.Width, base.Height)
	prompt := BuildPrompt(item.Category)

	taskID, err := u.gen.Submit(ctx, adapter.GenerationRequest{
		Prompt: prompt,
		Ratio:  ratio,
		References: []adapter.ReferenceImage{
			{Bytes: base.Bytes, MIME: base.MIME},
			{Bytes: product.Bytes, MIME: product.MIME},
		},
	})
	if err != nil {
		return "", err
	}
	return u.gen.Await(ctx, taskID)
}

// finish records the terminal state and the cache entry, unless the pair was
// abandoned by a portrait switch in the meantime. Abandoned pipelines must
// not write into a partition that was already cleared.
func (u *tryOnUC) finish(job *model.TryOnJob, url string, runErr error) *model.TryOnJob {
	if runErr == nil && !u.abandoned(job) {
		if err := u.cache.Put(context.Background(), job.PortraitID, job.ItemID, url); err != nil {
			runErr = fmt.Errorf("persist result: %w", err)
		}
	}
	if runErr != nil {
		return u.transition(job, func(j *model.TryOnJob) { j.MarkError(runErr) })
	}
	return u.transition(job, func(j *model.TryOnJob) { j.MarkSuccess(url) })
}

func (u *tryOnUC) transition(job *model.TryOnJob, apply func(*model.TryOnJob)) *model.TryOnJob {
	u.mu.Lock()
	abandoned := u.portrait == nil || u.portrait.ID != job.PortraitID || u.jobs[job.ItemID] != job
	apply(job)
	snapshot := job.Clone()
	u.mu.Unlock()

	if !abandoned {
		u.notify(snapshot)
	}
	return snapshot
}

func (u *tryOnUC) abandoned(job *model.TryOnJob) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.portrait == nil || u.portrait.ID != job.PortraitID || u.jobs[job.ItemID] != job
}
