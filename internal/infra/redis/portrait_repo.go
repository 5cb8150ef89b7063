package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/model"
	"tryon-studio/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.PortraitRepository = (*PortraitRepo)(nil)

const portraitKey = "tryon:portrait"

// PortraitRepo persists the active portrait as a JSON blob so a session
// survives restarts. TTL of zero keeps it until explicitly cleared.
type PortraitRepo struct {
	client *redClient
	ttl    time.Duration
}

func NewPortraitRepo(client *redClient, ttl time.Duration) repository.PortraitRepository {
	return &PortraitRepo{client: client, ttl: ttl}
}

func (p *PortraitRepo) Save(ctx context.Context, portrait *model.Portrait) error {
	data, err := json.Marshal(portrait)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, portraitKey, data, p.ttl)
}

func (p *PortraitRepo) Load(ctx context.Context) (*model.Portrait, error) {
	data, err := p.client.Get(ctx, portraitKey)
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var portrait model.Portrait
	if err := json.Unmarshal([]byte(data), &portrait); err != nil {
		return nil, err
	}
	return &portrait, nil
}

func (p *PortraitRepo) Delete(ctx context.Context) error {
	return p.client.Del(ctx, portraitKey)
}
