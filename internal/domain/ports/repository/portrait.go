package repository

import (
	"context"

	"tryon-studio/internal/domain/model"
)

// PortraitRepository persists the current portrait so a session survives
// reloads. Load returns domain.ErrNotFound when none is stored.
type PortraitRepository interface {
	Save(ctx context.Context, p *model.Portrait) error
	Load(ctx context.Context) (*model.Portrait, error)
	Delete(ctx context.Context) error
}
