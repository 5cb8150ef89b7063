package adapter

import (
	"context"

	"tryon-studio/internal/domain/model"
)

// ImageNormalizer loads an image reference, bounds its dimensions and
// re-encodes it for submission.
type ImageNormalizer interface {
	Normalize(ctx context.Context, ref model.ImageRef) (*model.NormalizedImage, error)
}

// ImageCompositor merges two product images side-by-side into a single
// reference for multi-item looks.
type ImageCompositor interface {
	Composite(ctx context.Context, a, b model.ImageRef) (*model.NormalizedImage, error)
}
