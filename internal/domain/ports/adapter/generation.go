package adapter

import (
	"context"

	"tryon-studio/internal/domain/model"
)

// ReferenceImage is one input image for a generation request. Order matters:
// the portrait always comes first, the product second.
type ReferenceImage struct {
	Bytes []byte
	MIME  string
}

type GenerationRequest struct {
	Prompt     string
	Ratio      model.AspectRatio
	References []ReferenceImage
}

// GenerationAdapter is the port for the remote image-generation task API.
type GenerationAdapter interface {
	// Submit starts a generation task and returns the remote task id.
	Submit(ctx context.Context, req GenerationRequest) (string, error)

	// Await blocks until the task reaches a terminal state and returns the
	// first output URL. Terminal failures come back as domain errors.
	Await(ctx context.Context, taskID string) (string, error)
}
