package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoPortrait      = errors.New("no portrait has been uploaded")

	// Generation pipeline errors
	ErrNotConfigured = errors.New("generation api key is not configured")
	ErrImageLoad     = errors.New("image could not be loaded")
	ErrComposite     = errors.New("reference images could not be merged")
	ErrEmptyResult   = errors.New("task succeeded but returned no images")
	ErrPoll          = errors.New("failed to poll generation task")
)

// SubmissionError is returned when the remote service rejects a generation
// request outright (bad request, auth failure, quota). The status and body
// are kept verbatim so the cause can be surfaced to the user.
type SubmissionError struct {
	Status int
	Body   string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("generation request rejected (%d): %s", e.Status, e.Body)
}

// GenerationError is returned when the remote job reaches FAILED or CANCELED.
type GenerationError struct {
	Reason string
}

func (e *GenerationError) Error() string {
	return "generation failed: " + e.Reason
}
