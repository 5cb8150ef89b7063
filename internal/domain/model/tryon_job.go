package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type TryOnStatus string

const (
	TryOnStatusPending    TryOnStatus = "pending"
	TryOnStatusProcessing TryOnStatus = "processing"
	TryOnStatusSuccess    TryOnStatus = "success"
	TryOnStatusError      TryOnStatus = "error"
)

// TryOnJob tracks one generation attempt for a (portrait, item) pair.
// At most one active job exists per pair; a retry supersedes the old record
// with a fresh one.
type TryOnJob struct {
	ID         string      `json:"id"`
	PortraitID string      `json:"portraitId"`
	ItemID     string      `json:"itemId"`
	Status     TryOnStatus `json:"status"`
	ResultURL  string      `json:"resultUrl,omitempty"`
	LastError  string      `json:"error,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

func NewTryOnJob(portraitID, itemID string) *TryOnJob {
	now := time.Now()
	return &TryOnJob{
		ID:         ulid.Make().String(),
		PortraitID: portraitID,
		ItemID:     itemID,
		Status:     TryOnStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Active reports whether the job still has a pipeline attached to it.
func (j *TryOnJob) Active() bool {
	return j.Status == TryOnStatusPending || j.Status == TryOnStatusProcessing
}

func (j *TryOnJob) MarkProcessing() {
	j.Status = TryOnStatusProcessing
	j.UpdatedAt = time.Now()
}

func (j *TryOnJob) MarkSuccess(resultURL string) {
	j.Status = TryOnStatusSuccess
	j.ResultURL = resultURL
	j.LastError = ""
	j.UpdatedAt = time.Now()
}

func (j *TryOnJob) MarkError(err error) {
	j.Status = TryOnStatusError
	if err != nil {
		j.LastError = err.Error()
	}
	j.UpdatedAt = time.Now()
}

// Clone returns a snapshot safe to hand outside the orchestrator's lock.
func (j *TryOnJob) Clone() *TryOnJob {
	c := *j
	return &c
}
