// File: internal/infra/adapters/runway/client.go
package runway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"tryon-studio/internal/config"
	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/ports/adapter"
	"tryon-studio/internal/infra/logging"
	"tryon-studio/internal/infra/metrics"
)

const (
	apiVersion = "2024-11-06"

	// maxPromptLen is the hard cap the API places on promptText; anything
	// longer is rejected, so the client enforces it at the boundary.
	maxPromptLen = 999

	statusSucceeded = "SUCCEEDED"
	statusFailed    = "FAILED"
	statusCanceled  = "CANCELED"
)

var _ adapter.GenerationAdapter = (*Client)(nil)

// Client talks to the Runway task API: one POST to open a generation task,
// then polling GETs until the task reaches a terminal status.
type Client struct {
	apiKey       string
	baseURL      string
	model        string
	pollInterval time.Duration
	maxAttempts  int // 0 = poll until terminal

	httpc *http.Client
	sem   *semaphore.Weighted
	log   *zerolog.Logger

	// sleep is swapped out in tests to observe the poll cadence.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg *config.RunwayConfig, logger *zerolog.Logger) *Client {
	limit := int64(cfg.ConcurrentLimit)
	if limit <= 0 {
		limit = 4
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		model:        cfg.Model,
		pollInterval: cfg.PollInterval,
		maxAttempts:  cfg.MaxPollAttempts,
		httpc:        &http.Client{Timeout: 60 * time.Second},
		sem:          semaphore.NewWeighted(limit),
		log:          logger,
		sleep:        sleepCtx,
	}
}

type submitBody struct {
	Model           string           `json:"model"`
	Ratio           string           `json:"ratio"`
	PromptText      string           `json:"promptText"`
	ReferenceImages []referenceImage `json:"referenceImages"`
	Seed            int              `json:"seed"`
}

type referenceImage struct {
	URI string `json:"uri"`
}

type taskResponse struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	Output        []string `json:"output"`
	FailureReason string   `json:"failureReason"`
	Error         string   `json:"error"`
}

func (c *Client) Submit(ctx context.Context, req adapter.GenerationRequest) (string, error) {
	if c.apiKey == "" {
		return "", domain.ErrNotConfigured
	}

	refs := make([]referenceImage, 0, len(req.References))
	for _, ref := range req.References {
		refs = append(refs, referenceImage{URI: dataURI(ref)})
	}
	body, err := json.Marshal(submitBody{
		Model:           c.model,
		Ratio:           string(req.Ratio),
		PromptText:      capPrompt(req.Prompt),
		ReferenceImages: refs,
		Seed:            rand.Intn(1_000_000),
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/text_to_image", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var task taskResponse
	if err := c.do(ctx, httpReq, &task); err != nil {
		return "", err
	}
	logging.With(ctx, c.log).Debug().Str("task_id", task.ID).Msg("generation task opened")
	return task.ID, nil
}

func (c *Client) Await(ctx context.Context, taskID string) (string, error) {
	defer logging.TraceDuration(logging.With(ctx, c.log), "runway.Await")()

	for attempt := 0; ; attempt++ {
		if c.maxAttempts > 0 && attempt >= c.maxAttempts {
			return "", fmt.Errorf("task %s still running after %d polls: %w", taskID, attempt, domain.ErrPoll)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/tasks/"+taskID, nil)
		if err != nil {
			return "", err
		}
		var task taskResponse
		if err := c.do(ctx, httpReq, &task); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			// Submission rejections keep their own type; anything that goes
			// wrong while polling an accepted task is a poll failure.
			return "", fmt.Errorf("%w: task %s: %v", domain.ErrPoll, taskID, err)
		}

		switch task.Status {
		case statusSucceeded:
			metrics.ObservePollRounds(attempt + 1)
			if len(task.Output) == 0 {
				return "", domain.ErrEmptyResult
			}
			return task.Output[0], nil
		case statusFailed, statusCanceled:
			metrics.ObservePollRounds(attempt + 1)
			return "", &domain.GenerationError{Reason: failureReason(task)}
		}

		// PENDING, RUNNING, THROTTLED: wait out the interval, then ask again.
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return "", err
		}
	}
}

// do sends one authenticated request under the concurrency gate and decodes
// the JSON response into out. Non-2xx responses become SubmissionError with
// the raw body preserved for diagnostics.
func (c *Client) do(ctx context.Context, req *http.Request, out *taskResponse) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Runway-Version", apiVersion)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.SubmissionError{Status: resp.StatusCode, Body: string(raw)}
	}
	return json.Unmarshal(raw, out)
}

func failureReason(task taskResponse) string {
	switch {
	case task.FailureReason != "":
		return task.FailureReason
	case task.Error != "":
		return task.Error
	default:
		return task.Status
	}
}

func capPrompt(s string) string {
	if len(s) <= maxPromptLen {
		return s
	}
	return s[:maxPromptLen]
}

func dataURI(ref adapter.ReferenceImage) string {
	mime := ref.MIME
	if mime == "" {
		mime = "image/webp"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(ref.Bytes)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
