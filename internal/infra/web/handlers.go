package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tryon-studio/internal/config"
	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/model"
	"tryon-studio/internal/infra/imaging"
	"tryon-studio/internal/infra/logging"
)

// maxUploadBytes caps portrait uploads; phone camera shots stay well under it.
const maxUploadBytes = 20 << 20

type portraitResponse struct {
	ID        string    `json:"id"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

func portraitView(p *model.Portrait) portraitResponse {
	return portraitResponse{
		ID:        p.ID,
		Width:     p.Width,
		Height:    p.Height,
		Source:    string(p.Source),
		CreatedAt: p.CreatedAt,
	}
}

func (s *Server) handlePortraitUpload(w http.ResponseWriter, r *http.Request) {
	data, err := readPortraitBody(r)
	if err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}

	width, height, err := imaging.Dimensions(data)
	if err != nil {
		http.Error(w, "Unsupported image format", http.StatusUnsupportedMediaType)
		return
	}

	source := model.PortraitSource(r.URL.Query().Get("source"))
	switch source {
	case model.PortraitSourceUpload, model.PortraitSourceCapture, model.PortraitSourceSample:
	default:
		source = model.PortraitSourceUpload
	}

	portrait := model.NewPortrait(data, width, height, source)
	if err := s.tryon.SetPortrait(r.Context(), portrait); err != nil {
		s.writeError(w, err)
		return
	}

	if s.cfg.Warmup == config.WarmupEager {
		// Pre-generate the whole catalog in the background so browsing
		// feels instant. Detached from the request context on purpose.
		go func() {
			if _, err := s.tryon.GenerateMany(context.Background(), portrait, s.catalog.All()); err != nil {
				s.log.Warn().Err(err).Msg("warmup batch")
			}
		}()
	}

	writeJSON(w, http.StatusCreated, portraitView(portrait))
}

// readPortraitBody accepts either a multipart form with a "portrait" file
// field or a raw image body.
func readPortraitBody(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		file, _, err := r.FormFile("portrait")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	}
	return io.ReadAll(r.Body)
}

func (s *Server) handlePortraitGet(w http.ResponseWriter, r *http.Request) {
	portrait, err := s.tryon.ActivePortrait(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, portraitView(portrait))
}

func (s *Server) handlePortraitClear(w http.ResponseWriter, r *http.Request) {
	if err := s.tryon.ClearPortrait(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.All())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s.runPipeline(w, r, s.tryon.GenerateOne)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	s.runPipeline(w, r, s.tryon.Retry)
}

func (s *Server) runPipeline(
	w http.ResponseWriter,
	r *http.Request,
	run func(ctx context.Context, p *model.Portrait, item model.CatalogItem) (*model.TryOnJob, error),
) {
	item, ok := s.catalog.Find(chi.URLParam(r, "itemID"))
	if !ok {
		http.Error(w, "Unknown item", http.StatusNotFound)
		return
	}
	ctx := logging.WithItemID(r.Context(), item.ID)
	portrait, err := s.activePortrait(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	job, err := run(logging.WithPortraitID(ctx, portrait.ID), portrait, item)
	if err != nil && job == nil {
		s.writeError(w, err)
		return
	}
	// A failed pipeline still yields a job; its status carries the error.
	writeJSON(w, http.StatusOK, job)
}

type batchRequest struct {
	ItemIDs []string `json:"itemIds"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	items := make([]model.CatalogItem, 0, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		if item, ok := s.catalog.Find(id); ok {
			items = append(items, item)
		}
	}
	portrait, err := s.activePortrait(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	scheduled, err := s.tryon.GenerateMany(r.Context(), portrait, items)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"scheduled": scheduled})
}

type comboRequest struct {
	NecklaceID string `json:"necklaceId"`
	EarringID  string `json:"earringId"`
}

func (s *Server) handleCombo(w http.ResponseWriter, r *http.Request) {
	var req comboRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	necklace, ok := s.catalog.Find(req.NecklaceID)
	if !ok {
		http.Error(w, "Unknown necklace", http.StatusNotFound)
		return
	}
	earring, ok := s.catalog.Find(req.EarringID)
	if !ok {
		http.Error(w, "Unknown earring", http.StatusNotFound)
		return
	}
	portrait, err := s.activePortrait(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	combo, err := s.tryon.ComposeCombo(r.Context(), necklace, earring)
	if err != nil {
		s.writeError(w, err)
		return
	}
	job, err := s.tryon.GenerateOne(r.Context(), portrait, combo)
	if err != nil && job == nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Item model.CatalogItem `json:"item"`
		Job  *model.TryOnJob   `json:"job"`
	}{Item: withoutImageData(combo), Job: job})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	results, err := s.tryon.Results(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	var portraitID string
	if p, err := s.tryon.ActivePortrait(r.Context()); err == nil {
		portraitID = p.ID
	}
	writeJSON(w, http.StatusOK, struct {
		PortraitID string                     `json:"portraitId,omitempty"`
		Jobs       map[string]*model.TryOnJob `json:"jobs"`
		Results    map[string]string          `json:"results"`
	}{PortraitID: portraitID, Jobs: s.tryon.Jobs(), Results: results})
}

func (s *Server) handleWishlistList(w http.ResponseWriter, r *http.Request) {
	items, err := s.wishlist.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleWishlistAdd(w http.ResponseWriter, r *http.Request) {
	if err := s.wishlist.Add(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWishlistRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.wishlist.Remove(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWishlistGenerate(w http.ResponseWriter, r *http.Request) {
	scheduled, err := s.wishlist.GenerateAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"scheduled": scheduled})
}

// activePortrait maps a missing portrait onto ErrNoPortrait so callers get
// a conflict instead of a generic not-found.
func (s *Server) activePortrait(ctx context.Context) (*model.Portrait, error) {
	portrait, err := s.tryon.ActivePortrait(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoPortrait
	}
	return portrait, err
}

// withoutImageData strips the merged reference bytes from API responses;
// clients fetch the generated result by URL, not the intermediate canvas.
func withoutImageData(item model.CatalogItem) model.CatalogItem {
	item.Image.Data = nil
	return item
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var subErr *domain.SubmissionError
	var genErr *domain.GenerationError

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNoPortrait):
		http.Error(w, "No active portrait", http.StatusConflict)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNotConfigured):
		http.Error(w, "Generation API key not configured", http.StatusServiceUnavailable)
	case errors.As(err, &subErr), errors.As(err, &genErr):
		s.log.Error().Err(err).Msg("generation backend error")
		http.Error(w, "Generation failed", http.StatusBadGateway)
	default:
		s.log.Error().Err(err).Msg("internal error")
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
