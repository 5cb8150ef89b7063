package web

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tryon-studio/internal/config"
	"tryon-studio/internal/infra/logging"
	"tryon-studio/internal/infra/ws"
	"tryon-studio/internal/usecase"
)

type Server struct {
	tryon    usecase.TryOnUseCase
	wishlist usecase.WishlistUseCase
	catalog  usecase.Catalog
	hub      *ws.Hub
	cfg      *config.TryOnConfig
	log      *zerolog.Logger
}

func NewServer(
	tryonUC usecase.TryOnUseCase,
	wishlistUC usecase.WishlistUseCase,
	catalog usecase.Catalog,
	hub *ws.Hub,
	cfg *config.TryOnConfig,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		tryon:    tryonUC,
		wishlist: wishlistUC,
		catalog:  catalog,
		hub:      hub,
		cfg:      cfg,
		log:      logger,
	}
}

// Router builds the full HTTP surface: the JSON API, the status stream,
// Prometheus metrics and the static product images.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.traceMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)

		r.Route("/portrait", func(r chi.Router) {
			r.Post("/", s.handlePortraitUpload)
			r.Get("/", s.handlePortraitGet)
			r.Delete("/", s.handlePortraitClear)
		})

		r.Route("/tryon", func(r chi.Router) {
			r.Get("/status", s.handleStatus)
			r.Post("/batch", s.handleBatch)
			r.Post("/combo", s.handleCombo)
			r.Post("/{itemID}", s.handleGenerate)
			r.Post("/{itemID}/retry", s.handleRetry)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", s.handleWishlistList)
			r.Post("/generate", s.handleWishlistGenerate)
			r.Post("/{itemID}", s.handleWishlistAdd)
			r.Delete("/{itemID}", s.handleWishlistRemove)
		})
	})

	r.Get("/ws/status", s.hub.ServeWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	imageDir := filepath.Join(s.cfg.AssetsDir, "images")
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(imageDir))))

	return r
}

// traceMiddleware stamps each request with a trace ID for log correlation.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Request-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		ctx := logging.WithTraceID(r.Context(), traceID)
		w.Header().Set("X-Request-ID", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
