// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tryon-studio/internal/config"
	"tryon-studio/internal/domain/model"
	"tryon-studio/internal/infra/adapters/runway"
	"tryon-studio/internal/infra/catalog"
	"tryon-studio/internal/infra/imaging"
	"tryon-studio/internal/infra/logging"
	"tryon-studio/internal/infra/metrics"
	red "tryon-studio/internal/infra/redis"
	"tryon-studio/internal/infra/web"
	"tryon-studio/internal/infra/worker"
	"tryon-studio/internal/infra/ws"
	"tryon-studio/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, verbose)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}
	if cfg.Runway.APIKey == "" {
		logger.Warn().Msg("RUNWAY_API_KEY not set; generation requests will be rejected until configured")
	}

	metrics.MustRegister()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	resultCache := red.NewResultCache(redisClient)
	wishlistRepo := red.NewWishlistRepo(redisClient)
	portraitRepo := red.NewPortraitRepo(redisClient, cfg.Redis.TTL)

	// ---- Imaging & generation ----
	normalizer := imaging.NewNormalizer(cfg.TryOn.AssetsDir, logger)
	compositor := imaging.NewCompositor(normalizer)
	genClient := runway.NewClient(&cfg.Runway, logger)

	// ---- Workers ----
	pool := worker.NewPool(cfg.TryOn.Workers)
	pool.Start(ctx)
	defer pool.Stop()

	// ---- Status fan-out ----
	hub := ws.NewHub(logger)
	defer hub.Close()
	notify := func(job *model.TryOnJob) {
		hub.Notify(job)
		switch job.Status {
		case model.TryOnStatusSuccess, model.TryOnStatusError:
			metrics.IncTryOnJob(string(job.Status))
			metrics.ObserveJobDuration(job.UpdatedAt.Sub(job.CreatedAt).Seconds())
		}
	}

	// ---- Use cases ----
	items := catalog.New()
	tryonUC := usecase.NewTryOnUseCase(resultCache, portraitRepo, normalizer, compositor, genClient, pool, notify, logger)
	wishlistUC := usecase.NewWishlistUseCase(wishlistRepo, items, tryonUC, logger)

	// ---- HTTP server ----
	srv := web.NewServer(tryonUC, wishlistUC, items, hub, &cfg.TryOn, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
	tryonUC.Wait()
}
