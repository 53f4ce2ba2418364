package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vaultpass/keysmith/internal/bloom"
	"github.com/vaultpass/keysmith/internal/config"
	"github.com/vaultpass/keysmith/internal/dictionary"
	"github.com/vaultpass/keysmith/internal/handler"
	"github.com/vaultpass/keysmith/internal/metrics"
	"github.com/vaultpass/keysmith/internal/middleware"
	"github.com/vaultpass/keysmith/internal/random"
	"github.com/vaultpass/keysmith/internal/repository"
	"github.com/vaultpass/keysmith/internal/service"
	"github.com/vaultpass/keysmith/internal/strength"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	filter, err := weakPasswordFilter(cfg.Bloom)
	if err != nil {
		slog.Error("loading weak password filter", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	scorer := strength.NewScorer(filter)
	source := random.NewCryptoSource()

	strengthHandler := handler.NewStrengthHandler(service.NewStrengthService(scorer, m))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(m))
	r.Use(middleware.Compress)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	public := r.With(middleware.RateLimit(ctx, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	public.Post("/api/v1/strength", strengthHandler.HandleScore)

	// Auth and saved settings need the database; generation works without it.
	db, err := repository.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, auth and settings routes disabled", "error", err)
		genHandler := handler.NewGeneratorHandler(service.NewGeneratorService(source, scorer, nil, m))
		public.Post("/api/v1/generate", genHandler.HandleGenerate)
	} else {
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			slog.Warn("database migration failed", "driver", db.Driver(), "error", err)
		}

		settingsRepo := repository.NewSettingsRepository(db)
		genHandler := handler.NewGeneratorHandler(service.NewGeneratorService(source, scorer, settingsRepo, m))
		public.Post("/api/v1/generate", genHandler.HandleGenerate)

		userRepo := repository.NewUserRepository(db)
		authHandler := handler.NewAuthHandler(service.NewAuthService(userRepo, scorer, cfg.JWTSecret, cfg.JWTExpiry))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
			r.Post("/api/v1/auth/register", authHandler.HandleRegister)
			r.Post("/api/v1/auth/login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Get("/api/v1/auth/me", authHandler.HandleMe)

			r.Get("/api/v1/generator/settings", genHandler.HandleGetSettings)
			r.Put("/api/v1/generator/settings", genHandler.HandlePutSettings)
			r.Post("/api/v1/generator/generate", genHandler.HandleGenerateForUser)
		})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func weakPasswordFilter(cfg config.BloomConfig) (*bloom.Filter, error) {
	if cfg.CorpusPath != "" {
		return dictionary.LoadCorpus(cfg.CorpusPath, cfg.Bits, cfg.Hashes)
	}
	f, err := dictionary.Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	slog.Info("weak password filter ready", "bits", f.Bits(), "hashes", f.K())
	return f, nil
}
