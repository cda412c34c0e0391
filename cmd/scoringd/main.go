package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/prepmark/prepmark-scoring/internal/api/http"
	auth "github.com/prepmark/prepmark-scoring/internal/auth/middleware"
	"github.com/prepmark/prepmark-scoring/internal/config"
	"github.com/prepmark/prepmark-scoring/internal/db"
	"github.com/prepmark/prepmark-scoring/internal/eventlog"
	"github.com/prepmark/prepmark-scoring/internal/logging"
	"github.com/prepmark/prepmark-scoring/internal/rbac"
	"github.com/prepmark/prepmark-scoring/internal/scoring"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		bootLogger := logging.New("info", false)
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	// --- DB (anomaly event log) ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("db open failed")
	}
	events := eventlog.NewRepo(dbh)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)
	users := make(map[string]auth.Credential, len(cfg.Operators))
	for _, op := range cfg.Operators {
		users[op.Name] = auth.Credential{Role: op.Role, PassHash: op.PassHash}
	}

	// --- Engine ---
	var opts []scoring.Option
	if cfg.Tolerance > 0 {
		opts = append(opts, scoring.WithTolerance(cfg.Tolerance))
	}
	if cfg.Parallelism > 1 {
		opts = append(opts, scoring.WithParallelism(cfg.Parallelism))
	}
	eval := scoring.New(opts...)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, users))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("submission:score")).
			Post("/v1/score", api.ScoreHandler(eval, events, logger))
		pr.With(rbac.Require("anomaly:read")).
			Get("/v1/anomalies", api.ListAnomaliesHandler(events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	stop, stopCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopCancel()

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("db", cfg.DBDriver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server")
		}
	}()

	<-stop.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("stopped")
}
