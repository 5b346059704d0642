package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"trailguard/internal/alert"
	"trailguard/internal/auth"
	"trailguard/internal/blockchain"
	"trailguard/internal/geofence"
	"trailguard/internal/importer"
	"trailguard/internal/location"
	"trailguard/internal/platform/config"
	"trailguard/internal/platform/httpserver"
	"trailguard/internal/platform/logger"
	"trailguard/internal/platform/metrics"
	"trailguard/internal/platform/middleware"
	"trailguard/internal/platform/postgres"
	"trailguard/internal/platform/redis"
	"trailguard/pkg/httputil"
	"trailguard/pkg/tx"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal feature packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Error("failed to ensure schema", "error", err.Error())
		os.Exit(1)
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()
	runner := tx.SQLRunner{DB: db}

	userStore := auth.NewPostgres(db)
	geofenceStore := geofence.NewPostgres(db)
	locationStore := location.NewPostgres(db)
	alertStore := alert.NewPostgres(db)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	authService := auth.NewService(userStore, tokens, m)
	geofenceService := geofence.NewService(geofenceStore)
	alertService := alert.NewService(alertStore)
	locationService := location.NewService(locationStore, geofenceStore, alertStore, runner, m)
	verifyService := blockchain.NewService(blockchain.NewClient(cfg.PolygonRPCURL), cfg.ContractAddress)
	importService := importer.NewService(geofenceStore, userStore, runner, m)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.AllowOrigins))
	router.Use(middleware.Latency(m))

	auth.NewHandler(authService, log).Register(router)
	geofence.NewHandler(geofenceService, authService, log).Register(router)
	location.NewHandler(locationService, authService, log).Register(router)
	alert.NewHandler(alertService, authService, log).Register(router)
	blockchain.NewHandler(verifyService, log).Register(router)
	importer.NewHandler(importService, authService, log).Register(router)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(checkCtx); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db unavailable"})
			return
		}
		if redisClient != nil {
			if err := redisClient.Health(checkCtx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "redis unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "project", cfg.ProjectName, "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}
