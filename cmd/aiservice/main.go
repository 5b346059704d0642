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
	"golang.org/x/sync/errgroup"

	"trailguard/internal/aiservice"
	"trailguard/internal/platform/config"
	"trailguard/internal/platform/httpserver"
	"trailguard/internal/platform/logger"
	"trailguard/internal/platform/middleware"
)

// main serves the placeholder scoring endpoints as a separate process so the
// API can call them over HTTP the same way it would call a real model server.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	aiservice.NewHandler().Register(router)

	srv := httpserver.New(cfg.AIAddr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting ai service", "addr", cfg.AIAddr, "env", cfg.Env)
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
		log.Error("ai service exited with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("ai service stopped")
}
