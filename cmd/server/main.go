package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/peerpath/journey-backend-go/internal/api"
	"github.com/peerpath/journey-backend-go/internal/config"
	"github.com/peerpath/journey-backend-go/internal/database"
	"github.com/peerpath/journey-backend-go/internal/geocode"
	"github.com/peerpath/journey-backend-go/internal/repository"
	"github.com/peerpath/journey-backend-go/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		return err
	}
	defer database.Close()

	journeyRepo := repository.NewJourneyRepository(database.GetDB())
	sessions := service.NewSessionManager(journeyRepo)
	searcher := geocode.NewClient(cfg.PhotonURL, cfg.NominatimURL)

	router := api.SetupRouter(cfg, sessions, searcher)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sessions.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
