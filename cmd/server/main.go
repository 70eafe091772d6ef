package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/propline/estatedesk/internal/activitylog"
	"github.com/propline/estatedesk/internal/backup"
	"github.com/propline/estatedesk/internal/cache"
	"github.com/propline/estatedesk/internal/config"
	"github.com/propline/estatedesk/internal/dataset"
	"github.com/propline/estatedesk/internal/domain"
	"github.com/propline/estatedesk/internal/httpapi"
	"github.com/propline/estatedesk/internal/middleware"
	"github.com/propline/estatedesk/internal/registry"
	"github.com/propline/estatedesk/internal/sheets"

	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	reg := registry.New(cfg.RegistryFile)
	fetcher := sheets.New(cfg.FetchTimeout)

	// Snapshot load path: resolve the configured location, then fetch.
	// An unconfigured dataset is a not-found error, which the handlers
	// turn into the backup-or-empty fallback.
	snapshots := cache.New(cfg.DatasetTTL, func(ctx context.Context, dt domain.DatasetType) (domain.TableSnapshot, error) {
		descriptor, ok, err := reg.Get(dt)
		if err != nil {
			return domain.TableSnapshot{}, err
		}
		if !ok {
			return domain.TableSnapshot{}, fmt.Errorf("%w: no sheet configured for %s", domain.ErrNotFound, dt)
		}
		return fetcher.Fetch(ctx, descriptor.URL)
	})

	backups := backup.NewStore(filepath.Join(cfg.DataDir, "backups"))
	audit := activitylog.New(cfg.ActivityLog)
	service := dataset.NewService(snapshots, backups, audit)

	api := httpapi.New(
		reg,
		snapshots,
		dataset.NewPropertiesHandler(service),
		dataset.NewClientsHandler(service),
		dataset.NewUsersHandler(service, cfg.UsersFile),
		dataset.NewActivityHandler(service),
		dataset.NewTransactionsHandler(service),
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      corsHandler.Handler(middleware.LoggingMiddleware(api.Routes())),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting API server on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
