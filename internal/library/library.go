// Package library wires the storage backend, the consistency coordinator
// and the service layer into one handle for the bot front-end.
package library

import (
	"context"
	"fmt"

	"github.com/j3rr7/MusicBotRewrite/internal/config"
	"github.com/j3rr7/MusicBotRewrite/internal/database"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/repositories"
	"github.com/j3rr7/MusicBotRewrite/internal/services"
	"github.com/j3rr7/MusicBotRewrite/internal/storage/memory"
	"github.com/j3rr7/MusicBotRewrite/internal/storage/postgres"
	"github.com/j3rr7/MusicBotRewrite/pkg/logger"
)

// Library bundles the music library services over one storage backend
type Library struct {
	config *config.Config
	logger *logger.Logger

	store    repositories.Store
	memStore *memory.Store // set when running without a database

	Identity  *services.IdentityService
	Settings  *services.SettingsService
	Playlists *services.PlaylistService
	Tracks    *services.TrackService
}

// New creates a library over PostgreSQL when configured, or over the
// in-memory arena with an optional JSON snapshot otherwise.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Library, error) {
	lib := &Library{config: cfg, logger: log}

	if cfg.UseDatabase {
		db, err := database.Connect(ctx, database.DefaultConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		lib.store = postgres.New(db)
	} else {
		mem := memory.New()
		if cfg.SnapshotPath != "" {
			if err := mem.LoadSnapshot(cfg.SnapshotPath); err != nil {
				return nil, fmt.Errorf("failed to load snapshot: %w", err)
			}
			log.WithField("path", cfg.SnapshotPath).Info("Snapshot loaded")
		}
		lib.store = mem
		lib.memStore = mem
	}

	coord := services.NewCoordinator(lib.store, cfg.LockWait, log)
	lib.Identity = services.NewIdentityService(coord, log)
	lib.Settings = services.NewSettingsService(coord, log)
	lib.Playlists = services.NewPlaylistService(coord, log)
	lib.Tracks = services.NewTrackService(coord, log)

	return lib, nil
}

// Close flushes the in-memory snapshot when configured and releases the
// storage backend.
func (l *Library) Close() {
	if l.memStore != nil && l.config.SnapshotPath != "" {
		if err := l.memStore.SaveSnapshot(l.config.SnapshotPath); err != nil {
			l.logger.WithError(err).Error("Failed to save snapshot")
		} else {
			l.logger.WithField("path", l.config.SnapshotPath).Info("Snapshot saved")
		}
	}
	l.store.Close()
}
