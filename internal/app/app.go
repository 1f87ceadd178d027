// Package app assembles the services shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/timmy/captionrelay/internal/config"
	"github.com/timmy/captionrelay/internal/logger"
	"github.com/timmy/captionrelay/internal/metrics"
	"github.com/timmy/captionrelay/internal/repository"
	"github.com/timmy/captionrelay/internal/service"
	"github.com/timmy/captionrelay/internal/storage"
	"gorm.io/gorm"
)

// App holds the wired components.
type App struct {
	Config  *config.Config
	Store   *storage.DiskStore
	Caption *service.CaptionClient
	Media   *service.MediaService
	Metrics *metrics.Recorder
	// Catalog is nil unless database.enabled is set.
	Catalog *repository.StoredFileRepository

	db *gorm.DB
}

// New wires storage, the optional mirror and database, and the media service.
// reg receives the metric collectors; pass nil to disable metrics.
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	a := &App{Config: cfg}

	if reg != nil && cfg.Metrics.Enabled {
		a.Metrics = metrics.New(reg)
	}

	a.Store = storage.NewDiskStore(cfg.Storage.Dir, cfg.Storage.URLPrefix)
	a.Caption = service.NewCaptionClient(&service.CaptionConfig{
		Endpoint: cfg.Caption.Endpoint(),
		Timeout:  cfg.Caption.Timeout,
	}, a.Metrics)

	opts := []service.MediaOption{service.WithMetrics(a.Metrics)}

	if cfg.Storage.Mirror.Enabled {
		mirror, err := newMirror(ctx, &cfg.Storage.Mirror)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithMirror(mirror))
	}

	if cfg.Database.Enabled {
		db, err := repository.InitDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		a.db = db
		a.Catalog = repository.NewStoredFileRepository(db)
		opts = append(opts, service.WithCatalog(a.Catalog))
	}

	a.Media = service.NewMediaService(a.Store, a.Caption, opts...)

	logger.GetDefault().WithFields(logger.Fields{
		"storage_dir":      a.Store.Dir(),
		"caption_endpoint": a.Caption.Endpoint(),
		"mirror":           cfg.Storage.Mirror.Enabled,
		"database":         cfg.Database.Enabled,
	}).Info("Services initialized")

	return a, nil
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return repository.Close(a.db)
}

func newMirror(ctx context.Context, cfg *config.MirrorConfig) (*storage.S3Mirror, error) {
	mirror, err := storage.NewMirror(&storage.MirrorConfig{
		Type:      storage.StorageType(cfg.Type),
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		Prefix:    cfg.Prefix,
		PublicURL: cfg.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init mirror: %w", err)
	}
	if err := mirror.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure mirror bucket: %w", err)
	}
	return mirror, nil
}
