// Package app wires the player's dependencies into one explicitly owned
// container: config, logger, catalog repository, worker pool, preference
// store, and the playback engine over a single audio output.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/startoovoid/MusicPlayer-Go/player/catalog"
	"github.com/startoovoid/MusicPlayer-Go/player/config"
	"github.com/startoovoid/MusicPlayer-Go/player/engine"
	logpkg "github.com/startoovoid/MusicPlayer-Go/player/logger"
	"github.com/startoovoid/MusicPlayer-Go/player/metadata"
	"github.com/startoovoid/MusicPlayer-Go/player/output"
	"github.com/startoovoid/MusicPlayer-Go/player/prefs"
	"github.com/startoovoid/MusicPlayer-Go/player/worker"
	gormlogger "gorm.io/gorm/logger"
)

// App holds all application dependencies.
type App struct {
	Config    *config.Config
	Logger    *logpkg.Logger
	Catalog   *catalog.Repository
	Pool      *worker.Pool
	Prefs     *prefs.Store
	Extractor *metadata.Extractor
	Output    *output.Clock
	Engine    *engine.Engine
}

// New builds the application container.
func New(ctx context.Context, configPath string) (*App, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logpkg.New(conf.GetString("LogLevel"), conf.GetString("LogFormat"), conf.GetBool("LogSource"))
	if err != nil {
		return nil, err
	}

	gormLogger := logpkg.NewGormLogger(log, mapLogLevel(conf.GetString("GormLogLevel")))
	databasePath := strings.TrimSpace(conf.GetString("Database"))
	if databasePath == "" {
		databasePath = "library.db"
	}

	repo, err := catalog.NewSQLiteRepository(databasePath, gormLogger)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}
	if err := repo.ConfigurePool(
		conf.GetInt("DBMaxOpenConns"),
		conf.GetInt("DBMaxIdleConns"),
		time.Duration(conf.GetInt("DBConnMaxLifetimeSec"))*time.Second,
	); err != nil {
		return nil, fmt.Errorf("configure db pool: %w", err)
	}

	pool := worker.New(conf.GetInt("WorkerPoolSize"))
	preferences := prefs.New(repo, log)
	extractor := metadata.New(log)
	out := output.NewClock()

	eng, err := engine.New(engine.Options{
		Repo:       repo,
		Extractor:  extractor,
		Prefs:      preferences,
		Output:     out,
		Logger:     log,
		ParseLimit: pool.Size(),
	})
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}

	return &App{
		Config:    conf,
		Logger:    log,
		Catalog:   repo,
		Pool:      pool,
		Prefs:     preferences,
		Extractor: extractor,
		Output:    out,
		Engine:    eng,
	}, nil
}

// Start seeds the signature track, loads the playlist, and begins
// consuming output events.
func (a *App) Start(ctx context.Context) error {
	seedOpts := catalog.SeedOptions{
		TrackID:           a.Config.GetString("DefaultTrackID"),
		Filename:          a.Config.GetString("DefaultTrackFilename"),
		Title:             a.Config.GetString("DefaultTrackTitle"),
		Artist:            a.Config.GetString("DefaultTrackArtist"),
		Album:             a.Config.GetString("DefaultTrackAlbum"),
		MusicDir:          a.Config.GetString("MusicDir"),
		FallbackCoverPath: a.Config.GetString("FallbackCoverPath"),
	}

	err := a.Pool.SubmitWaitContext(ctx, func() error {
		return a.Catalog.InitializeDefaultTracks(ctx, seedOpts, a.Extractor, a.Logger)
	})
	if err != nil {
		a.Logger.Error("default track seed failed", "error", err)
	}

	if err := a.Engine.LoadPlaylist(ctx); err != nil {
		return fmt.Errorf("load playlist: %w", err)
	}

	a.Engine.Start(ctx)
	a.Logger.Info("player started",
		"tracks", len(a.Engine.Playlist()),
		"minimized", a.Prefs.Minimized(ctx),
	)
	return nil
}

// Shutdown releases resources in dependency order.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if a.Engine != nil {
		if err := a.Engine.Close(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("failed to close engine", "error", err)
			}
			firstErr = fmt.Errorf("close engine: %w", err)
		}
	}

	if a.Pool != nil {
		if err := a.Pool.Shutdown(ctx); err != nil {
			a.Pool.StopNow()
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown worker pool: %w", err)
			}
		}
	}

	if a.Catalog != nil {
		if err := a.Catalog.Close(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("failed to close catalog", "error", err)
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("close catalog: %w", err)
			}
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("close logger: %w", err)
			}
		}
	}

	return firstErr
}

func mapLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormlogger.Silent
	case "info", "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	case "warn", "warning":
		fallthrough
	default:
		return gormlogger.Warn
	}
}
