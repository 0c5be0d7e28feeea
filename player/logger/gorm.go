package logger

import (
	"context"
	"errors"
	"time"

	"github.com/startoovoid/MusicPlayer-Go/player"
	gormlog "gorm.io/gorm/logger"
)

// slowQueryThreshold marks catalog queries worth a warning; the player's
// queries are tiny, so anything this slow points at a locked database.
const slowQueryThreshold = 150 * time.Millisecond

// GormLogger routes gorm's logger.Interface onto the player's Logger so
// catalog queries land in the same stream as the rest of the app.
type GormLogger struct {
	log   player.Logger
	level gormlog.LogLevel
}

// NewGormLogger adapts log for gorm at the given level.
func NewGormLogger(log player.Logger, level gormlog.LogLevel) *GormLogger {
	return &GormLogger{log: log.With("component", "catalog"), level: level}
}

func (g *GormLogger) LogMode(level gormlog.LogLevel) gormlog.Interface {
	return &GormLogger{log: g.log, level: level}
}

func (g *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormlog.Info {
		g.log.Info(msg, "data", data)
	}
}

func (g *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormlog.Warn {
		g.log.Warn(msg, "data", data)
	}
}

func (g *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormlog.Error {
		g.log.Error(msg, "data", data)
	}
}

// Trace reports one executed statement. Lookup misses are not errors here;
// the repository maps those to its own sentinel.
func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlog.Silent {
		return
	}

	sql, rows := fc()
	elapsed := time.Since(begin)

	switch {
	case err != nil && g.level >= gormlog.Error && !errors.Is(err, gormlog.ErrRecordNotFound):
		g.log.Error("catalog query failed", "error", err, "sql", sql, "rows", rows, "elapsed", elapsed)
	case elapsed >= slowQueryThreshold && g.level >= gormlog.Warn:
		g.log.Warn("slow catalog query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case g.level >= gormlog.Info:
		g.log.Debug("catalog query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
