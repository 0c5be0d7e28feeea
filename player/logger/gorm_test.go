package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/startoovoid/MusicPlayer-Go/player"
	gormlog "gorm.io/gorm/logger"
)

type recordingLogger struct {
	entries []string
}

func (r *recordingLogger) Debug(msg string, _ ...any) { r.entries = append(r.entries, "debug "+msg) }
func (r *recordingLogger) Info(msg string, _ ...any)  { r.entries = append(r.entries, "info "+msg) }
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.entries = append(r.entries, "warn "+msg) }
func (r *recordingLogger) Error(msg string, _ ...any) { r.entries = append(r.entries, "error "+msg) }
func (r *recordingLogger) With(...any) player.Logger  { return r }

func noQuery() (string, int64) { return "SELECT 1", 1 }

func TestGormLoggerLevelFiltering(t *testing.T) {
	rec := &recordingLogger{}
	g := NewGormLogger(rec, gormlog.Warn)
	ctx := context.Background()

	g.Info(ctx, "migrating")
	if len(rec.entries) != 0 {
		t.Errorf("Info below level produced %v, want nothing", rec.entries)
	}

	g.Warn(ctx, "pragma fallback")
	if len(rec.entries) != 1 || rec.entries[0] != "warn pragma fallback" {
		t.Errorf("entries = %v, want single warning", rec.entries)
	}
}

func TestGormLoggerTrace(t *testing.T) {
	ctx := context.Background()

	rec := &recordingLogger{}
	g := NewGormLogger(rec, gormlog.Error)
	g.Trace(ctx, time.Now(), noQuery, errors.New("disk I/O error"))
	if len(rec.entries) != 1 || rec.entries[0] != "error catalog query failed" {
		t.Errorf("entries = %v, want one query failure", rec.entries)
	}

	// Lookup misses are the repository's concern, not log noise.
	rec = &recordingLogger{}
	g = NewGormLogger(rec, gormlog.Error)
	g.Trace(ctx, time.Now(), noQuery, gormlog.ErrRecordNotFound)
	if len(rec.entries) != 0 {
		t.Errorf("record-not-found produced %v, want nothing", rec.entries)
	}

	rec = &recordingLogger{}
	g = NewGormLogger(rec, gormlog.Warn)
	g.Trace(ctx, time.Now().Add(-time.Second), noQuery, nil)
	if len(rec.entries) != 1 || rec.entries[0] != "warn slow catalog query" {
		t.Errorf("entries = %v, want one slow-query warning", rec.entries)
	}

	rec = &recordingLogger{}
	g = NewGormLogger(rec, gormlog.Info)
	g.Trace(ctx, time.Now(), noQuery, nil)
	if len(rec.entries) != 1 || rec.entries[0] != "debug catalog query" {
		t.Errorf("entries = %v, want one query trace", rec.entries)
	}

	rec = &recordingLogger{}
	g = NewGormLogger(rec, gormlog.Silent)
	g.Trace(ctx, time.Now(), noQuery, errors.New("ignored"))
	if len(rec.entries) != 0 {
		t.Errorf("silent level produced %v, want nothing", rec.entries)
	}
}

func TestGormLoggerLogMode(t *testing.T) {
	rec := &recordingLogger{}
	g := NewGormLogger(rec, gormlog.Silent)

	relaxed := g.LogMode(gormlog.Warn)
	relaxed.Warn(context.Background(), "busy timeout")
	if len(rec.entries) != 1 {
		t.Errorf("LogMode copy did not log at its new level: %v", rec.entries)
	}
	g.Warn(context.Background(), "still silent")
	if len(rec.entries) != 1 {
		t.Errorf("LogMode mutated the original logger: %v", rec.entries)
	}
}
