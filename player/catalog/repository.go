package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/startoovoid/MusicPlayer-Go/player"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Repository provides durable access to the track catalog database.
type Repository struct {
	db *gorm.DB
}

// NewSQLiteRepository creates a repository backed by SQLite.
func NewSQLiteRepository(dsn string, gormLogger logger.Interface) (*Repository, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn required")
	}

	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	dbDir := filepath.Dir(dsn)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, err
	}

	if err := applySQLitePragmas(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&TrackModel{}, &SettingModel{}); err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Repository{db: db}, nil
}

// ConfigurePool updates the database connection pool settings.
func (r *Repository) ConfigurePool(maxOpen, maxIdle int, maxLifetime time.Duration) error {
	if r == nil || r.db == nil {
		return errors.New("repository not configured")
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	if maxOpen >= 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle >= 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if maxLifetime >= 0 {
		sqlDB.SetConnMaxLifetime(maxLifetime)
	}
	return nil
}

// Put inserts a track or overwrites the record with the same id.
// Overwriting is allowed and used for seed repair.
func (r *Repository) Put(ctx context.Context, track *player.Track) error {
	if track == nil || track.ID == "" {
		return storageErr("put", "", errors.New("track id required"))
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := toModel(track)
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "track_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"deleted_at",
				"updated_at",
				"title",
				"artist",
				"album",
				"filename",
				"cover_art",
				"is_local",
				"is_default",
				"payload",
			}),
		}).Create(model).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("track_id = ?", model.TrackID).First(model).Error; err != nil {
			return err
		}
		track.CreatedAt = model.CreatedAt
		track.UpdatedAt = model.UpdatedAt
		return nil
	})
	return storageErr("put", track.ID, err)
}

// GetAll returns all active tracks in storage order.
func (r *Repository) GetAll(ctx context.Context) ([]*player.Track, error) {
	var models []TrackModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, storageErr("get all", "", err)
	}
	tracks := make([]*player.Track, 0, len(models))
	for _, model := range models {
		tracks = append(tracks, toInternal(model))
	}
	return tracks, nil
}

// GetByID returns one track, active or soft-deleted.
func (r *Repository) GetByID(ctx context.Context, id string) (*player.Track, error) {
	var model TrackModel
	err := r.db.WithContext(ctx).Unscoped().Where("track_id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get", id, err)
	}
	return toInternal(model), nil
}

// GetAudioPayload returns the stored audio bytes for a local track.
func (r *Repository) GetAudioPayload(ctx context.Context, id string) ([]byte, error) {
	var model TrackModel
	err := r.db.WithContext(ctx).Where("track_id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get payload", id, err)
	}
	if !model.IsLocal || len(model.Payload) == 0 {
		return nil, ErrPayloadAbsent
	}
	return model.Payload, nil
}

// SoftDelete hides a track from normal listing. Missing ids are a no-op.
func (r *Repository) SoftDelete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("track_id = ?", id).Delete(&TrackModel{}).Error
	return storageErr("soft delete", id, err)
}

// ListDeleted returns soft-deleted tracks, most recently deleted first.
func (r *Repository) ListDeleted(ctx context.Context) ([]*player.Track, error) {
	var models []TrackModel
	err := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, storageErr("list deleted", "", err)
	}
	tracks := make([]*player.Track, 0, len(models))
	for _, model := range models {
		tracks = append(tracks, toInternal(model))
	}
	return tracks, nil
}

// Restore clears the soft-delete mark. Missing ids are a no-op.
func (r *Repository) Restore(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Unscoped().
		Model(&TrackModel{}).
		Where("track_id = ?", id).
		Update("deleted_at", nil).Error
	return storageErr("restore", id, err)
}

// HardDelete removes a record and its payload permanently, whether the
// record is active or soft-deleted.
func (r *Repository) HardDelete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Unscoped().
		Where("track_id = ?", id).
		Delete(&TrackModel{}).Error
	return storageErr("hard delete", id, err)
}

// PurgeDeleted hard-deletes every currently soft-deleted record.
func (r *Repository) PurgeDeleted(ctx context.Context) error {
	err := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Delete(&TrackModel{}).Error
	return storageErr("purge deleted", "", err)
}

// GetSetting retrieves a persisted preference value.
func (r *Repository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var setting SettingModel
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("get setting", key, err)
	}
	return setting.Value, true, nil
}

// SetSetting stores a persisted preference value.
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&SettingModel{Key: key, Value: value}).Error
	return storageErr("set setting", key, err)
}

func applySQLitePragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=-64000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, stmt := range pragmas {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
