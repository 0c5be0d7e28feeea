package player

import "context"

// Logger is the minimal logging abstraction used across modules.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config provides typed access to configuration values.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetFloat64(key string) float64
	GetBool(key string) bool
}

// TrackRepository defines storage operations for the track catalog.
// Soft-deleted records stay in the keyspace until purged; listing
// operations return active records in storage order.
type TrackRepository interface {
	Put(ctx context.Context, track *Track) error
	GetAll(ctx context.Context) ([]*Track, error)
	GetByID(ctx context.Context, id string) (*Track, error)
	GetAudioPayload(ctx context.Context, id string) ([]byte, error)
	SoftDelete(ctx context.Context, id string) error
	ListDeleted(ctx context.Context) ([]*Track, error)
	Restore(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	PurgeDeleted(ctx context.Context) error
}

// SettingsRepository stores persisted player preferences as key/value pairs.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (value string, found bool, err error)
	SetSetting(ctx context.Context, key, value string) error
}

// MetadataExtractor derives a metadata fragment for an uploaded audio file
// and normalizes cover images to a bounded, embeddable form.
type MetadataExtractor interface {
	Extract(data []byte, name, contentType string) *TrackMetadata
	NormalizeCover(data []byte) (string, error)
}

// WorkerPool limits concurrency for background tasks.
type WorkerPool interface {
	Submit(task func()) error
	SubmitWait(task func() error) error
	Shutdown(ctx context.Context) error
	Size() int
}
