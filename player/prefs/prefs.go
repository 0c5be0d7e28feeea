// Package prefs persists player preferences and UI-facing presentation
// flags. Preferences never gate playback: read failures fall back to
// defaults and are only logged.
package prefs

import (
	"context"
	"strconv"

	"github.com/startoovoid/MusicPlayer-Go/player"
)

// Persisted preference keys.
const (
	KeyCurrentIndex     = "musicPlayer_currentIndex"
	KeyVolume           = "musicPlayer_volume"
	KeyIsMuted          = "musicPlayer_isMuted"
	KeyIsShuffled       = "musicPlayer_isShuffled"
	KeyIsMinimized      = "musicPlayer_isMinimized"
	KeyShowPlaylist     = "musicPlayer_showPlaylist"
	KeyMinimizedChanged = "musicPlayer_hasExplicitlyChanged"
)

const defaultVolume = 0.7

// Store reads and writes persisted player preferences.
type Store struct {
	repo   player.SettingsRepository
	logger player.Logger
}

// New creates a preference store over a settings repository.
func New(repo player.SettingsRepository, logger player.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Volume returns the persisted volume, defaulting to 0.7.
func (s *Store) Volume(ctx context.Context) float64 {
	value, found := s.get(ctx, KeyVolume)
	if !found {
		return defaultVolume
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v < 0 || v > 1 {
		return defaultVolume
	}
	return v
}

// SetVolume persists the volume.
func (s *Store) SetVolume(ctx context.Context, v float64) {
	s.set(ctx, KeyVolume, strconv.FormatFloat(v, 'f', -1, 64))
}

// Muted returns the persisted mute flag.
func (s *Store) Muted(ctx context.Context) bool {
	return s.getBool(ctx, KeyIsMuted, false)
}

// SetMuted persists the mute flag.
func (s *Store) SetMuted(ctx context.Context, muted bool) {
	s.set(ctx, KeyIsMuted, strconv.FormatBool(muted))
}

// Shuffled returns the persisted shuffle flag.
func (s *Store) Shuffled(ctx context.Context) bool {
	return s.getBool(ctx, KeyIsShuffled, false)
}

// SetShuffled persists the shuffle flag.
func (s *Store) SetShuffled(ctx context.Context, shuffled bool) {
	s.set(ctx, KeyIsShuffled, strconv.FormatBool(shuffled))
}

// CurrentIndex returns the persisted track index, if one was stored.
func (s *Store) CurrentIndex(ctx context.Context) (int, bool) {
	value, found := s.get(ctx, KeyCurrentIndex)
	if !found {
		return 0, false
	}
	idx, err := strconv.Atoi(value)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// SetCurrentIndex persists the selected track index. Negative indexes
// (no selection) are not stored.
func (s *Store) SetCurrentIndex(ctx context.Context, index int) {
	if index < 0 {
		return
	}
	s.set(ctx, KeyCurrentIndex, strconv.Itoa(index))
}

// Minimized returns the minimized flag. The first run defaults to
// minimized and ignores any stored value until the user has explicitly
// toggled the flag at least once.
func (s *Store) Minimized(ctx context.Context) bool {
	if !s.getBool(ctx, KeyMinimizedChanged, false) {
		return true
	}
	return s.getBool(ctx, KeyIsMinimized, true)
}

// SetMinimized persists the minimized flag and marks it as explicitly
// changed, so future sessions honor the stored value.
func (s *Store) SetMinimized(ctx context.Context, minimized bool) {
	s.set(ctx, KeyIsMinimized, strconv.FormatBool(minimized))
	s.set(ctx, KeyMinimizedChanged, "true")
}

// ShowPlaylist returns the playlist-panel flag.
func (s *Store) ShowPlaylist(ctx context.Context) bool {
	return s.getBool(ctx, KeyShowPlaylist, false)
}

// SetShowPlaylist persists the playlist-panel flag.
func (s *Store) SetShowPlaylist(ctx context.Context, show bool) {
	s.set(ctx, KeyShowPlaylist, strconv.FormatBool(show))
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	value, found, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("could not read preference", "key", key, "error", err)
		}
		return "", false
	}
	return value, found
}

func (s *Store) getBool(ctx context.Context, key string, fallback bool) bool {
	value, found := s.get(ctx, key)
	if !found {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func (s *Store) set(ctx context.Context, key, value string) {
	if err := s.repo.SetSetting(ctx, key, value); err != nil && s.logger != nil {
		s.logger.Warn("could not persist preference", "key", key, "error", err)
	}
}
