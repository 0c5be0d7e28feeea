package catalog

import (
	"time"

	"github.com/startoovoid/MusicPlayer-Go/player"
	"gorm.io/gorm"
)

// TrackModel mirrors the tracks schema. The numeric primary key doubles as
// storage order; TrackID is the stable public identifier.
type TrackModel struct {
	gorm.Model
	TrackID   string `gorm:"uniqueIndex;not null"`
	Title     string `gorm:"not null;default:''"`
	Artist    string `gorm:"not null;default:''"`
	Album     string `gorm:"not null;default:''"`
	Filename  string `gorm:"not null;default:''"`
	CoverArt  string
	IsLocal   bool `gorm:"not null;default:false"`
	IsDefault bool `gorm:"not null;default:false"`
	Payload   []byte
}

func (TrackModel) TableName() string {
	return "tracks"
}

// SettingModel stores persisted player preferences.
type SettingModel struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;not null"`
	Value string
}

func (SettingModel) TableName() string {
	return "player_settings"
}

func toInternal(model TrackModel) *player.Track {
	track := &player.Track{
		ID:        model.TrackID,
		Title:     model.Title,
		Artist:    model.Artist,
		Album:     model.Album,
		Filename:  model.Filename,
		CoverArt:  model.CoverArt,
		IsDefault: model.IsDefault,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		DeletedAt: deletedAtPtr(model.DeletedAt),
	}
	if model.IsLocal {
		track.Source = player.LocalSource{Payload: model.Payload}
	} else {
		track.Source = player.BundledSource{AssetPath: player.BundledAssetPath(model.Filename)}
	}
	return track
}

func toModel(track *player.Track) *TrackModel {
	if track == nil {
		return &TrackModel{}
	}

	model := &TrackModel{
		TrackID:   track.ID,
		Title:     track.Title,
		Artist:    track.Artist,
		Album:     track.Album,
		Filename:  track.Filename,
		CoverArt:  track.CoverArt,
		IsDefault: track.IsDefault,
	}

	switch src := track.Source.(type) {
	case player.LocalSource:
		model.IsLocal = true
		model.Payload = src.Payload
	case player.BundledSource:
		model.IsLocal = false
	}

	if !track.CreatedAt.IsZero() {
		model.CreatedAt = track.CreatedAt
	}
	if !track.UpdatedAt.IsZero() {
		model.UpdatedAt = track.UpdatedAt
	}
	if track.DeletedAt != nil {
		model.DeletedAt = gorm.DeletedAt{Time: *track.DeletedAt, Valid: true}
	}

	return model
}

func deletedAtPtr(value gorm.DeletedAt) *time.Time {
	if value.Valid {
		return &value.Time
	}
	return nil
}
