package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/startoovoid/MusicPlayer-Go/player"
)

// SeedOptions configures the signature default track created at first run.
type SeedOptions struct {
	TrackID           string
	Filename          string
	Title             string
	Artist            string
	Album             string
	MusicDir          string // directory holding bundled audio assets
	FallbackCoverPath string // image used when the asset has no embedded art
}

const (
	unknownArtist = "Unknown Artist"
	unknownAlbum  = "Unknown Album"
)

// InitializeDefaultTracks seeds the single signature track. A record that
// already exists with cover art is left alone; one found without cover art
// is removed and recreated so the cover can be repaired.
func (r *Repository) InitializeDefaultTracks(ctx context.Context, opts SeedOptions, extractor player.MetadataExtractor, log player.Logger) error {
	existing, err := r.GetByID(ctx, opts.TrackID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil && !existing.IsDeleted() {
		if existing.CoverArt != "" {
			return nil
		}
		if log != nil {
			log.Info("default track exists without cover art, refreshing", "id", opts.TrackID)
		}
		if err := r.HardDelete(ctx, opts.TrackID); err != nil {
			return err
		}
	}

	track := &player.Track{
		ID:        opts.TrackID,
		Title:     opts.Title,
		Artist:    opts.Artist,
		Album:     opts.Album,
		Filename:  opts.Filename,
		IsDefault: true,
		Source:    player.BundledSource{AssetPath: player.BundledAssetPath(opts.Filename)},
	}

	if data, readErr := os.ReadFile(filepath.Join(opts.MusicDir, opts.Filename)); readErr == nil {
		meta := extractor.Extract(data, opts.Filename, "audio/mpeg")
		if meta.Title != "" {
			track.Title = meta.Title
		}
		if meta.Artist != "" && meta.Artist != unknownArtist {
			track.Artist = meta.Artist
		}
		if meta.Album != "" && meta.Album != unknownAlbum {
			track.Album = meta.Album
		}
		track.CoverArt = meta.CoverArt
	} else if log != nil {
		log.Warn("could not read bundled default track", "filename", opts.Filename, "error", readErr)
	}

	if track.CoverArt == "" && opts.FallbackCoverPath != "" {
		if data, readErr := os.ReadFile(opts.FallbackCoverPath); readErr == nil {
			cover, coverErr := extractor.NormalizeCover(data)
			if coverErr == nil {
				track.CoverArt = cover
			} else if log != nil {
				log.Warn("could not normalize fallback cover art", "error", coverErr)
			}
		} else if log != nil {
			log.Warn("could not load fallback cover art", "error", readErr)
		}
	}

	if err := r.Put(ctx, track); err != nil {
		return err
	}
	if log != nil {
		log.Info("seeded default track", "id", track.ID, "title", track.Title, "cover", track.CoverArt != "")
	}
	return nil
}
