package metadata

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/startoovoid/MusicPlayer-Go/player"
)

// Extractor derives best-effort track metadata from uploaded audio bytes.
type Extractor struct {
	logger player.Logger
}

// New creates an Extractor.
func New(logger player.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract produces a metadata fragment for an audio file. Filename-derived
// defaults are always present; embedded tags override them when parseable.
// Tag parse failure is never fatal.
func (e *Extractor) Extract(data []byte, name, contentType string) *player.TrackMetadata {
	meta := &player.TrackMetadata{
		Title:    strings.TrimSuffix(name, filepath.Ext(name)),
		Artist:   "Unknown Artist",
		Album:    "Unknown Album",
		Filename: name,
	}

	// "Artist - Title" filename convention; the title keeps any further
	// " - " segments verbatim.
	if artist, title, ok := strings.Cut(meta.Title, " - "); ok {
		meta.Artist = strings.TrimSpace(artist)
		meta.Title = strings.TrimSpace(title)
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case contentType == "audio/mpeg" || ext == ".mp3":
		e.applyMP3Tags(data, meta)
	case contentType == "audio/flac" || contentType == "audio/x-flac" || ext == ".flac":
		e.applyFlacTags(data, meta)
	}

	return meta
}

func (e *Extractor) applyMP3Tags(data []byte, meta *player.TrackMetadata) {
	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		if e.logger != nil {
			e.logger.Debug("no usable id3 tag, keeping filename metadata", "filename", meta.Filename, "error", err)
		}
		return
	}

	if title := strings.TrimSpace(tag.Title()); title != "" {
		meta.Title = title
	}
	if artist := strings.TrimSpace(tag.Artist()); artist != "" {
		meta.Artist = artist
	}
	if album := strings.TrimSpace(tag.Album()); album != "" {
		meta.Album = album
	}

	for _, frame := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := frame.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		cover, coverErr := e.NormalizeCover(pic.Picture)
		if coverErr != nil {
			if e.logger != nil {
				e.logger.Warn("embedded cover art unusable", "filename", meta.Filename, "error", coverErr)
			}
			break
		}
		meta.CoverArt = cover
		break
	}
}

func (e *Extractor) applyFlacTags(data []byte, meta *player.TrackMetadata) {
	parsed, err := flac.ParseMetadata(bytes.NewReader(data))
	if err != nil {
		if e.logger != nil {
			e.logger.Debug("no usable flac metadata, keeping filename metadata", "filename", meta.Filename, "error", err)
		}
		return
	}

	for _, block := range parsed.Meta {
		switch block.Type {
		case flac.VorbisComment:
			comment, parseErr := flacvorbis.ParseFromMetaDataBlock(*block)
			if parseErr != nil {
				continue
			}
			applyVorbisField(comment, flacvorbis.FIELD_TITLE, &meta.Title)
			applyVorbisField(comment, flacvorbis.FIELD_ARTIST, &meta.Artist)
			applyVorbisField(comment, flacvorbis.FIELD_ALBUM, &meta.Album)
		case flac.Picture:
			if meta.CoverArt != "" {
				continue
			}
			pic, parseErr := flacpicture.ParseFromMetaDataBlock(*block)
			if parseErr != nil || len(pic.ImageData) == 0 {
				continue
			}
			cover, coverErr := e.NormalizeCover(pic.ImageData)
			if coverErr != nil {
				if e.logger != nil {
					e.logger.Warn("embedded cover art unusable", "filename", meta.Filename, "error", coverErr)
				}
				continue
			}
			meta.CoverArt = cover
		}
	}
}

func applyVorbisField(comment *flacvorbis.MetaDataBlockVorbisComment, field string, dst *string) {
	values, err := comment.Get(field)
	if err != nil || len(values) == 0 {
		return
	}
	if value := strings.TrimSpace(values[0]); value != "" {
		*dst = value
	}
}
