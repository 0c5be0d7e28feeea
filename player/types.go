package player

import "time"

// Track represents one playable catalog entry.
// Display fields are always populated; fallback values are applied on ingest.
type Track struct {
	ID        string
	Title     string
	Artist    string
	Album     string
	Filename  string
	CoverArt  string // data URL, empty when no cover is available
	IsDefault bool
	Source    Source
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsLocal reports whether the track's audio lives in the catalog store.
func (t *Track) IsLocal() bool {
	_, ok := t.Source.(LocalSource)
	return ok
}

// IsDeleted reports whether the track is soft-deleted.
func (t *Track) IsDeleted() bool {
	return t.DeletedAt != nil
}

// Source is the audio origin of a track. Exactly two variants exist:
// LocalSource for uploaded tracks whose bytes the catalog owns, and
// BundledSource for tracks served from the site's asset path.
type Source interface {
	isSource()
}

// LocalSource carries the raw audio bytes of an uploaded track.
type LocalSource struct {
	Payload []byte
}

func (LocalSource) isSource() {}

// BundledSource points at a bundled asset of the form /music/<filename>.
type BundledSource struct {
	AssetPath string
}

func (BundledSource) isSource() {}

// BundledAssetPath resolves the conventional asset path for a filename.
func BundledAssetPath(filename string) string {
	return "/music/" + filename
}

// TrackMetadata is the best-effort fragment produced for a new audio file.
type TrackMetadata struct {
	Title    string
	Artist   string
	Album    string
	Filename string
	CoverArt string // normalized data URL, empty when extraction found none
}

// UploadFile is one file handed to the upload surface.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsAudio reports whether the declared media type is an audio type.
func (f UploadFile) IsAudio() bool {
	return len(f.ContentType) >= 6 && f.ContentType[:6] == "audio/"
}
