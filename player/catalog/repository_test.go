package catalog

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/startoovoid/MusicPlayer-Go/player"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "library.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return repo
}

func localTrack(id, title string, payload []byte) *player.Track {
	return &player.Track{
		ID:       id,
		Title:    title,
		Artist:   "Unknown Artist",
		Album:    "Unknown Album",
		Filename: title + ".mp3",
		Source:   player.LocalSource{Payload: payload},
	}
}

func TestPutAndGetByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	track := localTrack("track-1", "First", []byte{0x01, 0x02})
	if err := repo.Put(ctx, track); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if track.CreatedAt.IsZero() || track.UpdatedAt.IsZero() {
		t.Error("Put() did not backfill timestamps")
	}

	got, err := repo.GetByID(ctx, "track-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "First" || got.Artist != "Unknown Artist" {
		t.Errorf("GetByID() = %q by %q, want First by Unknown Artist", got.Title, got.Artist)
	}
	if !got.IsLocal() {
		t.Error("GetByID() lost the local source variant")
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPutOverwritesSameID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Put(ctx, localTrack("track-1", "Old", []byte{0x01})); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := repo.Put(ctx, localTrack("track-1", "New", []byte{0x02})); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("GetAll() returned %d tracks, want 1", len(all))
	}
	if all[0].Title != "New" {
		t.Errorf("overwritten title = %q, want New", all[0].Title)
	}

	payload, err := repo.GetAudioPayload(ctx, "track-1")
	if err != nil {
		t.Fatalf("GetAudioPayload() error = %v", err)
	}
	if !bytes.Equal(payload, []byte{0x02}) {
		t.Errorf("payload = %v, want overwritten bytes", payload)
	}
}

func TestPutRequiresID(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Put(context.Background(), &player.Track{})
	if err == nil {
		t.Fatal("Put() with empty id did not fail")
	}
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("Put() error = %T, want *StorageError", err)
	}
}

func TestGetAllPreservesInsertionOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	ids := []string{"track-c", "track-a", "track-b"}
	for _, id := range ids {
		if err := repo.Put(ctx, localTrack(id, id, []byte{0x01})); err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != len(ids) {
		t.Fatalf("GetAll() returned %d tracks, want %d", len(all), len(ids))
	}
	for i, id := range ids {
		if all[i].ID != id {
			t.Errorf("GetAll()[%d] = %s, want %s", i, all[i].ID, id)
		}
	}
}

func TestGetAudioPayload(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Put(ctx, localTrack("track-1", "Local", []byte{0x0a, 0x0b})); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	bundled := &player.Track{
		ID:       "default-sun",
		Title:    "Sun",
		Filename: "sun.mp3",
		Source:   player.BundledSource{AssetPath: player.BundledAssetPath("sun.mp3")},
	}
	if err := repo.Put(ctx, bundled); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	payload, err := repo.GetAudioPayload(ctx, "track-1")
	if err != nil {
		t.Fatalf("GetAudioPayload() error = %v", err)
	}
	if !bytes.Equal(payload, []byte{0x0a, 0x0b}) {
		t.Errorf("payload = %v, want stored bytes", payload)
	}

	if _, err := repo.GetAudioPayload(ctx, "default-sun"); !errors.Is(err, ErrPayloadAbsent) {
		t.Errorf("GetAudioPayload(bundled) error = %v, want ErrPayloadAbsent", err)
	}
	if _, err := repo.GetAudioPayload(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAudioPayload(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSoftDeleteAndRestore(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Put(ctx, localTrack("track-1", "Keep", []byte{0x01})); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := repo.Put(ctx, localTrack("track-2", "Drop", []byte{0x02})); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if err := repo.SoftDelete(ctx, "track-2"); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 1 || all[0].ID != "track-1" {
		t.Fatalf("GetAll() after soft delete = %v, want only track-1", all)
	}

	deleted, err := repo.ListDeleted(ctx)
	if err != nil {
		t.Fatalf("ListDeleted() error = %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != "track-2" {
		t.Fatalf("ListDeleted() = %v, want only track-2", deleted)
	}
	if !deleted[0].IsDeleted() {
		t.Error("ListDeleted() record is not marked deleted")
	}

	// GetByID still finds the soft-deleted record.
	got, err := repo.GetByID(ctx, "track-2")
	if err != nil {
		t.Fatalf("GetByID(deleted) error = %v", err)
	}
	if !got.IsDeleted() {
		t.Error("GetByID(deleted) is not marked deleted")
	}

	// Soft delete is idempotent.
	if err := repo.SoftDelete(ctx, "track-2"); err != nil {
		t.Fatalf("second SoftDelete() error = %v", err)
	}
	if err := repo.SoftDelete(ctx, "missing"); err != nil {
		t.Fatalf("SoftDelete(missing) error = %v", err)
	}

	if err := repo.Restore(ctx, "track-2"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	all, err = repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAll() after restore returned %d tracks, want 2", len(all))
	}
	payload, err := repo.GetAudioPayload(ctx, "track-2")
	if err != nil {
		t.Fatalf("GetAudioPayload() after restore error = %v", err)
	}
	if !bytes.Equal(payload, []byte{0x02}) {
		t.Error("restore lost the stored payload")
	}

	// Restoring an active or unknown id is a no-op.
	if err := repo.Restore(ctx, "track-2"); err != nil {
		t.Fatalf("second Restore() error = %v", err)
	}
	if err := repo.Restore(ctx, "missing"); err != nil {
		t.Fatalf("Restore(missing) error = %v", err)
	}
}

func TestHardDeleteAndPurge(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, id := range []string{"track-1", "track-2", "track-3"} {
		if err := repo.Put(ctx, localTrack(id, id, []byte{0x01})); err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}
	if err := repo.SoftDelete(ctx, "track-1"); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if err := repo.SoftDelete(ctx, "track-2"); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	if err := repo.HardDelete(ctx, "track-1"); err != nil {
		t.Fatalf("HardDelete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, "track-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(hard-deleted) error = %v, want ErrNotFound", err)
	}

	if err := repo.PurgeDeleted(ctx); err != nil {
		t.Fatalf("PurgeDeleted() error = %v", err)
	}
	deleted, err := repo.ListDeleted(ctx)
	if err != nil {
		t.Fatalf("ListDeleted() error = %v", err)
	}
	if len(deleted) != 0 {
		t.Errorf("ListDeleted() after purge = %v, want empty", deleted)
	}
	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 1 || all[0].ID != "track-3" {
		t.Errorf("GetAll() after purge = %v, want only track-3", all)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, found, err := repo.GetSetting(ctx, "musicPlayer_volume"); err != nil || found {
		t.Fatalf("GetSetting(unset) = found %v, err %v; want not found, nil", found, err)
	}

	if err := repo.SetSetting(ctx, "musicPlayer_volume", "0.5"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	value, found, err := repo.GetSetting(ctx, "musicPlayer_volume")
	if err != nil || !found || value != "0.5" {
		t.Fatalf("GetSetting() = %q, %v, %v; want 0.5, true, nil", value, found, err)
	}

	if err := repo.SetSetting(ctx, "musicPlayer_volume", "0.9"); err != nil {
		t.Fatalf("SetSetting() overwrite error = %v", err)
	}
	value, _, err = repo.GetSetting(ctx, "musicPlayer_volume")
	if err != nil || value != "0.9" {
		t.Fatalf("GetSetting() after overwrite = %q, %v; want 0.9, nil", value, err)
	}
}
