package engine

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/startoovoid/MusicPlayer-Go/player"
	"github.com/startoovoid/MusicPlayer-Go/player/prefs"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// State is the engine's coarse playback state.
type State int

const (
	// Empty means no playlist is loaded.
	Empty State = iota
	// LoadedPaused means a track is selected but not playing.
	LoadedPaused
	// LoadedPlaying means the output is producing audio.
	LoadedPlaying
)

// ErrNoOutput is returned when the engine is constructed without an output.
var ErrNoOutput = errors.New("engine: audio output required")

// Observer receives playback notifications the presentation layer cares
// about. All methods are called from the engine's serialized context.
type Observer interface {
	PlaybackError(err error)
	Progress(position, duration float64)
}

// Options configures a new Engine.
type Options struct {
	Repo       player.TrackRepository
	Extractor  player.MetadataExtractor
	Prefs      *prefs.Store
	Output     AudioOutput
	Logger     player.Logger
	ParseLimit int // bound for parallel upload parsing
}

// Engine owns the single audio output and sequences playback over the
// active playlist. All state transitions are serialized behind one mutex;
// output events are delivered on a single dispatch goroutine.
type Engine struct {
	repo      player.TrackRepository
	extractor player.MetadataExtractor
	prefs     *prefs.Store
	output    AudioOutput
	logger    player.Logger

	parseLimit int
	progress   *rate.Limiter

	mu          sync.Mutex
	observer    Observer
	playlist    []*player.Track
	current     int // index into playlist, -1 when none
	boundID     string
	ready       bool
	isPlaying   bool
	pendingPlay bool
	currentTime float64
	duration    float64
	volume      float64
	muted       bool
	shuffled    bool
	handle      *Handle
}

// New creates an Engine. The output is mandatory.
func New(opts Options) (*Engine, error) {
	if opts.Output == nil {
		return nil, ErrNoOutput
	}
	parseLimit := opts.ParseLimit
	if parseLimit <= 0 {
		parseLimit = 1
	}
	return &Engine{
		repo:       opts.Repo,
		extractor:  opts.Extractor,
		prefs:      opts.Prefs,
		output:     opts.Output,
		logger:     opts.Logger,
		parseLimit: parseLimit,
		progress:   rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
		current:    -1,
		volume:     0.7,
	}, nil
}

// SetObserver registers the playback observer. Nil clears it.
func (e *Engine) SetObserver(obs Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = obs
}

// Start rehydrates persisted preferences and begins consuming output
// events until ctx is done.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.prefs != nil {
		e.volume = e.prefs.Volume(ctx)
		e.muted = e.prefs.Muted(ctx)
		e.shuffled = e.prefs.Shuffled(ctx)
	}
	e.applyLevelLocked()
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-e.output.Events():
				if !ok {
					return
				}
				e.handleEvent(ctx, ev)
			}
		}
	}()
}

func (e *Engine) handleEvent(ctx context.Context, ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev.Type {
	case EventReady:
		e.ready = true
		if ev.Duration > 0 {
			e.duration = ev.Duration
		}
		if e.pendingPlay {
			e.pendingPlay = false
			if err := e.output.Play(); err != nil {
				e.isPlaying = false
				e.reportErrorLocked(err)
			}
		}
	case EventTimeProgress:
		e.currentTime = ev.Position
		if ev.Duration > 0 {
			e.duration = ev.Duration
		}
		if e.observer != nil && e.progress.Allow() {
			e.observer.Progress(e.currentTime, e.duration)
		}
	case EventPlay:
		e.isPlaying = true
	case EventPause:
		e.isPlaying = false
	case EventEnded:
		if len(e.playlist) == 0 {
			return
		}
		e.current = e.nextIndexLocked(1)
		e.pendingPlay = true
		e.rebindLocked(ctx)
	case EventError:
		e.isPlaying = false
		e.pendingPlay = false
		e.reportErrorLocked(ev.Err)
	}
}

func (e *Engine) reportErrorLocked(err error) {
	if err == nil {
		return
	}
	if e.logger != nil {
		e.logger.Error("playback error", "error", err)
	}
	if e.observer != nil {
		e.observer.PlaybackError(err)
	}
}

// LoadPlaylist refreshes the playlist from the catalog. The previously
// selected track is followed by id when it survives the reload; otherwise
// the index is clamped into range.
func (e *Engine) LoadPlaylist(ctx context.Context) error {
	tracks, err := e.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var prevID string
	if e.current >= 0 && e.current < len(e.playlist) {
		prevID = e.playlist[e.current].ID
	}
	e.playlist = tracks

	switch {
	case len(tracks) == 0:
		e.current = -1
		e.releaseHandleLocked()
		e.isPlaying = false
		e.pendingPlay = false
		e.currentTime, e.duration = 0, 0
		return nil
	case prevID != "":
		if idx := indexOf(tracks, prevID); idx >= 0 {
			e.current = idx
		} else if e.current >= len(tracks) {
			e.current = len(tracks) - 1
		}
	case e.current < 0:
		e.current = 0
		if e.prefs != nil {
			if saved, ok := e.prefs.CurrentIndex(ctx); ok && saved >= 0 && saved < len(tracks) {
				e.current = saved
			}
		}
	}
	if e.current >= len(tracks) {
		e.current = len(tracks) - 1
	}

	if e.playlist[e.current].ID != e.boundID {
		e.rebindLocked(ctx)
	}
	return nil
}

// SelectTrack selects a playlist index and marks an intent to play.
// Out-of-range indexes are a no-op.
func (e *Engine) SelectTrack(ctx context.Context, index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.playlist) {
		return
	}
	e.current = index
	e.pendingPlay = true
	e.rebindLocked(ctx)
}

// Play requests playback of the selected track. No-op when the playlist is
// empty. If the source is not ready yet the intent is honored on Ready.
func (e *Engine) Play(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current < 0 || len(e.playlist) == 0 {
		return
	}
	if !e.ready {
		e.pendingPlay = true
		return
	}
	if err := e.output.Play(); err != nil {
		e.isPlaying = false
		e.reportErrorLocked(err)
	}
}

// Pause suspends playback.
func (e *Engine) Pause(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current < 0 {
		return
	}
	e.pendingPlay = false
	if err := e.output.Pause(); err != nil {
		e.reportErrorLocked(err)
	}
}

// TogglePlayPause flips the transport.
func (e *Engine) TogglePlayPause(ctx context.Context) {
	e.mu.Lock()
	playing := e.isPlaying
	e.mu.Unlock()
	if playing {
		e.Pause(ctx)
	} else {
		e.Play(ctx)
	}
}

// Next advances the selection and rebinds with an intent to play. Shuffle
// picks a uniformly random index, which may repeat the current track.
func (e *Engine) Next(ctx context.Context) {
	e.step(ctx, 1)
}

// Previous retreats the selection with wraparound.
func (e *Engine) Previous(ctx context.Context) {
	e.step(ctx, -1)
}

func (e *Engine) step(ctx context.Context, dir int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.playlist) == 0 {
		return
	}
	e.current = e.nextIndexLocked(dir)
	e.pendingPlay = true
	e.rebindLocked(ctx)
}

func (e *Engine) nextIndexLocked(dir int) int {
	n := len(e.playlist)
	if e.shuffled {
		return rand.Intn(n)
	}
	if dir >= 0 {
		return (e.current + 1) % n
	}
	if e.current <= 0 {
		return n - 1
	}
	return e.current - 1
}

// Seek clamps to [0, duration]. Unknown duration and non-finite times are
// no-ops.
func (e *Engine) Seek(ctx context.Context, seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return
	}
	if e.duration <= 0 {
		return
	}
	seconds = math.Max(0, math.Min(seconds, e.duration))
	if err := e.output.Seek(seconds); err != nil {
		e.reportErrorLocked(err)
		return
	}
	e.currentTime = seconds
}

// SetVolume clamps to [0, 1] and persists the preference.
func (e *Engine) SetVolume(ctx context.Context, v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = math.Max(0, math.Min(1, v))
	e.applyLevelLocked()
	if e.prefs != nil {
		e.prefs.SetVolume(ctx, e.volume)
	}
}

// ToggleMute flips the mute flag. The stored volume value is kept; only
// the effective output level changes.
func (e *Engine) ToggleMute(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = !e.muted
	e.applyLevelLocked()
	if e.prefs != nil {
		e.prefs.SetMuted(ctx, e.muted)
	}
}

// ToggleShuffle flips shuffle mode.
func (e *Engine) ToggleShuffle(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shuffled = !e.shuffled
	if e.prefs != nil {
		e.prefs.SetShuffled(ctx, e.shuffled)
	}
}

func (e *Engine) applyLevelLocked() {
	level := e.volume
	if e.muted {
		level = 0
	}
	if err := e.output.SetLevel(level); err != nil && e.logger != nil {
		e.logger.Warn("could not apply output level", "error", err)
	}
}

// rebindLocked implements the rebind protocol: release the previous
// handle, resolve the new source, bind the output. A pending play intent
// is only honored once the output reports Ready.
func (e *Engine) rebindLocked(ctx context.Context) {
	e.releaseHandleLocked()
	e.boundID = ""
	e.ready = false
	e.currentTime, e.duration = 0, 0

	if e.current < 0 || e.current >= len(e.playlist) {
		return
	}
	track := e.playlist[e.current]

	var src OutputSource
	switch s := track.Source.(type) {
	case player.LocalSource:
		payload, err := e.repo.GetAudioPayload(ctx, track.ID)
		if err != nil {
			e.isPlaying = false
			e.pendingPlay = false
			if e.logger != nil {
				e.logger.Error("could not load local track payload", "id", track.ID, "error", err)
			}
			return
		}
		src = OutputSource{Handle: NewHandle(payload)}
	case player.BundledSource:
		src = OutputSource{AssetPath: s.AssetPath}
	default:
		return
	}

	if err := e.output.Bind(src); err != nil {
		if src.Handle != nil {
			src.Handle.Release()
		}
		e.isPlaying = false
		e.pendingPlay = false
		e.reportErrorLocked(err)
		return
	}
	e.handle = src.Handle
	e.boundID = track.ID

	if e.prefs != nil {
		e.prefs.SetCurrentIndex(ctx, e.current)
	}
}

func (e *Engine) releaseHandleLocked() {
	if e.handle != nil {
		e.handle.Release()
		e.handle = nil
	}
}

// AddTracks ingests uploaded files: non-audio files are skipped, metadata
// extraction runs in parallel bounded by the parse limit, records persist
// serially in input order, then the playlist reloads. The playing track is
// left undisturbed.
func (e *Engine) AddTracks(ctx context.Context, files []player.UploadFile) error {
	audio := make([]player.UploadFile, 0, len(files))
	for _, f := range files {
		if !f.IsAudio() {
			if e.logger != nil {
				e.logger.Debug("skipping non-audio upload", "name", f.Name, "type", f.ContentType)
			}
			continue
		}
		audio = append(audio, f)
	}
	if len(audio) == 0 {
		return nil
	}

	fragments := make([]*player.TrackMetadata, len(audio))
	var g errgroup.Group
	g.SetLimit(e.parseLimit)
	for i, f := range audio {
		i, f := i, f
		g.Go(func() error {
			fragments[i] = e.extractor.Extract(f.Data, f.Name, f.ContentType)
			return nil
		})
	}
	_ = g.Wait()

	for i, f := range audio {
		meta := fragments[i]
		track := &player.Track{
			ID:       "track-" + uuid.NewString(),
			Title:    meta.Title,
			Artist:   meta.Artist,
			Album:    meta.Album,
			Filename: f.Name,
			CoverArt: meta.CoverArt,
			Source:   player.LocalSource{Payload: f.Data},
		}
		if err := e.repo.Put(ctx, track); err != nil {
			return err
		}
		if e.logger != nil {
			e.logger.Info("added track", "id", track.ID, "title", track.Title, "artist", track.Artist)
		}
	}

	return e.LoadPlaylist(ctx)
}

// RemoveTrack soft-deletes a track. When it was the selected one, its
// handle is released and the selection clamps to the same or last valid
// position; playback resumes there if it was playing.
func (e *Engine) RemoveTrack(ctx context.Context, id string) error {
	e.mu.Lock()
	wasSelected := e.current >= 0 && e.current < len(e.playlist) && e.playlist[e.current].ID == id
	wasPlaying := e.isPlaying
	if wasSelected {
		e.releaseHandleLocked()
		e.boundID = ""
		e.ready = false
		e.isPlaying = false
		e.pendingPlay = wasPlaying
	}
	e.mu.Unlock()

	if err := e.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	return e.LoadPlaylist(ctx)
}

// RestoreTrack brings a soft-deleted track back into the playlist.
func (e *Engine) RestoreTrack(ctx context.Context, id string) error {
	if err := e.repo.Restore(ctx, id); err != nil {
		return err
	}
	return e.LoadPlaylist(ctx)
}

// State returns the coarse playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.playlist) == 0 || e.current < 0 {
		return Empty
	}
	if e.isPlaying {
		return LoadedPlaying
	}
	return LoadedPaused
}

// CurrentTrack returns the selected track, if any.
func (e *Engine) CurrentTrack() (*player.Track, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current < 0 || e.current >= len(e.playlist) {
		return nil, false
	}
	return e.playlist[e.current], true
}

// CurrentIndex returns the selected playlist index, -1 when none.
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Playlist returns a copy of the active playlist.
func (e *Engine) Playlist() []*player.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*player.Track, len(e.playlist))
	copy(out, e.playlist)
	return out
}

// Position returns the current playback position and known duration.
func (e *Engine) Position() (position, duration float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentTime, e.duration
}

// Volume returns the stored volume value, ignoring mute.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Muted reports the mute flag.
func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Shuffled reports shuffle mode.
func (e *Engine) Shuffled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shuffled
}

// Close releases the live resource handle and the output.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.releaseHandleLocked()
	e.boundID = ""
	e.isPlaying = false
	e.mu.Unlock()
	return e.output.Close()
}

func indexOf(tracks []*player.Track, id string) int {
	for i, t := range tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
