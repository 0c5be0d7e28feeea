package engine

// EventType enumerates transport notifications from the audio output.
type EventType int

const (
	// EventReady signals the bound source can start playing.
	EventReady EventType = iota
	// EventTimeProgress carries playback position updates.
	EventTimeProgress
	// EventEnded signals natural completion of the bound source.
	EventEnded
	// EventPlay signals the output started producing audio.
	EventPlay
	// EventPause signals the output stopped producing audio.
	EventPause
	// EventError signals a decoding or source failure.
	EventError
)

// Event is one transport notification delivered to the engine.
type Event struct {
	Type     EventType
	Position float64 // seconds
	Duration float64 // seconds, 0 when unknown
	Err      error
}

// OutputSource identifies what the output should play: a bundled asset
// path, or a live handle over locally stored audio bytes. Exactly one of
// the two fields is set.
type OutputSource struct {
	AssetPath string
	Handle    *Handle
}

// AudioOutput is the single audio device owned by the engine. Events are
// consumed on one dispatch goroutine; implementations must never block on
// event delivery.
type AudioOutput interface {
	Bind(src OutputSource) error
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetLevel(level float64) error
	Events() <-chan Event
	Close() error
}
