// Package output provides a headless audio transport. It mirrors the
// event behavior of a real media element (ready, play, pause, progress,
// ended, error) while a presentation layer renders the actual sound.
package output

import (
	"errors"
	"sync"
	"time"

	"github.com/startoovoid/MusicPlayer-Go/player/engine"
)

var ErrNotBound = errors.New("output: no source bound")

const tickInterval = 250 * time.Millisecond

// Clock is a wall-clock driven AudioOutput. Binding a source emits Ready;
// while playing, position advances on a ticker and Ended fires when a
// known duration is reached. Event delivery never blocks.
type Clock struct {
	mu       sync.Mutex
	events   chan engine.Event
	bound    bool
	playing  bool
	closed   bool
	position float64
	duration float64
	level    float64
	stop     chan struct{}
}

// NewClock creates a stopped transport.
func NewClock() *Clock {
	return &Clock{
		events: make(chan engine.Event, 32),
		level:  1,
	}
}

// SetDuration informs the transport of the bound source's duration in
// seconds. Zero means unknown.
func (c *Clock) SetDuration(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = seconds
}

// Bind points the transport at a new source and reports Ready.
func (c *Clock) Bind(src engine.OutputSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("output: closed")
	}
	if src.AssetPath == "" && src.Handle == nil {
		return errors.New("output: empty source")
	}
	c.stopTickingLocked()
	c.bound = true
	c.playing = false
	c.position = 0
	c.duration = 0
	c.emitLocked(engine.Event{Type: engine.EventReady})
	return nil
}

// Play starts the position clock.
func (c *Clock) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.bound {
		return ErrNotBound
	}
	if c.playing {
		return nil
	}
	c.playing = true
	c.stop = make(chan struct{})
	go c.tick(c.stop)
	c.emitLocked(engine.Event{Type: engine.EventPlay, Position: c.position, Duration: c.duration})
	return nil
}

// Pause stops the position clock.
func (c *Clock) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.bound {
		return ErrNotBound
	}
	c.stopTickingLocked()
	c.emitLocked(engine.Event{Type: engine.EventPause, Position: c.position, Duration: c.duration})
	return nil
}

// Seek moves the position clock.
func (c *Clock) Seek(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.bound {
		return ErrNotBound
	}
	c.position = seconds
	return nil
}

// SetLevel stores the effective output level.
func (c *Clock) SetLevel(level float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = level
	return nil
}

// Level returns the effective output level.
func (c *Clock) Level() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// Events returns the transport event stream.
func (c *Clock) Events() <-chan engine.Event {
	return c.events
}

// Close stops the transport and its event stream.
func (c *Clock) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.stopTickingLocked()
	c.closed = true
	close(c.events)
	return nil
}

func (c *Clock) tick(stop chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if !c.playing {
				c.mu.Unlock()
				return
			}
			c.position += tickInterval.Seconds()
			if c.duration > 0 && c.position >= c.duration {
				c.position = c.duration
				c.playing = false
				c.stop = nil
				c.emitLocked(engine.Event{Type: engine.EventTimeProgress, Position: c.position, Duration: c.duration})
				c.emitLocked(engine.Event{Type: engine.EventEnded, Position: c.position, Duration: c.duration})
				c.mu.Unlock()
				return
			}
			c.emitLocked(engine.Event{Type: engine.EventTimeProgress, Position: c.position, Duration: c.duration})
			c.mu.Unlock()
		}
	}
}

func (c *Clock) stopTickingLocked() {
	c.playing = false
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// emitLocked delivers an event without ever stalling the transport.
// Progress updates are droppable; lifecycle events (Ready, Play, Pause,
// Ended) must reach the engine, so a full buffer sheds older entries
// until the event fits.
func (c *Clock) emitLocked(ev engine.Event) {
	if ev.Type == engine.EventTimeProgress {
		select {
		case c.events <- ev:
		default:
		}
		return
	}

	for {
		select {
		case c.events <- ev:
			return
		default:
		}
		select {
		case <-c.events:
		default:
		}
	}
}
