// Package sound synthesizes the short cues hosts play on game events.
package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/plus3/blockfall/game"
)

// SampleRate is the rate cues are rendered at.
const SampleRate = beep.SampleRate(44100)

// Cue is one sound effect.
type Cue int

const (
	CueLock Cue = iota
	CueClear
	CueLevelUp
	CueGameOver
)

func (c Cue) String() string {
	switch c {
	case CueLock:
		return "lock"
	case CueClear:
		return "clear"
	case CueLevelUp:
		return "level-up"
	case CueGameOver:
		return "game-over"
	default:
		return fmt.Sprintf("Cue(%d)", int(c))
	}
}

// ForEvent maps a game event to its cue. Restarts are silent.
func ForEvent(ev game.Event) (Cue, bool) {
	switch ev.Kind {
	case game.EventLocked:
		return CueLock, true
	case game.EventCleared:
		return CueClear, true
	case game.EventLevelUp:
		return CueLevelUp, true
	case game.EventGameOver:
		return CueGameOver, true
	}
	return 0, false
}

// C major pentatonic, one note per cleared row.
var clearNotes = []float64{523.25, 587.33, 659.25, 783.99}

// Streamer renders cue. rows picks how many chime notes a clear plays.
func Streamer(cue Cue, rows int, rate beep.SampleRate) beep.Streamer {
	switch cue {
	case CueLock:
		return gain(note(196, 40*time.Millisecond, Square, rate), 0.25)
	case CueClear:
		rows = min(max(rows, 1), len(clearNotes))
		parts := make([]beep.Streamer, rows)
		for i := range rows {
			parts[i] = note(clearNotes[i], 70*time.Millisecond, Sine, rate)
		}
		return gain(beep.Seq(parts...), 0.5)
	case CueLevelUp:
		return gain(beep.Mix(
			beep.Seq(
				note(440, 80*time.Millisecond, Sine, rate),
				note(554.37, 80*time.Millisecond, Sine, rate),
				note(659.25, 160*time.Millisecond, Sine, rate),
			),
			gain(note(880, 320*time.Millisecond, Sine, rate), 0.3),
		), 0.5)
	case CueGameOver:
		return gain(beep.Seq(
			note(392, 150*time.Millisecond, Saw, rate),
			note(311.13, 150*time.Millisecond, Saw, rate),
			note(261.63, 400*time.Millisecond, Saw, rate),
		), 0.4)
	}
	return nil
}

// Player mixes cues onto the system speaker. The zero value is silent until
// Init succeeds, so hosts can keep running when no audio device exists.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	ready  bool
}

// NewPlayer creates a player at volume (0..1).
func NewPlayer(volume float64) *Player {
	return &Player{mixer: &beep.Mixer{}, volume: volume}
}

// Init opens the speaker.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("sound: speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

// Play queues cue. Does nothing before Init.
func (p *Player) Play(cue Cue, rows int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return
	}
	s := Streamer(cue, rows, SampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(gain(s, p.volume))
	speaker.Unlock()
}

// PlayEvents plays the cue of every event that has one.
func (p *Player) PlayEvents(events []game.Event) {
	for _, ev := range events {
		if cue, ok := ForEvent(ev); ok {
			p.Play(cue, ev.Value)
		}
	}
}

// Close silences pending cues and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.ready = false
}
