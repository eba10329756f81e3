package sound

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/game"
)

const rate = beep.SampleRate(8000)

func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	require.NoError(t, s.Err())
	return out
}

func TestTone(t *testing.T) {
	for _, wave := range []Wave{Sine, Square, Saw} {
		samples := drain(t, Tone(440, 100*time.Millisecond, wave, rate))
		assert.Len(t, samples, rate.N(100*time.Millisecond))
		for _, s := range samples {
			assert.InDelta(t, 0, s[0], 1.0)
			assert.Equal(t, s[0], s[1])
		}
	}
}

func TestSquareIsBipolar(t *testing.T) {
	for _, s := range drain(t, Tone(100, 20*time.Millisecond, Square, rate)) {
		assert.Contains(t, []float64{-1, 1}, s[0])
	}
}

func TestEnvelopeFades(t *testing.T) {
	d := 100 * time.Millisecond
	samples := drain(t, shape(Tone(0, d, Square, rate), d, 10*time.Millisecond, 10*time.Millisecond, rate))
	require.Len(t, samples, rate.N(d))

	assert.Equal(t, 0.0, samples[0][0])
	assert.Equal(t, 1.0, samples[len(samples)/2][0])
	assert.Less(t, samples[len(samples)-1][0], 0.05)
}

func TestCueLengths(t *testing.T) {
	tests := []struct {
		cue  Cue
		rows int
		want time.Duration
	}{
		{CueLock, 0, 40 * time.Millisecond},
		{CueClear, 1, 70 * time.Millisecond},
		{CueClear, 4, 280 * time.Millisecond},
		{CueClear, 9, 280 * time.Millisecond},
		{CueLevelUp, 2, 320 * time.Millisecond},
		{CueGameOver, 0, 700 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.cue.String(), func(t *testing.T) {
			samples := drain(t, Streamer(tt.cue, tt.rows, rate))
			assert.InDelta(t, rate.N(tt.want), len(samples), 4)
		})
	}
	assert.Nil(t, Streamer(Cue(42), 0, rate))
}

func TestForEvent(t *testing.T) {
	cue, ok := ForEvent(game.Event{Kind: game.EventCleared, Value: 2})
	assert.True(t, ok)
	assert.Equal(t, CueClear, cue)

	_, ok = ForEvent(game.Event{Kind: game.EventRestarted})
	assert.False(t, ok)
}

func TestPlayerSilentBeforeInit(t *testing.T) {
	p := NewPlayer(1)
	assert.NotPanics(t, func() {
		p.Play(CueLock, 0)
		p.PlayEvents([]game.Event{{Kind: game.EventGameOver}})
		p.Close()
	})
}
