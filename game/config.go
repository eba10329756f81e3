package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/piece"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid game config")

// Config parameterizes a Game. Start from DefaultConfig.
type Config struct {
	Cols int
	Rows int

	// Seed seeds the PCG source used when Rand is nil.
	Seed uint64
	// Rand drives piece selection, effect selection and particle jitter.
	Rand *rand.Rand
	// Pieces overrides the uniform piece source.
	Pieces piece.Source

	// Effects enables the effect layer.
	Effects bool
	// Picker overrides the uniform effect picker.
	Picker effect.Picker
	// ClearDelay is how long after a lock rows are cleared when effects are
	// on, in milliseconds. Zero clears at lock time.
	ClearDelay float64

	// Drop interval in ms at level 1, the reduction per level, and the floor.
	BaseInterval float64
	IntervalStep float64
	MinInterval  float64
	// LinesPerLevel cleared lines advance the level by one.
	LinesPerLevel int

	// Logger receives state transitions. Nil discards them.
	Logger *log.Logger
}

// DefaultConfig is a 10×20 board with effects on.
func DefaultConfig() Config {
	return Config{
		Cols:          10,
		Rows:          20,
		Seed:          1,
		Effects:       true,
		ClearDelay:    100,
		BaseInterval:  1000,
		IntervalStep:  50,
		MinInterval:   50,
		LinesPerLevel: 10,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.Cols < 4 || c.Rows < 4:
		return fmt.Errorf("%w: board %dx%d smaller than 4x4", ErrInvalidConfig, c.Cols, c.Rows)
	case c.ClearDelay < 0:
		return fmt.Errorf("%w: negative clear delay %v", ErrInvalidConfig, c.ClearDelay)
	case c.MinInterval <= 0:
		return fmt.Errorf("%w: minimum interval %v must be positive", ErrInvalidConfig, c.MinInterval)
	case c.BaseInterval < c.MinInterval:
		return fmt.Errorf("%w: base interval %v below minimum %v", ErrInvalidConfig, c.BaseInterval, c.MinInterval)
	case c.IntervalStep < 0:
		return fmt.Errorf("%w: negative interval step %v", ErrInvalidConfig, c.IntervalStep)
	case c.LinesPerLevel <= 0:
		return fmt.Errorf("%w: lines per level %d must be positive", ErrInvalidConfig, c.LinesPerLevel)
	}
	return nil
}

// DropInterval is the gravity period in ms at level.
func (c Config) DropInterval(level int) float64 {
	return max(c.MinInterval, c.BaseInterval-float64(level-1)*c.IntervalStep)
}
