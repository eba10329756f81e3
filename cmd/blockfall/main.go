package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/blockfall/game"
)

var (
	cellSize   = flag.Int("cell", 30, "Cell size in pixels")
	cols       = flag.Int("cols", 10, "Board width in cells")
	rows       = flag.Int("rows", 20, "Board height in cells")
	seed       = flag.Uint64("seed", 0, "Random seed (0 picks one from the clock)")
	noEffects  = flag.Bool("no-effects", false, "Disable block effects")
	clearDelay = flag.Float64("clear-delay", 100, "Delay in ms before full rows clear when effects are on")
	verbose    = flag.Bool("v", false, "Log state transitions")
)

const (
	padding    = 20
	panelWidth = 160
	// flashTime is how long the board border lights up after a clear, in ms.
	flashTime = 150.0
)

// Host adapts a game.Game to ebiten's Update/Draw loop.
type Host struct {
	game *game.Game
	snap game.Snapshot

	cell  float32
	flash float64
}

func main() {
	flag.Parse()

	logger := log.New(os.Stderr, "blockfall: ", log.LstdFlags)

	cfg := game.DefaultConfig()
	cfg.Cols, cfg.Rows = *cols, *rows
	cfg.Effects = !*noEffects
	cfg.ClearDelay = *clearDelay
	cfg.Seed = *seed
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if *verbose {
		cfg.Logger = logger
	}

	g, err := game.New(cfg)
	if err != nil {
		logger.Fatalf("failed to start: %v", err)
	}

	host := &Host{game: g, cell: float32(*cellSize)}
	host.snap = g.Snapshot()

	w, h := host.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("blockfall")

	if err := ebiten.RunGame(host); err != nil {
		logger.Fatalf("run: %v", err)
	}
}

func (h *Host) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if cmd, ok := readCommand(); ok {
		h.game.Input(cmd)
	}

	dt := 1000.0 / float64(ebiten.TPS())
	h.game.Update(dt)

	h.flash = max(0, h.flash-dt)
	for _, ev := range h.game.Events() {
		if ev.Kind == game.EventCleared {
			h.flash = flashTime
		}
	}

	h.snap = h.game.Snapshot()
	return nil
}

func (h *Host) Layout(_, _ int) (int, int) {
	return padding*3 + int(h.cell)*(*cols) + panelWidth, padding*2 + int(h.cell)*(*rows)
}

// repeated reports a fresh press or a held key after the initial delay.
func repeated(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d > 10 && d%3 == 0)
}

func readCommand() (game.Command, bool) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		return game.TogglePause, true
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return game.Restart, true
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		return game.HardDrop, true
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		return game.Rotate, true
	case repeated(ebiten.KeyLeft):
		return game.MoveLeft, true
	case repeated(ebiten.KeyRight):
		return game.MoveRight, true
	case repeated(ebiten.KeyDown):
		return game.SoftDrop, true
	}
	return game.NoCommand, false
}
