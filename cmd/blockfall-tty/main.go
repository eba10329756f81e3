package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/sound"
)

var (
	seed      = flag.Uint64("seed", 0, "Random seed (0 picks one from the clock)")
	noEffects = flag.Bool("no-effects", false, "Disable block effects")
	mute      = flag.Bool("mute", false, "Disable sound")
	volume    = flag.Float64("volume", 0.6, "Sound volume, 0 to 1")
	fps       = flag.Int("fps", 30, "Frames per second")
	logFile   = flag.String("log", "", "Write logs to this file")
)

type terminal struct {
	screen tcell.Screen
	game   *game.Game
	player *sound.Player
}

func main() {
	flag.Parse()

	var out io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log: %v", err)
		}
		defer f.Close()
		out = f
	}
	logger := log.New(out, "blockfall-tty: ", log.LstdFlags)

	cfg := game.DefaultConfig()
	cfg.Effects = !*noEffects
	cfg.Seed = *seed
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	cfg.Logger = logger

	g, err := game.New(cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	player := sound.NewPlayer(*volume)
	if !*mute {
		if err := player.Init(); err != nil {
			logger.Printf("audio initialization failed: %v", err)
		}
	}
	defer player.Close()

	s, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := s.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	defer s.Fini()
	s.HideCursor()
	s.Clear()

	t := &terminal{screen: s, game: g, player: player}
	t.run(time.Second / time.Duration(max(*fps, 1)))
}

func (t *terminal) run(frame time.Duration) {
	events := make(chan tcell.Event, 32)
	go func() {
		for {
			events <- t.screen.PollEvent()
		}
	}()

	tick := time.NewTicker(frame)
	defer tick.Stop()

	last := time.Now()
	for {
		select {
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
			case *tcell.EventKey:
				if quit(e) {
					return
				}
				if cmd, ok := command(e); ok {
					t.game.Input(cmd)
				}
			}
		case now := <-tick.C:
			t.game.Update(float64(now.Sub(last)) / float64(time.Millisecond))
			last = now
			t.player.PlayEvents(t.game.Events())
			t.draw(t.game.Snapshot())
		}
	}
}

func quit(e *tcell.EventKey) bool {
	return e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC ||
		(e.Key() == tcell.KeyRune && e.Rune() == 'q')
}

func command(e *tcell.EventKey) (game.Command, bool) {
	switch e.Key() {
	case tcell.KeyLeft:
		return game.MoveLeft, true
	case tcell.KeyRight:
		return game.MoveRight, true
	case tcell.KeyDown:
		return game.SoftDrop, true
	case tcell.KeyUp:
		return game.Rotate, true
	case tcell.KeyRune:
		switch e.Rune() {
		case ' ':
			return game.HardDrop, true
		case 'p':
			return game.TogglePause, true
		case 'r':
			return game.Restart, true
		case 'h':
			return game.MoveLeft, true
		case 'l':
			return game.MoveRight, true
		case 'j':
			return game.SoftDrop, true
		case 'k':
			return game.Rotate, true
		}
	}
	return game.NoCommand, false
}
