package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plus3/blockfall/game"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "How long to keep playing.")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Number of games played in parallel.")
	frames := flag.Int64("frames", 0, "Stop each worker after this many frames (0 for no limit).")
	seed := flag.Uint64("seed", 1, "Base random seed; each worker derives its own stream.")
	inputRate := flag.Float64("input-rate", 0.2, "Chance of a command on any frame.")
	noEffects := flag.Bool("no-effects", false, "Disable block effects.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting soak run...")

	cfg := game.DefaultConfig()
	cfg.Seed = *seed
	cfg.Effects = !*noEffects

	report := &Report{
		Duration:       *duration,
		Workers:        *workers,
		Effects:        cfg.Effects,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	results := make([]*Result, *workers)
	group, ctx := errgroup.WithContext(ctx)
	for i := range *workers {
		group.Go(func() error {
			r, err := soak(ctx, i, cfg, *inputRate, *frames)
			results[i] = r
			return err
		})
	}
	err := group.Wait()

	report.TotalTime = time.Since(start)
	report.Add(results...)
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Soak finished.")

	fmt.Println("\n\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	if err != nil {
		log.Fatalf("Soak failed: %v", err)
	}
}
