package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/blockfall/ecs"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Workers  int
	Effects  bool

	// Results
	Games        int
	Frames       int64
	Lines        int
	BestScore    int
	MaxLevel     int
	PeakEntities int
	TotalTime    time.Duration
	UpdateTime   Stats
	Systems      []ecs.SystemStats

	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// maxSamples bounds the reservoir kept for percentiles.
const maxSamples = 4096

// Stats summarizes a stream of durations. Min, Max and Avg are exact; P99 is
// read from Samples, a uniform reservoir of at most maxSamples entries.
type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Count   int64
	Total   time.Duration
	Samples []time.Duration
}

func (s *Stats) Record(rng *rand.Rand, d time.Duration) {
	if s.Count == 0 || d < s.Min {
		s.Min = d
	}
	s.Max = max(s.Max, d)
	s.Count++
	s.Total += d

	if len(s.Samples) < maxSamples {
		s.Samples = append(s.Samples, d)
		return
	}
	if i := rng.Int64N(s.Count); i < maxSamples {
		s.Samples[i] = d
	}
}

// Merge folds o into s, thinning the combined reservoir back to maxSamples.
func (s *Stats) Merge(o Stats) {
	if o.Count == 0 {
		return
	}
	if s.Count == 0 || o.Min < s.Min {
		s.Min = o.Min
	}
	s.Max = max(s.Max, o.Max)
	s.Count += o.Count
	s.Total += o.Total

	s.Samples = append(s.Samples, o.Samples...)
	if n := len(s.Samples); n > maxSamples {
		slices.Sort(s.Samples)
		kept := make([]time.Duration, maxSamples)
		for i := range kept {
			kept[i] = s.Samples[i*n/maxSamples]
		}
		s.Samples = kept
	}
}

func (s *Stats) Finalize() {
	if s.Count == 0 || len(s.Samples) == 0 {
		return
	}
	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)

	s.P99 = sorted[len(sorted)*99/100]
	s.Avg = s.Total / time.Duration(s.Count)
}

// Add folds worker results into the report. Nil results are skipped.
func (r *Report) Add(results ...*Result) {
	bySystem := map[string]int{}
	for _, res := range results {
		if res == nil {
			continue
		}
		r.Games += res.Games
		r.Frames += res.Frames
		r.Lines += res.Lines
		r.BestScore = max(r.BestScore, res.BestScore)
		r.MaxLevel = max(r.MaxLevel, res.MaxLevel)
		r.PeakEntities = max(r.PeakEntities, res.PeakEntities)
		r.UpdateTime.Merge(res.UpdateTime)

		for _, st := range res.Systems {
			i, ok := bySystem[st.Name]
			if !ok {
				bySystem[st.Name] = len(r.Systems)
				r.Systems = append(r.Systems, st)
				continue
			}
			agg := &r.Systems[i]
			agg.ExecutionCount += st.ExecutionCount
			agg.TotalDuration += st.TotalDuration
			agg.MinDuration = min(agg.MinDuration, st.MinDuration)
			agg.MaxDuration = max(agg.MaxDuration, st.MaxDuration)
		}
	}
	for i := range r.Systems {
		if st := &r.Systems[i]; st.ExecutionCount > 0 {
			st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
		}
	}
	r.UpdateTime.Finalize()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Workers:** {{.Workers}}
- **Effects:** {{.Effects}}

## Play Results
- **Games Finished:** {{.Games}}
- **Frames:** {{.Frames}}
- **Lines Cleared:** {{.Lines}}
- **Best Score:** {{.BestScore}}
- **Highest Level:** {{.MaxLevel}}
- **Peak Live Entities:** {{.PeakEntities}}

## Performance Results
- **Total Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **P99:** {{.UpdateTime.P99}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
{{range .Systems}}- **{{.Name}}:** {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
