package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type binder interface {
	Init(storage *Storage)
}

type executor interface {
	Execute()
}

type registered struct {
	system  System
	queries []executor
	stats   SystemStats
}

// Scheduler runs registered systems in registration order, one pass per frame.
type Scheduler struct {
	storage  *Storage
	commands *Commands
	systems  []*registered
}

// NewScheduler creates a scheduler for storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage:  storage,
		commands: &Commands{},
	}
}

// Register appends system and binds its exported Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	entry := &registered{system: system}

	value := reflect.ValueOf(system)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() == reflect.Struct {
		for i := 0; i < value.NumField(); i++ {
			field := value.Field(i)
			if !field.CanSet() || field.Kind() != reflect.Struct {
				continue
			}
			b, ok := field.Addr().Interface().(binder)
			if !ok {
				continue
			}
			b.Init(s.storage)
			if q, ok := b.(executor); ok {
				entry.queries = append(entry.queries, q)
			}
		}
		entry.stats.Name = value.Type().Name()
	}
	entry.stats.MinDuration = time.Duration(1<<63 - 1)

	s.systems = append(s.systems, entry)
}

// Once runs every system with dt and then flushes queued commands.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.storage, s.commands)

	for _, entry := range s.systems {
		start := time.Now()
		for _, q := range entry.queries {
			q.Execute()
		}
		entry.system.Execute(frame)
		duration := time.Since(start)

		stats := &entry.stats
		stats.ExecutionCount++
		stats.LastDuration = duration
		stats.TotalDuration += duration
		stats.MinDuration = min(stats.MinDuration, duration)
		stats.MaxDuration = max(stats.MaxDuration, duration)
	}

	s.commands.Flush(s.storage)
}

// Run calls Once on every tick of interval until ctx is cancelled.
// dt is passed in milliseconds.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(float64(now.Sub(last)) / float64(time.Millisecond))
			last = now
		}
	}
}

// GetStats returns a copy of the per-system execution statistics.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, entry := range s.systems {
		st := entry.stats
		if st.ExecutionCount > 0 {
			st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
		}
		stats.Systems[i] = st
		stats.TotalExecutions += st.ExecutionCount
	}
	return stats
}
