/*
Package analytics
File: store.go
Description:
    The structured analytics event store: a bounded in-memory ring with
    counters, a throttled flush to disk, and windowed aggregation.
*/
package analytics

import (
	"sort"
	"sync"

	"github.com/everforgeworks/sector-commander/internal/jsonstore"
	"github.com/everforgeworks/sector-commander/internal/model"
)

type Store struct {
	mu            sync.Mutex
	store         *jsonstore.Store
	maxEvents     int
	retentionDays float64
	flushInterval float64

	events     []model.AnalyticsEvent
	counters   model.AnalyticsCounters
	dirty      bool
	lastFlush  float64
}

func New(path string, maxEvents int, retentionDays, flushIntervalSeconds float64) *Store {
	return &Store{
		store:         jsonstore.New(path),
		maxEvents:     maxEvents,
		retentionDays: retentionDays,
		flushInterval: flushIntervalSeconds,
		counters:      model.NewAnalyticsCounters(),
	}
}

// Load restores any previously flushed snapshot into memory. Call once at
// boot.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := model.AnalyticsSnapshot{Counters: model.NewAnalyticsCounters()}
	if err := s.store.Load(&snap); err != nil {
		return err
	}
	s.events = snap.Events
	s.counters = snap.Counters
	if s.counters.EventsByCategory == nil {
		s.counters.EventsByCategory = map[string]int{}
	}
	if s.counters.EventsByName == nil {
		s.counters.EventsByName = map[string]int{}
	}
	return nil
}

// Record appends one event, enforcing the bounded ring and bumping
// counters, which are monotonically non-decreasing in totals regardless
// of retention pruning.
func (s *Store) Record(ev model.AnalyticsEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)
	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}

	s.counters.TotalEvents++
	s.counters.EventsByCategory[ev.Category]++
	s.counters.EventsByName[ev.Name]++
	if ev.Success {
		s.counters.SuccessCount++
	} else {
		s.counters.FailureCount++
	}
	s.dirty = true
}

// Prune drops events older than retentionDays relative to now.
func (s *Store) Prune(now float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now - s.retentionDays*86400
	var kept []model.AnalyticsEvent
	for _, e := range s.events {
		if e.Timestamp >= cutoff {
			kept = append(kept, e)
		}
	}
	if len(kept) != len(s.events) {
		s.dirty = true
	}
	s.events = kept
}

// Flush writes the current snapshot to disk if dirty and either forced or
// the flush interval has elapsed.
func (s *Store) Flush(now float64, force bool) error {
	s.mu.Lock()
	if !s.dirty && !force {
		s.mu.Unlock()
		return nil
	}
	if !force && now-s.lastFlush < s.flushInterval {
		s.mu.Unlock()
		return nil
	}
	snap := model.AnalyticsSnapshot{
		UpdatedAt: now,
		Events:    append([]model.AnalyticsEvent{}, s.events...),
		Counters:  s.counters,
	}
	s.dirty = false
	s.lastFlush = now
	s.mu.Unlock()

	return s.store.Save(snap)
}

// Reset clears events and counters (reset_analytics action).
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.counters = model.NewAnalyticsCounters()
	s.dirty = true
}

// Events returns a copy of the current event ring.
func (s *Store) Events() []model.AnalyticsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.AnalyticsEvent{}, s.events...)
}

func (s *Store) Counters() model.AnalyticsCounters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}

// Summary is the windowed aggregation returned by get_analytics_summary.
type Summary struct {
	WindowHours  float64        `json:"window_hours"`
	TotalEvents  int            `json:"total_events"`
	SuccessCount int            `json:"success_count"`
	FailureCount int            `json:"failure_count"`
	SuccessRate  float64        `json:"success_rate"`
	TopNames     []NameCount    `json:"top_names"`
	ByCategory   map[string]int `json:"by_category"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s *Store) Summary(now, windowHours float64) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now - windowHours*3600
	byName := map[string]int{}
	byCategory := map[string]int{}
	success, failure := 0, 0
	for _, e := range s.events {
		if e.Timestamp < cutoff {
			continue
		}
		byName[e.Name]++
		byCategory[e.Category]++
		if e.Success {
			success++
		} else {
			failure++
		}
	}
	total := success + failure
	rate := 0.0
	if total > 0 {
		rate = float64(success) / float64(total)
	}

	names := make([]NameCount, 0, len(byName))
	for n, c := range byName {
		names = append(names, NameCount{Name: n, Count: c})
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i].Count != names[j].Count {
			return names[i].Count > names[j].Count
		}
		return names[i].Name < names[j].Name
	})
	if len(names) > 10 {
		names = names[:10]
	}

	return Summary{
		WindowHours:  windowHours,
		TotalEvents:  total,
		SuccessCount: success,
		FailureCount: failure,
		SuccessRate:  rate,
		TopNames:     names,
		ByCategory:   byCategory,
	}
}

// Recommendations returns short heuristic strings derived from a summary.
func Recommendations(sum Summary) []string {
	var recs []string
	if sum.TotalEvents == 0 {
		return []string{"No activity recorded in this window."}
	}
	if sum.SuccessRate < 0.5 {
		recs = append(recs, "Success rate below 50%: review recent failures.")
	}
	if len(sum.TopNames) > 0 {
		recs = append(recs, "Most frequent action: "+sum.TopNames[0].Name+".")
	}
	if sum.FailureCount > sum.SuccessCount {
		recs = append(recs, "Failures outnumber successes this window.")
	}
	return recs
}
