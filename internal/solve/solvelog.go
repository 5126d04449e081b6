package solve

import (
	"fmt"
	"strings"
)

// SolveLogEntry is one recorded event during a solve.
type SolveLogEntry struct {
	Turn     int
	Drone    string  // label e.g. "D0", or "--" for global events
	Category string  // bonus, effect, zone, clone, plan, move
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	Num      float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] D0   bonus   collect   wheels at (3,7)
func (e SolveLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-7s %-14s %s",
		e.Turn, e.Drone, e.Category, e.Key, e.Value)
}

// SolveLog collects structured events during a solve. It is unbounded and
// machine-readable; tests and the batch reporter consume it.
type SolveLog struct {
	entries []SolveLogEntry
	verbose bool
}

// NewSolveLog creates a SolveLog. If verbose is true, per-turn position and
// plan entries are also recorded.
func NewSolveLog(verbose bool) *SolveLog {
	return &SolveLog{verbose: verbose}
}

// Add records a new entry. A nil SolveLog drops everything, so the solver
// can run unlogged.
func (sl *SolveLog) Add(turn int, drone, category, key, value string, num float64) {
	if sl == nil {
		return
	}
	sl.entries = append(sl.entries, SolveLogEntry{
		Turn:     turn,
		Drone:    drone,
		Category: category,
		Key:      key,
		Value:    value,
		Num:      num,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SolveLog) AddVerbose(turn int, drone, category, key, value string, num float64) {
	if sl == nil || !sl.verbose {
		return
	}
	sl.Add(turn, drone, category, key, value, num)
}

// Entries returns all recorded entries.
func (sl *SolveLog) Entries() []SolveLogEntry {
	if sl == nil {
		return nil
	}
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SolveLog) Filter(category, key string) []SolveLogEntry {
	var out []SolveLogEntry
	for _, e := range sl.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many entries match the given category and key.
func (sl *SolveLog) Count(category, key string) int {
	return len(sl.Filter(category, key))
}

// HasEntry returns true if at least one entry matches category, key, and
// value substring.
func (sl *SolveLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SolveLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
