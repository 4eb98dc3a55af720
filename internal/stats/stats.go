// Package stats aggregates matching statistics across a validation run.
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kvit-s/kvit-patch/internal/patch"
)

// StrategyStats is the cumulative record for one strategy across a run.
type StrategyStats struct {
	Attempts  int           `json:"attempts"`
	Matches   int           `json:"matches"`
	Errors    int           `json:"errors"`
	TotalTime time.Duration `json:"-"`
}

// RunStats tracks cumulative matching statistics for one validation run.
type RunStats struct {
	Requests     int
	Matched      int
	Conflicts    int
	Warnings     int
	TotalMatchMS float64

	byStrategy map[string]*StrategyStats
	order      []string // first-seen strategy order, for stable output
}

// Collect builds run statistics from a validation result.
func Collect(result *patch.ValidationResult) *RunStats {
	s := &RunStats{
		Requests:   len(result.Edits),
		Conflicts:  len(result.Conflicts),
		Warnings:   len(result.Warnings),
		byStrategy: make(map[string]*StrategyStats),
	}

	for _, m := range result.Matches {
		if m != nil {
			s.Matched++
		}
	}

	for _, attempts := range result.Attempts {
		for _, a := range attempts {
			st, ok := s.byStrategy[a.Strategy]
			if !ok {
				st = &StrategyStats{}
				s.byStrategy[a.Strategy] = st
				s.order = append(s.order, a.Strategy)
			}
			st.Attempts++
			st.TotalTime += a.Duration
			s.TotalMatchMS += float64(a.Duration) / float64(time.Millisecond)
			switch a.Outcome {
			case patch.OutcomeMatch:
				st.Matches++
			case patch.OutcomeError:
				st.Errors++
			}
		}
	}
	return s
}

// Strategy returns the stats for one strategy name, or nil when the strategy
// never ran.
func (s *RunStats) Strategy(name string) *StrategyStats {
	return s.byStrategy[name]
}

// RunStatsJSON is the JSON output format for run stats.
type RunStatsJSON struct {
	Requests  int     `json:"requests"`
	Matched   int     `json:"matched"`
	Conflicts int     `json:"conflicts"`
	Warnings  int     `json:"warnings"`
	MatchMS   float64 `json:"match_ms"`
	Strategy  []struct {
		Name     string  `json:"name"`
		Attempts int     `json:"attempts"`
		Matches  int     `json:"matches"`
		Errors   int     `json:"errors,omitempty"`
		TimeMS   float64 `json:"time_ms"`
	} `json:"strategy"`
}

// ToJSON converts RunStats to its JSON representation.
func (s *RunStats) ToJSON() RunStatsJSON {
	var j RunStatsJSON
	j.Requests = s.Requests
	j.Matched = s.Matched
	j.Conflicts = s.Conflicts
	j.Warnings = s.Warnings
	j.MatchMS = s.TotalMatchMS
	for _, name := range s.order {
		st := s.byStrategy[name]
		j.Strategy = append(j.Strategy, struct {
			Name     string  `json:"name"`
			Attempts int     `json:"attempts"`
			Matches  int     `json:"matches"`
			Errors   int     `json:"errors,omitempty"`
			TimeMS   float64 `json:"time_ms"`
		}{
			Name:     name,
			Attempts: st.Attempts,
			Matches:  st.Matches,
			Errors:   st.Errors,
			TimeMS:   float64(st.TotalTime) / float64(time.Millisecond),
		})
	}
	return j
}

// Print outputs the run stats in a formatted JSON block to stdout.
func (s *RunStats) Print() {
	s.PrintTo(os.Stdout)
}

// PrintTo outputs the run stats in a formatted JSON block to the given writer.
func (s *RunStats) PrintTo(w io.Writer) {
	j := s.ToJSON()
	jsonBytes, _ := json.MarshalIndent(j, "", "  ")
	fmt.Fprintln(w, "=== MATCH STATS START ===")
	fmt.Fprintln(w, string(jsonBytes))
	fmt.Fprintln(w, "=== MATCH STATS END ===")
}
