package patch

import (
	"time"

	"go.uber.org/zap"
)

// Strategy names, grouped by strictness level.
const (
	StrategyExactAtHint       = "exact-at-hint"
	StrategyExactNearHint     = "exact-near-hint"
	StrategyExactAnywhere     = "exact-anywhere"
	StrategyNormalized        = "normalized-whitespace"
	StrategyNormalizedCase    = "normalized-case-insensitive"
	StrategySimilarityHigh    = "similarity-0.90"
	StrategySimilarityMedium  = "similarity-0.80"
	StrategySimilarityLow     = "similarity-0.70"
	StrategyContextual        = "contextual"
	StrategyNewDocumentInsert = "new-document-insert"
)

// hintRadius is how far exact-near-hint searches around the hint.
const hintRadius = 5

// partialCandidateFloor is the minimum confidence for a failed strategy's
// best candidate to be retained for diagnostics.
const partialCandidateFloor = 0.5

// AttemptOutcome is what one strategy attempt produced.
type AttemptOutcome string

const (
	OutcomeMatch   AttemptOutcome = "match"
	OutcomeNoMatch AttemptOutcome = "no_match"
	OutcomeError   AttemptOutcome = "error"
)

// Attempt records one strategy execution for a request. Attempts are always
// retained, matched or not, so diagnostics can show the full fallback path.
type Attempt struct {
	Strategy  string         `json:"strategy"`
	Level     int            `json:"level"`
	Outcome   AttemptOutcome `json:"outcome"`
	Error     string         `json:"error,omitempty"`
	Duration  time.Duration  `json:"duration"`
	Candidate *MatchResult   `json:"candidate,omitempty"` // best sub-threshold candidate, if any
}

// Strategy is one named matching algorithm within the validation hierarchy.
// run returns the match, an optional low-confidence candidate for
// diagnostics, and an error when the strategy could not execute.
type Strategy struct {
	Name  string
	Level int
	run   func(m *Matcher, doc []string, edit NormalizedEdit) (match, candidate *MatchResult, err error)
}

// defaultStrategies builds the fixed fallback sequence: strict exact matching
// first, whitespace/case normalization second, similarity and contextual
// matching last. The returned slice is constructed once per Validator and
// never mutated after.
func defaultStrategies() []Strategy {
	return []Strategy{
		// Level 1: strict
		{Name: StrategyExactAtHint, Level: 1, run: runExactAtHint},
		{Name: StrategyExactNearHint, Level: 1, run: runExactNearHint},
		{Name: StrategyExactAnywhere, Level: 1, run: runExactAnywhere},
		// Level 2: permissive
		{Name: StrategyNormalized, Level: 2, run: runNormalized},
		{Name: StrategyNormalizedCase, Level: 2, run: runNormalizedCase},
		// Level 3: fuzzy
		{Name: StrategySimilarityHigh, Level: 3, run: similarityStrategy(0.9)},
		{Name: StrategySimilarityMedium, Level: 3, run: similarityStrategy(0.8)},
		{Name: StrategySimilarityLow, Level: 3, run: similarityStrategy(0.7)},
		{Name: StrategyContextual, Level: 3, run: runContextual},
	}
}

func runExactAtHint(m *Matcher, doc []string, edit NormalizedEdit) (*MatchResult, *MatchResult, error) {
	target := SplitLines(edit.Search)
	if !exactAt(doc, target, edit.StartLine) {
		return nil, nil, nil
	}
	return matchAt(doc, edit.StartLine, len(target), ExactConfidence), nil, nil
}

// runExactNearHint accepts an exact match only when its start is within
// hintRadius of the hint. Goes through hint-aware disambiguation so identical
// blocks elsewhere in the document are still flagged as an issue.
func runExactNearHint(m *Matcher, doc []string, edit NormalizedEdit) (*MatchResult, *MatchResult, error) {
	match := m.FindBestWithHint(doc, SplitLines(edit.Search), edit.StartLine)
	if match == nil || abs(match.StartLine-edit.StartLine) > hintRadius {
		return nil, nil, nil
	}
	return match, nil, nil
}

func runExactAnywhere(m *Matcher, doc []string, edit NormalizedEdit) (*MatchResult, *MatchResult, error) {
	return m.FindBestWithHint(doc, SplitLines(edit.Search), edit.StartLine), nil, nil
}

func runNormalized(m *Matcher, doc []string, edit NormalizedEdit) (*MatchResult, *MatchResult, error) {
	return m.NormalizedMatch(doc, SplitLines(edit.Search), false), nil, nil
}

func runNormalizedCase(m *Matcher, doc []string, edit NormalizedEdit) (*MatchResult, *MatchResult, error) {
	return m.NormalizedMatch(doc, SplitLines(edit.Search), true), nil, nil
}

// similarityStrategy scans once at the diagnostic floor so a failed attempt
// can still report its best partial candidate, then applies the strategy's
// own threshold.
func similarityStrategy(threshold float64) func(*Matcher, []string, NormalizedEdit) (*MatchResult, *MatchResult, error) {
	return func(m *Matcher, doc []string, edit NormalizedEdit) (*MatchResult, *MatchResult, error) {
		candidates, err := m.SimilarityMatch(doc, SplitLines(edit.Search), partialCandidateFloor)
		if err != nil {
			return nil, nil, err
		}
		if best := SelectBestMatch(candidates, threshold); best != nil {
			return best, nil, nil
		}
		return nil, SelectBestMatch(candidates, partialCandidateFloor), nil
	}
}

func runContextual(m *Matcher, doc []string, edit NormalizedEdit) (*MatchResult, *MatchResult, error) {
	candidates, err := m.ContextualMatch(doc, SplitLines(edit.Search), ContextualFloor)
	if err != nil {
		return nil, nil, err
	}
	return SelectBestMatch(candidates, ContextualFloor), nil, nil
}

// runHierarchy executes the strategies in order for one request, stopping at
// the first match. Every attempt is recorded with its outcome and duration
// regardless of success, and debug-logged.
func runHierarchy(m *Matcher, strategies []Strategy, doc []string, edit NormalizedEdit, index int, log *zap.Logger) (*MatchResult, []Attempt) {
	attempts := make([]Attempt, 0, len(strategies))

	for _, s := range strategies {
		start := time.Now()
		match, candidate, err := s.run(m, doc, edit)
		elapsed := time.Since(start)

		attempt := Attempt{
			Strategy: s.Name,
			Level:    s.Level,
			Duration: elapsed,
		}
		switch {
		case err != nil:
			attempt.Outcome = OutcomeError
			attempt.Error = err.Error()
		case match != nil:
			attempt.Outcome = OutcomeMatch
		default:
			attempt.Outcome = OutcomeNoMatch
			attempt.Candidate = candidate
		}
		attempts = append(attempts, attempt)

		log.Debug("strategy attempt",
			zap.Int("request", index),
			zap.String("strategy", s.Name),
			zap.Int("level", s.Level),
			zap.String("outcome", string(attempt.Outcome)),
			zap.Duration("duration", elapsed),
		)

		if match != nil {
			match.Strategy = s.Name
			return match, attempts
		}
	}

	return nil, attempts
}
