package patch

import (
	"fmt"
	"strings"
)

// Per-strategy confidence constants. The fallback order is a designed policy,
// so these stay explicit rather than derived.
const (
	ExactConfidence      = 1.0
	NormalizedConfidence = 0.9
	ContextualFloor      = 0.7

	// confirmationThreshold flags matches that need external confirmation
	// before they are applied.
	confirmationThreshold = 0.9

	// significantDifferenceThreshold marks similarity matches whose content
	// deviates enough to warrant a caveat.
	significantDifferenceThreshold = 0.95
)

// Contextual strategy weights: a fixed bonus or penalty per adjacent line.
// Placeholder heuristic, not a load-bearing algorithm.
const (
	contextBonus   = 0.02
	contextPenalty = 0.02
	contextWindow  = 2
	contextualCap  = 0.89
)

// DefaultMaxScanCost bounds the work a single similarity scan may do
// (window count times target size), so one request against a pathologically
// large document cannot stall a whole batch.
const DefaultMaxScanCost = 50_000_000

// MatchResult is one located candidate for an edit's search content.
// StartLine/EndLine are inclusive 0-indexed positions resolved against the
// document - authoritative, unlike the request's hint.
type MatchResult struct {
	StartLine     int      `json:"start_line"`
	EndLine       int      `json:"end_line"`
	Confidence    float64  `json:"confidence"` // [0,1]; 1.0 only for exact matches
	Strategy      string   `json:"strategy"`
	ActualContent string   `json:"actual_content"`
	Issues        []string `json:"issues,omitempty"`
}

// Matcher locates a target text block in a document using exact, normalized,
// similarity, and contextual scans. All operations are pure functions over
// the supplied line slices.
type Matcher struct {
	Opts        Options
	MaxScanCost int
}

// NewMatcher creates a Matcher with the given normalization options and the
// default scan cost limit.
func NewMatcher(opts Options) *Matcher {
	return &Matcher{Opts: opts, MaxScanCost: DefaultMaxScanCost}
}

// SplitLines splits a text block into its line sequence. An empty block is a
// single empty line, matching how documents are split.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// matchAt builds a MatchResult covering the n-line span starting at line i.
func matchAt(doc []string, i, n int, confidence float64) *MatchResult {
	return &MatchResult{
		StartLine:     i,
		EndLine:       i + n - 1,
		Confidence:    confidence,
		ActualContent: strings.Join(doc[i:i+n], "\n"),
	}
}

// exactAt reports whether target matches doc literally at line i.
func exactAt(doc, target []string, i int) bool {
	if i < 0 || i+len(target) > len(doc) {
		return false
	}
	for j, t := range target {
		if doc[i+j] != t {
			return false
		}
	}
	return true
}

// ExactMatch scans for a contiguous span whose literal content equals target,
// starting at line offset from. Returns a confidence 1.0 match or nil.
func (m *Matcher) ExactMatch(doc, target []string, from int) *MatchResult {
	n := len(target)
	if n == 0 || n > len(doc) {
		return nil
	}
	if from < 0 {
		from = 0
	}
	for i := from; i <= len(doc)-n; i++ {
		if exactAt(doc, target, i) {
			return matchAt(doc, i, n, ExactConfidence)
		}
	}
	return nil
}

// ExactMatchNear looks for an exact match within radius lines of hint,
// expanding outward so the closest plausible location wins when the document
// has grown or shrunk elsewhere.
func (m *Matcher) ExactMatchNear(doc, target []string, hint, radius int) *MatchResult {
	n := len(target)
	if n == 0 || n > len(doc) {
		return nil
	}
	for d := 0; d <= radius; d++ {
		if exactAt(doc, target, hint-d) {
			return matchAt(doc, hint-d, n, ExactConfidence)
		}
		if d > 0 && exactAt(doc, target, hint+d) {
			return matchAt(doc, hint+d, n, ExactConfidence)
		}
	}
	return nil
}

// FindAllOccurrences returns the start line of every exact match of target in
// the document. Used to detect ambiguity.
func (m *Matcher) FindAllOccurrences(doc, target []string) []int {
	n := len(target)
	if n == 0 || n > len(doc) {
		return nil
	}
	var starts []int
	for i := 0; i <= len(doc)-n; i++ {
		if exactAt(doc, target, i) {
			starts = append(starts, i)
		}
	}
	return starts
}

// FindBestWithHint finds an exact match anywhere in the document. When
// multiple identical matches exist, the one whose start is numerically
// closest to the hint wins and an issue records how many there were.
func (m *Matcher) FindBestWithHint(doc, target []string, hint int) *MatchResult {
	starts := m.FindAllOccurrences(doc, target)
	if len(starts) == 0 {
		return nil
	}

	best := starts[0]
	for _, s := range starts[1:] {
		if abs(s-hint) < abs(best-hint) {
			best = s
		}
	}

	match := matchAt(doc, best, len(target), ExactConfidence)
	if len(starts) > 1 {
		match.Issues = append(match.Issues,
			fmt.Sprintf("%d identical matches found, used the one closest to line %d", len(starts), hint))
	}
	return match
}

// NormalizedMatch compares target against every candidate span after
// normalizing both sides with the matcher's options. Confidence is fixed at
// NormalizedConfidence; an issue records how the raw content differed.
func (m *Matcher) NormalizedMatch(doc, target []string, ignoreCase bool) *MatchResult {
	n := len(target)
	if n == 0 || n > len(doc) {
		return nil
	}

	opts := m.Opts
	opts.IgnoreCase = ignoreCase

	rawTarget := strings.Join(target, "\n")
	normTarget := Normalize(rawTarget, opts)

	for i := 0; i <= len(doc)-n; i++ {
		cand := strings.Join(doc[i:i+n], "\n")
		if Normalize(cand, opts) != normTarget {
			continue
		}
		match := matchAt(doc, i, n, NormalizedConfidence)
		if cand != rawTarget {
			if strings.EqualFold(cand, rawTarget) {
				match.Issues = append(match.Issues, "differs in case")
			} else {
				match.Issues = append(match.Issues, "differs in whitespace")
			}
		}
		return match
	}
	return nil
}

// SimilarityMatch scores every candidate span of target's line count and
// returns the spans at or above threshold, confidence equal to similarity.
// Returns an error when the estimated scan cost exceeds MaxScanCost.
func (m *Matcher) SimilarityMatch(doc, target []string, threshold float64) ([]*MatchResult, error) {
	n := len(target)
	if n == 0 || n > len(doc) {
		return nil, nil
	}

	rawTarget := strings.Join(target, "\n")
	if err := m.checkScanCost(len(doc)-n+1, len(rawTarget)); err != nil {
		return nil, err
	}

	var results []*MatchResult
	for i := 0; i <= len(doc)-n; i++ {
		cand := strings.Join(doc[i:i+n], "\n")
		sim := Similarity(cand, rawTarget)
		if sim < threshold {
			continue
		}
		match := matchAt(doc, i, n, sim)
		if sim < significantDifferenceThreshold {
			match.Issues = append(match.Issues,
				fmt.Sprintf("significant differences from expected content (similarity %.2f)", sim))
		}
		results = append(results, match)
	}
	return results, nil
}

// ContextualMatch is a similarity scan that additionally weights candidates
// by how plausible their surrounding lines look: a fixed bonus per adjacent
// non-blank line, a penalty per blank one. Candidates below ContextualFloor
// are discarded.
func (m *Matcher) ContextualMatch(doc, target []string, threshold float64) ([]*MatchResult, error) {
	if threshold < ContextualFloor {
		threshold = ContextualFloor
	}
	candidates, err := m.SimilarityMatch(doc, target, ContextualFloor)
	if err != nil {
		return nil, err
	}

	var results []*MatchResult
	for _, cand := range candidates {
		score := cand.Confidence
		for d := 1; d <= contextWindow; d++ {
			score += contextWeight(doc, cand.StartLine-d)
			score += contextWeight(doc, cand.EndLine+d)
		}
		if score > contextualCap {
			score = contextualCap
		}
		if score < threshold {
			continue
		}
		cand.Confidence = score
		cand.Issues = append(cand.Issues, "matched by surrounding context")
		results = append(results, cand)
	}
	return results, nil
}

// contextWeight scores one adjacent line of a candidate span.
func contextWeight(doc []string, i int) float64 {
	if i < 0 || i >= len(doc) {
		return 0
	}
	if strings.TrimSpace(doc[i]) == "" {
		return -contextPenalty
	}
	return contextBonus
}

// SelectBestMatch returns the highest-confidence candidate at or above
// minConfidence, or nil when none qualifies. Ties keep the earliest span.
func SelectBestMatch(candidates []*MatchResult, minConfidence float64) *MatchResult {
	var best *MatchResult
	for _, c := range candidates {
		if c.Confidence < minConfidence {
			continue
		}
		if best == nil || c.Confidence > best.Confidence {
			best = c
		}
	}
	return best
}

// RequiresConfirmation reports whether a match should be confirmed by the
// external approval step before it is applied. Does not block matching.
func RequiresConfirmation(m *MatchResult) bool {
	if m == nil {
		return false
	}
	return m.Confidence < confirmationThreshold || len(m.Issues) > 0
}

// checkScanCost estimates the work of a window scan and rejects it when it
// would exceed the configured limit.
func (m *Matcher) checkScanCost(windows, targetLen int) error {
	limit := m.MaxScanCost
	if limit <= 0 {
		limit = DefaultMaxScanCost
	}
	if windows < 0 {
		windows = 0
	}
	cost := windows * targetLen
	if cost > limit {
		return fmt.Errorf("similarity scan skipped: estimated cost %d exceeds limit %d", cost, limit)
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
