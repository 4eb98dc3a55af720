// Package patch locates and applies multi-section text edits against a
// document whose content may have drifted since the edits were authored.
// Matching runs through an ordered fallback of strategies (exact, normalized,
// similarity, contextual), each match carries a confidence score, and every
// failure is reported with full diagnostics. The engine is pure: it performs
// no I/O and operates only on in-memory line sequences.
package patch

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ConflictKind classifies a structural problem found during validation.
type ConflictKind string

const (
	ConflictOverlap         ConflictKind = "overlap"
	ConflictContentMismatch ConflictKind = "content_mismatch"
	ConflictLineDrift       ConflictKind = "line_drift"
)

// Conflict is a detected problem between two requests or between a request
// and the document. Any conflict invalidates the batch.
type Conflict struct {
	Kind        ConflictKind `json:"kind"`
	Requests    []int        `json:"requests"`
	Description string       `json:"description"`
	Suggestion  string       `json:"suggestion,omitempty"`
	Diagnostic  *Diagnostic  `json:"diagnostic,omitempty"`
}

// Diagnostic is the failure context for one unmatched request: what was
// expected, what was actually near the hint, every strategy attempted, and
// the best partial candidate any strategy saw.
type Diagnostic struct {
	Expected      string       `json:"expected"`
	Actual        string       `json:"actual"`
	Attempts      []Attempt    `json:"attempts"`
	BestCandidate *MatchResult `json:"best_candidate,omitempty"`
}

// ValidationResult aggregates one validation pass. Matches are index-aligned
// with the normalized edits; an unmatched request holds nil. This is the sole
// contract between validation and application - the applier re-validates
// nothing beyond its own preconditions.
type ValidationResult struct {
	Valid       bool             `json:"valid"`
	Edits       []NormalizedEdit `json:"edits"`
	Matches     []*MatchResult   `json:"matches"`
	Conflicts   []Conflict       `json:"conflicts,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`
	Attempts    [][]Attempt      `json:"attempts,omitempty"`
}

// Validator runs the validation hierarchy over every requested edit and
// detects conflicts between the results. Safe for concurrent use across
// independent documents; holds no per-call state.
type Validator struct {
	Matcher    *Matcher
	strategies []Strategy
	log        *zap.Logger
}

// NewValidator creates a Validator with the given normalization options.
// A nil logger disables attempt logging.
func NewValidator(opts Options, log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{
		Matcher:    NewMatcher(opts),
		strategies: defaultStrategies(),
		log:        log,
	}
}

// Validate runs a validation pass with default options and no logging.
func Validate(doc []string, requests []EditRequest) (*ValidationResult, error) {
	return NewValidator(DefaultOptions(), nil).Validate(doc, requests)
}

// Validate matches every request against the document and assembles the
// validation verdict. Per-request problems accumulate as conflicts and
// warnings; only malformed input fails directly.
func (v *Validator) Validate(doc []string, requests []EditRequest) (*ValidationResult, error) {
	start := time.Now()

	edits, warnings, err := NormalizeSections(requests)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{
		Edits:    edits,
		Matches:  make([]*MatchResult, len(edits)),
		Warnings: warnings,
		Attempts: make([][]Attempt, len(edits)),
	}

	if isEmptyDocument(doc) {
		v.validateIntoEmpty(result)
	} else {
		v.validateAgainst(doc, result)
	}

	result.Valid = len(result.Conflicts) == 0

	v.log.Info("validation completed",
		zap.Bool("valid", result.Valid),
		zap.Int("requests", len(edits)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// isEmptyDocument treats both a nil line sequence and a single empty line
// (the split of "") as an empty document.
func isEmptyDocument(doc []string) bool {
	return len(doc) == 0 || (len(doc) == 1 && doc[0] == "")
}

// validateIntoEmpty handles the empty-document special case: requests with
// empty search content or a (0,0) hint become ordered insertions at the
// growing end of the virtual document; anything else cannot match.
func (v *Validator) validateIntoEmpty(result *ValidationResult) {
	order := hintOrder(result.Edits)

	cursor := 0
	for _, i := range order {
		edit := result.Edits[i]
		if edit.Search != "" && (edit.StartLine != 0 || edit.EndLine != 0) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Kind:        ConflictContentMismatch,
				Requests:    []int{i},
				Description: fmt.Sprintf("request %d: document is empty but search content is not", i),
				Suggestion:  "use empty search content (or a 0,0 hint) to insert into an empty document",
			})
			continue
		}

		lines := splitReplacement(edit.Replace)
		match := &MatchResult{
			StartLine:  cursor,
			EndLine:    cursor + max(len(lines)-1, 0),
			Confidence: ExactConfidence,
			Strategy:   StrategyNewDocumentInsert,
		}
		result.Matches[i] = match
		cursor += len(lines)
	}
}

// validateAgainst runs the hierarchy for each request against the original
// document. Requests are processed in hint order but results stay aligned
// with the original request order.
func (v *Validator) validateAgainst(doc []string, result *ValidationResult) {
	order := hintOrder(result.Edits)

	var accepted []int // indices with a match, in processing order
	for _, i := range order {
		edit := result.Edits[i]

		// Inverted hint ranges mean the request metadata is stale or garbled.
		if edit.EndLine > 0 && edit.EndLine < edit.StartLine {
			result.Conflicts = append(result.Conflicts, Conflict{
				Kind:        ConflictLineDrift,
				Requests:    []int{i},
				Description: fmt.Sprintf("request %d: end line hint %d precedes start line hint %d", i, edit.EndLine, edit.StartLine),
				Suggestion:  "refresh the line hints from the current document",
			})
		}

		match, attempts := runHierarchy(v.Matcher, v.strategies, doc, edit, i, v.log)
		result.Attempts[i] = attempts

		if match == nil {
			v.reportMismatch(doc, result, i, attempts)
			continue
		}
		result.Matches[i] = match

		for _, j := range accepted {
			prev := result.Matches[j]
			if spansOverlap(prev, match) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Kind:     ConflictOverlap,
					Requests: []int{min(i, j), max(i, j)},
					Description: fmt.Sprintf("requests %d and %d resolve to overlapping line ranges %d-%d and %d-%d",
						j, i, prev.StartLine, prev.EndLine, match.StartLine, match.EndLine),
					Suggestion: "merge the two edits into one request or narrow their search content",
				})
			}
		}
		accepted = append(accepted, i)

		for _, issue := range match.Issues {
			result.Warnings = append(result.Warnings, fmt.Sprintf("request %d: %s", i, issue))
		}
		if RequiresConfirmation(match) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("request %d: matched by %s with confidence %.2f; confirm before applying", i, match.Strategy, match.Confidence))
		}
	}
}

// reportMismatch records a content_mismatch conflict with full diagnostics
// for an unmatched request.
func (v *Validator) reportMismatch(doc []string, result *ValidationResult, i int, attempts []Attempt) {
	edit := result.Edits[i]

	diag := &Diagnostic{
		Expected: edit.Search,
		Actual:   contentNearHint(doc, edit),
		Attempts: attempts,
	}
	for _, a := range attempts {
		if a.Candidate == nil || a.Candidate.Confidence <= partialCandidateFloor {
			continue
		}
		if diag.BestCandidate == nil || a.Candidate.Confidence > diag.BestCandidate.Confidence {
			diag.BestCandidate = a.Candidate
		}
	}

	conflict := Conflict{
		Kind:        ConflictContentMismatch,
		Requests:    []int{i},
		Description: fmt.Sprintf("request %d: no acceptable match found for the search content", i),
		Suggestion:  "re-read the document and update the search content to the current text",
		Diagnostic:  diag,
	}
	result.Conflicts = append(result.Conflicts, conflict)

	if diag.BestCandidate != nil {
		result.Suggestions = append(result.Suggestions,
			fmt.Sprintf("request %d: similar content found at lines %d-%d (confidence %.2f)",
				i, diag.BestCandidate.StartLine, diag.BestCandidate.EndLine, diag.BestCandidate.Confidence))
	}
}

// contentNearHint returns the document content at the hinted location, sized
// to the search content, for diagnostics.
func contentNearHint(doc []string, edit NormalizedEdit) string {
	n := len(SplitLines(edit.Search))
	start := edit.StartLine
	if start < 0 {
		start = 0
	}
	if start >= len(doc) {
		start = len(doc) - 1
	}
	end := start + n
	if end > len(doc) {
		end = len(doc)
	}
	return strings.Join(doc[start:end], "\n")
}

// hintOrder returns the request indices sorted by start line hint. Processing
// follows this order; output indices remain tied to the original order.
func hintOrder(edits []NormalizedEdit) []int {
	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return edits[order[a]].StartLine < edits[order[b]].StartLine
	})
	return order
}

// spansOverlap reports whether two inclusive line spans intersect.
func spansOverlap(a, b *MatchResult) bool {
	return a.StartLine <= b.EndLine && b.StartLine <= a.EndLine
}
