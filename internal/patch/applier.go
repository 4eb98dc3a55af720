package patch

import (
	"sort"
	"strings"
)

// splitReplacement splits replacement content into the lines it contributes.
// Empty content contributes no lines, so an empty replace deletes the span.
func splitReplacement(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Apply constructs the modified document from a validated set of matches.
// The matches must come from a Validate call against the same document;
// Apply trusts them and only re-checks its own preconditions. Any violation
// returns a contract error and the caller keeps the original document - the
// function never exposes partial state.
//
// Replacements are applied in descending start-line order so an edit lower in
// the document never shifts the resolved line numbers of edits still pending.
// New-document insertions are applied top to bottom instead, appending to the
// growing virtual document.
func Apply(doc []string, edits []NormalizedEdit, matches []*MatchResult) ([]string, error) {
	if len(edits) != len(matches) {
		return nil, ContractErrorf("apply: %d edits but %d matches", len(edits), len(matches))
	}

	inserts := 0
	for i, match := range matches {
		if match == nil {
			return nil, ContractErrorf("apply: request %d has no match", i)
		}
		if match.Strategy == StrategyNewDocumentInsert {
			inserts++
		}
	}

	if inserts > 0 {
		if inserts != len(matches) {
			return nil, ContractErrorf("apply: %d of %d matches are new-document inserts; batches cannot mix insert and replace", inserts, len(matches))
		}
		return applyInserts(edits), nil
	}

	order := make([]int, len(matches))
	for i := range order {
		order[i] = i
	}
	// Descending by resolved start line.
	sort.SliceStable(order, func(a, b int) bool {
		return matches[order[a]].StartLine > matches[order[b]].StartLine
	})

	result := append([]string(nil), doc...)
	for _, i := range order {
		match := matches[i]
		if match.StartLine < 0 || match.EndLine < match.StartLine || match.EndLine >= len(doc) {
			return nil, ContractErrorf("apply: request %d span %d-%d outside document of %d lines",
				i, match.StartLine, match.EndLine, len(doc))
		}
		replacement := splitReplacement(edits[i].Replace)
		result = splice(result, match.StartLine, match.EndLine, replacement)
	}
	return result, nil
}

// applyInserts builds a new document from ordered insertions, ascending by
// hint so earlier requests land first.
func applyInserts(edits []NormalizedEdit) []string {
	order := hintOrder(edits)
	var result []string
	for _, i := range order {
		result = append(result, splitReplacement(edits[i].Replace)...)
	}
	return result
}

// splice replaces the inclusive line span [start, end] with the replacement
// lines, returning a fresh slice.
func splice(lines []string, start, end int, replacement []string) []string {
	out := make([]string, 0, len(lines)-(end-start+1)+len(replacement))
	out = append(out, lines[:start]...)
	out = append(out, replacement...)
	out = append(out, lines[end+1:]...)
	return out
}
