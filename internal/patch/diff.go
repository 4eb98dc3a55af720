package patch

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// MatchDiff generates a unified diff of one accepted match's span against its
// replacement content, for the host's approval rendering.
func MatchDiff(doc []string, edit NormalizedEdit, match *MatchResult, name string) (string, error) {
	var before string
	if match.Strategy != StrategyNewDocumentInsert {
		before = strings.Join(doc[match.StartLine:match.EndLine+1], "\n")
	}
	return unifiedDiff(before, edit.Replace, name)
}

// ResultDiff generates a whole-document unified diff for a valid result,
// by applying it to a scratch copy. Pure text generation, no I/O.
func ResultDiff(doc []string, result *ValidationResult, name string) (string, error) {
	after, err := Apply(doc, result.Edits, result.Matches)
	if err != nil {
		return "", err
	}
	return unifiedDiff(strings.Join(doc, "\n"), strings.Join(after, "\n"), name)
}

// unifiedDiff renders a unified diff between old and new content.
func unifiedDiff(oldContent, newContent, name string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: name,
		ToFile:   name,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
