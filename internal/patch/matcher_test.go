package patch

import (
	"strings"
	"testing"
)

func TestExactMatch(t *testing.T) {
	doc := []string{"package main", "", "func main() {", "\tprintln(1)", "}"}

	tests := []struct {
		name      string
		target    []string
		from      int
		wantStart int
		wantFound bool
	}{
		{name: "single line", target: []string{"func main() {"}, wantStart: 2, wantFound: true},
		{name: "multi line", target: []string{"func main() {", "\tprintln(1)", "}"}, wantStart: 2, wantFound: true},
		{name: "whole document", target: doc, wantStart: 0, wantFound: true},
		{name: "not present", target: []string{"func other() {"}, wantFound: false},
		{name: "offset skips earlier match", target: []string{""}, from: 2, wantFound: false},
		{name: "target longer than document", target: append(append([]string{}, doc...), "extra"), wantFound: false},
	}

	m := NewMatcher(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ExactMatch(doc, tt.target, tt.from)
			if (got != nil) != tt.wantFound {
				t.Fatalf("ExactMatch() found = %v, want %v", got != nil, tt.wantFound)
			}
			if got == nil {
				return
			}
			if got.StartLine != tt.wantStart {
				t.Errorf("StartLine = %d, want %d", got.StartLine, tt.wantStart)
			}
			if got.EndLine != tt.wantStart+len(tt.target)-1 {
				t.Errorf("EndLine = %d, want %d", got.EndLine, tt.wantStart+len(tt.target)-1)
			}
			if got.Confidence != ExactConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, ExactConfidence)
			}
			if got.ActualContent != strings.Join(tt.target, "\n") {
				t.Errorf("ActualContent = %q", got.ActualContent)
			}
		})
	}
}

func TestExactMatchNear(t *testing.T) {
	// "x" appears at lines 3 and 17
	doc := make([]string, 20)
	for i := range doc {
		doc[i] = "filler"
	}
	doc[3] = "x"
	doc[17] = "x"

	m := NewMatcher(DefaultOptions())

	tests := []struct {
		name      string
		hint      int
		radius    int
		wantStart int
		wantFound bool
	}{
		{name: "at hint", hint: 3, radius: 5, wantStart: 3, wantFound: true},
		{name: "below hint", hint: 5, radius: 5, wantStart: 3, wantFound: true},
		{name: "above hint", hint: 15, radius: 5, wantStart: 17, wantFound: true},
		{name: "outside radius", hint: 10, radius: 2, wantFound: false},
		{name: "closest wins", hint: 16, radius: 20, wantStart: 17, wantFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ExactMatchNear(doc, []string{"x"}, tt.hint, tt.radius)
			if (got != nil) != tt.wantFound {
				t.Fatalf("ExactMatchNear() found = %v, want %v", got != nil, tt.wantFound)
			}
			if got != nil && got.StartLine != tt.wantStart {
				t.Errorf("StartLine = %d, want %d", got.StartLine, tt.wantStart)
			}
		})
	}
}

func TestFindAllOccurrences(t *testing.T) {
	doc := []string{"a", "b", "a", "b", "a"}
	m := NewMatcher(DefaultOptions())

	if got := m.FindAllOccurrences(doc, []string{"a"}); len(got) != 3 {
		t.Errorf("occurrences of [a] = %v, want 3 starts", got)
	}
	if got := m.FindAllOccurrences(doc, []string{"a", "b"}); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("occurrences of [a b] = %v, want [0 2]", got)
	}
	if got := m.FindAllOccurrences(doc, []string{"c"}); got != nil {
		t.Errorf("occurrences of [c] = %v, want none", got)
	}
}

func TestFindBestWithHint(t *testing.T) {
	// Identical 3-line blocks at 0-2 and 10-12
	doc := make([]string, 13)
	for i := 3; i < 10; i++ {
		doc[i] = strings.Repeat("-", i)
	}
	block := []string{"alpha", "beta", "gamma"}
	copy(doc[0:], block)
	copy(doc[10:], block)

	m := NewMatcher(DefaultOptions())

	t.Run("hint near second block", func(t *testing.T) {
		got := m.FindBestWithHint(doc, block, 11)
		if got == nil {
			t.Fatal("expected a match")
		}
		if got.StartLine != 10 || got.EndLine != 12 {
			t.Errorf("span = %d-%d, want 10-12", got.StartLine, got.EndLine)
		}
		if len(got.Issues) != 1 || !strings.Contains(got.Issues[0], "2 identical matches found") {
			t.Errorf("Issues = %v, want ambiguity note", got.Issues)
		}
	})

	t.Run("hint near first block", func(t *testing.T) {
		got := m.FindBestWithHint(doc, block, 1)
		if got == nil || got.StartLine != 0 {
			t.Fatalf("match = %+v, want start 0", got)
		}
	})

	t.Run("unique match has no issue", func(t *testing.T) {
		got := m.FindBestWithHint(doc, []string{"-------"}, 0)
		if got == nil {
			t.Fatal("expected a match")
		}
		if len(got.Issues) != 0 {
			t.Errorf("Issues = %v, want none", got.Issues)
		}
	})
}

func TestNormalizedMatch(t *testing.T) {
	m := NewMatcher(DefaultOptions())

	tests := []struct {
		name       string
		doc        []string
		target     []string
		ignoreCase bool
		wantFound  bool
		wantIssue  string
	}{
		{
			name:      "whitespace drift",
			doc:       []string{"  foo()"},
			target:    []string{"foo()"},
			wantFound: true,
			wantIssue: "differs in whitespace",
		},
		{
			name:      "identical content no issue",
			doc:       []string{"foo()"},
			target:    []string{"foo()"},
			wantFound: true,
		},
		{
			name:       "case drift",
			doc:        []string{"Foo()"},
			target:     []string{"foo()"},
			ignoreCase: true,
			wantFound:  true,
			wantIssue:  "differs in case",
		},
		{
			name:      "case sensitive by default",
			doc:       []string{"Foo()"},
			target:    []string{"foo()"},
			wantFound: false,
		},
		{
			name:      "different content",
			doc:       []string{"bar()"},
			target:    []string{"foo()"},
			wantFound: false,
		},
		{
			name:      "multiline indentation drift",
			doc:       []string{"\tif x {", "\t\ty()", "\t}"},
			target:    []string{"if x {", "  y()", "}"},
			wantFound: true,
			wantIssue: "differs in whitespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.NormalizedMatch(tt.doc, tt.target, tt.ignoreCase)
			if (got != nil) != tt.wantFound {
				t.Fatalf("NormalizedMatch() found = %v, want %v", got != nil, tt.wantFound)
			}
			if got == nil {
				return
			}
			if got.Confidence != NormalizedConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, NormalizedConfidence)
			}
			if tt.wantIssue == "" {
				if len(got.Issues) != 0 {
					t.Errorf("Issues = %v, want none", got.Issues)
				}
			} else if len(got.Issues) != 1 || got.Issues[0] != tt.wantIssue {
				t.Errorf("Issues = %v, want [%q]", got.Issues, tt.wantIssue)
			}
		})
	}
}

func TestSimilarityMatch(t *testing.T) {
	doc := []string{
		"func target() {",
		"    doSomething()",
		"    doMore()",
		"}",
	}
	// Slightly reworded version of lines 0-2
	target := []string{
		"func target() {",
		"    doSomethingElse()",
		"    doMore()",
	}

	m := NewMatcher(DefaultOptions())

	results, err := m.SimilarityMatch(doc, target, 0.7)
	if err != nil {
		t.Fatalf("SimilarityMatch() error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one candidate")
	}

	best := SelectBestMatch(results, 0.7)
	if best.StartLine != 0 || best.EndLine != 2 {
		t.Errorf("span = %d-%d, want 0-2", best.StartLine, best.EndLine)
	}
	if best.Confidence >= 1.0 || best.Confidence < 0.7 {
		t.Errorf("Confidence = %v, want in [0.7, 1.0)", best.Confidence)
	}
}

func TestSimilarityMatch_IssueBelowThreshold(t *testing.T) {
	doc := []string{"abcdefghij klmnop qrstuv"}
	target := []string{"abcdefghij klmnop qrsxyz"}

	m := NewMatcher(DefaultOptions())
	results, err := m.SimilarityMatch(doc, target, 0.7)
	if err != nil {
		t.Fatalf("SimilarityMatch() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d candidates, want 1", len(results))
	}
	if len(results[0].Issues) != 1 || !strings.Contains(results[0].Issues[0], "significant differences") {
		t.Errorf("Issues = %v, want significant-differences note", results[0].Issues)
	}
}

func TestSimilarityMatch_CostGuard(t *testing.T) {
	var doc []string
	for i := 0; i < 200; i++ {
		doc = append(doc, "some line of content here")
	}
	target := doc[50:60]

	m := NewMatcher(DefaultOptions())
	m.MaxScanCost = 100 // force the guard

	_, err := m.SimilarityMatch(doc, target, 0.7)
	if err == nil {
		t.Fatal("expected cost guard error")
	}
	if !strings.Contains(err.Error(), "similarity scan skipped") {
		t.Errorf("error = %v", err)
	}
}

func TestContextualMatch(t *testing.T) {
	doc := []string{
		"header",
		"func a() {",
		"    work here",
		"}",
		"footer",
	}
	target := []string{"    work done"}

	m := NewMatcher(DefaultOptions())
	results, err := m.ContextualMatch(doc, target, ContextualFloor)
	if err != nil {
		t.Fatalf("ContextualMatch() error: %v", err)
	}
	best := SelectBestMatch(results, ContextualFloor)
	if best == nil {
		t.Fatal("expected a contextual candidate")
	}
	if best.StartLine != 2 {
		t.Errorf("StartLine = %d, want 2", best.StartLine)
	}
	if best.Confidence < ContextualFloor || best.Confidence > contextualCap {
		t.Errorf("Confidence = %v, want within [%v, %v]", best.Confidence, ContextualFloor, contextualCap)
	}
}

func TestSelectBestMatch(t *testing.T) {
	a := &MatchResult{StartLine: 0, Confidence: 0.8}
	b := &MatchResult{StartLine: 5, Confidence: 0.95}
	c := &MatchResult{StartLine: 9, Confidence: 0.6}

	if got := SelectBestMatch([]*MatchResult{a, b, c}, 0.7); got != b {
		t.Errorf("SelectBestMatch = %+v, want highest-confidence candidate", got)
	}
	if got := SelectBestMatch([]*MatchResult{c}, 0.7); got != nil {
		t.Errorf("SelectBestMatch = %+v, want nil below threshold", got)
	}
	if got := SelectBestMatch(nil, 0.7); got != nil {
		t.Errorf("SelectBestMatch(nil) = %+v, want nil", got)
	}
}

func TestRequiresConfirmation(t *testing.T) {
	tests := []struct {
		name  string
		match *MatchResult
		want  bool
	}{
		{name: "nil", match: nil, want: false},
		{name: "exact clean", match: &MatchResult{Confidence: 1.0}, want: false},
		{name: "normalized clean", match: &MatchResult{Confidence: 0.9}, want: false},
		{name: "low confidence", match: &MatchResult{Confidence: 0.85}, want: true},
		{name: "issues present", match: &MatchResult{Confidence: 1.0, Issues: []string{"2 identical matches found"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequiresConfirmation(tt.match); got != tt.want {
				t.Errorf("RequiresConfirmation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkSimilarityMatch(b *testing.B) {
	var doc []string
	for i := 0; i < 500; i++ {
		doc = append(doc, "line of code here with more content")
	}
	target := doc[200:205]
	m := NewMatcher(DefaultOptions())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.SimilarityMatch(doc, target, 0.8)
	}
}
