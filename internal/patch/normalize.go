package patch

import "strings"

// indentWidth is the number of spaces one tab expands to when indentation is
// normalized for comparison.
const indentWidth = 4

// Options control how content is normalized before comparison.
// Each toggle is independent; the zero value disables everything.
type Options struct {
	StripLeading    bool // strip leading whitespace from each line
	StripTrailing   bool // strip trailing whitespace from each line
	NormalizeIndent bool // rewrite leading tabs as spaces so indentation compares uniformly
	DropBlankLines  bool // drop lines that are empty after normalization
	IgnoreCase      bool // lower-case lines for comparison
}

// DefaultOptions returns the normalization used for whitespace-tolerant
// matching: leading/trailing whitespace and indentation differences are
// ignored, case and blank lines are preserved.
func DefaultOptions() Options {
	return Options{
		StripLeading:    true,
		StripTrailing:   true,
		NormalizeIndent: true,
	}
}

// Normalize applies the configured normalization to a text block, line by
// line. Purely functional and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string, opts Options) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if opts.NormalizeIndent {
			line = canonicalIndent(line)
		}
		if opts.StripLeading {
			line = strings.TrimLeft(line, " \t")
		}
		if opts.StripTrailing {
			line = strings.TrimRight(line, " \t")
		}
		if opts.IgnoreCase {
			line = strings.ToLower(line)
		}
		if opts.DropBlankLines && strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// canonicalIndent rewrites the leading whitespace run of a line as spaces,
// expanding each tab to indentWidth spaces. The rest of the line is untouched.
func canonicalIndent(line string) string {
	i, width := 0, 0
	for ; i < len(line); i++ {
		c := line[i]
		if c == ' ' {
			width++
		} else if c == '\t' {
			width += indentWidth
		} else {
			break
		}
	}
	if i == 0 {
		return line
	}
	return strings.Repeat(" ", width) + line[i:]
}
