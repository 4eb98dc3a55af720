package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/kvit-s/kvit-patch/internal/patch"
)

// Color definitions for consistent output
var (
	// Gray for strategy attempts and secondary detail
	grayColor = color.New(color.FgWhite, color.Faint)

	// Red for conflicts and removed diff lines
	errorColor = color.New(color.FgRed)

	// Yellow for warnings
	warnColor = color.New(color.FgYellow)

	// Green for added diff lines and validity
	okColor = color.New(color.FgGreen)
)

// Header styles for the validation summary
var (
	validHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10")).
				Bold(true)

	invalidHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)

	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Printer renders a ValidationResult for a terminal.
type Printer struct {
	Out     io.Writer
	Verbose bool // include the per-strategy attempt log
}

// Render writes the full validation report: summary header, per-request
// matches with diffs, warnings, conflicts, and (verbose) attempt logs.
func (p *Printer) Render(doc []string, result *patch.ValidationResult, name string) {
	p.renderHeader(result)

	for i, match := range result.Matches {
		p.renderMatch(doc, result, i, match, name)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(p.Out)
		for _, w := range result.Warnings {
			warnColor.Fprintf(p.Out, "warning: %s\n", w)
		}
	}

	for _, c := range result.Conflicts {
		p.renderConflict(c)
	}

	for _, s := range result.Suggestions {
		grayColor.Fprintf(p.Out, "suggestion: %s\n", s)
	}
}

func (p *Printer) renderHeader(result *patch.ValidationResult) {
	matched := 0
	for _, m := range result.Matches {
		if m != nil {
			matched++
		}
	}

	var header string
	if result.Valid {
		header = validHeaderStyle.Render("VALID")
	} else {
		header = invalidHeaderStyle.Render("INVALID")
	}
	counts := countStyle.Render(fmt.Sprintf("%d/%d matched, %d conflicts, %d warnings",
		matched, len(result.Edits), len(result.Conflicts), len(result.Warnings)))
	fmt.Fprintf(p.Out, "%s  %s\n\n", header, counts)
}

func (p *Printer) renderMatch(doc []string, result *patch.ValidationResult, i int, match *patch.MatchResult, name string) {
	if match == nil {
		errorColor.Fprintf(p.Out, "request %d: no match\n", i)
		p.renderAttempts(result.Attempts[i])
		return
	}

	fmt.Fprintf(p.Out, "request %d: lines %d-%d  %s (confidence %.2f)\n",
		i, match.StartLine, match.EndLine, match.Strategy, match.Confidence)

	diff, err := patch.MatchDiff(doc, result.Edits[i], match, name)
	if err == nil && diff != "" {
		p.renderDiff(diff)
	}

	p.renderAttempts(result.Attempts[i])
}

// renderAttempts prints the per-strategy fallback log when verbose.
func (p *Printer) renderAttempts(attempts []patch.Attempt) {
	if !p.Verbose {
		return
	}
	for _, a := range attempts {
		line := fmt.Sprintf("  [L%d] %-28s %-8s %s", a.Level, a.Strategy, a.Outcome, a.Duration)
		if a.Error != "" {
			line += "  " + a.Error
		}
		grayColor.Fprintln(p.Out, line)
	}
}

func (p *Printer) renderConflict(c patch.Conflict) {
	fmt.Fprintln(p.Out)
	errorColor.Fprintf(p.Out, "conflict [%s]: %s\n", c.Kind, c.Description)
	if c.Suggestion != "" {
		grayColor.Fprintf(p.Out, "  %s\n", c.Suggestion)
	}
	if c.Diagnostic != nil {
		grayColor.Fprintln(p.Out, "  expected:")
		p.renderIndented(c.Diagnostic.Expected)
		grayColor.Fprintln(p.Out, "  found near hint:")
		p.renderIndented(c.Diagnostic.Actual)
		if cand := c.Diagnostic.BestCandidate; cand != nil {
			grayColor.Fprintf(p.Out, "  closest candidate: lines %d-%d (confidence %.2f)\n",
				cand.StartLine, cand.EndLine, cand.Confidence)
		}
	}
}

func (p *Printer) renderIndented(text string) {
	for _, line := range strings.Split(text, "\n") {
		grayColor.Fprintf(p.Out, "    %s\n", line)
	}
}

// renderDiff colors unified diff lines: additions green, removals red,
// hunk headers gray.
func (p *Printer) renderDiff(diff string) {
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			grayColor.Fprintln(p.Out, "  "+line)
		case strings.HasPrefix(line, "+"):
			okColor.Fprintln(p.Out, "  "+line)
		case strings.HasPrefix(line, "-"):
			errorColor.Fprintln(p.Out, "  "+line)
		default:
			fmt.Fprintln(p.Out, "  "+line)
		}
	}
}
