package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verdict-dev/verdict/internal/review"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	fileStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	highStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	mediumStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	failStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, result *review.ProjectResult, opts Options) error {
	if err := validate(result); err != nil {
		return err
	}
	ew := &errWriter{w: w}

	high, medium, low := severityCounts(result)

	ew.printf("%s\n", titleStyle.Render("Code Review — "+result.ProjectName))
	ew.println(strings.Repeat("─", 60))
	ew.printf("Score: %d/%d | Files: %d | Issues: %d", result.OverallScore, review.MaxScore, result.TotalFiles, result.TotalIssues)
	if result.TotalIssues > 0 {
		ew.printf(" (%d high, %d medium, %d low)", high, medium, low)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))
	ew.printf("\n%s\n", result.OverallSummary)

	if len(result.CrossFileIssues) > 0 {
		ew.printf("\n%s\n", fileStyle.Render("Cross-file issues"))
		for _, it := range sortedCopy(result.CrossFileIssues) {
			t.writeItem(ew, it)
		}
	}

	for _, fr := range result.Files {
		ew.printf("\n%s", fileStyle.Render(fr.Filename))
		if fr.Failed {
			ew.printf("\n  %s\n", failStyle.Render(fr.Summary))
			continue
		}
		ew.printf("  (%d/%d)\n", fr.Score, review.MaxScore)
		for _, line := range wrapText(fr.Summary, 70) {
			ew.printf("  %s\n", line)
		}
		for _, it := range sortedCopy(fr.Feedback) {
			t.writeItem(ew, it)
		}
	}

	return ew.err
}

func (t *TextWriter) writeItem(ew *errWriter, it review.FeedbackItem) {
	loc := ""
	if it.Line > 0 {
		loc = fmt.Sprintf(" line %d,", it.Line)
	}
	ew.printf("\n  %s%s %s\n", severityBadge(it.Severity), loc, it.Category)
	for _, line := range wrapText(it.Message, 70) {
		ew.printf("    %s\n", line)
	}
	if it.Suggestion != "" {
		ew.println("    Suggestion:")
		for _, line := range wrapText(it.Suggestion, 66) {
			ew.printf("      %s\n", line)
		}
	}
}

func severityBadge(s review.Severity) string {
	switch s {
	case review.SeverityHigh:
		return highStyle.Render("[HIGH]")
	case review.SeverityMedium:
		return mediumStyle.Render("[MEDIUM]")
	case review.SeverityLow:
		return lowStyle.Render("[LOW]")
	default:
		return "[?]"
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
