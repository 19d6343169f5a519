package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/verdict-dev/verdict/internal/language"
	"github.com/verdict-dev/verdict/internal/review"
)

// MarkdownWriter outputs a shareable markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, result *review.ProjectResult, opts Options) error {
	if err := validate(result); err != nil {
		return err
	}
	high, medium, low := severityCounts(result)

	fmt.Fprintf(w, "# Code Review Report: %s\n\n", result.ProjectName)

	// Summary table
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Overall Score | %d/%d |\n", result.OverallScore, review.MaxScore)
	fmt.Fprintf(w, "| Files Reviewed | %d |\n", result.TotalFiles)
	fmt.Fprintf(w, "| Total Issues | %d |\n", result.TotalIssues)
	fmt.Fprintf(w, "| High | %d |\n", high)
	fmt.Fprintf(w, "| Medium | %d |\n", medium)
	fmt.Fprintf(w, "| Low | %d |\n\n", low)

	fmt.Fprintf(w, "%s\n\n", result.OverallSummary)

	if len(result.CrossFileIssues) > 0 {
		fmt.Fprintf(w, "## Cross-File Issues\n\n")
		for _, it := range sortedCopy(result.CrossFileIssues) {
			writeMarkdownItem(w, it, false)
		}
	}

	for _, fr := range result.Files {
		fmt.Fprintf(w, "## %s\n\n", fr.Filename)
		if fr.Failed {
			fmt.Fprintf(w, "> %s\n\n", fr.Summary)
			continue
		}
		fmt.Fprintf(w, "**Score:** %d/%d\n\n", fr.Score, review.MaxScore)
		fmt.Fprintf(w, "%s\n\n", fr.Summary)

		for _, group := range bySeverity(fr.Feedback) {
			label := strings.ToUpper(string(group[0].Severity))
			fmt.Fprintf(w, "### %s %s (%d)\n\n", mdSeverityIcon(group[0].Severity), label, len(group))
			for _, it := range group {
				writeMarkdownItem(w, it, true)
			}
		}

		if opts.IncludeCode {
			if src, ok := sourceFor(opts, fr.Filename); ok {
				fmt.Fprintf(w, "### Source\n\n")
				fmt.Fprintf(w, "```%s\n%s\n```\n\n", fenceTag(src.Language), strings.TrimRight(src.Content, "\n"))
			}
		}
	}

	return nil
}

func writeMarkdownItem(w io.Writer, it review.FeedbackItem, withLine bool) {
	if withLine && it.Line > 0 {
		fmt.Fprintf(w, "- **%s** (line %d): %s\n", it.Category, it.Line, it.Message)
	} else {
		fmt.Fprintf(w, "- **%s**: %s\n", it.Category, it.Message)
	}
	if it.Suggestion != "" {
		fmt.Fprintf(w, "  - Suggestion: %s\n", it.Suggestion)
	}
	fmt.Fprintln(w)
}

func mdSeverityIcon(s review.Severity) string {
	switch s {
	case review.SeverityHigh:
		return ":red_circle:"
	case review.SeverityMedium:
		return ":orange_circle:"
	case review.SeverityLow:
		return ":yellow_circle:"
	default:
		return ":white_circle:"
	}
}

// fenceTag keeps fenced code blocks labeled even when the language tag is
// not one markdown renderers know.
func fenceTag(lang language.Language) string {
	if lang == "" {
		return "text"
	}
	return string(lang)
}
