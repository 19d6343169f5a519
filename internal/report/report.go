package report

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/verdict-dev/verdict/internal/review"
)

// RenderError reports input that cannot be rendered: a missing result or
// one whose derived totals do not line up with its contents.
type RenderError struct {
	Reason string
}

func (e *RenderError) Error() string {
	return "cannot render report: " + e.Reason
}

// validate checks the result's structural invariants before any bytes are
// written, so a bad input never produces a partial document.
func validate(result *review.ProjectResult) error {
	if result == nil {
		return &RenderError{Reason: "result is nil"}
	}
	if result.TotalFiles != len(result.Files) {
		return &RenderError{Reason: fmt.Sprintf("total_files is %d but result has %d files", result.TotalFiles, len(result.Files))}
	}
	issues := len(result.CrossFileIssues)
	for _, fr := range result.Files {
		issues += len(fr.Feedback)
	}
	if result.TotalIssues != issues {
		return &RenderError{Reason: fmt.Sprintf("total_issues is %d but result carries %d items", result.TotalIssues, issues)}
	}
	return nil
}

// Options controls optional report content.
type Options struct {
	// IncludeCode embeds the reviewed source files in the document.
	// It has no effect when Sources is empty.
	IncludeCode bool
	// Sources are the files that were reviewed, keyed by filename against
	// the result's file entries.
	Sources []review.SourceFile
}

// Writer renders a project result in a specific format.
type Writer interface {
	Write(w io.Writer, result *review.ProjectResult, opts Options) error
}

// Formats lists the supported format strings in preference order.
func Formats() []string {
	return []string{"text", "json", "markdown", "pdf"}
}

// Get returns a writer for the specified format.
func Get(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	case "pdf":
		return &PDFWriter{}, nil
	default:
		return nil, &RenderError{Reason: fmt.Sprintf("unsupported format %q", format)}
	}
}

// ContentType returns the MIME type for a format's rendered output.
func ContentType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "markdown", "md":
		return "text/markdown; charset=utf-8"
	case "pdf":
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename returns a download filename for a rendered report.
func Filename(projectName, format string) string {
	ext := format
	switch format {
	case "markdown":
		ext = "md"
	case "text":
		ext = "txt"
	}
	return fmt.Sprintf("%s_review.%s", slug(projectName), ext)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func slug(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "project"
	}
	return s
}

// WriteReport renders the result to the specified output (file path or stdout).
func WriteReport(result *review.ProjectResult, format, outPath string, opts Options) error {
	writer, err := Get(format)
	if err != nil {
		return err
	}
	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, result, opts)
}

// severityCounts tallies issues across per-file feedback and cross-file
// issues, one bucket per severity.
func severityCounts(result *review.ProjectResult) (high, medium, low int) {
	count := func(items []review.FeedbackItem) {
		for _, it := range items {
			switch it.Severity {
			case review.SeverityHigh:
				high++
			case review.SeverityMedium:
				medium++
			case review.SeverityLow:
				low++
			}
		}
	}
	for _, fr := range result.Files {
		count(fr.Feedback)
	}
	count(result.CrossFileIssues)
	return high, medium, low
}

// bySeverity returns the items grouped by severity, high first, preserving
// the original order within each group.
func bySeverity(items []review.FeedbackItem) [][]review.FeedbackItem {
	groups := make([][]review.FeedbackItem, 0, 3)
	for _, sev := range []review.Severity{review.SeverityHigh, review.SeverityMedium, review.SeverityLow} {
		var g []review.FeedbackItem
		for _, it := range items {
			if it.Severity == sev {
				g = append(g, it)
			}
		}
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// sourceFor finds the submitted content for a file entry, if provided.
func sourceFor(opts Options, filename string) (review.SourceFile, bool) {
	for _, s := range opts.Sources {
		if s.Filename == filename {
			return s, true
		}
	}
	return review.SourceFile{}, false
}

// sortedCopy returns the feedback sorted by severity (high first) then line,
// without touching the input slice.
func sortedCopy(items []review.FeedbackItem) []review.FeedbackItem {
	out := make([]review.FeedbackItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := review.SeverityRank(out[i].Severity), review.SeverityRank(out[j].Severity)
		if ri != rj {
			return ri > rj
		}
		return out[i].Line < out[j].Line
	})
	return out
}
