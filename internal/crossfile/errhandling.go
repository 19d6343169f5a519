package crossfile

import (
	"regexp"
	"strings"

	"github.com/verdict-dev/verdict/internal/review"
)

// riskyCall matches call sites that commonly fail at runtime: database
// access, network requests, file IO. The pattern is deliberately narrow;
// a missed finding is cheaper than a wrong one.
var riskyCall = regexp.MustCompile(`(?i)\b(?:requests\.(?:get|post|put|delete)|urlopen|fetch|axios\.[a-z]+|http\.Get|http\.Post|cursor\.execute|session\.query|db\.(?:query|exec)|open)\s*\(`)

// handlingMarkers are tokens whose presence means the file already deals
// with failures in some form.
var handlingMarkers = []string{
	"try:",
	"except",
	"catch",
	"if err != nil",
	".catch(",
	"rescue",
}

// MissingErrorHandling flags batches where risky IO calls appear in files
// that show no error handling at all. At most one finding is emitted per
// batch; the individual files are named in the message.
func MissingErrorHandling(files []review.SourceFile, results []review.FileResult) []review.FeedbackItem {
	if mentionedInResults(results, "error handling") {
		return nil
	}
	var bare []string
	for _, f := range files {
		if !riskyCall.MatchString(f.Content) {
			continue
		}
		if hasHandling(f.Content) {
			continue
		}
		bare = append(bare, f.Filename)
	}
	if len(bare) == 0 {
		return nil
	}
	return []review.FeedbackItem{crossItem(
		review.CategoryLogic,
		review.SeverityMedium,
		"Files perform IO or network calls without any error handling: "+strings.Join(bare, ", "),
		"Wrap the failing operations in error handling appropriate to the language and surface failures to callers.",
	)}
}

func hasHandling(content string) bool {
	for _, marker := range handlingMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
