package crossfile

import (
	"github.com/verdict-dev/verdict/internal/review"
)

// Pass is a single cross-file analysis over a batch. Passes may consult
// per-file results to avoid re-reporting an issue already raised at file
// scope.
type Pass func(files []review.SourceFile, results []review.FileResult) []review.FeedbackItem

// Passes returns the ordered list of all cross-file passes.
func Passes() []Pass {
	return []Pass{
		UnresolvedReferences,
		MissingErrorHandling,
		DuplicateBlocks,
	}
}

// Analyze runs every pass in fixed order and concatenates their findings.
// Batches of fewer than two files produce no cross-file issues. Analyze
// satisfies review.CrossAnalyzer.
func Analyze(files []review.SourceFile, results []review.FileResult) []review.FeedbackItem {
	if len(files) < 2 {
		return nil
	}
	var items []review.FeedbackItem
	for _, pass := range Passes() {
		items = append(items, pass(files, results)...)
	}
	return items
}

// crossItem builds a feedback item stamped with the multi-file sentinel.
func crossItem(cat review.Category, sev review.Severity, message, suggestion string) review.FeedbackItem {
	return review.FeedbackItem{
		Category:   cat,
		Severity:   sev,
		Line:       0,
		Message:    message,
		Suggestion: suggestion,
		Filename:   review.MultipleFiles,
	}
}

// mentionedInResults reports whether any per-file feedback already talks
// about the given term, so a pass can hold back a duplicate finding.
func mentionedInResults(results []review.FileResult, term string) bool {
	for _, fr := range results {
		for _, item := range fr.Feedback {
			if containsFold(item.Message, term) || containsFold(item.Suggestion, term) {
				return true
			}
		}
	}
	return false
}
