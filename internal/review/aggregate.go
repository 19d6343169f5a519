package review

import (
	"fmt"
	"math"
)

// Aggregate combines per-file results and cross-file issues into one
// project-level result. All totals and the overall score are derived here
// and nowhere else; calling Aggregate twice with identical inputs yields a
// structurally identical ProjectResult.
func Aggregate(projectName string, fileResults []FileResult, crossIssues []FeedbackItem) ProjectResult {
	if fileResults == nil {
		fileResults = []FileResult{}
	}
	if crossIssues == nil {
		crossIssues = []FeedbackItem{}
	}

	totalIssues := len(crossIssues)
	for _, fr := range fileResults {
		totalIssues += len(fr.Feedback)
	}

	score, succeeded := overallScore(fileResults)

	return ProjectResult{
		ProjectName:     projectName,
		Files:           fileResults,
		CrossFileIssues: crossIssues,
		OverallSummary:  overallSummary(fileResults, crossIssues, totalIssues, succeeded),
		OverallScore:    score,
		TotalFiles:      len(fileResults),
		TotalIssues:     totalIssues,
	}
}

// overallScore is the rounded mean of non-failed file scores, clamped to
// [0,10]. Degraded results are excluded; zero successes yields 0.
func overallScore(fileResults []FileResult) (score, succeeded int) {
	sum := 0
	for _, fr := range fileResults {
		if fr.Failed {
			continue
		}
		sum += fr.Score
		succeeded++
	}
	if succeeded == 0 {
		return 0, 0
	}
	mean := float64(sum) / float64(succeeded)
	return ClampScore(int(math.Round(mean))), succeeded
}

func overallSummary(fileResults []FileResult, crossIssues []FeedbackItem, totalIssues, succeeded int) string {
	if succeeded == 0 {
		return "No files could be analyzed; all per-file analyses failed."
	}

	all := make([]FeedbackItem, 0, totalIssues)
	for _, fr := range fileResults {
		all = append(all, fr.Feedback...)
	}
	all = append(all, crossIssues...)

	highCount := 0
	for _, item := range all {
		if item.Severity == SeverityHigh {
			highCount++
		}
	}

	if totalIssues == 0 {
		return "Excellent codebase! No significant issues found across all files."
	}
	if highCount > 0 {
		return fmt.Sprintf(
			"Codebase needs attention: %d total issues found, including %d high-severity. Dominant concern: %s.",
			totalIssues, highCount, DominantCategory(all),
		)
	}
	return fmt.Sprintf("Good codebase with room for improvement: %d minor to medium issues found.", totalIssues)
}

// DominantCategory returns the category with the most occurrences across
// the given items, breaking ties by the fixed CategoryPriority order.
func DominantCategory(items []FeedbackItem) Category {
	counts := make(map[Category]int)
	for _, item := range items {
		counts[item.Category]++
	}
	best := CategoryStyle
	bestCount := -1
	for _, cat := range CategoryPriority {
		if counts[cat] > bestCount {
			best = cat
			bestCount = counts[cat]
		}
	}
	return best
}
