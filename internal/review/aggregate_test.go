package review

import (
	"reflect"
	"strings"
	"testing"
)

func fileRes(name string, score int, items ...FeedbackItem) FileResult {
	return FileResult{Filename: name, Feedback: items, Summary: "s", Score: score}
}

func item(cat Category, sev Severity) FeedbackItem {
	return FeedbackItem{Category: cat, Severity: sev, Line: 1, Message: "m", Suggestion: "s"}
}

func TestAggregate_Totals(t *testing.T) {
	files := []FileResult{
		fileRes("a.py", 8, item(CategoryLogic, SeverityLow), item(CategoryStyle, SeverityLow)),
		fileRes("b.py", 6, item(CategorySecurity, SeverityMedium)),
	}
	cross := []FeedbackItem{
		{Category: CategoryArchitecture, Severity: SeverityMedium, Message: "m", Filename: MultipleFiles},
	}

	pr := Aggregate("proj", files, cross)

	if pr.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", pr.TotalFiles)
	}
	if pr.TotalIssues != 4 {
		t.Errorf("TotalIssues = %d, want 4 (3 per-file + 1 cross)", pr.TotalIssues)
	}
	if pr.OverallScore != 7 {
		t.Errorf("OverallScore = %d, want 7 (mean of 8 and 6)", pr.OverallScore)
	}
	if pr.ProjectName != "proj" {
		t.Errorf("ProjectName = %q", pr.ProjectName)
	}
}

func TestAggregate_PreservesOrder(t *testing.T) {
	files := []FileResult{
		fileRes("z.py", 5),
		fileRes("a.py", 5),
		fileRes("m.py", 5),
	}
	pr := Aggregate("p", files, nil)
	got := []string{pr.Files[0].Filename, pr.Files[1].Filename, pr.Files[2].Filename}
	want := []string{"z.py", "a.py", "m.py"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("submission order not preserved: %v", got)
	}
}

func TestAggregate_RoundsMean(t *testing.T) {
	// (7+8)/2 = 7.5 rounds to 8.
	pr := Aggregate("p", []FileResult{fileRes("a", 7), fileRes("b", 8)}, nil)
	if pr.OverallScore != 8 {
		t.Errorf("OverallScore = %d, want 8", pr.OverallScore)
	}
}

func TestAggregate_ExcludesDegradedScores(t *testing.T) {
	files := []FileResult{
		fileRes("good.py", 9),
		{Filename: "bad.py", Feedback: []FeedbackItem{}, Summary: "failed", Score: 0, Failed: true},
	}
	pr := Aggregate("p", files, nil)
	if pr.OverallScore != 9 {
		t.Errorf("OverallScore = %d, want 9 (degraded score excluded)", pr.OverallScore)
	}
	if pr.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, degraded files still count", pr.TotalFiles)
	}
}

func TestAggregate_AllFailed(t *testing.T) {
	files := []FileResult{
		{Filename: "a.py", Failed: true},
		{Filename: "b.py", Failed: true},
	}
	pr := Aggregate("p", files, nil)
	if pr.OverallScore != 0 {
		t.Errorf("OverallScore = %d, want 0 when no file succeeded", pr.OverallScore)
	}
	if !strings.Contains(pr.OverallSummary, "No files could be analyzed") {
		t.Errorf("summary = %q", pr.OverallSummary)
	}
}

func TestAggregate_CleanSummary(t *testing.T) {
	pr := Aggregate("p", []FileResult{fileRes("a.py", 10)}, nil)
	if !strings.Contains(pr.OverallSummary, "Excellent codebase") {
		t.Errorf("summary = %q", pr.OverallSummary)
	}
}

func TestAggregate_HighSeverityNamesDominantCategory(t *testing.T) {
	files := []FileResult{
		fileRes("a.py", 3,
			item(CategorySecurity, SeverityHigh),
			item(CategorySecurity, SeverityLow),
			item(CategoryStyle, SeverityLow),
		),
	}
	pr := Aggregate("p", files, nil)
	if !strings.Contains(pr.OverallSummary, "security") {
		t.Errorf("summary should name dominant category: %q", pr.OverallSummary)
	}
	if !strings.Contains(pr.OverallSummary, "needs attention") {
		t.Errorf("summary = %q", pr.OverallSummary)
	}
}

func TestAggregate_NoHighSeverityNeutralSummary(t *testing.T) {
	files := []FileResult{fileRes("a.py", 7, item(CategoryStyle, SeverityLow))}
	pr := Aggregate("p", files, nil)
	if !strings.Contains(pr.OverallSummary, "room for improvement") {
		t.Errorf("summary = %q", pr.OverallSummary)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	files := []FileResult{
		fileRes("a.py", 8, item(CategoryLogic, SeverityHigh)),
		fileRes("b.py", 4),
	}
	cross := []FeedbackItem{{Category: CategoryArchitecture, Severity: SeverityLow, Message: "m", Filename: MultipleFiles}}

	first := Aggregate("p", files, cross)
	second := Aggregate("p", files, cross)
	if !reflect.DeepEqual(first, second) {
		t.Error("Aggregate is not idempotent for identical inputs")
	}
}

func TestDominantCategory_TieBreaksByPriority(t *testing.T) {
	items := []FeedbackItem{
		item(CategoryStyle, SeverityLow),
		item(CategoryPerformance, SeverityLow),
	}
	if got := DominantCategory(items); got != CategoryPerformance {
		t.Errorf("DominantCategory = %q, want performance (priority beats style on tie)", got)
	}

	items = append(items, item(CategoryStyle, SeverityLow))
	if got := DominantCategory(items); got != CategoryStyle {
		t.Errorf("DominantCategory = %q, want style (count beats priority)", got)
	}
}
