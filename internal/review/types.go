package review

import "github.com/verdict-dev/verdict/internal/language"

// Severity represents the severity level of a feedback item.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category represents the type of feedback item.
type Category string

const (
	CategorySecurity     Category = "security"
	CategoryPerformance  Category = "performance"
	CategoryLogic        Category = "logic"
	CategoryStyle        Category = "style"
	CategoryArchitecture Category = "architecture"
)

// CategoryPriority orders categories for dominant-category tie-breaking.
// Lower index wins.
var CategoryPriority = []Category{
	CategorySecurity,
	CategoryPerformance,
	CategoryLogic,
	CategoryStyle,
	CategoryArchitecture,
}

// ValidCategory reports whether c is a known category tag.
func ValidCategory(c Category) bool {
	for _, known := range CategoryPriority {
		if c == known {
			return true
		}
	}
	return false
}

// MultipleFiles is the sentinel filename marking a feedback item that spans
// multiple files rather than being attributable to one.
const MultipleFiles = "multiple_files"

// MaxScore is the top of the 0-10 scoring scale.
const MaxScore = 10

// SourceFile is a single file submitted for review. Identity is the
// filename, which must be unique within a batch.
type SourceFile struct {
	Filename string            `json:"filename"`
	Content  string            `json:"content"`
	Language language.Language `json:"language"`
}

// FeedbackItem is one piece of structured feedback. Line numbers are
// 1-based into the submitted content; 0 means file-level.
type FeedbackItem struct {
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Line       int      `json:"line"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
	Filename   string   `json:"filename,omitempty"`
}

// FileResult is the outcome of analyzing one file. It is created once and
// never mutated; re-analysis produces a new FileResult.
//
// Failed marks a degraded result produced when analysis could not complete.
// Degraded results carry no feedback and are excluded from score averaging.
type FileResult struct {
	Filename string         `json:"filename"`
	Feedback []FeedbackItem `json:"feedback"`
	Summary  string         `json:"summary"`
	Score    int            `json:"score"`
	Failed   bool           `json:"failed,omitempty"`
}

// CodeReviewResponse is the single-snippet review result: the per-file
// contract applied to a batch of one, without cross-file analysis.
type CodeReviewResponse struct {
	Feedback     []FeedbackItem `json:"feedback"`
	Summary      string         `json:"summary"`
	OverallScore int            `json:"overall_score"`
}

// ProjectResult is the aggregate outcome of one review request. It is
// constructed exactly once per request, immutable thereafter, and is the
// sole input to report rendering.
type ProjectResult struct {
	ProjectName     string         `json:"project_name"`
	Files           []FileResult   `json:"files"`
	CrossFileIssues []FeedbackItem `json:"cross_file_issues"`
	OverallSummary  string         `json:"overall_summary"`
	OverallScore    int            `json:"overall_score"`
	TotalFiles      int            `json:"total_files"`
	TotalIssues     int            `json:"total_issues"`
}

// CrossAnalyzer derives feedback that only emerges from relationships
// between files. It runs once, after every per-file result is available.
type CrossAnalyzer func(files []SourceFile, results []FileResult) []FeedbackItem
