package review

import (
	"testing"
)

func TestParseAnalysis_ValidObject(t *testing.T) {
	input := `{
		"feedback": [
			{
				"category": "security",
				"severity": "high",
				"line": 12,
				"message": "SQL built by string concatenation",
				"suggestion": "Use parameterized queries"
			},
			{
				"category": "style",
				"severity": "low",
				"line": 3,
				"message": "Unused import",
				"suggestion": "Remove it"
			}
		],
		"summary": "Needs work",
		"score": 4
	}`

	raw, err := parseAnalysis(input)
	if err != nil {
		t.Fatalf("parseAnalysis error: %v", err)
	}
	if len(raw.Feedback) != 2 {
		t.Fatalf("got %d items, want 2", len(raw.Feedback))
	}
	if raw.Summary != "Needs work" {
		t.Errorf("summary = %q", raw.Summary)
	}
	if raw.score() != 4 {
		t.Errorf("score = %d, want 4", raw.score())
	}

	item := normalizeItem(raw.Feedback[0], "app.py")
	if item.Category != CategorySecurity {
		t.Errorf("category = %q", item.Category)
	}
	if item.Severity != SeverityHigh {
		t.Errorf("severity = %q", item.Severity)
	}
	if item.Line != 12 {
		t.Errorf("line = %d", item.Line)
	}
	if item.Filename != "app.py" {
		t.Errorf("filename = %q", item.Filename)
	}
}

func TestParseAnalysis_MarkdownFences(t *testing.T) {
	input := "Here is the analysis:\n```json\n{\"feedback\":[],\"summary\":\"Clean\",\"score\":9}\n```\nHope that helps!"
	raw, err := parseAnalysis(input)
	if err != nil {
		t.Fatalf("parseAnalysis with fences error: %v", err)
	}
	if raw.Summary != "Clean" || raw.score() != 9 {
		t.Errorf("raw = %+v", raw)
	}
}

func TestParseAnalysis_BareFences(t *testing.T) {
	input := "```\n{\"feedback\":[],\"summary\":\"ok\",\"score\":8}\n```"
	raw, err := parseAnalysis(input)
	if err != nil {
		t.Fatalf("parseAnalysis error: %v", err)
	}
	if raw.score() != 8 {
		t.Errorf("score = %d", raw.score())
	}
}

func TestParseAnalysis_ProseWrappedObject(t *testing.T) {
	input := `Sure! The result is {"feedback":[],"summary":"fine","score":7} as requested.`
	raw, err := parseAnalysis(input)
	if err != nil {
		t.Fatalf("parseAnalysis error: %v", err)
	}
	if raw.Summary != "fine" {
		t.Errorf("summary = %q", raw.Summary)
	}
}

func TestParseAnalysis_BareArray(t *testing.T) {
	input := `[{"category":"logic","severity":"medium","line":1,"message":"m","suggestion":"s"}]`
	raw, err := parseAnalysis(input)
	if err != nil {
		t.Fatalf("parseAnalysis error: %v", err)
	}
	if len(raw.Feedback) != 1 {
		t.Fatalf("got %d items, want 1", len(raw.Feedback))
	}
	if raw.Score != nil || raw.OverallScore != nil {
		t.Error("bare array carries no score")
	}
	// Missing score defaults to the midpoint.
	if raw.score() != 5 {
		t.Errorf("default score = %d, want 5", raw.score())
	}
}

func TestParseAnalysis_OverallScoreField(t *testing.T) {
	input := `{"feedback":[],"summary":"s","overall_score":6}`
	raw, err := parseAnalysis(input)
	if err != nil {
		t.Fatalf("parseAnalysis error: %v", err)
	}
	if raw.score() != 6 {
		t.Errorf("score = %d, want 6", raw.score())
	}
}

func TestParseAnalysis_NotJSON(t *testing.T) {
	if _, err := parseAnalysis("this is not json at all"); err == nil {
		t.Error("expected error for non-JSON response")
	}
	if _, err := parseAnalysis(""); err == nil {
		t.Error("expected error for empty response")
	}
}

func TestNormalizeItem_ClampsUntrustedValues(t *testing.T) {
	item := normalizeItem(rawFeedback{
		Category: "quantum",
		Severity: "catastrophic",
		Line:     -3,
	}, "x.py")
	if item.Category != CategoryStyle {
		t.Errorf("unknown category should clamp to style, got %q", item.Category)
	}
	if item.Severity != SeverityMedium {
		t.Errorf("unknown severity should clamp to medium, got %q", item.Severity)
	}
	if item.Line != 0 {
		t.Errorf("negative line should clamp to 0, got %d", item.Line)
	}
	if item.Message == "" {
		t.Error("empty message should get a placeholder")
	}
}

func TestClampScore(t *testing.T) {
	cases := []struct{ in, want int }{
		{-5, 0}, {0, 0}, {7, 7}, {10, 10}, {99, 10},
	}
	for _, tc := range cases {
		if got := ClampScore(tc.in); got != tc.want {
			t.Errorf("ClampScore(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
