package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawAnalysis is the JSON structure returned by the LLM for one file.
type rawAnalysis struct {
	Feedback []rawFeedback `json:"feedback"`
	Summary  string        `json:"summary"`
	Score    *int          `json:"score"`
	// Single-snippet prompts ask for overall_score instead of score.
	OverallScore *int `json:"overall_score"`
}

type rawFeedback struct {
	Category   string `json:"category"`
	Severity   string `json:"severity"`
	Line       int    `json:"line"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
	Filename   string `json:"filename"`
}

// parseAnalysis extracts and decodes the JSON payload from raw model output.
// Providers wrap responses in markdown fences or prose often enough that the
// payload has to be cut out before unmarshaling. A bare JSON array is
// accepted as a feedback-only response.
func parseAnalysis(content string) (rawAnalysis, error) {
	payload, err := extractJSON(content)
	if err != nil {
		return rawAnalysis{}, err
	}

	if strings.HasPrefix(payload, "[") {
		var items []rawFeedback
		if err := json.Unmarshal([]byte(payload), &items); err != nil {
			return rawAnalysis{}, fmt.Errorf("invalid JSON array: %w", err)
		}
		return rawAnalysis{Feedback: items}, nil
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return rawAnalysis{}, fmt.Errorf("invalid JSON object: %w", err)
	}
	return raw, nil
}

// extractJSON locates the JSON payload inside raw model output: fenced
// ```json blocks first, then the outermost brace or bracket span.
func extractJSON(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("empty response")
	}

	if idx := strings.Index(content, "```json"); idx >= 0 {
		rest := content[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end]), nil
		}
		return strings.TrimSpace(rest), nil
	}
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) >= 2 {
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			return strings.TrimSpace(strings.Join(lines[1:end], "\n")), nil
		}
	}
	if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
		return content, nil
	}

	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(content, pair[0])
		end := strings.LastIndex(content, pair[1])
		if start >= 0 && end > start {
			return content[start : end+1], nil
		}
	}
	return "", fmt.Errorf("no JSON payload found in response")
}

// normalizeItem converts an untrusted raw item into a FeedbackItem, clamping
// out-of-range values rather than dropping or propagating them: unknown
// categories become style, unknown severities become medium, negative lines
// become file-level.
func normalizeItem(r rawFeedback, filename string) FeedbackItem {
	item := FeedbackItem{
		Category:   Category(strings.ToLower(strings.TrimSpace(r.Category))),
		Severity:   Severity(strings.ToLower(strings.TrimSpace(r.Severity))),
		Line:       r.Line,
		Message:    strings.TrimSpace(r.Message),
		Suggestion: strings.TrimSpace(r.Suggestion),
		Filename:   filename,
	}
	if !ValidCategory(item.Category) {
		item.Category = CategoryStyle
	}
	if SeverityRank(item.Severity) == 0 {
		item.Severity = SeverityMedium
	}
	if item.Line < 0 {
		item.Line = 0
	}
	if item.Message == "" {
		item.Message = "Issue identified"
	}
	return item
}

// normalizeFeedback clamps every raw item, stamping the owning filename.
func normalizeFeedback(raw []rawFeedback, filename string) []FeedbackItem {
	items := make([]FeedbackItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, normalizeItem(r, filename))
	}
	return items
}

// ClampScore forces a score into the [0,10] range.
func ClampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxScore {
		return MaxScore
	}
	return n
}

// remarshal serializes a validated analysis back to canonical JSON, which
// is what the cache stores instead of the provider's raw text.
func (raw rawAnalysis) remarshal() (string, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("marshaling analysis: %w", err)
	}
	return string(data), nil
}

func (raw rawAnalysis) score() int {
	switch {
	case raw.Score != nil:
		return ClampScore(*raw.Score)
	case raw.OverallScore != nil:
		return ClampScore(*raw.OverallScore)
	default:
		return MaxScore / 2
	}
}
