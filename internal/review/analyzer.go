package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verdict-dev/verdict/internal/cache"
	"github.com/verdict-dev/verdict/internal/language"
	"github.com/verdict-dev/verdict/internal/providers"
	"github.com/verdict-dev/verdict/internal/redact"
)

const analysisMaxTokens = 8192

// Analyzer wraps an LLM provider behind the per-file analysis contract:
// one outbound call per file, untrusted responses validated and clamped,
// failures reported as typed AnalysisErrors instead of crashing a batch.
type Analyzer struct {
	client        providers.Client
	cache         *cache.Cache
	redactSecrets bool
}

// NewAnalyzer creates an Analyzer. cache may be nil to disable caching.
func NewAnalyzer(client providers.Client, c *cache.Cache, redactSecrets bool) *Analyzer {
	return &Analyzer{client: client, cache: c, redactSecrets: redactSecrets}
}

// AnalyzeFile analyzes one file in the context of its batch siblings.
// Empty content is valid input: it yields a clean full-score result without
// spending a provider call. All other failures return an *AnalysisError.
func (a *Analyzer) AnalyzeFile(ctx context.Context, file SourceFile, siblings []SourceFile) (FileResult, error) {
	if strings.TrimSpace(file.Content) == "" {
		return emptyFileResult(file.Filename), nil
	}

	content := file.Content
	if a.redactSecrets {
		content = redact.Secrets(content)
	}
	redacted := file
	redacted.Content = content

	userPrompt := BuildFilePrompt(redacted, redactAll(siblings, a.redactSecrets))

	raw, err := a.analyze(ctx, FileSystemPrompt(), userPrompt, string(file.Language), content)
	if err != nil {
		return FileResult{}, a.classify(err, file.Filename)
	}

	summary := strings.TrimSpace(raw.Summary)
	if summary == "" {
		summary = fmt.Sprintf("Analysis for %s", file.Filename)
	}

	return FileResult{
		Filename: file.Filename,
		Feedback: normalizeFeedback(raw.Feedback, file.Filename),
		Summary:  summary,
		Score:    raw.score(),
	}, nil
}

// AnalyzeSnippet reviews a standalone piece of code: the per-file contract
// applied to a batch of one, without cross-file analysis.
func (a *Analyzer) AnalyzeSnippet(ctx context.Context, code string, lang language.Language) (CodeReviewResponse, error) {
	if strings.TrimSpace(code) == "" {
		return CodeReviewResponse{}, &ValidationError{Reason: "code cannot be empty"}
	}

	if a.redactSecrets {
		code = redact.Secrets(code)
	}

	raw, err := a.analyze(ctx, SnippetSystemPrompt(), BuildSnippetPrompt(code, string(lang)), string(lang), code)
	if err != nil {
		return CodeReviewResponse{}, a.classify(err, "")
	}

	summary := strings.TrimSpace(raw.Summary)
	if summary == "" {
		summary = "Code analysis completed"
	}

	return CodeReviewResponse{
		Feedback:     normalizeFeedback(raw.Feedback, ""),
		Summary:      summary,
		OverallScore: raw.score(),
	}, nil
}

// analyze performs the provider round trip with optional caching and a
// single repair pass for responses that fail JSON validation.
func (a *Analyzer) analyze(ctx context.Context, systemPrompt, userPrompt, lang, content string) (rawAnalysis, error) {
	var key string
	if a.cache != nil && a.cache.Enabled() {
		key = cache.BuildKey(a.client.Name(), a.client.Model(), lang, content)
		if cached, ok := a.cache.Get(key); ok {
			if raw, err := parseAnalysis(cached); err == nil {
				return raw, nil
			}
			// Unusable cache entry; fall through to a fresh call.
		}
	}

	resp, err := a.client.Analyze(ctx, providers.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    analysisMaxTokens,
	})
	if err != nil {
		return rawAnalysis{}, err
	}

	raw, parseErr := parseAnalysis(resp.Content)
	if parseErr != nil {
		// One repair pass: ask the model to fix its own malformed output.
		repairPrompt := fmt.Sprintf(
			"Your previous response was not valid JSON. The error was: %s\n\nPlease fix it and respond with ONLY the valid JSON object.\n\nYour previous response was:\n%s",
			parseErr.Error(), resp.Content,
		)
		resp2, err2 := a.client.Analyze(ctx, providers.Request{
			SystemPrompt: systemPrompt,
			UserPrompt:   repairPrompt,
			MaxTokens:    analysisMaxTokens,
		})
		if err2 != nil {
			return rawAnalysis{}, err2
		}
		raw, parseErr = parseAnalysis(resp2.Content)
		if parseErr != nil {
			return rawAnalysis{}, &malformedError{err: parseErr}
		}
	}

	if key != "" {
		data, err := raw.remarshal()
		if err == nil {
			_ = a.cache.Put(key, data)
		}
	}

	return raw, nil
}

// classify maps a low-level failure onto the per-file error taxonomy.
func (a *Analyzer) classify(err error, filename string) *AnalysisError {
	kind := FailureUpstream
	var malformed *malformedError
	switch {
	case errors.As(err, &malformed):
		kind = FailureMalformed
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = FailureTimeout
	}
	return &AnalysisError{Kind: kind, Filename: filename, Err: err}
}

// DegradedResult builds the FileResult recorded for a file whose analysis
// failed, so a single bad file never aborts the project review.
func DegradedResult(filename string, err *AnalysisError) FileResult {
	return FileResult{
		Filename: filename,
		Feedback: []FeedbackItem{},
		Summary:  fmt.Sprintf("Unable to analyze %s: analysis %s", filename, err.Kind),
		Score:    0,
		Failed:   true,
	}
}

func emptyFileResult(filename string) FileResult {
	return FileResult{
		Filename: filename,
		Feedback: []FeedbackItem{},
		Summary:  fmt.Sprintf("%s is empty; nothing to review", filename),
		Score:    MaxScore,
	}
}

type malformedError struct {
	err error
}

func (e *malformedError) Error() string { return "malformed response: " + e.err.Error() }
func (e *malformedError) Unwrap() error { return e.err }

func redactAll(files []SourceFile, enabled bool) []SourceFile {
	if !enabled {
		return files
	}
	out := make([]SourceFile, len(files))
	for i, f := range files {
		f.Content = redact.Secrets(f.Content)
		out[i] = f
	}
	return out
}
