package review

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/verdict-dev/verdict/internal/cache"
	"github.com/verdict-dev/verdict/internal/language"
	"github.com/verdict-dev/verdict/internal/providers"
)

// fakeClient scripts provider responses for tests.
type fakeClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	prompts   []providers.Request
	delay     time.Duration
	model     string
}

func (f *fakeClient) Analyze(ctx context.Context, req providers.Request) (providers.Response, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.prompts = append(f.prompts, req)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return providers.Response{}, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return providers.Response{}, f.err
	}
	idx := call - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return providers.Response{Content: f.responses[idx]}, nil
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Model() string {
	if f.model == "" {
		return "fake-model"
	}
	return f.model
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const cleanResponse = `{"feedback":[],"summary":"Looks good","score":9}`

func TestAnalyzeFile_EmptyContentSkipsProvider(t *testing.T) {
	client := &fakeClient{responses: []string{cleanResponse}}
	a := NewAnalyzer(client, nil, false)

	res, err := a.AnalyzeFile(context.Background(), SourceFile{Filename: "empty.py", Content: "   \n"}, nil)
	if err != nil {
		t.Fatalf("AnalyzeFile error: %v", err)
	}
	if client.callCount() != 0 {
		t.Errorf("empty content made %d provider calls, want 0", client.callCount())
	}
	if len(res.Feedback) != 0 {
		t.Errorf("feedback = %v, want none", res.Feedback)
	}
	if res.Score != MaxScore {
		t.Errorf("score = %d, want %d", res.Score, MaxScore)
	}
	if res.Failed {
		t.Error("empty file is not a failure")
	}
}

func TestAnalyzeFile_StampsFilenameOnItems(t *testing.T) {
	resp := `{"feedback":[{"category":"logic","severity":"medium","line":2,"message":"m","suggestion":"s","filename":"something_else.py"}],"summary":"ok","score":6}`
	a := NewAnalyzer(&fakeClient{responses: []string{resp}}, nil, false)

	res, err := a.AnalyzeFile(context.Background(), SourceFile{Filename: "a.py", Content: "x = 1", Language: language.Python}, nil)
	if err != nil {
		t.Fatalf("AnalyzeFile error: %v", err)
	}
	if len(res.Feedback) != 1 {
		t.Fatalf("got %d items", len(res.Feedback))
	}
	if res.Feedback[0].Filename != "a.py" {
		t.Errorf("filename = %q, items must carry the owning file's name", res.Feedback[0].Filename)
	}
	if res.Score != 6 {
		t.Errorf("score = %d", res.Score)
	}
}

func TestAnalyzeFile_RepairPassRecoversMalformedResponse(t *testing.T) {
	client := &fakeClient{responses: []string{"sorry, here you go:", cleanResponse}}
	a := NewAnalyzer(client, nil, false)

	res, err := a.AnalyzeFile(context.Background(), SourceFile{Filename: "a.py", Content: "x = 1"}, nil)
	if err != nil {
		t.Fatalf("AnalyzeFile error after repair: %v", err)
	}
	if client.callCount() != 2 {
		t.Errorf("calls = %d, want 2 (original + repair)", client.callCount())
	}
	if res.Score != 9 {
		t.Errorf("score = %d", res.Score)
	}
}

func TestAnalyzeFile_MalformedTwiceIsMalformedError(t *testing.T) {
	client := &fakeClient{responses: []string{"garbage", "still garbage"}}
	a := NewAnalyzer(client, nil, false)

	_, err := a.AnalyzeFile(context.Background(), SourceFile{Filename: "a.py", Content: "x = 1"}, nil)
	var aerr *AnalysisError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %v, want *AnalysisError", err)
	}
	if aerr.Kind != FailureMalformed {
		t.Errorf("kind = %q, want malformed", aerr.Kind)
	}
	if aerr.Filename != "a.py" {
		t.Errorf("filename = %q", aerr.Filename)
	}
}

func TestAnalyzeFile_UpstreamFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("API error (status 500)")}
	a := NewAnalyzer(client, nil, false)

	_, err := a.AnalyzeFile(context.Background(), SourceFile{Filename: "a.py", Content: "x = 1"}, nil)
	var aerr *AnalysisError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %v, want *AnalysisError", err)
	}
	if aerr.Kind != FailureUpstream {
		t.Errorf("kind = %q, want upstream", aerr.Kind)
	}
}

func TestAnalyzeFile_TimeoutKind(t *testing.T) {
	client := &fakeClient{delay: time.Second, responses: []string{cleanResponse}}
	a := NewAnalyzer(client, nil, false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := a.AnalyzeFile(ctx, SourceFile{Filename: "slow.py", Content: "x = 1"}, nil)
	var aerr *AnalysisError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %v, want *AnalysisError", err)
	}
	if aerr.Kind != FailureTimeout {
		t.Errorf("kind = %q, want timeout", aerr.Kind)
	}
}

func TestAnalyzeFile_RedactsSecretsFromPrompts(t *testing.T) {
	client := &fakeClient{responses: []string{cleanResponse}}
	a := NewAnalyzer(client, nil, true)

	file := SourceFile{Filename: "cfg.py", Content: `password = "hunter22hunter22"`, Language: language.Python}
	if _, err := a.AnalyzeFile(context.Background(), file, []SourceFile{file}); err != nil {
		t.Fatalf("AnalyzeFile error: %v", err)
	}
	prompt := client.prompts[0].UserPrompt
	if strings.Contains(prompt, "hunter22hunter22") {
		t.Error("secret leaked into provider prompt")
	}
	if !strings.Contains(prompt, "[REDACTED]") {
		t.Error("expected redaction placeholder in prompt")
	}
}

func TestAnalyzeFile_CacheSkipsSecondCall(t *testing.T) {
	c, err := cache.New(true, t.TempDir(), 60)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	client := &fakeClient{responses: []string{cleanResponse}}
	a := NewAnalyzer(client, c, false)

	file := SourceFile{Filename: "a.py", Content: "x = 1", Language: language.Python}
	first, err := a.AnalyzeFile(context.Background(), file, nil)
	if err != nil {
		t.Fatalf("first AnalyzeFile: %v", err)
	}
	second, err := a.AnalyzeFile(context.Background(), file, nil)
	if err != nil {
		t.Fatalf("second AnalyzeFile: %v", err)
	}
	if client.callCount() != 1 {
		t.Errorf("calls = %d, want 1 (second served from cache)", client.callCount())
	}
	if first.Score != second.Score || first.Summary != second.Summary {
		t.Error("cached result differs from original")
	}
}

func TestAnalyzeFile_CacheKeyedByModel(t *testing.T) {
	c, err := cache.New(true, t.TempDir(), 60)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	file := SourceFile{Filename: "a.py", Content: "x = 1", Language: language.Python}

	flash := &fakeClient{model: "flash", responses: []string{cleanResponse}}
	if _, err := NewAnalyzer(flash, c, false).AnalyzeFile(context.Background(), file, nil); err != nil {
		t.Fatalf("flash AnalyzeFile: %v", err)
	}

	// Same provider name and content, different model: must not be served
	// the flash entry.
	pro := &fakeClient{model: "pro", responses: []string{cleanResponse}}
	if _, err := NewAnalyzer(pro, c, false).AnalyzeFile(context.Background(), file, nil); err != nil {
		t.Fatalf("pro AnalyzeFile: %v", err)
	}
	if pro.callCount() != 1 {
		t.Errorf("pro calls = %d, want 1 (flash entry must not be reused)", pro.callCount())
	}
}

func TestAnalyzeSnippet_EmptyCodeIsValidationError(t *testing.T) {
	a := NewAnalyzer(&fakeClient{responses: []string{cleanResponse}}, nil, false)
	_, err := a.AnalyzeSnippet(context.Background(), "  ", language.Python)
	if !IsValidationError(err) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestAnalyzeSnippet_SecurityFinding(t *testing.T) {
	resp := `{"feedback":[{"category":"security","severity":"high","line":2,"message":"SQL injection risk from string-concatenated query","suggestion":"Use parameterized queries"}],"summary":"Dangerous query construction","overall_score":3}`
	a := NewAnalyzer(&fakeClient{responses: []string{resp}}, nil, false)

	code := "name = input()\nquery = \"SELECT * FROM users WHERE name = '\" + name + \"'\"\n"
	out, err := a.AnalyzeSnippet(context.Background(), code, language.Python)
	if err != nil {
		t.Fatalf("AnalyzeSnippet error: %v", err)
	}
	if len(out.Feedback) != 1 {
		t.Fatalf("got %d items", len(out.Feedback))
	}
	f := out.Feedback[0]
	if f.Category != CategorySecurity || f.Severity != SeverityHigh {
		t.Errorf("item = %+v, want high-severity security", f)
	}
	if !strings.Contains(strings.ToLower(f.Message), "injection") {
		t.Errorf("message should mention injection: %q", f.Message)
	}
	if out.OverallScore != 3 {
		t.Errorf("overall_score = %d", out.OverallScore)
	}
}

func TestDegradedResult(t *testing.T) {
	aerr := &AnalysisError{Kind: FailureTimeout, Filename: "slow.py", Err: context.DeadlineExceeded}
	res := DegradedResult("slow.py", aerr)
	if !res.Failed {
		t.Error("degraded result must be marked failed")
	}
	if len(res.Feedback) != 0 {
		t.Error("degraded result carries no feedback")
	}
	if !strings.Contains(res.Summary, "Unable to analyze slow.py") {
		t.Errorf("summary = %q", res.Summary)
	}
}
