package review

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/verdict-dev/verdict/internal/providers"
)

// countingClient tracks concurrent in-flight calls.
type countingClient struct {
	inflight    atomic.Int32
	maxInflight atomic.Int32
	calls       atomic.Int32
	delay       time.Duration
	failFor     map[string]bool // filenames whose prompt should fail
	mu          sync.Mutex
}

func (c *countingClient) Analyze(ctx context.Context, req providers.Request) (providers.Response, error) {
	c.calls.Add(1)
	n := c.inflight.Add(1)
	defer c.inflight.Add(-1)
	for {
		max := c.maxInflight.Load()
		if n <= max || c.maxInflight.CompareAndSwap(max, n) {
			break
		}
	}

	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return providers.Response{}, ctx.Err()
		case <-time.After(c.delay):
		}
	}

	c.mu.Lock()
	for name := range c.failFor {
		if strings.Contains(req.UserPrompt, "Current file: "+name+"\n") {
			c.mu.Unlock()
			return providers.Response{}, errors.New("upstream exploded")
		}
	}
	c.mu.Unlock()

	return providers.Response{Content: cleanResponse}, nil
}

func (c *countingClient) Name() string { return "counting" }

func (c *countingClient) Model() string { return "counting-model" }

func batchOf(names ...string) []SourceFile {
	files := make([]SourceFile, len(names))
	for i, n := range names {
		files[i] = SourceFile{Filename: n, Content: "x = 1"}
	}
	return files
}

func TestReviewProject_ValidatesBeforeProviderCalls(t *testing.T) {
	client := &countingClient{}
	e := NewEngine(NewAnalyzer(client, nil, false), nil, 2)

	cases := [][]SourceFile{
		nil,
		batchOf("a.py", "a.py"),
		{{Filename: "", Content: "x"}},
	}
	for _, files := range cases {
		_, err := e.ReviewProject(context.Background(), "p", files)
		if !IsValidationError(err) {
			t.Errorf("files %v: error = %v, want ValidationError", files, err)
		}
	}
	if client.calls.Load() != 0 {
		t.Errorf("%d provider calls made before validation failure, want 0", client.calls.Load())
	}
}

func TestReviewProject_BoundedConcurrency(t *testing.T) {
	client := &countingClient{delay: 30 * time.Millisecond}
	e := NewEngine(NewAnalyzer(client, nil, false), nil, 2)

	_, err := e.ReviewProject(context.Background(), "p", batchOf("a.py", "b.py", "c.py", "d.py", "e.py", "f.py"))
	if err != nil {
		t.Fatalf("ReviewProject error: %v", err)
	}
	if got := client.maxInflight.Load(); got > 2 {
		t.Errorf("max in-flight provider calls = %d, want <= 2", got)
	}
}

func TestReviewProject_PreservesSubmissionOrder(t *testing.T) {
	client := &countingClient{delay: 5 * time.Millisecond}
	e := NewEngine(NewAnalyzer(client, nil, false), nil, 4)

	names := []string{"z.py", "a.py", "m.py", "b.py"}
	pr, err := e.ReviewProject(context.Background(), "p", batchOf(names...))
	if err != nil {
		t.Fatalf("ReviewProject error: %v", err)
	}
	for i, fr := range pr.Files {
		if fr.Filename != names[i] {
			t.Errorf("files[%d] = %q, want %q", i, fr.Filename, names[i])
		}
	}
}

func TestReviewProject_DegradedFileDoesNotAbortBatch(t *testing.T) {
	client := &countingClient{failFor: map[string]bool{"bad.py": true}}
	e := NewEngine(NewAnalyzer(client, nil, false), nil, 2)

	pr, err := e.ReviewProject(context.Background(), "p", batchOf("good.py", "bad.py"))
	if err != nil {
		t.Fatalf("ReviewProject error: %v", err)
	}
	if pr.TotalFiles != 2 {
		t.Fatalf("TotalFiles = %d", pr.TotalFiles)
	}
	var bad FileResult
	for _, fr := range pr.Files {
		if fr.Filename == "bad.py" {
			bad = fr
		}
	}
	if !bad.Failed {
		t.Error("bad.py should be a degraded result")
	}
	if pr.OverallScore != 9 {
		t.Errorf("OverallScore = %d, want 9 (only good.py counted)", pr.OverallScore)
	}
}

func TestReviewProject_CancellationFailsWholeBatch(t *testing.T) {
	client := &countingClient{delay: time.Second}
	e := NewEngine(NewAnalyzer(client, nil, false), nil, 2)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	pr, err := e.ReviewProject(ctx, "p", batchOf("a.py", "b.py", "c.py"))
	if err == nil {
		t.Fatal("expected error from cancelled batch")
	}
	if pr != nil {
		t.Error("cancelled batch must not return a partial ProjectResult")
	}
}

func TestReviewProject_CrossAnalyzerRunsAfterJoin(t *testing.T) {
	client := &countingClient{delay: 5 * time.Millisecond}

	var crossCalls atomic.Int32
	cross := func(files []SourceFile, results []FileResult) []FeedbackItem {
		crossCalls.Add(1)
		if len(results) != len(files) {
			t.Errorf("cross analyzer saw %d results for %d files", len(results), len(files))
		}
		for _, r := range results {
			if r.Filename == "" {
				t.Error("cross analyzer saw an unfilled result slot")
			}
		}
		return []FeedbackItem{{
			Category: CategoryArchitecture,
			Severity: SeverityLow,
			Message:  "m",
			Filename: MultipleFiles,
		}}
	}

	e := NewEngine(NewAnalyzer(client, nil, false), cross, 2)
	pr, err := e.ReviewProject(context.Background(), "p", batchOf("a.py", "b.py", "c.py"))
	if err != nil {
		t.Fatalf("ReviewProject error: %v", err)
	}
	if crossCalls.Load() != 1 {
		t.Errorf("cross analyzer ran %d times, want 1", crossCalls.Load())
	}
	if len(pr.CrossFileIssues) != 1 {
		t.Fatalf("CrossFileIssues = %d", len(pr.CrossFileIssues))
	}
	if pr.CrossFileIssues[0].Filename != MultipleFiles {
		t.Errorf("cross issue filename = %q, want sentinel", pr.CrossFileIssues[0].Filename)
	}
	if pr.TotalIssues != 1 {
		t.Errorf("TotalIssues = %d, want 1", pr.TotalIssues)
	}
}

func TestReviewProject_DefaultProjectName(t *testing.T) {
	e := NewEngine(NewAnalyzer(&countingClient{}, nil, false), nil, 1)
	pr, err := e.ReviewProject(context.Background(), "", batchOf("a.py"))
	if err != nil {
		t.Fatalf("ReviewProject error: %v", err)
	}
	if pr.ProjectName != "Unnamed Project" {
		t.Errorf("ProjectName = %q", pr.ProjectName)
	}
}
