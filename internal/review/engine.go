package review

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/verdict-dev/verdict/internal/language"
)

// defaultConcurrency caps simultaneous provider calls when the engine is
// constructed without an explicit limit.
const defaultConcurrency = 4

// Engine orchestrates a full project review: validate, fan out per-file
// analysis with bounded concurrency, join, run cross-file analysis, and
// aggregate.
type Engine struct {
	analyzer    *Analyzer
	cross       CrossAnalyzer
	concurrency int
}

// NewEngine creates an Engine. cross may be nil to skip cross-file analysis;
// concurrency <= 0 selects the default limit.
func NewEngine(analyzer *Analyzer, cross CrossAnalyzer, concurrency int) *Engine {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Engine{analyzer: analyzer, cross: cross, concurrency: concurrency}
}

// ReviewProject reviews a batch of files as one project.
//
// Validation failures surface before any provider call is made. Per-file
// analysis runs concurrently, capped at the configured limit; a file whose
// analysis fails is recorded as a degraded result rather than failing the
// batch. Cancellation of ctx fails the whole batch: no partial
// ProjectResult is ever returned.
func (e *Engine) ReviewProject(ctx context.Context, projectName string, files []SourceFile) (*ProjectResult, error) {
	if err := ValidateBatch(files); err != nil {
		return nil, err
	}
	if projectName == "" {
		projectName = "Unnamed Project"
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, file := range files {
		g.Go(func() error {
			res, aerr := e.analyzer.AnalyzeFile(gctx, file, files)
			if aerr != nil {
				// The batch dies on cancellation; anything else degrades
				// only this file.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				analysisErr, ok := aerr.(*AnalysisError)
				if !ok {
					return fmt.Errorf("analyzing %s: %w", file.Filename, aerr)
				}
				results[i] = DegradedResult(file.Filename, analysisErr)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("project review aborted: %w", err)
	}

	// Join point: cross-file analysis only starts once every per-file
	// result, degraded or not, is in place.
	var crossIssues []FeedbackItem
	if e.cross != nil {
		crossIssues = e.cross(files, results)
	}

	result := Aggregate(projectName, results, crossIssues)
	return &result, nil
}

// ReviewSnippet reviews a single code snippet without cross-file analysis.
func (e *Engine) ReviewSnippet(ctx context.Context, code string, lang language.Language) (CodeReviewResponse, error) {
	return e.analyzer.AnalyzeSnippet(ctx, code, lang)
}
