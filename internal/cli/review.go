package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdict-dev/verdict/internal/cache"
	"github.com/verdict-dev/verdict/internal/config"
	"github.com/verdict-dev/verdict/internal/crossfile"
	"github.com/verdict-dev/verdict/internal/language"
	"github.com/verdict-dev/verdict/internal/providers"
	"github.com/verdict-dev/verdict/internal/report"
	"github.com/verdict-dev/verdict/internal/review"
	"github.com/verdict-dev/verdict/internal/source"
)

// Shared review flags
var (
	flagProject     string
	flagProvider    string
	flagModel       string
	flagFormat      string
	flagOut         string
	flagLang        string
	flagPaths       string
	flagExclude     string
	flagConcurrency int
	flagIncludeCode bool
	flagNoCross     bool
	flagNoRedact    bool
)

var reviewCmd = &cobra.Command{
	Use:   "review [path...]",
	Short: "Review source files or a snippet from stdin",
	Long: `Review one or more files or directories as a project. A single "-"
argument reads a code snippet from stdin instead; use --lang to name its
language.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runReview(args)
	},
}

func init() {
	reviewCmd.Flags().StringVar(&flagProject, "project", "", "Project name used in the report")
	reviewCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (gemini, anthropic, ollama)")
	reviewCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	reviewCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, pdf)")
	reviewCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	reviewCmd.Flags().StringVar(&flagLang, "lang", "", "Language for stdin snippets and unclassified files")
	reviewCmd.Flags().StringVar(&flagPaths, "paths", "", "Include file path globs (comma-separated)")
	reviewCmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	reviewCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Maximum simultaneous file analyses")
	reviewCmd.Flags().BoolVar(&flagIncludeCode, "include-code", false, "Embed reviewed source in the report")
	reviewCmd.Flags().BoolVar(&flagNoCross, "no-cross", false, "Skip cross-file analysis")
	reviewCmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagLang != "" {
		m["defaultLanguage"] = flagLang
	}
	if flagConcurrency > 0 {
		m["concurrency"] = fmt.Sprintf("%d", flagConcurrency)
	}
	return m
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// buildEngine assembles the provider, cache, analyzer, and engine from config.
func buildEngine(cfg config.Config) (*review.Engine, error) {
	client, err := providers.New(cfg.Provider, cfg.Model)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}
	analyzer := review.NewAnalyzer(client, c, cfg.Privacy.RedactSecrets)

	var cross review.CrossAnalyzer
	if !flagNoCross {
		cross = crossfile.Analyze
	}
	return review.NewEngine(analyzer, cross, cfg.Concurrency), nil
}

func runReview(args []string) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
	// Reject a bad format before any provider calls are made.
	if _, err := report.Get(cfg.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		if providers.IsAuthError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	var result *review.ProjectResult
	var sources []review.SourceFile
	if len(args) == 1 && args[0] == "-" {
		result, err = reviewStdin(ctx, engine, cfg)
	} else {
		result, sources, err = reviewPaths(ctx, engine, cfg, args)
	}
	if err != nil {
		if providers.IsAuthError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	opts := report.Options{IncludeCode: flagIncludeCode}
	if flagIncludeCode {
		opts.Sources = sources
	}
	if err := report.WriteReport(result, cfg.Format, flagOut, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
	}
}

// reviewPaths loads and reviews the batch, returning the loaded files too
// so --include-code can embed them in the report.
func reviewPaths(ctx context.Context, engine *review.Engine, cfg config.Config, paths []string) (*review.ProjectResult, []review.SourceFile, error) {
	lang, _ := language.Parse(cfg.DefaultLanguage)
	files, err := source.Load(paths, source.Options{
		Include:         splitComma(flagPaths),
		Exclude:         splitComma(flagExclude),
		MaxFileBytes:    int64(cfg.MaxFileBytes),
		DefaultLanguage: lang,
	})
	if err != nil {
		return nil, nil, err
	}
	result, err := engine.ReviewProject(ctx, flagProject, files)
	if err != nil {
		return nil, nil, err
	}
	return result, files, nil
}

// reviewStdin reviews a snippet from stdin and lifts the single result into
// a project shape so every report format applies.
func reviewStdin(ctx context.Context, engine *review.Engine, cfg config.Config) (*review.ProjectResult, error) {
	code, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	lang, ok := language.Parse(cfg.DefaultLanguage)
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", cfg.DefaultLanguage)
	}

	resp, err := engine.ReviewSnippet(ctx, string(code), lang)
	if err != nil {
		return nil, err
	}
	return snippetResult(flagProject, resp), nil
}

func snippetResult(projectName string, resp review.CodeReviewResponse) *review.ProjectResult {
	if projectName == "" {
		projectName = "Snippet"
	}
	feedback := make([]review.FeedbackItem, len(resp.Feedback))
	copy(feedback, resp.Feedback)
	for i := range feedback {
		feedback[i].Filename = "snippet"
	}
	fr := review.FileResult{
		Filename: "snippet",
		Feedback: feedback,
		Summary:  resp.Summary,
		Score:    resp.OverallScore,
	}
	result := review.Aggregate(projectName, []review.FileResult{fr}, nil)
	return &result
}
