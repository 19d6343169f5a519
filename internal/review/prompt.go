package review

import (
	"fmt"
	"strings"
)

const fileSystemPrompt = `You are a strict, expert code reviewer analyzing one file from a larger codebase. Produce structured feedback in JSON format.

Rules:
1. Focus on issues in this file: bugs, security risks, performance problems, and organization. Note integration concerns with the other files shown as context.
2. Be concise and actionable. Every item must include a concrete suggestion.
3. Reference 1-based line numbers in the submitted file; use 0 for file-level issues.
4. Rate severity as "low", "medium", or "high".
5. Categorize each item as one of: security, performance, logic, style, architecture.
6. Score the file from 0 (broken) to 10 (excellent).

Categories:
- security: vulnerabilities, injection risks, authentication issues
- performance: optimization opportunities, efficiency, resource usage
- logic: potential bugs, edge cases, error handling
- style: formatting, naming, maintainability
- architecture: structure, dependencies, contracts between components

You MUST respond with ONLY a JSON object. No markdown, no explanation, no preamble.

{
  "feedback": [
    {
      "category": "security|performance|logic|style|architecture",
      "severity": "high|medium|low",
      "line": 1,
      "message": "Brief description of the issue",
      "suggestion": "Specific actionable recommendation"
    }
  ],
  "summary": "File-specific assessment",
  "score": 7
}

If there are no issues, respond with an empty feedback array and a high score.`

const snippetSystemPrompt = `You are a strict, expert code reviewer. Analyze the submitted code and produce structured feedback in JSON format.

Rules:
1. Focus on bugs, security issues, performance problems, and correctness. Flag style only when it hurts readability.
2. Be concise and actionable. Every item must include a concrete suggestion.
3. Reference 1-based line numbers; use 0 for file-level issues.
4. Rate severity as "low", "medium", or "high".
5. Categorize each item as one of: security, performance, logic, style, architecture.

You MUST respond with ONLY a JSON object. No markdown, no explanation, no preamble.

{
  "feedback": [
    {
      "category": "security|performance|logic|style|architecture",
      "severity": "high|medium|low",
      "line": 1,
      "message": "Brief description of the issue",
      "suggestion": "Specific actionable recommendation"
    }
  ],
  "summary": "Overall assessment of the code",
  "overall_score": 7
}`

// contextLines is how many leading lines of each sibling file are shown as
// cross-file context in a per-file prompt.
const contextLines = 10

// FileSystemPrompt returns the system prompt for per-file analysis.
func FileSystemPrompt() string { return fileSystemPrompt }

// SnippetSystemPrompt returns the system prompt for single-snippet analysis.
func SnippetSystemPrompt() string { return snippetSystemPrompt }

// BuildFilePrompt constructs the user prompt for one file, with truncated
// context from its sibling files in the batch.
func BuildFilePrompt(file SourceFile, siblings []SourceFile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current file: %s\n", file.Filename)
	fmt.Fprintf(&b, "Language: %s\n\n", file.Language)
	fmt.Fprintf(&b, "File content:\n```%s\n%s\n```\n", file.Language, file.Content)

	if ctx := buildFileContext(file.Filename, siblings); ctx != "" {
		b.WriteString("\nContext from other files in the project:\n")
		b.WriteString(ctx)
	}

	return b.String()
}

// BuildSnippetPrompt constructs the user prompt for a standalone snippet.
func BuildSnippetPrompt(code string, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following %s code.\n\n", lang)
	fmt.Fprintf(&b, "```%s\n%s\n```\n", lang, code)
	return b.String()
}

// buildFileContext renders the first few lines of every sibling file, enough
// for the model to see imports and top-level declarations without blowing
// the token budget on large batches.
func buildFileContext(current string, siblings []SourceFile) string {
	var parts []string
	for _, f := range siblings {
		if f.Filename == current {
			continue
		}
		lines := strings.Split(f.Content, "\n")
		if len(lines) > contextLines {
			lines = lines[:contextLines]
		}
		parts = append(parts, fmt.Sprintf("File: %s\n%s", f.Filename, strings.Join(lines, "\n")))
	}
	return strings.Join(parts, "\n\n")
}
