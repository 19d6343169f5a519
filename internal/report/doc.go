// Package report renders a finished project review into a document.
//
// Four formats are supported:
//   - text     — human-readable terminal output (default)
//   - json     — full structured JSON result
//   - markdown — shareable report with summary table and per-file sections
//   - pdf      — printable document built from the same structure as markdown
//
// Use [Get] to obtain a [Writer] for a format string, then call
// [Writer.Write] with an [io.Writer], the [*review.ProjectResult], and
// [Options]. [WriteReport] is a convenience helper that handles destination
// selection. Rendering never mutates the result.
package report
