// Package review contains the core types and engine for multi-file AI code
// review.
//
// It defines the FeedbackItem, FileResult, and ProjectResult types, assembles
// per-file analysis prompts, parses and clamps untrusted JSON responses from
// LLM providers, and aggregates per-file and cross-file feedback into a
// single project-level result.
//
// The Engine fans out one provider call per file with bounded concurrency,
// recovers per-file failures into degraded results so one bad file never
// aborts a batch, joins on completion of every file, and only then runs the
// injected cross-file analyzer. Aggregate derives all totals and the overall
// score, so the ProjectResult invariants hold by construction.
package review
