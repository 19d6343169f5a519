// Package crossfile implements deterministic analysis passes over a full
// review batch, deriving issues that only emerge from relationships between
// files: unresolved imports between batch files, I/O call sites with no
// visible error handling, and code duplicated across files.
//
// Unlike per-file analysis, no external model is involved: given the same
// batch and per-file results, the passes always produce the same findings
// in the same order. Detection is regex-heuristic and biased toward
// omission — when symbol extraction is not reliable for a language, the
// pass stays silent for that language rather than guessing.
//
// Every emitted item carries the multiple_files sentinel filename, marking
// it as not attributable to a single file.
package crossfile
