// Package source loads batches of source files from disk for the CLI.
//
// Paths may be files or directories. Directories are walked recursively;
// include/exclude glob filters, a per-file size limit, and binary
// detection decide what makes it into the batch. Each loaded file is
// classified by extension.
package source
