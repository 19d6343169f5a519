// Package cache provides optional file-based caching of per-file analysis
// responses, keyed by a hash of provider, model, language, and file content.
//
// Caching is disabled by default: each review is a self-contained
// computation. It exists for iterating on large batches against paid
// providers, where unchanged files would otherwise be re-analyzed on every
// run. Entries expire by TTL and are stored as JSON files under the
// platform cache directory.
package cache
