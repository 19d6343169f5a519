// Package cli wires together the Cobra command tree for the verdict binary.
//
// It defines the root command and all subcommands (review, serve, languages,
// config, cache, version), binds flags, reads configuration, invokes the
// review engine, and returns deterministic exit codes for CI gating.
package cli
