// Package config loads and merges verdict configuration.
//
// The effective config is built in four layers, later layers winning:
// compiled defaults, the JSON config file in the platform config directory,
// VERDICT_* environment variables, and CLI flag overrides.
package config
