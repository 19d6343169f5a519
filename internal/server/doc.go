// Package server exposes the review engine over HTTP.
//
// Endpoints mirror the CLI's capabilities: snippet review, whole-codebase
// review, multipart file upload, report generation, plus health and
// language discovery. All request and response bodies are JSON except
// /upload-files (multipart form) and /generate-report (format-dependent
// download).
package server
