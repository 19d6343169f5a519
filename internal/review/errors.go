package review

import "fmt"

// ValidationError reports invalid input rejected before any provider call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + e.Reason
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// FailureKind classifies why a per-file analysis failed.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureUpstream  FailureKind = "upstream"
	FailureMalformed FailureKind = "malformed"
)

// AnalysisError is a per-file analysis failure. It is always contained to
// one file: the engine converts it into a degraded FileResult instead of
// failing the batch.
type AnalysisError struct {
	Kind     FailureKind
	Filename string
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyzing %s: %s: %v", e.Filename, e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// ValidateBatch rejects batches the engine must not spend provider calls on:
// zero files, empty filenames, and duplicate filenames.
func ValidateBatch(files []SourceFile) error {
	if len(files) == 0 {
		return &ValidationError{Reason: "at least one file must be provided"}
	}
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if f.Filename == "" {
			return &ValidationError{Reason: "file with empty filename"}
		}
		if seen[f.Filename] {
			return &ValidationError{Reason: fmt.Sprintf("duplicate filename %q", f.Filename)}
		}
		seen[f.Filename] = true
	}
	return nil
}
