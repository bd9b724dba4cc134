package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document does not exist or
	// resolves outside the configured document root.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPattern indicates a search pattern failed to compile
	// as a regular expression. Reported to the caller, never fatal.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrEmbeddingUnavailable indicates the embedding service failed
	// after exhausting its retry budget. Callers must not substitute
	// zero vectors; the failure propagates.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrMetadataNotGenerated indicates semantic search was attempted
	// before the metadata generator has produced an embeddings artifact.
	// This is a user-actionable error: run "docs-mcp generate" first.
	ErrMetadataNotGenerated = errors.New("metadata not generated")

	// ErrPersistence indicates an artifact write failed. Fatal to the
	// generation run; the previous artifact is left untouched.
	ErrPersistence = errors.New("artifact persistence failed")

	// ErrImportTaskFailed indicates a single import task exhausted its
	// retries. Aggregated into the run summary, never aborts the run.
	ErrImportTaskFailed = errors.New("import task failed")
)
