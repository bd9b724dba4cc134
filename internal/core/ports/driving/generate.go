package driving

import "context"

// GenerateReport summarises a metadata generation run.
type GenerateReport struct {
	// Documents is the number of documents enumerated.
	Documents int

	// Embedded is the number of documents whose embedding was generated.
	Embedded int

	// Skipped lists paths whose embedding call failed after retries.
	// The run continues past individual failures.
	Skipped []string
}

// GeneratorService rebuilds the descriptions and embeddings artifacts
// for the whole corpus.
type GeneratorService interface {
	// Generate enumerates the corpus, derives a one-line description
	// and an embedding per document, and atomically replaces both
	// artifacts. Idempotent on an unchanged corpus.
	Generate(ctx context.Context) (*GenerateReport, error)
}
