package domain

// Document represents a single corpus file loaded from a configured root.
// Documents are identified by their root-relative path and are re-read
// from disk per operation rather than cached.
type Document struct {
	// Path is the root-relative path, always forward-slash separated.
	// It is the unique key for the document within the corpus.
	Path string

	// AbsPath is the absolute filesystem location.
	AbsPath string

	// Content is the raw text content.
	Content string

	// Size is the content length in bytes.
	Size int64

	// Lines is the number of lines in the content.
	Lines int
}

// DocumentEmbedding is a persisted path/vector pair. The path is stored
// alongside the vector for round-trip verification of the artifact.
type DocumentEmbedding struct {
	// Path is the root-relative document path.
	Path string `json:"path"`

	// Embedding is the dense vector produced by the embedding model.
	// Dimensionality is fixed by the model.
	Embedding []float32 `json:"embedding"`
}

// DocumentListing pairs a document path with its generated one-line
// description, if one exists. Used by the list operation.
type DocumentListing struct {
	// Path is the root-relative document path.
	Path string

	// Description is the generated one-line summary, empty when the
	// metadata generator has not described this path.
	Description string
}
