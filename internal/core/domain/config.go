package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultExtensions is the built-in extension allow-list, covering text,
// config and common source file types.
var DefaultExtensions = []string{
	".md", ".mdx", ".txt", ".rst", ".html",
	".json", ".yml", ".yaml", ".toml", ".cfg", ".ini",
	".go", ".py", ".js", ".ts", ".tsx", ".sh",
}

// Artifact file names, relative to the base directory.
const (
	DescriptionsFileName = "docs_metadata.json"
	EmbeddingsFileName   = "docs_embeddings.json"
	DocsDirName          = "docs"
)

// LibraryConfig describes where the corpus lives and which files belong
// to it. It is built and validated at the boundary; core components
// receive it as plain values.
type LibraryConfig struct {
	// BaseDir is the library root. Artifacts live directly under it
	// and documents under BaseDir/docs by default.
	BaseDir string

	// DocsDir is the document root. Defaults to BaseDir/docs.
	DocsDir string

	// AllowedFolders restricts enumeration to the named top-level
	// folders under DocsDir. Empty means all folders.
	AllowedFolders []string

	// AllowedExtensions is the extension allow-list, each entry
	// starting with a dot. Empty means DefaultExtensions.
	AllowedExtensions []string
}

// Validate checks the configuration and fills defaults in place.
func (c *LibraryConfig) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("%w: base directory is required", ErrInvalidInput)
	}
	if c.DocsDir == "" {
		c.DocsDir = filepath.Join(c.BaseDir, DocsDirName)
	}
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = DefaultExtensions
	}
	for _, ext := range c.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidInput, ext)
		}
	}
	for _, folder := range c.AllowedFolders {
		if folder == "" || strings.ContainsAny(folder, `/\`) {
			return fmt.Errorf("%w: folder %q must be a bare directory name", ErrInvalidInput, folder)
		}
	}
	return nil
}

// DescriptionsPath returns the descriptions artifact location.
func (c *LibraryConfig) DescriptionsPath() string {
	return filepath.Join(c.BaseDir, DescriptionsFileName)
}

// EmbeddingsPath returns the embeddings artifact location.
func (c *LibraryConfig) EmbeddingsPath() string {
	return filepath.Join(c.BaseDir, EmbeddingsFileName)
}

// ExtensionAllowed reports whether the file extension is in the allow-list.
func (c *LibraryConfig) ExtensionAllowed(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// FolderAllowed reports whether the top-level folder of a root-relative
// path is in the allow-list. Files directly under the root are allowed
// only when no allow-list is set.
func (c *LibraryConfig) FolderAllowed(relPath string) bool {
	if len(c.AllowedFolders) == 0 {
		return true
	}
	top, _, found := strings.Cut(filepath.ToSlash(relPath), "/")
	if !found {
		return false
	}
	for _, folder := range c.AllowedFolders {
		if top == folder {
			return true
		}
	}
	return false
}
