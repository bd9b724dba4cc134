package repo

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

// Ref identifies a repository subtree to import.
type Ref struct {
	// Owner is the repository owner or organisation.
	Owner string

	// Name is the repository name.
	Name string

	// Branch is the branch to check out. Empty means the default branch.
	Branch string

	// Subdir is the subtree to import, relative to the repository root.
	// Empty means the whole tree.
	Subdir string
}

// CloneURL returns the HTTPS clone URL for the repository.
func (r Ref) CloneURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", r.Owner, r.Name)
}

// String returns the canonical owner/name[@branch][:subdir] form.
func (r Ref) String() string {
	s := r.Owner + "/" + r.Name
	if r.Branch != "" {
		s += "@" + r.Branch
	}
	if r.Subdir != "" {
		s += ":" + r.Subdir
	}
	return s
}

// ParseRef parses a GitHub repository reference. Accepted forms:
//
//	owner/repo
//	https://github.com/owner/repo
//	https://github.com/owner/repo/tree/branch
//	https://github.com/owner/repo/tree/branch/sub/dir
//
// A trailing ".git" on the repository name is dropped.
func ParseRef(raw string) (*Ref, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty repository reference", domain.ErrInvalidInput)
	}

	path := trimmed
	if strings.Contains(trimmed, "://") {
		u, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if u.Host != "github.com" && u.Host != "www.github.com" {
			return nil, fmt.Errorf("%w: unsupported host %q", domain.ErrInvalidInput, u.Host)
		}
		path = strings.Trim(u.Path, "/")
	}

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: expected owner/repo in %q", domain.ErrInvalidInput, raw)
	}

	ref := &Ref{
		Owner: parts[0],
		Name:  strings.TrimSuffix(parts[1], ".git"),
	}

	rest := parts[2:]
	if len(rest) == 0 {
		return ref, nil
	}
	if rest[0] != "tree" || len(rest) < 2 {
		return nil, fmt.Errorf("%w: unrecognised repository path %q", domain.ErrInvalidInput, raw)
	}
	ref.Branch = rest[1]
	if len(rest) > 2 {
		ref.Subdir = strings.Join(rest[2:], "/")
	}
	return ref, nil
}
