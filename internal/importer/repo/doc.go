// Package repo imports documentation subtrees from GitHub repositories.
// It resolves the target branch through the GitHub API, performs a
// shallow blob-filtered sparse checkout with the system git, and copies
// the filtered subtree into the library output directory.
package repo
