// Package mcp provides an MCP (Model Context Protocol) server adapter
// for the docs library. It exposes the document listing, grep and
// semantic search operations as tools for AI assistants.
package mcp

import "errors"

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")

// ErrMissingGrepService is returned when the grep service is not provided.
var ErrMissingGrepService = errors.New("mcp: grep service is required")
