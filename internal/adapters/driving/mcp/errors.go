// Package mcp provides an MCP (Model Context Protocol) server adapter for pagelayout.
// It lets AI assistants reconstruct page layouts and read stored documents.
package mcp

import "errors"

// ErrMissingLayoutService is returned when the layout service is not provided.
var ErrMissingLayoutService = errors.New("mcp: layout service is required")
