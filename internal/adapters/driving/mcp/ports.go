package mcp

import (
	"github.com/custodia-labs/pagelayout/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Layout extracts and manages document layouts.
	Layout driving.LayoutService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Layout == nil {
		return ErrMissingLayoutService
	}
	return nil
}
