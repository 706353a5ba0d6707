package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for pagelayout resources.
	uriScheme = "pagelayout://"

	mimeJSON = "application/json"
)

// documentInfo summarises a stored layout.
type documentInfo struct {
	ID        string    `json:"id"`
	URI       string    `json:"uri"`
	Decoder   string    `json:"decoder"`
	Pages     int       `json:"pages"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all stored document layouts",
		MIMEType:    mimeJSON,
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-layout",
		Description: "Page titles and paragraphs of a stored document",
		MIMEType:    mimeJSON,
	}, s.handleDocumentResource)
}

// handleDocumentsResource returns a summary of every stored layout.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	layouts, err := s.ports.Layout.List(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotImplemented) {
			return jsonResult(req.Params.URI, []documentInfo{})
		}
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]documentInfo, len(layouts))
	for i := range layouts {
		infos[i] = documentInfo{
			ID:        layouts[i].ID,
			URI:       layouts[i].URI,
			Decoder:   layouts[i].Decoder,
			Pages:     len(layouts[i].Pages),
			Chunks:    layouts[i].ChunkCount(),
			CreatedAt: layouts[i].CreatedAt,
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleDocumentResource returns the full layout of a stored document.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// pagelayout://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	layout, err := s.ports.Layout.Get(ctx, docID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return jsonResult(req.Params.URI, layout)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like pagelayout://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
