package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "pagelayout://documents/doc-456",
			expected: "doc-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "pagelayout://documents/doc-456/records",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("lists stored documents", func(t *testing.T) {
		svc := &mockLayoutService{layouts: []domain.DocumentLayout{{
			ID:        "doc-1",
			URI:       "/docs/manual.pdf",
			Decoder:   "pdf",
			Pages:     []domain.PageResult{{PageNumber: 1, Chunks: []string{"a", "b"}}},
			CreatedAt: created,
		}}}
		server := newTestServer(t, svc)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("pagelayout://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var infos []documentInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "doc-1", infos[0].ID)
		assert.Equal(t, 1, infos[0].Pages)
		assert.Equal(t, 2, infos[0].Chunks)
		assert.True(t, created.Equal(infos[0].CreatedAt))
	})

	t.Run("without a store returns empty list", func(t *testing.T) {
		server := newTestServer(t, &mockLayoutService{err: domain.ErrNotImplemented})

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("pagelayout://documents"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server := newTestServer(t, &mockLayoutService{err: errors.New("db locked")})

		_, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("pagelayout://documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "db locked")
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns layout JSON", func(t *testing.T) {
		svc := &mockLayoutService{layout: &domain.DocumentLayout{
			ID:    "doc-1",
			Pages: []domain.PageResult{{PageNumber: 1, Title: strPtr("Engine Oil"), Chunks: []string{"Body"}}},
		}}
		server := newTestServer(t, svc)

		result, err := server.handleDocumentResource(ctx, makeReadResourceRequest("pagelayout://documents/doc-1"))

		require.NoError(t, err)
		assert.Equal(t, "doc-1", svc.gotID)

		var layout domain.DocumentLayout
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &layout))
		require.Len(t, layout.Pages, 1)
		assert.Equal(t, "Engine Oil", layout.Pages[0].TitleText())
		assert.Equal(t, []string{"Body"}, layout.Pages[0].Chunks)
	})

	t.Run("unknown document is not found", func(t *testing.T) {
		server := newTestServer(t, &mockLayoutService{err: domain.ErrNotFound})

		_, err := server.handleDocumentResource(ctx, makeReadResourceRequest("pagelayout://documents/missing"))

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		svc := &mockLayoutService{}
		server := newTestServer(t, svc)

		_, err := server.handleDocumentResource(ctx, makeReadResourceRequest("pagelayout://documents/"))

		require.Error(t, err)
		assert.Empty(t, svc.gotID)
	})
}
