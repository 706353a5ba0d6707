package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driving"
)

func newTestServer(t *testing.T, svc *mockLayoutService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Layout: svc}, "test")
	require.NoError(t, err)
	return server
}

func TestServer_handleExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("returns page structure", func(t *testing.T) {
		svc := &mockLayoutService{
			result: &driving.ExtractResult{
				Layout: &domain.DocumentLayout{
					ID:      "doc-1",
					URI:     "/docs/manual.pdf",
					Decoder: "pdf",
					Pages: []domain.PageResult{
						{PageNumber: 1, Title: strPtr("Engine Oil"), Chunks: []string{"Use approved oil."}},
						{PageNumber: 2},
					},
				},
				Records: make([]domain.Record, 1),
				Saved:   true,
			},
		}
		server := newTestServer(t, svc)

		_, output, err := server.handleExtract(ctx, nil, ExtractInput{Path: "/docs/manual.pdf", Save: true})

		require.NoError(t, err)
		assert.Equal(t, "/docs/manual.pdf", svc.gotPath)
		assert.True(t, svc.gotOpts.Save)
		assert.Equal(t, "doc-1", output.DocumentID)
		assert.Equal(t, "pdf", output.Decoder)
		assert.Equal(t, 1, output.Records)
		assert.True(t, output.Saved)
		require.Len(t, output.Pages, 2)
		assert.Equal(t, "Engine Oil", *output.Pages[0].Title)
		assert.Nil(t, output.Pages[1].Title)
		assert.Equal(t, []string{}, output.Pages[1].Chunks)
	})

	t.Run("requires path", func(t *testing.T) {
		server := newTestServer(t, &mockLayoutService{})

		_, _, err := server.handleExtract(ctx, nil, ExtractInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on extraction failure", func(t *testing.T) {
		server := newTestServer(t, &mockLayoutService{err: errors.New("decode failed")})

		_, _, err := server.handleExtract(ctx, nil, ExtractInput{Path: "x.pdf"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode failed")
	})
}

func TestServer_handleLayoutPages(t *testing.T) {
	ctx := context.Background()

	t.Run("converts pages and returns results", func(t *testing.T) {
		svc := &mockLayoutService{
			pages: []domain.PageResult{{PageNumber: 1, Chunks: []string{"Body"}}},
		}
		server := newTestServer(t, svc)

		input := LayoutPagesInput{Pages: []PageInput{{
			Height: 1000,
			Blocks: []BlockInput{{
				BBox:  []float64{10, 100, 200, 112},
				Spans: []SpanInput{{Text: "Body", FontSize: 12}},
			}},
		}}}
		_, output, err := server.handleLayoutPages(ctx, nil, input)

		require.NoError(t, err)
		require.Len(t, svc.gotPages, 1)
		page := svc.gotPages[0]
		assert.Equal(t, 1, page.Number)
		assert.Equal(t, 1000.0, page.Height)
		assert.Equal(t, domain.BoundingBox{X0: 10, Y0: 100, X1: 200, Y1: 112}, page.Blocks[0].BBox)
		assert.Equal(t, []domain.Span{{Text: "Body", FontSize: 12}}, page.Blocks[0].Spans)
		require.Len(t, output.Pages, 1)
		assert.Equal(t, []string{"Body"}, output.Pages[0].Chunks)
	})

	t.Run("rejects malformed bbox", func(t *testing.T) {
		svc := &mockLayoutService{}
		server := newTestServer(t, svc)

		input := LayoutPagesInput{Pages: []PageInput{
			{Height: 800},
			{Height: 800, Blocks: []BlockInput{
				{BBox: []float64{0, 0, 1, 1}},
				{BBox: []float64{0, 0, 1}},
			}},
		}}
		_, _, err := server.handleLayoutPages(ctx, nil, input)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		var blockErr *domain.BlockError
		require.ErrorAs(t, err, &blockErr)
		assert.Equal(t, 2, blockErr.Page)
		assert.Equal(t, 1, blockErr.Block)
		assert.Nil(t, svc.gotPages)
	})

	t.Run("returns engine errors", func(t *testing.T) {
		server := newTestServer(t, &mockLayoutService{err: domain.ErrInvalidGeometry})

		_, _, err := server.handleLayoutPages(ctx, nil, LayoutPagesInput{Pages: []PageInput{{Height: 100}}})

		assert.ErrorIs(t, err, domain.ErrInvalidGeometry)
	})
}
