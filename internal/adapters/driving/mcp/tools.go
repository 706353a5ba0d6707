package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driving"
)

// ExtractInput is the input schema for the extract_layout tool.
type ExtractInput struct {
	Path    string `json:"path" jsonschema:"path of the PDF or PyMuPDF JSON dump to extract"`
	Save    bool   `json:"save,omitempty" jsonschema:"store the layout so it can be read as a resource later"`
	Decoder string `json:"decoder,omitempty" jsonschema:"force a decoder by name (pdf or pymupdf)"`
}

// ExtractOutput is the output schema for the extract_layout tool.
type ExtractOutput struct {
	DocumentID string       `json:"document_id"`
	URI        string       `json:"uri"`
	Decoder    string       `json:"decoder"`
	Pages      []PageOutput `json:"pages"`
	Records    int          `json:"records"`
	Saved      bool         `json:"saved"`
}

// PageOutput is the reconstructed structure of one page.
type PageOutput struct {
	Page   int      `json:"page"`
	Title  *string  `json:"title"`
	Chunks []string `json:"chunks"`
}

// SpanInput is one run of text with a single font size.
type SpanInput struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size" jsonschema:"font size in points"`
}

// BlockInput is one positioned text block.
type BlockInput struct {
	BBox  []float64   `json:"bbox" jsonschema:"bounding box as [x0, y0, x1, y1] with y growing downward"`
	Spans []SpanInput `json:"spans"`
}

// PageInput is one decoded page.
type PageInput struct {
	Height float64      `json:"height" jsonschema:"page height in the units of the bounding boxes"`
	Blocks []BlockInput `json:"blocks" jsonschema:"text blocks in top-to-bottom reading order"`
}

// LayoutPagesInput is the input schema for the layout_pages tool.
type LayoutPagesInput struct {
	Pages []PageInput `json:"pages"`
}

// LayoutPagesOutput is the output schema for the layout_pages tool.
type LayoutPagesOutput struct {
	Pages []PageOutput `json:"pages"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_layout",
		Description: "Reconstruct the title and paragraphs of every page of a local file",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "layout_pages",
		Description: "Reconstruct titles and paragraphs from already decoded page blocks",
	}, s.handleLayoutPages)
}

// handleExtract handles the extract_layout tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	if input.Path == "" {
		return nil, ExtractOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	result, err := s.ports.Layout.ExtractFile(ctx, input.Path, driving.ExtractOptions{
		Save:    input.Save,
		Decoder: input.Decoder,
	})
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	return nil, ExtractOutput{
		DocumentID: result.Layout.ID,
		URI:        result.Layout.URI,
		Decoder:    result.Layout.Decoder,
		Pages:      toPageOutputs(result.Layout.Pages),
		Records:    len(result.Records),
		Saved:      result.Saved,
	}, nil
}

// handleLayoutPages handles the layout_pages tool invocation.
func (s *Server) handleLayoutPages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LayoutPagesInput,
) (*mcp.CallToolResult, LayoutPagesOutput, error) {
	pages, err := toDomainPages(input.Pages)
	if err != nil {
		return nil, LayoutPagesOutput{}, err
	}

	results, err := s.ports.Layout.ProcessPages(ctx, pages)
	if err != nil {
		return nil, LayoutPagesOutput{}, err
	}

	return nil, LayoutPagesOutput{Pages: toPageOutputs(results)}, nil
}

// toDomainPages numbers pages from 1 and converts bbox arrays.
func toDomainPages(in []PageInput) ([]domain.Page, error) {
	pages := make([]domain.Page, len(in))
	for i, p := range in {
		page := domain.Page{
			Number: i + 1,
			Height: p.Height,
			Blocks: make([]domain.Block, len(p.Blocks)),
		}
		for j, b := range p.Blocks {
			if len(b.BBox) != 4 {
				return nil, &domain.BlockError{
					Page:  page.Number,
					Block: j,
					Err:   fmt.Errorf("%w: bbox needs 4 values, got %d", domain.ErrInvalidInput, len(b.BBox)),
				}
			}
			spans := make([]domain.Span, len(b.Spans))
			for k, sp := range b.Spans {
				spans[k] = domain.Span{Text: sp.Text, FontSize: sp.FontSize}
			}
			page.Blocks[j] = domain.Block{
				BBox:  domain.BoundingBox{X0: b.BBox[0], Y0: b.BBox[1], X1: b.BBox[2], Y1: b.BBox[3]},
				Spans: spans,
			}
		}
		pages[i] = page
	}
	return pages, nil
}

func toPageOutputs(results []domain.PageResult) []PageOutput {
	out := make([]PageOutput, len(results))
	for i := range results {
		chunks := results[i].Chunks
		if chunks == nil {
			chunks = []string{}
		}
		out[i] = PageOutput{
			Page:   results[i].PageNumber,
			Title:  results[i].Title,
			Chunks: chunks,
		}
	}
	return out
}
