// Package layout reconstructs paragraph chunks and page titles from
// positioned text blocks.
//
// Each page runs through three stages:
//
//   - FilterBlocks drops header/footer blocks and noise
//   - GroupParagraphs merges adjacent blocks into chunks
//   - DetectTitle picks the largest-font chunk near the top of the page
//
// The stages are pure functions of their input and a domain.LayoutSettings
// value. Engine chains them per page and may process the pages of a
// document concurrently; results always come back in page order.
//
// Bounding boxes are trusted as supplied by the decoder (top-left origin,
// y growing downward). Set LayoutSettings.ValidateGeometry to reject
// inverted boxes with a domain.BlockError instead.
package layout
