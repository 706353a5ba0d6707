package layout

import "github.com/custodia-labs/pagelayout/internal/core/domain"

// IsHeaderFooter reports whether bbox lies in the header or footer band
// of a page of the given height.
func IsHeaderFooter(bbox domain.BoundingBox, pageHeight, headerFrac, footerFrac float64) bool {
	if bbox.Y0 < pageHeight*headerFrac {
		return true
	}
	return bbox.Y1 > pageHeight*(1-footerFrac)
}
