package structure

import (
	"context"

	"github.com/s4cindia/pdfa11y/ir/raw"
)

// TextItem is one positioned run of text on a line.
type TextItem struct {
	Text string
	X    float64
	Y    float64
	W    float64
	Bold bool
}

// Line groups text items sharing a baseline. HeadingLevel is a precomputed
// classification supplied by the geometry provider (0 = not a heading).
type Line struct {
	Items        []TextItem
	BBox         Rect
	HeadingLevel int
}

// Text joins the line's items into a single string.
func (l Line) Text() string {
	out := ""
	for i, item := range l.Items {
		if i > 0 {
			out += " "
		}
		out += item.Text
	}
	return out
}

// Block groups adjacent lines. IsList marks blocks the provider classified
// as list content.
type Block struct {
	Lines  []Line
	BBox   Rect
	IsList bool
}

// PageGeometry is the raw text layout of one page.
type PageGeometry struct {
	PageNumber int
	Blocks     []Block
	PlainText  string
}

// LinkAnnotation is one link as reported by the annotation provider.
type LinkAnnotation struct {
	Rect     Rect
	URI      string
	Contents string
}

// OutlineNode is one bookmark with its children.
type OutlineNode struct {
	Title      string
	PageNumber int
	Children   []OutlineNode
}

// DocumentSource exposes the document root and its ordered pages.
// Failure here is the only fatal condition for an analysis.
type DocumentSource interface {
	// Catalog returns the document root dictionary.
	Catalog() (*raw.DictObj, error)
	// PageRefs returns the identities of all pages in document order.
	PageRefs() ([]raw.ObjectRef, error)
}

// GeometrySource extracts per-page text geometry. Called once per page,
// possibly concurrently across pages.
type GeometrySource interface {
	PageGeometry(ctx context.Context, page int) (PageGeometry, error)
}

// LinkSource extracts per-page link annotations. Called once per page,
// possibly concurrently across pages.
type LinkSource interface {
	PageLinks(ctx context.Context, page int) ([]LinkAnnotation, error)
}

// OutlineSource provides the bookmark tree, used verbatim.
type OutlineSource interface {
	Outline() []OutlineNode
}
