package structure

import "github.com/s4cindia/pdfa11y/ir/raw"

// PageIndex maps a page's object identity to its 1-based sequence number.
// Built once per analysis and shared read-only by every pass that needs to
// attribute a tree node to a page; tag-tree nodes only carry a reference to
// their owning page, never a page number.
type PageIndex struct {
	byRef map[raw.ObjectRef]int
	count int
}

// NewPageIndex builds the index from pages in document order.
func NewPageIndex(pages []raw.ObjectRef) *PageIndex {
	idx := &PageIndex{byRef: make(map[raw.ObjectRef]int, len(pages)), count: len(pages)}
	for i, ref := range pages {
		if ref.IsZero() {
			continue
		}
		idx.byRef[ref] = i + 1
	}
	return idx
}

// PageNumber returns the 1-based page number for ref, or 0 if unknown.
func (idx *PageIndex) PageNumber(ref raw.ObjectRef) int {
	return idx.byRef[ref]
}

// Count returns the number of pages in the document.
func (idx *PageIndex) Count() int { return idx.count }

// Valid reports whether page is within [1, Count].
func (idx *PageIndex) Valid(page int) bool { return page >= 1 && page <= idx.count }
