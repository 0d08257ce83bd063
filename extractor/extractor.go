// Package extractor provides object-graph-backed implementations of the
// structure engine's document, link, and outline providers.
package extractor

import (
	"errors"
	"fmt"

	"github.com/s4cindia/pdfa11y/ir/raw"
	"github.com/s4cindia/pdfa11y/observability"
)

// maxPageTreeDepth bounds the page-tree walk against malformed documents
// with self-referential Kids entries.
const maxPageTreeDepth = 64

// Extractor exposes structured views over a resolved object graph. It
// implements structure.DocumentSource, structure.LinkSource, and
// structure.OutlineSource.
type Extractor struct {
	resolver raw.Resolver
	catalog  *raw.DictObj
	pageRefs []raw.ObjectRef
	pages    []*raw.DictObj
	pageNum  map[raw.ObjectRef]int
	log      observability.Logger
}

// New creates an extractor rooted at the given catalog dictionary.
func New(resolver raw.Resolver, catalog raw.Object, log observability.Logger) (*Extractor, error) {
	if log == nil {
		log = observability.NopLogger{}
	}
	dict := raw.DerefDict(resolver, catalog)
	if dict == nil {
		return nil, errors.New("extractor: catalog dictionary is required")
	}
	e := &Extractor{
		resolver: resolver,
		catalog:  dict,
		pageNum:  make(map[raw.ObjectRef]int),
		log:      log,
	}
	if err := e.collectPages(); err != nil {
		return nil, fmt.Errorf("extractor: collect pages: %w", err)
	}
	return e, nil
}

// Catalog returns the document root dictionary.
func (e *Extractor) Catalog() (*raw.DictObj, error) { return e.catalog, nil }

// PageRefs returns the identities of all pages in document order.
func (e *Extractor) PageRefs() ([]raw.ObjectRef, error) {
	out := make([]raw.ObjectRef, len(e.pageRefs))
	copy(out, e.pageRefs)
	return out, nil
}

// PageCount returns the number of pages found in the page tree.
func (e *Extractor) PageCount() int { return len(e.pages) }

func (e *Extractor) collectPages() error {
	pagesObj := raw.ValueFromDict(e.catalog, "Pages")
	if pagesObj == nil {
		return errors.New("catalog has no page tree")
	}
	seen := make(map[raw.ObjectRef]struct{})
	e.walkPageTree(pagesObj, seen, 0)
	return nil
}

func (e *Extractor) walkPageTree(obj raw.Object, seen map[raw.ObjectRef]struct{}, depth int) {
	if depth > maxPageTreeDepth {
		e.log.Warn("page tree exceeds depth bound, truncating")
		return
	}
	var ref raw.ObjectRef
	if r, ok := obj.(raw.Reference); ok {
		ref = r.Ref()
		if _, dup := seen[ref]; dup {
			e.log.Warn("cycle in page tree, skipping revisited node")
			return
		}
		seen[ref] = struct{}{}
	}
	dict := raw.DerefDict(e.resolver, obj)
	if dict == nil {
		e.log.Debug("skipping unresolvable page tree node")
		return
	}
	typ, _ := raw.NameFromDict(dict, "Type")
	kids := raw.DerefArray(e.resolver, raw.ValueFromDict(dict, "Kids"))
	if typ == "Page" || (typ == "" && kids == nil) {
		e.pageRefs = append(e.pageRefs, ref)
		e.pages = append(e.pages, dict)
		if !ref.IsZero() {
			e.pageNum[ref] = len(e.pages)
		}
		return
	}
	if kids == nil {
		return
	}
	for _, kid := range kids.Items {
		e.walkPageTree(kid, seen, depth+1)
	}
}

// pageDict returns the dictionary of the given 1-based page, or nil.
func (e *Extractor) pageDict(page int) *raw.DictObj {
	if page < 1 || page > len(e.pages) {
		return nil
	}
	return e.pages[page-1]
}
