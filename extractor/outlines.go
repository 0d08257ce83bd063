package extractor

import (
	"github.com/s4cindia/pdfa11y/ir/raw"
	"github.com/s4cindia/pdfa11y/structure"
)

// maxOutlineDepth bounds the sibling/child walk against malformed Next
// chains that loop back on themselves.
const maxOutlineDepth = 64

// Outline walks the document outline tree and returns it as bookmark
// nodes. Destinations resolve to 1-based page numbers; unresolvable
// destinations yield page 0.
func (e *Extractor) Outline() []structure.OutlineNode {
	outlines := raw.DerefDict(e.resolver, raw.ValueFromDict(e.catalog, "Outlines"))
	if outlines == nil {
		return nil
	}
	seen := outlineGuard{
		refs:  make(map[raw.ObjectRef]struct{}),
		dicts: make(map[*raw.DictObj]struct{}),
	}
	return e.outlineBranch(raw.ValueFromDict(outlines, "First"), seen, 0)
}

// outlineGuard tracks visited outline items. Reference identity is checked
// before dereferencing: a looping Next chain behind indirect references
// would otherwise revisit forever when the resolver materializes a fresh
// dictionary per call, and the depth bound does not cover siblings.
type outlineGuard struct {
	refs  map[raw.ObjectRef]struct{}
	dicts map[*raw.DictObj]struct{}
}

func (g outlineGuard) mark(obj raw.Object) bool {
	ref, ok := obj.(raw.Reference)
	if !ok {
		return true
	}
	if _, dup := g.refs[ref.Ref()]; dup {
		return false
	}
	g.refs[ref.Ref()] = struct{}{}
	return true
}

func (e *Extractor) outlineBranch(obj raw.Object, seen outlineGuard, depth int) []structure.OutlineNode {
	if obj == nil || depth > maxOutlineDepth {
		return nil
	}
	var list []structure.OutlineNode
	current := obj
	for current != nil {
		if !seen.mark(current) {
			e.log.Warn("cycle in outline tree, truncating branch")
			break
		}
		dict := raw.DerefDict(e.resolver, current)
		if dict == nil {
			break
		}
		if _, dup := seen.dicts[dict]; dup {
			e.log.Warn("cycle in outline tree, truncating branch")
			break
		}
		seen.dicts[dict] = struct{}{}
		title, _ := raw.StringFromDict(dict, "Title")
		page := e.destinationPage(raw.ValueFromDict(dict, "Dest"))
		if page == 0 {
			page = e.actionPage(raw.ValueFromDict(dict, "A"))
		}
		node := structure.OutlineNode{Title: title, PageNumber: page}
		node.Children = e.outlineBranch(raw.ValueFromDict(dict, "First"), seen, depth+1)
		list = append(list, node)
		current = raw.ValueFromDict(dict, "Next")
	}
	return list
}

// destinationPage resolves an explicit destination (a page reference or a
// destination array whose first entry is one) to its page number.
func (e *Extractor) destinationPage(obj raw.Object) int {
	if obj == nil {
		return 0
	}
	switch v := obj.(type) {
	case raw.Reference:
		if n, ok := e.pageNum[v.Ref()]; ok {
			return n
		}
		// Not a known page; it may reference a destination array.
		if arr := raw.DerefArray(e.resolver, v); arr != nil && len(arr.Items) > 0 {
			return e.destinationPage(arr.Items[0])
		}
		return 0
	case *raw.ArrayObj:
		if len(v.Items) == 0 {
			return 0
		}
		return e.destinationPage(v.Items[0])
	}
	return 0
}

// actionPage resolves a GoTo action's destination page.
func (e *Extractor) actionPage(obj raw.Object) int {
	action := raw.DerefDict(e.resolver, obj)
	if action == nil {
		return 0
	}
	if typ, _ := raw.NameFromDict(action, "S"); typ != "GoTo" {
		return 0
	}
	return e.destinationPage(raw.ValueFromDict(action, "D"))
}
