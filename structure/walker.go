package structure

import (
	"strings"

	"github.com/s4cindia/pdfa11y/ir/raw"
	"github.com/s4cindia/pdfa11y/observability"
)

// TreeElement is one structural element surfaced by the tag-tree walk,
// with its structure type and the page number inherited from the nearest
// ancestor carrying a page association (0 if none).
type TreeElement struct {
	S          string
	Dict       *raw.DictObj
	PageNumber int
}

// TreeWalker traverses a tagged structure tree depth-first, resolving
// indirect references through the configured resolver. Malformed input is
// tolerated: unresolvable references and non-dictionary kids are skipped,
// and a visited set guards against self-referential graphs.
type TreeWalker struct {
	resolver raw.Resolver
	pages    *PageIndex
	roleMap  map[string]string
	log      observability.Logger

	// Cycles are guarded on reference identity first: a resolver may
	// materialize a fresh dictionary per Resolve call, so pointer
	// identity alone cannot detect a revisited node. The pointer set
	// still catches direct-object cycles that never pass a reference.
	visitedRefs map[raw.ObjectRef]struct{}
	visited     map[*raw.DictObj]struct{}
	nodes       int
}

// NewTreeWalker creates a walker over one document's structure tree.
func NewTreeWalker(resolver raw.Resolver, pages *PageIndex, log observability.Logger) *TreeWalker {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &TreeWalker{
		resolver:    resolver,
		pages:       pages,
		log:         log,
		visitedRefs: make(map[raw.ObjectRef]struct{}),
		visited:     make(map[*raw.DictObj]struct{}),
	}
}

// NodeCount returns the number of element dictionaries visited so far.
func (w *TreeWalker) NodeCount() int { return w.nodes }

// Walk traverses the tree below root, invoking visit for every structure
// element in depth-first order. root may be the StructTreeRoot dictionary
// or an indirect reference to it.
func (w *TreeWalker) Walk(root raw.Object, visit func(TreeElement)) {
	if !w.markRef(root) {
		return
	}
	dict := raw.DerefDict(w.resolver, root)
	if dict == nil {
		w.log.Debug("structure tree root is not a dictionary")
		return
	}
	if rm := raw.DerefDict(w.resolver, raw.ValueFromDict(dict, "RoleMap")); rm != nil {
		w.roleMap = make(map[string]string, len(rm.KV))
		for k, v := range rm.KV {
			if n, ok := raw.NameFromObject(v); ok {
				w.roleMap[k] = n
			}
		}
	}
	w.walkKids(raw.ValueFromDict(dict, "K"), 0, visit)
}

// markRef records the reference identity of obj, if it has one. It returns
// false when the reference was already seen, which means the graph loops.
func (w *TreeWalker) markRef(obj raw.Object) bool {
	ref, ok := obj.(raw.Reference)
	if !ok {
		return true
	}
	if _, seen := w.visitedRefs[ref.Ref()]; seen {
		w.log.Warn("cycle in structure tree, skipping revisited reference")
		return false
	}
	w.visitedRefs[ref.Ref()] = struct{}{}
	return true
}

func (w *TreeWalker) walkKids(kObj raw.Object, currentPage int, visit func(TreeElement)) {
	if kObj == nil {
		return
	}
	if !w.markRef(kObj) {
		return
	}
	// K may be a single element, an array of kids, or an indirect
	// reference to either. MCID integers are content leaves, not elements.
	switch v := raw.Deref(w.resolver, kObj).(type) {
	case *raw.ArrayObj:
		for _, item := range v.Items {
			w.walkKids(item, currentPage, visit)
		}
	case *raw.DictObj:
		w.walkElement(v, currentPage, visit)
	case nil:
		w.log.Debug("skipping unresolvable structure kid")
	default:
		// numbers (MCIDs), strings, and anything else carry no structure
	}
}

func (w *TreeWalker) walkElement(dict *raw.DictObj, currentPage int, visit func(TreeElement)) {
	if _, seen := w.visited[dict]; seen {
		w.log.Warn("cycle in structure tree, skipping revisited element")
		return
	}
	w.visited[dict] = struct{}{}
	w.nodes++

	if typ, _ := raw.NameFromDict(dict, "Type"); typ == "MCR" || typ == "OBJR" {
		return
	}

	page := currentPage
	if pgObj := raw.ValueFromDict(dict, "Pg"); pgObj != nil {
		if ref, ok := pgObj.(raw.Reference); ok {
			if n := w.pages.PageNumber(ref.Ref()); n != 0 {
				page = n
			}
		}
	}

	s := w.structureType(dict)
	if s != "" {
		visit(TreeElement{S: s, Dict: dict, PageNumber: page})
	}
	w.walkKids(raw.ValueFromDict(dict, "K"), page, visit)
}

// structureType resolves the element's S entry through the RoleMap.
func (w *TreeWalker) structureType(dict *raw.DictObj) string {
	s, _ := raw.NameFromDict(dict, "S")
	if mapped, ok := w.roleMap[s]; ok && mapped != "" {
		return mapped
	}
	return s
}

// headingLevels maps heading structure types to their outline level.
// A bare H counts as level 1.
var headingLevels = map[string]int{
	"H": 1, "H1": 1, "H2": 2, "H3": 3, "H4": 4, "H5": 5, "H6": 6,
}

// CollectHeadings walks the tree and returns every tagged heading in
// traversal order. Nesting validity is judged later by the aggregator.
func (w *TreeWalker) CollectHeadings(root raw.Object) []HeadingInfo {
	var headings []HeadingInfo
	w.Walk(root, func(el TreeElement) {
		level, ok := headingLevels[el.S]
		if !ok {
			return
		}
		headings = append(headings, HeadingInfo{
			Level:            level,
			Text:             elementText(w.resolver, el.Dict),
			PageNumber:       el.PageNumber,
			IsFromTags:       true,
			IsProperlyNested: true,
		})
	})
	return headings
}

// TaggedTable is a Table element surfaced by the tag-tree walk, to be
// reconciled against geometry-detected tables.
type TaggedTable struct {
	Dict       *raw.DictObj
	PageNumber int
	Summary    string
	Caption    string
}

// CollectTables walks the tree and returns every tagged table with its
// summary and caption attributes already resolved.
func (w *TreeWalker) CollectTables(root raw.Object) []TaggedTable {
	var tables []TaggedTable
	w.Walk(root, func(el TreeElement) {
		if el.S != "Table" {
			return
		}
		tables = append(tables, TaggedTable{
			Dict:       el.Dict,
			PageNumber: el.PageNumber,
			Summary:    tableSummary(w.resolver, el.Dict),
			Caption:    tableCaption(w.resolver, el.Dict),
		})
	})
	return tables
}

// elementText extracts the best available replacement text of an element:
// ActualText, then Alt, then the title entry.
func elementText(resolver raw.Resolver, dict *raw.DictObj) string {
	for _, key := range []string{"ActualText", "Alt", "T"} {
		if s, ok := raw.StringFromDict(dict, key); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// tableSummary reads a Summary from the table's attribute objects or from
// a direct Summary entry.
func tableSummary(resolver raw.Resolver, dict *raw.DictObj) string {
	if s, ok := raw.StringFromDict(dict, "Summary"); ok {
		return s
	}
	aObj := raw.ValueFromDict(dict, "A")
	if aObj == nil {
		return ""
	}
	if attr := raw.DerefDict(resolver, aObj); attr != nil {
		if s, ok := raw.StringFromDict(attr, "Summary"); ok {
			return s
		}
		return ""
	}
	if arr := raw.DerefArray(resolver, aObj); arr != nil {
		for _, item := range arr.Items {
			if attr := raw.DerefDict(resolver, item); attr != nil {
				if s, ok := raw.StringFromDict(attr, "Summary"); ok {
					return s
				}
			}
		}
	}
	return ""
}

// tableCaption returns the text of the table's first Caption kid.
func tableCaption(resolver raw.Resolver, dict *raw.DictObj) string {
	kids := kidDicts(resolver, raw.ValueFromDict(dict, "K"))
	for _, kid := range kids {
		if s, _ := raw.NameFromDict(kid, "S"); s == "Caption" {
			return elementText(resolver, kid)
		}
	}
	return ""
}

// kidDicts resolves a K entry into its dictionary children (one level).
func kidDicts(resolver raw.Resolver, kObj raw.Object) []*raw.DictObj {
	var out []*raw.DictObj
	switch v := raw.Deref(resolver, kObj).(type) {
	case *raw.ArrayObj:
		for _, item := range v.Items {
			if d := raw.DerefDict(resolver, item); d != nil {
				out = append(out, d)
			}
		}
	case *raw.DictObj:
		out = append(out, v)
	}
	return out
}

// CollectFormFields walks the catalog's AcroForm field dictionaries and
// classifies each terminal field. HasLabel reflects the presence of a
// tooltip (TU) string, the text assistive technology reads for the field.
func CollectFormFields(resolver raw.Resolver, catalog *raw.DictObj, pages *PageIndex, log observability.Logger) []FormFieldInfo {
	if log == nil {
		log = observability.NopLogger{}
	}
	acroForm := raw.DerefDict(resolver, raw.ValueFromDict(catalog, "AcroForm"))
	if acroForm == nil {
		return nil
	}
	fieldsArr := raw.DerefArray(resolver, raw.ValueFromDict(acroForm, "Fields"))
	if fieldsArr == nil {
		return nil
	}
	var fields []FormFieldInfo
	seen := fieldGuard{
		refs:  make(map[raw.ObjectRef]struct{}),
		dicts: make(map[*raw.DictObj]struct{}),
	}
	for _, item := range fieldsArr.Items {
		walkFormField(resolver, item, "", pages, seen, &fields, log)
	}
	return fields
}

// fieldGuard tracks visited field nodes by reference identity and, for
// direct objects, by pointer. Reference identity comes first for the same
// reason as in TreeWalker: resolvers may return fresh dictionaries.
type fieldGuard struct {
	refs  map[raw.ObjectRef]struct{}
	dicts map[*raw.DictObj]struct{}
}

func walkFormField(resolver raw.Resolver, obj raw.Object, inheritedFT string, pages *PageIndex, seen fieldGuard, out *[]FormFieldInfo, log observability.Logger) {
	if ref, ok := obj.(raw.Reference); ok {
		if _, dup := seen.refs[ref.Ref()]; dup {
			log.Warn("cycle in form field tree, skipping revisited reference")
			return
		}
		seen.refs[ref.Ref()] = struct{}{}
	}
	dict := raw.DerefDict(resolver, obj)
	if dict == nil {
		log.Debug("skipping unresolvable form field")
		return
	}
	if _, ok := seen.dicts[dict]; ok {
		return
	}
	seen.dicts[dict] = struct{}{}

	ft, _ := raw.NameFromDict(dict, "FT")
	if ft == "" {
		ft = inheritedFT
	}

	kids := raw.DerefArray(resolver, raw.ValueFromDict(dict, "Kids"))

	// A node with a partial name is a field; pure widget kids only carry
	// presentation data and are skipped.
	if name, ok := raw.StringFromDict(dict, "T"); ok {
		tooltip, _ := raw.StringFromDict(dict, "TU")
		page := 0
		if pgObj := raw.ValueFromDict(dict, "P"); pgObj != nil {
			if ref, ok := pgObj.(raw.Reference); ok {
				page = pages.PageNumber(ref.Ref())
			}
		}
		*out = append(*out, FormFieldInfo{
			Name:       name,
			Type:       classifyFieldType(ft),
			Tooltip:    tooltip,
			HasLabel:   strings.TrimSpace(tooltip) != "",
			PageNumber: page,
		})
	}

	if kids != nil {
		for _, kid := range kids.Items {
			walkFormField(resolver, kid, ft, pages, seen, out, log)
		}
	}
}

func classifyFieldType(ft string) string {
	switch ft {
	case "Tx":
		return FieldText
	case "Btn":
		return FieldButton
	case "Ch":
		return FieldChoice
	case "Sig":
		return FieldSignature
	default:
		return FieldUnknown
	}
}
