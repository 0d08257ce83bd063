package structure

import (
	"testing"

	"github.com/s4cindia/pdfa11y/ir/raw"
)

func structElem(s string, extra map[string]raw.Object) *raw.DictObj {
	kv := map[string]raw.Object{
		"Type": raw.NameObj{Val: "StructElem"},
		"S":    raw.NameObj{Val: s},
	}
	for k, v := range extra {
		kv[k] = v
	}
	return &raw.DictObj{KV: kv}
}

func TestCollectHeadings_PageInheritance(t *testing.T) {
	pageRef := raw.ObjectRef{Num: 10}
	pages := NewPageIndex([]raw.ObjectRef{{Num: 9}, pageRef})

	h2 := structElem("H2", map[string]raw.Object{
		"ActualText": raw.Str("Details"),
	})
	sect := structElem("Sect", map[string]raw.Object{
		"Pg": raw.RefObj{R: pageRef},
		"K":  &raw.ArrayObj{Items: []raw.Object{h2}},
	})
	h1 := structElem("H1", map[string]raw.Object{
		"ActualText": raw.Str("Title"),
		"Pg":         raw.RefObj{R: raw.ObjectRef{Num: 9}},
	})
	root := &raw.DictObj{KV: map[string]raw.Object{
		"Type": raw.NameObj{Val: "StructTreeRoot"},
		"K":    &raw.ArrayObj{Items: []raw.Object{h1, sect}},
	}}

	walker := NewTreeWalker(raw.MapResolver{}, pages, nil)
	headings := walker.CollectHeadings(root)

	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(headings))
	}
	if headings[0].Level != 1 || headings[0].PageNumber != 1 || headings[0].Text != "Title" {
		t.Errorf("unexpected first heading: %+v", headings[0])
	}
	// H2 has no Pg of its own; it inherits the Sect's page.
	if headings[1].Level != 2 || headings[1].PageNumber != 2 {
		t.Errorf("expected inherited page 2 for H2, got %+v", headings[1])
	}
	for _, h := range headings {
		if !h.IsFromTags {
			t.Errorf("tag-derived heading must have IsFromTags=true: %+v", h)
		}
	}
}

func TestWalk_ResolvesIndirectKids(t *testing.T) {
	hRef := raw.ObjectRef{Num: 5}
	resolver := raw.MapResolver{
		hRef: structElem("H", map[string]raw.Object{"ActualText": raw.Str("Indirect")}),
	}
	root := &raw.DictObj{KV: map[string]raw.Object{
		"K": raw.RefObj{R: hRef},
	}}

	walker := NewTreeWalker(resolver, NewPageIndex(nil), nil)
	headings := walker.CollectHeadings(root)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading via indirect kid, got %d", len(headings))
	}
	if headings[0].Level != 1 {
		t.Errorf("bare H maps to level 1, got %d", headings[0].Level)
	}
}

func TestWalk_SkipsUnresolvableAndNonDict(t *testing.T) {
	root := &raw.DictObj{KV: map[string]raw.Object{
		"K": &raw.ArrayObj{Items: []raw.Object{
			raw.RefObj{R: raw.ObjectRef{Num: 99}}, // unresolvable
			raw.NumberObj{I: 3, IsInt: true},      // MCID leaf
			raw.Str("junk"),
			structElem("H1", nil),
		}},
	}}

	walker := NewTreeWalker(raw.MapResolver{}, NewPageIndex(nil), nil)
	headings := walker.CollectHeadings(root)
	if len(headings) != 1 {
		t.Fatalf("expected traversal to survive malformed kids, got %d headings", len(headings))
	}
}

func TestWalk_CycleGuard(t *testing.T) {
	a := structElem("Div", nil)
	b := structElem("H1", nil)
	a.KV["K"] = b
	b.KV["K"] = a // self-referential graph

	root := &raw.DictObj{KV: map[string]raw.Object{
		"K": a,
	}}
	walker := NewTreeWalker(raw.MapResolver{}, NewPageIndex(nil), nil)

	done := make(chan []HeadingInfo, 1)
	go func() { done <- walker.CollectHeadings(root) }()
	headings := <-done
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading from cyclic tree, got %d", len(headings))
	}
}

// freshDictResolver materializes a new dictionary on every Resolve call,
// the way a lazy file-backed resolver would. Pointer identity is useless
// against it; only reference identity can detect a revisited node.
func freshDictResolver(t *testing.T, build func(ref raw.ObjectRef) map[string]raw.Object) raw.Resolver {
	t.Helper()
	calls := 0
	return raw.ResolverFunc(func(ref raw.ObjectRef) (raw.Object, error) {
		calls++
		if calls > 100 {
			t.Fatalf("resolver called %d times; traversal is not terminating", calls)
		}
		return &raw.DictObj{KV: build(ref)}, nil
	})
}

func TestWalk_CycleGuardWithFreshDicts(t *testing.T) {
	// 1 0 R resolves to an H1 whose K points back at 1 0 R, and every
	// resolution returns a distinct dictionary value.
	selfRef := raw.ObjectRef{Num: 1}
	resolver := freshDictResolver(t, func(ref raw.ObjectRef) map[string]raw.Object {
		return map[string]raw.Object{
			"Type":       raw.NameObj{Val: "StructElem"},
			"S":          raw.NameObj{Val: "H1"},
			"ActualText": raw.Str("Looped"),
			"K":          raw.RefObj{R: selfRef},
		}
	})
	root := &raw.DictObj{KV: map[string]raw.Object{
		"K": raw.RefObj{R: selfRef},
	}}

	walker := NewTreeWalker(resolver, NewPageIndex(nil), nil)
	headings := walker.CollectHeadings(root)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading from self-referential graph, got %d", len(headings))
	}
}

func TestCollectFormFields_CycleGuardWithFreshDicts(t *testing.T) {
	// A field whose Kids entry points back at the field's own reference.
	selfRef := raw.ObjectRef{Num: 4}
	resolver := freshDictResolver(t, func(ref raw.ObjectRef) map[string]raw.Object {
		return map[string]raw.Object{
			"T":    raw.Str("loop"),
			"FT":   raw.NameObj{Val: "Tx"},
			"Kids": &raw.ArrayObj{Items: []raw.Object{raw.RefObj{R: selfRef}}},
		}
	})
	catalog := &raw.DictObj{KV: map[string]raw.Object{
		"AcroForm": &raw.DictObj{KV: map[string]raw.Object{
			"Fields": &raw.ArrayObj{Items: []raw.Object{raw.RefObj{R: selfRef}}},
		}},
	}}

	fields := CollectFormFields(resolver, catalog, NewPageIndex(nil), nil)
	if len(fields) != 1 {
		t.Fatalf("expected 1 field from self-referential graph, got %d", len(fields))
	}
	if fields[0].Type != FieldText {
		t.Errorf("unexpected field: %+v", fields[0])
	}
}

func TestWalk_RoleMap(t *testing.T) {
	root := &raw.DictObj{KV: map[string]raw.Object{
		"RoleMap": &raw.DictObj{KV: map[string]raw.Object{
			"Heading1": raw.NameObj{Val: "H1"},
		}},
		"K": structElem("Heading1", map[string]raw.Object{"ActualText": raw.Str("Mapped")}),
	}}
	walker := NewTreeWalker(raw.MapResolver{}, NewPageIndex(nil), nil)
	headings := walker.CollectHeadings(root)
	if len(headings) != 1 || headings[0].Level != 1 {
		t.Fatalf("expected role-mapped heading, got %+v", headings)
	}
}

func TestCollectTables_SummaryAndCaption(t *testing.T) {
	caption := structElem("Caption", map[string]raw.Object{"ActualText": raw.Str("Quarterly results")})
	table := structElem("Table", map[string]raw.Object{
		"A": &raw.DictObj{KV: map[string]raw.Object{
			"O":       raw.NameObj{Val: "Table"},
			"Summary": raw.Str("Revenue by quarter"),
		}},
		"K": &raw.ArrayObj{Items: []raw.Object{caption}},
	})
	root := &raw.DictObj{KV: map[string]raw.Object{"K": table}}

	walker := NewTreeWalker(raw.MapResolver{}, NewPageIndex(nil), nil)
	tables := walker.CollectTables(root)
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if tables[0].Summary != "Revenue by quarter" {
		t.Errorf("summary = %q", tables[0].Summary)
	}
	if tables[0].Caption != "Quarterly results" {
		t.Errorf("caption = %q", tables[0].Caption)
	}
}

func TestCollectFormFields(t *testing.T) {
	pageRef := raw.ObjectRef{Num: 3}
	pages := NewPageIndex([]raw.ObjectRef{pageRef})

	name := &raw.DictObj{KV: map[string]raw.Object{
		"T":  raw.Str("name"),
		"FT": raw.NameObj{Val: "Tx"},
		"TU": raw.Str("Full name"),
		"P":  raw.RefObj{R: pageRef},
	}}
	// Radio group: kids inherit the parent's FT.
	radioKid := &raw.DictObj{KV: map[string]raw.Object{
		"T": raw.Str("choice-a"),
	}}
	radio := &raw.DictObj{KV: map[string]raw.Object{
		"T":    raw.Str("plan"),
		"FT":   raw.NameObj{Val: "Btn"},
		"Kids": &raw.ArrayObj{Items: []raw.Object{radioKid}},
	}}
	sig := &raw.DictObj{KV: map[string]raw.Object{
		"T":  raw.Str("signature"),
		"FT": raw.NameObj{Val: "Sig"},
	}}
	catalog := &raw.DictObj{KV: map[string]raw.Object{
		"AcroForm": &raw.DictObj{KV: map[string]raw.Object{
			"Fields": &raw.ArrayObj{Items: []raw.Object{name, radio, sig}},
		}},
	}}

	fields := CollectFormFields(raw.MapResolver{}, catalog, pages, nil)
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d: %+v", len(fields), fields)
	}
	if fields[0].Type != FieldText || !fields[0].HasLabel || fields[0].PageNumber != 1 {
		t.Errorf("unexpected text field: %+v", fields[0])
	}
	if fields[1].Type != FieldButton || fields[1].HasLabel {
		t.Errorf("unexpected button field: %+v", fields[1])
	}
	if fields[2].Type != FieldButton {
		t.Errorf("kid should inherit parent FT, got %+v", fields[2])
	}
	if fields[3].Type != FieldSignature {
		t.Errorf("unexpected signature field: %+v", fields[3])
	}
}
