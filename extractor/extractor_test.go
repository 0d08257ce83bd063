package extractor

import (
	"context"
	"testing"

	"github.com/s4cindia/pdfa11y/ir/raw"
)

// fixtureDoc builds a two-page document with a link on page 1 and a
// two-level outline, all behind indirect references.
func fixtureDoc() (raw.MapResolver, *raw.DictObj) {
	page1Ref := raw.ObjectRef{Num: 10}
	page2Ref := raw.ObjectRef{Num: 11}

	link := &raw.DictObj{KV: map[string]raw.Object{
		"Subtype":  raw.NameObj{Val: "Link"},
		"Rect":     raw.NewArray(raw.NumberInt(50), raw.NumberInt(690), raw.NumberInt(200), raw.NumberInt(705)),
		"Contents": raw.Str("Annual report"),
		"A": &raw.DictObj{KV: map[string]raw.Object{
			"S":   raw.NameObj{Val: "URI"},
			"URI": raw.Str("https://example.org/report"),
		}},
	}}
	squiggly := &raw.DictObj{KV: map[string]raw.Object{
		"Subtype": raw.NameObj{Val: "Squiggly"},
	}}
	page1 := &raw.DictObj{KV: map[string]raw.Object{
		"Type":   raw.NameObj{Val: "Page"},
		"Annots": raw.NewArray(link, squiggly),
	}}
	page2 := &raw.DictObj{KV: map[string]raw.Object{
		"Type": raw.NameObj{Val: "Page"},
	}}

	child := &raw.DictObj{KV: map[string]raw.Object{
		"Title": raw.Str("Scope"),
		"Dest":  raw.NewArray(raw.RefObj{R: page2Ref}, raw.NameObj{Val: "Fit"}),
	}}
	first := &raw.DictObj{KV: map[string]raw.Object{
		"Title": raw.Str("Introduction"),
		"A": &raw.DictObj{KV: map[string]raw.Object{
			"S": raw.NameObj{Val: "GoTo"},
			"D": raw.NewArray(raw.RefObj{R: page1Ref}, raw.NameObj{Val: "Fit"}),
		}},
		"First": child,
	}}
	outlines := &raw.DictObj{KV: map[string]raw.Object{
		"First": first,
	}}

	pages := &raw.DictObj{KV: map[string]raw.Object{
		"Type": raw.NameObj{Val: "Pages"},
		"Kids": raw.NewArray(raw.RefObj{R: page1Ref}, raw.RefObj{R: page2Ref}),
	}}
	catalog := &raw.DictObj{KV: map[string]raw.Object{
		"Pages":    pages,
		"Outlines": outlines,
	}}

	resolver := raw.MapResolver{
		page1Ref: page1,
		page2Ref: page2,
	}
	return resolver, catalog
}

func TestNew_CollectsPages(t *testing.T) {
	resolver, catalog := fixtureDoc()
	e, err := New(resolver, catalog, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.PageCount() != 2 {
		t.Fatalf("page count = %d, want 2", e.PageCount())
	}
	refs, err := e.PageRefs()
	if err != nil {
		t.Fatalf("PageRefs: %v", err)
	}
	if refs[0].Num != 10 || refs[1].Num != 11 {
		t.Errorf("page refs out of order: %v", refs)
	}
}

func TestNew_CyclicPageTree(t *testing.T) {
	pagesRef := raw.ObjectRef{Num: 2}
	pages := &raw.DictObj{KV: map[string]raw.Object{
		"Type": raw.NameObj{Val: "Pages"},
		"Kids": raw.NewArray(raw.RefObj{R: pagesRef}),
	}}
	catalog := &raw.DictObj{KV: map[string]raw.Object{
		"Pages": raw.RefObj{R: pagesRef},
	}}
	resolver := raw.MapResolver{pagesRef: pages}

	e, err := New(resolver, catalog, nil)
	if err != nil {
		t.Fatalf("New must tolerate a cyclic page tree: %v", err)
	}
	if e.PageCount() != 0 {
		t.Errorf("cyclic tree yielded %d pages", e.PageCount())
	}
}

func TestPageLinks(t *testing.T) {
	resolver, catalog := fixtureDoc()
	e, err := New(resolver, catalog, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	links, err := e.PageLinks(context.Background(), 1)
	if err != nil {
		t.Fatalf("PageLinks: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link annotation (non-link subtypes skipped), got %d", len(links))
	}
	l := links[0]
	if l.URI != "https://example.org/report" {
		t.Errorf("URI = %q", l.URI)
	}
	if l.Contents != "Annual report" {
		t.Errorf("Contents = %q", l.Contents)
	}
	if l.Rect[0] != 50 || l.Rect[3] != 705 {
		t.Errorf("Rect = %v", l.Rect)
	}

	empty, err := e.PageLinks(context.Background(), 2)
	if err != nil {
		t.Fatalf("PageLinks page 2: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("page 2 should have no links, got %d", len(empty))
	}

	if _, err := e.PageLinks(context.Background(), 3); err == nil {
		t.Error("out-of-range page must error")
	}
}

func TestOutline_CyclicNextChainWithFreshDicts(t *testing.T) {
	// The Next chain loops back on its own reference, and the resolver
	// materializes a distinct dictionary per call, so only reference
	// identity can stop the sibling walk.
	loopRef := raw.ObjectRef{Num: 5}
	calls := 0
	resolver := raw.ResolverFunc(func(ref raw.ObjectRef) (raw.Object, error) {
		calls++
		if calls > 100 {
			t.Fatalf("resolver called %d times; outline walk is not terminating", calls)
		}
		return &raw.DictObj{KV: map[string]raw.Object{
			"Title": raw.Str("Loop"),
			"Next":  raw.RefObj{R: loopRef},
		}}, nil
	})
	catalog := &raw.DictObj{KV: map[string]raw.Object{
		"Pages": &raw.DictObj{KV: map[string]raw.Object{
			"Type": raw.NameObj{Val: "Pages"},
			"Kids": raw.NewArray(),
		}},
		"Outlines": &raw.DictObj{KV: map[string]raw.Object{
			"First": raw.RefObj{R: loopRef},
		}},
	}}

	e, err := New(resolver, catalog, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	nodes := e.Outline()
	if len(nodes) != 1 {
		t.Fatalf("expected the looping chain to yield 1 node, got %d", len(nodes))
	}
	if nodes[0].Title != "Loop" {
		t.Errorf("unexpected node: %+v", nodes[0])
	}
}

func TestOutline(t *testing.T) {
	resolver, catalog := fixtureDoc()
	e, err := New(resolver, catalog, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	nodes := e.Outline()
	if len(nodes) != 1 {
		t.Fatalf("expected 1 top-level outline node, got %d", len(nodes))
	}
	intro := nodes[0]
	if intro.Title != "Introduction" || intro.PageNumber != 1 {
		t.Errorf("unexpected node: %+v", intro)
	}
	if len(intro.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(intro.Children))
	}
	if intro.Children[0].Title != "Scope" || intro.Children[0].PageNumber != 2 {
		t.Errorf("unexpected child: %+v", intro.Children[0])
	}
}
