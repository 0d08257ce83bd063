package structure

import "testing"

func listLine(text string, y float64) Line {
	return Line{Items: []TextItem{{Text: text, X: 50, Y: y, W: 100}}, BBox: Rect{50, y, 150, y + 12}}
}

func TestSplitListMarker(t *testing.T) {
	cases := []struct {
		in      string
		marker  string
		rest    string
		ordered bool
	}{
		{"• first item", "•", "first item", false},
		{"- dashed item", "-", "dashed item", false},
		{"* starred", "*", "starred", false},
		{"1. numbered", "1", "numbered", true},
		{"12) also numbered", "12", "also numbered", true},
		{"a) lettered", "a", "lettered", true},
		{"iv. roman", "iv", "roman", true},
		{"plain text", "", "plain text", false},
		{"→ arrow bullet", "→", "arrow bullet", false},
	}
	for _, tc := range cases {
		marker, rest, ordered := splitListMarker(tc.in)
		if marker != tc.marker || rest != tc.rest || ordered != tc.ordered {
			t.Errorf("splitListMarker(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, marker, rest, ordered, tc.marker, tc.rest, tc.ordered)
		}
	}
}

func TestDetectLists(t *testing.T) {
	unordered := Block{IsList: true, Lines: []Line{
		listLine("• apples", 700),
		listLine("• oranges", 680),
	}}
	ordered := Block{IsList: true, Lines: []Line{
		listLine("1. first", 660),
		listLine("2. second", 640),
	}}
	notAList := Block{Lines: []Line{listLine("• looks like one", 620)}}
	pg := PageGeometry{PageNumber: 2, Blocks: []Block{unordered, ordered, notAList}}

	lists := DetectLists([]PageGeometry{pg})
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	if lists[0].Ordered {
		t.Error("bullet list classified as ordered")
	}
	if !lists[1].Ordered {
		t.Error("numbered list classified as unordered")
	}
	if lists[0].Items[0].Text != "apples" || lists[0].Items[0].Marker != "•" {
		t.Errorf("marker not stripped: %+v", lists[0].Items[0])
	}
	if lists[1].PageNumber != 2 {
		t.Errorf("list page = %d, want 2", lists[1].PageNumber)
	}
}
