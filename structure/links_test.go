package structure

import "testing"

func TestIsDescriptiveLinkText(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"here", false},
		{"Click Here", false},
		{"READ MORE", false},
		{"learn more", false},
		{"Quarterly revenue report", true},
		{"FAQ", true},
		{"pdf", true}, // allow-list is case-insensitive
		{"API", true},
		{"WHO", true}, // well-formed acronym
		{"ab", false}, // short, lowercase, not an acronym
		{"x", false},
		{"A1", false}, // digits disqualify an acronym
		{"go", false}, // generic phrase
	}
	for _, tc := range cases {
		if got := IsDescriptiveLinkText(tc.text); got != tc.want {
			t.Errorf("IsDescriptiveLinkText(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestClassifyLinks(t *testing.T) {
	annots := []LinkAnnotation{
		{URI: "https://example.org/report", Contents: "Annual report"},
		{URI: "https://example.org/x", Contents: "here"},
	}
	links := ClassifyLinks(3, annots)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if !links[0].IsDescriptive || links[1].IsDescriptive {
		t.Errorf("descriptiveness wrong: %+v", links)
	}
	if links[0].PageNumber != 3 {
		t.Errorf("page = %d, want 3", links[0].PageNumber)
	}
}
