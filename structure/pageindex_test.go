package structure

import (
	"testing"

	"github.com/s4cindia/pdfa11y/ir/raw"
)

func TestPageIndex(t *testing.T) {
	refs := []raw.ObjectRef{{Num: 12}, {Num: 7, Gen: 1}, {Num: 30}}
	idx := NewPageIndex(refs)

	if idx.Count() != 3 {
		t.Fatalf("count = %d, want 3", idx.Count())
	}
	if got := idx.PageNumber(raw.ObjectRef{Num: 7, Gen: 1}); got != 2 {
		t.Errorf("page of 7/1 = %d, want 2", got)
	}
	if got := idx.PageNumber(raw.ObjectRef{Num: 99}); got != 0 {
		t.Errorf("unknown ref should map to 0, got %d", got)
	}
	if idx.Valid(0) || idx.Valid(4) {
		t.Error("Valid must reject out-of-range pages")
	}
	if !idx.Valid(1) || !idx.Valid(3) {
		t.Error("Valid must accept in-range pages")
	}
}

func TestPageIndex_Empty(t *testing.T) {
	idx := NewPageIndex(nil)
	if idx.Count() != 0 {
		t.Fatalf("empty document should yield an empty index")
	}
	if idx.PageNumber(raw.ObjectRef{Num: 1}) != 0 {
		t.Error("lookups on an empty index must return 0")
	}
}
