package structure

import (
	"github.com/s4cindia/pdfa11y/ir/raw"
	"github.com/s4cindia/pdfa11y/observability"
)

// tableQueues holds the unmatched geometry tables during one reconciliation
// pass: one FIFO per page plus one global FIFO in detection order. The
// queues live for a single ReconcileTables call and are discarded with it.
type tableQueues struct {
	byPage map[int][]*TableInfo
	global []*TableInfo
}

func newTableQueues(geometric []*TableInfo) *tableQueues {
	q := &tableQueues{byPage: make(map[int][]*TableInfo)}
	for _, t := range geometric {
		q.byPage[t.PageNumber] = append(q.byPage[t.PageNumber], t)
		q.global = append(q.global, t)
	}
	return q
}

// takeForPage dequeues the next unmatched table for page, falling back to
// the global queue when the page-local one is empty. The fallback may pair
// a tag table with a geometry table on a different page; that tolerance is
// deliberate, since spanning tables and misattributed Pg references make
// strict page matching too brittle.
func (q *tableQueues) takeForPage(page int) *TableInfo {
	if local := q.byPage[page]; len(local) > 0 {
		t := local[0]
		q.byPage[page] = local[1:]
		q.removeGlobal(t)
		return t
	}
	if len(q.global) > 0 {
		t := q.global[0]
		q.global = q.global[1:]
		q.removeFromPage(t)
		return t
	}
	return nil
}

func (q *tableQueues) removeGlobal(t *TableInfo) {
	for i, cand := range q.global {
		if cand == t {
			q.global = append(q.global[:i], q.global[i+1:]...)
			return
		}
	}
}

func (q *tableQueues) removeFromPage(t *TableInfo) {
	local := q.byPage[t.PageNumber]
	for i, cand := range local {
		if cand == t {
			q.byPage[t.PageNumber] = append(local[:i], local[i+1:]...)
			return
		}
	}
}

// ReconcileTables pairs tag-tree tables with geometry-detected tables and
// merges tag attributes onto the matches. Geometry tables are mutated in
// place, exactly once. Unmatched tables on either side survive unchanged;
// unmatched tag tables are materialized from their own row/cell counts.
// The returned slice contains every table, geometry order first.
func ReconcileTables(resolver raw.Resolver, tagged []TaggedTable, geometric []*TableInfo, log observability.Logger) []*TableInfo {
	if log == nil {
		log = observability.NopLogger{}
	}
	queues := newTableQueues(geometric)
	var unmatched []*TableInfo
	for _, tt := range tagged {
		match := queues.takeForPage(tt.PageNumber)
		if match == nil {
			unmatched = append(unmatched, materializeTaggedTable(resolver, tt))
			continue
		}
		if match.PageNumber != tt.PageNumber {
			log.Debug("table matched across pages",
				observability.Int("tag_page", tt.PageNumber),
				observability.Int("geometry_page", match.PageNumber))
		}
		mergeTagAttributes(resolver, tt, match)
	}
	return append(geometric, unmatched...)
}

func mergeTagAttributes(resolver raw.Resolver, tt TaggedTable, t *TableInfo) {
	t.FromTags = true
	if tt.Summary != "" {
		t.Summary = tt.Summary
		t.HasSummary = true
	}
	if tt.Caption != "" {
		t.Caption = tt.Caption
	}
	if hasHeaderDescendant(resolver, tt.Dict) {
		t.HasHeaderRow = true
	}
}

// hasHeaderDescendant scans the table's children depth-first for THead or
// TH elements, with a one-level TR→TH lookahead.
func hasHeaderDescendant(resolver raw.Resolver, dict *raw.DictObj) bool {
	for _, kid := range kidDicts(resolver, raw.ValueFromDict(dict, "K")) {
		s, _ := raw.NameFromDict(kid, "S")
		switch s {
		case "THead", "TH":
			return true
		case "TR":
			for _, cell := range kidDicts(resolver, raw.ValueFromDict(kid, "K")) {
				if cs, _ := raw.NameFromDict(cell, "S"); cs == "TH" {
					return true
				}
			}
		default:
			if hasHeaderDescendant(resolver, kid) {
				return true
			}
		}
	}
	return false
}

// materializeTaggedTable builds a TableInfo for a tag table that found no
// geometric counterpart, sizing it from its TR/TD structure.
func materializeTaggedTable(resolver raw.Resolver, tt TaggedTable) *TableInfo {
	t := &TableInfo{
		PageNumber: tt.PageNumber,
		FromTags:   true,
		Summary:    tt.Summary,
		HasSummary: tt.Summary != "",
		Caption:    tt.Caption,
	}
	rows := collectRows(resolver, tt.Dict)
	t.RowCount = len(rows)
	for _, row := range rows {
		cells := kidDicts(resolver, raw.ValueFromDict(row, "K"))
		if len(cells) > t.ColumnCount {
			t.ColumnCount = len(cells)
		}
	}
	t.HasHeaderRow = hasHeaderDescendant(resolver, tt.Dict)
	return t
}

func collectRows(resolver raw.Resolver, dict *raw.DictObj) []*raw.DictObj {
	var rows []*raw.DictObj
	for _, kid := range kidDicts(resolver, raw.ValueFromDict(dict, "K")) {
		s, _ := raw.NameFromDict(kid, "S")
		switch s {
		case "TR":
			rows = append(rows, kid)
		case "THead", "TBody", "TFoot":
			rows = append(rows, collectRows(resolver, kid)...)
		}
	}
	return rows
}
