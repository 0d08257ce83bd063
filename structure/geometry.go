package structure

import (
	"math"
	"sort"
)

// Heuristic thresholds for geometric inference. These are policy knobs,
// not incidental values; tune them here, never inline.
const (
	// columnBucketWidth is the rounding width (in text-space units) used
	// when clustering x-positions into candidate table columns.
	columnBucketWidth = 10.0
	// columnRecurrence is the fraction of a block's lines an x-bucket
	// must appear on to qualify as a table column.
	columnRecurrence = 0.5
	// minTableColumns is the qualifying-column count at which a block
	// is promoted to a table candidate.
	minTableColumns = 2
	// xOverlapTolerance merges line x-ranges into the same reading-order
	// cluster when they overlap within this many units.
	xOverlapTolerance = 50.0
	// significantClusterLines is the line count at which an x-range
	// cluster is considered a real text column.
	significantClusterLines = 3
	// confusionPenalty is subtracted from reading-order confidence per
	// column-confusion occurrence.
	confusionPenalty = 0.2
	// Baseline reading-order confidence by taggedness.
	taggedBaseConfidence   = 0.9
	untaggedBaseConfidence = 0.5
)

// GeometryHeadings collects lines the provider pre-flagged as headings,
// in reading order (page, then top of page downward). Used only when the
// document carries no tagged headings.
func GeometryHeadings(pages []PageGeometry) []HeadingInfo {
	var headings []HeadingInfo
	for _, pg := range pages {
		type cand struct {
			line Line
			page int
		}
		var lines []cand
		for _, block := range pg.Blocks {
			for _, line := range block.Lines {
				if line.HeadingLevel >= 1 && line.HeadingLevel <= 6 {
					lines = append(lines, cand{line: line, page: pg.PageNumber})
				}
			}
		}
		// Text space has its origin at the bottom: higher Y comes first.
		sort.SliceStable(lines, func(i, j int) bool {
			return lines[i].line.BBox[1] > lines[j].line.BBox[1]
		})
		for _, c := range lines {
			headings = append(headings, HeadingInfo{
				Level:            c.line.HeadingLevel,
				Text:             c.line.Text(),
				PageNumber:       c.page,
				Position:         Position{X: c.line.BBox[0], Y: c.line.BBox[1]},
				IsFromTags:       false,
				IsProperlyNested: true,
			})
		}
	}
	return headings
}

// DetectTables finds table-shaped blocks on one page by clustering the
// x-positions of text items. A block qualifies when at least two x-buckets
// recur on half or more of its lines.
func DetectTables(pg PageGeometry) []*TableInfo {
	var tables []*TableInfo
	for _, block := range pg.Blocks {
		if len(block.Lines) < 2 {
			continue
		}
		cols := qualifyingColumns(block)
		if cols < minTableColumns {
			continue
		}
		t := &TableInfo{
			PageNumber:      pg.PageNumber,
			Position:        block.BBox,
			RowCount:        len(block.Lines),
			ColumnCount:     cols,
			HasHeaderRow:    lineAllBold(block.Lines[0]),
			HasHeaderColumn: firstItemsAllBold(block.Lines),
		}
		for _, line := range block.Lines {
			row := make([]string, 0, len(line.Items))
			for _, item := range line.Items {
				row = append(row, item.Text)
			}
			t.Cells = append(t.Cells, row)
		}
		tables = append(tables, t)
	}
	return tables
}

func qualifyingColumns(block Block) int {
	counts := make(map[int]int)
	for _, line := range block.Lines {
		seen := make(map[int]struct{})
		for _, item := range line.Items {
			bucket := int(math.Round(item.X / columnBucketWidth))
			if _, dup := seen[bucket]; dup {
				continue
			}
			seen[bucket] = struct{}{}
			counts[bucket]++
		}
	}
	threshold := float64(len(block.Lines)) * columnRecurrence
	cols := 0
	for _, n := range counts {
		if float64(n) >= threshold {
			cols++
		}
	}
	return cols
}

func lineAllBold(line Line) bool {
	if len(line.Items) == 0 {
		return false
	}
	for _, item := range line.Items {
		if !item.Bold {
			return false
		}
	}
	return true
}

func firstItemsAllBold(lines []Line) bool {
	for _, line := range lines {
		if len(line.Items) == 0 || !line.Items[0].Bold {
			return false
		}
	}
	return len(lines) > 0
}

// AnalyzeReadingOrder estimates whether raw text order matches the visual
// reading order. Multiple significant side-by-side x-range clusters on an
// untagged page suggest multi-column content whose storage order cannot be
// trusted.
func AnalyzeReadingOrder(pages []PageGeometry, tagged bool) ReadingOrderInfo {
	info := ReadingOrderInfo{IsLogical: true, Confidence: untaggedBaseConfidence}
	if tagged {
		// Tag order is authoritative; geometry cannot contradict it.
		info.Confidence = taggedBaseConfidence
		return info
	}
	for _, pg := range pages {
		clusters := xRangeClusters(pg)
		significant := 0
		for _, c := range clusters {
			if c.lines >= significantClusterLines {
				significant++
			}
		}
		if significant > 1 {
			info.IsLogical = false
			info.Issues = append(info.Issues, Issue{
				Code:        CodeColumnConfusion,
				Severity:    SeverityMajor,
				Description: "multiple text columns detected on an untagged page; reading order may not follow visual order",
				PageNumber:  pg.PageNumber,
				Criterion:   CriterionMeaningfulSeq,
			})
			info.Confidence -= confusionPenalty
		}
	}
	if info.Confidence < 0 {
		info.Confidence = 0
	}
	if info.Confidence > 1 {
		info.Confidence = 1
	}
	return info
}

type xCluster struct {
	min, max float64
	lines    int
}

func xRangeClusters(pg PageGeometry) []xCluster {
	var clusters []xCluster
	for _, block := range pg.Blocks {
		for _, line := range block.Lines {
			if len(line.Items) == 0 {
				continue
			}
			lo, hi := line.BBox[0], line.BBox[2]
			merged := false
			for i := range clusters {
				if lo-xOverlapTolerance <= clusters[i].max && clusters[i].min-xOverlapTolerance <= hi {
					clusters[i].min = math.Min(clusters[i].min, lo)
					clusters[i].max = math.Max(clusters[i].max, hi)
					clusters[i].lines++
					merged = true
					break
				}
			}
			if !merged {
				clusters = append(clusters, xCluster{min: lo, max: hi, lines: 1})
			}
		}
	}
	return clusters
}
