package geomsource

import (
	"math"
	"sort"
	"strings"

	"github.com/s4cindia/pdfa11y/structure"
)

// Layout heuristics for grouping positioned text runs.
const (
	// baselineTolerance merges runs into one line when their baselines
	// differ by no more than this many units.
	baselineTolerance = 2.0
	// blockGapFactor starts a new block when the vertical gap between
	// consecutive lines exceeds this multiple of the median gap.
	blockGapFactor = 1.8
	// Heading classification by font-size ratio against the page's
	// median body size.
	h1Ratio = 1.9
	h2Ratio = 1.6
	h3Ratio = 1.4
	h4Ratio = 1.25
	// headingMaxItems keeps long content lines from being classified as
	// headings on size alone.
	headingMaxItems = 12
	// listMarkerFraction of a block's lines must open with a list marker
	// for the block to classify as a list.
	listMarkerFraction = 0.6
)

type textRun struct {
	text string
	x, y float64
	w    float64
	size float64
	bold bool
}

// buildBlocks groups runs into baseline lines, lines into vertical blocks,
// and classifies headings and list blocks. Pure function; the PDF reader
// never reaches past this point.
func buildBlocks(runs []textRun) []structure.Block {
	lines := buildLines(runs)
	if len(lines) == 0 {
		return nil
	}
	body := medianBodySize(lines)
	groups := splitBlocks(lines)
	blocks := make([]structure.Block, 0, len(groups))
	for _, group := range groups {
		block := structure.Block{IsList: isListGroup(group)}
		for _, ln := range group {
			line := structure.Line{
				Items:        ln.items(),
				BBox:         ln.bbox(),
				HeadingLevel: headingLevel(ln, body),
			}
			block.Lines = append(block.Lines, line)
			block.BBox = unionRect(block.BBox, line.BBox, len(block.Lines) == 1)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

type rawLine struct {
	runs []textRun
	y    float64
}

func (l rawLine) items() []structure.TextItem {
	items := make([]structure.TextItem, 0, len(l.runs))
	for _, r := range l.runs {
		items = append(items, structure.TextItem{
			Text: r.text,
			X:    r.x,
			Y:    r.y,
			W:    r.w,
			Bold: r.bold,
		})
	}
	return items
}

func (l rawLine) bbox() structure.Rect {
	if len(l.runs) == 0 {
		return structure.Rect{}
	}
	rect := structure.Rect{l.runs[0].x, l.runs[0].y, l.runs[0].x + l.runs[0].w, l.runs[0].y + l.runs[0].size}
	for _, r := range l.runs[1:] {
		rect[0] = math.Min(rect[0], r.x)
		rect[1] = math.Min(rect[1], r.y)
		rect[2] = math.Max(rect[2], r.x+r.w)
		rect[3] = math.Max(rect[3], r.y+r.size)
	}
	return rect
}

func (l rawLine) maxSize() float64 {
	max := 0.0
	for _, r := range l.runs {
		if r.size > max {
			max = r.size
		}
	}
	return max
}

func (l rawLine) text() string {
	parts := make([]string, 0, len(l.runs))
	for _, r := range l.runs {
		parts = append(parts, r.text)
	}
	return strings.Join(parts, " ")
}

func buildLines(runs []textRun) []rawLine {
	var lines []rawLine
	for _, run := range runs {
		placed := false
		for i := range lines {
			if math.Abs(lines[i].y-run.y) <= baselineTolerance {
				lines[i].runs = append(lines[i].runs, run)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, rawLine{runs: []textRun{run}, y: run.y})
		}
	}
	for i := range lines {
		sort.SliceStable(lines[i].runs, func(a, b int) bool {
			return lines[i].runs[a].x < lines[i].runs[b].x
		})
	}
	// Top of page first.
	sort.SliceStable(lines, func(a, b int) bool { return lines[a].y > lines[b].y })
	return lines
}

func splitBlocks(lines []rawLine) [][]rawLine {
	if len(lines) == 0 {
		return nil
	}
	gaps := make([]float64, 0, len(lines)-1)
	for i := 1; i < len(lines); i++ {
		gaps = append(gaps, lines[i-1].y-lines[i].y)
	}
	median := medianOf(gaps)

	groups := [][]rawLine{{lines[0]}}
	for i := 1; i < len(lines); i++ {
		gap := lines[i-1].y - lines[i].y
		if median > 0 && gap > median*blockGapFactor {
			groups = append(groups, nil)
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], lines[i])
	}
	return groups
}

func medianBodySize(lines []rawLine) float64 {
	var sizes []float64
	for _, ln := range lines {
		for _, r := range ln.runs {
			if r.size > 0 {
				sizes = append(sizes, r.size)
			}
		}
	}
	return medianOf(sizes)
}

func medianOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

func headingLevel(ln rawLine, bodySize float64) int {
	if bodySize <= 0 || len(ln.runs) == 0 || len(ln.runs) > headingMaxItems {
		return 0
	}
	ratio := ln.maxSize() / bodySize
	switch {
	case ratio >= h1Ratio:
		return 1
	case ratio >= h2Ratio:
		return 2
	case ratio >= h3Ratio:
		return 3
	case ratio >= h4Ratio:
		return 4
	default:
		return 0
	}
}

func isListGroup(lines []rawLine) bool {
	if len(lines) == 0 {
		return false
	}
	marked := 0
	for _, ln := range lines {
		if startsWithListMarker(strings.TrimSpace(ln.text())) {
			marked++
		}
	}
	return float64(marked) >= float64(len(lines))*listMarkerFraction
}

var listMarkerPrefixes = []string{"•", "◦", "‣", "⁃", "○", "●", "-", "*"}

func startsWithListMarker(text string) bool {
	if text == "" {
		return false
	}
	for _, p := range listMarkerPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	// Ordinals: "1." "a)" "iv."
	for i, r := range text {
		if r == '.' || r == ')' {
			return i > 0 && i <= 4
		}
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
		if i >= 4 {
			return false
		}
	}
	return false
}

func unionRect(acc, next structure.Rect, first bool) structure.Rect {
	if first {
		return next
	}
	return structure.Rect{
		math.Min(acc[0], next[0]),
		math.Min(acc[1], next[1]),
		math.Max(acc[2], next[2]),
		math.Max(acc[3], next[3]),
	}
}
