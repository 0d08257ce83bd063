package structure

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/s4cindia/pdfa11y/ir/raw"
	"github.com/s4cindia/pdfa11y/observability"
)

// Config wires an Analyzer to its external collaborators. Document is
// required; every other provider is optional and its facets degrade to
// neutral defaults when absent.
type Config struct {
	Resolver raw.Resolver
	Document DocumentSource
	Geometry GeometrySource
	Links    LinkSource
	Outline  OutlineSource
	Logger   observability.Logger
	Tracer   observability.Tracer
}

// Analyzer recovers a document's logical structure and scores it.
// It reads an immutable snapshot of the source graph and holds no state
// across calls; one Analyzer may serve concurrent analyses.
type Analyzer struct {
	resolver raw.Resolver
	doc      DocumentSource
	geometry GeometrySource
	links    LinkSource
	outline  OutlineSource
	log      observability.Logger
	tracer   observability.Tracer
}

// New creates an Analyzer from cfg.
func New(cfg Config) (*Analyzer, error) {
	if cfg.Document == nil {
		return nil, fmt.Errorf("structure: document source is required")
	}
	log := cfg.Logger
	if log == nil {
		log = observability.NopLogger{}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	return &Analyzer{
		resolver: cfg.Resolver,
		doc:      cfg.Document,
		geometry: cfg.Geometry,
		links:    cfg.Links,
		outline:  cfg.Outline,
		log:      log,
		tracer:   tracer,
	}, nil
}

// AnalyzeStructure runs every enabled analysis and returns the aggregated,
// scored result. It fails only when the document root or page enumeration
// is unavailable; all per-page and per-subtree errors are recovered locally
// so that "document has problems" stays distinguishable from "document
// could not be analyzed".
func (a *Analyzer) AnalyzeStructure(ctx context.Context, opts AnalysisOptions) (*DocumentStructure, error) {
	ctx, span := a.tracer.StartSpan(ctx, "structure.analyze")
	defer span.Finish()
	start := time.Now()

	catalog, err := a.doc.Catalog()
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("structure: obtain document root: %w", err)
	}
	if catalog == nil {
		err := fmt.Errorf("structure: document has no root dictionary")
		span.SetError(err)
		return nil, err
	}
	pageRefs, err := a.doc.PageRefs()
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("structure: enumerate pages: %w", err)
	}
	pages := NewPageIndex(pageRefs)

	structRoot := raw.ValueFromDict(catalog, "StructTreeRoot")
	tagged := structRoot != nil
	if markInfo := raw.DerefDict(a.resolver, raw.ValueFromDict(catalog, "MarkInfo")); markInfo != nil {
		if marked, ok := raw.BoolFromDict(markInfo, "Marked"); ok && marked {
			tagged = true
		}
	}

	doc := &DocumentStructure{
		PageCount: pages.Count(),
		Tagged:    tagged,
	}

	needGeometry := opts.Headings || opts.Tables || opts.Lists || opts.ReadingOrder || opts.Language
	fetchStart := time.Now()
	geoms, linkAnnots, fetchFails := a.fetchPages(ctx, pages.Count(), opts, needGeometry)
	span.SetTag(observability.MetricPageFetchTime, time.Since(fetchStart))
	span.SetTag(observability.MetricPageFetchFails, fetchFails)

	// Tag-tree passes.
	var taggedHeadings []HeadingInfo
	var taggedTables []TaggedTable
	if structRoot != nil {
		if opts.Headings {
			walker := NewTreeWalker(a.resolver, pages, a.log)
			taggedHeadings = clampHeadingPages(walker.CollectHeadings(structRoot), pages)
			span.SetTag(observability.MetricTreeNodeCount, walker.NodeCount())
			a.log.Debug("tag tree walked", observability.Int("nodes", walker.NodeCount()))
		}
		if opts.Tables {
			walker := NewTreeWalker(a.resolver, pages, a.log)
			taggedTables = walker.CollectTables(structRoot)
		}
	}
	doc.FormFields = CollectFormFields(a.resolver, catalog, pages, a.log)

	// Headings: tagged results are ground truth and fully replace the
	// geometric fallback.
	if opts.Headings {
		headings := taggedHeadings
		if len(headings) == 0 {
			headings = GeometryHeadings(geoms)
		}
		doc.Headings = validateHeadings(headings)
	}

	if opts.Tables {
		var geometric []*TableInfo
		for _, pg := range geoms {
			geometric = append(geometric, DetectTables(pg)...)
		}
		all := ReconcileTables(a.resolver, taggedTables, geometric, a.log)
		doc.Tables = validateTables(all, pages)
	}

	if opts.Lists {
		doc.Lists = DetectLists(geoms)
	}

	if opts.Links {
		pagesSorted := sortedKeys(linkAnnots)
		for _, p := range pagesSorted {
			doc.Links = append(doc.Links, ClassifyLinks(p, linkAnnots[p])...)
		}
	}

	if opts.ReadingOrder {
		doc.ReadingOrder = AnalyzeReadingOrder(geoms, tagged)
	} else {
		doc.ReadingOrder = neutralReadingOrder(tagged)
	}

	declaredLang, _ := raw.StringFromDict(catalog, "Lang")
	if opts.Language {
		doc.Language = AnalyzeLanguage(declaredLang, geoms, tagged)
	} else {
		doc.Language = LanguageInfo{Primary: declaredLang, HasPrimary: declaredLang != ""}
	}

	if a.outline != nil {
		doc.Bookmarks = FlattenOutline(a.outline.Outline())
	}

	doc.Issues = collectIssues(doc)
	doc.Summary = countBySeverity(doc.Issues)
	doc.Score = Score(doc, opts)

	span.SetTag(observability.MetricPageCount, doc.PageCount)
	span.SetTag(observability.MetricIssueCount, doc.Summary.Total)
	span.SetTag(observability.MetricScoreValue, doc.Score)
	span.SetTag(observability.MetricAnalyzeTime, time.Since(start))
	a.log.Info("structure analysis complete",
		observability.Int("pages", doc.PageCount),
		observability.Int("issues", doc.Summary.Total),
		observability.Int("score", doc.Score))
	return doc, nil
}

// fetchPages fans out the per-page geometry and link extraction, one task
// per page. Partial results are owned by their task until the merge; a
// failing page logs a warning, contributes nothing, and counts toward the
// returned failure total. Output is sorted by page number so completion
// order never shows in the result.
func (a *Analyzer) fetchPages(ctx context.Context, pageCount int, opts AnalysisOptions, needGeometry bool) ([]PageGeometry, map[int][]LinkAnnotation, int) {
	geomByPage := make(map[int]PageGeometry)
	linkByPage := make(map[int][]LinkAnnotation)
	fails := 0
	var mu sync.Mutex
	var wg sync.WaitGroup
	for p := 1; p <= pageCount; p++ {
		if !opts.pageEnabled(p) {
			continue
		}
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			if needGeometry && a.geometry != nil {
				pg, err := a.geometry.PageGeometry(ctx, page)
				if err != nil {
					a.log.Warn("page geometry extraction failed",
						observability.Int("page", page), observability.Error("err", err))
					mu.Lock()
					fails++
					mu.Unlock()
				} else {
					pg.PageNumber = page
					mu.Lock()
					geomByPage[page] = pg
					mu.Unlock()
				}
			}
			if opts.Links && a.links != nil {
				annots, err := a.links.PageLinks(ctx, page)
				if err != nil {
					a.log.Warn("page link extraction failed",
						observability.Int("page", page), observability.Error("err", err))
					mu.Lock()
					fails++
					mu.Unlock()
				} else if len(annots) > 0 {
					mu.Lock()
					linkByPage[page] = annots
					mu.Unlock()
				}
			}
		}(p)
	}
	wg.Wait()

	geoms := make([]PageGeometry, 0, len(geomByPage))
	for _, p := range sortedGeomKeys(geomByPage) {
		geoms = append(geoms, geomByPage[p])
	}
	return geoms, linkByPage, fails
}

func sortedGeomKeys(m map[int]PageGeometry) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedKeys(m map[int][]LinkAnnotation) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func neutralReadingOrder(tagged bool) ReadingOrderInfo {
	conf := untaggedBaseConfidence
	if tagged {
		conf = taggedBaseConfidence
	}
	return ReadingOrderInfo{IsLogical: true, Confidence: conf}
}

// clampHeadingPages enforces the page invariant on tag-derived headings: a
// corrupt Pg reference must not leak an out-of-range page number.
func clampHeadingPages(headings []HeadingInfo, pages *PageIndex) []HeadingInfo {
	for i := range headings {
		if headings[i].PageNumber < 1 {
			headings[i].PageNumber = 1
		}
		if count := pages.Count(); count > 0 && headings[i].PageNumber > count {
			headings[i].PageNumber = count
		}
	}
	return headings
}

// validateHeadings derives the heading hierarchy and its issues: a missing
// H1 while other headings exist, more than one H1, and any level skipping
// more than one step from its predecessor.
func validateHeadings(headings []HeadingInfo) HeadingHierarchy {
	h := HeadingHierarchy{Headings: headings}
	h1Count := 0
	prev := 0
	for i := range headings {
		if headings[i].Level == 1 {
			h1Count++
		}
		if prev != 0 && headings[i].Level > prev+1 {
			headings[i].IsProperlyNested = false
			h.Skips = append(h.Skips, LevelSkip{From: prev, To: headings[i].Level})
			h.Issues = append(h.Issues, Issue{
				Code:        CodeSkippedLevel,
				Severity:    SeverityMajor,
				Description: fmt.Sprintf("heading level skips from %d to %d", prev, headings[i].Level),
				PageNumber:  headings[i].PageNumber,
				Criterion:   CriterionInfoRelationships,
			})
		}
		prev = headings[i].Level
	}
	h.HasH1 = h1Count > 0
	h.MultipleH1 = h1Count > 1
	if len(headings) > 0 && !h.HasH1 {
		h.Issues = append(h.Issues, Issue{
			Code:        CodeNoH1,
			Severity:    SeverityMajor,
			Description: "document has headings but no H1",
			Criterion:   CriterionHeadingsLabels,
		})
	}
	if h.MultipleH1 {
		h.Issues = append(h.Issues, Issue{
			Code:        CodeMultipleH1,
			Severity:    SeverityMinor,
			Description: "document has more than one H1",
			Criterion:   CriterionHeadingsLabels,
		})
	}
	return h
}

// validateTables attaches per-table issues and derives IsAccessible: zero
// issues and at least one of header row / header column.
func validateTables(tables []*TableInfo, pages *PageIndex) []TableInfo {
	out := make([]TableInfo, 0, len(tables))
	for _, t := range tables {
		if t.PageNumber < 1 {
			t.PageNumber = 1
		}
		if count := pages.Count(); count > 0 && t.PageNumber > count {
			t.PageNumber = count
		}
		if !t.HasHeaderRow && !t.HasHeaderColumn {
			t.Issues = append(t.Issues, Issue{
				Code:        CodeTableNoHeaders,
				Severity:    SeverityMajor,
				Description: "table has no header row or header column",
				PageNumber:  t.PageNumber,
				Criterion:   CriterionInfoRelationships,
			})
		}
		if t.RowCount > 5 && !t.HasSummary {
			t.Issues = append(t.Issues, Issue{
				Code:        CodeTableNoSummary,
				Severity:    SeverityMinor,
				Description: "large table has no summary",
				PageNumber:  t.PageNumber,
				Criterion:   CriterionInfoRelationships,
			})
		}
		t.IsAccessible = len(t.Issues) == 0 && (t.HasHeaderRow || t.HasHeaderColumn)
		out = append(out, *t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PageNumber != out[j].PageNumber {
			return out[i].PageNumber < out[j].PageNumber
		}
		return out[i].Position[1] > out[j].Position[1]
	})
	return out
}

// collectIssues flattens every facet's issues into one list for the
// summary and the report.
func collectIssues(doc *DocumentStructure) []Issue {
	var issues []Issue
	issues = append(issues, doc.Headings.Issues...)
	for _, t := range doc.Tables {
		issues = append(issues, t.Issues...)
	}
	for _, l := range doc.Links {
		if !l.IsDescriptive {
			issues = append(issues, Issue{
				Code:        CodeLinkText,
				Severity:    SeverityMinor,
				Description: "link text does not describe its destination: " + linkLabel(l),
				PageNumber:  l.PageNumber,
				Criterion:   CriterionLinkPurpose,
			})
		}
	}
	issues = append(issues, doc.ReadingOrder.Issues...)
	issues = append(issues, doc.Language.Issues...)
	return issues
}

func linkLabel(l LinkInfo) string {
	if l.Text != "" {
		return fmt.Sprintf("%q", l.Text)
	}
	return "(empty)"
}

// FlattenOutline walks the bookmark tree and flattens it with a level
// counter. The tree is used verbatim; no validation applies here.
func FlattenOutline(nodes []OutlineNode) []Bookmark {
	var out []Bookmark
	var walk func(nodes []OutlineNode, level int)
	walk = func(nodes []OutlineNode, level int) {
		for _, n := range nodes {
			out = append(out, Bookmark{Title: n.Title, PageNumber: n.PageNumber, Level: level})
			if len(n.Children) > 0 {
				walk(n.Children, level+1)
			}
		}
	}
	walk(nodes, 0)
	return out
}
