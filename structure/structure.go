// Package structure recovers the logical structure of a parsed document
// (headings, tables, lists, links, reading order, language, form fields)
// from its tagged structure tree and raw page text geometry, and scores
// the result for accessibility.
package structure

// Position locates an element on its page.
type Position struct {
	X float64
	Y float64
}

// Rect is an axis-aligned bounding box: [llx, lly, urx, ury].
type Rect [4]float64

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 { return r[2] - r[0] }

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 { return r[3] - r[1] }

// HeadingInfo describes a single heading, either from the tag tree or
// inferred from geometry. Tagged headings fully replace geometric ones.
type HeadingInfo struct {
	Level            int // 1..6
	Text             string
	PageNumber       int
	Position         Position
	IsFromTags       bool
	IsProperlyNested bool
}

// LevelSkip records a heading level jump of more than one.
type LevelSkip struct {
	From int
	To   int
}

// HeadingHierarchy is the validated heading outline of the document.
type HeadingHierarchy struct {
	Headings   []HeadingInfo
	HasH1      bool
	MultipleH1 bool
	Skips      []LevelSkip
	Issues     []Issue
}

// TableInfo describes one table. Geometry detection creates it; tag-tree
// reconciliation enriches it exactly once, after which it is immutable.
type TableInfo struct {
	PageNumber      int
	Position        Rect
	RowCount        int
	ColumnCount     int
	HasHeaderRow    bool
	HasHeaderColumn bool
	HasSummary      bool
	Summary         string
	Caption         string
	Cells           [][]string
	FromTags        bool
	Issues          []Issue
	IsAccessible    bool
}

// ListItemInfo is a single list item with its stripped marker.
type ListItemInfo struct {
	Marker string
	Text   string
}

// ListInfo describes one detected list.
type ListInfo struct {
	PageNumber int
	Ordered    bool
	Items      []ListItemInfo
}

// LinkInfo describes one link annotation and whether its visible text is
// descriptive enough to stand alone.
type LinkInfo struct {
	PageNumber    int
	Rect          Rect
	URI           string
	Text          string
	IsDescriptive bool
}

// ReadingOrderInfo summarizes reading-order confidence for the document.
type ReadingOrderInfo struct {
	IsLogical  bool
	Confidence float64
	Issues     []Issue
}

// LanguageInfo captures declared and detected languages.
type LanguageInfo struct {
	Primary           string
	HasPrimary        bool
	PrimaryValid      bool
	DetectedLanguages []string
	Issues            []Issue
}

// Form field type classifications.
const (
	FieldText      = "text"
	FieldButton    = "button"
	FieldChoice    = "choice"
	FieldSignature = "signature"
	FieldUnknown   = "unknown"
)

// FormFieldInfo describes one interactive form field.
type FormFieldInfo struct {
	Name       string
	Type       string
	Tooltip    string
	HasLabel   bool
	PageNumber int
}

// Bookmark is a flattened outline entry.
type Bookmark struct {
	Title      string
	PageNumber int
	Level      int
}

// Summary counts issues by severity.
type Summary struct {
	Critical int
	Major    int
	Minor    int
	Total    int
}

// DocumentStructure is the aggregate result of one analysis request.
// It is constructed once and not mutated after AnalyzeStructure returns.
type DocumentStructure struct {
	PageCount    int
	Tagged       bool
	Headings     HeadingHierarchy
	Tables       []TableInfo
	Lists        []ListInfo
	Links        []LinkInfo
	ReadingOrder ReadingOrderInfo
	Language     LanguageInfo
	FormFields   []FormFieldInfo
	Bookmarks    []Bookmark
	Issues       []Issue
	Summary      Summary
	Score        int
}

// AnalysisOptions toggles each analysis facet. A disabled facet yields a
// neutral default in the output rather than an absent field.
type AnalysisOptions struct {
	Headings     bool
	Tables       bool
	Lists        bool
	Links        bool
	ReadingOrder bool
	Language     bool

	// Pages restricts analysis to the given 1-based page numbers.
	// Empty means all pages.
	Pages []int
}

// AllAnalyses enables every facet.
func AllAnalyses() AnalysisOptions {
	return AnalysisOptions{
		Headings:     true,
		Tables:       true,
		Lists:        true,
		Links:        true,
		ReadingOrder: true,
		Language:     true,
	}
}

func (o AnalysisOptions) pageEnabled(page int) bool {
	if len(o.Pages) == 0 {
		return true
	}
	for _, p := range o.Pages {
		if p == page {
			return true
		}
	}
	return false
}
