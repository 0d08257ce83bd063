// Package report renders an analyzed DocumentStructure as a human-readable
// audit report, in markdown or HTML.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/s4cindia/pdfa11y/structure"
)

// Markdown renders the audit report as markdown.
func Markdown(doc *structure.DocumentStructure) string {
	var b strings.Builder

	b.WriteString("# Accessibility Audit\n\n")
	fmt.Fprintf(&b, "**Score: %d/100**\n\n", doc.Score)

	fmt.Fprintf(&b, "- Pages: %d\n", doc.PageCount)
	fmt.Fprintf(&b, "- Tagged: %s\n", yesNo(doc.Tagged))
	if doc.Language.HasPrimary {
		fmt.Fprintf(&b, "- Declared language: %s\n", doc.Language.Primary)
	} else {
		b.WriteString("- Declared language: none\n")
	}
	fmt.Fprintf(&b, "- Issues: %d critical, %d major, %d minor\n\n",
		doc.Summary.Critical, doc.Summary.Major, doc.Summary.Minor)

	writeHeadings(&b, doc)
	writeBookmarks(&b, doc)
	writeTables(&b, doc)
	writeLinks(&b, doc)
	writeReadingOrder(&b, doc)
	writeFormFields(&b, doc)
	writeIssues(&b, doc)

	return b.String()
}

func writeHeadings(b *strings.Builder, doc *structure.DocumentStructure) {
	if len(doc.Headings.Headings) == 0 {
		return
	}
	b.WriteString("## Heading Outline\n\n")
	for _, h := range doc.Headings.Headings {
		indent := strings.Repeat("  ", h.Level-1)
		text := h.Text
		if text == "" {
			text = "(untitled)"
		}
		fmt.Fprintf(b, "%s- H%d %s (p. %d)\n", indent, h.Level, text, h.PageNumber)
	}
	b.WriteString("\n")
}

func writeBookmarks(b *strings.Builder, doc *structure.DocumentStructure) {
	if len(doc.Bookmarks) == 0 {
		return
	}
	b.WriteString("## Bookmarks\n\n")
	for _, bm := range doc.Bookmarks {
		indent := strings.Repeat("  ", bm.Level)
		title := bm.Title
		if title == "" {
			title = "(untitled)"
		}
		// Some providers cannot resolve bookmark destinations to pages.
		if bm.PageNumber > 0 {
			fmt.Fprintf(b, "%s- %s (p. %d)\n", indent, title, bm.PageNumber)
		} else {
			fmt.Fprintf(b, "%s- %s\n", indent, title)
		}
	}
	b.WriteString("\n")
}

func writeTables(b *strings.Builder, doc *structure.DocumentStructure) {
	if len(doc.Tables) == 0 {
		return
	}
	b.WriteString("## Tables\n\n")
	b.WriteString("| Page | Size | Headers | Summary | Accessible |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, t := range doc.Tables {
		headers := "none"
		switch {
		case t.HasHeaderRow && t.HasHeaderColumn:
			headers = "row+column"
		case t.HasHeaderRow:
			headers = "row"
		case t.HasHeaderColumn:
			headers = "column"
		}
		fmt.Fprintf(b, "| %d | %d×%d | %s | %s | %s |\n",
			t.PageNumber, t.RowCount, t.ColumnCount, headers, yesNo(t.HasSummary), yesNo(t.IsAccessible))
	}
	b.WriteString("\n")
}

func writeLinks(b *strings.Builder, doc *structure.DocumentStructure) {
	var vague []structure.LinkInfo
	for _, l := range doc.Links {
		if !l.IsDescriptive {
			vague = append(vague, l)
		}
	}
	if len(vague) == 0 {
		return
	}
	b.WriteString("## Non-descriptive Links\n\n")
	for _, l := range vague {
		text := l.Text
		if strings.TrimSpace(text) == "" {
			text = "(empty)"
		}
		fmt.Fprintf(b, "- p. %d: %q → %s\n", l.PageNumber, text, l.URI)
	}
	b.WriteString("\n")
}

func writeReadingOrder(b *strings.Builder, doc *structure.DocumentStructure) {
	b.WriteString("## Reading Order\n\n")
	fmt.Fprintf(b, "Logical: %s (confidence %.1f)\n\n", yesNo(doc.ReadingOrder.IsLogical), doc.ReadingOrder.Confidence)
}

func writeFormFields(b *strings.Builder, doc *structure.DocumentStructure) {
	if len(doc.FormFields) == 0 {
		return
	}
	b.WriteString("## Form Fields\n\n")
	for _, f := range doc.FormFields {
		fmt.Fprintf(b, "- %s (%s): label %s\n", f.Name, f.Type, yesNo(f.HasLabel))
	}
	b.WriteString("\n")
}

func writeIssues(b *strings.Builder, doc *structure.DocumentStructure) {
	if len(doc.Issues) == 0 {
		b.WriteString("## Issues\n\nNo issues found.\n")
		return
	}
	b.WriteString("## Issues\n\n")
	issues := append([]structure.Issue(nil), doc.Issues...)
	sort.SliceStable(issues, func(i, j int) bool {
		return severityRank(issues[i].Severity) < severityRank(issues[j].Severity)
	})
	for _, is := range issues {
		loc := "document"
		if is.PageNumber > 0 {
			loc = fmt.Sprintf("p. %d", is.PageNumber)
		}
		fmt.Fprintf(b, "- **%s** [%s, WCAG %s] %s (%s)\n", is.Severity, is.Code, is.Criterion, is.Description, loc)
	}
	b.WriteString("\n")
}

func severityRank(s structure.Severity) int {
	switch s {
	case structure.SeverityCritical:
		return 0
	case structure.SeverityMajor:
		return 1
	default:
		return 2
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
