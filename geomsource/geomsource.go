// Package geomsource implements the structure engine's geometry, document,
// and outline providers on top of a real PDF file, using
// github.com/ledongthuc/pdf for positioned text extraction.
package geomsource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/s4cindia/pdfa11y/ir/raw"
	"github.com/s4cindia/pdfa11y/observability"
	"github.com/s4cindia/pdfa11y/structure"
)

// Source reads page geometry from a PDF on disk. It implements
// structure.DocumentSource, structure.GeometrySource, and
// structure.OutlineSource. Link annotations are not surfaced by the
// underlying reader, so Source is not a LinkSource.
type Source struct {
	f   *os.File
	r   *pdf.Reader
	log observability.Logger
}

// Open opens the PDF at path.
func Open(path string, log observability.Logger) (*Source, error) {
	if log == nil {
		log = observability.NopLogger{}
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geomsource: open %s: %w", path, err)
	}
	return &Source{f: f, r: r, log: log}, nil
}

// Close releases the underlying file.
func (s *Source) Close() error { return s.f.Close() }

// PageCount returns the number of pages.
func (s *Source) PageCount() int { return s.r.NumPage() }

// Catalog synthesizes a root dictionary carrying the declared language and
// tagging flag read from the document catalog. The tag tree itself is not
// exposed by this provider; tag-tree analyses need a full graph resolver.
func (s *Source) Catalog() (*raw.DictObj, error) {
	catalog := raw.Dict()
	root := s.r.Trailer().Key("Root")
	if lang := root.Key("Lang"); !lang.IsNull() {
		if text := strings.TrimSpace(lang.Text()); text != "" {
			catalog.Set(raw.NameLiteral("Lang"), raw.Str(text))
		}
	}
	markInfo := root.Key("MarkInfo")
	if !markInfo.IsNull() && markInfo.Key("Marked").Bool() {
		marked := raw.Dict()
		marked.Set(raw.NameLiteral("Marked"), raw.Bool(true))
		catalog.Set(raw.NameLiteral("MarkInfo"), marked)
	}
	return catalog, nil
}

// PageRefs returns one synthetic reference per page, in order.
func (s *Source) PageRefs() ([]raw.ObjectRef, error) {
	n := s.r.NumPage()
	refs := make([]raw.ObjectRef, n)
	for i := 0; i < n; i++ {
		refs[i] = raw.ObjectRef{Num: i + 1}
	}
	return refs, nil
}

// PageGeometry extracts the positioned text of one 1-based page and groups
// it into lines and blocks with heading and list classification.
func (s *Source) PageGeometry(ctx context.Context, page int) (structure.PageGeometry, error) {
	if err := ctx.Err(); err != nil {
		return structure.PageGeometry{}, err
	}
	if page < 1 || page > s.r.NumPage() {
		return structure.PageGeometry{}, fmt.Errorf("geomsource: page %d out of range", page)
	}
	p := s.r.Page(page)
	if p.V.IsNull() {
		return structure.PageGeometry{PageNumber: page}, nil
	}

	runs := make([]textRun, 0, 64)
	for _, t := range p.Content().Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		runs = append(runs, textRun{
			text: t.S,
			x:    t.X,
			y:    t.Y,
			w:    t.W,
			size: t.FontSize,
			bold: strings.Contains(t.Font, "Bold"),
		})
	}
	geom := structure.PageGeometry{
		PageNumber: page,
		Blocks:     buildBlocks(runs),
	}
	if text, err := p.GetPlainText(nil); err == nil {
		geom.PlainText = text
	} else {
		s.log.Debug("plain text extraction failed",
			observability.Int("page", page), observability.Error("err", err))
	}
	return geom, nil
}

// Outline converts the reader's outline tree to bookmark nodes. The
// underlying reader does not map destinations to page numbers.
func (s *Source) Outline() []structure.OutlineNode {
	return convertOutline(s.r.Outline().Child)
}

func convertOutline(items []pdf.Outline) []structure.OutlineNode {
	var out []structure.OutlineNode
	for _, item := range items {
		out = append(out, structure.OutlineNode{
			Title:    item.Title,
			Children: convertOutline(item.Child),
		})
	}
	return out
}
