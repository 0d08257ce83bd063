package extractor

import (
	"context"
	"fmt"

	"github.com/s4cindia/pdfa11y/ir/raw"
	"github.com/s4cindia/pdfa11y/structure"
)

// PageLinks returns the link annotations of one 1-based page.
func (e *Extractor) PageLinks(ctx context.Context, page int) ([]structure.LinkAnnotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dict := e.pageDict(page)
	if dict == nil {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	arr := raw.DerefArray(e.resolver, raw.ValueFromDict(dict, "Annots"))
	if arr == nil {
		return nil, nil
	}
	var links []structure.LinkAnnotation
	for _, obj := range arr.Items {
		annot := raw.DerefDict(e.resolver, obj)
		if annot == nil {
			continue
		}
		if subtype, _ := raw.NameFromDict(annot, "Subtype"); subtype != "Link" {
			continue
		}
		link := structure.LinkAnnotation{
			Rect: rectFromArray(raw.DerefArray(e.resolver, raw.ValueFromDict(annot, "Rect"))),
			URI:  e.annotationURI(annot),
		}
		link.Contents, _ = raw.StringFromDict(annot, "Contents")
		links = append(links, link)
	}
	return links, nil
}

// annotationURI pulls the link target from a direct URI entry or from the
// annotation's URI action.
func (e *Extractor) annotationURI(annot *raw.DictObj) string {
	if uri, ok := raw.StringFromDict(annot, "URI"); ok {
		return uri
	}
	action := raw.DerefDict(e.resolver, raw.ValueFromDict(annot, "A"))
	if action == nil {
		return ""
	}
	if typ, ok := raw.NameFromDict(action, "S"); ok && typ == "URI" {
		if uri, ok := raw.StringFromDict(action, "URI"); ok {
			return uri
		}
	}
	return ""
}

func rectFromArray(arr *raw.ArrayObj) structure.Rect {
	var rect structure.Rect
	if arr == nil {
		return rect
	}
	for i := 0; i < len(arr.Items) && i < 4; i++ {
		if val, ok := raw.FloatFromObject(arr.Items[i]); ok {
			rect[i] = val
		}
	}
	return rect
}
