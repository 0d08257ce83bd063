package structure

import (
	"strings"
	"unicode"
)

// genericLinkPhrases are link texts that carry no destination information
// out of context. Matched case-insensitively and exactly.
var genericLinkPhrases = map[string]struct{}{
	"click":      {},
	"click here": {},
	"here":       {},
	"read more":  {},
	"learn more": {},
	"more":       {},
	"link":       {},
	"this":       {},
	"this link":  {},
	"download":   {},
	"continue":   {},
	"go":         {},
}

// shortLinkAllowlist are short texts that are nonetheless meaningful.
var shortLinkAllowlist = map[string]struct{}{
	"FAQ": {}, "PDF": {}, "API": {}, "URL": {}, "DOI": {},
	"CSS": {}, "RSS": {}, "SDK": {}, "CLI": {},
}

const (
	maxVagueLinkLength = 3
	minAcronymLength   = 2
	maxAcronymLength   = 5
)

// IsDescriptiveLinkText reports whether a link's visible text describes its
// destination. Empty text is never descriptive; generic phrases are never
// descriptive; very short text passes only as a known or well-formed
// acronym.
func IsDescriptiveLinkText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if _, generic := genericLinkPhrases[strings.ToLower(trimmed)]; generic {
		return false
	}
	if len([]rune(trimmed)) <= maxVagueLinkLength {
		if _, ok := shortLinkAllowlist[strings.ToUpper(trimmed)]; ok {
			return true
		}
		return isAcronym(trimmed)
	}
	return true
}

// isAcronym reports whether s is an all-caps letter sequence of plausible
// acronym length.
func isAcronym(s string) bool {
	runes := []rune(s)
	if len(runes) < minAcronymLength || len(runes) > maxAcronymLength {
		return false
	}
	for _, r := range runes {
		if !unicode.IsUpper(r) || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ClassifyLinks converts raw link annotations into LinkInfo values with
// descriptiveness judged from the visible contents text.
func ClassifyLinks(page int, annots []LinkAnnotation) []LinkInfo {
	var links []LinkInfo
	for _, a := range annots {
		links = append(links, LinkInfo{
			PageNumber:    page,
			Rect:          a.Rect,
			URI:           a.URI,
			Text:          a.Contents,
			IsDescriptive: IsDescriptiveLinkText(a.Contents),
		})
	}
	return links
}
