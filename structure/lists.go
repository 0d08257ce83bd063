package structure

import (
	"regexp"
	"strings"
	"unicode"
)

// Bullet characters recognized as unordered list markers.
const bulletRunes = "•◦‣⁃○●-*"

var (
	numericMarker = regexp.MustCompile(`^(\d+)[.)]\s*`)
	alphaMarker   = regexp.MustCompile(`^([a-zA-Z])[.)]\s*`)
	romanMarker   = regexp.MustCompile(`^([ivxlcdmIVXLCDM]+)[.)]\s*`)
)

// DetectLists collects list structures from blocks the geometry provider
// pre-classified as lists. Each line is one item; the marker is stripped
// from the item text and decides ordered vs unordered.
func DetectLists(pages []PageGeometry) []ListInfo {
	var lists []ListInfo
	for _, pg := range pages {
		for _, block := range pg.Blocks {
			if !block.IsList || len(block.Lines) == 0 {
				continue
			}
			list := ListInfo{PageNumber: pg.PageNumber}
			for _, line := range block.Lines {
				text := strings.TrimSpace(line.Text())
				if text == "" {
					continue
				}
				marker, rest, ordered := splitListMarker(text)
				list.Items = append(list.Items, ListItemInfo{Marker: marker, Text: rest})
				list.Ordered = ordered
			}
			if len(list.Items) > 0 {
				lists = append(lists, list)
			}
		}
	}
	return lists
}

// splitListMarker strips a leading bullet or ordinal marker. The ordered
// flag reports which family matched; a line with no marker keeps the full
// text and reads as unordered.
func splitListMarker(text string) (marker, rest string, ordered bool) {
	// Roman numerals before single alpha: "i." is a roman ordinal.
	if m := romanMarker.FindStringSubmatch(text); m != nil {
		return m[1], strings.TrimSpace(text[len(m[0]):]), true
	}
	if m := numericMarker.FindStringSubmatch(text); m != nil {
		return m[1], strings.TrimSpace(text[len(m[0]):]), true
	}
	if m := alphaMarker.FindStringSubmatch(text); m != nil {
		return m[1], strings.TrimSpace(text[len(m[0]):]), true
	}
	runes := []rune(text)
	if len(runes) > 0 && strings.ContainsRune(bulletRunes, runes[0]) {
		return string(runes[0]), strings.TrimSpace(string(runes[1:])), false
	}
	// A lone leading symbol followed by a space also reads as a bullet.
	if len(runes) > 1 && unicode.IsSpace(runes[1]) && (unicode.IsSymbol(runes[0]) || unicode.IsPunct(runes[0])) {
		return string(runes[0]), strings.TrimSpace(string(runes[1:])), false
	}
	return "", text, false
}
