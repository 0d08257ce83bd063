package structure

import (
	"sort"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
)

// minDetectableText is the minimum page-text length worth running language
// detection on; shorter fragments produce noise.
const minDetectableText = 40

// detectionLanguages bounds the detector's search space to languages the
// audited corpus actually contains. A smaller set keeps model loading and
// detection fast without hurting the multi-language check.
var detectionLanguages = []lingua.Language{
	lingua.English, lingua.Spanish, lingua.French, lingua.German,
	lingua.Italian, lingua.Portuguese, lingua.Dutch, lingua.Russian,
	lingua.Chinese, lingua.Japanese, lingua.Arabic, lingua.Hindi,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func contentDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectionLanguages...).
			Build()
	})
	return detector
}

// AnalyzeLanguage validates the document's declared primary language and
// detects the languages actually present in the page text. A document whose
// content mixes languages but carries no tag structure cannot mark language
// changes, which is an accessibility issue in its own right.
func AnalyzeLanguage(declared string, pages []PageGeometry, tagged bool) LanguageInfo {
	info := LanguageInfo{Primary: strings.TrimSpace(declared)}
	info.HasPrimary = info.Primary != ""

	if info.HasPrimary {
		if _, err := language.Parse(info.Primary); err != nil {
			info.Issues = append(info.Issues, Issue{
				Code:        CodeLanguageInvalid,
				Severity:    SeverityMinor,
				Description: "declared document language is not a well-formed BCP 47 tag: " + info.Primary,
				Criterion:   CriterionLanguageOfPage,
			})
		} else {
			info.PrimaryValid = true
		}
	} else {
		info.Issues = append(info.Issues, Issue{
			Code:        CodeNoLanguage,
			Severity:    SeverityMajor,
			Description: "document declares no primary language",
			Criterion:   CriterionLanguageOfPage,
		})
	}

	info.DetectedLanguages = detectContentLanguages(pages)
	if len(info.DetectedLanguages) > 1 && !tagged {
		info.Issues = append(info.Issues, Issue{
			Code:        CodeUnmarkedLanguage,
			Severity:    SeverityMinor,
			Description: "content mixes languages but the document is untagged, so language changes cannot be marked",
			Criterion:   CriterionLanguageOfParts,
		})
	}
	return info
}

func detectContentLanguages(pages []PageGeometry) []string {
	seen := make(map[string]struct{})
	for _, pg := range pages {
		text := strings.TrimSpace(pg.PlainText)
		if len(text) < minDetectableText {
			continue
		}
		// The detector loads language models on first use; build it only
		// once there is enough text to classify.
		lang, ok := contentDetector().DetectLanguageOf(text)
		if !ok {
			continue
		}
		seen[strings.ToLower(lang.IsoCode639_1().String())] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
