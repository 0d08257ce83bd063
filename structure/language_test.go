package structure

import "testing"

func TestAnalyzeLanguage_Declared(t *testing.T) {
	info := AnalyzeLanguage("en-US", nil, true)
	if !info.HasPrimary || !info.PrimaryValid {
		t.Errorf("en-US should be a valid primary language: %+v", info)
	}
	if len(info.Issues) != 0 {
		t.Errorf("unexpected issues: %+v", info.Issues)
	}
}

func TestAnalyzeLanguage_Missing(t *testing.T) {
	info := AnalyzeLanguage("", nil, true)
	if info.HasPrimary {
		t.Fatal("blank declaration must not count as a primary language")
	}
	if len(info.Issues) != 1 || info.Issues[0].Code != CodeNoLanguage {
		t.Errorf("expected one missing-language issue, got %+v", info.Issues)
	}
	if info.Issues[0].Criterion != CriterionLanguageOfPage {
		t.Errorf("criterion = %q", info.Issues[0].Criterion)
	}
}

func TestAnalyzeLanguage_MalformedTag(t *testing.T) {
	info := AnalyzeLanguage("not a tag!", nil, true)
	if !info.HasPrimary || info.PrimaryValid {
		t.Errorf("malformed tag should be present but invalid: %+v", info)
	}
	if len(info.Issues) != 1 || info.Issues[0].Code != CodeLanguageInvalid {
		t.Errorf("expected one invalid-tag issue, got %+v", info.Issues)
	}
}

func TestAnalyzeLanguage_MixedContentUntagged(t *testing.T) {
	pages := []PageGeometry{
		{PageNumber: 1, PlainText: "The committee approved the annual budget after a long discussion of the quarterly results."},
		{PageNumber: 2, PlainText: "Der Ausschuss genehmigte den Jahreshaushalt nach einer langen Diskussion über die Quartalsergebnisse."},
	}
	info := AnalyzeLanguage("en", pages, false)
	if len(info.DetectedLanguages) < 2 {
		t.Fatalf("expected at least 2 detected languages, got %v", info.DetectedLanguages)
	}
	found := false
	for _, is := range info.Issues {
		if is.Code == CodeUnmarkedLanguage {
			found = true
		}
	}
	if !found {
		t.Error("mixed languages in an untagged document must raise the unmarked-changes issue")
	}

	// The same content in a tagged document is fine: changes can be marked.
	tagged := AnalyzeLanguage("en", pages, true)
	for _, is := range tagged.Issues {
		if is.Code == CodeUnmarkedLanguage {
			t.Error("tagged document must not raise the unmarked-changes issue")
		}
	}
}
