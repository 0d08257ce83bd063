package structure

// Severity classifies how strongly an issue affects accessibility.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// WCAG success criteria referenced by the validators.
const (
	CriterionInfoRelationships = "1.3.1" // Info and Relationships
	CriterionMeaningfulSeq     = "1.3.2" // Meaningful Sequence
	CriterionLinkPurpose       = "2.4.4" // Link Purpose (In Context)
	CriterionHeadingsLabels    = "2.4.6" // Headings and Labels
	CriterionLanguageOfPage    = "3.1.1" // Language of Page
	CriterionLanguageOfParts   = "3.1.2" // Language of Parts
)

// Issue codes emitted by the validators.
const (
	CodeNoH1             = "heading-no-h1"
	CodeMultipleH1       = "heading-multiple-h1"
	CodeSkippedLevel     = "heading-skipped-level"
	CodeTableNoHeaders   = "table-no-header-cells"
	CodeTableNoSummary   = "table-missing-summary"
	CodeLinkText         = "link-non-descriptive-text"
	CodeNoLanguage       = "language-not-declared"
	CodeLanguageInvalid  = "language-invalid-tag"
	CodeUnmarkedLanguage = "language-changes-unmarked"
	CodeColumnConfusion  = "column-confusion"
)

// Issue is one typed accessibility finding.
type Issue struct {
	Code        string
	Severity    Severity
	Description string
	PageNumber  int    // 0 for document-level issues
	Criterion   string // WCAG success criterion
}

func countBySeverity(issues []Issue) Summary {
	var s Summary
	for _, is := range issues {
		switch is.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityMajor:
			s.Major++
		case SeverityMinor:
			s.Minor++
		}
	}
	s.Total = len(issues)
	return s
}
