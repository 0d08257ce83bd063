package structure

// Score deductions. The formula is contractual: compliance reports are
// built on these exact weights.
const (
	deductUntagged          = 30
	deductNoLanguage        = 10
	deductNoH1              = 10
	deductPerCritical       = 15
	deductPerMajor          = 5
	deductPerMinor          = 2
	deductPerBadTable       = 5
	deductPerOrderIssue     = 5
	deductOrderNotLogical   = 10
	deductPerVagueLink      = 2
	vagueLinkDeductionLimit = 5
)

// dedicatedCodes are issue codes whose effect on the score is carried by a
// dedicated deduction term; they are excluded from the generic
// per-severity counting so a single finding is never deducted twice.
var dedicatedCodes = map[string]struct{}{
	CodeNoH1:            {},
	CodeNoLanguage:      {},
	CodeTableNoHeaders:  {},
	CodeTableNoSummary:  {},
	CodeLinkText:        {},
	CodeColumnConfusion: {},
}

// Score computes the accessibility score in [0,100] for an aggregated
// structure. It is a pure function: no side effects, no recomputation of
// severities. A disabled analysis omits its terms entirely rather than
// contributing a zero-deduction "pass".
func Score(doc *DocumentStructure, opts AnalysisOptions) int {
	score := 100

	if !doc.Tagged {
		score -= deductUntagged
	}
	if opts.Language && !doc.Language.HasPrimary {
		score -= deductNoLanguage
	}
	if opts.Headings && len(doc.Headings.Headings) > 0 && !doc.Headings.HasH1 {
		score -= deductNoH1
	}

	var critical, major, minor int
	for _, is := range doc.Issues {
		if _, dedicated := dedicatedCodes[is.Code]; dedicated {
			continue
		}
		switch is.Severity {
		case SeverityCritical:
			critical++
		case SeverityMajor:
			major++
		case SeverityMinor:
			minor++
		}
	}
	score -= deductPerCritical * critical
	score -= deductPerMajor * major
	score -= deductPerMinor * minor

	if opts.Tables {
		for _, t := range doc.Tables {
			if !t.IsAccessible {
				score -= deductPerBadTable
			}
		}
	}

	if opts.ReadingOrder {
		score -= deductPerOrderIssue * len(doc.ReadingOrder.Issues)
		if !doc.ReadingOrder.IsLogical {
			score -= deductOrderNotLogical
		}
	}

	if opts.Links {
		vague := 0
		for _, l := range doc.Links {
			if !l.IsDescriptive {
				vague++
			}
		}
		if vague > vagueLinkDeductionLimit {
			vague = vagueLinkDeductionLimit
		}
		score -= deductPerVagueLink * vague
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
