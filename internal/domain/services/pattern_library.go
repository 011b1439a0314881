package services

import (
	"regexp"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// PatternLibrary is the fixed, ordered catalogue of recognizers for each
// intelligence type. Recognizers are independent: a single message may yield
// overlapping or type-ambiguous candidates (a digit run can look like both a
// phone number and an account number); disambiguation is the validator's job.
type PatternLibrary struct {
	recognizers []recognizer
	logger      *logger.Logger
}

// recognizer pairs an intelligence type with its compiled pattern. When
// group > 0, the candidate is that capture group rather than the full match.
type recognizer struct {
	intelType models.IntelType
	pattern   *regexp.Regexp
	group     int
}

// NewPatternLibrary compiles the recognizer catalogue
func NewPatternLibrary(log *logger.Logger) *PatternLibrary {
	pl := &PatternLibrary{
		logger: log.WithComponent("pattern-library"),
	}
	pl.compile()
	return pl
}

func (pl *PatternLibrary) compile() {
	pl.recognizers = []recognizer{
		// Bank account: long digit run, separators allowed. Length and
		// phone-shape checks happen at validation time.
		{
			intelType: models.IntelTypeBankAccount,
			pattern:   regexp.MustCompile(`\b\d(?:[\d\- ]{7,20})\d\b`),
		},

		// UPI-style payment alias. Overlaps the email pattern on purpose;
		// the validator breaks the tie via the provider suffix list.
		{
			intelType: models.IntelTypeUPIID,
			pattern:   regexp.MustCompile(`\b[a-zA-Z0-9._-]+@[a-zA-Z][a-zA-Z0-9.]+\b`),
		},

		// Indian mobile number, optional +91 country code. Left edge is
		// anchored so a 10-digit tail inside a longer account run never
		// surfaces as a phone.
		{
			intelType: models.IntelTypePhoneNumber,
			pattern:   regexp.MustCompile(`(?:^|[^\d+])((?:\+?91[\- ]?)?[6-9]\d{4}[\- ]?\d{5})\b`),
			group:     1,
		},

		// URL
		{
			intelType: models.IntelTypeURL,
			pattern:   regexp.MustCompile(`(?i)\bhttps?://[^\s<>"']+`),
		},

		// Email address
		{
			intelType: models.IntelTypeEmail,
			pattern:   regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`),
		},

		// IFSC-style bank identifier code: 4 letters, literal zero, 6 alphanumerics
		{
			intelType: models.IntelTypeIFSCCode,
			pattern:   regexp.MustCompile(`\b[A-Za-z]{4}0[A-Za-z0-9]{6}\b`),
		},

		// Beneficiary name, anchored to payment context phrases. Matches
		// generic phrases too ("Pay Now"); the validator blocklist filters those.
		{
			intelType: models.IntelTypeBeneficiaryName,
			pattern: regexp.MustCompile(
				`(?:[Nn]ame is|[Bb]eneficiary(?: name)?[:\s]|[Aa]ccount holder[:\s]|[Ii]n the name of|[Pp]ayable to|[Tt]ransfer (?:it )?to|[Ss]end (?:it |money )?to)\s*((?:[A-Z][a-z]+)(?:\s+[A-Z][a-z]+){0,3})`,
			),
			group: 1,
		},

		// Known bank names
		{
			intelType: models.IntelTypeBankName,
			pattern: regexp.MustCompile(
				`(?i)\b(?:State Bank of India|SBI|HDFC(?: Bank)?|ICICI(?: Bank)?|Axis Bank|Punjab National Bank|PNB|Kotak(?: Mahindra)?(?: Bank)?|Bank of Baroda|Canara Bank|Yes Bank|IndusInd Bank|Union Bank of India|IDBI(?: Bank)?)\b`,
			),
		},

		// Secondary messaging contact: a mobile number in WhatsApp/Telegram context
		{
			intelType: models.IntelTypeSecondaryPhone,
			pattern: regexp.MustCompile(
				`(?i)(?:whats\s?app|telegram|signal)(?:\s+(?:me|us))?(?:\s+(?:on|at))?(?:\s+number)?[:\s]+(\+?(?:91[\- ]?)?[6-9]\d{4}[\- ]?\d{5})\b`,
			),
			group: 1,
		},
	}
}

// Extract runs every recognizer over the text and returns all raw candidates.
// Side-effect free; an unmatched text simply yields no candidates.
func (pl *PatternLibrary) Extract(text string) []models.ExtractionCandidate {
	if text == "" {
		return nil
	}

	var candidates []models.ExtractionCandidate
	for _, rec := range pl.recognizers {
		if rec.group > 0 {
			matches := rec.pattern.FindAllStringSubmatchIndex(text, -1)
			for _, m := range matches {
				start, end := m[2*rec.group], m[2*rec.group+1]
				if start < 0 || end < 0 {
					continue
				}
				candidates = append(candidates, models.ExtractionCandidate{
					Type:     rec.intelType,
					RawText:  text[start:end],
					StartPos: start,
					EndPos:   end,
				})
			}
			continue
		}

		matches := rec.pattern.FindAllStringIndex(text, -1)
		for _, m := range matches {
			candidates = append(candidates, models.ExtractionCandidate{
				Type:     rec.intelType,
				RawText:  text[m[0]:m[1]],
				StartPos: m[0],
				EndPos:   m[1],
			})
		}
	}

	return candidates
}
