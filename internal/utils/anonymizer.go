package utils

import (
	"regexp"

	"go.uber.org/zap"
)

// recognizer pairs a pattern with the entity label that replaces its matches.
// validate, when set, vetoes candidates the pattern alone cannot rule out.
type recognizer struct {
	entity   string
	pattern  *regexp.Regexp
	validate func(string) bool
}

// Anonymizer redacts personal and financial identifiers from text, replacing
// each match with its entity label so prompts never carry raw PII to a
// provider. Recognizers run in order, most specific first.
type Anonymizer struct {
	logger      *zap.Logger
	recognizers []recognizer
}

// NewAnonymizer creates a new Anonymizer
func NewAnonymizer(logger *zap.Logger) *Anonymizer {
	return &Anonymizer{
		logger: logger,
		recognizers: []recognizer{
			{entity: "EMAIL_ADDRESS", pattern: regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)},
			{entity: "IBAN_CODE", pattern: regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`)},
			{entity: "CREDIT_CARD", pattern: regexp.MustCompile(`\b\d(?:[ \-]?\d){12,18}\b`), validate: luhnValid},
			{entity: "US_SSN", pattern: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
			{entity: "CRYPTO", pattern: regexp.MustCompile(`\b(?:bc1[a-z0-9]{25,39}|[13][a-km-zA-HJ-NP-Z1-9]{25,34})\b`)},
			{entity: "IP_ADDRESS", pattern: regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)},
			{entity: "PHONE_NUMBER", pattern: regexp.MustCompile(`(?:\+\d{1,2}[ .\-]?)?(?:\(\d{3}\)[ .\-]?|\d{3}[ .\-])\d{3}[ .\-]\d{4}\b`)},
		},
	}
}

// Scrub replaces every recognized identifier with its entity label, so
// "pay 4111 1111 1111 1111" becomes "pay <CREDIT_CARD>".
func (a *Anonymizer) Scrub(text string) string {
	redacted := 0
	for _, rec := range a.recognizers {
		text = rec.pattern.ReplaceAllStringFunc(text, func(match string) string {
			if rec.validate != nil && !rec.validate(match) {
				return match
			}
			redacted++
			return "<" + rec.entity + ">"
		})
	}

	if redacted > 0 {
		a.logger.Debug("Redacted identifiers", zap.Int("count", redacted))
	}
	return text
}

// luhnValid reports whether the digits in s carry a valid Luhn checksum,
// which separates card numbers from arbitrary digit runs.
func luhnValid(s string) bool {
	var digits []int
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
