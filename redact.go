package main

import "regexp"

const (
	emailToken = "[EMAIL_REDACTED]"
	phoneToken = "[PHONE_REDACTED]"
	idToken    = "[ID_REDACTED]"
	userToken  = "[USER_REDACTED]"
)

// The patterns run in a fixed order: phone and ID shapes are broader than
// email, so email must be consumed first, and the generic 6+ digit account
// heuristic must run after the more specific PAN/Aadhaar shapes.
var (
	emailPattern   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern   = regexp.MustCompile(`\b(?:\+91|0)?[6-9]\d{9}\b|\b\d{10}\b`)
	panPattern     = regexp.MustCompile(`\b[A-Z]{5}\d{4}[A-Z]\b`)
	aadhaarPattern = regexp.MustCompile(`\b\d{4}\s?\d{4}\s?\d{4}\b`)
	accountPattern = regexp.MustCompile(`\b\d{6,}\b`)
	handlePattern  = regexp.MustCompile(`@[a-zA-Z0-9_]+|[a-zA-Z_][a-zA-Z0-9_]*\d{3,}`)
)

// RedactPII replaces emails, phone numbers, ID-shaped codes, long numeric
// runs and username-like tokens with fixed tokens. Pure and idempotent;
// empty input comes back unchanged.
func RedactPII(text string) string {
	if text == "" {
		return text
	}
	text = emailPattern.ReplaceAllString(text, emailToken)
	text = phonePattern.ReplaceAllString(text, phoneToken)
	text = panPattern.ReplaceAllString(text, idToken)
	text = aadhaarPattern.ReplaceAllString(text, idToken)
	text = accountPattern.ReplaceAllString(text, idToken)
	text = handlePattern.ReplaceAllString(text, userToken)
	return text
}
