package main

import (
	"regexp"
	"strings"
)

// typoCorrections is the fixed vocabulary table applied after case-folding.
// Entries run once each, in order, against the whole string; the table is a
// slice so the order is explicit and never re-scanned.
var typoCorrections = []struct {
	typo    string
	correct string
}{
	{"zerodha", "zerodha"},
	{"groww", "groww"},
	{"dhan", "dhan"},
	{"thinkorswim", "thinkorswim"},
	{"grok", "error"},
	{"crap", "bad"},
	{"sucks", "bad"},
	{"worst", "worst"},
	{"gud", "good"},
	{"awsome", "awesome"},
	{"excelent", "excellent"},
	{"wasteofmoney", "waste"},
	{"scam", "scam"},
	{"fraudsters", "fraud"},
	{"beware", "beware"},
	{"cheat", "cheat"},
	{"steal", "steal"},
	{"looted", "looted"},
	{"fooled", "fooled"},
	{"tricked", "tricked"},
	{"lmao", "haha"},
}

var typoPatterns = compileTypoPatterns()

func compileTypoPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(typoCorrections))
	for i, tc := range typoCorrections {
		patterns[i] = regexp.MustCompile(`\b` + tc.typo + `\b`)
	}
	return patterns
}

// stripEmojis drops runes in the emoji/symbol Unicode bands plus the
// variation selector.
func stripEmojis(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if (r >= 0x1F000 && r <= 0x1F9FF) || // emoticons, symbols, pictographs
			(r >= 0x2600 && r <= 0x27BF) || // misc symbols and dingbats
			(r >= 0x2300 && r <= 0x23FF) || // misc technical
			r == 0xFE0F { // variation selector
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CleanText normalizes review text: emoji stripping, straight quotes,
// lower-case, single-spaced, typo corrections. Always returns a string and
// is stable under re-application.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = stripEmojis(text)

	text = strings.ReplaceAll(text, "‘", "'")
	text = strings.ReplaceAll(text, "’", "'")
	text = strings.ReplaceAll(text, "“", `"`)
	text = strings.ReplaceAll(text, "”", `"`)

	text = strings.ToLower(text)
	text = strings.Join(strings.Fields(text), " ")

	for i, tc := range typoCorrections {
		text = typoPatterns[i].ReplaceAllString(text, tc.correct)
	}

	return strings.TrimSpace(text)
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
