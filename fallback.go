package main

import "strings"

// themeKeywords holds the keyword set per theme for the deterministic
// fallback. Matching is raw substring against the lower-cased text, not
// word-boundary anchored.
var themeKeywords = map[Theme][]string{
	ThemeExecution: {
		"execution", "pending", "order", "delay", "chart", "lag", "crash", "freeze",
		"hang", "slow", "not updating", "ltp", "f&o", "strike", "option chain",
		"position", "not visible", "something went wrong", "error", "price not refreshing",
		"blocking", "buy-sell", "app lag", "app freeze", "app crash", "technical issue",
		"glitch", "bug", "not working",
	},
	ThemePayments: {
		"payment", "debit", "money", "not reflected", "refund", "delay", "withdrawal",
		"taking days", "wallet", "balance", "incorrect", "decreasing", "settlement",
		"sale settlement", "auto-deduction", "unexplained", "pending", "charged",
	},
	ThemeCharges: {
		"charge", "brokerage", "expensive", "cost", "fee", "hidden", "unexpected",
		"profit", "settled", "zerodha", "dhan", "competitor", "scalper",
	},
	ThemeKYC: {
		"kyc", "aadhaar", "biometric", "verification", "incomplete", "blocking",
		"investment", "trading", "renew", "registration", "loop", "account",
		"reactivate", "inactivity", "pan",
	},
	ThemeUI: {
		"ui", "feature", "confusing", "oi", "etf", "stock", "tool", "fibonacci",
		"scalping", "watchlist", "statement", "unprofessional", "unformatted",
		"sip", "pause", "resume", "missing", "gap", "interface", "design",
	},
}

// defaultTheme is assigned when no keyword of any theme matches.
const defaultTheme = ThemeUI

// classifyWithKeywords is the deterministic fallback classifier. Themes are
// tried in precedence order (allThemes) and the first theme with a keyword
// hit wins; the reason names the matched keyword. The confidence is the
// passed constant, never derived from match strength, so identical input
// always produces identical output.
func classifyWithKeywords(text string, confidence float64) (Theme, float64, string) {
	lower := strings.ToLower(text)
	for _, theme := range allThemes {
		for _, keyword := range themeKeywords[theme] {
			if strings.Contains(lower, keyword) {
				return theme, confidence, "fallback keyword: " + keyword
			}
		}
	}
	return defaultTheme, confidence, "fallback default: no keywords matched"
}
