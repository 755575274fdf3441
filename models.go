package main

import (
	"encoding/json"
	"fmt"
)

// Theme is one of the five fixed categories a review can be classified into.
// Keeping it a closed type means downstream code never carries a free-form
// theme string outside the allowed set.
type Theme int

const (
	ThemeExecution Theme = iota // Execution & Performance
	ThemePayments               // Payments & Withdrawals
	ThemeCharges                // Charges & Transparency
	ThemeKYC                    // KYC & Access
	ThemeUI                     // UI & Feature Gaps
)

var themeNames = map[Theme]string{
	ThemeExecution: "Execution & Performance",
	ThemePayments:  "Payments & Withdrawals",
	ThemeCharges:   "Charges & Transparency",
	ThemeKYC:       "KYC & Access",
	ThemeUI:        "UI & Feature Gaps",
}

// allThemes lists every theme in precedence order. The same order drives the
// keyword fallback and the zero-filling of summary counters.
var allThemes = []Theme{ThemeExecution, ThemePayments, ThemeCharges, ThemeKYC, ThemeUI}

func (t Theme) String() string {
	return themeNames[t]
}

// ParseTheme maps a display name back to a Theme. The second return is false
// for anything outside the allowed set, including the empty string.
func ParseTheme(s string) (Theme, bool) {
	for theme, name := range themeNames {
		if name == s {
			return theme, true
		}
	}
	return ThemeUI, false
}

func (t Theme) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Theme) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseTheme(s)
	if !ok {
		return fmt.Errorf("unknown review theme %q", s)
	}
	*t = parsed
	return nil
}

// RawReview is a review record as delivered by the store scraper. Dates stay
// strings until the pipeline parses them; records with bad dates are dropped.
type RawReview struct {
	Date      string `json:"date"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Relevance int    `json:"relevance"`
}

// CleanedReview is the pipeline output: PII-redacted text, normalized
// clean_text, week bucket and a freshly generated review_id. Immutable once
// emitted.
type CleanedReview struct {
	ReviewID      string `json:"review_id"`
	Date          string `json:"date"`
	WeekStartDate string `json:"week_start_date"`
	WeekEndDate   string `json:"week_end_date"`
	Rating        int    `json:"rating"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	CleanText     string `json:"clean_text"`
	Relevance     int    `json:"relevance"`
	Source        string `json:"source"`
}

// Classification is the validated result for one review. LLMSuggestedTheme
// is only set when the validator overrode a theme that was itself one of the
// allowed five.
type Classification struct {
	ReviewID          string  `json:"review_id"`
	ReviewTheme       Theme   `json:"review_theme"`
	Sentiment         string  `json:"sentiment"`
	Confidence        float64 `json:"confidence"`
	Reason            string  `json:"reason"`
	LLMSuggestedTheme *Theme  `json:"llm_suggested_theme"`
	FallbackApplied   bool    `json:"fallback_applied"`
}

// EnrichedClassification joins a Classification with the display fields of
// its source review. Computed for output only, never stored separately.
type EnrichedClassification struct {
	ReviewID          string  `json:"review_id"`
	Date              string  `json:"date"`
	Rating            int     `json:"rating"`
	Title             string  `json:"title"`
	Text              string  `json:"text"`
	CleanText         string  `json:"clean_text"`
	Sentiment         string  `json:"sentiment"`
	ReviewTheme       Theme   `json:"review_theme"`
	Confidence        float64 `json:"confidence"`
	Reason            string  `json:"reason"`
	LLMSuggestedTheme *Theme  `json:"llm_suggested_theme"`
	FallbackApplied   bool    `json:"fallback_applied"`
}

// WeekCount is one row of the weekly histogram in a ProcessingReport.
type WeekCount struct {
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	Count     int    `json:"count"`
}

// FiltersApplied documents which cleaning stages ran for a given report.
type FiltersApplied struct {
	MinWordCount      int  `json:"min_word_count"`
	PIIRedaction      bool `json:"pii_redaction"`
	EmojiRemoval      bool `json:"emoji_removal"`
	TextNormalization bool `json:"text_normalization"`
	Deduplication     bool `json:"deduplication"`
}

// ProcessingReport aggregates the counters collected during one pipeline run.
type ProcessingReport struct {
	Timestamp          string          `json:"timestamp"`
	TotalInput         int             `json:"total_input"`
	AfterMinWordFilter int             `json:"after_min_word_filter"`
	DuplicatesRemoved  int             `json:"duplicates_removed"`
	TotalOutput        int             `json:"total_output"`
	FiltersApplied     FiltersApplied  `json:"filters_applied"`
	RatingDistribution map[int]int     `json:"rating_distribution"`
	WeeklyDistribution []WeekCount     `json:"weekly_distribution"`
	ExampleRecords     []CleanedReview `json:"example_records"`
}

// ClassifySummary is the summary block of the classified output document.
type ClassifySummary struct {
	TotalInput           int            `json:"total_input"`
	TotalOutput          int            `json:"total_output"`
	CountsByTheme        map[string]int `json:"counts_by_theme"`
	RePromptsOrFallbacks int            `json:"re_prompts_or_fallbacks"`
	AverageConfidence    float64        `json:"average_confidence"`
}
