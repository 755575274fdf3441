package main

import "math"

// fallbackStats is the running fallback accumulator for one classification
// run. It is threaded explicitly through the run rather than held as shared
// state by the classifier.
type fallbackStats struct {
	Total   int
	ByTheme map[Theme]int
}

func newFallbackStats() *fallbackStats {
	return &fallbackStats{ByTheme: make(map[Theme]int)}
}

func (s *fallbackStats) record(theme Theme) {
	s.Total++
	s.ByTheme[theme]++
}

func normalizeSentiment(s string) string {
	switch s {
	case "positive", "negative", "neutral":
		return s
	}
	return "neutral"
}

// validateClassifications reconciles the classifier's proposals against the
// allowed theme set and the confidence floor, keyword-classifying wherever
// the proposal cannot be trusted. Every review in the batch gets exactly one
// Classification with a theme from the allowed five; proposals are matched
// by review_id and reviews the classifier skipped fall back too.
//
// Sentiment always passes through from the proposal (neutral when absent),
// even when the theme is overridden.
func validateClassifications(cfg Config, proposed []llmClassification, batch []CleanedReview, stats *fallbackStats) []Classification {
	byID := make(map[string]llmClassification, len(proposed))
	for _, p := range proposed {
		byID[p.ReviewID] = p
	}

	validated := make([]Classification, 0, len(batch))
	for _, review := range batch {
		p, found := byID[review.ReviewID]
		theme, themeValid := ParseTheme(p.ReviewTheme)
		sentiment := normalizeSentiment(p.Sentiment)

		needsFallback := !found || !themeValid || p.Confidence < cfg.ConfidenceThreshold
		if !needsFallback {
			validated = append(validated, Classification{
				ReviewID:          review.ReviewID,
				ReviewTheme:       theme,
				Sentiment:         sentiment,
				Confidence:        p.Confidence,
				Reason:            p.Reason,
				LLMSuggestedTheme: nil,
				FallbackApplied:   false,
			})
			continue
		}

		fbTheme, fbConf, fbReason := classifyWithKeywords(review.CleanText, cfg.FallbackConfidence)

		var suggested *Theme
		if themeValid {
			t := theme
			suggested = &t
		}

		// The merge is deliberately asymmetric: the proposal's confidence
		// only survives (as max with the fallback's) when it had already met
		// the threshold, i.e. the theme itself was the problem.
		confidence := fbConf
		if found && p.Confidence >= cfg.ConfidenceThreshold {
			confidence = math.Max(p.Confidence, fbConf)
		}

		validated = append(validated, Classification{
			ReviewID:          review.ReviewID,
			ReviewTheme:       fbTheme,
			Sentiment:         sentiment,
			Confidence:        confidence,
			Reason:            fbReason,
			LLMSuggestedTheme: suggested,
			FallbackApplied:   true,
		})
		stats.record(fbTheme)
	}
	return validated
}

// fullFallbackBatch keyword-classifies an entire batch, used when the
// classifier's retry budget is spent. Sentiment defaults to neutral since no
// proposal exists.
func fullFallbackBatch(cfg Config, batch []CleanedReview, stats *fallbackStats) []Classification {
	validated := make([]Classification, 0, len(batch))
	for _, review := range batch {
		theme, conf, reason := classifyWithKeywords(review.CleanText, cfg.FallbackConfidence)
		validated = append(validated, Classification{
			ReviewID:        review.ReviewID,
			ReviewTheme:     theme,
			Sentiment:       "neutral",
			Confidence:      conf,
			Reason:          reason,
			FallbackApplied: true,
		})
		stats.record(theme)
	}
	return validated
}
