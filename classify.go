package main

import (
	"context"
	"log"
	"time"
)

// ClassifyReviews runs the classification stage: batch, call the classifier
// with bounded retries, validate with keyword fallback. Batches are
// processed strictly in order, one at a time; the only suspension point is
// the backoff sleep, which is injected so tests control it.
func ClassifyReviews(ctx context.Context, cfg Config, reviews []CleanedReview, call llmCallFunc, sleep func(time.Duration)) ([]Classification, *fallbackStats, error) {
	stats := newFallbackStats()
	batches := batchReviews(reviews, cfg.LLMBatchSize)
	log.Printf("classify start reviews=%d batches=%d batch_size=%d", len(reviews), len(batches), cfg.LLMBatchSize)

	all := make([]Classification, 0, len(reviews))
	for i, batch := range batches {
		log.Printf("classify batch %d/%d size=%d", i+1, len(batches), len(batch))

		proposed, ok, err := classifyBatchWithRetry(ctx, batchPayload(batch), call, cfg.LLMMaxRetries, sleep)
		if err != nil {
			return nil, stats, err
		}

		var validated []Classification
		if ok {
			validated = validateClassifications(cfg, proposed, batch, stats)
		} else {
			log.Printf("classify batch %d/%d using full keyword fallback", i+1, len(batches))
			validated = fullFallbackBatch(cfg, batch, stats)
		}
		all = append(all, validated...)
	}

	log.Printf("classify done classified=%d fallbacks=%d", len(all), stats.Total)
	return all, stats, nil
}

// EnrichClassifications joins each classification with the display fields of
// its source review.
func EnrichClassifications(classifications []Classification, reviews []CleanedReview) []EnrichedClassification {
	byID := make(map[string]CleanedReview, len(reviews))
	for _, r := range reviews {
		byID[r.ReviewID] = r
	}

	enriched := make([]EnrichedClassification, 0, len(classifications))
	for _, c := range classifications {
		review := byID[c.ReviewID]
		enriched = append(enriched, EnrichedClassification{
			ReviewID:          c.ReviewID,
			Date:              review.Date,
			Rating:            review.Rating,
			Title:             review.Title,
			Text:              review.Text,
			CleanText:         review.CleanText,
			Sentiment:         c.Sentiment,
			ReviewTheme:       c.ReviewTheme,
			Confidence:        c.Confidence,
			Reason:            c.Reason,
			LLMSuggestedTheme: c.LLMSuggestedTheme,
			FallbackApplied:   c.FallbackApplied,
		})
	}
	return enriched
}

// SummarizeClassifications computes the summary block: per-theme counts with
// every allowed theme present (zero-filled), total fallbacks, and the mean
// confidence across all output records.
func SummarizeClassifications(enriched []EnrichedClassification, totalInput int) ClassifySummary {
	counts := make(map[string]int, len(allThemes))
	for _, theme := range allThemes {
		counts[theme.String()] = 0
	}

	fallbacks := 0
	totalConfidence := 0.0
	for _, rec := range enriched {
		counts[rec.ReviewTheme.String()]++
		totalConfidence += rec.Confidence
		if rec.FallbackApplied {
			fallbacks++
		}
	}

	avg := 0.0
	if len(enriched) > 0 {
		avg = totalConfidence / float64(len(enriched))
	}

	return ClassifySummary{
		TotalInput:           totalInput,
		TotalOutput:          len(enriched),
		CountsByTheme:        counts,
		RePromptsOrFallbacks: fallbacks,
		AverageConfidence:    avg,
	}
}
