package main

import (
	"context"
	"errors"
	"log"
	"time"
)

// classifyBatchWithRetry drives one batch through the classifier with a
// bounded retry budget. Timeouts wait 2^attempt seconds before the next try;
// malformed output retries immediately. maxRetries counts the additional
// attempts after the first call.
//
// The bool result is the fallback signal: false means the budget is spent
// and the caller should keyword-classify the whole batch. A non-nil error is
// only returned for failures outside the retryable taxonomy.
func classifyBatchWithRetry(ctx context.Context, batch []llmReviewPayload, call llmCallFunc, maxRetries int, sleep func(time.Duration)) ([]llmClassification, bool, error) {
	for attempt := 0; ; attempt++ {
		out, err := call(ctx, batch)
		if err == nil {
			return out, true, nil
		}

		switch {
		case errors.Is(err, errClassifierTimeout):
			if attempt >= maxRetries {
				log.Printf("classifier timeout, retries exhausted attempts=%d", attempt+1)
				return nil, false, nil
			}
			wait := time.Duration(1<<attempt) * time.Second
			log.Printf("classifier timeout attempt=%d wait=%s", attempt+1, wait)
			sleep(wait)
		case errors.Is(err, errMalformedOutput):
			if attempt >= maxRetries {
				log.Printf("classifier malformed output, retries exhausted attempts=%d", attempt+1)
				return nil, false, nil
			}
			log.Printf("classifier malformed output attempt=%d, retrying: %v", attempt+1, err)
		default:
			return nil, false, err
		}
	}
}
