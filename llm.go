package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// The classifier boundary fails in exactly two retryable ways: the call ran
// out of time, or the response was not a parseable JSON array. Anything else
// propagates to the caller as-is.
var (
	errClassifierTimeout = errors.New("classifier timeout")
	errMalformedOutput   = errors.New("malformed classifier output")
)

const maxReviewTextChars = 500

// llmReviewPayload is one review as sent to the classifier.
type llmReviewPayload struct {
	ReviewID string `json:"review_id"`
	Text     string `json:"text"`
}

// llmClassification is one entry of the classifier's JSON array response,
// before validation. ReviewTheme stays a raw string here; the validator is
// what decides whether it names an allowed theme.
type llmClassification struct {
	ReviewID    string  `json:"review_id"`
	ReviewTheme string  `json:"review_theme"`
	Sentiment   string  `json:"sentiment"`
	Confidence  float64 `json:"confidence"`
	Reason      string  `json:"reason"`
}

// llmCallFunc is the classifier boundary: a batch of review payloads in, a
// parsed classification list out, or a timeout/malformed-output error.
type llmCallFunc func(ctx context.Context, batch []llmReviewPayload) ([]llmClassification, error)

const classifySystemPrompt = `You are a review classifier for a trading/investment app. For each review, classify into exactly ONE theme and determine sentiment.

Themes:
- Execution & Performance: Order execution delays, chart updates, app lag/freeze/crashes, F&O issues, position visibility, "something went wrong" errors, price refreshing issues
- Payments & Withdrawals: Money debited but not reflected, refund delays, withdrawal timing, wallet balance issues, settlement delays, auto-deductions
- Charges & Transparency: High brokerage, unexpected/hidden charges, profit settlement mismatches, pricing complaints, fee comparisons
- KYC & Access: Re-KYC failures, "KYC incomplete" blocking, KYC renewal issues, registration loops, account reactivation problems
- UI & Feature Gaps: Confusing F&O UI, ETF mixed with stocks, missing tools, watchlist accessibility, unprofessional statements, SIP pause/resume missing

Sentiment: positive, negative, or neutral.

Precedence (if multiple signals): Execution & Performance > Payments & Withdrawals > Charges & Transparency > KYC & Access > UI & Feature Gaps

Return ONLY a valid JSON array. No prose, markdown, or explanation. Each object must have:
- review_id: from input
- review_theme: one of the themes above
- sentiment: positive, negative, or neutral
- confidence: 0.0-1.0
- reason: 1-2 word explanation

Example output:
[{"review_id":"r1","review_theme":"Payments & Withdrawals","sentiment":"negative","confidence":0.95,"reason":"money debited"}]`

func buildClassifyUserPrompt(batch []llmReviewPayload) (string, error) {
	reviewsJSON, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling review batch: %w", err)
	}
	return "Classify these reviews:\n\n" + string(reviewsJSON) +
		"\n\nReturn ONLY the JSON array with classifications. No other text.", nil
}

// newAnthropicCaller returns the production classifier boundary backed by
// the Anthropic Messages API with a per-call deadline.
func newAnthropicCaller(cfg Config) llmCallFunc {
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second

	return func(ctx context.Context, batch []llmReviewPayload) ([]llmClassification, error) {
		userPrompt, err := buildClassifyUserPrompt(batch)
		if err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		log.Printf("llm classify model=%s reviews=%d", cfg.LLMModel, len(batch))
		message, err := client.Messages.New(callCtx, anthropic.MessageNewParams{
			Model:     anthropic.Model(cfg.LLMModel),
			MaxTokens: 4096,
			System: []anthropic.TextBlockParam{
				{Text: classifySystemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
			},
		})
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
				return nil, fmt.Errorf("%w: %v", errClassifierTimeout, err)
			}
			return nil, fmt.Errorf("Anthropic API error: %w", err)
		}

		for _, block := range message.Content {
			if block.Type == "text" {
				log.Printf("llm classify response size=%d tokens_in=%d tokens_out=%d",
					len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
				return parseClassifyResponse(block.Text)
			}
		}
		return nil, fmt.Errorf("%w: no text content in response", errMalformedOutput)
	}
}

// parseClassifyResponse extracts the JSON array from a possibly
// prose-wrapped response and unmarshals it. Any parse failure is a
// malformed-output error so the retry controller treats it uniformly.
func parseClassifyResponse(responseText string) ([]llmClassification, error) {
	arrayText, err := extractJSONArray(responseText)
	if err != nil {
		return nil, err
	}

	var classifications []llmClassification
	if err := json.Unmarshal([]byte(arrayText), &classifications); err != nil {
		truncated := truncateText(arrayText, 512)
		return nil, fmt.Errorf("%w: %v (response: %s)", errMalformedOutput, err, truncated)
	}
	return classifications, nil
}

// extractJSONArray tolerates surrounding prose and code fences by taking the
// span from the first '[' to the last ']'.
func extractJSONArray(responseText string) (string, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")

	start := strings.Index(responseText, "[")
	end := strings.LastIndex(responseText, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON array found in response", errMalformedOutput)
	}
	return responseText[start : end+1], nil
}

// batchPayload builds the classifier request for one batch, truncating each
// clean_text to the contract limit.
func batchPayload(batch []CleanedReview) []llmReviewPayload {
	payload := make([]llmReviewPayload, 0, len(batch))
	for _, review := range batch {
		payload = append(payload, llmReviewPayload{
			ReviewID: review.ReviewID,
			Text:     truncateText(review.CleanText, maxReviewTextChars),
		})
	}
	return payload
}

func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
