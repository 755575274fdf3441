package main

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"a":1}]`, `[{"a":1}]`},
		{"surrounding prose", `Here are the results: [{"a":1}] hope that helps!`, `[{"a":1}]`},
		{"code fence", "```json\n[{\"a\":1}]\n```", "[{\"a\":1}]"},
		{"nested arrays", `note [1, [2, 3]] trailing`, `[1, [2, 3]]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSONArray(tc.in)
			if err != nil {
				t.Fatalf("extractJSONArray(%q) error: %v", tc.in, err)
			}
			if strings.TrimSpace(got) != tc.want {
				t.Fatalf("extractJSONArray(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractJSONArrayMissing(t *testing.T) {
	_, err := extractJSONArray("I could not classify these reviews, sorry.")
	if !errors.Is(err, errMalformedOutput) {
		t.Fatalf("expected malformed-output error, got %v", err)
	}
}

func TestParseClassifyResponse(t *testing.T) {
	response := `Sure, here you go:
[
  {"review_id":"r1","review_theme":"Payments & Withdrawals","sentiment":"negative","confidence":0.95,"reason":"money debited"},
  {"review_id":"r2","review_theme":"Execution & Performance","sentiment":"negative","confidence":0.92,"reason":"app crashes"}
]`

	out, err := parseClassifyResponse(response)
	if err != nil {
		t.Fatalf("parseClassifyResponse error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 classifications, got %d", len(out))
	}
	if out[0].ReviewID != "r1" || out[0].ReviewTheme != "Payments & Withdrawals" || out[0].Confidence != 0.95 {
		t.Fatalf("first classification wrong: %+v", out[0])
	}
	if out[1].Sentiment != "negative" || out[1].Reason != "app crashes" {
		t.Fatalf("second classification wrong: %+v", out[1])
	}
}

func TestParseClassifyResponseNotAnArray(t *testing.T) {
	// A JSON object between brackets elsewhere in the text still has to
	// unmarshal as an array of classification objects.
	_, err := parseClassifyResponse(`["just", "strings"]`)
	if !errors.Is(err, errMalformedOutput) {
		t.Fatalf("expected malformed-output error, got %v", err)
	}
}

func TestBatchPayloadTruncates(t *testing.T) {
	long := strings.Repeat("a", 600)
	batch := []CleanedReview{
		{ReviewID: "r1", CleanText: long},
		{ReviewID: "r2", CleanText: "short text"},
	}

	payload := batchPayload(batch)

	if len(payload) != 2 {
		t.Fatalf("expected 2 payload entries, got %d", len(payload))
	}
	if len(payload[0].Text) != maxReviewTextChars {
		t.Fatalf("long text not truncated to %d, got %d", maxReviewTextChars, len(payload[0].Text))
	}
	if payload[1].Text != "short text" {
		t.Fatalf("short text modified: %q", payload[1].Text)
	}
	if payload[0].ReviewID != "r1" || payload[1].ReviewID != "r2" {
		t.Fatalf("payload order not preserved")
	}
}

func TestBuildClassifyUserPromptContainsReviews(t *testing.T) {
	payload := []llmReviewPayload{{ReviewID: "r1", Text: "kyc verification loop"}}
	prompt, err := buildClassifyUserPrompt(payload)
	if err != nil {
		t.Fatalf("buildClassifyUserPrompt error: %v", err)
	}
	if !strings.Contains(prompt, `"review_id": "r1"`) || !strings.Contains(prompt, "kyc verification loop") {
		t.Fatalf("prompt missing review payload: %s", prompt)
	}
	if !strings.Contains(prompt, "JSON array") {
		t.Fatalf("prompt missing output contract: %s", prompt)
	}
}
