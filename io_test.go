package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadCleanedReviewsAcceptsBothShapes(t *testing.T) {
	records := []CleanedReview{
		{ReviewID: "r1", Date: "2025-11-03", Rating: 1, CleanText: "some clean text", Source: "google_play"},
	}
	dir := t.TempDir()

	wrapped, err := json.Marshal(map[string]any{"records": records})
	if err != nil {
		t.Fatalf("marshal wrapped: %v", err)
	}
	bare, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal bare: %v", err)
	}

	wrappedPath := filepath.Join(dir, "wrapped.json")
	barePath := filepath.Join(dir, "bare.json")
	if err := os.WriteFile(wrappedPath, wrapped, 0644); err != nil {
		t.Fatalf("write wrapped: %v", err)
	}
	if err := os.WriteFile(barePath, bare, 0644); err != nil {
		t.Fatalf("write bare: %v", err)
	}

	fromWrapped, err := LoadCleanedReviews(wrappedPath)
	if err != nil {
		t.Fatalf("load wrapped: %v", err)
	}
	fromBare, err := LoadCleanedReviews(barePath)
	if err != nil {
		t.Fatalf("load bare: %v", err)
	}
	if !reflect.DeepEqual(fromWrapped, fromBare) || len(fromWrapped) != 1 {
		t.Fatalf("wrapper and bare array must load identically: %v vs %v", fromWrapped, fromBare)
	}
	if fromWrapped[0].ReviewID != "r1" {
		t.Fatalf("loaded record wrong: %+v", fromWrapped[0])
	}
}

func TestLoadRawReviewsMissingFile(t *testing.T) {
	if _, err := LoadRawReviews(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing input file")
	}
}

func TestLoadRawReviewsUnparsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadRawReviews(path); err == nil {
		t.Fatalf("expected error for unparsable input file")
	}
}

func TestWriteCleanedOutputs(t *testing.T) {
	dir := t.TempDir()
	records := []CleanedReview{
		{ReviewID: "r1", Date: "2025-11-03", WeekStartDate: "2025-11-03", WeekEndDate: "2025-11-09", Rating: 1, Title: "v5", Text: "t", CleanText: "c", Relevance: 3, Source: "google_play"},
		{ReviewID: "r2", Date: "2025-11-10", WeekStartDate: "2025-11-10", WeekEndDate: "2025-11-16", Rating: 4, Text: "t2", CleanText: "c2", Source: "google_play"},
	}

	jsonPath, csvPath, err := WriteCleanedOutputs(dir, records)
	if err != nil {
		t.Fatalf("WriteCleanedOutputs error: %v", err)
	}
	if filepath.Base(jsonPath) != "review_transformed_20251103_20251110.json" {
		t.Fatalf("json filename = %s, want date-range name", filepath.Base(jsonPath))
	}

	loaded, err := LoadCleanedReviews(jsonPath)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(loaded, records) {
		t.Fatalf("roundtrip mismatch:\n got %+v\nwant %+v", loaded, records)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !reflect.DeepEqual(rows[0], cleanedCSVColumns) {
		t.Fatalf("csv header = %v, want %v", rows[0], cleanedCSVColumns)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "r1" || rows[1][2] != "1" || rows[1][7] != "google_play" {
		t.Fatalf("first csv row wrong: %v", rows[1])
	}
}

func TestWriteClassifiedOutputs(t *testing.T) {
	dir := t.TempDir()
	suggested := ThemeKYC
	enriched := []EnrichedClassification{
		{
			ReviewID: "r1", Date: "2025-11-03", Rating: 1, Title: "v5", Text: "t", CleanText: "c",
			Sentiment: "negative", ReviewTheme: ThemePayments, Confidence: 0.45,
			Reason: "fallback keyword: withdrawal", LLMSuggestedTheme: &suggested, FallbackApplied: true,
		},
	}
	summary := SummarizeClassifications(enriched, 1)

	jsonPath, csvPath, err := WriteClassifiedOutputs(dir, enriched, summary)
	if err != nil {
		t.Fatalf("WriteClassifiedOutputs error: %v", err)
	}
	if filepath.Base(jsonPath) != "review_classified_20251103_20251103.json" {
		t.Fatalf("json filename = %s, want date-range name", filepath.Base(jsonPath))
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var doc struct {
		Records []EnrichedClassification `json:"records"`
		Summary ClassifySummary          `json:"summary"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse output json: %v", err)
	}
	if len(doc.Records) != 1 || doc.Records[0].ReviewTheme != ThemePayments {
		t.Fatalf("records block wrong: %+v", doc.Records)
	}
	if doc.Summary.CountsByTheme["Payments & Withdrawals"] != 1 || len(doc.Summary.CountsByTheme) != 5 {
		t.Fatalf("summary block wrong: %+v", doc.Summary)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !reflect.DeepEqual(rows[0], classifiedCSVColumns) {
		t.Fatalf("csv header = %v, want %v", rows[0], classifiedCSVColumns)
	}
	row := rows[1]
	if row[3] != "negative" || row[7] != "Payments & Withdrawals" || row[10] != "KYC & Access" || row[11] != "true" {
		t.Fatalf("csv row wrong: %v", row)
	}
}

func TestDateRangeSuffixUnknown(t *testing.T) {
	if got := dateRangeSuffix(nil); got != "unknown_unknown" {
		t.Fatalf("dateRangeSuffix(nil) = %s, want unknown_unknown", got)
	}
}
