package main

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndQueryCleanedReviews(t *testing.T) {
	db := newTestDB(t)
	records := []CleanedReview{
		{ReviewID: "r1", Date: "2025-11-03", WeekStartDate: "2025-11-03", WeekEndDate: "2025-11-09", Rating: 1, Title: "v5", Text: "raw", CleanText: "clean", Relevance: 2, Source: "google_play"},
		{ReviewID: "r2", Date: "2025-11-10", WeekStartDate: "2025-11-10", WeekEndDate: "2025-11-16", Rating: 4, Text: "raw2", CleanText: "clean2", Source: "google_play"},
		{ReviewID: "r3", Date: "2025-11-17", WeekStartDate: "2025-11-17", WeekEndDate: "2025-11-23", Rating: 5, Text: "raw3", CleanText: "clean3", Source: "google_play"},
	}

	n, err := InsertCleanedReviews(db, records)
	if err != nil {
		t.Fatalf("InsertCleanedReviews error: %v", err)
	}
	if n != 3 {
		t.Fatalf("inserted %d rows, want 3", n)
	}

	got, err := GetCleanedReviewsByDateRange(db, "2025-11-03", "2025-11-10")
	if err != nil {
		t.Fatalf("GetCleanedReviewsByDateRange error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows in range, got %d", len(got))
	}
	if got[0].ReviewID != "r1" || got[1].ReviewID != "r2" {
		t.Fatalf("rows out of order: %s, %s", got[0].ReviewID, got[1].ReviewID)
	}
	if got[0].Rating != 1 || got[0].CleanText != "clean" || got[0].WeekEndDate != "2025-11-09" {
		t.Fatalf("columns not round-tripped: %+v", got[0])
	}
}

func TestInsertCleanedReviewsDuplicateID(t *testing.T) {
	db := newTestDB(t)
	record := CleanedReview{ReviewID: "r1", Date: "2025-11-03", WeekStartDate: "2025-11-03", WeekEndDate: "2025-11-09", Rating: 1, Text: "t", CleanText: "c", Source: "google_play"}

	if _, err := InsertCleanedReviews(db, []CleanedReview{record}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := InsertCleanedReviews(db, []CleanedReview{record}); err == nil {
		t.Fatalf("expected primary key violation on duplicate review_id")
	}
}

func TestInsertAndQueryClassifications(t *testing.T) {
	db := newTestDB(t)
	suggested := ThemeKYC
	records := []Classification{
		{ReviewID: "r1", ReviewTheme: ThemePayments, Sentiment: "negative", Confidence: 0.45, Reason: "fallback keyword: withdrawal", LLMSuggestedTheme: &suggested, FallbackApplied: true},
		{ReviewID: "r2", ReviewTheme: ThemeExecution, Sentiment: "negative", Confidence: 0.9, Reason: "crash on open"},
	}

	if err := InsertClassifications(db, records, "claude-sonnet-4-5-20250929"); err != nil {
		t.Fatalf("InsertClassifications error: %v", err)
	}

	got, err := GetLatestClassificationForReview(db, "r1")
	if err != nil {
		t.Fatalf("GetLatestClassificationForReview error: %v", err)
	}
	if got.ReviewTheme != ThemePayments || !got.FallbackApplied || got.Confidence != 0.45 {
		t.Fatalf("classification not round-tripped: %+v", got)
	}
	if got.LLMSuggestedTheme == nil || *got.LLMSuggestedTheme != ThemeKYC {
		t.Fatalf("suggested theme lost: %+v", got.LLMSuggestedTheme)
	}

	got, err = GetLatestClassificationForReview(db, "r2")
	if err != nil {
		t.Fatalf("GetLatestClassificationForReview error: %v", err)
	}
	if got.LLMSuggestedTheme != nil {
		t.Fatalf("expected nil suggested theme, got %v", *got.LLMSuggestedTheme)
	}
	if got.FallbackApplied {
		t.Fatalf("fallback flag wrong for direct classification")
	}
}

func TestGetLatestClassificationPicksNewest(t *testing.T) {
	db := newTestDB(t)
	first := []Classification{{ReviewID: "r1", ReviewTheme: ThemeUI, Sentiment: "neutral", Confidence: 0.45, FallbackApplied: true}}
	second := []Classification{{ReviewID: "r1", ReviewTheme: ThemeCharges, Sentiment: "negative", Confidence: 0.88}}

	if err := InsertClassifications(db, first, "m"); err != nil {
		t.Fatalf("insert first: %v", err)
	}
	if err := InsertClassifications(db, second, "m"); err != nil {
		t.Fatalf("insert second: %v", err)
	}

	got, err := GetLatestClassificationForReview(db, "r1")
	if err != nil {
		t.Fatalf("GetLatestClassificationForReview error: %v", err)
	}
	if got.ReviewTheme != ThemeCharges || got.Confidence != 0.88 {
		t.Fatalf("expected newest classification, got %+v", got)
	}
}

func TestGetLatestClassificationMissing(t *testing.T) {
	db := newTestDB(t)
	if _, err := GetLatestClassificationForReview(db, "nope"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
