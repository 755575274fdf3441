package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var cleanedCSVColumns = []string{
	"review_id", "date", "rating", "title", "text", "clean_text", "relevance", "source",
}

var classifiedCSVColumns = []string{
	"review_id", "date", "rating", "sentiment", "title", "text", "clean_text",
	"review_theme", "confidence", "reason", "llm_suggested_theme", "fallback_applied",
}

// LoadRawReviews reads a raw review dataset. A missing or unparsable file is
// fatal for the run and propagates; there is no partial output.
func LoadRawReviews(path string) ([]RawReview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading raw reviews: %w", err)
	}
	var reviews []RawReview
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("parsing raw reviews %s: %w", path, err)
	}
	log.Printf("loaded raw reviews path=%s count=%d", path, len(reviews))
	return reviews, nil
}

// LoadCleanedReviews reads a cleaned dataset, accepting either a bare array
// or a {records: [...]} wrapper.
func LoadCleanedReviews(path string) ([]CleanedReview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cleaned reviews: %w", err)
	}

	var wrapper struct {
		Records []CleanedReview `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Records != nil {
		log.Printf("loaded cleaned reviews path=%s count=%d", path, len(wrapper.Records))
		return wrapper.Records, nil
	}

	var records []CleanedReview
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing cleaned reviews %s: %w", path, err)
	}
	log.Printf("loaded cleaned reviews path=%s count=%d", path, len(records))
	return records, nil
}

// dateRangeSuffix builds the compact <start>_<end> filename suffix from the
// dataset's date strings.
func dateRangeSuffix(dates []string) string {
	start, end := "unknown", "unknown"
	for _, d := range dates {
		if d == "" {
			continue
		}
		if start == "unknown" || d < start {
			start = d
		}
		if end == "unknown" || d > end {
			end = d
		}
	}
	return strings.ReplaceAll(start, "-", "") + "_" + strings.ReplaceAll(end, "-", "")
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Printf("saved json path=%s", path)
	return nil
}

func writeCSVFile(path string, columns []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("writing %s header: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing %s row: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	log.Printf("saved csv path=%s rows=%d", path, len(rows))
	return nil
}

// WriteCleanedOutputs writes the cleaned dataset as {records: [...]} JSON
// plus the parallel fixed-column CSV, named by the dataset's date range.
func WriteCleanedOutputs(dataDir string, records []CleanedReview) (string, string, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", "", fmt.Errorf("creating data dir: %w", err)
	}

	dates := make([]string, len(records))
	for i, r := range records {
		dates[i] = r.Date
	}
	base := "review_transformed_" + dateRangeSuffix(dates)
	jsonPath := filepath.Join(dataDir, base+".json")
	csvPath := filepath.Join(dataDir, base+".csv")

	doc := struct {
		Records []CleanedReview `json:"records"`
	}{Records: records}
	if err := writeJSONFile(jsonPath, doc); err != nil {
		return "", "", err
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ReviewID, r.Date, strconv.Itoa(r.Rating), r.Title, r.Text,
			r.CleanText, strconv.Itoa(r.Relevance), r.Source,
		})
	}
	if err := writeCSVFile(csvPath, cleanedCSVColumns, rows); err != nil {
		return "", "", err
	}
	return jsonPath, csvPath, nil
}

// WriteClassifiedOutputs writes the classified dataset with its summary
// block plus the parallel fixed-column CSV.
func WriteClassifiedOutputs(dataDir string, enriched []EnrichedClassification, summary ClassifySummary) (string, string, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", "", fmt.Errorf("creating data dir: %w", err)
	}

	dates := make([]string, len(enriched))
	for i, r := range enriched {
		dates[i] = r.Date
	}
	base := "review_classified_" + dateRangeSuffix(dates)
	jsonPath := filepath.Join(dataDir, base+".json")
	csvPath := filepath.Join(dataDir, base+".csv")

	doc := struct {
		Records []EnrichedClassification `json:"records"`
		Summary ClassifySummary          `json:"summary"`
	}{Records: enriched, Summary: summary}
	if err := writeJSONFile(jsonPath, doc); err != nil {
		return "", "", err
	}

	rows := make([][]string, 0, len(enriched))
	for _, r := range enriched {
		suggested := ""
		if r.LLMSuggestedTheme != nil {
			suggested = r.LLMSuggestedTheme.String()
		}
		rows = append(rows, []string{
			r.ReviewID, r.Date, strconv.Itoa(r.Rating), r.Sentiment, r.Title, r.Text,
			r.CleanText, r.ReviewTheme.String(),
			strconv.FormatFloat(r.Confidence, 'g', -1, 64), r.Reason,
			suggested, strconv.FormatBool(r.FallbackApplied),
		})
	}
	if err := writeCSVFile(csvPath, classifiedCSVColumns, rows); err != nil {
		return "", "", err
	}
	return jsonPath, csvPath, nil
}
