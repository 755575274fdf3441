package main

import (
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// parsedReview carries a review through the cleaning stages before the final
// CleanedReview is stamped.
type parsedReview struct {
	date      time.Time
	dateStr   string
	rating    int
	title     string
	redacted  string
	clean     string
	relevance int
}

// weekBounds returns the Monday and Sunday of the ISO week containing date.
func weekBounds(date time.Time) (time.Time, time.Time) {
	offset := (int(date.Weekday()) + 6) % 7 // Monday = 0
	start := date.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// dedupKey is the canonical text used to detect duplicate reviews.
func dedupKey(clean string) string {
	return strings.TrimSpace(strings.ToLower(clean))
}

// ProcessReviews runs the full cleaning pipeline over a batch of raw
// records: date parsing, PII redaction, normalization, minimum word filter,
// dedup keyed on canonical text keeping the earliest date, week bucketing.
// Output is sorted ascending by date. Dropped records are reflected only in
// the report counters.
func ProcessReviews(cfg Config, raw []RawReview) ([]CleanedReview, ProcessingReport) {
	log.Printf("pipeline start input=%d min_words=%d", len(raw), cfg.MinWordCount)

	var parsed []parsedReview
	for _, r := range raw {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			log.Printf("pipeline skipping review with invalid date %q", r.Date)
			continue
		}

		redacted := RedactPII(r.Text)
		clean := CleanText(redacted)

		if countWords(clean) < cfg.MinWordCount {
			continue
		}

		parsed = append(parsed, parsedReview{
			date:      date,
			dateStr:   r.Date,
			rating:    r.Rating,
			title:     r.Title,
			redacted:  redacted,
			clean:     clean,
			relevance: r.Relevance,
		})
	}
	log.Printf("pipeline after min word filter kept=%d", len(parsed))

	// Dedup on canonical clean text, keeping the earliest-dated instance.
	// Ties keep the first one encountered.
	seen := make(map[string]int, len(parsed))
	var kept []parsedReview
	duplicates := 0
	for _, pr := range parsed {
		key := dedupKey(pr.clean)
		idx, ok := seen[key]
		if !ok {
			seen[key] = len(kept)
			kept = append(kept, pr)
			continue
		}
		duplicates++
		if pr.date.Before(kept[idx].date) {
			kept[idx] = pr
		}
	}
	log.Printf("pipeline dedup removed=%d kept=%d", duplicates, len(kept))

	out := make([]CleanedReview, 0, len(kept))
	for _, pr := range kept {
		weekStart, weekEnd := weekBounds(pr.date)
		out = append(out, CleanedReview{
			ReviewID:      uuid.NewString(),
			Date:          pr.dateStr,
			WeekStartDate: weekStart.Format(dateLayout),
			WeekEndDate:   weekEnd.Format(dateLayout),
			Rating:        pr.rating,
			Title:         pr.title,
			Text:          pr.redacted,
			CleanText:     pr.clean,
			Relevance:     pr.relevance,
			Source:        cfg.Source,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	report := buildReport(cfg, len(raw), len(parsed), duplicates, out)
	log.Printf("pipeline done output=%d", len(out))
	return out, report
}
