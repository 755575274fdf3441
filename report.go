package main

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

func buildReport(cfg Config, totalInput, afterFilter, duplicatesRemoved int, out []CleanedReview) ProcessingReport {
	ratingDist := make(map[int]int)
	weekCounts := make(map[string]WeekCount)
	for _, r := range out {
		ratingDist[r.Rating]++
		key := r.WeekStartDate
		wc := weekCounts[key]
		wc.WeekStart = r.WeekStartDate
		wc.WeekEnd = r.WeekEndDate
		wc.Count++
		weekCounts[key] = wc
	}

	weekly := make([]WeekCount, 0, len(weekCounts))
	for _, wc := range weekCounts {
		weekly = append(weekly, wc)
	}
	sort.Slice(weekly, func(i, j int) bool { return weekly[i].WeekStart < weekly[j].WeekStart })

	examples := out
	if len(examples) > 3 {
		examples = examples[:3]
	}

	return ProcessingReport{
		Timestamp:          time.Now().Format(time.RFC3339),
		TotalInput:         totalInput,
		AfterMinWordFilter: afterFilter,
		DuplicatesRemoved:  duplicatesRemoved,
		TotalOutput:        len(out),
		FiltersApplied: FiltersApplied{
			MinWordCount:      cfg.MinWordCount,
			PIIRedaction:      true,
			EmojiRemoval:      true,
			TextNormalization: true,
			Deduplication:     true,
		},
		RatingDistribution: ratingDist,
		WeeklyDistribution: weekly,
		ExampleRecords:     examples,
	}
}

// FormatReport renders a ProcessingReport for the console.
func FormatReport(report ProcessingReport) string {
	var b strings.Builder
	rule := strings.Repeat("=", 80)

	fmt.Fprintf(&b, "%s\nREVIEW PROCESSING REPORT\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Timestamp: %s\n\n", report.Timestamp)
	fmt.Fprintf(&b, "Total reviews input: %d\n", report.TotalInput)
	fmt.Fprintf(&b, "After minimum word count filter (%d words): %d\n", report.FiltersApplied.MinWordCount, report.AfterMinWordFilter)
	fmt.Fprintf(&b, "Duplicates removed: %d\n", report.DuplicatesRemoved)
	fmt.Fprintf(&b, "Total reviews output: %d\n", report.TotalOutput)

	fmt.Fprintf(&b, "\nRating distribution:\n")
	for rating := 1; rating <= 5; rating++ {
		fmt.Fprintf(&b, "  %d-star: %d reviews\n", rating, report.RatingDistribution[rating])
	}

	fmt.Fprintf(&b, "\nWeekly distribution:\n")
	for _, wc := range report.WeeklyDistribution {
		fmt.Fprintf(&b, "  %s to %s: %d reviews\n", wc.WeekStart, wc.WeekEnd, wc.Count)
	}

	if len(report.ExampleRecords) > 0 {
		fmt.Fprintf(&b, "\nExample records:\n")
		for i, rec := range report.ExampleRecords {
			fmt.Fprintf(&b, "  %d. %s | %d-star | week %s to %s | %s\n",
				i+1, rec.Date, rec.Rating, rec.WeekStartDate, rec.WeekEndDate, truncateText(rec.CleanText, 80))
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}

// FormatClassifySummary renders a ClassifySummary for the console and for
// the Slack notification.
func FormatClassifySummary(summary ClassifySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classified %d of %d reviews\n", summary.TotalOutput, summary.TotalInput)
	for _, theme := range allThemes {
		fmt.Fprintf(&b, "  %s: %d\n", theme, summary.CountsByTheme[theme.String()])
	}
	fmt.Fprintf(&b, "Fallbacks applied: %d\n", summary.RePromptsOrFallbacks)
	fmt.Fprintf(&b, "Average confidence: %.2f\n", summary.AverageConfidence)
	return b.String()
}
