package main

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// NotifyRunSummary posts the run outcome to the configured channel. Slack is
// optional; callers skip this when no token is configured.
func NotifyRunSummary(api *slack.Client, channelID string, report ProcessingReport, summary ClassifySummary) error {
	msg := fmt.Sprintf(
		"*Review pulse run complete*\nProcessed %d raw reviews, kept %d cleaned (%d duplicates removed)\n%s",
		report.TotalInput, report.TotalOutput, report.DuplicatesRemoved,
		FormatClassifySummary(summary),
	)

	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(msg, false))
	if err != nil {
		return fmt.Errorf("posting run summary: %w", err)
	}
	log.Printf("slack run summary posted channel=%s", channelID)
	return nil
}
