package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/slack-go/slack"
)

func main() {
	processPath := flag.String("process", "", "process a raw review JSON file")
	classifyPath := flag.String("classify", "", "classify a cleaned review JSON file")
	runPath := flag.String("run", "", "process then classify a raw review JSON file")
	serve := flag.Bool("serve", false, "run on the configured cron schedule")
	flag.Parse()

	cfg := LoadConfig()

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	needsLLM := *classifyPath != "" || *runPath != "" || *serve
	if needsLLM && cfg.AnthropicAPIKey == "" {
		log.Fatalf("anthropic_api_key is required for classification (via config.yaml or ANTHROPIC_API_KEY)")
	}

	switch {
	case *processPath != "":
		if _, _, err := runProcess(cfg, db, *processPath); err != nil {
			log.Fatalf("Processing failed: %v", err)
		}
	case *classifyPath != "":
		reviews, err := LoadCleanedReviews(*classifyPath)
		if err != nil {
			log.Fatalf("Classification failed: %v", err)
		}
		if _, err := runClassify(context.Background(), cfg, db, reviews); err != nil {
			log.Fatalf("Classification failed: %v", err)
		}
	case *runPath != "":
		if err := runFull(cfg, db, *runPath); err != nil {
			log.Fatalf("Run failed: %v", err)
		}
	case *serve:
		if cfg.InputFile == "" {
			log.Fatalf("input_file is required for scheduled runs (via config.yaml or INPUT_FILE)")
		}
		c, err := StartScheduler(cfg, func() {
			if err := runFull(cfg, db, cfg.InputFile); err != nil {
				log.Printf("scheduled run failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer c.Stop()
		log.Println("Starting Review Pulse scheduler...")
		select {}
	default:
		flag.Usage()
	}
}

func runProcess(cfg Config, db *sql.DB, path string) ([]CleanedReview, ProcessingReport, error) {
	raw, err := LoadRawReviews(path)
	if err != nil {
		return nil, ProcessingReport{}, err
	}

	cleaned, report := ProcessReviews(cfg, raw)

	if _, _, err := WriteCleanedOutputs(cfg.DataDir, cleaned); err != nil {
		return nil, ProcessingReport{}, err
	}
	inserted, err := InsertCleanedReviews(db, cleaned)
	if err != nil {
		return nil, ProcessingReport{}, fmt.Errorf("storing cleaned reviews: %w", err)
	}
	log.Printf("stored cleaned reviews inserted=%d", inserted)

	fmt.Print(FormatReport(report))
	return cleaned, report, nil
}

func runClassify(ctx context.Context, cfg Config, db *sql.DB, reviews []CleanedReview) (ClassifySummary, error) {
	call := newAnthropicCaller(cfg)

	classifications, stats, err := ClassifyReviews(ctx, cfg, reviews, call, time.Sleep)
	if err != nil {
		return ClassifySummary{}, err
	}

	enriched := EnrichClassifications(classifications, reviews)
	summary := SummarizeClassifications(enriched, len(reviews))

	if _, _, err := WriteClassifiedOutputs(cfg.DataDir, enriched, summary); err != nil {
		return ClassifySummary{}, err
	}
	if err := InsertClassifications(db, classifications, cfg.LLMModel); err != nil {
		return ClassifySummary{}, fmt.Errorf("storing classifications: %w", err)
	}

	log.Printf("classification summary fallbacks=%d avg_confidence=%.2f", stats.Total, summary.AverageConfidence)
	fmt.Print(FormatClassifySummary(summary))
	return summary, nil
}

func runFull(cfg Config, db *sql.DB, path string) error {
	cleaned, report, err := runProcess(cfg, db, path)
	if err != nil {
		return err
	}

	summary, err := runClassify(context.Background(), cfg, db, cleaned)
	if err != nil {
		return err
	}

	if cfg.SlackBotToken != "" && cfg.SlackChannelID != "" {
		api := slack.New(cfg.SlackBotToken)
		if err := NotifyRunSummary(api, cfg.SlackChannelID, report, summary); err != nil {
			log.Printf("slack notification failed: %v", err)
		}
	}
	return nil
}
