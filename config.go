package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	LLMBatchSize        int     `yaml:"llm_batch_size"`
	LLMMaxRetries       int     `yaml:"llm_max_retries"`
	LLMTimeoutSeconds   int     `yaml:"llm_timeout_seconds"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	FallbackConfidence  float64 `yaml:"fallback_confidence"`

	MinWordCount int    `yaml:"min_word_count"`
	AppID        string `yaml:"app_id"`
	Source       string `yaml:"source"`

	DataDir   string `yaml:"data_dir"`
	DBPath    string `yaml:"db_path"`
	InputFile string `yaml:"input_file"`

	ScheduleCron string `yaml:"schedule_cron"`
	Timezone     string `yaml:"timezone"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`
}

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideInt(&cfg.LLMBatchSize, "LLM_BATCH_SIZE")
	envOverrideInt(&cfg.LLMMaxRetries, "LLM_MAX_RETRIES")
	envOverrideInt(&cfg.LLMTimeoutSeconds, "LLM_TIMEOUT_SECONDS")
	envOverrideFloat(&cfg.ConfidenceThreshold, "CONFIDENCE_THRESHOLD")
	envOverrideFloat(&cfg.FallbackConfidence, "FALLBACK_CONFIDENCE")
	envOverrideInt(&cfg.MinWordCount, "MIN_WORD_COUNT")
	envOverride(&cfg.AppID, "APP_ID")
	envOverride(&cfg.Source, "SOURCE")
	envOverride(&cfg.DataDir, "DATA_DIR")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.InputFile, "INPUT_FILE")
	envOverride(&cfg.ScheduleCron, "SCHEDULE_CRON")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")

	// Defaults
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultAnthropicModel
	}
	if cfg.LLMBatchSize == 0 {
		cfg.LLMBatchSize = 10
	}
	if cfg.LLMMaxRetries == 0 {
		cfg.LLMMaxRetries = 2
	}
	if cfg.LLMTimeoutSeconds == 0 {
		cfg.LLMTimeoutSeconds = 60
	}
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = 0.4
	}
	if cfg.FallbackConfidence == 0 {
		cfg.FallbackConfidence = 0.45
	}
	if cfg.MinWordCount == 0 {
		cfg.MinWordCount = 10
	}
	if cfg.AppID == "" {
		cfg.AppID = "com.nextbillion.groww"
	}
	if cfg.Source == "" {
		cfg.Source = "google_play"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./reviewpulse.db"
	}
	if cfg.ScheduleCron == "" {
		cfg.ScheduleCron = "0 8 * * 1"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// Validate
	if cfg.LLMBatchSize < 1 {
		log.Fatalf("invalid llm_batch_size '%d': must be >= 1", cfg.LLMBatchSize)
	}
	if cfg.LLMMaxRetries < 0 {
		log.Fatalf("invalid llm_max_retries '%d': must be >= 0", cfg.LLMMaxRetries)
	}
	if cfg.LLMTimeoutSeconds < 1 {
		log.Fatalf("invalid llm_timeout_seconds '%d': must be >= 1", cfg.LLMTimeoutSeconds)
	}
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		log.Fatalf("invalid confidence_threshold '%f': must be between 0 and 1", cfg.ConfidenceThreshold)
	}
	if cfg.FallbackConfidence < 0 || cfg.FallbackConfidence > 1 {
		log.Fatalf("invalid fallback_confidence '%f': must be between 0 and 1", cfg.FallbackConfidence)
	}
	if cfg.MinWordCount < 1 {
		log.Fatalf("invalid min_word_count '%d': must be >= 1", cfg.MinWordCount)
	}

	if cfg.Timezone == "Local" {
		cfg.Timezone = time.Local.String()
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		time.Local = loc
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
