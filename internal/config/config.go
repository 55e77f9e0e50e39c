package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	BrightDataAPIKey    string
	SerpZone            string
	GPTDatasetID        string
	PerplexityDatasetID string
	OpenAIAPIKey        string
	GroqAPIKey          string
	DatabaseURL         string
	ResearchAPIKey      string
	HTTPAddr            string
	PollTimeoutSeconds  int
}

// Load loads configuration from environment variables
func Load() Config {
	return Config{
		BrightDataAPIKey:    os.Getenv("BRIGHTDATA_API_KEY"),
		SerpZone:            os.Getenv("BRIGHTDATA_SERP_ZONE"),
		GPTDatasetID:        os.Getenv("BRIGHTDATA_GPT_DATASET_ID"),
		PerplexityDatasetID: os.Getenv("BRIGHTDATA_PERPLEXITY_DATASET_ID"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		ResearchAPIKey:      os.Getenv("RESEARCH_API_KEY"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		PollTimeoutSeconds:  getEnvInt("POLL_TIMEOUT_SECONDS", 120),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
