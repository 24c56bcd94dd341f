package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	SupabaseURL   string
	SupabaseKey   string
	OpenAIAPIKey  string
	OpenAIModel   string
}

func LoadConfig() (*Config, error) {
	// The .env file is a local convenience; deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		SupabaseURL:   os.Getenv("SUPABASE_URL"),
		SupabaseKey:   os.Getenv("SUPABASE_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	return cfg, nil
}

// HasSupabase reports whether persistent storage is configured. Without
// it the bot runs on the in-memory store.
func (c *Config) HasSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// HasOpenAI reports whether the semantic tier is configured.
func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
