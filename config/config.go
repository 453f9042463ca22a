package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ScrapeModeHTTP    = "http"
	ScrapeModeBrowser = "browser"
)

// Config holds all application configuration. Values come from the
// environment (optionally a .env file) and may be overridden by a YAML file
// named in PRICER_CONFIG.
type Config struct {
	MarketplaceURL    string `yaml:"marketplace_url"`
	ScrapeMode        string `yaml:"scrape_mode"`
	UserAgent         string `yaml:"user_agent"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	MaxRetries        int    `yaml:"max_retries"`
	RetryBaseDelayMs  int    `yaml:"retry_base_delay_ms"`
	ChromeBin         string `yaml:"chrome_bin"`

	LogLevel string `yaml:"log_level"`

	DefaultMorph string `yaml:"default_morph"`
	DefaultCost  int    `yaml:"default_cost"`

	TelegramToken        string  `yaml:"telegram_token"`
	TelegramAllowedUsers []int64 `yaml:"telegram_allowed_users"`
}

// Load reads the .env file, the environment and the optional YAML overlay.
// Only a broken overlay file is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := fromEnv()
	if path := os.Getenv("PRICER_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		MarketplaceURL:    getEnv("MARKETPLACE_URL", "https://www.morphmarket.com/us/search"),
		ScrapeMode:        strings.ToLower(getEnv("SCRAPE_MODE", ScrapeModeHTTP)),
		UserAgent:         getEnv("USER_AGENT", "Mozilla/5.0"),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 30),
		MaxRetries:        getEnvInt("MAX_RETRIES", 1),
		RetryBaseDelayMs:  getEnvInt("RETRY_BASE_DELAY_MS", 2000),
		ChromeBin:         getEnv("CHROME_BIN", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		DefaultMorph: getEnv("DEFAULT_MORPH", "Banana Ball Python"),
		DefaultCost:  getEnvInt("DEFAULT_COST", 200),

		TelegramToken:        getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAllowedUsers: getEnvInt64List("TELEGRAM_ALLOWED_USERS"),
	}
}

// overlayFile applies every non-zero field of the YAML file at path.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %q: %w", path, err)
	}
	return c.overlay(data)
}

func (c *Config) overlay(data []byte) error {
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}

	setString(&c.MarketplaceURL, file.MarketplaceURL)
	setString(&c.ScrapeMode, strings.ToLower(file.ScrapeMode))
	setString(&c.UserAgent, file.UserAgent)
	setInt(&c.RequestTimeoutSec, file.RequestTimeoutSec)
	setInt(&c.MaxRetries, file.MaxRetries)
	setInt(&c.RetryBaseDelayMs, file.RetryBaseDelayMs)
	setString(&c.ChromeBin, file.ChromeBin)
	setString(&c.LogLevel, file.LogLevel)
	setString(&c.DefaultMorph, file.DefaultMorph)
	setInt(&c.DefaultCost, file.DefaultCost)
	setString(&c.TelegramToken, file.TelegramToken)
	if len(file.TelegramAllowedUsers) > 0 {
		c.TelegramAllowedUsers = file.TelegramAllowedUsers
	}
	return nil
}

// maxDefaultCost matches the largest cost the front ends accept.
const maxDefaultCost int64 = 1_000_000_000_000

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	switch c.ScrapeMode {
	case ScrapeModeHTTP, ScrapeModeBrowser:
	default:
		return fmt.Errorf("config: unknown scrape mode %q (want %q or %q)",
			c.ScrapeMode, ScrapeModeHTTP, ScrapeModeBrowser)
	}
	if c.MarketplaceURL == "" {
		return fmt.Errorf("config: marketplace URL is empty")
	}
	if c.RequestTimeoutSec <= 0 {
		return fmt.Errorf("config: request timeout must be positive, got %d", c.RequestTimeoutSec)
	}
	if c.DefaultCost < 0 {
		return fmt.Errorf("config: default cost must not be negative, got %d", c.DefaultCost)
	}
	if int64(c.DefaultCost) > maxDefaultCost {
		return fmt.Errorf("config: default cost must be at most %d, got %d", maxDefaultCost, c.DefaultCost)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

// getEnvInt64List parses a comma-separated list, skipping malformed entries.
func getEnvInt64List(key string) []int64 {
	var ids []int64
	for _, part := range strings.Split(os.Getenv(key), ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
