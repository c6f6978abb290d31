package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Default templates used when no FOLLOWUP_TEMPLATE_n variables are set.
var defaultTemplates = []string{
	"I hope you are doing well.\nI just wanted to check in and gently follow up with you on my previous message. Looking forward to hearing back from you.\n\nThank you for your time and consideration.",
	"I just wanted to follow up on my last message.\n\nPlease let me know if you have any questions.",
	"Hope you're well!\n\nJust following up regarding my earlier email.",
}

// Config holds every knob the pipeline reads. It is built once at startup
// and passed around; nothing reads the environment after New returns.
type Config struct {
	MinDays      int
	MaxDays      int
	BatchSize    int64
	MaxFollowUps int
	DisableSend  bool
	Templates    []string
	IntentMarker string // lower-cased subject prefix scoping the scan
	SenderName   string // optional display-name override for the signature
	ReportDir    string
	ConfigDir    string // client_secret.json, token.json and the ledger live here

	UseAI         bool
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

// New loads an optional .env file, then reads the environment into an
// immutable Config with the documented defaults.
func New() (*Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	configDir := os.Getenv("MAILNUDGE_CONFIG_DIR")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("determine home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "mailnudge")
	}

	cfg := &Config{
		MinDays:      intEnv("MIN_DAYS", 2),
		MaxDays:      intEnv("MAX_DAYS", 30),
		BatchSize:    int64(intEnv("BATCH_SIZE", 20)),
		MaxFollowUps: intEnv("MAX_FOLLOW_UPS", 3),
		DisableSend:  boolEnv("DISABLE_SEND_FOLLOWUP", false),
		Templates:    templatesFromEnv(),
		IntentMarker: strings.ToLower(envOrDefault("INTENT_MARKER", "interest in")),
		SenderName:   os.Getenv("SENDER_NAME"),
		ReportDir:    envOrDefault("REPORT_DIR", "."),
		ConfigDir:    configDir,

		UseAI:         boolEnv("USE_AI", false),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-5-nano"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MinDays < 0 {
		return fmt.Errorf("MIN_DAYS must be >= 0, got %d", c.MinDays)
	}
	if c.MaxDays <= c.MinDays {
		return fmt.Errorf("MAX_DAYS (%d) must be greater than MIN_DAYS (%d)", c.MaxDays, c.MinDays)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.MaxFollowUps < 0 {
		return fmt.Errorf("MAX_FOLLOW_UPS must be >= 0, got %d", c.MaxFollowUps)
	}
	if len(c.Templates) == 0 {
		return fmt.Errorf("at least one follow-up template is required")
	}
	if c.IntentMarker == "" {
		return fmt.Errorf("INTENT_MARKER must not be empty")
	}
	if c.UseAI && c.OpenAIKey == "" {
		return fmt.Errorf("USE_AI is set but OPENAI_API_KEY is missing")
	}
	return nil
}

// templatesFromEnv reads FOLLOWUP_TEMPLATE_1..3, keeping each default when
// the corresponding variable is unset or blank.
func templatesFromEnv() []string {
	out := make([]string, len(defaultTemplates))
	for i, def := range defaultTemplates {
		out[i] = envOrDefault(fmt.Sprintf("FOLLOWUP_TEMPLATE_%d", i+1), def)
	}
	return out
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
