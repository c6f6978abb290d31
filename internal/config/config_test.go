package config

import "testing"

// clearEnv blanks every variable New reads so values from the host
// environment can't leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MIN_DAYS", "MAX_DAYS", "BATCH_SIZE", "MAX_FOLLOW_UPS",
		"DISABLE_SEND_FOLLOWUP", "USE_AI", "SENDER_NAME", "INTENT_MARKER",
		"REPORT_DIR", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
		"FOLLOWUP_TEMPLATE_1", "FOLLOWUP_TEMPLATE_2", "FOLLOWUP_TEMPLATE_3",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("MAILNUDGE_CONFIG_DIR", t.TempDir())
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.MinDays != 2 || cfg.MaxDays != 30 || cfg.BatchSize != 20 || cfg.MaxFollowUps != 3 {
		t.Fatalf("defaults wrong: %+v", cfg)
	}
	if cfg.DisableSend || cfg.UseAI {
		t.Fatalf("boolean defaults wrong: %+v", cfg)
	}
	if len(cfg.Templates) != 3 {
		t.Fatalf("templates = %d; want 3", len(cfg.Templates))
	}
	if cfg.IntentMarker != "interest in" {
		t.Fatalf("intent marker = %q", cfg.IntentMarker)
	}
}

func TestNew_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIN_DAYS", "5")
	t.Setenv("MAX_DAYS", "60")
	t.Setenv("DISABLE_SEND_FOLLOWUP", "1")
	t.Setenv("INTENT_MARKER", "Application For")
	t.Setenv("FOLLOWUP_TEMPLATE_2", "custom second template")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.MinDays != 5 || cfg.MaxDays != 60 {
		t.Fatalf("window wrong: %+v", cfg)
	}
	if !cfg.DisableSend {
		t.Fatal("DISABLE_SEND_FOLLOWUP=1 not honored")
	}
	if cfg.IntentMarker != "application for" {
		t.Fatalf("intent marker not lowercased: %q", cfg.IntentMarker)
	}
	if cfg.Templates[1] != "custom second template" {
		t.Fatalf("template override lost: %q", cfg.Templates[1])
	}
	if cfg.Templates[0] == "" || cfg.Templates[2] == "" {
		t.Fatal("untouched templates must keep defaults")
	}
}

func TestNew_InvalidWindow(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIN_DAYS", "30")
	t.Setenv("MAX_DAYS", "30")

	if _, err := New(); err == nil {
		t.Fatal("MAX_DAYS == MIN_DAYS must be rejected")
	}
}

func TestNew_AIRequiresKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("USE_AI", "true")

	if _, err := New(); err == nil {
		t.Fatal("USE_AI without OPENAI_API_KEY must be rejected")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := New()
	if err != nil {
		t.Fatalf("New with key: %v", err)
	}
	if !cfg.UseAI {
		t.Fatal("UseAI not set")
	}
}
