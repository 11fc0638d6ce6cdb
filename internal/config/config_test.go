package config

import (
	"testing"
	"time"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("JIRA_DOMAIN", "https://example.atlassian.net")
	t.Setenv("JIRA_EMAIL", "dev@example.com")
	t.Setenv("JIRA_APIKEY", "secret")
	t.Setenv("JIRA_OUTPUT_FILE", "custom.csv")
	t.Setenv("JIRA_REQUEST_DELAY_MS", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Jira.Domain != "https://example.atlassian.net" {
		t.Errorf("domain = %q", cfg.Jira.Domain)
	}
	if cfg.Jira.RequestDelay != 500*time.Millisecond {
		t.Errorf("request delay = %v, want 500ms", cfg.Jira.RequestDelay)
	}
	if cfg.OutputFile != "custom.csv" {
		t.Errorf("output file = %q, want custom.csv", cfg.OutputFile)
	}
}

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("SOME_SET_KEY", "set")
	if got := getEnv("SOME_SET_KEY", "fallback"); got != "set" {
		t.Errorf("getEnv() = %q, want set", got)
	}
	if got := getEnv("SOME_UNSET_KEY_FOR_TEST", "fallback"); got != "fallback" {
		t.Errorf("getEnv() = %q, want fallback", got)
	}
}
