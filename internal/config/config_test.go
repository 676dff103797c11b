package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	tempFile, err := os.CreateTemp("", "config_test.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	configContent := `
api:
  base_url: "https://cardano-preprod.blockfrost.io/api/v0"
  project_id: "preprodXYZ"
  request_timeout: 10s
  max_retries: 5
  rate_limit:
    requests_per_second: 5
    burst_size: 5
audit:
  page_size: 50
  pause_between_calls: 250ms
  max_transactions: 1000
nats:
  url: "nats://localhost:4222"
  subject_prefix: "auditor"
`

	if _, err = tempFile.WriteString(configContent); err != nil {
		t.Fatalf("Failed to write config content: %v", err)
	}
	tempFile.Close()

	cfg, err := Load(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.API.BaseURL != "https://cardano-preprod.blockfrost.io/api/v0" {
		t.Errorf("Unexpected base URL: %s", cfg.API.BaseURL)
	}
	if cfg.API.ProjectID != "preprodXYZ" {
		t.Errorf("Unexpected project id: %s", cfg.API.ProjectID)
	}
	if cfg.API.RequestTimeout != 10*time.Second {
		t.Errorf("Expected request timeout 10s, got %v", cfg.API.RequestTimeout)
	}
	if cfg.API.MaxRetries != 5 {
		t.Errorf("Expected 5 max retries, got %d", cfg.API.MaxRetries)
	}
	if cfg.API.RateLimit.RequestsPerSecond != 5 {
		t.Errorf("Expected 5 rps, got %d", cfg.API.RateLimit.RequestsPerSecond)
	}
	if cfg.Audit.PageSize != 50 {
		t.Errorf("Expected page size 50, got %d", cfg.Audit.PageSize)
	}
	if cfg.Audit.PauseBetweenCalls != 250*time.Millisecond {
		t.Errorf("Expected 250ms pause, got %v", cfg.Audit.PauseBetweenCalls)
	}
	if cfg.Audit.MaxTransactions != 1000 {
		t.Errorf("Expected max 1000 transactions, got %d", cfg.Audit.MaxTransactions)
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("Unexpected NATS URL: %s", cfg.NATS.URL)
	}
	if cfg.NATS.SubjectPrefix != "auditor" {
		t.Errorf("Unexpected subject prefix: %s", cfg.NATS.SubjectPrefix)
	}
}

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	tempFile, err := os.CreateTemp("", "config_defaults_test.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err = tempFile.WriteString("api:\n  project_id: \"mainnetABC\"\n"); err != nil {
		t.Fatalf("Failed to write config content: %v", err)
	}
	tempFile.Close()

	cfg, err := Load(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.API.RequestTimeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", cfg.API.RequestTimeout)
	}
	if cfg.Audit.PageSize != 100 {
		t.Errorf("Expected default page size 100, got %d", cfg.Audit.PageSize)
	}
	if cfg.Audit.PauseBetweenCalls != 100*time.Millisecond {
		t.Errorf("Expected default 100ms pause, got %v", cfg.Audit.PauseBetweenCalls)
	}
}

func TestLoadConfig_ProjectIDFromEnv(t *testing.T) {
	tempFile, err := os.CreateTemp("", "config_env_test.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err = tempFile.WriteString("api:\n  project_id_env: \"AUDITOR_TEST_PROJECT_ID\"\n"); err != nil {
		t.Fatalf("Failed to write config content: %v", err)
	}
	tempFile.Close()

	t.Setenv("AUDITOR_TEST_PROJECT_ID", "fromEnv123")

	cfg, err := Load(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.API.ProjectID != "fromEnv123" {
		t.Errorf("Expected project id from env, got %s", cfg.API.ProjectID)
	}
}

func TestLoadConfig_MissingProjectID(t *testing.T) {
	tempFile, err := os.CreateTemp("", "config_noid_test.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err = tempFile.WriteString("api:\n  project_id_env: \"AUDITOR_TEST_UNSET_VAR\"\n"); err != nil {
		t.Fatalf("Failed to write config content: %v", err)
	}
	tempFile.Close()

	if _, err := Load(tempFile.Name()); err == nil {
		t.Error("Expected error when project id is missing")
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	if _, err := Load("/non/existent/config.yaml"); err == nil {
		t.Error("Expected error when loading non-existent config file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tempFile, err := os.CreateTemp("", "invalid_config_test.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	invalidContent := `
api:
  max_retries: "not a number"
`

	if _, err = tempFile.WriteString(invalidContent); err != nil {
		t.Fatalf("Failed to write invalid config content: %v", err)
	}
	tempFile.Close()

	if _, err = Load(tempFile.Name()); err == nil {
		t.Error("Expected error when loading invalid config")
	}
}
