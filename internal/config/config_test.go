package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:   HTTPConfig{Port: 8080},
		Corpus: CorpusConfig{Path: "products.json"},
	}
}

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Budget = BudgetConfig{
		DailyTokenLimit: 1000000,
		Action:          "invalid_action",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `embedding.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	validActions := []string{"", "warn", "reject"}

	for _, action := range validActions {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.Embedding.Budget.Action = action

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingCorpusPath(t *testing.T) {
	cfg := validConfig()
	cfg.Corpus.Path = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing corpus path")
	}
}

func TestValidate_DefaultKAboveMaxK(t *testing.T) {
	cfg := validConfig()
	cfg.Search = SearchConfig{DefaultK: 100, MaxK: 50}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default_k exceeds max_k")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.APIKey = "shared-key"
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("ReadTimeoutSec = %d, want 10", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("Embedding.Model = %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 512 {
		t.Errorf("Embedding.Dimensions = %d, want 512", cfg.Embedding.Dimensions)
	}
	if cfg.Chat.HistoryCap != 10 {
		t.Errorf("Chat.HistoryCap = %d, want 10", cfg.Chat.HistoryCap)
	}
	if cfg.Chat.APIKey != "shared-key" {
		t.Errorf("Chat.APIKey = %q, want embedding key fallback", cfg.Chat.APIKey)
	}
	if cfg.Search.DefaultK != 3 || cfg.Search.MaxK != 50 {
		t.Errorf("Search defaults = %d/%d, want 3/50", cfg.Search.DefaultK, cfg.Search.MaxK)
	}
	if cfg.Redis.SessionTTLHours != 24 {
		t.Errorf("Redis.SessionTTLHours = %d, want 24", cfg.Redis.SessionTTLHours)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}

	yaml := `
http:
  port: 8080
corpus:
  path: ${PRODEX_TEST_CORPUS:-products.json}
embedding:
  api_key: ${PRODEX_TEST_KEY}
`
	if err := os.WriteFile(filepath.Join(configDir, "test.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PRODEX_TEST_KEY", "secret-key")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Embedding.APIKey != "secret-key" {
		t.Errorf("APIKey = %q, want expanded env value", cfg.Embedding.APIKey)
	}
	if cfg.Corpus.Path != "products.json" {
		t.Errorf("Corpus.Path = %q, want default fallback", cfg.Corpus.Path)
	}
}
