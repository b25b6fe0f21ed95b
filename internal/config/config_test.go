package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %s", cfg.OpenAIModel)
	}
	if cfg.ChatMaxTokens != 500 {
		t.Errorf("expected chat max tokens 500, got %d", cfg.ChatMaxTokens)
	}
	if cfg.DocMaxTokens != 1500 {
		t.Errorf("expected doc max tokens 1500, got %d", cfg.DocMaxTokens)
	}
	if cfg.DispatchBatchSize != 10 {
		t.Errorf("expected dispatch batch size 10, got %d", cfg.DispatchBatchSize)
	}
	if cfg.DispatchInterval != time.Minute {
		t.Errorf("expected dispatch interval 1m, got %s", cfg.DispatchInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CHAT_TEMPERATURE", "0.5")
	t.Setenv("DISPATCH_BATCH_SIZE", "25")
	t.Setenv("DISPATCH_INTERVAL", "30s")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.ChatTemperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %f", cfg.ChatTemperature)
	}
	if cfg.DispatchBatchSize != 25 {
		t.Errorf("expected batch size 25, got %d", cfg.DispatchBatchSize)
	}
	if cfg.DispatchInterval != 30*time.Second {
		t.Errorf("expected interval 30s, got %s", cfg.DispatchInterval)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DISPATCH_BATCH_SIZE", "lots")
	t.Setenv("DISPATCH_INTERVAL", "soon")

	cfg := Load()

	if cfg.DispatchBatchSize != 10 {
		t.Errorf("expected fallback batch size 10, got %d", cfg.DispatchBatchSize)
	}
	if cfg.DispatchInterval != time.Minute {
		t.Errorf("expected fallback interval 1m, got %s", cfg.DispatchInterval)
	}
}
