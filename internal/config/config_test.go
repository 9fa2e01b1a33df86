package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Env:                 "development",
		HTTPAddr:            ":8000",
		EvaluatorAddr:       ":8001",
		EvaluatorToken:      "secret",
		MaxUploadBytes:      32 << 20,
		QuestionBankPath:    "questions.yaml",
		FollowupBudgetCap:   1,
		TranscriberProvider: TranscriberProviderOpenAI,
		GeneratorProvider:   GeneratorProviderGemini,
		GeminiAPIKey:        "gemini-key",
		OpenAIAPIKey:        "openai-key",
		TranscribeTimeout:   30 * time.Second,
		SynthesizeTimeout:   15 * time.Second,
		GenerateTimeout:     20 * time.Second,
		RecordingsDir:       "recordings",
		ReportTimezone:      "UTC",
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when required fields are missing")
	}
}

func TestValidate_NegativeBudget(t *testing.T) {
	cfg := validConfig()
	cfg.FollowupBudgetCap = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative follow-up budget")
	}
}

func TestValidate_NonPositiveTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.TranscribeTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero transcription timeout")
	}
}

func TestValidate_GoogleTranscriberNeedsCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.TranscriberProvider = TranscriberProviderGoogle
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when google credentials are missing")
	}
	cfg.GoogleCloudProjectID = "project-id"
	cfg.GoogleCloudCredentialsJSON = `{"type":"service_account"}`
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_UnknownProviders(t *testing.T) {
	cfg := validConfig()
	cfg.GeneratorProvider = "claude"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown generator provider")
	}
	cfg = validConfig()
	cfg.TranscriberProvider = "vosk"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown transcriber provider")
	}
}

func TestValidate_InvalidTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.ReportTimezone = "Mars/Olympus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development mode")
	}
	cfg.Env = "production"
	if cfg.IsDevelopment() {
		t.Fatal("expected non-development mode")
	}
}
