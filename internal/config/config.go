package config

import (
	"fmt"
	"time"
)

const (
	TranscriberProviderGoogle = "google"
	TranscriberProviderOpenAI = "openai"

	GeneratorProviderGemini = "gemini"
	GeneratorProviderOpenAI = "openai"
)

type Config struct {
	Env string

	HTTPAddr          string
	EvaluatorAddr     string
	EvaluatorToken    string
	MaxUploadBytes    int64
	ShutdownTimeout   time.Duration
	QuestionBankPath  string
	FollowupBudgetCap int
	RephraseQuestions bool

	DatabaseURL string

	TranscriberProvider        string
	TranscribeLanguage         string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string

	GeneratorProvider string
	GeminiAPIKey      string
	GeminiModel       string

	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIChatModel    string
	OpenAIWhisperModel string
	OpenAITTSModel     string
	OpenAITTSVoice     string

	TranscribeTimeout time.Duration
	SynthesizeTimeout time.Duration
	GenerateTimeout   time.Duration

	RecordingsDir    string
	FFmpegPath       string
	VideoS3Bucket    string
	VideoS3Region    string
	VideoS3KeyPrefix string

	ReportTimezone   string
	ReportWebhookURL string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.FollowupBudgetCap < 0 {
		return fmt.Errorf("FOLLOWUP_BUDGET_CAP must not be negative, got %d", c.FollowupBudgetCap)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{name: "STT_TIMEOUT", value: c.TranscribeTimeout},
		{name: "TTS_TIMEOUT", value: c.SynthesizeTimeout},
		{name: "LLM_TIMEOUT", value: c.GenerateTimeout},
	} {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	if err := c.validateGenerator(); err != nil {
		return err
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for speech synthesis")
	}
	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		return fmt.Errorf("REPORT_TIMEZONE is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	switch c.TranscriberProvider {
	case TranscriberProviderGoogle:
		if c.GoogleCloudProjectID == "" || c.GoogleCloudCredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT_ID and GOOGLE_CLOUD_CREDENTIALS_JSON are required when STT_PROVIDER=google")
		}
	case TranscriberProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when STT_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("STT_PROVIDER must be %q or %q, got %q", TranscriberProviderGoogle, TranscriberProviderOpenAI, c.TranscriberProvider)
	}
	return nil
}

func (c *Config) validateGenerator() error {
	switch c.GeneratorProvider {
	case GeneratorProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case GeneratorProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", GeneratorProviderGemini, GeneratorProviderOpenAI, c.GeneratorProvider)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "HTTP_ADDR", value: c.HTTPAddr},
		{name: "EVALUATOR_ADDR", value: c.EvaluatorAddr},
		{name: "EVALUATOR_TOKEN", value: c.EvaluatorToken},
		{name: "QUESTION_BANK_PATH", value: c.QuestionBankPath},
		{name: "RECORDINGS_DIR", value: c.RecordingsDir},
		{name: "REPORT_TIMEZONE", value: c.ReportTimezone},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) PublishesVideo() bool {
	return c.VideoS3Bucket != ""
}
