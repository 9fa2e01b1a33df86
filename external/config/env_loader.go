package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/mensetsukan/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                        string        `env:"ENV" envDefault:"production"`
	HTTPAddr                   string        `env:"HTTP_ADDR" envDefault:":8000"`
	EvaluatorAddr              string        `env:"EVALUATOR_ADDR" envDefault:"127.0.0.1:8001"`
	EvaluatorToken             string        `env:"EVALUATOR_TOKEN,required"`
	MaxUploadBytes             int64         `env:"MAX_UPLOAD_BYTES" envDefault:"67108864"`
	ShutdownTimeout            time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	QuestionBankPath           string        `env:"QUESTION_BANK_PATH" envDefault:"questions.yaml"`
	FollowupBudgetCap          int           `env:"FOLLOWUP_BUDGET_CAP" envDefault:"1"`
	RephraseQuestions          bool          `env:"REPHRASE_QUESTIONS" envDefault:"false"`
	DatabaseURL                string        `env:"DATABASE_URL"`
	TranscriberProvider        string        `env:"STT_PROVIDER" envDefault:"openai"`
	TranscribeLanguage         string        `env:"TRANSCRIBE_LANGUAGE" envDefault:"en-US"`
	GoogleCloudProjectID       string        `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string        `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string        `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"us-central1"`
	GoogleCloudSpeechModel     string        `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"chirp_3"`
	GeneratorProvider          string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey               string        `env:"GEMINI_API_KEY"`
	GeminiModel                string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	OpenAIAPIKey               string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL              string        `env:"OPENAI_BASE_URL"`
	OpenAIChatModel            string        `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIWhisperModel         string        `env:"OPENAI_WHISPER_MODEL" envDefault:"whisper-1"`
	OpenAITTSModel             string        `env:"OPENAI_TTS_MODEL" envDefault:"tts-1"`
	OpenAITTSVoice             string        `env:"OPENAI_TTS_VOICE" envDefault:"alloy"`
	TranscribeTimeout          time.Duration `env:"STT_TIMEOUT" envDefault:"45s"`
	SynthesizeTimeout          time.Duration `env:"TTS_TIMEOUT" envDefault:"20s"`
	GenerateTimeout            time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	RecordingsDir              string        `env:"RECORDINGS_DIR" envDefault:"recordings"`
	FFmpegPath                 string        `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	VideoS3Bucket              string        `env:"VIDEO_S3_BUCKET"`
	VideoS3Region              string        `env:"VIDEO_S3_REGION"`
	VideoS3KeyPrefix           string        `env:"VIDEO_S3_KEY_PREFIX" envDefault:"interviews/"`
	ReportTimezone             string        `env:"REPORT_TIMEZONE" envDefault:"UTC"`
	ReportWebhookURL           string        `env:"REPORT_WEBHOOK_URL"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*internalconfig.Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
		slog.Debug("no .env file found; using process environment only")
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		HTTPAddr:                   raw.HTTPAddr,
		EvaluatorAddr:              raw.EvaluatorAddr,
		EvaluatorToken:             raw.EvaluatorToken,
		MaxUploadBytes:             raw.MaxUploadBytes,
		ShutdownTimeout:            raw.ShutdownTimeout,
		QuestionBankPath:           raw.QuestionBankPath,
		FollowupBudgetCap:          raw.FollowupBudgetCap,
		RephraseQuestions:          raw.RephraseQuestions,
		DatabaseURL:                raw.DatabaseURL,
		TranscriberProvider:        raw.TranscriberProvider,
		TranscribeLanguage:         raw.TranscribeLanguage,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		GeneratorProvider:          raw.GeneratorProvider,
		GeminiAPIKey:               raw.GeminiAPIKey,
		GeminiModel:                raw.GeminiModel,
		OpenAIAPIKey:               raw.OpenAIAPIKey,
		OpenAIBaseURL:              raw.OpenAIBaseURL,
		OpenAIChatModel:            raw.OpenAIChatModel,
		OpenAIWhisperModel:         raw.OpenAIWhisperModel,
		OpenAITTSModel:             raw.OpenAITTSModel,
		OpenAITTSVoice:             raw.OpenAITTSVoice,
		TranscribeTimeout:          raw.TranscribeTimeout,
		SynthesizeTimeout:          raw.SynthesizeTimeout,
		GenerateTimeout:            raw.GenerateTimeout,
		RecordingsDir:              raw.RecordingsDir,
		FFmpegPath:                 raw.FFmpegPath,
		VideoS3Bucket:              raw.VideoS3Bucket,
		VideoS3Region:              raw.VideoS3Region,
		VideoS3KeyPrefix:           raw.VideoS3KeyPrefix,
		ReportTimezone:             raw.ReportTimezone,
		ReportWebhookURL:           raw.ReportWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
