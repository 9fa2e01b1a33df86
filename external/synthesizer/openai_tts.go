package synthesizer

import (
	"context"
	"fmt"
	"io"

	"github.com/foxseedlab/mensetsukan/internal/synthesizer"
	openai "github.com/sashabaranov/go-openai"
)

const speechContentType = "audio/wav"

type OpenAITTSConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
}

type OpenAITTS struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
}

func NewOpenAITTS(cfg OpenAITTSConfig) *OpenAITTS {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := openai.SpeechModel(cfg.Model)
	if model == "" {
		model = openai.TTSModel1
	}
	voice := openai.SpeechVoice(cfg.Voice)
	if voice == "" {
		voice = openai.VoiceAlloy
	}
	return &OpenAITTS{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		voice:  voice,
	}
}

func (s *OpenAITTS) Synthesize(ctx context.Context, text string) (synthesizer.Speech, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		return synthesizer.Speech{}, fmt.Errorf("openai speech: %w", err)
	}
	defer func() { _ = resp.Close() }()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return synthesizer.Speech{}, fmt.Errorf("read speech body: %w", err)
	}
	return synthesizer.Speech{Audio: audio, ContentType: speechContentType}, nil
}
