package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/foxseedlab/mensetsukan/internal/transcriber"
	openai "github.com/sashabaranov/go-openai"
)

type WhisperConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

type WhisperTranscriber struct {
	client   *openai.Client
	model    string
	language string
}

func NewWhisperTranscriber(cfg WhisperConfig) *WhisperTranscriber {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &WhisperTranscriber{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    cfg.Model,
		language: whisperLanguage(cfg.Language),
	}
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio transcriber.Audio) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: uploadName(audio),
		Reader:   bytes.NewReader(audio.Data),
		Language: w.language,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	return resp.Text, nil
}

// whisperLanguage reduces a BCP-47 tag such as en-US to the ISO-639-1 code
// the transcription endpoint expects.
func whisperLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

// uploadName picks a filename whose extension lets the endpoint sniff the container.
func uploadName(audio transcriber.Audio) string {
	if audio.Filename != "" && strings.Contains(audio.Filename, ".") {
		return audio.Filename
	}
	mime := strings.ToLower(audio.MimeType)
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	switch strings.TrimSpace(mime) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "answer.wav"
	case "audio/mpeg", "audio/mp3":
		return "answer.mp3"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "answer.m4a"
	case "audio/ogg":
		return "answer.ogg"
	default:
		return "answer.webm"
	}
}
