package transcriber

import (
	"log/slog"

	"github.com/foxseedlab/mensetsukan/internal/config"
	"github.com/foxseedlab/mensetsukan/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Transcriber, error) {
		c := do.MustInvoke[*config.Config](i)
		var engine transcriber.Transcriber
		switch c.TranscriberProvider {
		case config.TranscriberProviderGoogle:
			engine = NewCloudSpeechTranscriber(CloudSpeechConfig{
				ProjectID:       c.GoogleCloudProjectID,
				CredentialsJSON: c.GoogleCloudCredentialsJSON,
				Language:        c.TranscribeLanguage,
				Location:        c.GoogleCloudSpeechLocation,
				Model:           c.GoogleCloudSpeechModel,
			})
		default:
			engine = NewWhisperTranscriber(WhisperConfig{
				APIKey:   c.OpenAIAPIKey,
				BaseURL:  c.OpenAIBaseURL,
				Model:    c.OpenAIWhisperModel,
				Language: c.TranscribeLanguage,
			})
		}
		slog.Info("transcriber configured", "provider", c.TranscriberProvider, "timeout", c.TranscribeTimeout)
		return transcriber.NewBridge(engine, c.TranscribeTimeout), nil
	})
}
