package llm

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/mensetsukan/internal/config"
	"github.com/foxseedlab/mensetsukan/internal/llm"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (llm.TextGenerator, error) {
		c := do.MustInvoke[*config.Config](i)
		slog.Info("language model configured", "provider", c.GeneratorProvider)
		if c.GeneratorProvider == config.GeneratorProviderOpenAI {
			gen := NewOpenAIChatGenerator(OpenAIChatConfig{
				APIKey:  c.OpenAIAPIKey,
				BaseURL: c.OpenAIBaseURL,
				Model:   c.OpenAIChatModel,
			})
			return llm.WithTimeout(gen, c.GenerateTimeout), nil
		}
		gen, err := NewGeminiGenerator(context.Background(), GeminiConfig{
			APIKey: c.GeminiAPIKey,
			Model:  c.GeminiModel,
		})
		if err != nil {
			return nil, err
		}
		return llm.WithTimeout(gen, c.GenerateTimeout), nil
	})
}
