package synthesizer

import (
	"github.com/foxseedlab/mensetsukan/internal/config"
	"github.com/foxseedlab/mensetsukan/internal/synthesizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (synthesizer.Synthesizer, error) {
		c := do.MustInvoke[*config.Config](i)
		engine := NewOpenAITTS(OpenAITTSConfig{
			APIKey:  c.OpenAIAPIKey,
			BaseURL: c.OpenAIBaseURL,
			Model:   c.OpenAITTSModel,
			Voice:   c.OpenAITTSVoice,
		})
		return synthesizer.NewBridge(engine, c.SynthesizeTimeout), nil
	})
}
