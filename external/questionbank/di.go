package questionbank

import (
	"log/slog"

	"github.com/foxseedlab/mensetsukan/internal/config"
	"github.com/foxseedlab/mensetsukan/internal/question"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*question.Bank, error) {
		cfg := do.MustInvoke[*config.Config](i)
		bank, err := LoadFile(cfg.QuestionBankPath)
		if err != nil {
			return nil, err
		}
		slog.Info("question bank loaded", "path", cfg.QuestionBankPath, "questions", bank.Len())
		return bank, nil
	})
}
