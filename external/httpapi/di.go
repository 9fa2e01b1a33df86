package httpapi

import (
	"github.com/foxseedlab/mensetsukan/internal/config"
	"github.com/foxseedlab/mensetsukan/internal/repository"
	"github.com/foxseedlab/mensetsukan/internal/session"
	"github.com/samber/do/v2"
)

type Servers struct {
	Candidate *Server
	Evaluator *Server
}

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Servers, error) {
		cfg := do.MustInvoke[*config.Config](i)
		manager := do.MustInvoke[*session.Manager](i)
		reports := do.MustInvoke[repository.ReportReader](i)
		history := do.MustInvoke[repository.HistoryReader](i)
		return &Servers{
			Candidate: NewServer("candidate", cfg.HTTPAddr, NewCandidateHandler(manager, cfg.MaxUploadBytes)),
			Evaluator: NewServer("evaluator", cfg.EvaluatorAddr, NewEvaluatorHandler(reports, history, cfg.EvaluatorToken)),
		}, nil
	})
}
