package session

import (
	"github.com/foxseedlab/mensetsukan/internal/config"
	"github.com/foxseedlab/mensetsukan/internal/feedback"
	"github.com/foxseedlab/mensetsukan/internal/interviewer"
	"github.com/foxseedlab/mensetsukan/internal/question"
	"github.com/foxseedlab/mensetsukan/internal/repository"
	"github.com/foxseedlab/mensetsukan/internal/synthesizer"
	"github.com/foxseedlab/mensetsukan/internal/transcriber"
	"github.com/foxseedlab/mensetsukan/internal/video"
	"github.com/foxseedlab/mensetsukan/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewManager(Options{
			FollowupBudgetCap: cfg.FollowupBudgetCap,
			RephraseQuestions: cfg.RephraseQuestions,
		}, Dependencies{
			Bank:        do.MustInvoke[*question.Bank](i),
			Repo:        do.MustInvoke[repository.Repository](i),
			Reports:     do.MustInvoke[repository.ReportWriter](i),
			Transcriber: do.MustInvoke[transcriber.Transcriber](i),
			Synthesizer: do.MustInvoke[synthesizer.Synthesizer](i),
			Questions:   do.MustInvoke[*interviewer.Generator](i),
			Feedback:    do.MustInvoke[*feedback.Generator](i),
			Video:       do.MustInvoke[*video.Assembler](i),
			Webhook:     do.MustInvoke[webhook.Sender](i),
		}), nil
	})
}
