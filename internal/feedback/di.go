package feedback

import (
	"time"

	"github.com/foxseedlab/mensetsukan/internal/config"
	"github.com/foxseedlab/mensetsukan/internal/llm"
	"github.com/foxseedlab/mensetsukan/internal/question"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Generator, error) {
		c := do.MustInvoke[*config.Config](i)
		loc, err := time.LoadLocation(c.ReportTimezone)
		if err != nil {
			return nil, err
		}
		return NewGenerator(
			do.MustInvoke[*question.Bank](i),
			do.MustInvoke[llm.TextGenerator](i),
			c.ReportTimezone,
			loc,
		), nil
	})
}
