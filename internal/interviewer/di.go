package interviewer

import (
	"github.com/foxseedlab/mensetsukan/internal/llm"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Generator, error) {
		return NewGenerator(do.MustInvoke[llm.TextGenerator](i)), nil
	})
}
