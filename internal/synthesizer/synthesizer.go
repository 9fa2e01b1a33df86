package synthesizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrSynthesis = errors.New("speech synthesis failed")

type Speech struct {
	Audio       []byte
	ContentType string
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Speech, error)
}

// Bridge applies a timeout and maps every failure to ErrSynthesis. Callers
// fall back to text-only display when it returns an error.
type Bridge struct {
	engine  Synthesizer
	timeout time.Duration
}

func NewBridge(engine Synthesizer, timeout time.Duration) *Bridge {
	return &Bridge{engine: engine, timeout: timeout}
}

func (b *Bridge) Synthesize(ctx context.Context, text string) (Speech, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Speech{}, fmt.Errorf("%w: empty text", ErrSynthesis)
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	speech, err := b.engine.Synthesize(ctx, text)
	if err != nil {
		if errors.Is(err, ErrSynthesis) {
			return Speech{}, err
		}
		return Speech{}, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}
	if len(speech.Audio) == 0 {
		return Speech{}, fmt.Errorf("%w: engine returned no audio", ErrSynthesis)
	}
	return speech, nil
}
