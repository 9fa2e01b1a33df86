package transcriber

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrTranscription = errors.New("transcription failed")

// UnintelligiblePlaceholder is recorded when the engine recognized no speech.
const UnintelligiblePlaceholder = "[Unintelligible / empty]"

type Audio struct {
	Data     []byte
	MimeType string
	Filename string
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio) (string, error)
}

// Bridge bounds every engine call with a timeout and folds all failures,
// including the timeout itself, into ErrTranscription.
type Bridge struct {
	engine  Transcriber
	timeout time.Duration
}

func NewBridge(engine Transcriber, timeout time.Duration) *Bridge {
	return &Bridge{engine: engine, timeout: timeout}
}

func (b *Bridge) Transcribe(ctx context.Context, audio Audio) (string, error) {
	if len(audio.Data) == 0 {
		return "", fmt.Errorf("%w: empty audio payload", ErrTranscription)
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	text, err := b.engine.Transcribe(ctx, audio)
	if err != nil {
		if errors.Is(err, ErrTranscription) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return UnintelligiblePlaceholder, nil
	}
	return text, nil
}
