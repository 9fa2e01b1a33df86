// Package llm is the boundary to the hosted language model used for
// greetings, follow-up decisions and report narratives.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrEmptyResponse = errors.New("language model returned an empty response")

type Prompt struct {
	System string
	User   string
	// JSON asks the provider to constrain its output to a single JSON object.
	JSON bool
}

type TextGenerator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// StripCodeFence removes a surrounding ```json ... ``` block that some models
// emit even when asked for raw JSON.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

type timeoutGenerator struct {
	next    TextGenerator
	timeout time.Duration
}

// WithTimeout bounds every Generate call made through gen.
func WithTimeout(gen TextGenerator, timeout time.Duration) TextGenerator {
	return &timeoutGenerator{next: gen, timeout: timeout}
}

func (g *timeoutGenerator) Generate(ctx context.Context, prompt Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.Generate(ctx, prompt)
}
