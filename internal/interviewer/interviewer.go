// Package interviewer produces the interviewer's spoken lines: the greeting,
// follow-up decisions and optional rephrasings of bank questions.
package interviewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/foxseedlab/mensetsukan/internal/llm"
)

var ErrGenerationUnavailable = errors.New("question generation unavailable")

// Exchange is one answered question as seen by the generator.
type Exchange struct {
	Question string
	Answer   string
}

// Decision is the structured follow-up verdict. Question is empty unless Ask.
type Decision struct {
	Ask      bool
	Question string
}

type Generator struct {
	llm llm.TextGenerator
}

func NewGenerator(gen llm.TextGenerator) *Generator {
	return &Generator{llm: gen}
}

func (g *Generator) Greeting(ctx context.Context, candidateLabel string) (string, error) {
	text, err := g.llm.Generate(ctx, llm.Prompt{
		System: interviewerPersona,
		User:   greetingPrompt(candidateLabel),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	text = cleanLine(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty greeting", ErrGenerationUnavailable)
	}
	return text, nil
}

// MaybeFollowup asks the model whether the latest answer deserves one probing
// question. No call is made when budgetRemaining is not positive.
func (g *Generator) MaybeFollowup(ctx context.Context, tail []Exchange, budgetRemaining int) (Decision, error) {
	if budgetRemaining <= 0 || len(tail) == 0 {
		return Decision{}, nil
	}
	raw, err := g.llm.Generate(ctx, llm.Prompt{
		System: interviewerPersona,
		User:   followupPrompt(tail),
		JSON:   true,
	})
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	return parseDecision(raw)
}

func (g *Generator) Rephrase(ctx context.Context, questionText string) (string, error) {
	text, err := g.llm.Generate(ctx, llm.Prompt{
		System: interviewerPersona,
		User:   rephrasePrompt(questionText),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	text = cleanLine(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty rephrasing", ErrGenerationUnavailable)
	}
	return text, nil
}

type decisionPayload struct {
	AskFollowup *bool  `json:"ask_followup"`
	Question    string `json:"question"`
}

func parseDecision(raw string) (Decision, error) {
	var p decisionPayload
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &p); err != nil {
		return Decision{}, fmt.Errorf("%w: malformed follow-up decision: %w", ErrGenerationUnavailable, err)
	}
	if p.AskFollowup == nil {
		return Decision{}, fmt.Errorf("%w: follow-up decision is missing ask_followup", ErrGenerationUnavailable)
	}
	if !*p.AskFollowup {
		return Decision{}, nil
	}
	q := cleanLine(p.Question)
	if q == "" {
		return Decision{}, fmt.Errorf("%w: follow-up requested without a question", ErrGenerationUnavailable)
	}
	return Decision{Ask: true, Question: q}, nil
}

// cleanLine trims whitespace and wrapping quotes models like to add.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"“”")
	return strings.TrimSpace(s)
}
