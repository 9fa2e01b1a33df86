package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foxseedlab/mensetsukan/internal/llm"
	"github.com/foxseedlab/mensetsukan/internal/question"
	"github.com/google/uuid"
)

const narrativePoints = 2

type Generator struct {
	bank     *question.Bank
	llm      llm.TextGenerator
	timezone string
	loc      *time.Location

	now   func() time.Time
	newID func() string
}

func NewGenerator(bank *question.Bank, gen llm.TextGenerator, timezone string, loc *time.Location) *Generator {
	return &Generator{
		bank:     bank,
		llm:      gen,
		timezone: timezone,
		loc:      safeLocation(loc),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Generate builds the report from the transcript alone; in.Header only
// reaches the rendered text. Narrative failures
// fall back to a deterministic text, so Generate only fails on an input
// without a session id.
func (g *Generator) Generate(ctx context.Context, in Input) (*Report, error) {
	if in.SessionID == "" {
		return nil, fmt.Errorf("feedback input has no session id")
	}
	r := &Report{
		ID:          g.newID(),
		SessionID:   in.SessionID,
		GeneratedAt: g.now(),
		Items:       make([]Item, 0, len(in.Turns)),
	}
	for _, turn := range in.Turns {
		item := Item{
			QuestionID:      turn.QuestionID,
			Question:        turn.QuestionText,
			Answer:          turn.Answer,
			Kind:            turn.Kind,
			MatchedKeywords: []string{},
		}
		if turn.Kind == question.KindFixed {
			q, _ := g.bank.Lookup(turn.QuestionID)
			item.Scored = true
			item.Score, item.MatchedKeywords = ScoreAnswer(q.Keywords, turn.Answer)
			r.TotalScore += item.Score
			r.MaxScore += scoreFull
		}
		r.Items = append(r.Items, item)
	}

	n, err := g.narrative(ctx, r.Items)
	if err != nil {
		slog.Warn("report narrative unavailable; using fallback", "error", err, "session_id", in.SessionID)
		n = fallbackNarrative(r)
		r.NarrativeSource = NarrativeFromFallback
	} else {
		r.NarrativeSource = NarrativeFromModel
	}
	r.Summary = n.Summary
	r.Strengths = n.Strengths
	r.Improvements = n.Improvements
	r.Text = buildReportText(*r, in.Turns, in.Header, g.timezone, g.loc)
	return r, nil
}

type narrative struct {
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

func (g *Generator) narrative(ctx context.Context, items []Item) (narrative, error) {
	if g.llm == nil {
		return narrative{}, fmt.Errorf("no language model configured")
	}
	raw, err := g.llm.Generate(ctx, llm.Prompt{
		System: "You write concise private interview feedback for hiring staff. Base every statement only on the transcript provided.",
		User:   narrativePrompt(items),
		JSON:   true,
	})
	if err != nil {
		return narrative{}, err
	}
	var n narrative
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &n); err != nil {
		return narrative{}, fmt.Errorf("malformed narrative: %w", err)
	}
	n.Summary = strings.TrimSpace(n.Summary)
	n.Strengths = nonEmpty(n.Strengths)
	n.Improvements = nonEmpty(n.Improvements)
	if n.Summary == "" || len(n.Strengths) < narrativePoints || len(n.Improvements) < narrativePoints {
		return narrative{}, fmt.Errorf("narrative is incomplete")
	}
	n.Strengths = n.Strengths[:narrativePoints]
	n.Improvements = n.Improvements[:narrativePoints]
	return n, nil
}

func narrativePrompt(items []Item) string {
	var b strings.Builder
	b.WriteString("Interview transcript:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "Q: %s | A: %s", item.Question, item.Answer)
		if item.Scored {
			fmt.Fprintf(&b, " | Score: %s", formatScore(item.Score))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nRespond with a single JSON object: "+
		`{"summary": "<two or three sentences>", "strengths": [%d short points], "improvements": [%d short points]}.`,
		narrativePoints, narrativePoints)
	return b.String()
}

func fallbackNarrative(r *Report) narrative {
	var strong, weak []string
	scored := 0
	for _, item := range r.Items {
		if !item.Scored {
			continue
		}
		scored++
		switch {
		case item.Score >= scoreFull:
			strong = append(strong, fmt.Sprintf("Covered the expected concepts for %q.", item.Question))
		case item.Score == 0:
			weak = append(weak, fmt.Sprintf("Did not address the expected concepts for %q.", item.Question))
		default:
			weak = append(weak, fmt.Sprintf("Only partially addressed %q.", item.Question))
		}
	}

	summary := fmt.Sprintf("The candidate answered %d scored question(s) for a total of %s out of %s.",
		scored, formatScore(r.TotalScore), formatScore(r.MaxScore))
	if scored == 0 {
		summary = "The interview ended before any scored question was answered."
	}
	return narrative{
		Summary: summary,
		Strengths: padPoints(strong,
			"Completed the spoken interview format.",
			"Responded to each prompt that was presented."),
		Improvements: padPoints(weak,
			"Give concrete examples from past work.",
			"Use precise terminology when describing techniques."),
	}
}

func padPoints(points []string, defaults ...string) []string {
	out := make([]string, 0, narrativePoints)
	out = append(out, points...)
	for _, d := range defaults {
		if len(out) >= narrativePoints {
			break
		}
		out = append(out, d)
	}
	return out[:narrativePoints]
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
