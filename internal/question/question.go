// Package question holds the fixed interview questions and the identifiers of
// turns that are not drawn from the bank.
package question

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindIntro    Kind = "intro"
	KindFixed    Kind = "fixed"
	KindFollowup Kind = "followup"
)

// IntroID is the reserved id of the greeting turn.
const IntroID = "intro"

type Question struct {
	ID       string
	Text     string
	Keywords []string
	Kind     Kind
}

// FollowupID names the n-th generated follow-up after the given fixed question.
func FollowupID(fixedID string, n int) string {
	return fmt.Sprintf("followup-%s-%d", fixedID, n)
}

var ErrInvalidBank = errors.New("invalid question bank")

// Bank is the ordered set of fixed questions. It is never mutated after NewBank.
type Bank struct {
	questions []Question
	byID      map[string]int
}

func NewBank(questions []Question) (*Bank, error) {
	b := &Bank{
		questions: make([]Question, 0, len(questions)),
		byID:      make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		id := strings.TrimSpace(q.ID)
		text := strings.TrimSpace(q.Text)
		if id == "" || text == "" {
			return nil, fmt.Errorf("%w: question %d needs both id and text", ErrInvalidBank, i)
		}
		if id == IntroID || strings.HasPrefix(id, "followup-") {
			return nil, fmt.Errorf("%w: question id %q is reserved", ErrInvalidBank, id)
		}
		if _, dup := b.byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidBank, id)
		}
		keywords := make([]string, 0, len(q.Keywords))
		for _, kw := range q.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		b.byID[id] = len(b.questions)
		b.questions = append(b.questions, Question{ID: id, Text: text, Keywords: keywords, Kind: KindFixed})
	}
	return b, nil
}

func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.questions)
}

// At returns the question at position i of the bank order.
func (b *Bank) At(i int) (Question, bool) {
	if b == nil || i < 0 || i >= len(b.questions) {
		return Question{}, false
	}
	return cloneQuestion(b.questions[i]), true
}

func (b *Bank) Lookup(id string) (Question, bool) {
	if b == nil {
		return Question{}, false
	}
	i, ok := b.byID[id]
	if !ok {
		return Question{}, false
	}
	return cloneQuestion(b.questions[i]), true
}

// List returns a copy of the bank in order.
func (b *Bank) List() []Question {
	if b == nil {
		return nil
	}
	out := make([]Question, 0, len(b.questions))
	for _, q := range b.questions {
		out = append(out, cloneQuestion(q))
	}
	return out
}

func cloneQuestion(q Question) Question {
	q.Keywords = append([]string(nil), q.Keywords...)
	return q
}
