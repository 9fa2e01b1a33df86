package session

import (
	"sync"
	"time"

	"github.com/foxseedlab/mensetsukan/internal/feedback"
	"github.com/foxseedlab/mensetsukan/internal/interviewer"
	"github.com/foxseedlab/mensetsukan/internal/question"
)

type State string

const (
	StateGreeting       State = "GREETING"
	StateAskingFixed    State = "ASKING_FIXED"
	StateAskingFollowup State = "ASKING_FOLLOWUP"
	StateComplete       State = "COMPLETE"
)

type Turn struct {
	QuestionID   string
	QuestionText string
	Kind         question.Kind
	Answer       string
	AnsweredAt   time.Time
}

// interview is the in-memory state of one session. busy serializes answer
// processing and ending; mu guards the fields for concurrent readers.
type interview struct {
	busy sync.Mutex

	mu             sync.RWMutex
	id             string
	candidateLabel string
	state          State
	fixedIndex     int
	followupBudget int
	followupCount  int
	current        question.Question
	transcript     []Turn
	createdAt      time.Time
	endedAt        *time.Time
	reportRef      string
	videoRef       string
}

func newInterview(id, candidateLabel, greeting string, createdAt time.Time) *interview {
	return &interview{
		id:             id,
		candidateLabel: candidateLabel,
		state:          StateGreeting,
		current:        question.Question{ID: question.IntroID, Text: greeting, Kind: question.KindIntro},
		createdAt:      createdAt,
	}
}

func (iv *interview) closed() bool {
	return iv.endedAt != nil || iv.state == StateComplete
}

// record appends the answer to the question currently awaiting one.
func (iv *interview) record(answer string, at time.Time) Turn {
	t := Turn{
		QuestionID:   iv.current.ID,
		QuestionText: iv.current.Text,
		Kind:         iv.current.Kind,
		Answer:       answer,
		AnsweredAt:   at,
	}
	iv.transcript = append(iv.transcript, t)
	return t
}

// wantsFollowupDecision reports whether the generator should be consulted
// for the answer just recorded.
func (iv *interview) wantsFollowupDecision() bool {
	return iv.state == StateAskingFixed && iv.followupBudget > 0
}

// transition moves the state machine past the answer just recorded. decision
// is only honored in ASKING_FIXED with remaining budget. It returns the next
// question, or ok=false when the interview is complete.
func (iv *interview) transition(bank *question.Bank, budgetCap int, decision interviewer.Decision) (question.Question, bool) {
	switch iv.state {
	case StateGreeting:
		return iv.askFixed(bank, budgetCap)
	case StateAskingFixed:
		if decision.Ask && decision.Question != "" && iv.followupBudget > 0 {
			iv.followupBudget--
			iv.followupCount++
			fixedID := iv.current.ID
			iv.state = StateAskingFollowup
			iv.current = question.Question{
				ID:   question.FollowupID(fixedID, iv.followupCount),
				Text: decision.Question,
				Kind: question.KindFollowup,
			}
			return iv.current, true
		}
		iv.fixedIndex++
		return iv.askFixed(bank, budgetCap)
	case StateAskingFollowup:
		iv.fixedIndex++
		return iv.askFixed(bank, budgetCap)
	default:
		return question.Question{}, false
	}
}

func (iv *interview) askFixed(bank *question.Bank, budgetCap int) (question.Question, bool) {
	q, ok := bank.At(iv.fixedIndex)
	if !ok {
		iv.fixedIndex = bank.Len()
		iv.followupBudget = 0
		iv.state = StateComplete
		iv.current = question.Question{}
		return question.Question{}, false
	}
	iv.state = StateAskingFixed
	iv.followupBudget = budgetCap
	iv.followupCount = 0
	iv.current = q
	return q, true
}

func (iv *interview) exchanges() []interviewer.Exchange {
	out := make([]interviewer.Exchange, 0, len(iv.transcript))
	for _, t := range iv.transcript {
		out = append(out, interviewer.Exchange{Question: t.QuestionText, Answer: t.Answer})
	}
	return out
}

func (iv *interview) feedbackInput() feedback.Input {
	in := feedback.Input{
		SessionID: iv.id,
		Turns:     make([]feedback.Turn, 0, len(iv.transcript)),
		Header: feedback.DocumentHeader{
			CandidateLabel: iv.candidateLabel,
			StartedAt:      iv.createdAt,
			VideoRef:       iv.videoRef,
		},
	}
	if iv.endedAt != nil {
		in.Header.EndedAt = *iv.endedAt
	}
	for _, t := range iv.transcript {
		in.Turns = append(in.Turns, feedback.Turn{
			QuestionID:   t.QuestionID,
			QuestionText: t.QuestionText,
			Answer:       t.Answer,
			Kind:         t.Kind,
			AnsweredAt:   t.AnsweredAt,
		})
	}
	return in
}

// Snapshot is a read-only progress view. It never carries report content.
type Snapshot struct {
	SessionID           string     `json:"session_id"`
	CandidateLabel      string     `json:"candidate_label"`
	State               State      `json:"state"`
	FixedIndex          int        `json:"fixed_index"`
	TotalQuestions      int        `json:"total_questions"`
	FollowupBudget      int        `json:"followup_budget"`
	CurrentQuestionID   string     `json:"current_question_id,omitempty"`
	CurrentQuestionText string     `json:"current_question_text,omitempty"`
	AnsweredTurns       int        `json:"answered_turns"`
	Ended               bool       `json:"ended"`
	CreatedAt           time.Time  `json:"created_at"`
	EndedAt             *time.Time `json:"ended_at,omitempty"`
}

func (iv *interview) snapshot(total int) Snapshot {
	iv.mu.RLock()
	defer iv.mu.RUnlock()
	s := Snapshot{
		SessionID:           iv.id,
		CandidateLabel:      iv.candidateLabel,
		State:               iv.state,
		FixedIndex:          iv.fixedIndex,
		TotalQuestions:      total,
		FollowupBudget:      iv.followupBudget,
		CurrentQuestionID:   iv.current.ID,
		CurrentQuestionText: iv.current.Text,
		AnsweredTurns:       len(iv.transcript),
		Ended:               iv.endedAt != nil,
		CreatedAt:           iv.createdAt,
	}
	if iv.endedAt != nil {
		endedAt := *iv.endedAt
		s.EndedAt = &endedAt
	}
	if iv.closed() {
		s.CurrentQuestionID = ""
		s.CurrentQuestionText = ""
	}
	return s
}
