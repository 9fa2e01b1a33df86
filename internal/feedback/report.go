// Package feedback turns a finished interview transcript into the private
// report read by evaluators. The candidate never sees its content.
package feedback

import (
	"time"

	"github.com/foxseedlab/mensetsukan/internal/question"
)

type Turn struct {
	QuestionID   string
	QuestionText string
	Answer       string
	Kind         question.Kind
	AnsweredAt   time.Time
}

// DocumentHeader is session metadata printed at the top of the text
// document. Scoring and the narrative never read it.
type DocumentHeader struct {
	CandidateLabel string
	StartedAt      time.Time
	EndedAt        time.Time
	VideoRef       string
}

type Input struct {
	SessionID string
	Turns     []Turn
	Header    DocumentHeader
}

type Item struct {
	QuestionID      string        `json:"question_id"`
	Question        string        `json:"question"`
	Answer          string        `json:"answer"`
	Kind            question.Kind `json:"kind"`
	Scored          bool          `json:"scored"`
	Score           float64       `json:"score"`
	MatchedKeywords []string      `json:"matched_keywords"`
}

const (
	NarrativeFromModel    = "model"
	NarrativeFromFallback = "fallback"
)

// Report is immutable once generated.
type Report struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	Summary         string    `json:"summary"`
	Strengths       []string  `json:"strengths"`
	Improvements    []string  `json:"improvements"`
	Items           []Item    `json:"items"`
	TotalScore      float64   `json:"total_score"`
	MaxScore        float64   `json:"max_score"`
	NarrativeSource string    `json:"narrative_source"`
	Text            string    `json:"-"`
}
