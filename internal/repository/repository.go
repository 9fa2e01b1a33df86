package repository

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

type CreateSessionInput struct {
	ID             string
	CandidateLabel string
	State          string
	FollowupBudget int
	StartedAt      time.Time
}

type UpdateSessionProgressInput struct {
	SessionID      string
	State          string
	FixedIndex     int
	FollowupBudget int
}

type CompleteSessionInput struct {
	SessionID string
	State     string
	EndedAt   time.Time
	ReportRef string
	VideoRef  string
}

type InsertTurnInput struct {
	SessionID    string
	Seq          int
	QuestionID   string
	QuestionText string
	Kind         string
	Answer       string
	AnsweredAt   time.Time
}

type SaveVideoArtifactInput struct {
	SessionID     string
	Ref           string
	FragmentCount int
	CreatedAt     time.Time
}

type SaveReportInput struct {
	ReportID    string
	SessionID   string
	GeneratedAt time.Time
	ReportJSON  []byte
	ReportText  string
}

type SessionRepository interface {
	CreateSession(ctx context.Context, input CreateSessionInput) error
	UpdateSessionProgress(ctx context.Context, input UpdateSessionProgressInput) error
	CompleteSession(ctx context.Context, input CompleteSessionInput) error
}

type TurnRepository interface {
	InsertTurn(ctx context.Context, input InsertTurnInput) error
}

type ArtifactRepository interface {
	SaveVideoArtifact(ctx context.Context, input SaveVideoArtifactInput) error
}

// Repository is what the interview flow may touch. It only writes. Report
// content is split into ReportWriter and ReportReader, and the recorded
// interview is read back through HistoryReader, so that only evaluator-facing
// code can read anything.
type Repository interface {
	SessionRepository
	TurnRepository
	ArtifactRepository
}

type ReportWriter interface {
	SaveReport(ctx context.Context, input SaveReportInput) error
}

type ReportReader interface {
	GetReportBySessionID(ctx context.Context, sessionID string) (*StoredReport, error)
}

type HistoryReader interface {
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	ListTurnsBySessionID(ctx context.Context, sessionID string) ([]Turn, error)
}

// Store is implemented by every backend and split into capabilities at wiring time.
type Store interface {
	Repository
	ReportWriter
	ReportReader
	HistoryReader
}
