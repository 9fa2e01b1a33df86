package repository

import "time"

type Session struct {
	ID             string
	CandidateLabel string
	State          string
	FixedIndex     int
	FollowupBudget int
	StartedAt      time.Time
	EndedAt        *time.Time
	ReportRef      string
	VideoRef       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Turn struct {
	SessionID    string
	Seq          int
	QuestionID   string
	QuestionText string
	Kind         string
	Answer       string
	AnsweredAt   time.Time
}

type VideoArtifact struct {
	SessionID     string
	Ref           string
	FragmentCount int
	CreatedAt     time.Time
}

// StoredReport is the persisted form of a feedback report. ReportJSON holds
// the structured report and ReportText the rendered private document.
type StoredReport struct {
	ID          string
	SessionID   string
	GeneratedAt time.Time
	ReportJSON  []byte
	ReportText  string
}
