package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/foxseedlab/mensetsukan/internal/repository"
)

// MemoryRepository keeps everything in process memory. It is used when no
// DATABASE_URL is configured and loses all data on restart.
type MemoryRepository struct {
	mu        sync.RWMutex
	sessions  map[string]repository.Session
	turns     map[string][]repository.Turn
	artifacts map[string]repository.VideoArtifact
	reports   map[string]repository.StoredReport
	now       func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions:  make(map[string]repository.Session),
		turns:     make(map[string][]repository.Turn),
		artifacts: make(map[string]repository.VideoArtifact),
		reports:   make(map[string]repository.StoredReport),
		now:       time.Now,
	}
}

func (r *MemoryRepository) CreateSession(_ context.Context, input repository.CreateSessionInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[input.ID]; exists {
		return fmt.Errorf("session %s already exists", input.ID)
	}
	now := r.now()
	r.sessions[input.ID] = repository.Session{
		ID:             input.ID,
		CandidateLabel: input.CandidateLabel,
		State:          input.State,
		FollowupBudget: input.FollowupBudget,
		StartedAt:      input.StartedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return nil
}

func (r *MemoryRepository) UpdateSessionProgress(_ context.Context, input repository.UpdateSessionProgressInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[input.SessionID]
	if !ok {
		return repository.ErrNotFound
	}
	s.State = input.State
	s.FixedIndex = input.FixedIndex
	s.FollowupBudget = input.FollowupBudget
	s.UpdatedAt = r.now()
	r.sessions[input.SessionID] = s
	return nil
}

func (r *MemoryRepository) CompleteSession(_ context.Context, input repository.CompleteSessionInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[input.SessionID]
	if !ok {
		return repository.ErrNotFound
	}
	endedAt := input.EndedAt
	s.State = input.State
	s.EndedAt = &endedAt
	s.ReportRef = input.ReportRef
	s.VideoRef = input.VideoRef
	s.UpdatedAt = r.now()
	r.sessions[input.SessionID] = s
	return nil
}

func (r *MemoryRepository) GetSession(_ context.Context, sessionID string) (*repository.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if s.EndedAt != nil {
		endedAt := *s.EndedAt
		s.EndedAt = &endedAt
	}
	return &s, nil
}

func (r *MemoryRepository) InsertTurn(_ context.Context, input repository.InsertTurnInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[input.SessionID]; !ok {
		return repository.ErrNotFound
	}
	for _, t := range r.turns[input.SessionID] {
		if t.Seq == input.Seq {
			return fmt.Errorf("turn %d already recorded for session %s", input.Seq, input.SessionID)
		}
	}
	r.turns[input.SessionID] = append(r.turns[input.SessionID], repository.Turn{
		SessionID:    input.SessionID,
		Seq:          input.Seq,
		QuestionID:   input.QuestionID,
		QuestionText: input.QuestionText,
		Kind:         input.Kind,
		Answer:       input.Answer,
		AnsweredAt:   input.AnsweredAt,
	})
	return nil
}

func (r *MemoryRepository) ListTurnsBySessionID(_ context.Context, sessionID string) ([]repository.Turn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]repository.Turn(nil), r.turns[sessionID]...), nil
}

func (r *MemoryRepository) SaveVideoArtifact(_ context.Context, input repository.SaveVideoArtifactInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.artifacts[input.SessionID]; exists {
		return nil
	}
	r.artifacts[input.SessionID] = repository.VideoArtifact{
		SessionID:     input.SessionID,
		Ref:           input.Ref,
		FragmentCount: input.FragmentCount,
		CreatedAt:     input.CreatedAt,
	}
	return nil
}

func (r *MemoryRepository) SaveReport(_ context.Context, input repository.SaveReportInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reports[input.SessionID]; exists {
		return nil
	}
	r.reports[input.SessionID] = repository.StoredReport{
		ID:          input.ReportID,
		SessionID:   input.SessionID,
		GeneratedAt: input.GeneratedAt,
		ReportJSON:  append([]byte(nil), input.ReportJSON...),
		ReportText:  input.ReportText,
	}
	return nil
}

func (r *MemoryRepository) GetReportBySessionID(_ context.Context, sessionID string) (*repository.StoredReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reports[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rep.ReportJSON = append([]byte(nil), rep.ReportJSON...)
	return &rep, nil
}
