package repository

import (
	"context"
	"errors"
	"time"

	"github.com/foxseedlab/mensetsukan/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// isSessionID reports whether id can name a row. Session ids are UUID
// columns, so anything else would fail the cast instead of matching nothing.
func isSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Shutdown closes the pool when the injector shuts down.
func (r *PostgresRepository) Shutdown() {
	r.pool.Close()
}

func (r *PostgresRepository) CreateSession(ctx context.Context, input repository.CreateSessionInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO interview_sessions (id, candidate_label, state, fixed_index, followup_budget, started_at)
		 VALUES ($1, $2, $3, 0, $4, $5)`,
		input.ID, input.CandidateLabel, input.State, input.FollowupBudget, input.StartedAt)
	return err
}

func (r *PostgresRepository) UpdateSessionProgress(ctx context.Context, input repository.UpdateSessionProgressInput) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET state = $2, fixed_index = $3, followup_budget = $4, updated_at = NOW()
		 WHERE id = $1`,
		input.SessionID, input.State, input.FixedIndex, input.FollowupBudget)
	return err
}

func (r *PostgresRepository) CompleteSession(ctx context.Context, input repository.CompleteSessionInput) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET state = $2, ended_at = $3, report_ref = $4, video_ref = $5, updated_at = NOW()
		 WHERE id = $1`,
		input.SessionID, input.State, input.EndedAt, input.ReportRef, input.VideoRef)
	return err
}

func (r *PostgresRepository) GetSession(ctx context.Context, sessionID string) (*repository.Session, error) {
	if !isSessionID(sessionID) {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx,
		`SELECT id, candidate_label, state, fixed_index, followup_budget, started_at, ended_at,
		        report_ref, video_ref, created_at, updated_at
		 FROM interview_sessions WHERE id = $1`,
		sessionID)
	var s repository.Session
	var endedAt *time.Time
	err := row.Scan(&s.ID, &s.CandidateLabel, &s.State, &s.FixedIndex, &s.FollowupBudget, &s.StartedAt, &endedAt,
		&s.ReportRef, &s.VideoRef, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	s.EndedAt = endedAt
	return &s, nil
}

func (r *PostgresRepository) InsertTurn(ctx context.Context, input repository.InsertTurnInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO interview_turns (session_id, seq, question_id, question_text, kind, answer, answered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		input.SessionID, input.Seq, input.QuestionID, input.QuestionText, input.Kind, input.Answer, input.AnsweredAt)
	return err
}

func (r *PostgresRepository) ListTurnsBySessionID(ctx context.Context, sessionID string) ([]repository.Turn, error) {
	if !isSessionID(sessionID) {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT session_id, seq, question_id, question_text, kind, answer, answered_at
		 FROM interview_turns WHERE session_id = $1 ORDER BY seq ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Turn
	for rows.Next() {
		var t repository.Turn
		if err := rows.Scan(&t.SessionID, &t.Seq, &t.QuestionID, &t.QuestionText, &t.Kind, &t.Answer, &t.AnsweredAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) SaveVideoArtifact(ctx context.Context, input repository.SaveVideoArtifactInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO video_artifacts (session_id, ref, fragment_count, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id) DO NOTHING`,
		input.SessionID, input.Ref, input.FragmentCount, input.CreatedAt)
	return err
}

func (r *PostgresRepository) SaveReport(ctx context.Context, input repository.SaveReportInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO feedback_reports (id, session_id, generated_at, report, report_text)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id) DO NOTHING`,
		input.ReportID, input.SessionID, input.GeneratedAt, input.ReportJSON, input.ReportText)
	return err
}

func (r *PostgresRepository) GetReportBySessionID(ctx context.Context, sessionID string) (*repository.StoredReport, error) {
	if !isSessionID(sessionID) {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx,
		`SELECT id, session_id, generated_at, report, report_text
		 FROM feedback_reports WHERE session_id = $1`,
		sessionID)
	var rep repository.StoredReport
	if err := row.Scan(&rep.ID, &rep.SessionID, &rep.GeneratedAt, &rep.ReportJSON, &rep.ReportText); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}
