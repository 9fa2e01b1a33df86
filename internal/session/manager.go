package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/mensetsukan/internal/feedback"
	"github.com/foxseedlab/mensetsukan/internal/interviewer"
	"github.com/foxseedlab/mensetsukan/internal/question"
	"github.com/foxseedlab/mensetsukan/internal/repository"
	"github.com/foxseedlab/mensetsukan/internal/synthesizer"
	"github.com/foxseedlab/mensetsukan/internal/transcriber"
	"github.com/foxseedlab/mensetsukan/internal/video"
	"github.com/foxseedlab/mensetsukan/internal/webhook"
	"github.com/google/uuid"
)

const reportDeliveryTimeout = time.Minute

type QuestionGenerator interface {
	Greeting(ctx context.Context, candidateLabel string) (string, error)
	MaybeFollowup(ctx context.Context, tail []interviewer.Exchange, budgetRemaining int) (interviewer.Decision, error)
	Rephrase(ctx context.Context, questionText string) (string, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, in feedback.Input) (*feedback.Report, error)
}

type VideoAssembler interface {
	Open(sessionID string)
	AppendFragment(ctx context.Context, sessionID string, data []byte) (video.Ack, error)
	FragmentCount(sessionID string) int
	Finalize(ctx context.Context, sessionID string) (string, error)
}

type Options struct {
	FollowupBudgetCap int
	RephraseQuestions bool
}

type Dependencies struct {
	Bank        *question.Bank
	Repo        repository.Repository
	Reports     repository.ReportWriter
	Transcriber transcriber.Transcriber
	Synthesizer synthesizer.Synthesizer
	Questions   QuestionGenerator
	Feedback    ReportGenerator
	Video       VideoAssembler
	Webhook     webhook.Sender
}

type Manager struct {
	opts Options
	deps Dependencies

	now   func() time.Time
	newID func() string

	mu       sync.RWMutex
	sessions map[string]*interview

	deliveries sync.WaitGroup
}

func NewManager(opts Options, deps Dependencies) *Manager {
	return &Manager{
		opts:     opts,
		deps:     deps,
		now:      time.Now,
		newID:    uuid.NewString,
		sessions: make(map[string]*interview),
	}
}

type Greeting struct {
	SessionID        string
	Text             string
	Audio            []byte
	AudioContentType string
}

type Outcome struct {
	NextQuestionID   string
	NextQuestionText string
	Audio            []byte
	AudioContentType string
	Transcript       string
	Done             bool
}

type FragmentAck struct {
	Sequence int
}

func (m *Manager) lookup(sessionID string) (*interview, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	iv, ok := m.sessions[sessionID]
	return iv, ok
}

// Start opens a session in GREETING and returns the greeting to play.
func (m *Manager) Start(ctx context.Context, candidateLabel string) (*Greeting, error) {
	if m.deps.Bank.Len() == 0 {
		return nil, ErrBankEmpty
	}
	id := m.newID()

	text, err := m.deps.Questions.Greeting(ctx, candidateLabel)
	if err != nil {
		slog.Warn("greeting generation unavailable; using fallback", "error", err, "session_id", id)
		text = fallbackGreeting(candidateLabel)
	}

	iv := newInterview(id, candidateLabel, text, m.now())
	// Turns, artifacts and the report all reference this row.
	if err := m.deps.Repo.CreateSession(ctx, repository.CreateSessionInput{
		ID:             id,
		CandidateLabel: candidateLabel,
		State:          string(StateGreeting),
		StartedAt:      iv.createdAt,
	}); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.mu.Lock()
	m.sessions[id] = iv
	m.mu.Unlock()
	m.deps.Video.Open(id)
	slog.Info("session started", "session_id", id, "questions", m.deps.Bank.Len())

	g := &Greeting{SessionID: id, Text: text}
	g.Audio, g.AudioContentType = m.speak(ctx, id, text)
	return g, nil
}

// SubmitAnswer transcribes the answer to questionRef and advances the
// interview. Only one answer per session is processed at a time.
func (m *Manager) SubmitAnswer(ctx context.Context, sessionID, questionRef string, audio transcriber.Audio) (*Outcome, error) {
	iv, ok := m.lookup(sessionID)
	if !ok {
		return nil, ErrUnknownSession
	}
	if !iv.busy.TryLock() {
		return nil, ErrAlreadyProcessing
	}
	defer iv.busy.Unlock()

	iv.mu.RLock()
	closed := iv.closed()
	currentID := iv.current.ID
	iv.mu.RUnlock()
	if closed {
		return nil, ErrSessionClosed
	}
	if questionRef != currentID {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrQuestionMismatch, currentID, questionRef)
	}

	text, err := m.deps.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		slog.Warn("answer transcription failed; question stays current", "error", err, "session_id", sessionID, "question_id", currentID)
		return nil, err
	}

	iv.mu.Lock()
	turn := iv.record(text, m.now())
	seq := len(iv.transcript)
	askGenerator := iv.wantsFollowupDecision()
	budget := iv.followupBudget
	tail := iv.exchanges()
	iv.mu.Unlock()
	m.persistTurn(ctx, sessionID, seq, turn)

	var decision interviewer.Decision
	if askGenerator {
		decision, err = m.deps.Questions.MaybeFollowup(ctx, tail, budget)
		if err != nil {
			slog.Warn("follow-up generation unavailable; advancing", "error", err, "session_id", sessionID)
			decision = interviewer.Decision{}
		}
	}

	iv.mu.Lock()
	next, more := iv.transition(m.deps.Bank, m.opts.FollowupBudgetCap, decision)
	progress := repository.UpdateSessionProgressInput{
		SessionID:      sessionID,
		State:          string(iv.state),
		FixedIndex:     iv.fixedIndex,
		FollowupBudget: iv.followupBudget,
	}
	iv.mu.Unlock()

	if more && next.Kind == question.KindFixed && m.opts.RephraseQuestions {
		next.Text = m.rephrase(ctx, sessionID, iv, next)
	}
	if err := m.deps.Repo.UpdateSessionProgress(ctx, progress); err != nil {
		slog.Error("failed to persist session progress", "error", err, "session_id", sessionID)
	}

	out := &Outcome{Transcript: text}
	if more {
		out.NextQuestionID = next.ID
		out.NextQuestionText = next.Text
	} else {
		out.Done = true
		out.NextQuestionText = messageInterviewComplete
		slog.Info("interview complete", "session_id", sessionID, "turns", seq)
	}
	out.Audio, out.AudioContentType = m.speak(ctx, sessionID, out.NextQuestionText)
	return out, nil
}

func (m *Manager) rephrase(ctx context.Context, sessionID string, iv *interview, q question.Question) string {
	text, err := m.deps.Questions.Rephrase(ctx, q.Text)
	if err != nil {
		slog.Warn("rephrase unavailable; using bank text", "error", err, "session_id", sessionID, "question_id", q.ID)
		return q.Text
	}
	iv.mu.Lock()
	if iv.current.ID == q.ID {
		iv.current.Text = text
	}
	iv.mu.Unlock()
	return text
}

func (m *Manager) persistTurn(ctx context.Context, sessionID string, seq int, t Turn) {
	if err := m.deps.Repo.InsertTurn(ctx, repository.InsertTurnInput{
		SessionID:    sessionID,
		Seq:          seq,
		QuestionID:   t.QuestionID,
		QuestionText: t.QuestionText,
		Kind:         string(t.Kind),
		Answer:       t.Answer,
		AnsweredAt:   t.AnsweredAt,
	}); err != nil {
		slog.Error("failed to persist turn", "error", err, "session_id", sessionID, "seq", seq)
	}
}

func (m *Manager) speak(ctx context.Context, sessionID, text string) ([]byte, string) {
	speech, err := m.deps.Synthesizer.Synthesize(ctx, text)
	if err != nil {
		slog.Warn("speech synthesis failed; sending text only", "error", err, "session_id", sessionID)
		return nil, ""
	}
	return speech.Audio, speech.ContentType
}

// End closes the session, finalizes its recording and produces the report.
// Calling End again returns the same report reference.
func (m *Manager) End(ctx context.Context, sessionID string) (string, error) {
	iv, ok := m.lookup(sessionID)
	if !ok {
		return "", ErrUnknownSession
	}
	iv.busy.Lock()
	defer iv.busy.Unlock()

	iv.mu.Lock()
	if iv.reportRef != "" {
		ref := iv.reportRef
		iv.mu.Unlock()
		return ref, nil
	}
	if iv.endedAt == nil {
		endedAt := m.now()
		iv.endedAt = &endedAt
	}
	endedEarly := iv.state != StateComplete
	iv.mu.Unlock()
	if endedEarly {
		slog.Info("session ended before completion", "session_id", sessionID)
	}

	videoRef := m.finalizeVideo(ctx, sessionID)

	iv.mu.Lock()
	if videoRef != "" {
		iv.videoRef = videoRef
	}
	in := iv.feedbackInput()
	iv.mu.Unlock()

	report, err := m.deps.Feedback.Generate(ctx, in)
	if err != nil {
		return "", fmt.Errorf("generate report: %w", err)
	}
	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := m.deps.Reports.SaveReport(ctx, repository.SaveReportInput{
		ReportID:    report.ID,
		SessionID:   sessionID,
		GeneratedAt: report.GeneratedAt,
		ReportJSON:  body,
		ReportText:  report.Text,
	}); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	iv.mu.Lock()
	iv.reportRef = report.ID
	complete := repository.CompleteSessionInput{
		SessionID: sessionID,
		State:     string(iv.state),
		EndedAt:   *iv.endedAt,
		ReportRef: iv.reportRef,
		VideoRef:  iv.videoRef,
	}
	iv.mu.Unlock()
	if err := m.deps.Repo.CompleteSession(ctx, complete); err != nil {
		slog.Error("failed to persist session completion", "error", err, "session_id", sessionID)
	}
	slog.Info("session ended", "session_id", sessionID, "report_id", report.ID, "narrative", report.NarrativeSource)

	m.deliverReport(sessionID, report)
	return report.ID, nil
}

func (m *Manager) finalizeVideo(ctx context.Context, sessionID string) string {
	fragments := m.deps.Video.FragmentCount(sessionID)
	ref, err := m.deps.Video.Finalize(ctx, sessionID)
	if err != nil {
		if errors.Is(err, video.ErrNoFragments) {
			slog.Info("no video fragments were recorded", "session_id", sessionID)
		} else {
			slog.Error("failed to finalize video", "error", err, "session_id", sessionID)
		}
		return ""
	}
	if err := m.deps.Repo.SaveVideoArtifact(ctx, repository.SaveVideoArtifactInput{
		SessionID:     sessionID,
		Ref:           ref,
		FragmentCount: fragments,
		CreatedAt:     m.now(),
	}); err != nil {
		slog.Error("failed to persist video artifact", "error", err, "session_id", sessionID)
	}
	return ref
}

func (m *Manager) deliverReport(sessionID string, report *feedback.Report) {
	m.deliveries.Add(1)
	go func() {
		defer m.deliveries.Done()
		ctx, cancel := context.WithTimeout(context.Background(), reportDeliveryTimeout)
		defer cancel()
		if err := m.deps.Webhook.SendReport(ctx, webhook.Report{
			SessionID: sessionID,
			ReportID:  report.ID,
			Filename:  reportFilename(sessionID),
			Body:      []byte(report.Text),
		}); err != nil {
			slog.Error("failed to deliver report webhook", "error", err, "session_id", sessionID)
		}
	}()
}

// Wait blocks until in-flight report deliveries finish.
func (m *Manager) Wait() {
	m.deliveries.Wait()
}

// UploadFragment appends a video fragment to an open session's recording.
func (m *Manager) UploadFragment(ctx context.Context, sessionID string, data []byte) (FragmentAck, error) {
	iv, ok := m.lookup(sessionID)
	if !ok {
		return FragmentAck{}, video.ErrInvalidTarget
	}
	iv.mu.RLock()
	ended := iv.endedAt != nil
	iv.mu.RUnlock()
	if ended {
		return FragmentAck{}, video.ErrInvalidTarget
	}
	ack, err := m.deps.Video.AppendFragment(ctx, sessionID, data)
	if err != nil {
		return FragmentAck{}, err
	}
	return FragmentAck{Sequence: ack.Sequence}, nil
}

// Questions lists the fixed questions in bank order.
func (m *Manager) Questions() []question.Question {
	return m.deps.Bank.List()
}

// Speak synthesizes arbitrary text for the capture front end.
func (m *Manager) Speak(ctx context.Context, text string) (synthesizer.Speech, error) {
	return m.deps.Synthesizer.Synthesize(ctx, text)
}

func (m *Manager) Snapshot(sessionID string) (Snapshot, error) {
	iv, ok := m.lookup(sessionID)
	if !ok {
		return Snapshot{}, ErrUnknownSession
	}
	return iv.snapshot(m.deps.Bank.Len()), nil
}
