package httpapi

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/foxseedlab/mensetsukan/internal/repository"
)

type evaluatorHandler struct {
	reports repository.ReportReader
	history repository.HistoryReader
}

// NewEvaluatorHandler serves stored reports and recorded interviews behind a
// bearer token. It is the only handler that holds the read capabilities.
func NewEvaluatorHandler(reports repository.ReportReader, history repository.HistoryReader, token string) http.Handler {
	h := &evaluatorHandler{reports: reports, history: history}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /reports/{session_id}", h.getReport)
	mux.HandleFunc("GET /reports/{session_id}/text", h.getReportText)
	mux.HandleFunc("GET /sessions/{session_id}", h.getSession)
	return requireBearer(token, mux)
}

type turnResponse struct {
	Seq        int       `json:"seq"`
	QuestionID string    `json:"question_id"`
	Question   string    `json:"question"`
	Kind       string    `json:"kind"`
	Answer     string    `json:"answer"`
	AnsweredAt time.Time `json:"answered_at"`
}

type sessionHistoryResponse struct {
	SessionID      string         `json:"session_id"`
	CandidateLabel string         `json:"candidate_label"`
	State          string         `json:"state"`
	FixedIndex     int            `json:"fixed_index"`
	StartedAt      time.Time      `json:"started_at"`
	EndedAt        *time.Time     `json:"ended_at,omitempty"`
	ReportRef      string         `json:"report_ref,omitempty"`
	VideoRef       string         `json:"video_ref,omitempty"`
	Turns          []turnResponse `json:"turns"`
}

func (h *evaluatorHandler) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	s, err := h.history.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown_session", "session not found")
			return
		}
		slog.Error("failed to load session", "error", err, "session_id", sessionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	turns, err := h.history.ListTurnsBySessionID(r.Context(), sessionID)
	if err != nil {
		slog.Error("failed to load turns", "error", err, "session_id", sessionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	out := sessionHistoryResponse{
		SessionID:      s.ID,
		CandidateLabel: s.CandidateLabel,
		State:          s.State,
		FixedIndex:     s.FixedIndex,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
		ReportRef:      s.ReportRef,
		VideoRef:       s.VideoRef,
		Turns:          make([]turnResponse, 0, len(turns)),
	}
	for _, t := range turns {
		out.Turns = append(out.Turns, turnResponse{
			Seq:        t.Seq,
			QuestionID: t.QuestionID,
			Question:   t.QuestionText,
			Kind:       t.Kind,
			Answer:     t.Answer,
			AnsweredAt: t.AnsweredAt,
		})
	}
	writeJSONResponse(w, http.StatusOK, out)
}

func (h *evaluatorHandler) getReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rep.ReportJSON); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}

func (h *evaluatorHandler) getReportText(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(rep.ReportText)); err != nil {
		slog.Error("failed to write report text", "error", err)
	}
}

func (h *evaluatorHandler) load(w http.ResponseWriter, r *http.Request) (*repository.StoredReport, bool) {
	sessionID := r.PathValue("session_id")
	rep, err := h.reports.GetReportBySessionID(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report_not_found", "no report for this session")
			return nil, false
		}
		slog.Error("failed to load report", "error", err, "session_id", sessionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return nil, false
	}
	return rep, true
}

func requireBearer(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="evaluator"`)
			writeError(w, http.StatusUnauthorized, "unauthorized", "a valid bearer token is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
