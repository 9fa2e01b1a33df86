package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foxseedlab/mensetsukan/internal/repository"
)

type mockReports struct {
	reports  map[string]*repository.StoredReport
	sessions map[string]*repository.Session
	turns    map[string][]repository.Turn
	err      error
}

func (m *mockReports) GetSession(_ context.Context, sessionID string) (*repository.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (m *mockReports) ListTurnsBySessionID(_ context.Context, sessionID string) ([]repository.Turn, error) {
	return m.turns[sessionID], nil
}

func (m *mockReports) GetReportBySessionID(_ context.Context, sessionID string) (*repository.StoredReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	rep, ok := m.reports[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rep, nil
}

func newEvaluator() http.Handler {
	store := &mockReports{
		reports: map[string]*repository.StoredReport{
			"s1": {ID: "r1", SessionID: "s1", ReportJSON: []byte(`{"id":"r1"}`), ReportText: "Final Score: 1/2"},
		},
		sessions: map[string]*repository.Session{
			"s1": {ID: "s1", CandidateLabel: "Ada", State: "COMPLETE", FixedIndex: 2, ReportRef: "r1"},
		},
		turns: map[string][]repository.Turn{
			"s1": {
				{SessionID: "s1", Seq: 1, QuestionID: "intro", QuestionText: "Hello!", Kind: "intro", Answer: "I'm Ada."},
				{SessionID: "s1", Seq: 2, QuestionID: "q1", QuestionText: "What does VLOOKUP do?", Kind: "fixed", Answer: "Lookups."},
			},
		},
	}
	return NewEvaluatorHandler(store, store, "secret")
}

func authed(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestEvaluator_RequiresToken(t *testing.T) {
	h := newEvaluator()
	for _, token := range []string{"", "wrong"} {
		rec := serve(h, authed(http.MethodGet, "/reports/s1", token))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected 401, got %d", token, rec.Code)
		}
	}
}

func TestEvaluator_EmptyConfiguredTokenRejectsAll(t *testing.T) {
	store := &mockReports{}
	h := NewEvaluatorHandler(store, store, "")
	req := httptest.NewRequest(http.MethodGet, "/reports/s1", nil)
	req.Header.Set("Authorization", "Bearer ")
	if rec := serve(h, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestEvaluator_GetReport(t *testing.T) {
	h := newEvaluator()
	rec := serve(h, authed(http.MethodGet, "/reports/s1", "secret"))
	if rec.Code != http.StatusOK || rec.Body.String() != `{"id":"r1"}` {
		t.Fatalf("unexpected report: %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(h, authed(http.MethodGet, "/reports/s1/text", "secret"))
	if rec.Code != http.StatusOK || rec.Body.String() != "Final Score: 1/2" {
		t.Fatalf("unexpected text: %d %s", rec.Code, rec.Body.String())
	}
}

func TestEvaluator_NotFoundAndFailure(t *testing.T) {
	h := newEvaluator()
	if rec := serve(h, authed(http.MethodGet, "/reports/missing", "secret")); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	failing := &mockReports{err: errors.New("db down")}
	h = NewEvaluatorHandler(failing, failing, "secret")
	if rec := serve(h, authed(http.MethodGet, "/reports/s1", "secret")); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestEvaluator_SessionHistory(t *testing.T) {
	h := newEvaluator()
	rec := serve(h, authed(http.MethodGet, "/sessions/s1", "secret"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got sessionHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State != "COMPLETE" || got.ReportRef != "r1" || len(got.Turns) != 2 {
		t.Fatalf("unexpected history: %+v", got)
	}
	if got.Turns[1].QuestionID != "q1" || got.Turns[1].Answer != "Lookups." {
		t.Fatalf("unexpected turn: %+v", got.Turns[1])
	}

	if rec := serve(h, authed(http.MethodGet, "/sessions/missing", "secret")); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := serve(h, authed(http.MethodGet, "/sessions/s1", "")); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
