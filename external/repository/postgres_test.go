package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/foxseedlab/mensetsukan/internal/repository"
)

func TestPostgresRepository_NonUUIDLookupsAreNotFound(t *testing.T) {
	// No pool: a malformed id must be answered before any query is issued.
	repo := NewPostgresRepository(nil)
	ctx := context.Background()

	for _, id := range []string{"", "not-a-uuid", "../etc/passwd", "1; DROP TABLE interview_sessions"} {
		if _, err := repo.GetReportBySessionID(ctx, id); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("report %q: expected ErrNotFound, got %v", id, err)
		}
		if _, err := repo.GetSession(ctx, id); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("session %q: expected ErrNotFound, got %v", id, err)
		}
		turns, err := repo.ListTurnsBySessionID(ctx, id)
		if err != nil || len(turns) != 0 {
			t.Fatalf("turns %q: expected no turns, got %v, %v", id, turns, err)
		}
	}
}

func TestIsSessionID(t *testing.T) {
	if !isSessionID("6f1c1a52-8c1e-4d59-9a55-0d7f1a2b3c4d") {
		t.Fatal("expected a UUID to be accepted")
	}
	if isSessionID("s1") {
		t.Fatal("expected a non-UUID to be rejected")
	}
}
