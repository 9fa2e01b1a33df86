package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBuildReportText(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	g := newTestGenerator(t, &mockLLM{err: errors.New("down")})
	g.timezone = "Asia/Tokyo"
	g.loc = loc
	r, err := g.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"=== Interview Report: Session s1 ===",
		"Candidate: Ada",
		"Interview period: 2026-03-01 18:00:00 ~ 2026-03-01 18:10:00 (Asia/Tokyo)",
		"Video: recordings/s1_final.webm",
		"00:00:30 Q1 [intro]: Hello!",
		"00:02:00 Q2 [fixed]: What does VLOOKUP do?",
		"Score: 1.0 (matched keywords: lookup, vertical)",
		"00:03:00 Q3 [followup]: Any limits?",
		"Score: 0.5 (matched keywords: none)",
		"Final Score: 1.5/2.0",
	} {
		if !strings.Contains(r.Text, want) {
			t.Fatalf("expected %q in report:\n%s", want, r.Text)
		}
	}

	order := []string{"Summary:", "Strengths:", "Improvements:", "Final Score:"}
	last := -1
	for _, section := range order {
		idx := strings.Index(r.Text, section)
		if idx <= last {
			t.Fatalf("section %q is out of order:\n%s", section, r.Text)
		}
		last = idx
	}
}

func TestFormatElapsedHMS(t *testing.T) {
	if got := formatElapsedHMS(3723 * time.Second); got != "01:02:03" {
		t.Fatalf("unexpected elapsed format: %s", got)
	}
}
