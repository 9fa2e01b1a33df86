package session

import (
	"testing"
	"time"

	"github.com/foxseedlab/mensetsukan/internal/interviewer"
	"github.com/foxseedlab/mensetsukan/internal/question"
)

func TestInterviewTransition_FollowupRequiresText(t *testing.T) {
	bank, err := question.NewBank([]question.Question{{ID: "q1", Text: "a"}, {ID: "q2", Text: "b"}})
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	iv := newInterview("s1", "", "hello", time.Now())
	iv.record("intro", time.Now())
	if q, ok := iv.transition(bank, 1, interviewer.Decision{}); !ok || q.ID != "q1" {
		t.Fatalf("expected q1, got %+v", q)
	}

	iv.record("answer", time.Now())
	q, ok := iv.transition(bank, 1, interviewer.Decision{Ask: true})
	if !ok || q.ID != "q2" {
		t.Fatalf("an ask without text must advance, got %+v", q)
	}
}

func TestInterviewTransition_CompleteInvariant(t *testing.T) {
	bank, _ := question.NewBank([]question.Question{{ID: "q1", Text: "a"}})
	iv := newInterview("s1", "", "hello", time.Now())
	iv.transition(bank, 2, interviewer.Decision{})
	if iv.state != StateAskingFixed || iv.followupBudget != 2 {
		t.Fatalf("unexpected state: %s budget=%d", iv.state, iv.followupBudget)
	}
	iv.transition(bank, 2, interviewer.Decision{Ask: true, Question: "why?"})
	if iv.state != StateAskingFollowup || iv.followupBudget != 1 {
		t.Fatalf("unexpected state: %s budget=%d", iv.state, iv.followupBudget)
	}
	if _, ok := iv.transition(bank, 2, interviewer.Decision{}); ok {
		t.Fatal("expected interview to complete")
	}
	if iv.state != StateComplete || iv.fixedIndex != bank.Len() || iv.followupBudget != 0 {
		t.Fatalf("complete invariant violated: state=%s index=%d budget=%d", iv.state, iv.fixedIndex, iv.followupBudget)
	}
	if _, ok := iv.transition(bank, 2, interviewer.Decision{}); ok || iv.fixedIndex != bank.Len() {
		t.Fatal("complete interview must not advance")
	}
}
