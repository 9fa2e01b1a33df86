package video

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	removed []string
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Save(_ context.Context, sessionID string, seq int, data []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	loc := fmt.Sprintf("%s/%06d", sessionID, seq)
	s.data[loc] = append([]byte(nil), data...)
	return loc, nil
}

func (s *memoryStore) Remove(_ context.Context, locs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range locs {
		delete(s.data, l)
		s.removed = append(s.removed, l)
	}
	return nil
}

type concatMerger struct {
	store  *memoryStore
	calls  int
	err    error
	merged []byte
}

func (m *concatMerger) Merge(_ context.Context, sessionID string, locs []string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.merged = nil
	for _, l := range locs {
		m.merged = append(m.merged, m.store.data[l]...)
	}
	return sessionID + "_final.webm", nil
}

type stubPublisher struct {
	err error
}

func (p *stubPublisher) Publish(_ context.Context, sessionID, _ string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "s3://bucket/" + sessionID + ".webm", nil
}

func TestAssembler_MergesInArrivalOrder(t *testing.T) {
	store := newMemoryStore()
	merger := &concatMerger{store: store}
	a := NewAssembler(store, merger, nil)
	a.Open("s1")

	for i, chunk := range []string{"A", "B", "C"} {
		ack, err := a.AppendFragment(context.Background(), "s1", []byte(chunk))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if ack.Sequence != i+1 {
			t.Fatalf("expected sequence %d, got %d", i+1, ack.Sequence)
		}
	}

	ref, err := a.Finalize(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "s1_final.webm" {
		t.Fatalf("unexpected ref: %s", ref)
	}
	if string(merger.merged) != "ABC" {
		t.Fatalf("expected ABC, got %q", merger.merged)
	}
	if len(store.removed) != 3 {
		t.Fatalf("expected fragments to be removed, got %v", store.removed)
	}
}

func TestAssembler_FinalizeIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	merger := &concatMerger{store: store}
	a := NewAssembler(store, merger, nil)
	a.Open("s1")
	if _, err := a.AppendFragment(context.Background(), "s1", []byte("A")); err != nil {
		t.Fatalf("append: %v", err)
	}
	first, err := a.Finalize(context.Background(), "s1")
	if err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	second, err := a.Finalize(context.Background(), "s1")
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical refs, got %s and %s", first, second)
	}
	if merger.calls != 1 {
		t.Fatalf("expected one merge, got %d", merger.calls)
	}
}

func TestAssembler_NoFragments(t *testing.T) {
	store := newMemoryStore()
	a := NewAssembler(store, &concatMerger{store: store}, nil)
	a.Open("s1")
	if _, err := a.Finalize(context.Background(), "s1"); !errors.Is(err, ErrNoFragments) {
		t.Fatalf("expected ErrNoFragments, got %v", err)
	}
	if _, err := a.AppendFragment(context.Background(), "s1", []byte("late")); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget after finalize, got %v", err)
	}
}

func TestAssembler_InvalidTarget(t *testing.T) {
	store := newMemoryStore()
	a := NewAssembler(store, &concatMerger{store: store}, nil)
	if _, err := a.AppendFragment(context.Background(), "missing", []byte("A")); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	if _, err := a.Finalize(context.Background(), "missing"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestAssembler_EmptyFragmentRejected(t *testing.T) {
	store := newMemoryStore()
	a := NewAssembler(store, &concatMerger{store: store}, nil)
	a.Open("s1")
	if _, err := a.AppendFragment(context.Background(), "s1", nil); !errors.Is(err, ErrEmptyFragment) {
		t.Fatalf("expected ErrEmptyFragment, got %v", err)
	}
	if a.FragmentCount("s1") != 0 {
		t.Fatal("empty fragment must not be recorded")
	}
}

func TestAssembler_MergeFailureCanBeRetried(t *testing.T) {
	store := newMemoryStore()
	merger := &concatMerger{store: store, err: errors.New("ffmpeg exited 1")}
	a := NewAssembler(store, merger, nil)
	a.Open("s1")
	if _, err := a.AppendFragment(context.Background(), "s1", []byte("A")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := a.Finalize(context.Background(), "s1"); err == nil {
		t.Fatal("expected merge failure")
	}
	if len(store.removed) != 0 {
		t.Fatal("fragments must be kept after a failed merge")
	}
	merger.err = nil
	ref, err := a.Finalize(context.Background(), "s1")
	if err != nil || ref == "" {
		t.Fatalf("expected retry to succeed, got %q, %v", ref, err)
	}
}

func TestAssembler_PublisherReference(t *testing.T) {
	store := newMemoryStore()
	a := NewAssembler(store, &concatMerger{store: store}, &stubPublisher{})
	a.Open("s1")
	_, _ = a.AppendFragment(context.Background(), "s1", []byte("A"))
	ref, err := a.Finalize(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "s3://bucket/s1.webm" {
		t.Fatalf("unexpected ref: %s", ref)
	}
}

func TestAssembler_PublisherFailureKeepsLocalRef(t *testing.T) {
	store := newMemoryStore()
	a := NewAssembler(store, &concatMerger{store: store}, &stubPublisher{err: errors.New("denied")})
	a.Open("s1")
	_, _ = a.AppendFragment(context.Background(), "s1", []byte("A"))
	ref, err := a.Finalize(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "s1_final.webm" {
		t.Fatalf("expected local ref, got %s", ref)
	}
}

func TestAssembler_ConcurrentAppendsGetDistinctSequences(t *testing.T) {
	store := newMemoryStore()
	a := NewAssembler(store, &concatMerger{store: store}, nil)
	a.Open("s1")

	var wg sync.WaitGroup
	seen := make(chan int, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ack, err := a.AppendFragment(context.Background(), "s1", []byte{byte(i)})
			if err != nil {
				t.Errorf("append: %v", err)
				return
			}
			seen <- ack.Sequence
		}()
	}
	wg.Wait()
	close(seen)
	got := make(map[int]bool)
	for seq := range seen {
		if got[seq] {
			t.Fatalf("duplicate sequence %d", seq)
		}
		got[seq] = true
	}
	if len(got) != 20 || a.FragmentCount("s1") != 20 {
		t.Fatalf("expected 20 fragments, got %d", len(got))
	}
}
