// Package video buffers recorded fragments per session and merges them into a
// single artifact once the interview has ended.
package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrInvalidTarget = errors.New("recording is unknown or already closed")
	ErrNoFragments   = errors.New("recording has no fragments")
	ErrEmptyFragment = errors.New("fragment is empty")
)

// FragmentStore keeps fragment bytes until they are merged.
type FragmentStore interface {
	Save(ctx context.Context, sessionID string, sequence int, data []byte) (string, error)
	Remove(ctx context.Context, locations []string) error
}

// Merger joins stored fragments, in the order given, into one local artifact.
type Merger interface {
	Merge(ctx context.Context, sessionID string, locations []string) (string, error)
}

// ArtifactPublisher copies a merged artifact to durable storage and returns its reference.
type ArtifactPublisher interface {
	Publish(ctx context.Context, sessionID, artifactPath string) (string, error)
}

type Ack struct {
	Sequence int
}

type recording struct {
	mu        sync.Mutex
	fragments []string
	closed    bool
	artifact  string
}

type Assembler struct {
	store     FragmentStore
	merger    Merger
	publisher ArtifactPublisher

	mu         sync.Mutex
	recordings map[string]*recording
}

// NewAssembler builds an assembler. publisher may be nil, in which case the
// merged file path is the artifact reference.
func NewAssembler(store FragmentStore, merger Merger, publisher ArtifactPublisher) *Assembler {
	return &Assembler{
		store:      store,
		merger:     merger,
		publisher:  publisher,
		recordings: make(map[string]*recording),
	}
}

// Open registers a recording for the session. Opening twice is a no-op.
func (a *Assembler) Open(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.recordings[sessionID]; !ok {
		a.recordings[sessionID] = &recording{}
	}
}

func (a *Assembler) lookup(sessionID string) (*recording, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, ok := a.recordings[sessionID]
	return rec, ok
}

// AppendFragment stores data as the next fragment in arrival order.
func (a *Assembler) AppendFragment(ctx context.Context, sessionID string, data []byte) (Ack, error) {
	rec, ok := a.lookup(sessionID)
	if !ok {
		return Ack{}, ErrInvalidTarget
	}
	if len(data) == 0 {
		return Ack{}, ErrEmptyFragment
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.closed {
		return Ack{}, ErrInvalidTarget
	}
	seq := len(rec.fragments) + 1
	loc, err := a.store.Save(ctx, sessionID, seq, data)
	if err != nil {
		return Ack{}, fmt.Errorf("store fragment %d: %w", seq, err)
	}
	rec.fragments = append(rec.fragments, loc)
	return Ack{Sequence: seq}, nil
}

// FragmentCount reports how many fragments the recording currently holds.
func (a *Assembler) FragmentCount(sessionID string) int {
	rec, ok := a.lookup(sessionID)
	if !ok {
		return 0
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.fragments)
}

// Finalize closes the recording to further fragments and merges what it holds.
// A finalized recording returns the same reference on every later call. A
// failed merge keeps the fragments so that Finalize can be retried.
func (a *Assembler) Finalize(ctx context.Context, sessionID string) (string, error) {
	rec, ok := a.lookup(sessionID)
	if !ok {
		return "", ErrInvalidTarget
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.closed = true
	if rec.artifact != "" {
		return rec.artifact, nil
	}
	if len(rec.fragments) == 0 {
		return "", ErrNoFragments
	}

	fragments := append([]string(nil), rec.fragments...)
	merged, err := a.merger.Merge(ctx, sessionID, fragments)
	if err != nil {
		return "", fmt.Errorf("merge %d fragments: %w", len(fragments), err)
	}

	ref := merged
	if a.publisher != nil {
		published, err := a.publisher.Publish(ctx, sessionID, merged)
		if err != nil {
			slog.Error("failed to publish merged recording; keeping local copy", "error", err, "session_id", sessionID, "path", merged)
		} else {
			ref = published
		}
	}

	if err := a.store.Remove(ctx, fragments); err != nil {
		slog.Warn("failed to remove merged fragments", "error", err, "session_id", sessionID)
	}
	rec.fragments = nil
	rec.artifact = ref
	slog.Info("recording finalized", "session_id", sessionID, "fragments", len(fragments), "artifact", ref)
	return ref, nil
}
