package transcriber

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubEngine struct {
	text  string
	err   error
	delay time.Duration
}

func (s *stubEngine) Transcribe(ctx context.Context, _ Audio) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

func TestBridge_TrimsText(t *testing.T) {
	b := NewBridge(&stubEngine{text: "  I use pivot tables  "}, time.Second)
	got, err := b.Transcribe(context.Background(), Audio{Data: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "I use pivot tables" {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestBridge_EmptyResultUsesPlaceholder(t *testing.T) {
	b := NewBridge(&stubEngine{text: " "}, time.Second)
	got, err := b.Transcribe(context.Background(), Audio{Data: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != UnintelligiblePlaceholder {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestBridge_EngineErrorIsTranscriptionError(t *testing.T) {
	b := NewBridge(&stubEngine{err: errors.New("decode failed")}, time.Second)
	_, err := b.Transcribe(context.Background(), Audio{Data: []byte{1}})
	if !errors.Is(err, ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
}

func TestBridge_TimeoutIsTranscriptionError(t *testing.T) {
	b := NewBridge(&stubEngine{delay: time.Second}, 10*time.Millisecond)
	_, err := b.Transcribe(context.Background(), Audio{Data: []byte{1}})
	if !errors.Is(err, ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded to be wrapped, got %v", err)
	}
}

func TestBridge_RejectsEmptyAudio(t *testing.T) {
	b := NewBridge(&stubEngine{text: "hello"}, time.Second)
	if _, err := b.Transcribe(context.Background(), Audio{}); !errors.Is(err, ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
}
