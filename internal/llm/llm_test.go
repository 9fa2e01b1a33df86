package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                 `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"  ```json{\"a\":1}```  ": `{"a":1}`,
		"plain text":              "plain text",
	}
	for in, want := range cases {
		if got := StripCodeFence(in); got != want {
			t.Fatalf("StripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, _ Prompt) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	gen := WithTimeout(blockingGenerator{}, 10*time.Millisecond)
	if _, err := gen.Generate(context.Background(), Prompt{User: "hi"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
