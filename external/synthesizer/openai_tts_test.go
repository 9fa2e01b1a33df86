package synthesizer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAITTS_Synthesize(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("RIFFdata"))
	}))
	defer srv.Close()

	tts := NewOpenAITTS(OpenAITTSConfig{APIKey: "k", BaseURL: srv.URL + "/v1", Voice: "nova"})
	speech, err := tts.Synthesize(context.Background(), "Tell me about yourself.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(speech.Audio) != "RIFFdata" || speech.ContentType != "audio/wav" {
		t.Fatalf("unexpected speech: %+v", speech)
	}
	if gotBody["input"] != "Tell me about yourself." || gotBody["voice"] != "nova" || gotBody["model"] != "tts-1" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestOpenAITTS_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tts := NewOpenAITTS(OpenAITTSConfig{APIKey: "k", BaseURL: srv.URL + "/v1"})
	if _, err := tts.Synthesize(context.Background(), "hi"); err == nil {
		t.Fatal("expected error from failing server")
	}
}
