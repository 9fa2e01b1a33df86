package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/mensetsukan/internal/webhook"
)

func TestSendReport_EmptyWebhookURL(t *testing.T) {
	sender := NewHTTPSender("")
	if err := sender.SendReport(context.Background(), webhook.Report{Filename: "a.txt", Body: []byte("hello")}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSendReport_Success(t *testing.T) {
	var (
		gotFilename  string
		gotBody      string
		gotSessionID string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data") {
			t.Errorf("unexpected content type: %s", ct)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
			return
		}
		gotSessionID = r.FormValue("session_id")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			return
		}
		defer f.Close()
		gotFilename = hdr.Filename
		content, _ := io.ReadAll(f)
		gotBody = string(content)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	err := sender.SendReport(context.Background(), webhook.Report{
		SessionID: "s1",
		ReportID:  "r1",
		Filename:  "report-s1.txt",
		Body:      []byte("private report"),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if gotFilename != "report-s1.txt" || gotBody != "private report" || gotSessionID != "s1" {
		t.Fatalf("unexpected upload: filename=%s body=%s session=%s", gotFilename, gotBody, gotSessionID)
	}
}

func TestSendReport_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	if err := sender.SendReport(context.Background(), webhook.Report{Filename: "r.txt", Body: []byte("x")}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
