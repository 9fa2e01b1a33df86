package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/foxseedlab/mensetsukan/internal/question"
	"github.com/foxseedlab/mensetsukan/internal/session"
	"github.com/foxseedlab/mensetsukan/internal/synthesizer"
	"github.com/foxseedlab/mensetsukan/internal/transcriber"
	"github.com/foxseedlab/mensetsukan/internal/video"
)

// Interviews is the candidate-facing surface of the session manager. It has
// no way to read reports.
type Interviews interface {
	Start(ctx context.Context, candidateLabel string) (*session.Greeting, error)
	SubmitAnswer(ctx context.Context, sessionID, questionRef string, audio transcriber.Audio) (*session.Outcome, error)
	UploadFragment(ctx context.Context, sessionID string, data []byte) (session.FragmentAck, error)
	End(ctx context.Context, sessionID string) (string, error)
	Snapshot(sessionID string) (session.Snapshot, error)
	Questions() []question.Question
	Speak(ctx context.Context, text string) (synthesizer.Speech, error)
}

type candidateHandler struct {
	interviews     Interviews
	maxUploadBytes int64
}

func NewCandidateHandler(interviews Interviews, maxUploadBytes int64) http.Handler {
	h := &candidateHandler{interviews: interviews, maxUploadBytes: maxUploadBytes}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /questions", h.listQuestions)
	mux.HandleFunc("POST /tts", h.speak)
	mux.HandleFunc("POST /sessions", h.startSession)
	mux.HandleFunc("GET /sessions/{id}", h.getSession)
	mux.HandleFunc("POST /sessions/{id}/answers", h.submitAnswer)
	mux.HandleFunc("POST /sessions/{id}/video", h.uploadVideo)
	mux.HandleFunc("POST /sessions/{id}/end", h.endSession)
	return mux
}

type startSessionRequest struct {
	Name string `json:"name"`
}

type startSessionResponse struct {
	SessionID        string `json:"session_id"`
	GreetingText     string `json:"greeting_text"`
	GreetingAudio    []byte `json:"greeting_audio,omitempty"`
	AudioContentType string `json:"audio_content_type,omitempty"`
	QuestionID       string `json:"question_id"`
}

type answerResponse struct {
	NextQuestionID   string `json:"next_question_id,omitempty"`
	NextQuestionText string `json:"next_question_text"`
	Audio            []byte `json:"audio,omitempty"`
	AudioContentType string `json:"audio_content_type,omitempty"`
	Transcript       string `json:"transcript"`
	Done             bool   `json:"done"`
}

type fragmentResponse struct {
	Sequence int `json:"sequence"`
}

type endResponse struct {
	Status    string `json:"status"`
	ReportRef string `json:"report_ref"`
}

type questionResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (h *candidateHandler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *candidateHandler) listQuestions(w http.ResponseWriter, _ *http.Request) {
	qs := h.interviews.Questions()
	out := make([]questionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, questionResponse{ID: q.ID, Text: q.Text})
	}
	writeJSONResponse(w, http.StatusOK, out)
}

func (h *candidateHandler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if r.Body != nil {
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
			return
		}
	}
	g, err := h.interviews.Start(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, startSessionResponse{
		SessionID:        g.SessionID,
		GreetingText:     g.Text,
		GreetingAudio:    g.Audio,
		AudioContentType: g.AudioContentType,
		QuestionID:       question.IntroID,
	})
}

func (h *candidateHandler) getSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.interviews.Snapshot(r.PathValue("id"))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, snap)
}

func (h *candidateHandler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	questionID := ""
	upload, ok := h.readUpload(w, r, func(r *http.Request) {
		questionID = strings.TrimSpace(r.FormValue("question_id"))
	})
	if !ok {
		return
	}
	if questionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "question_id is required")
		return
	}
	out, err := h.interviews.SubmitAnswer(r.Context(), r.PathValue("id"), questionID, upload)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, answerResponse{
		NextQuestionID:   out.NextQuestionID,
		NextQuestionText: out.NextQuestionText,
		Audio:            out.Audio,
		AudioContentType: out.AudioContentType,
		Transcript:       out.Transcript,
		Done:             out.Done,
	})
}

func (h *candidateHandler) uploadVideo(w http.ResponseWriter, r *http.Request) {
	upload, ok := h.readUpload(w, r, nil)
	if !ok {
		return
	}
	ack, err := h.interviews.UploadFragment(r.Context(), r.PathValue("id"), upload.Data)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, fragmentResponse{Sequence: ack.Sequence})
}

func (h *candidateHandler) endSession(w http.ResponseWriter, r *http.Request) {
	ref, err := h.interviews.End(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, endResponse{Status: "ended", ReportRef: ref})
}

func (h *candidateHandler) speak(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	speech, err := h.interviews.Speak(r.Context(), text)
	if err != nil {
		slog.Warn("tts request failed", "error", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", speech.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(speech.Audio); err != nil {
		slog.Error("failed to write tts audio", "error", err)
	}
}

// readUpload reads the multipart "file" part. fields, when set, runs after
// the form is parsed so callers can pick other values.
func (h *candidateHandler) readUpload(w http.ResponseWriter, r *http.Request, fields func(*http.Request)) (transcriber.Audio, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds the size limit")
			return transcriber.Audio{}, false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "expected a multipart form upload")
		return transcriber.Audio{}, false
	}
	if fields != nil {
		fields(r)
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "file is required")
		return transcriber.Audio{}, false
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to read upload")
		return transcriber.Audio{}, false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "file is empty")
		return transcriber.Audio{}, false
	}
	return transcriber.Audio{Data: data, MimeType: hdr.Header.Get("Content-Type"), Filename: hdr.Filename}, true
}

func (h *candidateHandler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownSession):
		writeError(w, http.StatusNotFound, "unknown_session", "session not found")
	case errors.Is(err, session.ErrSessionClosed):
		writeError(w, http.StatusConflict, "session_closed", "the interview has already ended")
	case errors.Is(err, session.ErrQuestionMismatch):
		writeError(w, http.StatusConflict, "question_mismatch", "the answer does not match the current question")
	case errors.Is(err, session.ErrAlreadyProcessing):
		writeError(w, http.StatusTooManyRequests, "already_processing", "the previous answer is still being processed")
	case errors.Is(err, session.ErrBankEmpty):
		writeError(w, http.StatusServiceUnavailable, "bank_empty", "no interview questions are configured")
	case errors.Is(err, transcriber.ErrTranscription):
		writeError(w, http.StatusUnprocessableEntity, "transcription_failed", session.MessageRetryAnswer)
	case errors.Is(err, video.ErrInvalidTarget):
		writeError(w, http.StatusGone, "recording_closed", "the recording is unknown or already closed")
	case errors.Is(err, video.ErrEmptyFragment):
		writeError(w, http.StatusBadRequest, "invalid_request", "fragment is empty")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
