package handlers

import (
	"net/http"

	"github.com/Trevorton27/voice-app/internal/voice/stt"
)

// TranscriptionHandler turns an uploaded audio file into text. Nothing is
// persisted; the transcript goes straight back to the caller.
type TranscriptionHandler struct {
	stt stt.Provider
}

func NewTranscriptionHandler(provider stt.Provider) *TranscriptionHandler {
	return &TranscriptionHandler{stt: provider}
}

type transcriptionResponse struct {
	OK       bool   `json:"ok"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Create transcribes the "file" part of a multipart upload. An optional
// "language" field pins the recognition language.
func (h *TranscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, errNoFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errNoFile)
		return
	}
	defer file.Close()

	result, err := h.stt.Transcribe(r.Context(), stt.TranscriptionRequest{
		Audio:    file,
		Filename: header.Filename,
		Language: r.FormValue("language"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, transcriptionResponse{
		OK:       true,
		Text:     result.Text,
		Language: result.Language,
	})
}
