package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/Trevorton27/voice-app/internal/artifact"
	"github.com/Trevorton27/voice-app/internal/storage"
	"github.com/Trevorton27/voice-app/internal/voice/tts"
)

// SpeechHandler synthesizes speech from text and persists the result to the
// bucket in one call, so the browser never has to shuttle audio bytes back
// up for archiving.
type SpeechHandler struct {
	tts      tts.Provider
	store    storage.Gateway
	storeErr error
	prefix   string
}

func NewSpeechHandler(provider tts.Provider, store storage.Gateway, storeErr error, prefix string) *SpeechHandler {
	if prefix == "" {
		prefix = "speeches"
	}
	return &SpeechHandler{tts: provider, store: store, storeErr: storeErr, prefix: prefix}
}

type speechRequest struct {
	Text    string `json:"text"`
	Voice   string `json:"voice,omitempty"`
	ModelID string `json:"model_id,omitempty"`
}

type speechResponse struct {
	OK        bool   `json:"ok"`
	ID        string `json:"id"`
	Text      string `json:"text"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	PublicURL string `json:"publicUrl"`
}

// Generate synthesizes the given text and stores the audio under a
// server-assigned id, with the source text attached as metadata.
func (h *SpeechHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return
	}

	if h.store == nil {
		msg := "storage not configured"
		if h.storeErr != nil {
			msg = h.storeErr.Error()
		}
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	result, err := h.tts.Synthesize(r.Context(), tts.SynthesisRequest{
		Input:   req.Text,
		Voice:   req.Voice,
		ModelID: req.ModelID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	id := uuid.NewString()
	filename := id + ".mp3"

	uploaded, err := h.store.Upload(r.Context(), storage.UploadRequest{
		Content:      bytes.NewReader(result.Audio),
		OriginalName: filename,
		ContentType:  result.ContentType,
		Prefix:       h.prefix,
		Metadata:     artifact.Metadata(id, req.Text, filename),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, speechResponse{
		OK:        true,
		ID:        id,
		Text:      req.Text,
		Name:      uploaded.ObjectName,
		URL:       uploaded.SignedURL,
		PublicURL: uploaded.PublicURL,
	})
}
