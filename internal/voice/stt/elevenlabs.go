package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ElevenLabsConfig holds configuration for the ElevenLabs STT backend.
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.elevenlabs.io"
	ModelID string // default: "scribe_v1"
}

// ElevenLabs transcribes audio through the ElevenLabs speech-to-text API.
type ElevenLabs struct {
	cfg        ElevenLabsConfig
	httpClient *http.Client
}

// NewElevenLabs creates an ElevenLabs provider with defaults applied.
func NewElevenLabs(cfg ElevenLabsConfig) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "scribe_v1"
	}
	return &ElevenLabs{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs-scribe" }

// Transcribe streams the audio to the speech-to-text endpoint as a multipart
// upload and returns the recognized text.
func (e *ElevenLabs) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err = io.Copy(fw, req.Audio); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	_ = mw.WriteField("model_id", e.cfg.ModelID)
	if req.Language != "" {
		_ = mw.WriteField("language_code", req.Language)
	}

	if err = mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/v1/speech-to-text", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("xi-api-key", e.cfg.APIKey)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp struct {
		LanguageCode string `json:"language_code"`
		Text         string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &TranscriptionResult{
		Text:     apiResp.Text,
		Language: apiResp.LanguageCode,
	}, nil
}
