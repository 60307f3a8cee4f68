package stt

import (
	"context"
	"io"
)

// TranscriptionRequest holds one audio stream to transcribe. Filename is
// kept because both backends use its extension to pick a decoder.
type TranscriptionRequest struct {
	Audio    io.Reader
	Filename string
	Language string
}

// TranscriptionResult holds the transcription.
type TranscriptionResult struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResult, error)
	Name() string
}
