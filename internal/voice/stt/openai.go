package stt

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for the OpenAI-compatible STT backend.
type OpenAIConfig struct {
	APIKey string
	Model  string // default: "whisper-1"
}

// OpenAI transcribes audio using OpenAI's transcription endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI provider with defaults applied.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAI{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}
}

func (o *OpenAI) Name() string { return "openai-whisper" }

// Transcribe streams the audio to the transcription endpoint.
func (o *OpenAI) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResult, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		Reader:   req.Audio,
		FilePath: req.Filename,
		Language: req.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}

	return &TranscriptionResult{
		Text:     resp.Text,
		Language: resp.Language,
	}, nil
}
