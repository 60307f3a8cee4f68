package tts

import "context"

// SynthesisRequest holds the parameters for text-to-speech generation.
type SynthesisRequest struct {
	Input   string `json:"input"`
	Voice   string `json:"voice,omitempty"`
	ModelID string `json:"model_id,omitempty"`
}

// SynthesisResult holds the generated audio and its content type.
type SynthesisResult struct {
	Audio       []byte
	ContentType string // "audio/mpeg" for both backends
}

// Provider is the interface for text-to-speech backends.
type Provider interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
	Name() string
}
