package tts

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for the OpenAI-compatible TTS backend.
type OpenAIConfig struct {
	APIKey string
	Model  string // default: "tts-1"
}

// OpenAI synthesizes speech using OpenAI's speech endpoint.
type OpenAI struct {
	client *openai.Client
	model  openai.SpeechModel
}

// NewOpenAI creates an OpenAI provider with defaults applied.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	model := openai.SpeechModel(cfg.Model)
	if model == "" {
		model = openai.TTSModel1
	}
	return &OpenAI{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}
}

func (o *OpenAI) Name() string { return "openai-tts" }

// Synthesize converts text to MP3 audio.
func (o *OpenAI) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	voice := openai.SpeechVoice(req.Voice)
	if voice == "" {
		voice = openai.VoiceAlloy
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: o.model,
		Input: req.Input,
		Voice: voice,
	})
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return &SynthesisResult{
		Audio:       audio,
		ContentType: "audio/mpeg",
	}, nil
}
