package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ElevenLabsConfig holds configuration for the ElevenLabs TTS backend.
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.elevenlabs.io"
	VoiceID string // used when the request does not name a voice
	ModelID string // default: "eleven_multilingual_v2"
}

// ElevenLabs synthesizes speech through the ElevenLabs text-to-speech API.
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
		cfg.ModelID = "eleven_multilingual_v2"
	}
	return &ElevenLabs{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs-tts" }

// Synthesize converts text to MP3 audio.
func (e *ElevenLabs) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	voice := req.Voice
	if voice == "" {
		voice = e.cfg.VoiceID
	}
	if voice == "" {
		return nil, fmt.Errorf("no voice configured: set ELEVENLABS_VOICE_ID or pass one in the request")
	}

	model := req.ModelID
	if model == "" {
		model = e.cfg.ModelID
	}

	body, err := json.Marshal(map[string]any{
		"text":     req.Input,
		"model_id": model,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128", e.cfg.BaseURL, voice)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", e.cfg.APIKey)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return &SynthesisResult{
		Audio:       audio,
		ContentType: "audio/mpeg",
	}, nil
}
