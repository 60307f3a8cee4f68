package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElevenLabsTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/speech-to-text", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "scribe_v1", r.FormValue("model_id"))
		assert.Equal(t, "ja", r.FormValue("language_code"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "clip.mp3", header.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "fake-audio", string(data))

		w.Write([]byte(`{"language_code":"ja","text":"こんにちは"}`))
	}))
	defer srv.Close()

	p := NewElevenLabs(ElevenLabsConfig{APIKey: "test-key", BaseURL: srv.URL})
	assert.Equal(t, "elevenlabs-scribe", p.Name())

	res, err := p.Transcribe(context.Background(), TranscriptionRequest{
		Audio:    strings.NewReader("fake-audio"),
		Filename: "clip.mp3",
		Language: "ja",
	})
	require.NoError(t, err)
	assert.Equal(t, "こんにちは", res.Text)
	assert.Equal(t, "ja", res.Language)
}

func TestElevenLabsTranscribeVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"unsupported format"}`))
	}))
	defer srv.Close()

	p := NewElevenLabs(ElevenLabsConfig{BaseURL: srv.URL})
	_, err := p.Transcribe(context.Background(), TranscriptionRequest{
		Audio:    strings.NewReader("x"),
		Filename: "clip.bin",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "unsupported format")
}
