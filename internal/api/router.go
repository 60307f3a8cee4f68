package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Trevorton27/voice-app/internal/api/handlers"
	"github.com/Trevorton27/voice-app/internal/api/middleware"
	"github.com/Trevorton27/voice-app/internal/config"
	"github.com/Trevorton27/voice-app/internal/storage"
	"github.com/Trevorton27/voice-app/internal/voice/stt"
	"github.com/Trevorton27/voice-app/internal/voice/tts"
)

// Router wires the handlers to their routes. The storage gateway is built
// once in main and injected; a failed construction travels along as storeErr
// so every storage-backed route reports the same configuration error.
type Router struct {
	mux      *chi.Mux
	cfg      *config.Config
	store    storage.Gateway
	storeErr error
}

func NewRouter(store storage.Gateway, storeErr error, cfg *config.Config) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		cfg:      cfg,
		store:    store,
		storeErr: storeErr,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Probes (no auth on anything; the only secret is outbound)
	health := handlers.NewHealthHandler(rt.store, rt.storeErr, rt.cfg.Storage.Bucket)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Get("/bucket", health.Bucket)

	// Artifact archive: the storage round-trip
	artifactH := handlers.NewArtifactHandler(rt.store, rt.storeErr, rt.cfg.Storage.DefaultPrefix)
	r.Route("/artifacts", func(r chi.Router) {
		r.Get("/", artifactH.List)
		r.Post("/", artifactH.Upload)
	})

	// Vendor-backed voice features
	speechH := handlers.NewSpeechHandler(rt.ttsProvider(), rt.store, rt.storeErr, rt.cfg.Storage.DefaultPrefix)
	r.Post("/speech", speechH.Generate)

	transcriptionH := handlers.NewTranscriptionHandler(rt.sttProvider())
	r.Post("/transcriptions", transcriptionH.Create)

	agentH := handlers.NewAgentHandler(rt.cfg.ElevenLabs)
	r.Get("/agent/signed-url", agentH.SignedURL)

	return r
}

func (rt *Router) ttsProvider() tts.Provider {
	if rt.cfg.TTS.Backend == "openai" {
		return tts.NewOpenAI(tts.OpenAIConfig{
			APIKey: rt.cfg.TTS.OpenAIKey,
			Model:  rt.cfg.TTS.OpenAIModel,
		})
	}
	return tts.NewElevenLabs(tts.ElevenLabsConfig{
		APIKey:  rt.cfg.ElevenLabs.APIKey,
		BaseURL: rt.cfg.ElevenLabs.BaseURL,
		VoiceID: rt.cfg.ElevenLabs.VoiceID,
		ModelID: rt.cfg.ElevenLabs.ModelID,
	})
}

func (rt *Router) sttProvider() stt.Provider {
	if rt.cfg.STT.Backend == "openai" {
		return stt.NewOpenAI(stt.OpenAIConfig{
			APIKey: rt.cfg.STT.OpenAIKey,
			Model:  rt.cfg.STT.OpenAIModel,
		})
	}
	return stt.NewElevenLabs(stt.ElevenLabsConfig{
		APIKey:  rt.cfg.ElevenLabs.APIKey,
		BaseURL: rt.cfg.ElevenLabs.BaseURL,
		ModelID: rt.cfg.STT.ScribeModel,
	})
}
