package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Trevorton27/voice-app/internal/config"
)

// AgentHandler mints short-lived session URLs for the browser's
// conversational voice widget. The session itself (WebRTC negotiation, audio
// streaming, turn-taking) is entirely the vendor's; this endpoint only keeps
// the API key off the client.
type AgentHandler struct {
	cfg        config.ElevenLabsConfig
	httpClient *http.Client
}

func NewAgentHandler(cfg config.ElevenLabsConfig) *AgentHandler {
	return &AgentHandler{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type agentResponse struct {
	OK        bool   `json:"ok"`
	SignedURL string `json:"signedUrl"`
	AgentID   string `json:"agentId"`
}

// SignedURL asks the vendor for a signed conversation URL for the configured
// agent.
func (h *AgentHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	if h.cfg.AgentID == "" || h.cfg.APIKey == "" {
		writeError(w, http.StatusInternalServerError,
			"missing ELEVENLABS_AGENT_ID or ELEVENLABS_API_KEY")
		return
	}

	endpoint := fmt.Sprintf("%s/v1/convai/conversation/get-signed-url?agent_id=%s",
		h.cfg.BaseURL, url.QueryEscape(h.cfg.AgentID))

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	req.Header.Set("xi-api-key", h.cfg.APIKey)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("agent session request: %v", err))
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.StatusCode != http.StatusOK {
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("agent session failed (status %d): %s", resp.StatusCode, string(body)))
		return
	}

	var apiResp struct {
		SignedURL string `json:"signed_url"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("parse agent session response: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, agentResponse{
		OK:        true,
		SignedURL: apiResp.SignedURL,
		AgentID:   h.cfg.AgentID,
	})
}
