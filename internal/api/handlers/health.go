package handlers

import (
	"net/http"

	"github.com/Trevorton27/voice-app/internal/storage"
)

type HealthHandler struct {
	store    storage.Gateway
	storeErr error
	bucket   string
}

func NewHealthHandler(store storage.Gateway, storeErr error, bucket string) *HealthHandler {
	return &HealthHandler{store: store, storeErr: storeErr, bucket: bucket}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if h.store != nil {
		checks["storage"] = "ok"
	} else if h.storeErr != nil {
		checks["storage"] = "unhealthy: " + h.storeErr.Error()
	} else {
		checks["storage"] = "unhealthy: not configured"
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, map[string]interface{}{"status": statusStr(status), "checks": checks})
}

// Bucket is the connectivity probe the original demo exposed: confirms which
// bucket the server is configured against without touching the network.
func (h *HealthHandler) Bucket(w http.ResponseWriter, r *http.Request) {
	if h.bucket == "" {
		writeError(w, http.StatusInternalServerError, "GCS_BUCKET env not set")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "bucket": h.bucket})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}
