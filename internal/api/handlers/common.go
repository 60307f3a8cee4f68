// Package handlers holds the HTTP entry points. Every response is the uniform
// envelope: {ok:true, ...} on success, {ok:false, error} on failure. Errors
// never escape a handler.
package handlers

import (
	"encoding/json"
	"net/http"
)

// errNoFile is the exact validation message clients match on.
const errNoFile = `No file provided (field "file")`

// maxUploadBytes caps multipart parsing for audio uploads.
const maxUploadBytes = 32 << 20 // 32MB

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
