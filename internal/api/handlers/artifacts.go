package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/Trevorton27/voice-app/internal/artifact"
	"github.com/Trevorton27/voice-app/internal/storage"
)

// ArtifactHandler serves the generated-audio archive: list what the bucket
// holds, accept new uploads. Stateless; the gateway is the only dependency.
type ArtifactHandler struct {
	store         storage.Gateway
	storeErr      error
	defaultPrefix string
}

// NewArtifactHandler wires the handler to a gateway. A nil gateway (with the
// construction error in storeErr) turns every request into a configuration
// error response until the operator fixes the environment.
func NewArtifactHandler(store storage.Gateway, storeErr error, defaultPrefix string) *ArtifactHandler {
	if defaultPrefix == "" {
		defaultPrefix = "speeches"
	}
	return &ArtifactHandler{store: store, storeErr: storeErr, defaultPrefix: defaultPrefix}
}

func (h *ArtifactHandler) ready(w http.ResponseWriter) bool {
	if h.store != nil {
		return true
	}
	msg := "storage not configured"
	if h.storeErr != nil {
		msg = h.storeErr.Error()
	}
	writeError(w, http.StatusInternalServerError, msg)
	return false
}

type listResponse struct {
	OK    bool                `json:"ok"`
	Files []artifact.Artifact `json:"files"`
}

// List returns every artifact in the bucket, newest first, each with a fresh
// signed read URL. An empty bucket is an empty files array, not an error.
func (h *ArtifactHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	objects, err := h.store.List(r.Context(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	files := make([]artifact.Artifact, 0, len(objects))
	for _, obj := range objects {
		files = append(files, artifact.FromObject(obj.Name, obj.Metadata, obj.Created, obj.ReadURL))
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})

	writeJSON(w, http.StatusOK, listResponse{OK: true, Files: files})
}

type uploadResponse struct {
	OK        bool   `json:"ok"`
	Name      string `json:"name"`
	ID        string `json:"id"`
	Text      string `json:"text"`
	URL       string `json:"url"`
	PublicURL string `json:"publicUrl"`
}

// Upload accepts a multipart form with a required "file" part and optional
// "id", "text", and "prefix" fields, persists the payload with the id/text
// attached as metadata, and echoes the server-resolved values so the client
// can reconcile its optimistic state without drift.
func (h *ArtifactHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, errNoFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errNoFile)
		return
	}
	defer file.Close()

	id := r.FormValue("id")
	text := r.FormValue("text")
	prefix := strings.Trim(r.FormValue("prefix"), "/")
	if prefix == "" {
		prefix = h.defaultPrefix
	}

	name := header.Filename
	if name == "" {
		name = "audio.mp3"
	}
	original := artifact.SanitizeFilename(name)

	result, err := h.store.Upload(r.Context(), storage.UploadRequest{
		Content:      file,
		OriginalName: original,
		ContentType:  header.Header.Get("Content-Type"),
		Prefix:       prefix,
		Metadata:     artifact.Metadata(id, text, original),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if id == "" {
		id = artifact.DeriveIDFromObjectName(result.ObjectName)
	}
	if text == "" {
		text = artifact.StripExtension(original)
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		OK:        true,
		Name:      result.ObjectName,
		ID:        id,
		Text:      text,
		URL:       result.SignedURL,
		PublicURL: result.PublicURL,
	})
}
