package artifact

import "time"

// Artifact is one persisted generated-audio object as returned to clients.
// ReadURL is a short-lived signed URL minted at read time, never stored.
type Artifact struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	ReadURL   string    `json:"readUrl"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
}

// StatusComplete is the only status a listed artifact can have: an object in
// the bucket is, by definition, fully written. Pending/error states exist
// only in the client's optimistic view.
const StatusComplete = "complete"

// FromObject reconstructs an Artifact from a stored object's name, custom
// metadata, creation time, and a freshly signed read URL. Explicit metadata
// wins; name parsing is the legacy fallback.
func FromObject(objectName string, meta map[string]string, created time.Time, readURL string) Artifact {
	id := meta[MetaID]
	if id == "" {
		id = DeriveIDFromObjectName(objectName)
	}
	return Artifact{
		ID:        id,
		Text:      DecodeTextMetadata(meta, objectName),
		ReadURL:   readURL,
		CreatedAt: created,
		Status:    StatusComplete,
	}
}
