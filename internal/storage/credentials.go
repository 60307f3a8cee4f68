package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
)

// Credentials is the service-account identity used both to construct the
// storage client and to sign read URLs. Treated as a capability token:
// never logged, never echoed back to clients.
type Credentials struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`

	raw []byte
}

// RawJSON returns the full service-account key file, for handing to the
// storage client constructor.
func (c *Credentials) RawJSON() []byte { return c.raw }

// LoadCredentials resolves the service-account key from one of two sources,
// in order: a base64-encoded JSON blob, or a path to the key file. Both empty
// is a configuration error.
func LoadCredentials(b64, path string) (*Credentials, error) {
	var raw []byte

	switch {
	case b64 != "":
		decoded, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("decode GOOGLE_APPLICATION_CREDENTIALS_B64: %w", err)
		}
		raw = decoded
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		raw = data
	default:
		return nil, fmt.Errorf("missing credentials: set GOOGLE_APPLICATION_CREDENTIALS_B64 or GOOGLE_APPLICATION_CREDENTIALS_PATH")
	}

	creds := &Credentials{raw: raw}
	if err := json.Unmarshal(raw, creds); err != nil {
		return nil, fmt.Errorf("parse service account JSON: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, fmt.Errorf("service account JSON missing client_email or private_key")
	}
	return creds, nil
}
