package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	ElevenLabs ElevenLabsConfig
	TTS        TTSConfig
	STT        STTConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	Bucket    string
	ProjectID string
	// Credential sources, checked in order: base64-encoded service-account
	// JSON, then a path to the key file on disk.
	CredentialsB64  string
	CredentialsPath string
	// DefaultPrefix is the folder new artifacts land in when the request
	// does not name one.
	DefaultPrefix string
}

type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.elevenlabs.io"
	VoiceID string
	ModelID string // default: "eleven_multilingual_v2"
	AgentID string // conversational agent, used by the signed-url endpoint
}

type TTSConfig struct {
	Backend     string // "elevenlabs" or "openai"
	OpenAIKey   string
	OpenAIModel string // default: "tts-1"
}

type STTConfig struct {
	Backend     string // "elevenlabs" or "openai"
	OpenAIKey   string
	OpenAIModel string // default: "whisper-1"
	ScribeModel string // default: "scribe_v1"
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Storage: StorageConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCP_PROJECT_ID", ""),
			CredentialsB64:  getEnv("GOOGLE_APPLICATION_CREDENTIALS_B64", ""),
			CredentialsPath: getEnv("GOOGLE_APPLICATION_CREDENTIALS_PATH", ""),
			DefaultPrefix:   getEnv("STORAGE_DEFAULT_PREFIX", "speeches"),
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:  getEnv("ELEVENLABS_API_KEY", ""),
			BaseURL: getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
			VoiceID: getEnv("ELEVENLABS_VOICE_ID", ""),
			ModelID: getEnv("ELEVENLABS_MODEL_ID", "eleven_multilingual_v2"),
			AgentID: getEnv("ELEVENLABS_AGENT_ID", ""),
		},
		TTS: TTSConfig{
			Backend:     getEnv("TTS_BACKEND", "elevenlabs"),
			OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel: getEnv("TTS_OPENAI_MODEL", ""),
		},
		STT: STTConfig{
			Backend:     getEnv("STT_BACKEND", "elevenlabs"),
			OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel: getEnv("STT_OPENAI_MODEL", ""),
			ScribeModel: getEnv("STT_SCRIBE_MODEL", "scribe_v1"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate reports the missing storage configuration, if any. A failure here
// is surfaced per request as a configuration error, not a startup panic.
func (c *StorageConfig) Validate() error {
	var missing []string
	if c.Bucket == "" {
		missing = append(missing, "GCS_BUCKET")
	}
	if c.ProjectID == "" {
		missing = append(missing, "GCP_PROJECT_ID")
	}
	if c.CredentialsB64 == "" && c.CredentialsPath == "" {
		missing = append(missing, "GOOGLE_APPLICATION_CREDENTIALS_B64 or GOOGLE_APPLICATION_CREDENTIALS_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
