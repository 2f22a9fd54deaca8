package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultWebhookURL = "https://db6.app.n8n.cloud/webhook/d233c70b-11cd-4ee8-ade0-f943033281c0"

// Config stores runtime configuration for the backend.
type Config struct {
	Webhook WebhookConfig
	Audio   AudioConfig
	Storage StorageConfig
}

type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

type AudioConfig struct {
	RecorderCommand string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
	BitRate         string
}

type StorageConfig struct {
	DataDir  string
	CacheDir string
}

// Load resolves configuration from an optional .env file, environment
// variables, and sensible defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, errors.New("could not determine home directory")
	}

	cfg := Config{
		Webhook: WebhookConfig{
			URL:     envOrDefault("PATIENTSCRIBE_WEBHOOK_URL", defaultWebhookURL),
			Timeout: time.Duration(envOrDefaultInt("PATIENTSCRIBE_UPLOAD_TIMEOUT_MS", 120000)) * time.Millisecond,
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("PATIENTSCRIBE_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:     envOrDefault("PATIENTSCRIBE_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:     envOrDefault("PATIENTSCRIBE_AUDIO_INPUT_DEVICE", "default"),
			SampleRate:      envOrDefaultInt("PATIENTSCRIBE_SAMPLE_RATE", 44100),
			Channels:        envOrDefaultInt("PATIENTSCRIBE_CHANNELS", 2),
			BitRate:         envOrDefault("PATIENTSCRIBE_BIT_RATE", "128k"),
		},
		Storage: StorageConfig{
			DataDir:  envOrDefault("PATIENTSCRIBE_DATA_DIR", filepath.Join(home, ".local", "share", "patientscribe")),
			CacheDir: envOrDefault("PATIENTSCRIBE_CACHE_DIR", filepath.Join(home, ".cache", "patientscribe")),
		},
	}

	if cfg.Webhook.Timeout <= 0 {
		cfg.Webhook.Timeout = 120 * time.Second
	}
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 44100
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 2
	}

	return cfg, nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
