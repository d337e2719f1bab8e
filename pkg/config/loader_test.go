package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: dronevox-test\n")

	cfg, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "dronevox-test", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "mqtt", cfg.Queue.Driver)
	assert.Equal(t, "drone/commands", cfg.Queue.FleetTopic)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ResolveTTL)
	assert.True(t, cfg.Resolver.FuzzyMatching)
	assert.Equal(t, "gpt-4o-mini-transcribe", cfg.Transcription.OpenAI.Model)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFile_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
queue:
  driver: nats
  encoding: msgpack
transcription:
  provider: deepgram
  timeout: 5s
`)
	t.Setenv("APP_HTTP_PORT", "9090")
	t.Setenv("DEEPGRAM_API_KEY", "dg-key")

	cfg, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "nats", cfg.Queue.Driver)
	assert.Equal(t, "msgpack", cfg.Queue.Encoding)
	assert.Equal(t, 5*time.Second, cfg.Transcription.Timeout)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "dg-key", cfg.Transcription.Deepgram.APIKey)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"queue driver":      "queue:\n  driver: kafka\n",
		"encoding":          "queue:\n  encoding: protobuf\n",
		"cache driver":      "cache:\n  driver: memcached\n",
		"provider":          "transcription:\n  provider: whisper-local\n",
		"storage bucket":    "storage:\n  enabled: true\n",
		"empty fleet topic": "queue:\n  fleet_topic: \"\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
