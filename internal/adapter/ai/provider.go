// Package ai selects the speech-to-text provider configured for the server.
package ai

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/adapter/ai/deepgram"
	"github.com/seu-repo/dronevox/internal/adapter/ai/openai"
	"github.com/seu-repo/dronevox/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/dronevox/internal/ports"
	"github.com/seu-repo/dronevox/pkg/config"
)

// NewTranscriber returns nil when the provider is "none"; audio commands are
// then rejected while transcript commands keep working.
func NewTranscriber(cfg config.TranscriptionConfig, breakerCfg config.CircuitBreakerConfig, log *zap.Logger) (ports.Transcriber, error) {
	if cfg.Provider == "none" {
		return nil, nil
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	breaker := circuitbreaker.New(circuitbreaker.SettingsFromConfig("transcription-"+cfg.Provider, breakerCfg), log)
	client := circuitbreaker.NewHTTPClient(httpClient, breaker, log)

	switch cfg.Provider {
	case "openai":
		return openai.NewTranscriber(cfg.OpenAI, client, log), nil
	case "deepgram":
		return deepgram.NewTranscriber(cfg.Deepgram, client, log), nil
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", cfg.Provider)
	}
}
