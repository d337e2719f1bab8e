package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/dronevox/pkg/config"
)

// Transcriber calls the Deepgram pre-recorded audio endpoint.
type Transcriber struct {
	apiKey   string
	baseURL  string
	model    string
	language string
	http     *circuitbreaker.HTTPClient
	retries  int
	log      *zap.Logger
}

func NewTranscriber(cfg config.DeepgramConfig, client *circuitbreaker.HTTPClient, log *zap.Logger) *Transcriber {
	if client == nil {
		breaker := circuitbreaker.New(circuitbreaker.Settings{Name: "deepgram-transcription", Timeout: 30 * time.Second}, log)
		client = circuitbreaker.NewHTTPClient(nil, breaker, log)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.deepgram.com"
	}
	model := cfg.Model
	if model == "" {
		model = "nova-2"
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	return &Transcriber{
		apiKey:   cfg.APIKey,
		baseURL:  baseURL,
		model:    model,
		language: language,
		http:     client,
		retries:  2,
		log:      log,
	}
}

func (t *Transcriber) Name() string { return "deepgram" }

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe posts the raw audio and returns the first alternative of the first
// channel, trimmed. An empty result is not an error.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("deepgram: API key not configured")
	}
	if contentType == "" {
		contentType = "audio/webm"
	}

	q := url.Values{}
	q.Set("model", t.model)
	q.Set("language", t.language)
	q.Set("smart_format", "true")
	endpoint := t.baseURL + "/v1/listen?" + q.Encode()

	var raw []byte
	err := circuitbreaker.RetryWithBackoff(ctx, t.retries, 500*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
		if err != nil {
			return fmt.Errorf("%w: %w", circuitbreaker.ErrPermanent, err)
		}
		req.Header.Set("Authorization", "Token "+t.apiKey)
		req.Header.Set("Content-Type", contentType)

		raw, err = t.http.Do(req)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("deepgram: send request: %w", err)
	}

	var result listenResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("deepgram: decode response: %w", err)
	}

	var text string
	if len(result.Results.Channels) > 0 && len(result.Results.Channels[0].Alternatives) > 0 {
		alt := result.Results.Channels[0].Alternatives[0]
		text = strings.TrimSpace(alt.Transcript)
		t.log.Debug("Audio transcribed",
			zap.String("provider", t.Name()),
			zap.Float64("confidence", alt.Confidence),
		)
	}
	return text, nil
}
