package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/dronevox/pkg/config"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini-transcribe"
)

// Transcriber calls the OpenAI audio transcription endpoint.
type Transcriber struct {
	apiKey   string
	baseURL  string
	model    string
	language string
	http     *circuitbreaker.HTTPClient
	retries  int
	log      *zap.Logger
}

// NewTranscriber creates a transcriber. A nil client gets a breaker-wrapped
// default with the given timeout.
func NewTranscriber(cfg config.OpenAIConfig, client *circuitbreaker.HTTPClient, log *zap.Logger) *Transcriber {
	if client == nil {
		breaker := circuitbreaker.New(circuitbreaker.Settings{Name: "openai-transcription", Timeout: 30 * time.Second}, log)
		client = circuitbreaker.NewHTTPClient(nil, breaker, log)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Transcriber{
		apiKey:   cfg.APIKey,
		baseURL:  baseURL,
		model:    model,
		language: cfg.Language,
		http:     client,
		retries:  2,
		log:      log,
	}
}

func (t *Transcriber) Name() string { return "openai" }

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio as multipart form data and returns the trimmed text.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("openai: API key not configured")
	}

	body, formType, err := t.encodeForm(audio, contentType)
	if err != nil {
		return "", fmt.Errorf("openai: build form: %w", err)
	}

	var raw []byte
	err = circuitbreaker.RetryWithBackoff(ctx, t.retries, 500*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/audio/transcriptions", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%w: %w", circuitbreaker.ErrPermanent, err)
		}
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
		req.Header.Set("Content-Type", formType)

		raw, err = t.http.Do(req)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("openai: send request: %w", err)
	}

	var result transcriptionResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	t.log.Debug("Audio transcribed",
		zap.String("provider", t.Name()),
		zap.String("model", t.model),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

func (t *Transcriber) encodeForm(audio []byte, contentType string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if contentType == "" {
		contentType = "audio/webm"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, "command"+extension(contentType)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("model", t.model); err != nil {
		return nil, "", err
	}
	if t.language != "" {
		if err := w.WriteField("language", t.language); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// extension picks a file name suffix; the API infers the format from it.
func extension(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(base) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	case "audio/ogg":
		return ".ogg"
	case "audio/flac":
		return ".flac"
	default:
		return ".webm"
	}
}
