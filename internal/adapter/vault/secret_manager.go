package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/pkg/config"
)

type SecretManager struct {
	client *api.Client
	path   string
}

func NewSecretManager(cfg config.VaultConfig) (*SecretManager, error) {
	vc := api.DefaultConfig()
	vc.Address = cfg.Address

	client, err := api.NewClient(vc)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &SecretManager{client: client, path: cfg.Path}, nil
}

// Secrets reads the KV v2 document at the configured path. A missing
// document yields an empty map.
func (sm *SecretManager) Secrets(ctx context.Context) (map[string]string, error) {
	secret, err := sm.client.Logical().ReadWithContext(ctx, sm.path)
	if err != nil {
		return nil, fmt.Errorf("vault read %s: %w", sm.path, err)
	}
	out := make(map[string]string)
	if secret == nil || secret.Data == nil {
		return out, nil
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		// KV v1 mounts return the fields at the top level.
		data = secret.Data
	}
	for k, v := range data {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out, nil
}

// overlay maps vault keys onto config fields.
func overlay(cfg *config.Config) map[string]*string {
	return map[string]*string{
		"database_url":              &cfg.Database.URL,
		"redis_url":                 &cfg.Redis.URL,
		"nats_url":                  &cfg.NATS.URL,
		"rabbitmq_url":              &cfg.RabbitMQ.URL,
		"mqtt_password":             &cfg.MQTT.Password,
		"openai_api_key":            &cfg.Transcription.OpenAI.APIKey,
		"deepgram_api_key":          &cfg.Transcription.Deepgram.APIKey,
		"storage_access_key_id":     &cfg.Storage.AccessKeyID,
		"storage_secret_access_key": &cfg.Storage.SecretKey,
	}
}

// Apply overwrites the secret fields of cfg with the values stored in vault
// and returns the keys it applied.
func (sm *SecretManager) Apply(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]string, error) {
	secrets, err := sm.Secrets(ctx)
	if err != nil {
		return nil, err
	}

	var applied []string
	for key, field := range overlay(cfg) {
		if v, ok := secrets[key]; ok && v != "" {
			*field = v
			applied = append(applied, key)
		}
	}
	log.Info("Loaded secrets from vault", zap.String("path", sm.path), zap.Strings("keys", applied))
	return applied, nil
}
