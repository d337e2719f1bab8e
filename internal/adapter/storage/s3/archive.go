package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/pkg/config"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AudioArchive stores raw command audio in a bucket so misheard commands can
// be replayed later.
type AudioArchive struct {
	client putObjectAPI
	bucket string
	prefix string
	log    *zap.Logger
}

func NewAudioArchive(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*AudioArchive, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	log.Info("Audio archive configured",
		zap.String("bucket", cfg.Bucket),
		zap.String("prefix", cfg.Prefix),
	)
	return newAudioArchive(client, cfg.Bucket, cfg.Prefix, log), nil
}

func newAudioArchive(client putObjectAPI, bucket, prefix string, log *zap.Logger) *AudioArchive {
	return &AudioArchive{client: client, bucket: bucket, prefix: prefix, log: log}
}

// Store uploads audio under <prefix>/<yyyy>/<mm>/<dd>/<key> and returns the s3 URI.
func (a *AudioArchive) Store(ctx context.Context, key string, audio []byte, contentType string) (string, error) {
	objectKey := path.Join(a.prefix, time.Now().UTC().Format("2006/01/02"), key)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(audio),
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"source": "voice-command"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio %s: %w", objectKey, err)
	}

	a.log.Debug("Audio archived", zap.String("key", objectKey), zap.Int("bytes", len(audio)))
	return "s3://" + a.bucket + "/" + objectKey, nil
}
