package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"atomflow/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type MinioProvider struct {
	client    *minio.Client
	bucket    string
	maxSize   int64
	logger    *zap.Logger
	publicURL string
}

func NewMinioProvider(cfg *config.Config, logger *zap.Logger) (*MinioProvider, error) {
	minioURL := cfg.MinioURL
	if !strings.HasPrefix(minioURL, "http://") && !strings.HasPrefix(minioURL, "https://") {
		minioURL = "https://" + minioURL
	}

	u, err := url.Parse(minioURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse minio URL: %w", err)
	}
	secure := u.Scheme == "https"

	logger.Info("Initializing MinIO", zap.String("url", minioURL), zap.Bool("secure", secure))

	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioUser, cfg.MinioPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		publicURL = minioURL
	}
	publicURL = strings.TrimRight(publicURL, "/")

	provider := &MinioProvider{
		client:    client,
		bucket:    cfg.MinioBucket,
		maxSize:   cfg.MaxAvatarSize,
		logger:    logger,
		publicURL: publicURL,
	}

	if err := provider.ensureBucket(context.Background()); err != nil {
		return nil, err
	}

	return provider, nil
}

func (p *MinioProvider) ensureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		p.logger.Info("Created MinIO bucket", zap.String("bucket", p.bucket))
	}
	return nil
}

// UploadAvatar stores an avatar image and returns its public URL.
func (p *MinioProvider) UploadAvatar(ctx context.Context, userID, fileName, contentType string, size int64, reader io.Reader) (string, error) {
	if size > p.maxSize {
		return "", fmt.Errorf("avatar exceeds maximum size of %d bytes", p.maxSize)
	}

	ext := filepath.Ext(fileName)
	objectName := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)

	_, err := p.client.PutObject(ctx, p.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	p.logger.Info("Avatar uploaded",
		zap.String("user_id", userID),
		zap.String("object", objectName),
		zap.Int64("size", size),
	)

	return fmt.Sprintf("%s/%s/%s", p.publicURL, p.bucket, objectName), nil
}
