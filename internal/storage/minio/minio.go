// Package minio реализует storage.Media поверх MinIO/S3:
// presigned PUT для медиа постов и подтверждение загрузки через StatObject.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/go-social-platform/internal/config"
	"github.com/pribylovaa/go-social-platform/internal/storage"
)

const keyPrefix = "posts"

// MediaStorage — адаптер MinIO для медиа постов.
type MediaStorage struct {
	cfg    *config.Config
	client *mclient.Client
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Media = (*MediaStorage)(nil)

// New создаёт клиент MinIO. Схема endpoint определяет Secure;
// отсутствие бакета — ошибка старта.
func New(ctx context.Context, cfg *config.Config) (*MediaStorage, error) {
	const op = "storage/minio/New"

	endpoint := cfg.S3.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.RootUser, cfg.S3.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.S3.Bucket)
	}

	return &MediaStorage{cfg: cfg, client: client}, nil
}

// extensionFor подбирает расширение ключа по типу содержимого.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	default:
		return ""
	}
}

// userPrefix — префикс ключей пользователя: posts/<username>/.
func userPrefix(username string) string {
	return keyPrefix + "/" + username + "/"
}

// UploadURL генерирует presigned PUT с ключом вида posts/<username>/<uuid>.<ext>.
func (s *MediaStorage) UploadURL(ctx context.Context, username, contentType string, size int64) (*storage.UploadInfo, error) {
	const op = "storage/minio/UploadURL"

	if username == "" || size <= 0 || size > s.cfg.S3.MaxSizeBytes {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidMedia)
	}

	if !slices.Contains(s.cfg.S3.AllowedContentTypes, contentType) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidMedia)
	}

	key := path.Join(keyPrefix, username, uuid.NewString()+extensionFor(contentType))

	u, err := s.client.PresignedPutObject(ctx, s.cfg.S3.Bucket, key, s.cfg.S3.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.UploadInfo{
		UploadURL: u.String(),
		Key:       key,
		Expires:   s.cfg.S3.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": fmt.Sprintf("%d", size),
		},
	}, nil
}

// ConfirmUpload проверяет наличие объекта, его размер и тип.
// Ключ должен принадлежать username.
func (s *MediaStorage) ConfirmUpload(ctx context.Context, username, key string) (string, error) {
	const op = "storage/minio/ConfirmUpload"

	if username == "" || !strings.HasPrefix(key, userPrefix(username)) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidMedia)
	}

	info, err := s.client.StatObject(ctx, s.cfg.S3.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		resp := mclient.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return "", fmt.Errorf("%s: %w", op, storage.ErrMediaNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if info.Size <= 0 || info.Size > s.cfg.S3.MaxSizeBytes {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidMedia)
	}

	if ct := info.ContentType; ct != "" && !slices.Contains(s.cfg.S3.AllowedContentTypes, ct) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidMedia)
	}

	return s.PublicURL(key), nil
}

// PublicURL собирает публичный адрес объекта; без PublicBaseURL возвращает ключ.
func (s *MediaStorage) PublicURL(key string) string {
	if s.cfg.S3.PublicBaseURL == "" {
		return key
	}

	return strings.TrimRight(s.cfg.S3.PublicBaseURL, "/") + "/" + key
}
