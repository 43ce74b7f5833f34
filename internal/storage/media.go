package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMediaNotFound — объект (ключ) отсутствует в бакете.
	ErrMediaNotFound = errors.New("media not found")
	// ErrInvalidMedia — нарушены ограничения загрузки (тип/размер/чужой ключ).
	ErrInvalidMedia = errors.New("invalid media")
)

// UploadInfo — данные для клиента о presigned PUT загрузке.
//   - UploadURL: URL для PUT-запроса.
//   - Key: ключ будущего объекта в бакете, его клиент передаёт в CreatePost.
//   - Expires: время жизни подписи.
//   - RequiredHeader: заголовки, которые клиент обязан передать при PUT.
type UploadInfo struct {
	UploadURL      string
	Key            string
	Expires        time.Duration
	RequiredHeader map[string]string
}

// Media — выдача presigned URL и подтверждение загруженных медиа постов.
type Media interface {
	// UploadURL валидирует contentType/size и генерирует presigned PUT для username.
	UploadURL(ctx context.Context, username, contentType string, size int64) (*UploadInfo, error)
	// ConfirmUpload проверяет, что объект key загружен username и удовлетворяет ограничениям.
	// Возвращает публичный URL (или key, если PublicBaseURL не задан).
	ConfirmUpload(ctx context.Context, username, key string) (string, error)
}
