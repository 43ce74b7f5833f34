package service

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-social-platform/internal/storage"
	"github.com/pribylovaa/go-social-platform/pkg/log"
)

// MediaUploadURL выдаёт presigned PUT для вложения медиа-поста.
// Ключ из ответа передаётся в PostInput.Media после загрузки.
func (s *Service) MediaUploadURL(ctx context.Context, viewer, contentType string, size int64) (*storage.UploadInfo, error) {
	const op = "service/media/MediaUploadURL"

	lg := log.From(ctx).With("op", op, "content_type", contentType, "size", size)

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return nil, err
	}

	if s.media == nil {
		lg.Warn("invalid argument: media disabled")
		return nil, fmt.Errorf("%s: %w: media disabled", op, ErrInvalidArgument)
	}

	info, err := s.media.UploadURL(ctx, user.Username, contentType, size)
	if err != nil {
		return nil, fromStorage(lg, op, "UploadURL", err)
	}

	return info, nil
}
