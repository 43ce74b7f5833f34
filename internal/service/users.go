package service

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/ranking"
	"github.com/pribylovaa/go-social-platform/pkg/log"
)

// Block блокирует пользователя: его контент пропадает из выдачи зрителя и наоборот.
func (s *Service) Block(ctx context.Context, viewer, target string) error {
	return s.setBlocked(ctx, "service/users/Block", viewer, target, true)
}

// Unblock снимает блокировку.
func (s *Service) Unblock(ctx context.Context, viewer, target string) error {
	return s.setBlocked(ctx, "service/users/Unblock", viewer, target, false)
}

func (s *Service) setBlocked(ctx context.Context, op, viewer, target string, blocked bool) error {
	lg := log.From(ctx).With("op", op, "target", target)

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return err
	}

	if target == "" || target == user.Username {
		lg.Warn("invalid argument: target")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if blocked {
		if _, err := s.storage.UserByUsername(ctx, target); err != nil {
			return fromStorage(lg, op, "UserByUsername", err)
		}
	}

	if err := s.storage.SetBlocked(ctx, user.Username, target, blocked); err != nil {
		return fromStorage(lg, op, "SetBlocked", err)
	}

	return nil
}

// UpdatePreferences заменяет настройки пользователя.
func (s *Service) UpdatePreferences(ctx context.Context, viewer string, prefs models.Preferences) (models.Preferences, error) {
	const op = "service/users/UpdatePreferences"

	lg := log.From(ctx).With("op", op)

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return models.Preferences{}, err
	}

	if err := s.storage.UpdatePreferences(ctx, user.Username, prefs); err != nil {
		return models.Preferences{}, fromStorage(lg, op, "UpdatePreferences", err)
	}

	return prefs, nil
}

// Notifications возвращает страницу уведомлений зрителя, новые сначала.
func (s *Service) Notifications(ctx context.Context, viewer string, unreadOnly bool, page, limit int) ([]models.Notification, error) {
	const op = "service/users/Notifications"

	lg := log.From(ctx).With("op", op)

	if viewer == "" {
		lg.Warn("unauthenticated")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if page < 0 {
		lg.Warn("invalid argument: page")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	limit = s.pageLimit(limit)

	list, err := s.storage.ListNotifications(ctx, viewer, unreadOnly, ranking.Offset(page, limit), limit)
	if err != nil {
		return nil, fromStorage(lg, op, "ListNotifications", err)
	}

	return list, nil
}

// MarkNotificationRead помечает уведомление прочитанным.
func (s *Service) MarkNotificationRead(ctx context.Context, viewer, id string) error {
	const op = "service/users/MarkNotificationRead"

	lg := log.From(ctx).With("op", op, "id", id)

	if viewer == "" {
		lg.Warn("unauthenticated")
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.MarkNotificationRead(ctx, viewer, id); err != nil {
		return fromStorage(lg, op, "MarkNotificationRead", err)
	}

	return nil
}
