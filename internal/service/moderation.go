package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-social-platform/internal/metrics"
	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/moderation"
	"github.com/pribylovaa/go-social-platform/internal/storage"
	"github.com/pribylovaa/go-social-platform/pkg/log"
)

// modContext — загруженные участники модераторского действия.
type modContext struct {
	lg        *slog.Logger
	actor     *models.User
	community *models.Community
	target    *models.User
}

// prepare загружает модератора, сообщество и (если задан) целевого пользователя.
func (s *Service) prepare(ctx context.Context, op, viewer, name, target string) (*modContext, error) {
	lg := log.From(ctx).With("op", op, "community", name, "target", target)

	actor, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return nil, err
	}

	c, err := s.loadCommunity(ctx, lg, op, name)
	if err != nil {
		return nil, err
	}

	mc := &modContext{lg: lg, actor: actor, community: c}
	if target == "" {
		return mc, nil
	}

	mc.target, err = s.storage.UserByUsername(ctx, target)
	if err != nil {
		return nil, fromStorage(lg, op, "UserByUsername", err)
	}

	return mc, nil
}

// Ban банит пользователя. Повторный бан заменяет прежний вместе со сроком.
func (s *Service) Ban(ctx context.Context, viewer, community, target string, in moderation.BanInput) (*models.Ban, error) {
	const op = "service/moderation/Ban"

	mc, err := s.prepare(ctx, op, viewer, community, target)
	if err != nil {
		return nil, err
	}

	changes, ban, err := moderation.Ban(mc.community, mc.target, mc.actor.Username, in, s.cfg.Limits.MaxBanDays, s.now())
	if err != nil {
		return nil, fromDomain(mc.lg, op, err)
	}

	if err := s.relate(ctx, mc.lg, op, changes); err != nil {
		return nil, err
	}

	mc.lg.Info("user banned", "days", ban.Days, "by", mc.actor.Username)
	s.notify(ctx, models.Notification{
		To:            target,
		From:          mc.actor.Username,
		Type:          models.NotifyBan,
		CommunityName: community,
	})

	return ban, nil
}

// Unban снимает бан вручную. Отложенное снятие по сроку после этого ничего не делает.
func (s *Service) Unban(ctx context.Context, viewer, community, target string) error {
	const op = "service/moderation/Unban"

	mc, err := s.prepare(ctx, op, viewer, community, "")
	if err != nil {
		return err
	}

	changes, err := moderation.Unban(mc.community, target, mc.actor.Username)
	if err != nil {
		return fromDomain(mc.lg, op, err)
	}

	if err := s.relate(ctx, mc.lg, op, changes); err != nil {
		return err
	}

	metrics.Unban(metrics.UnbanManual)
	s.notify(ctx, models.Notification{
		To:            target,
		From:          mc.actor.Username,
		Type:          models.NotifyUnban,
		CommunityName: community,
	})

	return nil
}

// Approve добавляет пользователя в одобренные.
func (s *Service) Approve(ctx context.Context, viewer, community, target string) error {
	const op = "service/moderation/Approve"

	mc, err := s.prepare(ctx, op, viewer, community, target)
	if err != nil {
		return err
	}

	changes, err := moderation.Approve(mc.community, mc.target, mc.actor.Username)
	if err != nil {
		return fromDomain(mc.lg, op, err)
	}

	if err := s.relate(ctx, mc.lg, op, changes); err != nil {
		return err
	}

	s.notify(ctx, models.Notification{
		To:            target,
		From:          mc.actor.Username,
		Type:          models.NotifyApprove,
		CommunityName: community,
	})

	return nil
}

// Unapprove убирает пользователя из одобренных.
func (s *Service) Unapprove(ctx context.Context, viewer, community, target string) error {
	const op = "service/moderation/Unapprove"

	mc, err := s.prepare(ctx, op, viewer, community, target)
	if err != nil {
		return err
	}

	changes, err := moderation.Unapprove(mc.community, mc.target, mc.actor.Username)
	if err != nil {
		return fromDomain(mc.lg, op, err)
	}

	return s.relate(ctx, mc.lg, op, changes)
}

// InviteModerator приглашает пользователя в модераторы.
func (s *Service) InviteModerator(ctx context.Context, viewer, community, target string) error {
	const op = "service/moderation/InviteModerator"

	mc, err := s.prepare(ctx, op, viewer, community, target)
	if err != nil {
		return err
	}

	changes, err := moderation.InviteModerator(mc.community, mc.target, mc.actor.Username)
	if err != nil {
		return fromDomain(mc.lg, op, err)
	}

	if err := s.relate(ctx, mc.lg, op, changes); err != nil {
		return err
	}

	s.notify(ctx, models.Notification{
		To:            target,
		From:          mc.actor.Username,
		Type:          models.NotifyModeratorInvite,
		CommunityName: community,
	})

	return nil
}

// RemoveModerator снимает модератора. Владельца снять нельзя.
func (s *Service) RemoveModerator(ctx context.Context, viewer, community, target string) error {
	const op = "service/moderation/RemoveModerator"

	mc, err := s.prepare(ctx, op, viewer, community, "")
	if err != nil {
		return err
	}

	changes, err := moderation.RemoveModerator(mc.community, target, mc.actor.Username)
	if err != nil {
		return fromDomain(mc.lg, op, err)
	}

	return s.relate(ctx, mc.lg, op, changes)
}

// LockContent закрывает или открывает контент для новых комментариев.
func (s *Service) LockContent(ctx context.Context, viewer, community string, kind models.ContentKind, id string, locked bool) error {
	return s.flagContent(ctx, "service/moderation/LockContent", viewer, community, kind, id, storage.FlagLocked, locked)
}

// ApproveContent выставляет модераторское одобрение контента.
func (s *Service) ApproveContent(ctx context.Context, viewer, community string, kind models.ContentKind, id string, approved bool) error {
	return s.flagContent(ctx, "service/moderation/ApproveContent", viewer, community, kind, id, storage.FlagApproved, approved)
}

func (s *Service) flagContent(ctx context.Context, op, viewer, community string, kind models.ContentKind, id string, flag storage.ContentFlag, value bool) error {
	mc, err := s.prepare(ctx, op, viewer, community, "")
	if err != nil {
		return err
	}

	if err := moderation.ModerateContent(mc.community, mc.actor.Username); err != nil {
		return fromDomain(mc.lg, op, err)
	}

	if _, ok := models.ParseKind(string(kind)); !ok || id == "" {
		mc.lg.Warn("invalid argument: kind or id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	item, err := s.storage.ContentByID(ctx, kind, id)
	if err != nil {
		return fromStorage(mc.lg, op, "ContentByID", err)
	}

	if item.CommunityName != mc.community.Name || item.IsDeleted {
		mc.lg.Warn("content not in community")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if err := s.storage.SetContentFlag(ctx, kind, id, flag, value); err != nil {
		return fromStorage(mc.lg, op, "SetContentFlag", err)
	}

	mc.lg.Info("content flag set", "flag", string(flag), "value", value, "by", mc.actor.Username)

	return nil
}
