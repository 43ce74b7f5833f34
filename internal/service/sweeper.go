package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/metrics"
	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/moderation"
	"github.com/pribylovaa/go-social-platform/pkg/log"
)

// StartUnbanSweeper снимает истёкшие баны: один проход сразу (догоняет баны,
// истёкшие пока процесс не работал), затем по тикеру до отмены ctx.
func (s *Service) StartUnbanSweeper(ctx context.Context) error {
	const op = "service/sweeper/StartUnbanSweeper"

	interval := s.cfg.Sweeper.Interval
	if interval <= 0 {
		return fmt.Errorf("%s: sweeper interval must be positive", op)
	}

	lg := log.From(ctx)
	lg.Info("sweeper_start",
		slog.String("op", op),
		slog.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := s.SweepExpiredBans(ctx); err != nil {
		lg.Warn("sweep_tick_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			lg.Info("sweeper_stop", slog.String("op", op))
			return nil
		case <-ticker.C:
			if _, err := s.SweepExpiredBans(ctx); err != nil {
				lg.Warn("sweep_tick_error",
					slog.String("op", op),
					slog.String("err", err.Error()),
				)
			}
		}
	}
}

// SweepExpiredBans — один проход: снимает все баны с unban_at <= now.
// Бан, заменённый или снятый вручную между выборкой и записью, не трогается.
// Возвращает число снятых банов; ошибки отдельных снятий собираются вместе.
func (s *Service) SweepExpiredBans(ctx context.Context) (int, error) {
	const op = "service/sweeper/SweepExpiredBans"

	lg := log.From(ctx).With("op", op)
	now := s.now()

	communities, err := s.storage.CommunitiesWithExpiredBans(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var (
		removed int
		errs    []error
	)
	for _, c := range communities {
		for _, username := range moderation.ExpiredBans(c, now) {
			ok, err := s.storage.RemoveExpiredBan(ctx, c.Name, username, now)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s/%s: %w", c.Name, username, err))
				continue
			}

			if !ok {
				continue
			}

			removed++
			metrics.Unban(metrics.UnbanSweeper)
			lg.Info("ban expired", "community", c.Name, "username", username)
			s.notify(ctx, models.Notification{
				To:            username,
				Type:          models.NotifyUnban,
				CommunityName: c.Name,
			})
		}
	}

	if len(errs) > 0 {
		return removed, fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}

	return removed, nil
}
