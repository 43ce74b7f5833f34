package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/go-social-platform/internal/ledger"
	"github.com/pribylovaa/go-social-platform/internal/metrics"
	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/visibility"
	"github.com/pribylovaa/go-social-platform/pkg/log"
)

// claim занимает ключ идемпотентности scope:key.
// first == false означает повтор: переключение выполнять не нужно.
// Без ключа или при недоступном хранилище ключей запрос выполняется как первый.
func (s *Service) claim(ctx context.Context, lg *slog.Logger, scope, key string) (first bool, release func()) {
	noop := func() {}

	key = strings.TrimSpace(key)
	if s.idem == nil || key == "" {
		return true, noop
	}

	full := scope + ":" + key
	ok, err := s.idem.Claim(ctx, full)
	if err != nil {
		lg.Warn("idempotency claim failed", "err", err)
		return true, noop
	}

	if !ok {
		lg.Info("idempotent replay", "key", key)
		metrics.Replay()
		return false, noop
	}

	return true, func() {
		if err := s.idem.Release(ctx, full); err != nil {
			lg.Warn("idempotency release failed", "err", err)
		}
	}
}

// Upvote переключает голос "за": повтор снимает голос, голос "против" переворачивается.
func (s *Service) Upvote(ctx context.Context, viewer string, kind models.ContentKind, id, idemKey string) (models.ContentView, error) {
	return s.vote(ctx, "service/votes/Upvote", ledger.Up, viewer, kind, id, idemKey)
}

// Downvote переключает голос "против".
func (s *Service) Downvote(ctx context.Context, viewer string, kind models.ContentKind, id, idemKey string) (models.ContentView, error) {
	return s.vote(ctx, "service/votes/Downvote", ledger.Down, viewer, kind, id, idemKey)
}

// vote — общий путь переключения голоса для постов и комментариев.
// Порядок записи: сначала коллекции пользователя (условно по прежнему состоянию),
// затем счётчики контента. Если счётчики не записались, сторона пользователя откатывается.
func (s *Service) vote(ctx context.Context, op string, dir ledger.Direction, viewer string, kind models.ContentKind, id, idemKey string) (models.ContentView, error) {
	lg := log.From(ctx).With("op", op, "kind", string(kind), "id", id)

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return models.ContentView{}, err
	}

	subj, err := s.loadContent(ctx, lg, op, kind, id)
	if err != nil {
		return models.ContentView{}, err
	}

	if err := visibility.CanParticipate(user, subj); err != nil {
		return models.ContentView{}, fromDomain(lg, op, err)
	}

	first, release := s.claim(ctx, lg, fmt.Sprintf("vote:%s:%s:%s", user.Username, kind, id), idemKey)
	if !first {
		return visibility.Annotate(user, subj.Item), nil
	}

	now := s.now()
	var change models.VoteChange
	if dir == ledger.Up {
		change, err = ledger.ApplyUpvote(subj.Item, user, now)
	} else {
		change, err = ledger.ApplyDownvote(subj.Item, user, now)
	}
	if err != nil {
		release()
		return models.ContentView{}, fromDomain(lg, op, err)
	}

	if err := s.storage.ApplyVote(ctx, change); err != nil {
		release()
		return models.ContentView{}, fromStorage(lg, op, "ApplyVote", err)
	}

	updated, err := s.storage.ApplyVoteCounters(ctx, change)
	if err != nil {
		lg.Error("storage error on ApplyVoteCounters", "err", err)
		if rerr := s.storage.ApplyVote(ctx, change.Reverse()); rerr != nil {
			lg.Error("vote revert failed", "err", rerr)
		}
		release()
		return models.ContentView{}, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	transition := ledger.TransitionOf(change)
	metrics.Vote(string(kind), string(transition))
	lg.Debug("vote applied", "from", change.From.String(), "to", change.To.String())

	if transition == ledger.Added && change.To == models.VoteUp {
		typ := models.NotifyUpvotePost
		if kind == models.KindComment {
			typ = models.NotifyUpvoteComment
		}

		s.notify(ctx, models.Notification{
			To:            updated.Username,
			From:          user.Username,
			Type:          typ,
			ResourceID:    updated.ID,
			CommunityName: updated.CommunityName,
		})
	}

	return visibility.Annotate(user, updated), nil
}

// Save переключает отметку "сохранено".
func (s *Service) Save(ctx context.Context, viewer string, kind models.ContentKind, id, idemKey string) (models.ContentView, error) {
	return s.mark(ctx, "service/votes/Save", models.MarkSaved, viewer, kind, id, idemKey)
}

// Hide переключает отметку "скрыто". Скрытые посты исключаются из домашней ленты.
func (s *Service) Hide(ctx context.Context, viewer, postID, idemKey string) (models.ContentView, error) {
	return s.mark(ctx, "service/votes/Hide", models.MarkHidden, viewer, models.KindPost, postID, idemKey)
}

func (s *Service) mark(ctx context.Context, op string, mark models.Mark, viewer string, kind models.ContentKind, id, idemKey string) (models.ContentView, error) {
	lg := log.From(ctx).With("op", op, "kind", string(kind), "id", id)

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return models.ContentView{}, err
	}

	subj, err := s.loadContent(ctx, lg, op, kind, id)
	if err != nil {
		return models.ContentView{}, err
	}

	if err := visibility.CanView(user, subj); err != nil {
		return models.ContentView{}, fromDomain(lg, op, err)
	}

	first, release := s.claim(ctx, lg, fmt.Sprintf("%s:%s:%s:%s", mark, user.Username, kind, id), idemKey)
	if !first {
		return visibility.Annotate(user, subj.Item), nil
	}

	var change models.MarkChange
	if mark == models.MarkSaved {
		change, err = ledger.ToggleSave(subj.Item, user, s.now())
	} else {
		change, err = ledger.ToggleHide(subj.Item, user, s.now())
	}
	if err != nil {
		release()
		return models.ContentView{}, fromDomain(lg, op, err)
	}

	if err := s.storage.ApplyMark(ctx, change); err != nil {
		release()
		return models.ContentView{}, fromStorage(lg, op, "ApplyMark", err)
	}

	return visibility.Annotate(user, subj.Item), nil
}

// VotePoll отдаёт голос в опросе. Голос необратим; повторный — ErrConflict.
func (s *Service) VotePoll(ctx context.Context, viewer, postID, option, idemKey string) (models.ContentView, error) {
	const op = "service/votes/VotePoll"

	lg := log.From(ctx).With("op", op, "id", postID)

	option = strings.TrimSpace(option)
	if option == "" {
		lg.Warn("invalid argument: empty option")
		return models.ContentView{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return models.ContentView{}, err
	}

	subj, err := s.loadContent(ctx, lg, op, models.KindPost, postID)
	if err != nil {
		return models.ContentView{}, err
	}

	if err := visibility.CanParticipate(user, subj); err != nil {
		return models.ContentView{}, fromDomain(lg, op, err)
	}

	first, release := s.claim(ctx, lg, fmt.Sprintf("poll:%s:%s", user.Username, postID), idemKey)
	if !first {
		return visibility.Annotate(user, subj.Item), nil
	}

	if _, err := ledger.VotePoll(subj.Item, user.Username, option, s.now()); err != nil {
		release()
		return models.ContentView{}, fromDomain(lg, op, err)
	}

	if err := s.storage.AddPollVote(ctx, postID, option, user.Username); err != nil {
		release()
		return models.ContentView{}, fromStorage(lg, op, "AddPollVote", err)
	}

	return visibility.Annotate(user, subj.Item), nil
}
