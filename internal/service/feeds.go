package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/ranking"
	"github.com/pribylovaa/go-social-platform/internal/storage"
	"github.com/pribylovaa/go-social-platform/internal/visibility"
	"github.com/pribylovaa/go-social-platform/pkg/log"
)

const maxSearchLen = 100

// FeedQuery — параметры страницы ленты в сыром виде. Page нумеруется с нуля.
type FeedQuery struct {
	Sort   string
	Window string
	Page   int
	Limit  int
}

// plan разбирает запрос ленты; пустая сортировка даёт fallback.
func (s *Service) plan(lg *slog.Logger, op string, q FeedQuery, fallback ranking.Sort) (ranking.Plan, ranking.Query, error) {
	sort, err := ranking.ParseSort(q.Sort, fallback)
	if err != nil {
		return ranking.Plan{}, ranking.Query{}, fromDomain(lg, op, err)
	}

	window, err := ranking.ParseWindow(q.Window)
	if err != nil {
		return ranking.Plan{}, ranking.Query{}, fromDomain(lg, op, err)
	}

	rq := ranking.Query{
		Sort:   sort,
		Window: window,
		Page:   q.Page,
		Limit:  s.pageLimit(q.Limit),
		Now:    s.now(),
	}

	p, err := ranking.PlanFor(rq)
	if err != nil {
		return ranking.Plan{}, ranking.Query{}, fromDomain(lg, op, err)
	}

	return p, rq, nil
}

// feed выбирает страницу по фильтру и молча отбрасывает то, что зрителю не видно.
func (s *Service) feed(ctx context.Context, lg *slog.Logger, op string, viewer *models.User, f storage.ContentFilter, q FeedQuery, fallback ranking.Sort) (models.FeedPage, error) {
	p, rq, err := s.plan(lg, op, q, fallback)
	if err != nil {
		return models.FeedPage{}, err
	}

	items, err := s.storage.ListContents(ctx, f, p)
	if err != nil {
		return models.FeedPage{}, fromStorage(lg, op, "ListContents", err)
	}

	subjects, err := s.subjects(ctx, items)
	if err != nil {
		return models.FeedPage{}, fromStorage(lg, op, "subjects", err)
	}

	visible := visibility.Filter(viewer, subjects, countDenied)

	return models.FeedPage{
		Items: visibility.AnnotateAll(viewer, visible),
		Page:  rq.Page,
		Limit: rq.Limit,
	}, nil
}

// CommunityFeed — посты сообщества. Без явной сортировки берётся предложенная сообществом.
func (s *Service) CommunityFeed(ctx context.Context, viewer, name string, q FeedQuery) (models.FeedPage, error) {
	const op = "service/feeds/CommunityFeed"

	lg := log.From(ctx).With("op", op, "community", name)

	user, err := s.viewer(ctx, lg, op, viewer)
	if err != nil {
		return models.FeedPage{}, err
	}

	c, err := s.loadCommunity(ctx, lg, op, name)
	if err != nil {
		return models.FeedPage{}, err
	}

	if err := visibility.CanSeeCommunity(user, c); err != nil {
		countDenied(err)
		lg.Warn("private community")
		return models.FeedPage{}, fmt.Errorf("%s: %w: private community", op, ErrForbidden)
	}

	fallback, err := ranking.ParseSort(c.Settings.SuggestedSort, ranking.SortHot)
	if err != nil {
		fallback = ranking.SortHot
	}

	return s.feed(ctx, lg, op, user, storage.ContentFilter{
		Kind:        models.KindPost,
		Communities: []string{c.Name},
	}, q, fallback)
}

// HomeFeed — посты из сообществ пользователя без заглушённых и скрытых.
// Гость или пользователь без подписок получает общую ленту.
func (s *Service) HomeFeed(ctx context.Context, viewer string, q FeedQuery) (models.FeedPage, error) {
	const op = "service/feeds/HomeFeed"

	lg := log.From(ctx).With("op", op)

	user, err := s.viewer(ctx, lg, op, viewer)
	if err != nil {
		return models.FeedPage{}, err
	}

	f := storage.ContentFilter{Kind: models.KindPost}
	if user != nil {
		if len(user.Communities) > 0 {
			f.Communities = make([]string, 0, len(user.Communities))
			for _, c := range user.Communities {
				if !user.HasMuted(c) {
					f.Communities = append(f.Communities, c)
				}
			}
		} else {
			f.ExcludeCommunities = user.MutedCommunities
		}

		for _, h := range user.HiddenPosts {
			f.ExcludeIDs = append(f.ExcludeIDs, h.ContentID)
		}
	}

	return s.feed(ctx, lg, op, user, f, q, ranking.SortHot)
}

// UserFeed — посты пользователя.
func (s *Service) UserFeed(ctx context.Context, viewer, username string, q FeedQuery) (models.FeedPage, error) {
	const op = "service/feeds/UserFeed"

	lg := log.From(ctx).With("op", op, "author", username)

	if username == "" {
		lg.Warn("invalid argument: empty username")
		return models.FeedPage{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.viewer(ctx, lg, op, viewer)
	if err != nil {
		return models.FeedPage{}, err
	}

	if _, err := s.storage.UserByUsername(ctx, username); err != nil {
		return models.FeedPage{}, fromStorage(lg, op, "UserByUsername", err)
	}

	return s.feed(ctx, lg, op, user, storage.ContentFilter{
		Kind:   models.KindPost,
		Author: username,
	}, q, ranking.SortNew)
}

// Search — поиск постов по подстроке заголовка или текста без учёта регистра.
func (s *Service) Search(ctx context.Context, viewer, query string, q FeedQuery) (models.FeedPage, error) {
	const op = "service/feeds/Search"

	lg := log.From(ctx).With("op", op)

	query = strings.TrimSpace(query)
	if query == "" || utf8.RuneCountInString(query) > maxSearchLen {
		lg.Warn("invalid argument: query")
		return models.FeedPage{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.viewer(ctx, lg, op, viewer)
	if err != nil {
		return models.FeedPage{}, err
	}

	return s.feed(ctx, lg, op, user, storage.ContentFilter{
		Kind:   models.KindPost,
		Search: query,
	}, q, ranking.SortTop)
}
