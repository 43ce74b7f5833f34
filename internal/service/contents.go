package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pribylovaa/go-social-platform/internal/markup"
	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/moderation"
	"github.com/pribylovaa/go-social-platform/internal/ranking"
	"github.com/pribylovaa/go-social-platform/internal/storage"
	"github.com/pribylovaa/go-social-platform/internal/visibility"
	"github.com/pribylovaa/go-social-platform/pkg/log"
)

const (
	maxTitleLen   = 300
	maxBodyLen    = 40000
	maxMediaItems = 20
	minPollOpts   = 2
	maxPollOpts   = 6
	maxPollDays   = 7
)

// PostInput — данные нового поста. Community == "" — пост в профиле автора.
type PostInput struct {
	Community   string
	Type        models.ContentType
	Title       string
	Content     string
	Link        string
	Media       []string
	PollOptions []string
	PollDays    int
	IsNSFW      bool
	IsSpoiler   bool
}

// CreatePost публикует пост.
func (s *Service) CreatePost(ctx context.Context, viewer string, in PostInput) (models.ContentView, error) {
	const op = "service/contents/CreatePost"

	lg := log.From(ctx).With("op", op, "community", in.Community, "type", string(in.Type))

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return models.ContentView{}, err
	}

	if in.Type == "" {
		in.Type = models.TypePost
	}

	post, err := s.buildPost(ctx, lg, op, user.Username, in)
	if err != nil {
		return models.ContentView{}, err
	}

	if in.Community != "" {
		c, err := s.loadCommunity(ctx, lg, op, in.Community)
		if err != nil {
			return models.ContentView{}, err
		}

		if err := s.checkPostingRules(lg, op, user, c, in.Type); err != nil {
			return models.ContentView{}, err
		}
	}

	html, err := s.renderer.Render(post.Content)
	if err != nil {
		lg.Warn("invalid argument: markup", "err", err)
		return models.ContentView{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}
	post.ContentHTML = html

	created, err := s.storage.CreateContent(ctx, models.Content{
		Kind:          models.KindPost,
		Type:          in.Type,
		Username:      user.Username,
		CommunityName: in.Community,
		IsNSFW:        in.IsNSFW,
		IsSpoiler:     in.IsSpoiler,
		Post:          post,
	})
	if err != nil {
		return models.ContentView{}, fromStorage(lg, op, "CreateContent", err)
	}

	lg.Info("post created", "id", created.ID)

	return visibility.Annotate(user, created), nil
}

// buildPost проверяет поля по типу поста и собирает нагрузку.
func (s *Service) buildPost(ctx context.Context, lg *slog.Logger, op, username string, in PostInput) (*models.PostPayload, error) {
	invalid := func(msg string) error {
		lg.Warn("invalid argument: " + msg)
		return fmt.Errorf("%s: %w: %s", op, ErrInvalidArgument, msg)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLen {
		return nil, invalid("title")
	}

	if utf8.RuneCountInString(in.Content) > maxBodyLen {
		return nil, invalid("content too long")
	}

	post := &models.PostPayload{Title: title, Content: in.Content}

	switch in.Type {
	case models.TypePost:
	case models.TypeLink:
		u, err := url.Parse(strings.TrimSpace(in.Link))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, invalid("link")
		}
		post.Link = u.String()
	case models.TypeMedia:
		if s.media == nil {
			return nil, invalid("media disabled")
		}

		if len(in.Media) == 0 || len(in.Media) > maxMediaItems {
			return nil, invalid("media count")
		}

		post.Media = make([]string, 0, len(in.Media))
		for _, key := range in.Media {
			public, err := s.media.ConfirmUpload(ctx, username, key)
			if err != nil {
				if errors.Is(err, storage.ErrMediaNotFound) {
					return nil, invalid("media not uploaded")
				}
				return nil, fromStorage(lg, op, "ConfirmUpload", err)
			}
			post.Media = append(post.Media, public)
		}
	case models.TypePoll:
		opts, err := pollOptions(in.PollOptions)
		if err != nil {
			return nil, invalid(err.Error())
		}

		if in.PollDays < 1 || in.PollDays > maxPollDays {
			return nil, invalid("poll days")
		}

		exp := s.now().Add(time.Duration(in.PollDays) * 24 * time.Hour)
		post.PollOptions = opts
		post.PollExpiresAt = &exp
	default:
		return nil, invalid("type")
	}

	return post, nil
}

func pollOptions(raw []string) ([]models.PollOption, error) {
	if len(raw) < minPollOpts || len(raw) > maxPollOpts {
		return nil, fmt.Errorf("poll needs %d-%d options", minPollOpts, maxPollOpts)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]models.PollOption, 0, len(raw))
	for _, o := range raw {
		o = strings.TrimSpace(o)
		if o == "" {
			return nil, errors.New("empty poll option")
		}
		if _, ok := seen[o]; ok {
			return nil, errors.New("duplicate poll option")
		}
		seen[o] = struct{}{}
		out = append(out, models.PollOption{Text: o, Voters: []string{}})
	}

	return out, nil
}

// checkPostingRules — доступ к сообществу и его настройки публикаций.
func (s *Service) checkPostingRules(lg *slog.Logger, op string, user *models.User, c *models.Community, typ models.ContentType) error {
	if err := visibility.CanPost(user, c); err != nil {
		return fromDomain(lg, op, err)
	}

	if c.Type == models.CommunityRestricted && !c.IsModerator(user.Username) && !c.IsApproved(user.Username) {
		lg.Warn("restricted community")
		return fmt.Errorf("%s: %w: restricted community", op, ErrForbidden)
	}

	allowed := true
	switch c.Settings.AllowedPostTypes {
	case models.AllowTextPosts:
		allowed = typ != models.TypeLink
	case models.AllowLinkPosts:
		allowed = typ == models.TypeLink
	}

	switch {
	case typ == models.TypeMedia && !c.Settings.AllowImages,
		typ == models.TypePoll && !c.Settings.AllowPolls:
		allowed = false
	}

	if !allowed {
		lg.Warn("invalid argument: post type not allowed")
		return fmt.Errorf("%s: %w: post type not allowed in community", op, ErrInvalidArgument)
	}

	return nil
}

// CreateComment добавляет комментарий к посту и рассылает уведомления:
// автору поста, подписчикам и упомянутым пользователям.
func (s *Service) CreateComment(ctx context.Context, viewer, postID, body string) (models.ContentView, error) {
	const op = "service/contents/CreateComment"

	lg := log.From(ctx).With("op", op, "post_id", postID)

	if strings.TrimSpace(body) == "" || utf8.RuneCountInString(body) > maxBodyLen {
		lg.Warn("invalid argument: body")
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

	post := subj.Item
	if post.IsLocked && !subj.Community.IsModerator(user.Username) {
		lg.Warn("post locked")
		return models.ContentView{}, fmt.Errorf("%s: %w: post locked", op, ErrForbidden)
	}

	html, err := s.renderer.Render(body)
	if err != nil {
		lg.Warn("invalid argument: markup", "err", err)
		return models.ContentView{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	created, err := s.storage.CreateContent(ctx, models.Content{
		Kind:          models.KindComment,
		Type:          models.TypeComment,
		Username:      user.Username,
		CommunityName: post.CommunityName,
		IsNSFW:        post.IsNSFW,
		Comment: &models.CommentPayload{
			ParentPostID: post.ID,
			Content:      body,
			ContentHTML:  html,
		},
	})
	if err != nil {
		return models.ContentView{}, fromStorage(lg, op, "CreateContent", err)
	}

	if err := s.storage.IncrementComments(ctx, post.ID, 1); err != nil {
		lg.Error("storage error on IncrementComments", "err", err)
	}

	s.notifyComment(ctx, lg, user.Username, post, created)

	return visibility.Annotate(user, created), nil
}

func (s *Service) notifyComment(ctx context.Context, lg *slog.Logger, author string, post, comment *models.Content) {
	base := models.Notification{
		From:          author,
		ResourceID:    comment.ID,
		CommunityName: post.CommunityName,
	}

	reply := base
	reply.To, reply.Type = post.Username, models.NotifyPostReply
	s.notify(ctx, reply)

	for _, f := range post.Followers {
		if f == post.Username {
			continue
		}

		n := base
		n.To, n.Type = f, models.NotifyFollowedReply
		s.notify(ctx, n)
	}

	mentioned := markup.Mentions(comment.Body())
	if len(mentioned) == 0 {
		return
	}

	names, err := s.storage.ResolveUsernames(ctx, mentioned)
	if err != nil {
		lg.Warn("mentions not resolved", "err", err)
		return
	}

	for _, name := range dedupe(names) {
		n := base
		n.To, n.Type = name, models.NotifyMention
		s.notify(ctx, n)
	}
}

// EditContent меняет текст своего поста или комментария.
func (s *Service) EditContent(ctx context.Context, viewer string, kind models.ContentKind, id, body string) (models.ContentView, error) {
	const op = "service/contents/EditContent"

	lg := log.From(ctx).With("op", op, "kind", string(kind), "id", id)

	if utf8.RuneCountInString(body) > maxBodyLen || (kind == models.KindComment && strings.TrimSpace(body) == "") {
		lg.Warn("invalid argument: body")
		return models.ContentView{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

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

	item := subj.Item
	if item.Username != user.Username {
		lg.Warn("not the author")
		return models.ContentView{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	html, err := s.renderer.Render(body)
	if err != nil {
		lg.Warn("invalid argument: markup", "err", err)
		return models.ContentView{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.UpdateBody(ctx, kind, id, body, html); err != nil {
		return models.ContentView{}, fromStorage(lg, op, "UpdateBody", err)
	}

	switch {
	case item.Post != nil:
		item.Post.Content, item.Post.ContentHTML = body, html
	case item.Comment != nil:
		item.Comment.Content, item.Comment.ContentHTML = body, html
	}
	item.IsEdited = true
	item.UpdatedAt = s.now()

	return visibility.Annotate(user, item), nil
}

// DeleteContent мягко удаляет контент. Удалить может автор или модератор сообщества.
func (s *Service) DeleteContent(ctx context.Context, viewer string, kind models.ContentKind, id string) error {
	const op = "service/contents/DeleteContent"

	lg := log.From(ctx).With("op", op, "kind", string(kind), "id", id)

	user, err := s.member(ctx, lg, op, viewer)
	if err != nil {
		return err
	}

	subj, err := s.loadContent(ctx, lg, op, kind, id)
	if err != nil {
		return err
	}

	item := subj.Item
	if item.IsDeleted {
		lg.Warn("already deleted")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if item.Username != user.Username {
		if err := moderation.ModerateContent(subj.Community, user.Username); err != nil {
			return fromDomain(lg, op, err)
		}
	}

	if err := s.storage.SoftDelete(ctx, kind, id); err != nil {
		return fromStorage(lg, op, "SoftDelete", err)
	}

	if kind == models.KindComment {
		if err := s.storage.IncrementComments(ctx, item.PostID(), -1); err != nil {
			lg.Error("storage error on IncrementComments", "err", err)
		}
	}

	lg.Info("content deleted", "by", user.Username)

	return nil
}

// PostByID возвращает пост и атомарно увеличивает счётчик просмотров.
func (s *Service) PostByID(ctx context.Context, viewer, id string) (models.ContentView, error) {
	const op = "service/contents/PostByID"

	lg := log.From(ctx).With("op", op, "id", id)

	user, subj, err := s.visible(ctx, lg, op, viewer, models.KindPost, id)
	if err != nil {
		return models.ContentView{}, err
	}

	if err := s.storage.IncrementViews(ctx, id); err != nil {
		lg.Error("storage error on IncrementViews", "err", err)
	} else {
		subj.Item.Views++
	}

	return visibility.Annotate(user, subj.Item), nil
}

// CommentByID возвращает комментарий.
func (s *Service) CommentByID(ctx context.Context, viewer, id string) (models.ContentView, error) {
	const op = "service/contents/CommentByID"

	lg := log.From(ctx).With("op", op, "id", id)

	user, subj, err := s.visible(ctx, lg, op, viewer, models.KindComment, id)
	if err != nil {
		return models.ContentView{}, err
	}

	return visibility.Annotate(user, subj.Item), nil
}

// PostComments возвращает страницу комментариев поста.
func (s *Service) PostComments(ctx context.Context, viewer, postID string, q FeedQuery) (models.FeedPage, error) {
	const op = "service/contents/PostComments"

	lg := log.From(ctx).With("op", op, "post_id", postID)

	user, _, err := s.visible(ctx, lg, op, viewer, models.KindPost, postID)
	if err != nil {
		return models.FeedPage{}, err
	}

	return s.feed(ctx, lg, op, user, storage.ContentFilter{
		Kind:         models.KindComment,
		ParentPostID: postID,
	}, q, ranking.SortTop)
}

// FollowPost переключает подписку на ответы в посте. Возвращает новое состояние.
func (s *Service) FollowPost(ctx context.Context, viewer, postID string) (bool, error) {
	const op = "service/contents/FollowPost"

	lg := log.From(ctx).With("op", op, "id", postID)

	if viewer == "" {
		lg.Warn("unauthenticated")
		return false, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	user, subj, err := s.visible(ctx, lg, op, viewer, models.KindPost, postID)
	if err != nil {
		return false, err
	}

	follow := !subj.Item.IsFollowedBy(user.Username)
	if err := s.storage.SetFollower(ctx, postID, user.Username, follow); err != nil {
		return false, fromStorage(lg, op, "SetFollower", err)
	}

	return follow, nil
}

// visible загружает зрителя и контент и проверяет право чтения.
// Комментарий читаем, только если читаем его пост.
func (s *Service) visible(ctx context.Context, lg *slog.Logger, op, viewer string, kind models.ContentKind, id string) (*models.User, visibility.Subject, error) {
	user, err := s.viewer(ctx, lg, op, viewer)
	if err != nil {
		return nil, visibility.Subject{}, err
	}

	subj, err := s.loadContent(ctx, lg, op, kind, id)
	if err != nil {
		return nil, visibility.Subject{}, err
	}

	if err := visibility.CanView(user, subj); err != nil {
		countDenied(err)
		return nil, visibility.Subject{}, fromDomain(lg, op, err)
	}

	if kind == models.KindComment {
		parent, err := s.loadContent(ctx, lg, op, models.KindPost, subj.Item.PostID())
		if err != nil {
			return nil, visibility.Subject{}, err
		}

		if err := visibility.CanView(user, parent); err != nil {
			countDenied(err)
			lg.Warn("parent post not visible", "post_id", parent.Item.ID)
			return nil, visibility.Subject{}, fromDomain(lg, op, err)
		}
	}

	return user, subj, nil
}
