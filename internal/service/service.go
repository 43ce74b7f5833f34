// service содержит бизнес-логику social-service: голоса, ленты, контент,
// сообщества, модерацию и уведомления поверх storage и чистых доменных пакетов.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/config"
	"github.com/pribylovaa/go-social-platform/internal/ledger"
	"github.com/pribylovaa/go-social-platform/internal/markup"
	"github.com/pribylovaa/go-social-platform/internal/metrics"
	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/moderation"
	"github.com/pribylovaa/go-social-platform/internal/ranking"
	"github.com/pribylovaa/go-social-platform/internal/storage"
	"github.com/pribylovaa/go-social-platform/internal/visibility"
	"github.com/pribylovaa/go-social-platform/pkg/log"
)

var (
	// ErrNotFound — сущность отсутствует или скрыта от зрителя.
	ErrNotFound = errors.New("not found")
	// ErrForbidden — у пользователя нет прав на действие.
	ErrForbidden = errors.New("forbidden")
	// ErrAdultContent — контент 18+ скрыт настройками зрителя.
	ErrAdultContent = fmt.Errorf("%w: adult content", ErrForbidden)
	// ErrConflict — состояние не допускает действия (повтор, гонка, дубликат).
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated — действие требует входа.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInternal — внутренняя ошибка (стораж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// Notifier доставляет уведомления пользователям.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// Idempotency хранит ключи повторяемых переключений.
type Idempotency interface {
	// Claim занимает ключ; false — ключ уже занят (повтор запроса).
	Claim(ctx context.Context, key string) (bool, error)
	// Release освобождает ключ, если действие не состоялось.
	Release(ctx context.Context, key string) error
}

// Service — описывает бизнес-логику social-service.
type Service struct {
	storage  storage.Storage
	media    storage.Media
	idem     Idempotency
	notifier Notifier
	renderer *markup.Renderer
	cfg      config.Config
	now      func() time.Time
}

// Option настраивает необязательные зависимости сервиса.
type Option func(*Service)

// WithMedia подключает хранилище медиа. Без него медиа-посты недоступны.
func WithMedia(m storage.Media) Option {
	return func(s *Service) { s.media = m }
}

// WithIdempotency подключает хранилище ключей идемпотентности.
func WithIdempotency(i Idempotency) Option {
	return func(s *Service) { s.idem = i }
}

// WithNotifier заменяет доставку уведомлений (по умолчанию — запись в хранилище).
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New создает новый экземпляр Service.
func New(st storage.Storage, cfg config.Config, opts ...Option) *Service {
	s := &Service{
		storage:  st,
		cfg:      cfg,
		renderer: markup.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.notifier == nil {
		s.notifier = StoreNotifier{storage: st}
	}

	return s
}

// StoreNotifier сохраняет уведомления в хранилище.
type StoreNotifier struct {
	storage storage.Storage
}

// NewStoreNotifier создаёт Notifier поверх хранилища.
func NewStoreNotifier(st storage.Storage) StoreNotifier {
	return StoreNotifier{storage: st}
}

func (n StoreNotifier) Notify(ctx context.Context, msg models.Notification) error {
	return n.storage.CreateNotification(ctx, msg)
}

// notify отправляет уведомление, не возвращая ошибок: сбой доставки только логируется.
// Уведомления самому себе не отправляются.
func (s *Service) notify(ctx context.Context, n models.Notification) {
	if n.To == "" || n.To == n.From {
		return
	}

	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	if err := s.notifier.Notify(ctx, n); err != nil {
		log.From(ctx).Warn("notification delivery failed",
			"type", string(n.Type),
			"to", n.To,
			"err", err,
		)
	}
}

// viewer возвращает пользователя по имени из токена, создавая документ при первом обращении.
// Гость ("") — nil без ошибки.
func (s *Service) viewer(ctx context.Context, lg *slog.Logger, op, username string) (*models.User, error) {
	if username == "" {
		return nil, nil
	}

	if !models.ValidUsername(username) {
		lg.Warn("invalid username")
		return nil, fmt.Errorf("%s: %w: invalid username", op, ErrUnauthenticated)
	}

	u, err := s.storage.EnsureUser(ctx, username)
	if err != nil {
		lg.Error("storage error on EnsureUser", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return u, nil
}

// member — как viewer, но гость получает ErrUnauthenticated.
func (s *Service) member(ctx context.Context, lg *slog.Logger, op, username string) (*models.User, error) {
	if username == "" {
		lg.Warn("unauthenticated")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	return s.viewer(ctx, lg, op, username)
}

// fromStorage переводит ошибку хранилища в ошибку сервиса.
func fromStorage(lg *slog.Logger, op, method string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrMediaNotFound):
		lg.Warn("not found", "method", method)
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrConflict), errors.Is(err, storage.ErrAlreadyVoted):
		lg.Warn("conflict", "method", method, "err", err)
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case errors.Is(err, storage.ErrInvalidMedia):
		lg.Warn("invalid media", "method", method)
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		lg.Warn("context done", "method", method, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	default:
		lg.Error("storage error on "+method, "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
}

// fromDomain переводит отказ доменного пакета в ошибку сервиса.
// Отказы видимости 1-3 неотличимы от отсутствия контента.
func fromDomain(lg *slog.Logger, op string, err error) error {
	var target error
	switch {
	case errors.Is(err, visibility.ErrAdultContent):
		target = ErrAdultContent
	case errors.Is(err, visibility.ErrDeleted),
		errors.Is(err, visibility.ErrPrivate),
		errors.Is(err, visibility.ErrBlocked):
		target = ErrNotFound
	case errors.Is(err, visibility.ErrBanned):
		target = ErrForbidden
	case errors.Is(err, visibility.ErrGuest):
		target = ErrUnauthenticated
	case errors.Is(err, moderation.ErrForbidden):
		target = ErrForbidden
	case errors.Is(err, moderation.ErrConflict):
		target = ErrConflict
	case errors.Is(err, moderation.ErrInvalidArgument):
		target = ErrInvalidArgument
	case errors.Is(err, ledger.ErrUnsupportedKind),
		errors.Is(err, ledger.ErrInvalidOption):
		target = ErrInvalidArgument
	case errors.Is(err, ledger.ErrNotPoll),
		errors.Is(err, ledger.ErrPollExpired),
		errors.Is(err, ledger.ErrAlreadyVoted):
		target = ErrConflict
	case errors.Is(err, ranking.ErrInvalidSort),
		errors.Is(err, ranking.ErrInvalidWindow),
		errors.Is(err, ranking.ErrInvalidPage):
		target = ErrInvalidArgument
	default:
		lg.Error("unexpected domain error", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Warn("denied", "reason", err.Error())
	return fmt.Errorf("%s: %w: %s", op, target, err.Error())
}

// subject собирает автора и сообщество контента для проверок видимости.
func (s *Service) subject(ctx context.Context, item *models.Content) (visibility.Subject, error) {
	subj := visibility.Subject{Item: item}

	author, err := s.storage.UserByUsername(ctx, item.Username)
	switch {
	case err == nil:
		subj.Author = author
	case !errors.Is(err, storage.ErrNotFound):
		return subj, err
	}

	if item.CommunityName == "" {
		return subj, nil
	}

	c, err := s.storage.CommunityByName(ctx, item.CommunityName)
	switch {
	case err == nil:
		subj.Community = c
	case !errors.Is(err, storage.ErrNotFound):
		return subj, err
	}

	return subj, nil
}

// subjects — subject для списка одним запросом на авторов и одним на сообщества.
func (s *Service) subjects(ctx context.Context, items []*models.Content) ([]visibility.Subject, error) {
	authors := make([]string, 0, len(items))
	communities := make([]string, 0, len(items))
	for _, it := range items {
		authors = append(authors, it.Username)
		if it.CommunityName != "" {
			communities = append(communities, it.CommunityName)
		}
	}

	users, err := s.storage.UsersByUsernames(ctx, dedupe(authors))
	if err != nil {
		return nil, err
	}

	comms, err := s.storage.CommunitiesByNames(ctx, dedupe(communities))
	if err != nil {
		return nil, err
	}

	out := make([]visibility.Subject, 0, len(items))
	for _, it := range items {
		out = append(out, visibility.Subject{
			Item:      it,
			Author:    users[it.Username],
			Community: comms[it.CommunityName],
		})
	}

	return out, nil
}

// loadContent загружает контент и его окружение.
func (s *Service) loadContent(ctx context.Context, lg *slog.Logger, op string, kind models.ContentKind, id string) (visibility.Subject, error) {
	if _, ok := models.ParseKind(string(kind)); !ok || id == "" {
		lg.Warn("invalid argument: kind or id")
		return visibility.Subject{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	item, err := s.storage.ContentByID(ctx, kind, id)
	if err != nil {
		return visibility.Subject{}, fromStorage(lg, op, "ContentByID", err)
	}

	subj, err := s.subject(ctx, item)
	if err != nil {
		return visibility.Subject{}, fromStorage(lg, op, "subject", err)
	}

	return subj, nil
}

// loadCommunity загружает сообщество по имени.
func (s *Service) loadCommunity(ctx context.Context, lg *slog.Logger, op, name string) (*models.Community, error) {
	if name == "" {
		lg.Warn("invalid argument: empty community")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	c, err := s.storage.CommunityByName(ctx, name)
	if err != nil {
		return nil, fromStorage(lg, op, "CommunityByName", err)
	}

	return c, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// pageLimit приводит размер страницы к [1, Max]; 0 — Default.
func (s *Service) pageLimit(limit int) int {
	switch {
	case limit <= 0:
		return s.cfg.Limits.Default
	case limit > s.cfg.Limits.Max:
		return s.cfg.Limits.Max
	default:
		return limit
	}
}

// countDenied учитывает в метриках отброшенные фильтром видимости элементы.
func countDenied(err error) {
	metrics.Denied(visibility.Reason(err))
}
