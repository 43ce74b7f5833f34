package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/ranking"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности или устаревшее состояние при условной записи.
	ErrConflict = errors.New("conflict")
	// ErrAlreadyVoted — пользователь уже голосовал в опросе.
	ErrAlreadyVoted = errors.New("already voted")
)

// ContentFlag — флаг контента, который меняет модератор.
type ContentFlag string

const (
	FlagLocked   ContentFlag = "is_locked"
	FlagApproved ContentFlag = "is_approved"
)

// ContentFilter — условия выборки ленты. Пустые поля не ограничивают выборку.
// Удалённый контент в выборку не попадает никогда.
type ContentFilter struct {
	Kind models.ContentKind
	// Communities != nil ограничивает выборку этими сообществами (пустой срез — ничего).
	Communities        []string
	ExcludeCommunities []string
	Author             string
	ParentPostID       string
	ExcludeIDs         []string
	// Search — подстрока заголовка или текста без учёта регистра.
	Search string
}

// Storage описывает операции над пользователями, контентом, сообществами и уведомлениями.
type Storage interface {
	// EnsureUser возвращает пользователя, создавая пустой документ при первом обращении.
	EnsureUser(ctx context.Context, username string) (*models.User, error)

	// UserByUsername возвращает пользователя. Если записи нет — ErrNotFound.
	UserByUsername(ctx context.Context, username string) (*models.User, error)

	// UsersByUsernames возвращает найденных пользователей по именам; отсутствующие пропускаются.
	UsersByUsernames(ctx context.Context, usernames []string) (map[string]*models.User, error)

	// ResolveUsernames сопоставляет имена без учёта регистра с существующими аккаунтами
	// и возвращает их канонические имена.
	ResolveUsernames(ctx context.Context, usernames []string) ([]string, error)

	// ApplyVote переносит id контента между коллекциями голосов пользователя (From -> To).
	// Запись условная: если текущее состояние не равно From — ErrConflict.
	ApplyVote(ctx context.Context, change models.VoteChange) error

	// ApplyMark ставит или снимает отметку save/hide. Устаревшее состояние — ErrConflict.
	ApplyMark(ctx context.Context, change models.MarkChange) error

	// SetBlocked добавляет или убирает target из заблокированных у username.
	SetBlocked(ctx context.Context, username, target string, blocked bool) error

	// UpdatePreferences заменяет настройки пользователя.
	UpdatePreferences(ctx context.Context, username string, prefs models.Preferences) error

	// CreateContent сохраняет пост или комментарий; ID и временные поля выставляет хранилище.
	CreateContent(ctx context.Context, item models.Content) (*models.Content, error)

	// ContentByID возвращает контент заданного вида, включая мягко удалённый.
	// Если записи нет или вид не совпадает — ErrNotFound.
	ContentByID(ctx context.Context, kind models.ContentKind, id string) (*models.Content, error)

	// ListContents возвращает страницу контента по фильтру и плану ранжирования.
	ListContents(ctx context.Context, f ContentFilter, plan ranking.Plan) ([]*models.Content, error)

	// ApplyVoteCounters атомарно применяет приращения счётчиков (не ниже нуля,
	// net_vote пересчитывается) и возвращает обновлённый контент.
	ApplyVoteCounters(ctx context.Context, change models.VoteChange) (*models.Content, error)

	// AddPollVote добавляет голос в вариант опроса. Повторный голос — ErrAlreadyVoted.
	AddPollVote(ctx context.Context, postID, option, username string) error

	// IncrementViews атомарно увеличивает счётчик просмотров поста.
	IncrementViews(ctx context.Context, postID string) error

	// IncrementComments атомарно меняет счётчик комментариев поста.
	IncrementComments(ctx context.Context, postID string, delta int64) error

	// UpdateBody меняет текст контента и помечает его отредактированным.
	UpdateBody(ctx context.Context, kind models.ContentKind, id, body, html string) error

	// SoftDelete помечает контент удалённым. Если записи нет — ErrNotFound.
	SoftDelete(ctx context.Context, kind models.ContentKind, id string) error

	// SetContentFlag выставляет модераторский флаг контента.
	SetContentFlag(ctx context.Context, kind models.ContentKind, id string, flag ContentFlag, value bool) error

	// SetFollower подписывает username на пост или отписывает.
	SetFollower(ctx context.Context, postID, username string, follow bool) error

	// CreateCommunity сохраняет сообщество. Занятое имя — ErrConflict.
	CreateCommunity(ctx context.Context, c models.Community) error

	// CommunityByName возвращает сообщество. Если записи нет — ErrNotFound.
	CommunityByName(ctx context.Context, name string) (*models.Community, error)

	// CommunitiesByNames возвращает найденные сообщества по именам.
	CommunitiesByNames(ctx context.Context, names []string) (map[string]*models.Community, error)

	// ApplyRelations записывает изменения связей в обе проекции одной логической единицей.
	ApplyRelations(ctx context.Context, changes []models.RelationChange) error

	// CommunitiesWithExpiredBans возвращает сообщества, где есть баны с unban_at <= now.
	CommunitiesWithExpiredBans(ctx context.Context, now time.Time) ([]*models.Community, error)

	// RemoveExpiredBan снимает бан, только если он всё ещё истёкший к моменту now.
	// false — бан уже снят или заменён новым.
	RemoveExpiredBan(ctx context.Context, community, username string, now time.Time) (bool, error)

	// CreateNotification сохраняет уведомление.
	CreateNotification(ctx context.Context, n models.Notification) error

	// ListNotifications возвращает уведомления получателя, новые сначала.
	ListNotifications(ctx context.Context, to string, unreadOnly bool, skip, limit int) ([]models.Notification, error)

	// MarkNotificationRead помечает уведомление прочитанным. Чужое или отсутствующее — ErrNotFound.
	MarkNotificationRead(ctx context.Context, to, id string) error

	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
