// Package ranking задаёт порядок лент: режимы сортировки, временные окна и пагинацию.
//
// Один и тот же план используется дважды: хранилище строит по нему запрос
// (ключи сортировки + границы окна + skip/limit), а Rank применяет его к срезу в памяти.
// Последним ключом всегда идёт идентификатор, поэтому порядок детерминирован.
package ranking

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
)

var (
	// ErrInvalidSort — неизвестный режим сортировки.
	ErrInvalidSort = errors.New("invalid sort")
	// ErrInvalidWindow — неизвестное временное окно.
	ErrInvalidWindow = errors.New("invalid time window")
	// ErrInvalidPage — отрицательная страница или неположительный лимит.
	ErrInvalidPage = errors.New("invalid page")
)

// Sort — режим сортировки ленты.
type Sort string

const (
	SortNew    Sort = "new"
	SortTop    Sort = "top"
	SortHot    Sort = "hot"
	SortRising Sort = "rising"
	SortOld    Sort = "old"
)

// ParseSort разбирает режим; пустая строка даёт fallback.
func ParseSort(s string, fallback Sort) (Sort, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		if fallback == "" {
			return SortNew, nil
		}
		s = string(fallback)
	}

	switch Sort(s) {
	case SortNew, SortTop, SortHot, SortRising, SortOld:
		return Sort(s), nil
	default:
		return "", ErrInvalidSort
	}
}

// Window — временное окно для сортировки top.
type Window string

const (
	WindowNow   Window = "now"
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
	WindowAll   Window = "all"
)

var windows = map[Window]time.Duration{
	WindowNow:   time.Hour,
	WindowToday: 24 * time.Hour,
	WindowWeek:  7 * 24 * time.Hour,
	WindowMonth: 30 * 24 * time.Hour,
	WindowYear:  365 * 24 * time.Hour,
}

// ParseWindow разбирает окно; пустая строка — all.
func ParseWindow(s string) (Window, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || Window(s) == WindowAll {
		return WindowAll, nil
	}

	if _, ok := windows[Window(s)]; !ok {
		return "", ErrInvalidWindow
	}

	return Window(s), nil
}

// Duration возвращает длину окна; ok == false для all.
func (w Window) Duration() (time.Duration, bool) {
	d, ok := windows[w]
	return d, ok
}

// Field — ключ сортировки. Хранилище сопоставляет его со своим полем.
type Field string

const (
	FieldCreatedAt          Field = "created_at"
	FieldNetVote            Field = "net_vote"
	FieldViews              Field = "views"
	FieldMostRecentUpvoteAt Field = "most_recent_upvote_at"
	FieldID                 Field = "id"
)

// Key — один ключ сортировки.
type Key struct {
	Field Field
	Desc  bool
}

// Query — запрос ленты.
type Query struct {
	Sort   Sort
	Window Window
	Page   int
	Limit  int
	Now    time.Time
}

// Plan — готовый к исполнению план выборки.
// Since/Until — включительные границы created_at; nil — без границы.
type Plan struct {
	Keys  []Key
	Since *time.Time
	Until *time.Time
	Skip  int
	Limit int
}

var sortKeys = map[Sort][]Key{
	SortNew:    {{FieldCreatedAt, true}, {FieldID, true}},
	SortOld:    {{FieldCreatedAt, false}, {FieldID, false}},
	SortTop:    {{FieldNetVote, true}, {FieldCreatedAt, true}, {FieldID, true}},
	SortHot:    {{FieldViews, true}, {FieldCreatedAt, true}, {FieldID, true}},
	SortRising: {{FieldMostRecentUpvoteAt, true}, {FieldID, true}},
}

// Validate проверяет запрос.
func (q Query) Validate() error {
	if _, ok := sortKeys[q.Sort]; !ok {
		return ErrInvalidSort
	}

	if q.Window != "" && q.Window != WindowAll {
		if _, ok := windows[q.Window]; !ok {
			return ErrInvalidWindow
		}
	}

	if q.Page < 0 || q.Limit <= 0 {
		return ErrInvalidPage
	}

	return nil
}

// PlanFor строит план. Окно учитывается только для top.
func PlanFor(q Query) (Plan, error) {
	if err := q.Validate(); err != nil {
		return Plan{}, err
	}

	p := Plan{
		Keys:  slices.Clone(sortKeys[q.Sort]),
		Skip:  Offset(q.Page, q.Limit),
		Limit: q.Limit,
	}

	if q.Sort == SortTop {
		if d, ok := q.Window.Duration(); ok {
			since := q.Now.Add(-d)
			until := q.Now
			p.Since, p.Until = &since, &until
		}
	}

	return p, nil
}

// InWindow сообщает, попадает ли момент t в границы плана.
func (p Plan) InWindow(t time.Time) bool {
	if p.Since != nil && t.Before(*p.Since) {
		return false
	}

	if p.Until != nil && t.After(*p.Until) {
		return false
	}

	return true
}

// Compare сравнивает два элемента по ключам плана.
func (p Plan) Compare(a, b *models.Content) int {
	for _, k := range p.Keys {
		c := compareField(k.Field, a, b)
		if k.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}

	return 0
}

func compareField(f Field, a, b *models.Content) int {
	switch f {
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case FieldNetVote:
		return cmp.Compare(a.NetVote, b.NetVote)
	case FieldViews:
		return cmp.Compare(a.Views, b.Views)
	case FieldMostRecentUpvoteAt:
		return a.MostRecentUpvoteAt.Compare(b.MostRecentUpvoteAt)
	case FieldID:
		return cmp.Compare(a.ID, b.ID)
	default:
		return 0
	}
}

// Rank применяет запрос к срезу в памяти: фильтр окна, сортировка, страница.
// Страница за пределами данных даёт пустой срез.
func Rank(items []*models.Content, q Query) ([]*models.Content, error) {
	p, err := PlanFor(q)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Content, 0, len(items))
	for _, it := range items {
		if p.InWindow(it.CreatedAt) {
			out = append(out, it)
		}
	}

	slices.SortStableFunc(out, p.Compare)

	return Paginate(out, p.Skip, p.Limit), nil
}

// Offset — число пропускаемых элементов для страницы page.
// При переполнении page*limit насыщается до math.MaxInt: такая страница пуста.
func Offset(page, limit int) int {
	if page <= 0 || limit <= 0 {
		return 0
	}

	if page > math.MaxInt/limit {
		return math.MaxInt
	}

	return page * limit
}

// Paginate возвращает срез [skip, skip+limit) либо пустой срез.
func Paginate[T any](items []T, skip, limit int) []T {
	if skip < 0 || skip >= len(items) || limit <= 0 {
		return []T{}
	}

	end := len(items)
	if limit < end-skip {
		end = skip + limit
	}

	return items[skip:end]
}
