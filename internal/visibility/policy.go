// Package visibility решает, может ли зритель видеть контент или действовать с ним.
//
// Проверки выполняются строго по порядку и прерываются на первой неудачной:
//  1. мягкое удаление;
//  2. приватное сообщество;
//  3. взаимная блокировка (модераторы сообщества проходят);
//  4. NSFW;
//  5. бан в сообществе (только для записи).
//
// Зритель nil — гость.
package visibility

import (
	"errors"

	"github.com/pribylovaa/go-social-platform/internal/models"
)

var (
	// ErrDeleted — контент мягко удалён.
	ErrDeleted = errors.New("content deleted")
	// ErrPrivate — приватное сообщество, зритель не модератор и не одобрен.
	ErrPrivate = errors.New("private community")
	// ErrBlocked — автор и зритель блокируют друг друга.
	ErrBlocked = errors.New("blocked")
	// ErrAdultContent — NSFW-контент без согласия зрителя.
	ErrAdultContent = errors.New("adult content blocked")
	// ErrBanned — зритель забанен в сообществе.
	ErrBanned = errors.New("banned in community")
	// ErrGuest — действие требует аутентифицированного пользователя.
	ErrGuest = errors.New("guest cannot act")
)

// Subject — контент вместе с документами, нужными проверкам.
// Author может быть nil, если автор удалён; Community — nil вне сообществ.
type Subject struct {
	Item      *models.Content
	Author    *models.User
	Community *models.Community
}

// CanView выполняет проверки чтения 1-4.
func CanView(viewer *models.User, s Subject) error {
	if s.Item == nil || s.Item.IsDeleted {
		return ErrDeleted
	}

	if err := checkPrivate(viewer, s.Community); err != nil {
		return err
	}

	if blocked(viewer, s) {
		return ErrBlocked
	}

	if IsAdult(s) && !allowsAdult(viewer) {
		return ErrAdultContent
	}

	return nil
}

// CanParticipate — проверки записи (комментарий, голос, ответ): всё из CanView плюс бан.
func CanParticipate(viewer *models.User, s Subject) error {
	if viewer == nil {
		return ErrGuest
	}

	if err := CanView(viewer, s); err != nil {
		return err
	}

	if s.Community.IsBanned(viewer.Username) {
		return ErrBanned
	}

	return nil
}

// CanPost — проверки публикации нового поста в сообщество.
// Контента ещё нет, поэтому проверяются только приватность и бан.
func CanPost(viewer *models.User, c *models.Community) error {
	if viewer == nil {
		return ErrGuest
	}

	if c == nil {
		return nil
	}

	if err := checkPrivate(viewer, c); err != nil {
		return err
	}

	if c.IsBanned(viewer.Username) {
		return ErrBanned
	}

	return nil
}

// CanSeeCommunity сообщает, видна ли лента сообщества зрителю.
func CanSeeCommunity(viewer *models.User, c *models.Community) error {
	return checkPrivate(viewer, c)
}

// IsAdult сообщает, считается ли контент NSFW. NSFW-сообщество делает таким весь свой контент.
func IsAdult(s Subject) bool {
	if s.Item != nil && s.Item.IsNSFW {
		return true
	}

	return s.Community != nil && s.Community.IsNSFW
}

// Filter отбрасывает из списка всё, что не проходит CanView. Ошибок не возвращает.
// dropped вызывается для каждого отброшенного элемента (может быть nil).
func Filter(viewer *models.User, subjects []Subject, dropped func(error)) []Subject {
	out := make([]Subject, 0, len(subjects))
	for _, s := range subjects {
		if err := CanView(viewer, s); err != nil {
			if dropped != nil {
				dropped(err)
			}
			continue
		}
		out = append(out, s)
	}

	return out
}

// Reason возвращает короткую метку причины отказа для метрик.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrDeleted):
		return "deleted"
	case errors.Is(err, ErrPrivate):
		return "private"
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrAdultContent):
		return "adult"
	case errors.Is(err, ErrBanned):
		return "banned"
	case errors.Is(err, ErrGuest):
		return "guest"
	default:
		return "other"
	}
}

func checkPrivate(viewer *models.User, c *models.Community) error {
	if c == nil || c.Type != models.CommunityPrivate {
		return nil
	}

	if viewer == nil {
		return ErrPrivate
	}

	if c.IsModerator(viewer.Username) || c.IsApproved(viewer.Username) {
		return nil
	}

	return ErrPrivate
}

func blocked(viewer *models.User, s Subject) bool {
	if viewer == nil {
		return false
	}

	if s.Community.IsModerator(viewer.Username) {
		return false
	}

	return s.Author.Blocks(viewer.Username) || viewer.Blocks(s.Item.Username)
}

// Модераторы не освобождаются от NSFW-фильтра.
func allowsAdult(viewer *models.User) bool {
	return viewer != nil && viewer.Preferences.ShowAdultContent
}
