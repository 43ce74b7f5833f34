// Package moderation — конечный автомат связей пользователя с сообществом:
// членство, баны, одобренные пользователи, приглашения и модераторы.
//
// Функции пакета ничего не пишут. Они проверяют все предусловия и возвращают
// набор models.RelationChange, который хранилище применяет к обеим проекциям сразу.
// Если хотя бы одно предусловие не выполнено, изменений нет.
package moderation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
)

// Базовые категории ошибок. Конкретные ошибки ниже оборачивают одну из них,
// поэтому вызывающему достаточно errors.Is(err, ErrForbidden) и т.п.
var (
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
)

var (
	ErrNotModerator       = fmt.Errorf("%w: actor is not a moderator", ErrForbidden)
	ErrOwnerImmutable     = fmt.Errorf("%w: owner cannot leave or be removed", ErrForbidden)
	ErrBanned             = fmt.Errorf("%w: user is banned", ErrForbidden)
	ErrNotApproved        = fmt.Errorf("%w: community is private", ErrForbidden)
	ErrTargetModerator    = fmt.Errorf("%w: target is a moderator", ErrConflict)
	ErrNotBanned          = fmt.Errorf("%w: user is not banned", ErrConflict)
	ErrAlreadyApproved    = fmt.Errorf("%w: user already approved", ErrConflict)
	ErrNotApprovedUser    = fmt.Errorf("%w: user is not approved", ErrConflict)
	ErrAlreadyMember      = fmt.Errorf("%w: already a member", ErrConflict)
	ErrNotMember          = fmt.Errorf("%w: not a member", ErrConflict)
	ErrAlreadyInvited     = fmt.Errorf("%w: already invited", ErrConflict)
	ErrNotInvited         = fmt.Errorf("%w: no pending invitation", ErrConflict)
	ErrNotTargetModerator = fmt.Errorf("%w: user is not a moderator", ErrConflict)
	ErrUnknownRule        = fmt.Errorf("%w: unknown rule", ErrInvalidArgument)
	ErrBanDays            = fmt.Errorf("%w: ban days out of range", ErrInvalidArgument)
	ErrEmptyTarget        = fmt.Errorf("%w: empty target", ErrInvalidArgument)
)

// BanInput — параметры бана. Days == nil — бессрочный бан.
type BanInput struct {
	Rule string
	Note string
	Days *int
}

func change(c *models.Community, username string, rel models.Relation, op models.RelationOp) models.RelationChange {
	return models.RelationChange{Community: c.Name, Username: username, Relation: rel, Op: op}
}

func requireModerator(c *models.Community, actor string) error {
	if !c.IsModerator(actor) {
		return ErrNotModerator
	}

	return nil
}

func requireTarget(target *models.User) error {
	if target == nil || strings.TrimSpace(target.Username) == "" {
		return ErrEmptyTarget
	}

	return nil
}

// Ban банит target в сообществе.
//
// Существующий бан заменяется новым (новый UnbanAt вытесняет старый).
// Бан снимает одобрение, а в приватном сообществе и членство.
func Ban(c *models.Community, target *models.User, actor string, in BanInput, maxDays int, now time.Time) ([]models.RelationChange, *models.Ban, error) {
	if err := requireModerator(c, actor); err != nil {
		return nil, nil, err
	}

	if err := requireTarget(target); err != nil {
		return nil, nil, err
	}

	if c.IsModerator(target.Username) {
		return nil, nil, ErrTargetModerator
	}

	if !c.HasRule(in.Rule) {
		return nil, nil, ErrUnknownRule
	}

	ban := &models.Ban{
		Username: target.Username,
		Reason:   in.Rule,
		Note:     strings.TrimSpace(in.Note),
		BannedAt: now,
	}

	if in.Days != nil {
		if *in.Days < 1 || *in.Days > maxDays {
			return nil, nil, ErrBanDays
		}
		at := now.Add(time.Duration(*in.Days) * 24 * time.Hour)
		ban.Days = *in.Days
		ban.UnbanAt = &at
	}

	banChange := change(c, target.Username, models.RelBanned, models.RelationAdd)
	banChange.Ban = ban
	changes := []models.RelationChange{banChange}

	if c.IsApproved(target.Username) {
		changes = append(changes, change(c, target.Username, models.RelApproved, models.RelationRemove))
	}

	if c.Type == models.CommunityPrivate && target.IsMember(c.Name) {
		changes = append(changes, change(c, target.Username, models.RelMember, models.RelationRemove))
	}

	return changes, ban, nil
}

// Unban снимает бан вручную.
func Unban(c *models.Community, target, actor string) ([]models.RelationChange, error) {
	if err := requireModerator(c, actor); err != nil {
		return nil, err
	}

	if !c.IsBanned(target) {
		return nil, ErrNotBanned
	}

	return []models.RelationChange{change(c, target, models.RelBanned, models.RelationRemove)}, nil
}

// ExpiredBans возвращает пользователей, чей бан истёк к моменту now.
func ExpiredBans(c *models.Community, now time.Time) []string {
	var out []string
	for _, b := range c.BannedUsers {
		if b.UnbanAt != nil && !b.UnbanAt.After(now) {
			out = append(out, b.Username)
		}
	}

	return out
}

// Approve добавляет target в одобренные. Если target ещё не участник,
// одобрение делает его участником (members+1).
func Approve(c *models.Community, target *models.User, actor string) ([]models.RelationChange, error) {
	if err := requireModerator(c, actor); err != nil {
		return nil, err
	}

	if err := requireTarget(target); err != nil {
		return nil, err
	}

	if c.IsApproved(target.Username) {
		return nil, ErrAlreadyApproved
	}

	if c.IsBanned(target.Username) {
		return nil, ErrBanned
	}

	changes := []models.RelationChange{change(c, target.Username, models.RelApproved, models.RelationAdd)}
	if !target.IsMember(c.Name) {
		changes = append(changes, change(c, target.Username, models.RelMember, models.RelationAdd))
	}

	return changes, nil
}

// Unapprove убирает target из одобренных. Членство снимается
// только в приватном сообществе.
func Unapprove(c *models.Community, target *models.User, actor string) ([]models.RelationChange, error) {
	if err := requireModerator(c, actor); err != nil {
		return nil, err
	}

	if err := requireTarget(target); err != nil {
		return nil, err
	}

	if !c.IsApproved(target.Username) {
		return nil, ErrNotApprovedUser
	}

	changes := []models.RelationChange{change(c, target.Username, models.RelApproved, models.RelationRemove)}
	if c.Type == models.CommunityPrivate && target.IsMember(c.Name) && target.Username != c.Owner {
		changes = append(changes, change(c, target.Username, models.RelMember, models.RelationRemove))
	}

	return changes, nil
}

// Join — вступление в сообщество.
func Join(c *models.Community, user *models.User) ([]models.RelationChange, error) {
	if err := requireTarget(user); err != nil {
		return nil, err
	}

	if c.IsBanned(user.Username) {
		return nil, ErrBanned
	}

	if c.Type == models.CommunityPrivate && !c.IsApproved(user.Username) && !c.IsModerator(user.Username) {
		return nil, ErrNotApproved
	}

	if user.IsMember(c.Name) {
		return nil, ErrAlreadyMember
	}

	return []models.RelationChange{change(c, user.Username, models.RelMember, models.RelationAdd)}, nil
}

// Leave — выход из сообщества. Владелец выйти не может.
func Leave(c *models.Community, user *models.User) ([]models.RelationChange, error) {
	if err := requireTarget(user); err != nil {
		return nil, err
	}

	if user.Username == c.Owner {
		return nil, ErrOwnerImmutable
	}

	if !user.IsMember(c.Name) {
		return nil, ErrNotMember
	}

	return []models.RelationChange{change(c, user.Username, models.RelMember, models.RelationRemove)}, nil
}

// ToggleMute переключает заглушение сообщества в ленте пользователя.
func ToggleMute(c *models.Community, user *models.User) (models.RelationChange, bool, error) {
	if err := requireTarget(user); err != nil {
		return models.RelationChange{}, false, err
	}

	if user.HasMuted(c.Name) {
		return change(c, user.Username, models.RelMuted, models.RelationRemove), false, nil
	}

	return change(c, user.Username, models.RelMuted, models.RelationAdd), true, nil
}

// InviteModerator приглашает target в модераторы.
func InviteModerator(c *models.Community, target *models.User, actor string) ([]models.RelationChange, error) {
	if err := requireModerator(c, actor); err != nil {
		return nil, err
	}

	if err := requireTarget(target); err != nil {
		return nil, err
	}

	switch {
	case c.IsModerator(target.Username):
		return nil, ErrTargetModerator
	case c.IsInvited(target.Username):
		return nil, ErrAlreadyInvited
	case c.IsBanned(target.Username):
		return nil, ErrBanned
	}

	return []models.RelationChange{change(c, target.Username, models.RelInvited, models.RelationAdd)}, nil
}

// AcceptInvitation — приглашённый становится модератором (и участником, если ещё не был).
func AcceptInvitation(c *models.Community, actor *models.User) ([]models.RelationChange, error) {
	if err := requireTarget(actor); err != nil {
		return nil, err
	}

	if !c.IsInvited(actor.Username) {
		return nil, ErrNotInvited
	}

	changes := []models.RelationChange{
		change(c, actor.Username, models.RelInvited, models.RelationRemove),
		change(c, actor.Username, models.RelModerator, models.RelationAdd),
	}
	if !actor.IsMember(c.Name) {
		changes = append(changes, change(c, actor.Username, models.RelMember, models.RelationAdd))
	}

	return changes, nil
}

// RejectInvitation — отказ от приглашения.
func RejectInvitation(c *models.Community, actor string) ([]models.RelationChange, error) {
	if !c.IsInvited(actor) {
		return nil, ErrNotInvited
	}

	return []models.RelationChange{change(c, actor, models.RelInvited, models.RelationRemove)}, nil
}

// LeaveModeration — модератор слагает полномочия сам.
func LeaveModeration(c *models.Community, actor string) ([]models.RelationChange, error) {
	if actor == c.Owner {
		return nil, ErrOwnerImmutable
	}

	if !c.IsModerator(actor) {
		return nil, ErrNotTargetModerator
	}

	return []models.RelationChange{change(c, actor, models.RelModerator, models.RelationRemove)}, nil
}

// RemoveModerator снимает target с модерации. Владельца снять нельзя.
func RemoveModerator(c *models.Community, target, actor string) ([]models.RelationChange, error) {
	if err := requireModerator(c, actor); err != nil {
		return nil, err
	}

	if target == c.Owner {
		return nil, ErrOwnerImmutable
	}

	if !c.IsModerator(target) {
		return nil, ErrNotTargetModerator
	}

	return []models.RelationChange{change(c, target, models.RelModerator, models.RelationRemove)}, nil
}

// ModerateContent проверяет, что actor может блокировать, одобрять и удалять контент сообщества.
func ModerateContent(c *models.Community, actor string) error {
	return requireModerator(c, actor)
}
