// Package models содержит доменные сущности social-service.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"regexp"
	"slices"
	"time"
)

// UsernamePattern — имя пользователя: 3-20 символов из латинских букв, цифр, '_' и '-'.
const UsernamePattern = `[A-Za-z0-9_-]{3,20}`

var usernameRe = regexp.MustCompile(`^` + UsernamePattern + `$`)

// ValidUsername сообщает, допустимо ли имя пользователя.
func ValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// VoteRef — отметка пользователя о контенте (голос/сохранение/скрытие) со временем.
type VoteRef struct {
	ContentID string    `bson:"content_id"`
	At        time.Time `bson:"at"`
}

// Ledger — упорядоченная коллекция отметок, уникальная по ContentID.
type Ledger []VoteRef

// Has сообщает, есть ли в коллекции запись о контенте id.
func (l Ledger) Has(id string) bool {
	return slices.ContainsFunc(l, func(r VoteRef) bool { return r.ContentID == id })
}

// With добавляет запись в конец коллекции; существующая запись переносится с новым временем.
func (l Ledger) With(id string, at time.Time) Ledger {
	out := l.Without(id)
	return append(out, VoteRef{ContentID: id, At: at})
}

// Without возвращает коллекцию без записи о контенте id.
func (l Ledger) Without(id string) Ledger {
	out := make(Ledger, 0, len(l))
	for _, r := range l {
		if r.ContentID != id {
			out = append(out, r)
		}
	}

	return out
}

// Preferences — пользовательские настройки, влияющие на выдачу.
type Preferences struct {
	ShowAdultContent bool `bson:"show_adult_content"`
}

// User — проекция пользователя, нужная ядру (голоса, блокировки, членство).
//
// Связи с сообществами продублированы на стороне Community
// (moderators/banned_users/approved_users/members) и меняются только парой,
// см. RelationChange.
type User struct {
	Username               string      `bson:"username"`
	BlockedUsers           []string    `bson:"blocked_users"`
	ModeratorInCommunities []string    `bson:"moderator_in_communities"`
	ApprovedInCommunities  []string    `bson:"approved_in_communities"`
	BannedInCommunities    []string    `bson:"banned_in_communities"`
	MutedCommunities       []string    `bson:"muted_communities"`
	Communities            []string    `bson:"communities"`
	UpvotedPosts           Ledger      `bson:"upvoted_posts"`
	DownvotedPosts         Ledger      `bson:"downvoted_posts"`
	SavedPosts             Ledger      `bson:"saved_posts"`
	HiddenPosts            Ledger      `bson:"hidden_posts"`
	UpvotedComments        Ledger      `bson:"upvoted_comments"`
	DownvotedComments      Ledger      `bson:"downvoted_comments"`
	SavedComments          Ledger      `bson:"saved_comments"`
	Preferences            Preferences `bson:"preferences"`
	CreatedAt              time.Time   `bson:"created_at"`
}

// Blocks сообщает, заблокировал ли пользователь username.
func (u *User) Blocks(username string) bool {
	return u != nil && slices.Contains(u.BlockedUsers, username)
}

// Moderates сообщает, модерирует ли пользователь сообщество (по проекции пользователя).
func (u *User) Moderates(community string) bool {
	return u != nil && slices.Contains(u.ModeratorInCommunities, community)
}

// IsMember сообщает, состоит ли пользователь в сообществе.
func (u *User) IsMember(community string) bool {
	return u != nil && slices.Contains(u.Communities, community)
}

// HasMuted сообщает, заглушено ли сообщество в ленте пользователя.
func (u *User) HasMuted(community string) bool {
	return u != nil && slices.Contains(u.MutedCommunities, community)
}

// VoteLedgers возвращает пару коллекций голосов (up, down) для вида контента.
func (u *User) VoteLedgers(kind ContentKind) (up, down *Ledger, ok bool) {
	switch kind {
	case KindPost:
		return &u.UpvotedPosts, &u.DownvotedPosts, true
	case KindComment:
		return &u.UpvotedComments, &u.DownvotedComments, true
	default:
		return nil, nil, false
	}
}

// MarkLedger возвращает коллекцию отметки (save/hide) для вида контента.
// Скрывать можно только посты.
func (u *User) MarkLedger(kind ContentKind, mark Mark) (*Ledger, bool) {
	switch {
	case mark == MarkSaved && kind == KindPost:
		return &u.SavedPosts, true
	case mark == MarkSaved && kind == KindComment:
		return &u.SavedComments, true
	case mark == MarkHidden && kind == KindPost:
		return &u.HiddenPosts, true
	default:
		return nil, false
	}
}
