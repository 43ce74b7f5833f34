// Package ledger реализует учёт голосов пользователя по контенту:
// трёхпозиционное переключение up/down, отметки save/hide и голосование в опросах.
//
// Пакет не ходит в хранилище: операции меняют переданные в память
// документы и возвращают описание изменения (models.VoteChange / models.MarkChange),
// которое сервис сохраняет атомарными операциями.
package ledger

import (
	"errors"
	"slices"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
)

var (
	// ErrUnsupportedKind — у вида контента нет нужной коллекции (например, hide для комментария).
	ErrUnsupportedKind = errors.New("unsupported content kind")
	// ErrNotPoll — голосование в опросе для поста другого типа.
	ErrNotPoll = errors.New("content is not a poll")
	// ErrPollExpired — срок опроса истёк.
	ErrPollExpired = errors.New("poll expired")
	// ErrInvalidOption — такого варианта в опросе нет.
	ErrInvalidOption = errors.New("invalid poll option")
	// ErrAlreadyVoted — пользователь уже голосовал в опросе.
	ErrAlreadyVoted = errors.New("already voted")
)

// Direction — направление голоса.
type Direction int8

const (
	Up Direction = iota + 1
	Down
)

func (d Direction) state() models.VoteState {
	if d == Up {
		return models.VoteUp
	}

	return models.VoteDown
}

// Transition — вид перехода при переключении.
type Transition string

const (
	Added   Transition = "added"
	Removed Transition = "removed"
	Flipped Transition = "flipped"
)

// TransitionOf классифицирует изменение голоса.
func TransitionOf(c models.VoteChange) Transition {
	switch {
	case c.To == models.VoteNone:
		return Removed
	case c.From == models.VoteNone:
		return Added
	default:
		return Flipped
	}
}

// StateOf возвращает текущее состояние голоса пользователя по контенту.
func StateOf(user *models.User, kind models.ContentKind, id string) models.VoteState {
	if user == nil {
		return models.VoteNone
	}

	up, down, ok := user.VoteLedgers(kind)
	if !ok {
		return models.VoteNone
	}

	switch {
	case up.Has(id):
		return models.VoteUp
	case down.Has(id):
		return models.VoteDown
	default:
		return models.VoteNone
	}
}

// Plan — таблица переходов: из текущего состояния и направления
// получаем новое состояние и приращения счётчиков.
//
//	повторный голос в ту же сторону  -> снятие (-1);
//	голос в противоположную сторону -> переворот (±1 по обоим, net ±2);
//	голоса не было                  -> добавление (+1).
func Plan(from models.VoteState, dir Direction) (models.VoteState, models.VoteDelta) {
	target := dir.state()

	var to models.VoteState
	if from == target {
		to = models.VoteNone
	} else {
		to = target
	}

	return to, deltaBetween(from, to)
}

// deltaBetween считает приращения счётчиков при переходе from -> to.
func deltaBetween(from, to models.VoteState) models.VoteDelta {
	var d models.VoteDelta

	switch from {
	case models.VoteUp:
		d.Upvote--
	case models.VoteDown:
		d.Downvote--
	}

	switch to {
	case models.VoteUp:
		d.Upvote++
	case models.VoteDown:
		d.Downvote++
	}

	d.NetVote = d.Upvote - d.Downvote

	return d
}

// ApplyUpvote переключает голос "за" пользователя по контенту.
func ApplyUpvote(item *models.Content, user *models.User, now time.Time) (models.VoteChange, error) {
	return apply(item, user, Up, now)
}

// ApplyDownvote переключает голос "против" пользователя по контенту.
func ApplyDownvote(item *models.Content, user *models.User, now time.Time) (models.VoteChange, error) {
	return apply(item, user, Down, now)
}

// apply — единая реализация переключения для постов и комментариев:
// вид контента выбирает пару коллекций пользователя, остальное общее.
func apply(item *models.Content, user *models.User, dir Direction, now time.Time) (models.VoteChange, error) {
	up, down, ok := user.VoteLedgers(item.Kind)
	if !ok {
		return models.VoteChange{}, ErrUnsupportedKind
	}

	from := StateOf(user, item.Kind, item.ID)
	to, delta := Plan(from, dir)

	*up = up.Without(item.ID)
	*down = down.Without(item.ID)

	switch to {
	case models.VoteUp:
		*up = up.With(item.ID, now)
	case models.VoteDown:
		*down = down.With(item.ID, now)
	}

	change := models.VoteChange{
		Username:      user.Username,
		Kind:          item.Kind,
		ContentID:     item.ID,
		From:          from,
		To:            to,
		Delta:         delta,
		At:            now,
		TouchUpvoteAt: to == models.VoteUp,
	}

	ApplyDelta(item, change)

	return change, nil
}

// ApplyDelta применяет приращения к счётчикам контента в памяти.
// Счётчики не уходят ниже нуля; NetVote всегда пересчитывается из них.
func ApplyDelta(item *models.Content, change models.VoteChange) {
	item.Upvote = max(0, item.Upvote+change.Delta.Upvote)
	item.Downvote = max(0, item.Downvote+change.Delta.Downvote)
	item.NetVote = item.Upvote - item.Downvote

	if change.TouchUpvoteAt {
		item.MostRecentUpvoteAt = change.At
	}
}

// ToggleSave переключает отметку "сохранено".
func ToggleSave(item *models.Content, user *models.User, now time.Time) (models.MarkChange, error) {
	return toggleMark(item, user, models.MarkSaved, now)
}

// ToggleHide переключает отметку "скрыто" (только посты).
func ToggleHide(item *models.Content, user *models.User, now time.Time) (models.MarkChange, error) {
	return toggleMark(item, user, models.MarkHidden, now)
}

func toggleMark(item *models.Content, user *models.User, mark models.Mark, now time.Time) (models.MarkChange, error) {
	l, ok := user.MarkLedger(item.Kind, mark)
	if !ok {
		return models.MarkChange{}, ErrUnsupportedKind
	}

	set := !l.Has(item.ID)
	if set {
		*l = l.With(item.ID, now)
	} else {
		*l = l.Without(item.ID)
	}

	return models.MarkChange{
		Username:  user.Username,
		Kind:      item.Kind,
		ContentID: item.ID,
		Mark:      mark,
		Set:       set,
		At:        now,
	}, nil
}

// VotePoll добавляет голос username в вариант option опроса.
// Операция необратима. Возвращает индекс выбранного варианта.
func VotePoll(item *models.Content, username, option string, now time.Time) (int, error) {
	if item.Kind != models.KindPost || item.Type != models.TypePoll || item.Post == nil {
		return -1, ErrNotPoll
	}

	if exp := item.Post.PollExpiresAt; exp != nil && now.After(*exp) {
		return -1, ErrPollExpired
	}

	idx := slices.IndexFunc(item.Post.PollOptions, func(o models.PollOption) bool { return o.Text == option })
	if idx < 0 {
		return -1, ErrInvalidOption
	}

	if HasVotedInPoll(item, username) {
		return -1, ErrAlreadyVoted
	}

	opt := &item.Post.PollOptions[idx]
	opt.Voters = append(opt.Voters, username)

	return idx, nil
}

// HasVotedInPoll сообщает, есть ли username среди голосовавших в любом варианте.
func HasVotedInPoll(item *models.Content, username string) bool {
	if item.Post == nil || username == "" {
		return false
	}

	for _, o := range item.Post.PollOptions {
		if slices.Contains(o.Voters, username) {
			return true
		}
	}

	return false
}
