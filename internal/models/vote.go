package models

import "time"

// VoteState — состояние голоса пользователя по одному контенту.
type VoteState int8

const (
	VoteNone VoteState = iota
	VoteUp
	VoteDown
)

func (s VoteState) String() string {
	switch s {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return "none"
	}
}

// VoteDelta — приращения счётчиков контента.
type VoteDelta struct {
	Upvote   int64
	Downvote int64
	NetVote  int64
}

// VoteChange — результат переключения голоса, который слой хранения
// превращает в две записи: смену коллекций пользователя (From -> To)
// и атомарный инкремент счётчиков контента (Delta).
type VoteChange struct {
	Username      string
	Kind          ContentKind
	ContentID     string
	From          VoteState
	To            VoteState
	Delta         VoteDelta
	At            time.Time
	TouchUpvoteAt bool
}

// Reverse возвращает изменение, откатывающее пользовательскую сторону.
func (c VoteChange) Reverse() VoteChange {
	return VoteChange{
		Username:  c.Username,
		Kind:      c.Kind,
		ContentID: c.ContentID,
		From:      c.To,
		To:        c.From,
		Delta: VoteDelta{
			Upvote:   -c.Delta.Upvote,
			Downvote: -c.Delta.Downvote,
			NetVote:  -c.Delta.NetVote,
		},
		At: c.At,
	}
}

// Mark — независимые от голоса отметки.
type Mark string

const (
	MarkSaved  Mark = "saved"
	MarkHidden Mark = "hidden"
)

// MarkChange — добавление/снятие отметки save/hide.
type MarkChange struct {
	Username  string
	Kind      ContentKind
	ContentID string
	Mark      Mark
	Set       bool
	At        time.Time
}
