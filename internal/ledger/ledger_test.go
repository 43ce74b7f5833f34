package ledger

// Тесты учёта голосов (internal/ledger/ledger.go).
//
//  Проверяем:
//  - таблицу переходов Plan (добавление/снятие/переворот);
//  - закон парного переключения (up, up -> исходное состояние);
//  - закон переворота (down -> up: up+1, down-1, net+2);
//  - инварианты на случайных последовательностях (взаимоисключение, net = up - down);
//  - save/hide независимы от голоса;
//  - голосование в опросе и его ошибки.

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newPost(id string) *models.Content {
	return &models.Content{
		ID:   id,
		Kind: models.KindPost,
		Type: models.TypePost,
		Post: &models.PostPayload{Title: "t"},
	}
}

func newComment(id string) *models.Content {
	return &models.Content{
		ID:      id,
		Kind:    models.KindComment,
		Type:    models.TypeComment,
		Comment: &models.CommentPayload{ParentPostID: "p1"},
	}
}

func TestPlan_Table(t *testing.T) {
	tcs := []struct {
		name  string
		from  models.VoteState
		dir   Direction
		to    models.VoteState
		delta models.VoteDelta
	}{
		{"none_up", models.VoteNone, Up, models.VoteUp, models.VoteDelta{Upvote: 1, NetVote: 1}},
		{"up_up", models.VoteUp, Up, models.VoteNone, models.VoteDelta{Upvote: -1, NetVote: -1}},
		{"down_up", models.VoteDown, Up, models.VoteUp, models.VoteDelta{Upvote: 1, Downvote: -1, NetVote: 2}},
		{"none_down", models.VoteNone, Down, models.VoteDown, models.VoteDelta{Downvote: 1, NetVote: -1}},
		{"down_down", models.VoteDown, Down, models.VoteNone, models.VoteDelta{Downvote: -1, NetVote: 1}},
		{"up_down", models.VoteUp, Down, models.VoteDown, models.VoteDelta{Upvote: -1, Downvote: 1, NetVote: -2}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			to, delta := Plan(tc.from, tc.dir)
			require.Equal(t, tc.to, to)
			require.Equal(t, tc.delta, delta)
		})
	}
}

func TestApplyUpvote_TogglePairRestoresBaseline(t *testing.T) {
	item := newPost("p1")
	item.Upvote, item.Downvote, item.NetVote = 4, 1, 3
	user := &models.User{Username: "alice"}

	change, err := ApplyUpvote(item, user, now)
	require.NoError(t, err)
	require.Equal(t, Added, TransitionOf(change))
	require.EqualValues(t, 5, item.Upvote)
	require.EqualValues(t, 4, item.NetVote)
	require.True(t, user.UpvotedPosts.Has("p1"))
	require.Equal(t, now, item.MostRecentUpvoteAt)

	change, err = ApplyUpvote(item, user, now.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, Removed, TransitionOf(change))
	require.EqualValues(t, 4, item.Upvote)
	require.EqualValues(t, 1, item.Downvote)
	require.EqualValues(t, 3, item.NetVote)
	require.False(t, user.UpvotedPosts.Has("p1"))
	require.False(t, user.DownvotedPosts.Has("p1"))
}

func TestApplyUpvote_FlipFromDownvoted(t *testing.T) {
	item := newPost("p1")
	item.Upvote, item.Downvote, item.NetVote = 2, 3, -1
	user := &models.User{
		Username:       "alice",
		DownvotedPosts: models.Ledger{{ContentID: "p1", At: now.Add(-time.Hour)}},
	}

	change, err := ApplyUpvote(item, user, now)
	require.NoError(t, err)
	require.Equal(t, Flipped, TransitionOf(change))
	require.Equal(t, models.VoteDown, change.From)
	require.Equal(t, models.VoteUp, change.To)
	require.EqualValues(t, 3, item.Upvote)
	require.EqualValues(t, 2, item.Downvote)
	require.EqualValues(t, 1, item.NetVote)
	require.True(t, user.UpvotedPosts.Has("p1"))
	require.False(t, user.DownvotedPosts.Has("p1"))
	require.Equal(t, now, user.UpvotedPosts[0].At)
}

func TestApplyDownvote_FlipFromUpvoted(t *testing.T) {
	item := newComment("c1")
	item.Upvote, item.NetVote = 1, 1
	user := &models.User{Username: "bob", UpvotedComments: models.Ledger{{ContentID: "c1"}}}

	change, err := ApplyDownvote(item, user, now)
	require.NoError(t, err)
	require.Equal(t, Flipped, TransitionOf(change))
	require.False(t, change.TouchUpvoteAt)
	require.EqualValues(t, 0, item.Upvote)
	require.EqualValues(t, 1, item.Downvote)
	require.EqualValues(t, -1, item.NetVote)
	require.True(t, user.DownvotedComments.Has("c1"))
	require.False(t, user.UpvotedComments.Has("c1"))
	// Коллекции постов не затронуты.
	require.Empty(t, user.UpvotedPosts)
	require.Empty(t, user.DownvotedPosts)
}

// Случайные последовательности голосов одного пользователя по одному контенту:
// после каждого шага голос не может быть одновременно up и down, а net = up - down.
func TestApply_RandomSequencesKeepInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		item := newPost("p1")
		user := &models.User{Username: "u"}
		// Базовые голоса других пользователей.
		item.Upvote = int64(rnd.Intn(5))
		item.Downvote = int64(rnd.Intn(5))
		item.NetVote = item.Upvote - item.Downvote
		baseUp, baseDown := item.Upvote, item.Downvote

		for step := 0; step < 30; step++ {
			var err error
			if rnd.Intn(2) == 0 {
				_, err = ApplyUpvote(item, user, now)
			} else {
				_, err = ApplyDownvote(item, user, now)
			}
			require.NoError(t, err)

			up := user.UpvotedPosts.Has("p1")
			down := user.DownvotedPosts.Has("p1")
			require.False(t, up && down, "up and down at the same time")
			require.Equal(t, item.Upvote-item.Downvote, item.NetVote)

			wantUp, wantDown := baseUp, baseDown
			if up {
				wantUp++
			}
			if down {
				wantDown++
			}
			require.Equal(t, wantUp, item.Upvote)
			require.Equal(t, wantDown, item.Downvote)
		}
	}
}

func TestApplyDelta_ClampsAtZero(t *testing.T) {
	item := newPost("p1")
	ApplyDelta(item, models.VoteChange{Delta: models.VoteDelta{Upvote: -1, NetVote: -1}})
	require.EqualValues(t, 0, item.Upvote)
	require.EqualValues(t, 0, item.NetVote)
}

func TestVoteChange_ReverseRoundTrip(t *testing.T) {
	item := newPost("p1")
	user := &models.User{Username: "u", DownvotedPosts: models.Ledger{{ContentID: "p1"}}}
	item.Downvote, item.NetVote = 1, -1

	change, err := ApplyUpvote(item, user, now)
	require.NoError(t, err)

	rev := change.Reverse()
	require.Equal(t, models.VoteUp, rev.From)
	require.Equal(t, models.VoteDown, rev.To)
	require.Equal(t, models.VoteDelta{Upvote: -1, Downvote: 1, NetVote: -2}, rev.Delta)
}

func TestToggleSaveAndHide_IndependentOfVote(t *testing.T) {
	item := newPost("p1")
	user := &models.User{Username: "u"}

	_, err := ApplyUpvote(item, user, now)
	require.NoError(t, err)

	mc, err := ToggleSave(item, user, now)
	require.NoError(t, err)
	require.True(t, mc.Set)
	require.True(t, user.SavedPosts.Has("p1"))

	mc, err = ToggleHide(item, user, now)
	require.NoError(t, err)
	require.True(t, mc.Set)
	require.True(t, user.HiddenPosts.Has("p1"))
	require.True(t, user.UpvotedPosts.Has("p1"))

	mc, err = ToggleSave(item, user, now)
	require.NoError(t, err)
	require.False(t, mc.Set)
	require.False(t, user.SavedPosts.Has("p1"))
	require.True(t, user.HiddenPosts.Has("p1"))
}

func TestToggleHide_CommentUnsupported(t *testing.T) {
	_, err := ToggleHide(newComment("c1"), &models.User{Username: "u"}, now)
	require.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestVotePoll(t *testing.T) {
	exp := now.Add(time.Hour)
	poll := func() *models.Content {
		return &models.Content{
			ID:   "p1",
			Kind: models.KindPost,
			Type: models.TypePoll,
			Post: &models.PostPayload{
				PollOptions:   []models.PollOption{{Text: "yes"}, {Text: "no", Voters: []string{"carol"}}},
				PollExpiresAt: &exp,
			},
		}
	}

	t.Run("not_poll", func(t *testing.T) {
		_, err := VotePoll(newPost("p2"), "alice", "yes", now)
		require.ErrorIs(t, err, ErrNotPoll)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := VotePoll(poll(), "alice", "yes", exp.Add(time.Second))
		require.ErrorIs(t, err, ErrPollExpired)
	})

	t.Run("invalid_option", func(t *testing.T) {
		_, err := VotePoll(poll(), "alice", "maybe", now)
		require.ErrorIs(t, err, ErrInvalidOption)
	})

	t.Run("already_voted_other_option", func(t *testing.T) {
		_, err := VotePoll(poll(), "carol", "yes", now)
		require.ErrorIs(t, err, ErrAlreadyVoted)
	})

	t.Run("ok", func(t *testing.T) {
		p := poll()
		idx, err := VotePoll(p, "alice", "yes", now)
		require.NoError(t, err)
		require.Equal(t, 0, idx)
		require.Equal(t, []string{"alice"}, p.Post.PollOptions[0].Voters)

		_, err = VotePoll(p, "alice", "no", now)
		require.ErrorIs(t, err, ErrAlreadyVoted)
	})
}
