package visibility

// Тесты политики видимости (internal/visibility).
//
//  Проверяем:
//  - порядок проверок и короткое замыкание (удаление раньше всего);
//  - приватные сообщества (гости исключены, модераторы/одобренные проходят);
//  - взаимную блокировку и обход её модераторами;
//  - NSFW (гости, настройка, NSFW-сообщество, модераторы не освобождены);
//  - бан только на запись;
//  - Filter молча отбрасывает, Annotate скрывает голосовавших в опросе.

import (
	"testing"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/stretchr/testify/require"
)

func post(author, community string) *models.Content {
	return &models.Content{
		ID:            "p1",
		Kind:          models.KindPost,
		Type:          models.TypePost,
		Username:      author,
		CommunityName: community,
		Post:          &models.PostPayload{Title: "t"},
	}
}

func user(name string) *models.User {
	return &models.User{Username: name}
}

func community(t models.CommunityType) *models.Community {
	return &models.Community{
		Name:       "golang",
		Owner:      "owner",
		Type:       t,
		Moderators: []string{"owner", "mod"},
		Members:    1,
	}
}

func TestCanView_SoftDeleteShortCircuits(t *testing.T) {
	item := post("alice", "golang")
	item.IsDeleted = true
	item.IsNSFW = true

	c := community(models.CommunityPrivate)
	s := Subject{Item: item, Author: user("alice"), Community: c}

	for _, v := range []*models.User{nil, user("alice"), user("mod"), user("bob")} {
		require.ErrorIs(t, CanView(v, s), ErrDeleted)
	}

	require.Empty(t, Filter(user("alice"), []Subject{s}, nil))
}

func TestCanView_PrivateCommunity(t *testing.T) {
	c := community(models.CommunityPrivate)
	c.ApprovedUsers = []string{"approved"}
	s := Subject{Item: post("owner", "golang"), Author: user("owner"), Community: c}

	require.ErrorIs(t, CanView(nil, s), ErrPrivate)
	require.ErrorIs(t, CanView(user("stranger"), s), ErrPrivate)
	require.NoError(t, CanView(user("mod"), s))
	require.NoError(t, CanView(user("approved"), s))

	require.ErrorIs(t, CanSeeCommunity(nil, c), ErrPrivate)
	require.NoError(t, CanSeeCommunity(nil, community(models.CommunityRestricted)))
}

func TestCanView_MutualBlock(t *testing.T) {
	c := community(models.CommunityPublic)
	author := user("alice")
	author.BlockedUsers = []string{"bob", "mod"}
	s := Subject{Item: post("alice", "golang"), Author: author, Community: c}

	// Автор заблокировал зрителя.
	require.ErrorIs(t, CanView(user("bob"), s), ErrBlocked)

	// Зритель заблокировал автора.
	carol := user("carol")
	carol.BlockedUsers = []string{"alice"}
	require.ErrorIs(t, CanView(carol, s), ErrBlocked)

	// Модератор сообщества проходит блокировку.
	require.NoError(t, CanView(user("mod"), s))

	// Гостей блокировка не касается.
	require.NoError(t, CanView(nil, s))

	// Вне сообщества модераторского обхода нет.
	s.Community = nil
	require.ErrorIs(t, CanView(user("mod"), s), ErrBlocked)
}

func TestCanView_NSFW(t *testing.T) {
	item := post("alice", "golang")
	item.IsNSFW = true
	s := Subject{Item: item, Author: user("alice"), Community: community(models.CommunityPublic)}

	require.ErrorIs(t, CanView(nil, s), ErrAdultContent)
	require.ErrorIs(t, CanView(user("bob"), s), ErrAdultContent)
	require.ErrorIs(t, CanView(user("mod"), s), ErrAdultContent)

	adult := user("bob")
	adult.Preferences.ShowAdultContent = true
	require.NoError(t, CanView(adult, s))

	// NSFW-сообщество делает NSFW весь контент.
	item.IsNSFW = false
	s.Community.IsNSFW = true
	require.ErrorIs(t, CanView(user("bob"), s), ErrAdultContent)
	require.NoError(t, CanView(adult, s))
}

func TestCanView_PrivacyBeforeNSFW(t *testing.T) {
	item := post("owner", "golang")
	item.IsNSFW = true
	s := Subject{Item: item, Author: user("owner"), Community: community(models.CommunityPrivate)}

	require.ErrorIs(t, CanView(nil, s), ErrPrivate)
}

func TestCanParticipate_BanOnlyOnWrite(t *testing.T) {
	c := community(models.CommunityPublic)
	c.BannedUsers = []models.Ban{{Username: "bob", Reason: "spam"}}
	s := Subject{Item: post("alice", "golang"), Author: user("alice"), Community: c}

	require.NoError(t, CanView(user("bob"), s))
	require.ErrorIs(t, CanParticipate(user("bob"), s), ErrBanned)
	require.ErrorIs(t, CanParticipate(nil, s), ErrGuest)
	require.NoError(t, CanParticipate(user("carol"), s))

	require.ErrorIs(t, CanPost(user("bob"), c), ErrBanned)
	require.NoError(t, CanPost(user("carol"), c))
	require.NoError(t, CanPost(user("carol"), nil))
}

func TestFilter_DropsSilentlyAndReports(t *testing.T) {
	c := community(models.CommunityPublic)

	visible := post("alice", "golang")
	visible.ID = "a"
	deleted := post("alice", "golang")
	deleted.ID = "b"
	deleted.IsDeleted = true
	adult := post("alice", "golang")
	adult.ID = "c"
	adult.IsNSFW = true

	subjects := []Subject{
		{Item: visible, Author: user("alice"), Community: c},
		{Item: deleted, Author: user("alice"), Community: c},
		{Item: adult, Author: user("alice"), Community: c},
	}

	var reasons []string
	out := Filter(nil, subjects, func(err error) { reasons = append(reasons, Reason(err)) })

	require.Len(t, out, 1)
	require.Equal(t, "a", out[0].Item.ID)
	require.Equal(t, []string{"deleted", "adult"}, reasons)
}

func TestAnnotate_ViewerFlags(t *testing.T) {
	item := post("alice", "")
	v := user("bob")
	v.UpvotedPosts = models.Ledger{{ContentID: "p1"}}
	v.SavedPosts = models.Ledger{{ContentID: "p1"}}

	view := Annotate(v, item)
	require.True(t, view.Viewer.IsUpvoted)
	require.False(t, view.Viewer.IsDownvoted)
	require.True(t, view.Viewer.IsSaved)
	require.False(t, view.Viewer.IsHidden)

	guest := Annotate(nil, item)
	require.Equal(t, models.ViewerFlags{}, guest.Viewer)
}

func TestAnnotate_PollHidesVoters(t *testing.T) {
	item := post("alice", "")
	item.Type = models.TypePoll
	item.Post.PollOptions = []models.PollOption{
		{Text: "yes", Voters: []string{"bob", "carol"}},
		{Text: "no", Voters: []string{"dave"}},
	}

	view := Annotate(user("bob"), item)

	require.Equal(t, []models.PollOptionView{
		{Text: "yes", Votes: 2, IsVoted: true},
		{Text: "no", Votes: 1, IsVoted: false},
	}, view.Poll)

	for _, o := range view.Content.Post.PollOptions {
		require.Empty(t, o.Voters)
	}

	// Исходный документ не изменён.
	require.Len(t, item.Post.PollOptions[0].Voters, 2)
}
