package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/ranking"
	"github.com/pribylovaa/go-social-platform/internal/storage"
	"github.com/pribylovaa/go-social-platform/mocks"
	"github.com/stretchr/testify/require"
)

// Домашняя лента: подписки без заглушённых, скрытые посты исключены,
// невидимое (NSFW) отбрасывается молча.
func TestService_HomeFeed_Filter(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t)

	alice := &models.User{
		Username:         "alice",
		Communities:      []string{"go", "rust"},
		MutedCommunities: []string{"rust"},
		HiddenPosts:      models.Ledger{{ContentID: "p9", At: testNow}},
	}
	expectViewer(ms, alice)

	visible := testPost("p1", "bob", "go")
	adult := testPost("p2", "bob", "go")
	adult.IsNSFW = true

	ms.EXPECT().ListContents(gomock.Any(), storage.ContentFilter{
		Kind:        models.KindPost,
		Communities: []string{"go"},
		ExcludeIDs:  []string{"p9"},
	}, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ storage.ContentFilter, p ranking.Plan) ([]*models.Content, error) {
			require.Equal(t, ranking.FieldViews, p.Keys[0].Field)
			require.Equal(t, 0, p.Skip)
			require.Equal(t, 25, p.Limit)
			return []*models.Content{visible, adult}, nil
		})
	ms.EXPECT().UsersByUsernames(gomock.Any(), []string{"bob"}).
		Return(map[string]*models.User{"bob": {Username: "bob"}}, nil)
	ms.EXPECT().CommunitiesByNames(gomock.Any(), []string{"go"}).
		Return(map[string]*models.Community{"go": testCommunity("go")}, nil)

	page, err := s.HomeFeed(context.Background(), "alice", FeedQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "p1", page.Items[0].Content.ID)
}

// Без подписок — общая лента без заглушённых сообществ.
func TestService_HomeFeed_NoSubscriptions(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t)
	expectViewer(ms, &models.User{Username: "alice", MutedCommunities: []string{"memes"}})

	ms.EXPECT().ListContents(gomock.Any(), storage.ContentFilter{
		Kind:               models.KindPost,
		ExcludeCommunities: []string{"memes"},
	}, gomock.Any()).Return(nil, nil)
	ms.EXPECT().UsersByUsernames(gomock.Any(), gomock.Any()).Return(map[string]*models.User{}, nil)
	ms.EXPECT().CommunitiesByNames(gomock.Any(), gomock.Any()).Return(map[string]*models.Community{}, nil)

	_, err := s.HomeFeed(context.Background(), "alice", FeedQuery{Sort: "new", Page: 2, Limit: 500})
	require.NoError(t, err)
}

// Номер страницы, при котором page*limit переполняет int, даёт пустую страницу.
func TestService_HomeFeed_HugePage(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t)

	ms.EXPECT().ListContents(gomock.Any(), storage.ContentFilter{Kind: models.KindPost}, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ storage.ContentFilter, p ranking.Plan) ([]*models.Content, error) {
			require.Equal(t, math.MaxInt, p.Skip)
			require.Equal(t, 100, p.Limit)
			return nil, nil
		})
	ms.EXPECT().UsersByUsernames(gomock.Any(), gomock.Any()).Return(map[string]*models.User{}, nil)
	ms.EXPECT().CommunitiesByNames(gomock.Any(), gomock.Any()).Return(map[string]*models.Community{}, nil)

	page, err := s.HomeFeed(context.Background(), "", FeedQuery{Sort: "new", Page: 92233720368547759, Limit: 100})
	require.NoError(t, err)
	require.Empty(t, page.Items)
}

func TestService_Feed_InvalidQuery(t *testing.T) {
	s, _, _ := newServiceWithMocks(t)

	_, err := s.HomeFeed(context.Background(), "", FeedQuery{Sort: "best"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.HomeFeed(context.Background(), "", FeedQuery{Sort: "top", Window: "decade"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.HomeFeed(context.Background(), "", FeedQuery{Page: -1})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_HomeFeed_StorageError(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t)
	ms.EXPECT().ListContents(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := s.HomeFeed(context.Background(), "", FeedQuery{})
	require.ErrorIs(t, err, ErrInternal)
}

func TestService_CommunityFeed(t *testing.T) {
	t.Run("private", func(t *testing.T) {
		s, ms, _ := newServiceWithMocks(t)
		c := testCommunity("secret")
		c.Type = models.CommunityPrivate
		ms.EXPECT().CommunityByName(gomock.Any(), "secret").Return(c, nil)

		_, err := s.CommunityFeed(context.Background(), "", "secret", FeedQuery{})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("suggested_sort", func(t *testing.T) {
		s, ms, _ := newServiceWithMocks(t)
		c := testCommunity("go")
		c.Settings.SuggestedSort = "new"
		ms.EXPECT().CommunityByName(gomock.Any(), "go").Return(c, nil)
		ms.EXPECT().ListContents(gomock.Any(), storage.ContentFilter{Kind: models.KindPost, Communities: []string{"go"}}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ storage.ContentFilter, p ranking.Plan) ([]*models.Content, error) {
				require.Equal(t, ranking.Key{Field: ranking.FieldCreatedAt, Desc: true}, p.Keys[0])
				return nil, nil
			})
		ms.EXPECT().UsersByUsernames(gomock.Any(), gomock.Any()).Return(map[string]*models.User{}, nil)
		ms.EXPECT().CommunitiesByNames(gomock.Any(), gomock.Any()).Return(map[string]*models.Community{}, nil)

		_, err := s.CommunityFeed(context.Background(), "", "go", FeedQuery{})
		require.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		s, ms, _ := newServiceWithMocks(t)
		ms.EXPECT().CommunityByName(gomock.Any(), "nope").Return(nil, storage.ErrNotFound)

		_, err := s.CommunityFeed(context.Background(), "", "nope", FeedQuery{})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

// Окно top превращается в границы created_at.
func TestService_Search_TopWindow(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t)

	ms.EXPECT().ListContents(gomock.Any(), storage.ContentFilter{Kind: models.KindPost, Search: "gopher"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ storage.ContentFilter, p ranking.Plan) ([]*models.Content, error) {
			require.NotNil(t, p.Since)
			require.Equal(t, testNow.AddDate(0, 0, -7), *p.Since)
			require.Equal(t, testNow, *p.Until)
			return nil, nil
		})
	ms.EXPECT().UsersByUsernames(gomock.Any(), gomock.Any()).Return(map[string]*models.User{}, nil)
	ms.EXPECT().CommunitiesByNames(gomock.Any(), gomock.Any()).Return(map[string]*models.Community{}, nil)

	_, err := s.Search(context.Background(), "", " gopher ", FeedQuery{Window: "week"})
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "", "   ", FeedQuery{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_UserFeed_UnknownUser(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t)
	ms.EXPECT().UserByUsername(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)

	_, err := s.UserFeed(context.Background(), "", "ghost", FeedQuery{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_Block(t *testing.T) {
	t.Run("self", func(t *testing.T) {
		s, ms, _ := newServiceWithMocks(t)
		expectViewer(ms, &models.User{Username: "alice"})

		err := s.Block(context.Background(), "alice", "alice")
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("ok", func(t *testing.T) {
		s, ms, _ := newServiceWithMocks(t)
		expectViewer(ms, &models.User{Username: "alice"})
		ms.EXPECT().UserByUsername(gomock.Any(), "bob").Return(&models.User{Username: "bob"}, nil)
		ms.EXPECT().SetBlocked(gomock.Any(), "alice", "bob", true).Return(nil)

		require.NoError(t, s.Block(context.Background(), "alice", "bob"))
	})

	t.Run("unblock", func(t *testing.T) {
		s, ms, _ := newServiceWithMocks(t)
		expectViewer(ms, &models.User{Username: "alice"})
		ms.EXPECT().SetBlocked(gomock.Any(), "alice", "bob", false).Return(nil)

		require.NoError(t, s.Unblock(context.Background(), "alice", "bob"))
	})
}

func TestService_UpdatePreferences(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t)
	expectViewer(ms, &models.User{Username: "alice"})
	prefs := models.Preferences{ShowAdultContent: true}
	ms.EXPECT().UpdatePreferences(gomock.Any(), "alice", prefs).Return(nil)

	got, err := s.UpdatePreferences(context.Background(), "alice", prefs)
	require.NoError(t, err)
	require.Equal(t, prefs, got)
}

func TestService_Notifications(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t)
	ms.EXPECT().ListNotifications(gomock.Any(), "alice", true, 50, 25).
		Return([]models.Notification{{ID: "n1", To: "alice"}}, nil)

	list, err := s.Notifications(context.Background(), "alice", true, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = s.Notifications(context.Background(), "", false, 0, 0)
	require.ErrorIs(t, err, ErrUnauthenticated)

	ms.EXPECT().ListNotifications(gomock.Any(), "alice", false, math.MaxInt, 25).Return(nil, nil)
	list, err = s.Notifications(context.Background(), "alice", false, math.MaxInt/2, 0)
	require.NoError(t, err)
	require.Empty(t, list)

	ms.EXPECT().MarkNotificationRead(gomock.Any(), "alice", "n2").Return(storage.ErrNotFound)
	err = s.MarkNotificationRead(context.Background(), "alice", "n2")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_MediaUploadURL(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t)
	expectViewer(ms, &models.User{Username: "alice"})

	_, err := s.MediaUploadURL(context.Background(), "alice", "image/png", 10)
	require.ErrorIs(t, err, ErrInvalidArgument)

	ctrl := gomock.NewController(t)
	mm := mocks.NewMockMedia(ctrl)
	s, ms, _ = newServiceWithMocks(t, WithMedia(mm))
	expectViewer(ms, &models.User{Username: "alice"})
	mm.EXPECT().UploadURL(gomock.Any(), "alice", "image/png", int64(10)).
		Return(&storage.UploadInfo{Key: "posts/alice/x.png"}, nil)

	info, err := s.MediaUploadURL(context.Background(), "alice", "image/png", 10)
	require.NoError(t, err)
	require.Equal(t, "posts/alice/x.png", info.Key)

	expectViewer(ms, &models.User{Username: "alice"})
	mm.EXPECT().UploadURL(gomock.Any(), "alice", "text/plain", int64(10)).Return(nil, storage.ErrInvalidMedia)
	_, err = s.MediaUploadURL(context.Background(), "alice", "text/plain", 10)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
