package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-social-platform/internal/config"
	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/ranking"
	"github.com/pribylovaa/go-social-platform/internal/storage"
	"github.com/stretchr/testify/require"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"go.mongodb.org/mongo-driver/bson"
)

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет тестов.
// Без GO_TEST_INTEGRATION выполняются только тесты без БД.
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
	}

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("DATABASE_URL", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

// newTestConfig создаёт конфиг с отдельной тестовой БД.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	baseURL := os.Getenv("DATABASE_URL")
	if baseURL == "" {
		baseURL = "mongodb://localhost:27017"
	}

	dbName := "social_test_" + uuid.New().String()
	if baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL + dbName
	} else {
		baseURL = baseURL + "/" + dbName
	}

	return &config.Config{
		DB:     config.DBConfig{URL: baseURL},
		Limits: config.LimitsConfig{Default: 25, Max: 100, MaxBanDays: 365},
	}
}

// mustNewMongo подключается к тестовой БД и регистрирует очистку.
func mustNewMongo(t *testing.T) *Mongo {
	t.Helper()

	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("set GO_TEST_INTEGRATION=1 to run MongoDB tests")
	}

	cfg := newTestConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("cannot connect to MongoDB in container: %v (DATABASE_URL=%s)", err, cfg.DB.URL)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

func TestDatabaseFromURI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mongodb://localhost:27017/blog", "blog"},
		{"mongodb://localhost:27017/blog?replicaSet=rs0", "blog"},
		{"mongodb://localhost:27017", defaultDBName},
		{"mongodb://localhost:27017/", defaultDBName},
		{"::bad::", defaultDBName},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, databaseFromURI(tt.in), tt.in)
	}
}

func TestContentFilter_Build(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got := contentFilter(storage.ContentFilter{
		Kind:               models.KindPost,
		Communities:        []string{"golang"},
		ExcludeCommunities: []string{"muted"},
		Search:             "a.b",
	}, ranking.Plan{Since: &since})

	require.Equal(t, bson.E{Key: "is_deleted", Value: false}, got[0])
	require.Equal(t, bson.E{Key: "kind", Value: "post"}, got[1])
	require.Equal(t, bson.E{Key: "community_name", Value: bson.D{
		{Key: "$in", Value: []string{"golang"}},
		{Key: "$nin", Value: []string{"muted"}},
	}}, got[2])

	or, ok := got[3].Value.(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	require.Equal(t, "created_at", got[4].Key)
}

func TestVoteFields(t *testing.T) {
	up, down, ok := voteFields(models.KindComment)
	require.True(t, ok)
	require.Equal(t, "upvoted_comments", up)
	require.Equal(t, "downvoted_comments", down)

	_, ok = markField(models.KindComment, models.MarkHidden)
	require.False(t, ok)
}

func TestEnsureUser_CreatesOnce(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)

	u, err := m.EnsureUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.Empty(t, u.UpvotedPosts)

	again, err := m.EnsureUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.CreatedAt, again.CreatedAt)

	_, err = m.UserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestResolveUsernames_CaseInsensitive(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)

	_, err := m.EnsureUser(ctx, "Alice")
	require.NoError(t, err)

	got, err := m.ResolveUsernames(ctx, []string{"alice", "ghost"})
	require.NoError(t, err)
	require.Equal(t, []string{"Alice"}, got)
}

func newPost(t *testing.T, m *Mongo, community string) *models.Content {
	t.Helper()

	p, err := m.CreateContent(testCtx(t), models.Content{
		Kind:          models.KindPost,
		Type:          models.TypePost,
		Username:      "author",
		CommunityName: community,
		Post:          &models.PostPayload{Title: "hello", Content: "body"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	return p
}

func TestApplyVote_GuardedTransitions(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)

	_, err := m.EnsureUser(ctx, "alice")
	require.NoError(t, err)
	post := newPost(t, m, "golang")

	now := time.Now()
	up := models.VoteChange{
		Username: "alice", Kind: models.KindPost, ContentID: post.ID,
		From: models.VoteNone, To: models.VoteUp, At: now,
	}

	require.NoError(t, m.ApplyVote(ctx, up))
	// Повтор с устаревшим From не проходит.
	require.ErrorIs(t, m.ApplyVote(ctx, up), storage.ErrConflict)

	flip := up
	flip.From, flip.To = models.VoteUp, models.VoteDown
	require.NoError(t, m.ApplyVote(ctx, flip))

	u, err := m.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.False(t, u.UpvotedPosts.Has(post.ID))
	require.True(t, u.DownvotedPosts.Has(post.ID))

	require.NoError(t, m.ApplyVote(ctx, flip.Reverse()))
	u, err = m.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, u.UpvotedPosts.Has(post.ID))
	require.False(t, u.DownvotedPosts.Has(post.ID))
}

func TestApplyVoteCounters_ClampsAndRecomputes(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)
	post := newPost(t, m, "golang")

	at := time.Now().Add(time.Minute)
	got, err := m.ApplyVoteCounters(ctx, models.VoteChange{
		Kind: models.KindPost, ContentID: post.ID,
		Delta: models.VoteDelta{Upvote: 1, NetVote: 1}, At: at, TouchUpvoteAt: true,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, got.Upvote)
	require.EqualValues(t, 1, got.NetVote)
	require.Equal(t, toMS(at), got.MostRecentUpvoteAt)

	got, err = m.ApplyVoteCounters(ctx, models.VoteChange{
		Kind: models.KindPost, ContentID: post.ID,
		Delta: models.VoteDelta{Upvote: -1, Downvote: -1, NetVote: 0},
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, got.Upvote)
	require.EqualValues(t, 0, got.Downvote)
	require.EqualValues(t, 0, got.NetVote)

	_, err = m.ApplyVoteCounters(ctx, models.VoteChange{Kind: models.KindComment, ContentID: post.ID})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddPollVote_OnlyOnce(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)

	poll, err := m.CreateContent(ctx, models.Content{
		Kind:          models.KindPost,
		Type:          models.TypePoll,
		Username:      "author",
		CommunityName: "golang",
		Post: &models.PostPayload{
			Title:       "tabs or spaces",
			PollOptions: []models.PollOption{{Text: "tabs"}, {Text: "spaces"}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, m.AddPollVote(ctx, poll.ID, "tabs", "alice"))
	require.ErrorIs(t, m.AddPollVote(ctx, poll.ID, "spaces", "alice"), storage.ErrAlreadyVoted)
	require.ErrorIs(t, m.AddPollVote(ctx, "0123456789abcdef01234567", "tabs", "bob"), storage.ErrNotFound)

	got, err := m.ContentByID(ctx, models.KindPost, poll.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, got.Post.PollOptions[0].Voters)
	require.Empty(t, got.Post.PollOptions[1].Voters)
}

func TestListContents_FilterSortAndDeleted(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)

	a := newPost(t, m, "golang")
	b := newPost(t, m, "golang")
	c := newPost(t, m, "rust")

	_, err := m.ApplyVoteCounters(ctx, models.VoteChange{
		Kind: models.KindPost, ContentID: a.ID, Delta: models.VoteDelta{Upvote: 1, NetVote: 1},
	})
	require.NoError(t, err)
	require.NoError(t, m.SoftDelete(ctx, models.KindPost, c.ID))

	plan, err := ranking.PlanFor(ranking.Query{Sort: ranking.SortTop, Window: ranking.WindowAll, Page: 0, Limit: 10, Now: time.Now()})
	require.NoError(t, err)

	got, err := m.ListContents(ctx, storage.ContentFilter{Kind: models.KindPost}, plan)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, a.ID, got[0].ID)
	require.Equal(t, b.ID, got[1].ID)

	got, err = m.ListContents(ctx, storage.ContentFilter{Kind: models.KindPost, Communities: []string{}}, plan)
	require.NoError(t, err)
	require.Empty(t, got)

	deleted, err := m.ContentByID(ctx, models.KindPost, c.ID)
	require.NoError(t, err)
	require.True(t, deleted.IsDeleted)
	require.Equal(t, "body", deleted.Post.Content)
}

func newCommunity(t *testing.T, m *Mongo, name, owner string) {
	t.Helper()

	ctx := testCtx(t)
	_, err := m.EnsureUser(ctx, owner)
	require.NoError(t, err)

	require.NoError(t, m.CreateCommunity(ctx, models.Community{
		Name:       name,
		Owner:      owner,
		Type:       models.CommunityPublic,
		Moderators: []string{owner},
		CreatedAt:  time.Now(),
	}))
}

func TestCreateCommunity_DuplicateName(t *testing.T) {
	m := mustNewMongo(t)
	newCommunity(t, m, "golang", "owner")

	err := m.CreateCommunity(testCtx(t), models.Community{Name: "golang", Owner: "other"})
	require.ErrorIs(t, err, storage.ErrConflict)
}

func TestApplyRelations_MembershipCounter(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)
	newCommunity(t, m, "golang", "owner")

	_, err := m.EnsureUser(ctx, "alice")
	require.NoError(t, err)

	join := models.RelationChange{Community: "golang", Username: "alice", Relation: models.RelMember, Op: models.RelationAdd}
	require.NoError(t, m.ApplyRelations(ctx, []models.RelationChange{join}))
	// Повторное добавление не двигает счётчик.
	require.NoError(t, m.ApplyRelations(ctx, []models.RelationChange{join}))

	c, err := m.CommunityByName(ctx, "golang")
	require.NoError(t, err)
	require.EqualValues(t, 1, c.Members)

	u, err := m.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, u.IsMember("golang"))

	leave := join
	leave.Op = models.RelationRemove
	require.NoError(t, m.ApplyRelations(ctx, []models.RelationChange{leave}))

	c, err = m.CommunityByName(ctx, "golang")
	require.NoError(t, err)
	require.EqualValues(t, 0, c.Members)
}

func TestBanLifecycle_ReplaceAndExpire(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)
	newCommunity(t, m, "golang", "owner")

	_, err := m.EnsureUser(ctx, "troll")
	require.NoError(t, err)

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	ban := func(unbanAt time.Time, reason string) models.RelationChange {
		return models.RelationChange{
			Community: "golang", Username: "troll", Relation: models.RelBanned, Op: models.RelationAdd,
			Ban: &models.Ban{Reason: reason, BannedAt: now, UnbanAt: &unbanAt},
		}
	}

	require.NoError(t, m.ApplyRelations(ctx, []models.RelationChange{ban(past, "spam")}))

	list, err := m.CommunitiesWithExpiredBans(ctx, now)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Новый бан заменяет старый: истёкшего больше нет.
	require.NoError(t, m.ApplyRelations(ctx, []models.RelationChange{ban(future, "flood")}))

	c, err := m.CommunityByName(ctx, "golang")
	require.NoError(t, err)
	require.Len(t, c.BannedUsers, 1)
	require.Equal(t, "flood", c.BannedUsers[0].Reason)

	removed, err := m.RemoveExpiredBan(ctx, "golang", "troll", now)
	require.NoError(t, err)
	require.False(t, removed)

	// Действующий бан: сторона пользователя не тронута.
	u, err := m.UserByUsername(ctx, "troll")
	require.NoError(t, err)
	require.Contains(t, u.BannedInCommunities, "golang")

	removed, err = m.RemoveExpiredBan(ctx, "golang", "troll", future.Add(time.Second))
	require.NoError(t, err)
	require.True(t, removed)

	u, err = m.UserByUsername(ctx, "troll")
	require.NoError(t, err)
	require.NotContains(t, u.BannedInCommunities, "golang")
}

func TestNotifications_ListAndMarkRead(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)

	base := time.Now().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		require.NoError(t, m.CreateNotification(ctx, models.Notification{
			To: "alice", From: "bob", Type: models.NotifyPostReply,
			ResourceID: fmt.Sprintf("r%d", i), CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	list, err := m.ListNotifications(ctx, "alice", false, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "r2", list[0].ResourceID)

	require.NoError(t, m.MarkNotificationRead(ctx, "alice", list[0].ID))

	err = m.MarkNotificationRead(ctx, "mallory", list[1].ID)
	require.True(t, errors.Is(err, storage.ErrNotFound))

	unread, err := m.ListNotifications(ctx, "alice", true, 0, 10)
	require.NoError(t, err)
	require.Len(t, unread, 2)
}
