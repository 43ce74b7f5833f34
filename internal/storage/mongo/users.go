package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// voteFields возвращает имена полей (up, down) пользователя для вида контента.
func voteFields(kind models.ContentKind) (up, down string, ok bool) {
	switch kind {
	case models.KindPost:
		return "upvoted_posts", "downvoted_posts", true
	case models.KindComment:
		return "upvoted_comments", "downvoted_comments", true
	default:
		return "", "", false
	}
}

// markField возвращает имя поля отметки save/hide.
func markField(kind models.ContentKind, mark models.Mark) (string, bool) {
	switch {
	case mark == models.MarkSaved && kind == models.KindPost:
		return "saved_posts", true
	case mark == models.MarkSaved && kind == models.KindComment:
		return "saved_comments", true
	case mark == models.MarkHidden && kind == models.KindPost:
		return "hidden_posts", true
	default:
		return "", false
	}
}

func normalizeUser(u *models.User) {
	u.CreatedAt = u.CreatedAt.UTC()
	for _, l := range []*models.Ledger{
		&u.UpvotedPosts, &u.DownvotedPosts, &u.SavedPosts, &u.HiddenPosts,
		&u.UpvotedComments, &u.DownvotedComments, &u.SavedComments,
	} {
		for i := range *l {
			(*l)[i].At = (*l)[i].At.UTC()
		}
	}
}

// EnsureUser возвращает пользователя, создавая пустой документ при первом обращении.
func (m *Mongo) EnsureUser(ctx context.Context, username string) (*models.User, error) {
	const op = "storage/mongo/EnsureUser"

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	fresh := models.User{Username: username, CreatedAt: toMS(time.Now())}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var out models.User
	err := m.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "$setOnInsert", Value: fresh}},
		opts,
	).Decode(&out)
	if err != nil {
		// Гонка двух upsert'ов: второй получает duplicate key, документ уже есть.
		if mongodriver.IsDuplicateKeyError(err) {
			return m.UserByUsername(ctx, username)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	normalizeUser(&out)
	return &out, nil
}

// UserByUsername возвращает пользователя по имени.
func (m *Mongo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage/mongo/UserByUsername"

	var out models.User
	if err := m.users.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	normalizeUser(&out)
	return &out, nil
}

// UsersByUsernames возвращает найденных пользователей; отсутствующие пропускаются.
func (m *Mongo) UsersByUsernames(ctx context.Context, usernames []string) (map[string]*models.User, error) {
	const op = "storage/mongo/UsersByUsernames"

	out := make(map[string]*models.User, len(usernames))
	if len(usernames) == 0 {
		return out, nil
	}

	cur, err := m.users.Find(ctx, bson.D{{Key: "username", Value: bson.D{{Key: "$in", Value: usernames}}}})
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		normalizeUser(&u)
		out[u.Username] = &u
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}

// ResolveUsernames сопоставляет имена без учёта регистра (collation strength 2)
// и возвращает канонические имена существующих аккаунтов.
func (m *Mongo) ResolveUsernames(ctx context.Context, usernames []string) ([]string, error) {
	const op = "storage/mongo/ResolveUsernames"

	if len(usernames) == 0 {
		return nil, nil
	}

	opts := options.Find().
		SetCollation(caseInsensitive).
		SetProjection(bson.D{{Key: "username", Value: 1}, {Key: "_id", Value: 0}})

	cur, err := m.users.Find(ctx, bson.D{{Key: "username", Value: bson.D{{Key: "$in", Value: usernames}}}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var row struct {
			Username string `bson:"username"`
		}

		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		out = append(out, row.Username)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}

// ApplyVote переносит id между коллекциями голосов пользователя.
// Фильтр фиксирует ожидаемое состояние From: если его нет — ErrConflict.
func (m *Mongo) ApplyVote(ctx context.Context, ch models.VoteChange) error {
	const op = "storage/mongo/ApplyVote"

	upField, downField, ok := voteFields(ch.Kind)
	if !ok {
		return fmt.Errorf("%s: unknown kind %q", op, ch.Kind)
	}

	fieldOf := func(s models.VoteState) string {
		if s == models.VoteUp {
			return upField
		}

		return downField
	}

	filter := bson.D{{Key: "username", Value: ch.Username}}
	switch ch.From {
	case models.VoteUp, models.VoteDown:
		filter = append(filter, bson.E{Key: fieldOf(ch.From) + ".content_id", Value: ch.ContentID})
	default:
		filter = append(filter,
			bson.E{Key: upField + ".content_id", Value: bson.D{{Key: "$ne", Value: ch.ContentID}}},
			bson.E{Key: downField + ".content_id", Value: bson.D{{Key: "$ne", Value: ch.ContentID}}},
		)
	}

	update := bson.D{}
	if ch.From != models.VoteNone {
		update = append(update, bson.E{Key: "$pull", Value: bson.D{
			{Key: fieldOf(ch.From), Value: bson.D{{Key: "content_id", Value: ch.ContentID}}},
		}})
	}

	if ch.To != models.VoteNone {
		update = append(update, bson.E{Key: "$push", Value: bson.D{
			{Key: fieldOf(ch.To), Value: models.VoteRef{ContentID: ch.ContentID, At: toMS(ch.At)}},
		}})
	}

	if len(update) == 0 {
		return nil
	}

	res, err := m.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	return nil
}

// ApplyMark ставит или снимает отметку save/hide условной записью.
func (m *Mongo) ApplyMark(ctx context.Context, ch models.MarkChange) error {
	const op = "storage/mongo/ApplyMark"

	field, ok := markField(ch.Kind, ch.Mark)
	if !ok {
		return fmt.Errorf("%s: unsupported mark %q for %q", op, ch.Mark, ch.Kind)
	}

	filter := bson.D{{Key: "username", Value: ch.Username}}
	var update bson.D

	if ch.Set {
		filter = append(filter, bson.E{Key: field + ".content_id", Value: bson.D{{Key: "$ne", Value: ch.ContentID}}})
		update = bson.D{{Key: "$push", Value: bson.D{
			{Key: field, Value: models.VoteRef{ContentID: ch.ContentID, At: toMS(ch.At)}},
		}}}
	} else {
		filter = append(filter, bson.E{Key: field + ".content_id", Value: ch.ContentID})
		update = bson.D{{Key: "$pull", Value: bson.D{
			{Key: field, Value: bson.D{{Key: "content_id", Value: ch.ContentID}}},
		}}}
	}

	res, err := m.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	return nil
}

// SetBlocked добавляет или убирает target из blocked_users.
func (m *Mongo) SetBlocked(ctx context.Context, username, target string, blocked bool) error {
	const op = "storage/mongo/SetBlocked"

	verb := "$pull"
	if blocked {
		verb = "$addToSet"
	}

	res, err := m.users.UpdateOne(ctx,
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: verb, Value: bson.D{{Key: "blocked_users", Value: target}}}},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UpdatePreferences заменяет настройки пользователя.
func (m *Mongo) UpdatePreferences(ctx context.Context, username string, prefs models.Preferences) error {
	const op = "storage/mongo/UpdatePreferences"

	res, err := m.users.UpdateOne(ctx,
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "preferences", Value: prefs}}}},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
