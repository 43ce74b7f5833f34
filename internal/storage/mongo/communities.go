package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// Поля пользовательской проекции связей.
var userRelationField = map[models.Relation]string{
	models.RelMember:    "communities",
	models.RelModerator: "moderator_in_communities",
	models.RelApproved:  "approved_in_communities",
	models.RelBanned:    "banned_in_communities",
	models.RelMuted:     "muted_communities",
}

// Поля проекции сообщества. Члены хранятся счётчиком, баны — записями.
var communityRelationField = map[models.Relation]string{
	models.RelModerator: "moderators",
	models.RelApproved:  "approved_users",
	models.RelInvited:   "invitations",
}

func normalizeCommunity(c *models.Community) {
	c.CreatedAt = c.CreatedAt.UTC()
	for i := range c.BannedUsers {
		b := &c.BannedUsers[i]
		b.BannedAt = b.BannedAt.UTC()
		if b.UnbanAt != nil {
			t := b.UnbanAt.UTC()
			b.UnbanAt = &t
		}
	}
}

// CreateCommunity сохраняет сообщество. Занятое имя — storage.ErrConflict.
func (m *Mongo) CreateCommunity(ctx context.Context, c models.Community) error {
	const op = "storage/mongo/CreateCommunity"

	c.CreatedAt = toMS(c.CreatedAt)
	if _, err := m.communities.InsertOne(ctx, c); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}

// CommunityByName возвращает сообщество по имени.
func (m *Mongo) CommunityByName(ctx context.Context, name string) (*models.Community, error) {
	const op = "storage/mongo/CommunityByName"

	var out models.Community
	if err := m.communities.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	normalizeCommunity(&out)
	return &out, nil
}

// CommunitiesByNames возвращает найденные сообщества; отсутствующие пропускаются.
func (m *Mongo) CommunitiesByNames(ctx context.Context, names []string) (map[string]*models.Community, error) {
	const op = "storage/mongo/CommunitiesByNames"

	out := make(map[string]*models.Community, len(names))
	if len(names) == 0 {
		return out, nil
	}

	list, err := m.findCommunities(ctx, bson.D{{Key: "name", Value: bson.D{{Key: "$in", Value: names}}}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, c := range list {
		out[c.Name] = c
	}

	return out, nil
}

func (m *Mongo) findCommunities(ctx context.Context, filter bson.D) ([]*models.Community, error) {
	cur, err := m.communities.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cur.Close(ctx)

	var out []*models.Community
	for cur.Next(ctx) {
		var c models.Community
		if err := cur.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		normalizeCommunity(&c)
		out = append(out, &c)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}

	return out, nil
}

// ApplyRelations пишет обе проекции каждой связи. С включёнными транзакциями
// набор изменений атомарен; без них сначала пишется сторона пользователя.
func (m *Mongo) ApplyRelations(ctx context.Context, changes []models.RelationChange) error {
	const op = "storage/mongo/ApplyRelations"

	if len(changes) == 0 {
		return nil
	}

	err := m.inTx(ctx, func(ctx context.Context) error {
		for _, ch := range changes {
			if err := m.applyRelation(ctx, ch); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (m *Mongo) applyRelation(ctx context.Context, ch models.RelationChange) error {
	add := ch.Op == models.RelationAdd
	if !add && ch.Op != models.RelationRemove {
		return fmt.Errorf("unknown relation op %d", ch.Op)
	}

	verb := "$pull"
	if add {
		verb = "$addToSet"
	}

	userModified := false
	if field, ok := userRelationField[ch.Relation]; ok {
		res, err := m.users.UpdateOne(ctx,
			bson.D{{Key: "username", Value: ch.Username}},
			bson.D{{Key: verb, Value: bson.D{{Key: field, Value: ch.Community}}}},
		)
		if err != nil {
			return fmt.Errorf("user %s %s: %w", ch.Relation, ch.Username, err)
		}

		if res.MatchedCount == 0 {
			return fmt.Errorf("user %s: %w", ch.Username, storage.ErrNotFound)
		}

		userModified = res.ModifiedCount > 0
	}

	var update any
	switch ch.Relation {
	case models.RelMuted:
		return nil
	case models.RelMember:
		// Счётчик двигается только при реальном изменении членства.
		if !userModified {
			return nil
		}

		delta := int64(-1)
		if add {
			delta = 1
		}

		update = bson.D{{Key: "$inc", Value: bson.D{{Key: "members", Value: delta}}}}
	case models.RelBanned:
		if !add {
			update = bson.D{{Key: "$pull", Value: bson.D{
				{Key: "banned_users", Value: bson.D{{Key: "username", Value: ch.Username}}},
			}}}
			break
		}

		if ch.Ban == nil {
			return fmt.Errorf("ban record required for %s", ch.Username)
		}

		ban := *ch.Ban
		ban.Username = ch.Username
		ban.BannedAt = toMS(ban.BannedAt)
		if ban.UnbanAt != nil {
			t := toMS(*ban.UnbanAt)
			ban.UnbanAt = &t
		}

		// Прежний бан пользователя заменяется новым.
		update = mongodriver.Pipeline{
			{{Key: "$set", Value: bson.D{{Key: "banned_users", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$banned_users", bson.A{}}}}},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this.username", ch.Username}}}},
				}}},
				bson.A{bson.D{{Key: "$literal", Value: ban}}},
			}}}}}}},
		}
	default:
		field, ok := communityRelationField[ch.Relation]
		if !ok {
			return fmt.Errorf("unknown relation %q", ch.Relation)
		}

		update = bson.D{{Key: verb, Value: bson.D{{Key: field, Value: ch.Username}}}}
	}

	res, err := m.communities.UpdateOne(ctx, bson.D{{Key: "name", Value: ch.Community}}, update)
	if err != nil {
		return fmt.Errorf("community %s %s: %w", ch.Relation, ch.Community, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("community %s: %w", ch.Community, storage.ErrNotFound)
	}

	return nil
}

// CommunitiesWithExpiredBans возвращает сообщества, где есть баны с unban_at <= now.
func (m *Mongo) CommunitiesWithExpiredBans(ctx context.Context, now time.Time) ([]*models.Community, error) {
	const op = "storage/mongo/CommunitiesWithExpiredBans"

	list, err := m.findCommunities(ctx, bson.D{{Key: "banned_users", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
		{Key: "unban_at", Value: bson.D{{Key: "$lte", Value: toMS(now)}}},
	}}}}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

// RemoveExpiredBan снимает бан, только если к моменту now он всё ещё истёкший.
// Бан, заменённый новым сроком, условие не проходит и остаётся.
// Как и в ApplyRelations, сначала пишется сторона пользователя; если бан продлили
// между записями, она восстанавливается.
func (m *Mongo) RemoveExpiredBan(ctx context.Context, community, username string, now time.Time) (bool, error) {
	const op = "storage/mongo/RemoveExpiredBan"

	expired := bson.D{
		{Key: "name", Value: community},
		{Key: "banned_users", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
			{Key: "username", Value: username},
			{Key: "unban_at", Value: bson.D{{Key: "$lte", Value: toMS(now)}}},
		}}}},
	}
	byUser := bson.D{{Key: "username", Value: username}}

	removed := false
	err := m.inTx(ctx, func(ctx context.Context) error {
		removed = false

		n, err := m.communities.CountDocuments(ctx, expired)
		if err != nil {
			return fmt.Errorf("community: %w", err)
		}

		if n == 0 {
			return nil
		}

		if _, err := m.users.UpdateOne(ctx, byUser,
			bson.D{{Key: "$pull", Value: bson.D{{Key: "banned_in_communities", Value: community}}}},
		); err != nil {
			return fmt.Errorf("user: %w", err)
		}

		res, err := m.communities.UpdateOne(ctx, expired,
			bson.D{{Key: "$pull", Value: bson.D{
				{Key: "banned_users", Value: bson.D{{Key: "username", Value: username}}},
			}}},
		)
		if err != nil {
			return fmt.Errorf("community: %w", err)
		}

		if res.ModifiedCount == 0 {
			if _, err := m.users.UpdateOne(ctx, byUser,
				bson.D{{Key: "$addToSet", Value: bson.D{{Key: "banned_in_communities", Value: community}}}},
			); err != nil {
				return fmt.Errorf("user restore: %w", err)
			}

			return nil
		}

		removed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return removed, nil
}
