package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/ranking"
	"github.com/pribylovaa/go-social-platform/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// objectIDs переводит hex-идентификаторы в ObjectID, пропуская некорректные.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id)); err == nil {
			out = append(out, oid)
		}
	}

	return out
}

// sortField переводит поле ранжирования в имя поля документа.
func sortField(f ranking.Field) string {
	if f == ranking.FieldID {
		return "_id"
	}

	return string(f)
}

// CreateContent сохраняет пост или комментарий. Время создания выставляется здесь.
func (m *Mongo) CreateContent(ctx context.Context, item models.Content) (*models.Content, error) {
	const op = "storage/mongo/CreateContent"

	now := toMS(time.Now())
	item.ID = ""
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.MostRecentUpvoteAt.IsZero() {
		item.MostRecentUpvoteAt = now
	}

	res, err := m.contents.InsertOne(ctx, toContentDoc(item))
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	item.ID = oid.Hex()
	return &item, nil
}

// ContentByID возвращает контент по виду и идентификатору, включая удалённый.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) ContentByID(ctx context.Context, kind models.ContentKind, id string) (*models.Content, error) {
	const op = "storage/mongo/ContentByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var d contentDoc
	err = m.contents.FindOne(ctx, bson.D{{Key: "_id", Value: oid}, {Key: "kind", Value: string(kind)}}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d.toModel(), nil
}

// contentFilter строит фильтр выборки. Удалённый контент исключён всегда.
func contentFilter(f storage.ContentFilter, plan ranking.Plan) bson.D {
	filter := bson.D{{Key: "is_deleted", Value: false}}

	if f.Kind != "" {
		filter = append(filter, bson.E{Key: "kind", Value: string(f.Kind)})
	}

	community := bson.D{}
	if f.Communities != nil {
		community = append(community, bson.E{Key: "$in", Value: f.Communities})
	}
	if len(f.ExcludeCommunities) > 0 {
		community = append(community, bson.E{Key: "$nin", Value: f.ExcludeCommunities})
	}
	if len(community) > 0 {
		filter = append(filter, bson.E{Key: "community_name", Value: community})
	}

	if f.Author != "" {
		filter = append(filter, bson.E{Key: "username", Value: f.Author})
	}

	if f.ParentPostID != "" {
		filter = append(filter, bson.E{Key: "parent_post_id", Value: f.ParentPostID})
	}

	if len(f.ExcludeIDs) > 0 {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$nin", Value: objectIDs(f.ExcludeIDs)}}})
	}

	if q := strings.TrimSpace(f.Search); q != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: rx}},
			bson.D{{Key: "content", Value: rx}},
		}})
	}

	created := bson.D{}
	if plan.Since != nil {
		created = append(created, bson.E{Key: "$gte", Value: toMS(*plan.Since)})
	}
	if plan.Until != nil {
		created = append(created, bson.E{Key: "$lte", Value: toMS(*plan.Until)})
	}
	if len(created) > 0 {
		filter = append(filter, bson.E{Key: "created_at", Value: created})
	}

	return filter
}

// ListContents возвращает страницу контента в порядке ключей плана.
func (m *Mongo) ListContents(ctx context.Context, f storage.ContentFilter, plan ranking.Plan) ([]*models.Content, error) {
	const op = "storage/mongo/ListContents"

	if f.Communities != nil && len(f.Communities) == 0 {
		return []*models.Content{}, nil
	}

	sort := bson.D{}
	for _, k := range plan.Keys {
		dir := 1
		if k.Desc {
			dir = -1
		}

		sort = append(sort, bson.E{Key: sortField(k.Field), Value: dir})
	}

	opts := options.Find().SetSort(sort)
	if plan.Skip > 0 {
		opts.SetSkip(int64(plan.Skip))
	}
	if plan.Limit > 0 {
		opts.SetLimit(int64(plan.Limit))
	}

	cur, err := m.contents.Find(ctx, contentFilter(f, plan), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	out := make([]*models.Content, 0, plan.Limit)
	for cur.Next(ctx) {
		var d contentDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		out = append(out, d.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}

// ApplyVoteCounters применяет приращения одним pipeline-обновлением:
// upvote/downvote не опускаются ниже нуля, net_vote пересчитывается из них.
func (m *Mongo) ApplyVoteCounters(ctx context.Context, ch models.VoteChange) (*models.Content, error) {
	const op = "storage/mongo/ApplyVoteCounters"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(ch.ContentID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	clamp := func(field string, delta int64) bson.D {
		return bson.D{{Key: "$max", Value: bson.A{
			int64(0),
			bson.D{{Key: "$add", Value: bson.A{"$" + field, delta}}},
		}}}
	}

	counters := bson.D{
		{Key: "upvote", Value: clamp("upvote", ch.Delta.Upvote)},
		{Key: "downvote", Value: clamp("downvote", ch.Delta.Downvote)},
	}
	if ch.TouchUpvoteAt {
		counters = append(counters, bson.E{Key: "most_recent_upvote_at", Value: toMS(ch.At)})
	}

	pipeline := mongodriver.Pipeline{
		{{Key: "$set", Value: counters}},
		{{Key: "$set", Value: bson.D{
			{Key: "net_vote", Value: bson.D{{Key: "$subtract", Value: bson.A{"$upvote", "$downvote"}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d contentDoc
	err = m.contents.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "kind", Value: string(ch.Kind)}},
		pipeline,
		opts,
	).Decode(&d)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d.toModel(), nil
}

// AddPollVote добавляет username в голосовавшие за option.
// Условие «ещё не голосовал ни за один вариант» проверяется в том же обновлении.
func (m *Mongo) AddPollVote(ctx context.Context, postID, option, username string) error {
	const op = "storage/mongo/AddPollVote"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(postID))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "kind", Value: string(models.KindPost)},
		{Key: "type", Value: string(models.TypePoll)},
		{Key: "poll_options.text", Value: option},
		{Key: "poll_options.voters", Value: bson.D{{Key: "$ne", Value: username}}},
	}

	update := bson.D{{Key: "$push", Value: bson.D{{Key: "poll_options.$[opt].voters", Value: username}}}}

	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.D{{Key: "opt.text", Value: option}}},
	})

	res, err := m.contents.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount > 0 {
		return nil
	}

	// Различаем «уже голосовал» и «нет такого опроса/варианта».
	n, err := m.contents.CountDocuments(ctx, bson.D{
		{Key: "_id", Value: oid},
		{Key: "poll_options.voters", Value: username},
	})
	if err != nil {
		return fmt.Errorf("%s: count: %w", op, err)
	}

	if n > 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyVoted)
	}

	return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// inc атомарно прибавляет delta к счётчику поста.
func (m *Mongo) inc(ctx context.Context, op, postID, field string, delta int64) error {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(postID))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.contents.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "kind", Value: string(models.KindPost)}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: field, Value: delta}}}},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// IncrementViews увеличивает счётчик просмотров поста.
func (m *Mongo) IncrementViews(ctx context.Context, postID string) error {
	return m.inc(ctx, "storage/mongo/IncrementViews", postID, "views", 1)
}

// IncrementComments меняет счётчик комментариев поста.
func (m *Mongo) IncrementComments(ctx context.Context, postID string, delta int64) error {
	return m.inc(ctx, "storage/mongo/IncrementComments", postID, "comments_count", delta)
}

// updateContent применяет $set к неудалённому контенту заданного вида.
func (m *Mongo) updateContent(ctx context.Context, op string, kind models.ContentKind, id string, set bson.D) error {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	set = append(set, bson.E{Key: "updated_at", Value: toMS(time.Now())})

	res, err := m.contents.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "kind", Value: string(kind)}, {Key: "is_deleted", Value: false}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UpdateBody меняет исходный текст и его HTML, помечая контент отредактированным.
func (m *Mongo) UpdateBody(ctx context.Context, kind models.ContentKind, id, body, html string) error {
	return m.updateContent(ctx, "storage/mongo/UpdateBody", kind, id, bson.D{
		{Key: "content", Value: body},
		{Key: "content_html", Value: html},
		{Key: "is_edited", Value: true},
	})
}

// SoftDelete помечает контент удалённым; текст остаётся в документе.
func (m *Mongo) SoftDelete(ctx context.Context, kind models.ContentKind, id string) error {
	return m.updateContent(ctx, "storage/mongo/SoftDelete", kind, id, bson.D{
		{Key: "is_deleted", Value: true},
	})
}

// SetContentFlag выставляет флаг is_locked/is_approved.
func (m *Mongo) SetContentFlag(ctx context.Context, kind models.ContentKind, id string, flag storage.ContentFlag, value bool) error {
	const op = "storage/mongo/SetContentFlag"

	switch flag {
	case storage.FlagLocked, storage.FlagApproved:
	default:
		return fmt.Errorf("%s: unknown flag %q", op, flag)
	}

	return m.updateContent(ctx, op, kind, id, bson.D{{Key: string(flag), Value: value}})
}

// SetFollower подписывает пользователя на пост или отписывает.
func (m *Mongo) SetFollower(ctx context.Context, postID, username string, follow bool) error {
	const op = "storage/mongo/SetFollower"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(postID))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	verb := "$pull"
	if follow {
		verb = "$addToSet"
	}

	res, err := m.contents.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "kind", Value: string(models.KindPost)}},
		bson.D{{Key: verb, Value: bson.D{{Key: "followers", Value: username}}}},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
