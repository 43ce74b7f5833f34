package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateNotification сохраняет уведомление.
func (m *Mongo) CreateNotification(ctx context.Context, n models.Notification) error {
	const op = "storage/mongo/CreateNotification"

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	doc := notificationDoc{
		To:            n.To,
		From:          n.From,
		Type:          string(n.Type),
		ResourceID:    n.ResourceID,
		CommunityName: n.CommunityName,
		IsRead:        n.IsRead,
		CreatedAt:     toMS(n.CreatedAt),
	}

	if _, err := m.notifications.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}

// ListNotifications возвращает уведомления получателя, новые сначала.
func (m *Mongo) ListNotifications(ctx context.Context, to string, unreadOnly bool, skip, limit int) ([]models.Notification, error) {
	const op = "storage/mongo/ListNotifications"

	filter := bson.D{{Key: "to", Value: to}}
	if unreadOnly {
		filter = append(filter, bson.E{Key: "is_read", Value: false})
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := m.notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	out := make([]models.Notification, 0, limit)
	for cur.Next(ctx) {
		var d notificationDoc
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

// MarkNotificationRead помечает уведомление прочитанным.
// Уведомление другого получателя ведёт себя как отсутствующее.
func (m *Mongo) MarkNotificationRead(ctx context.Context, to, id string) error {
	const op = "storage/mongo/MarkNotificationRead"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.notifications.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "to", Value: to}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "is_read", Value: true}}}},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
