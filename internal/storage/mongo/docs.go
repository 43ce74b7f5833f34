package mongo

import (
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// contentDoc — документ коллекции contents. Пост и комментарий лежат в одной
// коллекции: общая база плюс плоские поля нагрузки, чтобы поиск и ленты
// строились одним запросом.
type contentDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Kind               string             `bson:"kind"`
	Type               string             `bson:"type"`
	Username           string             `bson:"username"`
	CommunityName      string             `bson:"community_name"`
	Upvote             int64              `bson:"upvote"`
	Downvote           int64              `bson:"downvote"`
	NetVote            int64              `bson:"net_vote"`
	Views              int64              `bson:"views"`
	CommentsCount      int64              `bson:"comments_count"`
	IsNSFW             bool               `bson:"is_nsfw"`
	IsSpoiler          bool               `bson:"is_spoiler"`
	IsLocked           bool               `bson:"is_locked"`
	IsDeleted          bool               `bson:"is_deleted"`
	IsApproved         bool               `bson:"is_approved"`
	IsEdited           bool               `bson:"is_edited"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
	MostRecentUpvoteAt time.Time          `bson:"most_recent_upvote_at"`
	Followers          []string           `bson:"followers"`

	Title         string              `bson:"title,omitempty"`
	Content       string              `bson:"content"`
	ContentHTML   string              `bson:"content_html"`
	Link          string              `bson:"link,omitempty"`
	Media         []string            `bson:"media,omitempty"`
	PollOptions   []models.PollOption `bson:"poll_options,omitempty"`
	PollExpiresAt *time.Time          `bson:"poll_expires_at,omitempty"`
	ParentPostID  string              `bson:"parent_post_id,omitempty"`
}

func toContentDoc(c models.Content) contentDoc {
	d := contentDoc{
		Kind:               string(c.Kind),
		Type:               string(c.Type),
		Username:           c.Username,
		CommunityName:      c.CommunityName,
		Upvote:             c.Upvote,
		Downvote:           c.Downvote,
		NetVote:            c.NetVote,
		Views:              c.Views,
		CommentsCount:      c.CommentsCount,
		IsNSFW:             c.IsNSFW,
		IsSpoiler:          c.IsSpoiler,
		IsLocked:           c.IsLocked,
		IsDeleted:          c.IsDeleted,
		IsApproved:         c.IsApproved,
		IsEdited:           c.IsEdited,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		MostRecentUpvoteAt: c.MostRecentUpvoteAt,
		Followers:          c.Followers,
	}

	if d.Followers == nil {
		d.Followers = []string{}
	}

	if oid, err := primitive.ObjectIDFromHex(c.ID); err == nil {
		d.ID = oid
	}

	switch {
	case c.Post != nil:
		d.Title = c.Post.Title
		d.Content = c.Post.Content
		d.ContentHTML = c.Post.ContentHTML
		d.Link = c.Post.Link
		d.Media = c.Post.Media
		d.PollOptions = c.Post.PollOptions
		d.PollExpiresAt = c.Post.PollExpiresAt
	case c.Comment != nil:
		d.ParentPostID = c.Comment.ParentPostID
		d.Content = c.Comment.Content
		d.ContentHTML = c.Comment.ContentHTML
	}

	return d
}

// MongoDB DateTime хранит миллисекунды; наружу время отдаём в UTC.
func (d contentDoc) toModel() *models.Content {
	c := &models.Content{
		ID:                 d.ID.Hex(),
		Kind:               models.ContentKind(d.Kind),
		Type:               models.ContentType(d.Type),
		Username:           d.Username,
		CommunityName:      d.CommunityName,
		Upvote:             d.Upvote,
		Downvote:           d.Downvote,
		NetVote:            d.NetVote,
		Views:              d.Views,
		CommentsCount:      d.CommentsCount,
		IsNSFW:             d.IsNSFW,
		IsSpoiler:          d.IsSpoiler,
		IsLocked:           d.IsLocked,
		IsDeleted:          d.IsDeleted,
		IsApproved:         d.IsApproved,
		IsEdited:           d.IsEdited,
		CreatedAt:          d.CreatedAt.UTC(),
		UpdatedAt:          d.UpdatedAt.UTC(),
		MostRecentUpvoteAt: d.MostRecentUpvoteAt.UTC(),
		Followers:          d.Followers,
	}

	if c.Kind == models.KindComment {
		c.Comment = &models.CommentPayload{
			ParentPostID: d.ParentPostID,
			Content:      d.Content,
			ContentHTML:  d.ContentHTML,
		}

		return c
	}

	c.Post = &models.PostPayload{
		Title:         d.Title,
		Content:       d.Content,
		ContentHTML:   d.ContentHTML,
		Link:          d.Link,
		Media:         d.Media,
		PollOptions:   d.PollOptions,
		PollExpiresAt: d.PollExpiresAt,
	}

	if d.PollExpiresAt != nil {
		exp := d.PollExpiresAt.UTC()
		c.Post.PollExpiresAt = &exp
	}

	return c
}

// notificationDoc — документ коллекции notifications.
type notificationDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	To            string             `bson:"to"`
	From          string             `bson:"from"`
	Type          string             `bson:"type"`
	ResourceID    string             `bson:"resource_id"`
	CommunityName string             `bson:"community_name,omitempty"`
	IsRead        bool               `bson:"is_read"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (d notificationDoc) toModel() models.Notification {
	return models.Notification{
		ID:            d.ID.Hex(),
		To:            d.To,
		From:          d.From,
		Type:          models.NotificationType(d.Type),
		ResourceID:    d.ResourceID,
		CommunityName: d.CommunityName,
		IsRead:        d.IsRead,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

func toMS(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
