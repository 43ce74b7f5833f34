package models

import (
	"slices"
	"time"
)

// ContentKind — дискриминатор контента: пост или комментарий.
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindComment ContentKind = "comment"
)

// ParseKind разбирает вид контента из строки маршрута.
func ParseKind(s string) (ContentKind, bool) {
	switch ContentKind(s) {
	case KindPost, KindComment:
		return ContentKind(s), true
	default:
		return "", false
	}
}

// ContentType — тип публикации.
type ContentType string

const (
	TypePost    ContentType = "Post"
	TypeMedia   ContentType = "Images&Video"
	TypeLink    ContentType = "Link"
	TypePoll    ContentType = "Poll"
	TypeComment ContentType = "Comment"
)

// PollOption — вариант опроса. Voters наружу не отдаётся, см. PollOptionView.
type PollOption struct {
	Text   string   `bson:"text"`
	Voters []string `bson:"voters"`
}

// PostPayload — данные, специфичные для поста.
type PostPayload struct {
	Title         string       `bson:"title"`
	Content       string       `bson:"content"`
	ContentHTML   string       `bson:"content_html"`
	Link          string       `bson:"link,omitempty"`
	Media         []string     `bson:"media,omitempty"`
	PollOptions   []PollOption `bson:"poll_options,omitempty"`
	PollExpiresAt *time.Time   `bson:"poll_expires_at,omitempty"`
}

// CommentPayload — данные, специфичные для комментария.
type CommentPayload struct {
	ParentPostID string `bson:"parent_post_id"`
	Content      string `bson:"content"`
	ContentHTML  string `bson:"content_html"`
}

// Content — пост или комментарий: общая база (автор, счётчики, флаги)
// плюс ровно одна из нагрузок Post/Comment в зависимости от Kind.
//
// Инварианты:
//   - NetVote == Upvote - Downvote;
//   - Upvote, Downvote >= 0 и меняются только через переключение голоса;
//   - удаление только мягкое (IsDeleted).
type Content struct {
	ID                 string
	Kind               ContentKind
	Type               ContentType
	Username           string
	CommunityName      string
	Upvote             int64
	Downvote           int64
	NetVote            int64
	Views              int64
	CommentsCount      int64
	IsNSFW             bool
	IsSpoiler          bool
	IsLocked           bool
	IsDeleted          bool
	IsApproved         bool
	IsEdited           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	MostRecentUpvoteAt time.Time
	Followers          []string
	Post               *PostPayload
	Comment            *CommentPayload
}

// Body возвращает исходный текст контента независимо от вида.
func (c *Content) Body() string {
	switch {
	case c.Post != nil:
		return c.Post.Content
	case c.Comment != nil:
		return c.Comment.Content
	default:
		return ""
	}
}

// PostID возвращает идентификатор поста, к которому относится контент.
func (c *Content) PostID() string {
	if c.Kind == KindComment && c.Comment != nil {
		return c.Comment.ParentPostID
	}

	return c.ID
}

// IsFollowedBy сообщает, подписан ли пользователь на контент.
func (c *Content) IsFollowedBy(username string) bool {
	return slices.Contains(c.Followers, username)
}

// ViewerFlags — отметки текущего зрителя по контенту.
type ViewerFlags struct {
	IsUpvoted   bool
	IsDownvoted bool
	IsSaved     bool
	IsHidden    bool
}

// PollOptionView — вариант опроса для выдачи: только счётчик и признак голоса зрителя.
type PollOptionView struct {
	Text    string
	Votes   int
	IsVoted bool
}

// ContentView — контент после проверок видимости с аннотацией под зрителя.
// У Content.Post.PollOptions списки голосовавших очищены.
type ContentView struct {
	Content Content
	Viewer  ViewerFlags
	Poll    []PollOptionView
}

// FeedPage — страница ленты.
type FeedPage struct {
	Items []ContentView
	Page  int
	Limit int
}
