package models

import "time"

// NotificationType — тип события для получателя.
type NotificationType string

const (
	NotifyPostReply       NotificationType = "post_reply"
	NotifyFollowedReply   NotificationType = "followed_post_reply"
	NotifyMention         NotificationType = "mention"
	NotifyModeratorInvite NotificationType = "moderator_invite"
	NotifyBan             NotificationType = "ban"
	NotifyUnban           NotificationType = "unban"
	NotifyApprove         NotificationType = "approve"
	NotifyUpvotePost      NotificationType = "upvote_post"
	NotifyUpvoteComment   NotificationType = "upvote_comment"
)

// Notification — уведомление пользователя. ID — ObjectID в виде hex-строки.
type Notification struct {
	ID            string
	To            string
	From          string
	Type          NotificationType
	ResourceID    string
	CommunityName string
	IsRead        bool
	CreatedAt     time.Time
}
