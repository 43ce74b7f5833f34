package dto

import (
	"time"

	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/service"
	"github.com/pribylovaa/go-social-platform/internal/storage"
)

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().Unix()
}

func (r CreatePostRequest) ToInput() service.PostInput {
	return service.PostInput{
		Community:   r.Community,
		Type:        models.ContentType(r.Type),
		Title:       r.Title,
		Content:     r.Content,
		Link:        r.Link,
		Media:       r.Media,
		PollOptions: r.PollOptions,
		PollDays:    r.PollDays,
		IsNSFW:      r.IsNSFW,
		IsSpoiler:   r.IsSpoiler,
	}
}

func (r CreateCommunityRequest) ToInput() service.CommunityInput {
	in := service.CommunityInput{
		Name:        r.Name,
		Description: r.Description,
		Type:        models.CommunityType(r.Type),
		IsNSFW:      r.IsNSFW,
	}

	for _, rule := range r.Rules {
		in.Rules = append(in.Rules, models.Rule{Text: rule.Text, Description: rule.Description})
	}

	if r.Settings != nil {
		in.Settings = &models.Settings{
			AllowedPostTypes: r.Settings.AllowedPostTypes,
			AllowImages:      r.Settings.AllowImages,
			AllowPolls:       r.Settings.AllowPolls,
			AllowCrossPosts:  r.Settings.AllowCrossPosts,
			SuggestedSort:    r.Settings.SuggestedSort,
		}
	}

	return in
}

// ContentFromModel собирает ответ; viewer нужен для признака подписки.
func ContentFromModel(v models.ContentView, viewer string) Content {
	c := v.Content
	out := Content{
		ID:            c.ID,
		Kind:          string(c.Kind),
		Type:          string(c.Type),
		Username:      c.Username,
		Community:     c.CommunityName,
		Content:       c.Body(),
		Upvotes:       c.Upvote,
		Downvotes:     c.Downvote,
		NetVote:       c.NetVote,
		Views:         c.Views,
		CommentsCount: c.CommentsCount,
		IsNSFW:        c.IsNSFW,
		IsSpoiler:     c.IsSpoiler,
		IsLocked:      c.IsLocked,
		IsApproved:    c.IsApproved,
		IsEdited:      c.IsEdited,
		CreatedAt:     unix(c.CreatedAt),
		UpdatedAt:     unix(c.UpdatedAt),
		Viewer: ViewerFlags{
			IsUpvoted:   v.Viewer.IsUpvoted,
			IsDownvoted: v.Viewer.IsDownvoted,
			IsSaved:     v.Viewer.IsSaved,
			IsHidden:    v.Viewer.IsHidden,
			IsFollowed:  viewer != "" && c.IsFollowedBy(viewer),
		},
	}

	switch {
	case c.Post != nil:
		out.Title = c.Post.Title
		out.ContentHTML = c.Post.ContentHTML
		out.Link = c.Post.Link
		out.Media = c.Post.Media
		if c.Post.PollExpiresAt != nil {
			out.PollExpiresAt = unix(*c.Post.PollExpiresAt)
		}
	case c.Comment != nil:
		out.PostID = c.Comment.ParentPostID
		out.ContentHTML = c.Comment.ContentHTML
	}

	for _, o := range v.Poll {
		out.Poll = append(out.Poll, PollOption{Text: o.Text, Votes: o.Votes, IsVoted: o.IsVoted})
	}

	return out
}

func FeedFromModel(p models.FeedPage, viewer string) Feed {
	out := Feed{Items: make([]Content, 0, len(p.Items)), Page: p.Page, Limit: p.Limit}
	for _, it := range p.Items {
		out.Items = append(out.Items, ContentFromModel(it, viewer))
	}

	return out
}

func BanFromModel(b models.Ban) Ban {
	out := Ban{
		Username: b.Username,
		Reason:   b.Reason,
		Note:     b.Note,
		Days:     b.Days,
		BannedAt: unix(b.BannedAt),
	}
	if b.UnbanAt != nil {
		out.UnbanAt = unix(*b.UnbanAt)
	}

	return out
}

func CommunityFromModel(c *models.Community) Community {
	out := Community{
		Name:          c.Name,
		Owner:         c.Owner,
		Description:   c.Description,
		Type:          string(c.Type),
		IsNSFW:        c.IsNSFW,
		Members:       c.Members,
		Moderators:    c.Moderators,
		Rules:         make([]Rule, 0, len(c.Rules)),
		ApprovedUsers: c.ApprovedUsers,
		Invitations:   c.Invitations,
		CreatedAt:     unix(c.CreatedAt),
		Settings: Settings{
			AllowedPostTypes: c.Settings.AllowedPostTypes,
			AllowImages:      c.Settings.AllowImages,
			AllowPolls:       c.Settings.AllowPolls,
			AllowCrossPosts:  c.Settings.AllowCrossPosts,
			SuggestedSort:    c.Settings.SuggestedSort,
		},
	}

	for _, r := range c.Rules {
		out.Rules = append(out.Rules, Rule{Text: r.Text, Description: r.Description})
	}

	for _, b := range c.BannedUsers {
		out.BannedUsers = append(out.BannedUsers, BanFromModel(b))
	}

	return out
}

func NotificationsFromModel(list []models.Notification) Notifications {
	out := Notifications{Items: make([]Notification, 0, len(list))}
	for _, n := range list {
		out.Items = append(out.Items, Notification{
			ID:         n.ID,
			Type:       string(n.Type),
			From:       n.From,
			ResourceID: n.ResourceID,
			Community:  n.CommunityName,
			IsRead:     n.IsRead,
			CreatedAt:  unix(n.CreatedAt),
		})
	}

	return out
}

func PresignFromModel(info *storage.UploadInfo) PresignResponse {
	return PresignResponse{
		UploadURL:       info.UploadURL,
		Key:             info.Key,
		ExpiresIn:       int64(info.Expires / time.Second),
		RequiredHeaders: info.RequiredHeader,
	}
}
