package models

import (
	"slices"
	"time"
)

// CommunityType — режим доступа сообщества.
type CommunityType string

const (
	CommunityPublic     CommunityType = "public"
	CommunityPrivate    CommunityType = "private"
	CommunityRestricted CommunityType = "restricted"
)

// Rule — правило сообщества; бан ссылается на Text.
type Rule struct {
	Text        string `bson:"text"`
	Description string `bson:"description"`
}

// Допустимые значения Settings.AllowedPostTypes.
const (
	AllowAnyPosts  = "any"
	AllowTextPosts = "posts"
	AllowLinkPosts = "links"
)

// Settings — настройки публикаций в сообществе.
type Settings struct {
	AllowedPostTypes string `bson:"allowed_post_types"`
	AllowImages      bool   `bson:"allow_images"`
	AllowPolls       bool   `bson:"allow_polls"`
	AllowCrossPosts  bool   `bson:"allow_cross_posts"`
	SuggestedSort    string `bson:"suggested_sort"`
}

// Ban — запись о бане. UnbanAt == nil — бан бессрочный.
// UnbanAt хранится в документе, поэтому снятие по сроку переживает рестарт процесса.
type Ban struct {
	Username string     `bson:"username"`
	Reason   string     `bson:"reason"`
	Note     string     `bson:"note"`
	Days     int        `bson:"days"`
	BannedAt time.Time  `bson:"banned_at"`
	UnbanAt  *time.Time `bson:"unban_at,omitempty"`
}

// Community — сообщество с модераторами, банами и списком одобренных.
type Community struct {
	Name          string        `bson:"name"`
	Owner         string        `bson:"owner"`
	Description   string        `bson:"description"`
	Type          CommunityType `bson:"type"`
	Moderators    []string      `bson:"moderators"`
	BannedUsers   []Ban         `bson:"banned_users"`
	ApprovedUsers []string      `bson:"approved_users"`
	Invitations   []string      `bson:"invitations"`
	Members       int64         `bson:"members"`
	IsNSFW        bool          `bson:"is_nsfw"`
	Rules         []Rule        `bson:"rules"`
	Settings      Settings      `bson:"settings"`
	CreatedAt     time.Time     `bson:"created_at"`
}

// IsModerator сообщает, модерирует ли username сообщество.
func (c *Community) IsModerator(username string) bool {
	return c != nil && username != "" && slices.Contains(c.Moderators, username)
}

// IsApproved сообщает, находится ли username в списке одобренных.
func (c *Community) IsApproved(username string) bool {
	return c != nil && username != "" && slices.Contains(c.ApprovedUsers, username)
}

// IsInvited сообщает, есть ли у username приглашение в модераторы.
func (c *Community) IsInvited(username string) bool {
	return c != nil && username != "" && slices.Contains(c.Invitations, username)
}

// BanOf возвращает действующую запись о бане username.
func (c *Community) BanOf(username string) (*Ban, bool) {
	if c == nil || username == "" {
		return nil, false
	}

	for i := range c.BannedUsers {
		if c.BannedUsers[i].Username == username {
			return &c.BannedUsers[i], true
		}
	}

	return nil, false
}

// IsBanned сообщает, забанен ли username в сообществе.
func (c *Community) IsBanned(username string) bool {
	_, ok := c.BanOf(username)
	return ok
}

// HasRule сообщает, есть ли у сообщества правило с таким текстом.
func (c *Community) HasRule(text string) bool {
	return c != nil && slices.ContainsFunc(c.Rules, func(r Rule) bool { return r.Text == text })
}
