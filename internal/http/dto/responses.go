package dto

type ViewerFlags struct {
	IsUpvoted   bool `json:"is_upvoted"`
	IsDownvoted bool `json:"is_downvoted"`
	IsSaved     bool `json:"is_saved"`
	IsHidden    bool `json:"is_hidden"`
	IsFollowed  bool `json:"is_followed"`
}

type PollOption struct {
	Text    string `json:"text"`
	Votes   int    `json:"votes"`
	IsVoted bool   `json:"is_voted"`
}

// Content — пост или комментарий. Поля поста пусты у комментария и наоборот.
type Content struct {
	ID            string       `json:"id"`
	Kind          string       `json:"kind"`
	Type          string       `json:"type"`
	Username      string       `json:"username"`
	Community     string       `json:"community,omitempty"`
	PostID        string       `json:"post_id,omitempty"`
	Title         string       `json:"title,omitempty"`
	Content       string       `json:"content"`
	ContentHTML   string       `json:"content_html"`
	Link          string       `json:"link,omitempty"`
	Media         []string     `json:"media,omitempty"`
	Poll          []PollOption `json:"poll,omitempty"`
	PollExpiresAt int64        `json:"poll_expires_at,omitempty"` // Unix UTC
	Upvotes       int64        `json:"upvotes"`
	Downvotes     int64        `json:"downvotes"`
	NetVote       int64        `json:"net_vote"`
	Views         int64        `json:"views"`
	CommentsCount int64        `json:"comments_count"`
	IsNSFW        bool         `json:"is_nsfw"`
	IsSpoiler     bool         `json:"is_spoiler"`
	IsLocked      bool         `json:"is_locked"`
	IsApproved    bool         `json:"is_approved"`
	IsEdited      bool         `json:"is_edited"`
	CreatedAt     int64        `json:"created_at"` // Unix UTC
	UpdatedAt     int64        `json:"updated_at"` // Unix UTC
	Viewer        ViewerFlags  `json:"viewer"`
}

type Feed struct {
	Items []Content `json:"items"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type Ban struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
	Note     string `json:"note,omitempty"`
	Days     int    `json:"days,omitempty"`
	BannedAt int64  `json:"banned_at"`
	UnbanAt  int64  `json:"unban_at,omitempty"` // 0 — бессрочно
}

// Community — списки банов, одобренных и приглашений видны только модераторам.
type Community struct {
	Name          string   `json:"name"`
	Owner         string   `json:"owner"`
	Description   string   `json:"description"`
	Type          string   `json:"type"`
	IsNSFW        bool     `json:"is_nsfw"`
	Members       int64    `json:"members"`
	Moderators    []string `json:"moderators"`
	Rules         []Rule   `json:"rules"`
	Settings      Settings `json:"settings"`
	BannedUsers   []Ban    `json:"banned_users,omitempty"`
	ApprovedUsers []string `json:"approved_users,omitempty"`
	Invitations   []string `json:"invitations,omitempty"`
	CreatedAt     int64    `json:"created_at"`
}

type Notification struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	From       string `json:"from,omitempty"`
	ResourceID string `json:"resource_id,omitempty"`
	Community  string `json:"community,omitempty"`
	IsRead     bool   `json:"is_read"`
	CreatedAt  int64  `json:"created_at"`
}

type Notifications struct {
	Items []Notification `json:"items"`
}

type Preferences struct {
	ShowAdultContent bool `json:"show_adult_content"`
}

type PresignResponse struct {
	UploadURL       string            `json:"upload_url"`
	Key             string            `json:"key"`
	ExpiresIn       int64             `json:"expires_in"` // секунды
	RequiredHeaders map[string]string `json:"required_headers,omitempty"`
}

type FollowResponse struct {
	Followed bool `json:"followed"`
}

type MuteResponse struct {
	Muted bool `json:"muted"`
}
