// dto описывает JSON-контракт REST API и правила валидации входных тел.
package dto

// Публикация поста. Type пустой — текстовый пост.
type CreatePostRequest struct {
	Community   string   `json:"community,omitempty" validate:"omitempty,min=3,max=21"`
	Type        string   `json:"type,omitempty" validate:"omitempty,oneof=Post Images&Video Link Poll"`
	Title       string   `json:"title" validate:"required,max=300"`
	Content     string   `json:"content,omitempty" validate:"max=40000"`
	Link        string   `json:"link,omitempty" validate:"omitempty,url"`
	Media       []string `json:"media,omitempty" validate:"max=20,dive,required"`
	PollOptions []string `json:"poll_options,omitempty" validate:"omitempty,min=2,max=6,dive,required,max=100"`
	PollDays    int      `json:"poll_days,omitempty" validate:"omitempty,min=1,max=7"`
	IsNSFW      bool     `json:"is_nsfw"`
	IsSpoiler   bool     `json:"is_spoiler"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=40000"`
}

type EditContentRequest struct {
	Content string `json:"content" validate:"required,max=40000"`
}

type PollVoteRequest struct {
	Option string `json:"option" validate:"required,max=100"`
}

type Rule struct {
	Text        string `json:"text" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

type Settings struct {
	AllowedPostTypes string `json:"allowed_post_types,omitempty" validate:"omitempty,oneof=any posts links"`
	AllowImages      bool   `json:"allow_images"`
	AllowPolls       bool   `json:"allow_polls"`
	AllowCrossPosts  bool   `json:"allow_cross_posts"`
	SuggestedSort    string `json:"suggested_sort,omitempty" validate:"omitempty,oneof=hot new top rising old"`
}

// Settings == nil — настройки по умолчанию.
type CreateCommunityRequest struct {
	Name        string    `json:"name" validate:"required,min=3,max=21"`
	Description string    `json:"description,omitempty" validate:"max=500"`
	Type        string    `json:"type" validate:"required,oneof=public private restricted"`
	IsNSFW      bool      `json:"is_nsfw"`
	Rules       []Rule    `json:"rules,omitempty" validate:"max=15,dive"`
	Settings    *Settings `json:"settings,omitempty"`
}

// Days == nil — бессрочный бан.
type BanRequest struct {
	Username string `json:"username" validate:"required"`
	Rule     string `json:"rule" validate:"required"`
	Note     string `json:"note,omitempty" validate:"max=500"`
	Days     *int   `json:"days,omitempty" validate:"omitempty,min=1"`
}

// Цель действия модератора: одобрение, приглашение.
type UsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

type PreferencesRequest struct {
	ShowAdultContent *bool `json:"show_adult_content" validate:"required"`
}

type PresignRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"required,gt=0"`
}
