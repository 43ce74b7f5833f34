package visibility

import (
	"slices"

	"github.com/pribylovaa/go-social-platform/internal/models"
)

// Annotate строит представление контента для зрителя: отметки голоса/сохранения/скрытия
// и варианты опроса со счётчиками. Списки голосовавших из результата удаляются.
func Annotate(viewer *models.User, item *models.Content) models.ContentView {
	view := models.ContentView{Content: *item}

	if viewer != nil {
		if up, down, ok := viewer.VoteLedgers(item.Kind); ok {
			view.Viewer.IsUpvoted = up.Has(item.ID)
			view.Viewer.IsDownvoted = down.Has(item.ID)
		}
		if l, ok := viewer.MarkLedger(item.Kind, models.MarkSaved); ok {
			view.Viewer.IsSaved = l.Has(item.ID)
		}
		if l, ok := viewer.MarkLedger(item.Kind, models.MarkHidden); ok {
			view.Viewer.IsHidden = l.Has(item.ID)
		}
	}

	if item.Post == nil {
		return view
	}

	// Копия нагрузки, чтобы не трогать исходный документ.
	post := *item.Post
	view.Content.Post = &post

	if len(post.PollOptions) == 0 {
		return view
	}

	view.Poll = make([]models.PollOptionView, 0, len(post.PollOptions))
	stripped := make([]models.PollOption, 0, len(post.PollOptions))
	for _, o := range post.PollOptions {
		view.Poll = append(view.Poll, models.PollOptionView{
			Text:    o.Text,
			Votes:   len(o.Voters),
			IsVoted: viewer != nil && slices.Contains(o.Voters, viewer.Username),
		})
		stripped = append(stripped, models.PollOption{Text: o.Text})
	}
	post.PollOptions = stripped

	return view
}

// AnnotateAll — Annotate для каждого субъекта списка.
func AnnotateAll(viewer *models.User, subjects []Subject) []models.ContentView {
	out := make([]models.ContentView, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, Annotate(viewer, s.Item))
	}

	return out
}
