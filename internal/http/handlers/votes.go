package handlers

import (
	"context"
	"net/http"

	"github.com/pribylovaa/go-social-platform/internal/http/dto"
	"github.com/pribylovaa/go-social-platform/internal/models"
)

type toggleFunc func(ctx context.Context, viewer string, kind models.ContentKind, id, idemKey string) (models.ContentView, error)

// toggle — общий обработчик переключателей голосов и сохранения.
func (h *Handlers) toggle(fn toggleFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, id, err := contentRef(r)
		if err != nil {
			fail(w, r, err)
			return
		}

		key, err := idempotencyKey(r)
		if err != nil {
			fail(w, r, err)
			return
		}

		v, err := fn(r.Context(), viewer(r), kind, id, key)
		if err != nil {
			fail(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, dto.ContentFromModel(v, viewer(r)))
	}
}

func (h *Handlers) Upvote(w http.ResponseWriter, r *http.Request) {
	h.toggle(h.svc.Upvote)(w, r)
}

func (h *Handlers) Downvote(w http.ResponseWriter, r *http.Request) {
	h.toggle(h.svc.Downvote)(w, r)
}

func (h *Handlers) Save(w http.ResponseWriter, r *http.Request) {
	h.toggle(h.svc.Save)(w, r)
}

func (h *Handlers) HidePost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	key, err := idempotencyKey(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	v, err := h.svc.Hide(r.Context(), viewer(r), postID, key)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContentFromModel(v, viewer(r)))
}

func (h *Handlers) VotePoll(w http.ResponseWriter, r *http.Request) {
	postID, err := pathParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	key, err := idempotencyKey(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	var in dto.PollVoteRequest
	if err := h.bind(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	v, err := h.svc.VotePoll(r.Context(), viewer(r), postID, in.Option, key)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContentFromModel(v, viewer(r)))
}
