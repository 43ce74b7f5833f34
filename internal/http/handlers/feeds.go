package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-social-platform/internal/http/dto"
)

func (h *Handlers) HomeFeed(w http.ResponseWriter, r *http.Request) {
	q, err := feedQuery(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	page, err := h.svc.HomeFeed(r.Context(), viewer(r), q)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FeedFromModel(page, viewer(r)))
}

func (h *Handlers) CommunityFeed(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		fail(w, r, err)
		return
	}

	q, err := feedQuery(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	page, err := h.svc.CommunityFeed(r.Context(), viewer(r), name, q)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FeedFromModel(page, viewer(r)))
}

func (h *Handlers) UserFeed(w http.ResponseWriter, r *http.Request) {
	username, err := pathParam(r, "username")
	if err != nil {
		fail(w, r, err)
		return
	}

	q, err := feedQuery(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	page, err := h.svc.UserFeed(r.Context(), viewer(r), username, q)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FeedFromModel(page, viewer(r)))
}

func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q, err := feedQuery(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	page, err := h.svc.Search(r.Context(), viewer(r), r.URL.Query().Get("q"), q)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FeedFromModel(page, viewer(r)))
}
