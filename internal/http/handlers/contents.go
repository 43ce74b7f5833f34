package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-social-platform/internal/http/dto"
	"github.com/pribylovaa/go-social-platform/internal/models"
)

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in dto.CreatePostRequest
	if err := h.bind(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	v, err := h.svc.CreatePost(r.Context(), viewer(r), in.ToInput())
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ContentFromModel(v, viewer(r)))
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	v, err := h.svc.PostByID(r.Context(), viewer(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContentFromModel(v, viewer(r)))
}

func (h *Handlers) GetComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	v, err := h.svc.CommentByID(r.Context(), viewer(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContentFromModel(v, viewer(r)))
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := pathParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var in dto.CreateCommentRequest
	if err := h.bind(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	v, err := h.svc.CreateComment(r.Context(), viewer(r), postID, in.Content)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ContentFromModel(v, viewer(r)))
}

func (h *Handlers) ListPostComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	q, err := feedQuery(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	page, err := h.svc.PostComments(r.Context(), viewer(r), postID, q)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FeedFromModel(page, viewer(r)))
}

func (h *Handlers) EditContent(w http.ResponseWriter, r *http.Request) {
	kind, id, err := contentRef(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	var in dto.EditContentRequest
	if err := h.bind(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	v, err := h.svc.EditContent(r.Context(), viewer(r), kind, id, in.Content)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContentFromModel(v, viewer(r)))
}

func (h *Handlers) DeleteContent(w http.ResponseWriter, r *http.Request) {
	kind, id, err := contentRef(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.svc.DeleteContent(r.Context(), viewer(r), kind, id); err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) FollowPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	followed, err := h.svc.FollowPost(r.Context(), viewer(r), postID)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FollowResponse{Followed: followed})
}

// contentRef разбирает /{kind}/{id}.
func contentRef(r *http.Request) (models.ContentKind, string, error) {
	kind, err := kindParam(r)
	if err != nil {
		return "", "", err
	}

	id, err := pathParam(r, "id")
	if err != nil {
		return "", "", err
	}

	return kind, id, nil
}
