package handlers

import (
	"context"
	"net/http"

	"github.com/pribylovaa/go-social-platform/internal/http/dto"
	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/moderation"
)

type targetFunc func(ctx context.Context, viewer, community, target string) error

// targetFromBody — действие модератора, цель в теле запроса.
func (h *Handlers) targetFromBody(fn targetFunc, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := pathParam(r, "name")
		if err != nil {
			fail(w, r, err)
			return
		}

		var in dto.UsernameRequest
		if err := h.bind(r, &in); err != nil {
			fail(w, r, err)
			return
		}

		if err := fn(r.Context(), viewer(r), name, in.Username); err != nil {
			fail(w, r, err)
			return
		}

		w.WriteHeader(status)
	}
}

// targetFromPath — действие модератора, цель в пути /{username}.
func (h *Handlers) targetFromPath(fn targetFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := pathParam(r, "name")
		if err != nil {
			fail(w, r, err)
			return
		}

		target, err := pathParam(r, "username")
		if err != nil {
			fail(w, r, err)
			return
		}

		if err := fn(r.Context(), viewer(r), name, target); err != nil {
			fail(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handlers) Ban(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		fail(w, r, err)
		return
	}

	var in dto.BanRequest
	if err := h.bind(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	ban, err := h.svc.Ban(r.Context(), viewer(r), name, in.Username, moderation.BanInput{
		Rule: in.Rule,
		Note: in.Note,
		Days: in.Days,
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BanFromModel(*ban))
}

func (h *Handlers) Unban(w http.ResponseWriter, r *http.Request) {
	h.targetFromPath(h.svc.Unban)(w, r)
}

func (h *Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	h.targetFromBody(h.svc.Approve, http.StatusNoContent)(w, r)
}

func (h *Handlers) Unapprove(w http.ResponseWriter, r *http.Request) {
	h.targetFromPath(h.svc.Unapprove)(w, r)
}

func (h *Handlers) InviteModerator(w http.ResponseWriter, r *http.Request) {
	h.targetFromBody(h.svc.InviteModerator, http.StatusAccepted)(w, r)
}

func (h *Handlers) RemoveModerator(w http.ResponseWriter, r *http.Request) {
	h.targetFromPath(h.svc.RemoveModerator)(w, r)
}

type flagFunc func(ctx context.Context, viewer, community string, kind models.ContentKind, id string, on bool) error

// contentFlag — lock/unlock/approve контента модератором.
func (h *Handlers) contentFlag(fn flagFunc, on bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := pathParam(r, "name")
		if err != nil {
			fail(w, r, err)
			return
		}

		kind, id, err := contentRef(r)
		if err != nil {
			fail(w, r, err)
			return
		}

		if err := fn(r.Context(), viewer(r), name, kind, id, on); err != nil {
			fail(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handlers) LockContent(w http.ResponseWriter, r *http.Request) {
	h.contentFlag(h.svc.LockContent, true)(w, r)
}

func (h *Handlers) UnlockContent(w http.ResponseWriter, r *http.Request) {
	h.contentFlag(h.svc.LockContent, false)(w, r)
}

func (h *Handlers) ApproveContent(w http.ResponseWriter, r *http.Request) {
	h.contentFlag(h.svc.ApproveContent, true)(w, r)
}
