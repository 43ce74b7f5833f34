package handlers

import (
	"context"
	"net/http"

	"github.com/pribylovaa/go-social-platform/internal/http/dto"
)

func (h *Handlers) CreateCommunity(w http.ResponseWriter, r *http.Request) {
	var in dto.CreateCommunityRequest
	if err := h.bind(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	c, err := h.svc.CreateCommunity(r.Context(), viewer(r), in.ToInput())
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CommunityFromModel(c))
}

func (h *Handlers) GetCommunity(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		fail(w, r, err)
		return
	}

	c, err := h.svc.CommunityByName(r.Context(), viewer(r), name)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CommunityFromModel(c))
}

// selfAction — действие пользователя над собственной связью с сообществом.
func (h *Handlers) selfAction(fn func(ctx context.Context, viewer, name string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := pathParam(r, "name")
		if err != nil {
			fail(w, r, err)
			return
		}

		if err := fn(r.Context(), viewer(r), name); err != nil {
			fail(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handlers) Join(w http.ResponseWriter, r *http.Request) {
	h.selfAction(h.svc.Join)(w, r)
}

func (h *Handlers) Leave(w http.ResponseWriter, r *http.Request) {
	h.selfAction(h.svc.Leave)(w, r)
}

func (h *Handlers) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	h.selfAction(h.svc.AcceptInvitation)(w, r)
}

func (h *Handlers) RejectInvitation(w http.ResponseWriter, r *http.Request) {
	h.selfAction(h.svc.RejectInvitation)(w, r)
}

func (h *Handlers) LeaveModeration(w http.ResponseWriter, r *http.Request) {
	h.selfAction(h.svc.LeaveModeration)(w, r)
}

func (h *Handlers) Mute(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		fail(w, r, err)
		return
	}

	muted, err := h.svc.Mute(r.Context(), viewer(r), name)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MuteResponse{Muted: muted})
}
