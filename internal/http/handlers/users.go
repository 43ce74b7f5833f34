package handlers

import (
	"net/http"
	"strconv"

	"github.com/pribylovaa/go-social-platform/internal/http/dto"
	"github.com/pribylovaa/go-social-platform/internal/models"
)

func (h *Handlers) Block(w http.ResponseWriter, r *http.Request) {
	target, err := pathParam(r, "username")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.svc.Block(r.Context(), viewer(r), target); err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Unblock(w http.ResponseWriter, r *http.Request) {
	target, err := pathParam(r, "username")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.svc.Unblock(r.Context(), viewer(r), target); err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var in dto.PreferencesRequest
	if err := h.bind(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	prefs, err := h.svc.UpdatePreferences(r.Context(), viewer(r), models.Preferences{
		ShowAdultContent: *in.ShowAdultContent,
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Preferences{ShowAdultContent: prefs.ShowAdultContent})
}

func (h *Handlers) Notifications(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page")
	if err != nil {
		fail(w, r, err)
		return
	}

	limit, err := intQuery(r, "limit")
	if err != nil {
		fail(w, r, err)
		return
	}

	var unread bool
	if v := r.URL.Query().Get("unread"); v != "" {
		unread, err = strconv.ParseBool(v)
		if err != nil {
			fail(w, r, invalidArgument("unread must be a boolean"))
			return
		}
	}

	list, err := h.svc.Notifications(r.Context(), viewer(r), unread, page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NotificationsFromModel(list))
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.svc.MarkNotificationRead(r.Context(), viewer(r), id); err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MediaPresign(w http.ResponseWriter, r *http.Request) {
	var in dto.PresignRequest
	if err := h.bind(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	info, err := h.svc.MediaUploadURL(r.Context(), viewer(r), in.ContentType, in.Size)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PresignFromModel(info))
}
