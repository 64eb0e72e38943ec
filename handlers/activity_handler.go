package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mikesz88/ghostMammothsPB-sub000/services"
)

type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			badRequestResponse(w, r, errors.New("invalid limit parameter"))
			return
		}
		limit = parsed
	}

	entries, err := h.activityService.Recent(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"activity": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
