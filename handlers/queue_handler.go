package handlers

import (
	"net/http"

	"github.com/mikesz88/ghostMammothsPB-sub000/middleware"
	"github.com/mikesz88/ghostMammothsPB-sub000/services"
)

type QueueHandler struct {
	queueService services.QueueService
}

func NewQueueHandler(queueService services.QueueService) *QueueHandler {
	return &QueueHandler{queueService: queueService}
}

func (h *QueueHandler) Join(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.JoinQueueInput
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	entries, err := h.queueService.Join(r.Context(), eventID, user.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"entries": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *QueueHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.queueService.Leave(r.Context(), eventID, user.ID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QueueHandler) Remove(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.UserFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := urlParamInt(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.queueService.Remove(r.Context(), eventID, userID, admin.ID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.queueService.List(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"queue": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
