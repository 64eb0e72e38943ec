package handlers

import (
	"errors"
	"net/http"

	"github.com/mikesz88/ghostMammothsPB-sub000/middleware"
	"github.com/mikesz88/ghostMammothsPB-sub000/models"
	"github.com/mikesz88/ghostMammothsPB-sub000/services"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) FillCourt(w http.ResponseWriter, r *http.Request) {
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

	assignment, err := h.gameService.FillCourt(r.Context(), eventID, admin.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"assignment": assignment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type completeGameRequest struct {
	Winner string `json:"winner"`
}

func (h *GameHandler) CompleteGame(w http.ResponseWriter, r *http.Request) {
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
	assignmentID, err := urlParamInt(r, "assignmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input completeGameRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	winner, ok := models.ParseSide(input.Winner)
	if !ok {
		badRequestResponse(w, r, errors.New("winner must be side A or B"))
		return
	}

	result, err := h.gameService.CompleteGame(r.Context(), eventID, assignmentID, admin.ID, winner)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignments, err := h.gameService.ListActive(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignments": assignments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignments, err := h.gameService.ListHistory(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignments": assignments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
