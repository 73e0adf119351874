package handlers

import (
	"net/http"

	"github.com/amuzant/Crewmates/services"
)

type PointsHandler struct {
	pointsService services.PointsService
}

func NewPointsHandler(pointsService services.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

// History returns the caller's own ledger, newest first.
func (h *PointsHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	entries, err := h.pointsService.History(r.Context(), actor.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"points": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PointsHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var input services.GrantPointsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.pointsService.Grant(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PointsHandler) Spin(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	result, err := h.pointsService.Spin(r.Context(), actor.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
