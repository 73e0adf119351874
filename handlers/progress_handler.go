package handlers

import (
	"net/http"

	"github.com/amuzant/Crewmates/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	projectID, err := idParam(r, "projectID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.progressService.ListByProject(r.Context(), actor, projectID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"progress": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProgressHandler) Post(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	projectID, err := idParam(r, "projectID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ProgressInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	progress, err := h.progressService.Post(r.Context(), actor, projectID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"progress": progress}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	projectID, err := idParam(r, "projectID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ProgressInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	progress, err := h.progressService.Update(r.Context(), actor, projectID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"progress": progress}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	projectID, err := idParam(r, "projectID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.progressService.Delete(r.Context(), actor, projectID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
