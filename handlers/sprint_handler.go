package handlers

import (
	"net/http"

	"github.com/amuzant/Crewmates/services"
)

type SprintHandler struct {
	sprintService services.SprintService
}

func NewSprintHandler(sprintService services.SprintService) *SprintHandler {
	return &SprintHandler{sprintService: sprintService}
}

func (h *SprintHandler) List(w http.ResponseWriter, r *http.Request) {
	sprints, err := h.sprintService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"sprints": sprints}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SprintHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSprintInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sprint, err := h.sprintService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"sprint": sprint}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SprintHandler) Get(w http.ResponseWriter, r *http.Request) {
	sprintID, err := idParam(r, "sprintID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sprint, err := h.sprintService.GetByID(r.Context(), sprintID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"sprint": sprint}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UnrankedProjects serves the candidate list for the ranking board.
func (h *SprintHandler) UnrankedProjects(w http.ResponseWriter, r *http.Request) {
	sprintID, err := idParam(r, "sprintID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	projects, err := h.sprintService.ListUnrankedProjects(r.Context(), sprintID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"projects": projects}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
