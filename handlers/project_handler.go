package handlers

import (
	"errors"
	"net/http"

	"github.com/amuzant/Crewmates/services"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	projects, err := h.projectService.List(r.Context(), actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"projects": projects}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input services.CreateProjectInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	project, err := h.projectService.Create(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"project": project}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	project, err := h.projectService.GetByID(r.Context(), actor, projectID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"project": project}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.projectService.Delete(r.Context(), actor, projectID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		UserID int `json:"userId"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.UserID <= 0 {
		badRequestResponse(w, r, errors.New("userId is required"))
		return
	}

	if err := h.projectService.AddMember(r.Context(), actor, projectID, input.UserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	project, err := h.projectService.GetByID(r.Context(), actor, projectID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"project": project}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
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
	memberID, err := idParam(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.projectService.RemoveMember(r.Context(), actor, projectID, memberID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
