package handlers

import (
	"net/http"

	"github.com/amuzant/Crewmates/services"
)

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rankingService services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

func (h *RankingHandler) List(w http.ResponseWriter, r *http.Request) {
	sprintID, err := idParam(r, "sprintID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rankings, err := h.rankingService.ListRankings(r.Context(), sprintID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"rankings": rankings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Submit records the sprint's final ranking board in one shot.
func (h *RankingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sprintID, err := idParam(r, "sprintID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Rankings []services.RankingInput `json:"rankings"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rankings, err := h.rankingService.SubmitRankings(r.Context(), sprintID, input.Rankings)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"rankings": rankings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RankingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	sprintID, err := idParam(r, "sprintID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	status, err := h.rankingService.CompleteSprint(r.Context(), sprintID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, status, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RankingHandler) Status(w http.ResponseWriter, r *http.Request) {
	sprintID, err := idParam(r, "sprintID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	status, err := h.rankingService.GetStatus(r.Context(), sprintID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, status, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
