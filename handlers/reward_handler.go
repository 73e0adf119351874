package handlers

import (
	"errors"
	"net/http"

	"github.com/amuzant/Crewmates/services"
)

type RewardHandler struct {
	rewardService services.RewardService
}

func NewRewardHandler(rewardService services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.rewardService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"rewards": rewards}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input services.CreateRewardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reward, err := h.rewardService.Create(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"reward": reward}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RewardHandler) Claim(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input struct {
		RewardID int `json:"rewardId"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.RewardID <= 0 {
		badRequestResponse(w, r, errors.New("rewardId is required"))
		return
	}

	result, err := h.rewardService.Claim(r.Context(), actor, input.RewardID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
