package handlers

import (
	"errors"
	"net/http"

	"github.com/amuzant/Crewmates/services"
)

const maxPrizePhotoBytes = 10 << 20 // 10MB

type PrizeHandler struct {
	prizeService services.PrizeService
}

func NewPrizeHandler(prizeService services.PrizeService) *PrizeHandler {
	return &PrizeHandler{prizeService: prizeService}
}

func (h *PrizeHandler) List(w http.ResponseWriter, r *http.Request) {
	prizes, err := h.prizeService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"prizes": prizes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PrizeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePrizeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	prize, err := h.prizeService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"prize": prize}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PrizeHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	prizeID, err := idParam(r, "prizeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxPrizePhotoBytes); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, errors.New("photo file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	prize, err := h.prizeService.UploadPhoto(r.Context(), prizeID, header.Filename, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"prize": prize}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Unclaimed lists prizes the caller has won but not yet acknowledged.
func (h *PrizeHandler) Unclaimed(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	prizes, err := h.prizeService.ListUnacknowledged(r.Context(), actor.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"prizes": prizes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PrizeHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	prizeID, err := idParam(r, "prizeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	claim, err := h.prizeService.Acknowledge(r.Context(), prizeID, actor.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"prizeClaim": claim}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PrizeHandler) Claim(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	prizeID, err := idParam(r, "prizeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	claim, err := h.prizeService.Claim(r.Context(), prizeID, actor.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"prizeClaim": claim}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
