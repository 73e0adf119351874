package handlers

import (
	"net/http"

	"github.com/amuzant/Crewmates/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input services.CreateChatInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	chat, err := h.chatService.CreateGroup(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"chat": chat}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChatHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	chats, err := h.chatService.ListForUser(r.Context(), actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"chats": chats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChatHandler) CheckName(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	available, err := h.chatService.NameAvailable(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"available": available}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
