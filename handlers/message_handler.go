package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amuzant/Crewmates/services"
)

type MessageHandler struct {
	messageService services.MessageService
	chatService    services.ChatService
}

func NewMessageHandler(messageService services.MessageService, chatService services.ChatService) *MessageHandler {
	return &MessageHandler{messageService: messageService, chatService: chatService}
}

// List returns a direct thread (?otherUserId=) or a group thread
// (?chatId=&isGroup=true).
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	query := r.URL.Query()
	if query.Get("isGroup") == "true" {
		chatID, err := strconv.Atoi(query.Get("chatId"))
		if err != nil || chatID <= 0 {
			badRequestResponse(w, r, errors.New("chatId is required for group threads"))
			return
		}
		messages, err := h.chatService.ListMessages(r.Context(), actor, chatID)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if err := writeJSON(w, http.StatusOK, jsonResponse{"messages": messages}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	otherUserID, err := strconv.Atoi(query.Get("otherUserId"))
	if err != nil || otherUserID <= 0 {
		badRequestResponse(w, r, errors.New("otherUserId is required for direct threads"))
		return
	}

	messages, err := h.messageService.ListDirect(r.Context(), actor, otherUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"messages": messages}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input services.SendMessageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	msg, err := h.messageService.Send(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"message": msg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MessageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	messageID, err := idParam(r, "messageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EditMessageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	msg, err := h.messageService.Edit(r.Context(), actor, messageID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": msg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	messageID, err := idParam(r, "messageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.messageService.Delete(r.Context(), actor, messageID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
