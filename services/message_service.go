package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

type SendMessageInput struct {
	Content    string `json:"content"`
	ReceiverID *int   `json:"receiverId,omitempty"`
	ChatID     *int   `json:"chatId,omitempty"`
}

type EditMessageInput struct {
	Content string `json:"content"`
}

type MessageService interface {
	Send(ctx context.Context, actor Actor, input SendMessageInput) (*models.Message, error)
	ListDirect(ctx context.Context, actor Actor, otherUserID int) ([]models.Message, error)
	Edit(ctx context.Context, actor Actor, messageID int, input EditMessageInput) (*models.Message, error)
	Delete(ctx context.Context, actor Actor, messageID int) error
}

type messageService struct {
	messageRepo repositories.MessageRepository
	chatRepo    repositories.ChatRepository
	userRepo    repositories.UserRepository
	now         func() time.Time
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// Send persists a direct or group message. Exactly one of receiverId and
// chatId must be set; group sends require chat membership.
func (s *messageService) Send(ctx context.Context, actor Actor, input SendMessageInput) (*models.Message, error) {
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return nil, ErrMissingFields
	}
	if (input.ReceiverID == nil) == (input.ChatID == nil) {
		return nil, ErrValidationFailed
	}

	msg := &models.Message{
		Content:  input.Content,
		SenderID: actor.UserID,
	}

	switch {
	case input.ReceiverID != nil:
		if _, err := s.userRepo.GetByID(ctx, *input.ReceiverID); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		msg.ReceiverID = input.ReceiverID
	case input.ChatID != nil:
		member, err := s.chatRepo.IsMember(ctx, *input.ChatID, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, ErrForbiddenOperation
		}
		msg.ChatID = input.ChatID
		msg.IsGroupMessage = true
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if sender, err := s.userRepo.GetByID(ctx, actor.UserID); err == nil {
		ref := sender.Ref()
		msg.Sender = &ref
	}
	return msg, nil
}

func (s *messageService) ListDirect(ctx context.Context, actor Actor, otherUserID int) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, otherUserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	messages, err := s.messageRepo.ListDirect(ctx, actor.UserID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// Edit rewrites the content of the actor's own message.
func (s *messageService) Edit(ctx context.Context, actor Actor, messageID int, input EditMessageInput) (*models.Message, error) {
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return nil, ErrMissingFields
	}

	msg, err := s.messageRepo.UpdateContent(ctx, messageID, actor.UserID, input.Content, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to edit message: %w", err)
	}
	return msg, nil
}

// Delete tombstones the actor's own message. The row stays for history but
// is excluded from reads.
func (s *messageService) Delete(ctx context.Context, actor Actor, messageID int) error {
	if err := s.messageRepo.SoftDelete(ctx, messageID, actor.UserID); err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
