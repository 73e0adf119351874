package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

type CreateChatInput struct {
	Name      string `json:"name"`
	MemberIDs []int  `json:"memberIds"`
}

type ChatService interface {
	CreateGroup(ctx context.Context, actor Actor, input CreateChatInput) (*models.Chat, error)
	GetByID(ctx context.Context, actor Actor, chatID int) (*models.Chat, error)
	ListForUser(ctx context.Context, actor Actor) ([]models.Chat, error)
	ListMessages(ctx context.Context, actor Actor, chatID int) ([]models.Message, error)
	NameAvailable(ctx context.Context, name string) (bool, error)
}

type chatService struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// CreateGroup makes a named group chat with the actor as its admin. Group
// names are globally unique.
func (s *chatService) CreateGroup(ctx context.Context, actor Actor, input CreateChatInput) (*models.Chat, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrMissingFields
	}

	members := make([]int, 0, len(input.MemberIDs))
	seen := map[int]bool{actor.UserID: true}
	for _, id := range input.MemberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		members = append(members, id)
	}

	chat := &models.Chat{Name: input.Name, CreatorID: actor.UserID}
	if err := s.chatRepo.CreateGroup(ctx, chat, members); err != nil {
		if errors.Is(err, repositories.ErrChatNameConflict) {
			return nil, ErrChatNameConflict
		}
		return nil, fmt.Errorf("failed to create group chat: %w", err)
	}

	return s.GetByID(ctx, actor, chat.ID)
}

func (s *chatService) GetByID(ctx context.Context, actor Actor, chatID int) (*models.Chat, error) {
	member, err := s.chatRepo.IsMember(ctx, chatID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !member && !actor.IsAdmin() {
		return nil, ErrForbiddenOperation
	}

	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repositories.ErrChatNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	chatMembers, err := s.chatRepo.ListMembers(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat members: %w", err)
	}
	chat.Members = chatMembers
	return chat, nil
}

func (s *chatService) ListForUser(ctx context.Context, actor Actor) ([]models.Chat, error) {
	chats, err := s.chatRepo.ListForUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	return chats, nil
}

func (s *chatService) NameAvailable(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrMissingFields
	}
	exists, err := s.chatRepo.NameExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to check group name: %w", err)
	}
	return !exists, nil
}

func (s *chatService) ListMessages(ctx context.Context, actor Actor, chatID int) ([]models.Message, error) {
	member, err := s.chatRepo.IsMember(ctx, chatID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbiddenOperation
	}

	messages, err := s.messageRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}
