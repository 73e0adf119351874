package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

func TestCreateGroupChat(t *testing.T) {
	actor := Actor{UserID: 7, Role: models.RoleTeamMember}
	knownUsers := &fakeUserRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}

	t.Run("members are deduplicated and the creator excluded", func(t *testing.T) {
		var created []int
		chatRepo := &fakeChatRepo{
			CreateGroupFunc: func(ctx context.Context, chat *models.Chat, memberIDs []int) error {
				created = memberIDs
				chat.ID = 4
				return nil
			},
			IsMemberFunc: func(ctx context.Context, chatID, userID int) (bool, error) {
				return true, nil
			},
			GetByIDFunc: func(ctx context.Context, id int) (*models.Chat, error) {
				return &models.Chat{ID: id, Name: "design", CreatorID: 7}, nil
			},
			ListMembersFunc: func(ctx context.Context, chatID int) ([]models.ChatMember, error) {
				return []models.ChatMember{}, nil
			},
		}
		svc := NewChatService(chatRepo, &fakeMessageRepo{}, knownUsers)
		chat, err := svc.CreateGroup(context.Background(), actor, CreateChatInput{
			Name:      "design",
			MemberIDs: []int{8, 8, 7, 9},
		})
		require.NoError(t, err)
		assert.Equal(t, []int{8, 9}, created)
		assert.Equal(t, "design", chat.Name)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		chatRepo := &fakeChatRepo{
			CreateGroupFunc: func(ctx context.Context, chat *models.Chat, memberIDs []int) error {
				return repositories.ErrChatNameConflict
			},
		}
		svc := NewChatService(chatRepo, &fakeMessageRepo{}, knownUsers)
		_, err := svc.CreateGroup(context.Background(), actor, CreateChatInput{Name: "design"})
		assert.ErrorIs(t, err, ErrChatNameConflict)
	})

	t.Run("unknown member is rejected", func(t *testing.T) {
		userRepo := &fakeUserRepo{
			GetByIDFunc: func(ctx context.Context, id int) (*models.User, error) {
				return nil, repositories.ErrUserNotFound
			},
		}
		svc := NewChatService(&fakeChatRepo{}, &fakeMessageRepo{}, userRepo)
		_, err := svc.CreateGroup(context.Background(), actor, CreateChatInput{Name: "design", MemberIDs: []int{99}})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestChatNameAvailable(t *testing.T) {
	chatRepo := &fakeChatRepo{
		NameExistsFunc: func(ctx context.Context, name string) (bool, error) {
			return name == "design", nil
		},
	}
	svc := NewChatService(chatRepo, &fakeMessageRepo{}, &fakeUserRepo{})

	available, err := svc.NameAvailable(context.Background(), "design")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.NameAvailable(context.Background(), "  marketing  ")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.NameAvailable(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestListChatMessages(t *testing.T) {
	actor := Actor{UserID: 7, Role: models.RoleTeamMember}

	t.Run("non-member is refused", func(t *testing.T) {
		chatRepo := &fakeChatRepo{
			IsMemberFunc: func(ctx context.Context, chatID, userID int) (bool, error) {
				return false, nil
			},
		}
		svc := NewChatService(chatRepo, &fakeMessageRepo{}, &fakeUserRepo{})
		_, err := svc.ListMessages(context.Background(), actor, 4)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("member reads the history", func(t *testing.T) {
		chatRepo := &fakeChatRepo{
			IsMemberFunc: func(ctx context.Context, chatID, userID int) (bool, error) {
				return true, nil
			},
		}
		messageRepo := &fakeMessageRepo{
			ListByChatFunc: func(ctx context.Context, chatID int) ([]models.Message, error) {
				return []models.Message{{ID: 1, ChatID: &chatID}}, nil
			},
		}
		svc := NewChatService(chatRepo, messageRepo, &fakeUserRepo{})
		messages, err := svc.ListMessages(context.Background(), actor, 4)
		require.NoError(t, err)
		assert.Len(t, messages, 1)
	})
}
