package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

func intPtr(v int) *int { return &v }

func TestSendMessage(t *testing.T) {
	knownUsers := &fakeUserRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, Username: "someone"}, nil
		},
	}
	actor := Actor{UserID: 7, Role: models.RoleTeamMember}

	t.Run("direct message reaches the receiver", func(t *testing.T) {
		messageRepo := &fakeMessageRepo{
			CreateFunc: func(ctx context.Context, msg *models.Message) error {
				msg.ID = 11
				return nil
			},
		}
		svc := NewMessageService(messageRepo, &fakeChatRepo{}, knownUsers)
		msg, err := svc.Send(context.Background(), actor, SendMessageInput{Content: "hello", ReceiverID: intPtr(8)})
		require.NoError(t, err)
		assert.Equal(t, 7, msg.SenderID)
		require.NotNil(t, msg.ReceiverID)
		assert.Equal(t, 8, *msg.ReceiverID)
		assert.False(t, msg.IsGroupMessage)
	})

	t.Run("group message requires membership", func(t *testing.T) {
		chatRepo := &fakeChatRepo{
			IsMemberFunc: func(ctx context.Context, chatID, userID int) (bool, error) {
				return false, nil
			},
		}
		svc := NewMessageService(&fakeMessageRepo{}, chatRepo, knownUsers)
		_, err := svc.Send(context.Background(), actor, SendMessageInput{Content: "hello", ChatID: intPtr(3)})
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("both targets set is rejected", func(t *testing.T) {
		svc := NewMessageService(&fakeMessageRepo{}, &fakeChatRepo{}, knownUsers)
		_, err := svc.Send(context.Background(), actor, SendMessageInput{Content: "hello", ReceiverID: intPtr(8), ChatID: intPtr(3)})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("no target set is rejected", func(t *testing.T) {
		svc := NewMessageService(&fakeMessageRepo{}, &fakeChatRepo{}, knownUsers)
		_, err := svc.Send(context.Background(), actor, SendMessageInput{Content: "hello"})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("blank content is rejected", func(t *testing.T) {
		svc := NewMessageService(&fakeMessageRepo{}, &fakeChatRepo{}, knownUsers)
		_, err := svc.Send(context.Background(), actor, SendMessageInput{Content: "  ", ReceiverID: intPtr(8)})
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("unknown receiver is rejected", func(t *testing.T) {
		userRepo := &fakeUserRepo{
			GetByIDFunc: func(ctx context.Context, id int) (*models.User, error) {
				return nil, repositories.ErrUserNotFound
			},
		}
		svc := NewMessageService(&fakeMessageRepo{}, &fakeChatRepo{}, userRepo)
		_, err := svc.Send(context.Background(), actor, SendMessageInput{Content: "hello", ReceiverID: intPtr(99)})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestEditMessage(t *testing.T) {
	actor := Actor{UserID: 7, Role: models.RoleTeamMember}

	t.Run("only the sender's message is updated", func(t *testing.T) {
		messageRepo := &fakeMessageRepo{
			UpdateContentFunc: func(ctx context.Context, id, senderID int, content string, at time.Time) (*models.Message, error) {
				assert.Equal(t, 11, id)
				assert.Equal(t, 7, senderID)
				return &models.Message{ID: id, SenderID: senderID, Content: content, UpdatedAt: at}, nil
			},
		}
		svc := NewMessageService(messageRepo, &fakeChatRepo{}, &fakeUserRepo{})
		msg, err := svc.Edit(context.Background(), actor, 11, EditMessageInput{Content: "updated"})
		require.NoError(t, err)
		assert.Equal(t, "updated", msg.Content)
		assert.False(t, msg.UpdatedAt.IsZero())
	})

	t.Run("someone else's message is not found", func(t *testing.T) {
		messageRepo := &fakeMessageRepo{
			UpdateContentFunc: func(ctx context.Context, id, senderID int, content string, at time.Time) (*models.Message, error) {
				return nil, repositories.ErrMessageNotFound
			},
		}
		svc := NewMessageService(messageRepo, &fakeChatRepo{}, &fakeUserRepo{})
		_, err := svc.Edit(context.Background(), actor, 11, EditMessageInput{Content: "updated"})
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})
}
