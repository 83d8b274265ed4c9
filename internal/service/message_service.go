package service

import (
	"context"
	"log/slog"
	"strings"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/pkg"
	"Clubhouse_Hub/internal/repository"
)

// MessageService 私信：只有会话双方可以读写
type MessageService struct {
	store  repository.Store
	events pkg.EventPublisher
}

func NewMessageService(store repository.Store, events pkg.EventPublisher) *MessageService {
	if events == nil {
		events = pkg.NopPublisher{}
	}
	return &MessageService{store: store, events: events}
}

func (s *MessageService) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	return s.store.GetConversationsForUser(ctx, userID)
}

func (s *MessageService) StartConversation(ctx context.Context, userID, otherID string) (*model.Conversation, error) {
	if otherID == "" {
		return nil, invalid("user_id is required")
	}
	if otherID == userID {
		return nil, invalid("cannot start a conversation with yourself")
	}
	other, err := s.store.GetProfile(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, ErrNotFound
	}
	conv, err := s.store.GetOrCreateConversation(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	conv.OtherParticipant = other
	return conv, nil
}

func (s *MessageService) conversationFor(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	return conv, nil
}

func (s *MessageService) ListMessages(ctx context.Context, userID, conversationID string) ([]model.DirectMessage, error) {
	if _, err := s.conversationFor(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.store.GetMessagesByConversation(ctx, conversationID)
}

func (s *MessageService) SendMessage(ctx context.Context, userID, conversationID, body string) (*model.DirectMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalid("body is required")
	}
	conv, err := s.conversationFor(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	msg, err := s.store.AddMessage(ctx, &model.DirectMessage{
		ConversationID: conv.ID,
		SenderID:       userID,
		Body:           body,
	})
	if err != nil {
		return nil, err
	}

	ev := pkg.Event{
		Type: pkg.EventMessageSent,
		Key:  conv.ID,
		Payload: map[string]string{
			"message_id":   msg.ID,
			"sender_id":    userID,
			"recipient_id": conv.OtherOf(userID),
		},
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		slog.Warn("publish message event failed", "conversation_id", conv.ID, "error", err)
	}
	return msg, nil
}
