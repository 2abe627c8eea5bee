package service

import (
	"context"
	"sort"
	"strings"

	"linknet/internal/cache"
	"linknet/internal/models"
	"linknet/internal/repository"
)

// MaxMessageLength caps message content size.
const MaxMessageLength = 2000

// MessageService provides conversation and messaging business logic.
type MessageService struct {
	convRepo repository.ConversationRepository
	userRepo repository.UserRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(convRepo repository.ConversationRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{
		convRepo: convRepo,
		userRepo: userRepo,
	}
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Message content cannot be empty")
	}
	if len(content) > MaxMessageLength {
		return models.NewValidationError("Message content cannot exceed 2000 characters")
	}
	return nil
}

func (s *MessageService) messageView(ctx context.Context, msg *models.Message) *models.MessageView {
	view := &models.MessageView{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		IsRead:         msg.IsRead,
		CreatedAt:      msg.CreatedAt,
	}
	if msg.Sender != nil {
		summary := msg.Sender.Summary()
		view.Sender = &summary
	} else if sender, err := s.userRepo.GetByID(ctx, msg.SenderID); err == nil {
		summary := sender.Summary()
		view.Sender = &summary
	}
	return view
}

// getOrCreateConversation returns the oldest conversation shared by the two
// users, creating one with both participants when none exists. Concurrent
// callers may create duplicates; lookups always pick the oldest, so traffic
// converges on one conversation.
func (s *MessageService) getOrCreateConversation(ctx context.Context, userID, peerID uint) (uint, error) {
	existing, err := s.convRepo.FindBetweenUsers(ctx, userID, peerID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	conv := &models.Conversation{}
	if err := s.convRepo.CreateConversation(ctx, conv); err != nil {
		return 0, err
	}
	if err := s.convRepo.AddParticipant(ctx, conv.ID, userID); err != nil {
		return 0, err
	}
	if err := s.convRepo.AddParticipant(ctx, conv.ID, peerID); err != nil {
		return 0, err
	}
	return conv.ID, nil
}

// SendMessageToPeer sends a message to another user, creating the conversation
// if needed.
func (s *MessageService) SendMessageToPeer(ctx context.Context, senderID, receiverID uint, content string) (*models.MessageView, error) {
	if senderID == receiverID {
		return nil, models.NewValidationError("Cannot send a message to yourself")
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	convID, err := s.getOrCreateConversation(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	return s.appendMessage(ctx, convID, senderID, content)
}

// SendMessage appends a message to an existing conversation the sender
// participates in.
func (s *MessageService) SendMessage(ctx context.Context, senderID, convID uint, content string) (*models.MessageView, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	ok, err := s.convRepo.IsParticipant(ctx, convID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewForbiddenError("Not a participant in this conversation")
	}
	return s.appendMessage(ctx, convID, senderID, content)
}

func (s *MessageService) appendMessage(ctx context.Context, convID, senderID uint, content string) (*models.MessageView, error) {
	msg := &models.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	participants, err := s.convRepo.ParticipantIDs(ctx, convID)
	if err == nil {
		for _, id := range participants {
			if id != senderID {
				cache.InvalidateUnread(ctx, id)
			}
		}
	}

	return s.messageView(ctx, msg), nil
}

// ListConversations returns the caller's conversations enriched with the other
// participants, the last message and the unread count, sorted by latest
// activity.
func (s *MessageService) ListConversations(ctx context.Context, userID uint) ([]models.ConversationView, error) {
	conversations, err := s.convRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ConversationView, 0, len(conversations))
	for i := range conversations {
		conv := &conversations[i]

		view := models.ConversationView{
			ID:           conv.ID,
			CreatedAt:    conv.CreatedAt,
			Participants: make([]models.UserSummary, 0, len(conv.Participants)),
		}
		for j := range conv.Participants {
			if conv.Participants[j].ID != userID {
				view.Participants = append(view.Participants, conv.Participants[j].Summary())
			}
		}

		last, err := s.convRepo.LastMessage(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			view.LastMessage = s.messageView(ctx, last)
		}

		unread, err := s.convRepo.UnreadCount(ctx, conv.ID, userID)
		if err != nil {
			return nil, err
		}
		view.UnreadCount = unread

		views = append(views, view)
	}

	// Latest activity first; conversations without messages sort by creation.
	sort.SliceStable(views, func(i, j int) bool {
		ti, tj := views[i].CreatedAt, views[j].CreatedAt
		if views[i].LastMessage != nil {
			ti = views[i].LastMessage.CreatedAt
		}
		if views[j].LastMessage != nil {
			tj = views[j].LastMessage.CreatedAt
		}
		return ti.After(tj)
	})

	return views, nil
}

// ListMessages returns a page of a conversation's messages, newest first.
func (s *MessageService) ListMessages(ctx context.Context, userID, convID uint, limit, offset int) ([]models.MessageView, error) {
	ok, err := s.convRepo.IsParticipant(ctx, convID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewForbiddenError("Not a participant in this conversation")
	}

	messages, err := s.convRepo.ListMessages(ctx, convID, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, 0, len(messages))
	for i := range messages {
		views = append(views, *s.messageView(ctx, &messages[i]))
	}
	return views, nil
}

// MarkConversationRead marks every message in the conversation not sent by the
// caller as read.
func (s *MessageService) MarkConversationRead(ctx context.Context, userID, convID uint) error {
	ok, err := s.convRepo.IsParticipant(ctx, convID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewForbiddenError("Not a participant in this conversation")
	}

	if _, err := s.convRepo.MarkConversationRead(ctx, convID, userID); err != nil {
		return err
	}
	cache.InvalidateUnread(ctx, userID)
	return nil
}

// MarkMessageRead marks a single message as read. Senders cannot mark their
// own messages.
func (s *MessageService) MarkMessageRead(ctx context.Context, userID, msgID uint) error {
	msg, err := s.convRepo.GetMessage(ctx, msgID)
	if err != nil {
		return err
	}
	if msg.SenderID == userID {
		return models.NewValidationError("Cannot mark own message as read")
	}

	ok, err := s.convRepo.IsParticipant(ctx, msg.ConversationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewForbiddenError("Not authorized")
	}

	if err := s.convRepo.MarkMessageRead(ctx, msgID); err != nil {
		return err
	}
	cache.InvalidateUnread(ctx, userID)
	return nil
}

// UnreadCount returns the caller's total unread messages across all
// conversations.
func (s *MessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := cache.Aside(ctx, cache.UnreadCountKey(userID), &count, cache.UnreadTTL, func() error {
		total, err := s.convRepo.TotalUnread(ctx, userID)
		if err != nil {
			return err
		}
		count = total
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LeaveConversation removes the caller from the conversation. When the last
// participant leaves, the conversation and its messages are deleted.
func (s *MessageService) LeaveConversation(ctx context.Context, userID, convID uint) error {
	ok, err := s.convRepo.IsParticipant(ctx, convID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewForbiddenError("Not a participant in this conversation")
	}

	if err := s.convRepo.RemoveParticipant(ctx, convID, userID); err != nil {
		return err
	}

	remaining, err := s.convRepo.CountParticipants(ctx, convID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := s.convRepo.DeleteConversation(ctx, convID); err != nil {
			return err
		}
	}

	cache.InvalidateUnread(ctx, userID)
	cache.InvalidateConversation(ctx, convID)
	return nil
}
