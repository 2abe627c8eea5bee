package repository

import (
	"context"
	"errors"
	"time"

	"linknet/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository defines the interface for conversation and message
// data operations
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversation(ctx context.Context, id uint) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error)
	FindBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Conversation, error)
	AddParticipant(ctx context.Context, convID, userID uint) error
	RemoveParticipant(ctx context.Context, convID, userID uint) error
	IsParticipant(ctx context.Context, convID, userID uint) (bool, error)
	ParticipantIDs(ctx context.Context, convID uint) ([]uint, error)
	CountParticipants(ctx context.Context, convID uint) (int64, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, msgID uint) (*models.Message, error)
	ListMessages(ctx context.Context, convID uint, limit, offset int) ([]models.Message, error)
	LastMessage(ctx context.Context, convID uint) (*models.Message, error)
	UnreadCount(ctx context.Context, convID, userID uint) (int64, error)
	TotalUnread(ctx context.Context, userID uint) (int64, error)
	MarkConversationRead(ctx context.Context, convID, userID uint) (int64, error)
	MarkMessageRead(ctx context.Context, msgID uint) error
	DeleteConversation(ctx context.Context, convID uint) error
}

// conversationRepository implements ConversationRepository
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *conversationRepository) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Participants").
		First(&conv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Conversation", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants cp ON conversations.id = cp.conversation_id").
		Where("cp.user_id = ?", userID).
		Preload("Participants").
		Order("conversations.updated_at DESC").
		Find(&conversations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conversations, nil
}

// FindBetweenUsers returns the oldest conversation both users participate in,
// or nil when none exists. Ordering by id keeps concurrent get-or-create
// callers converging on the same conversation.
func (r *conversationRepository) FindBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants p1 ON p1.conversation_id = conversations.id AND p1.user_id = ?", userID1).
		Joins("JOIN conversation_participants p2 ON p2.conversation_id = conversations.id AND p2.user_id = ?", userID2).
		Order("conversations.id ASC").
		First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

func (r *conversationRepository) AddParticipant(ctx context.Context, convID, userID uint) error {
	participant := models.ConversationParticipant{
		ConversationID: convID,
		UserID:         userID,
	}
	// Use OnConflict to silently ignore duplicate key errors
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&participant).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *conversationRepository) RemoveParticipant(ctx context.Context, convID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Delete(&models.ConversationParticipant{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *conversationRepository) IsParticipant(ctx context.Context, convID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *conversationRepository) ParticipantIDs(ctx context.Context, convID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ?", convID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *conversationRepository) CountParticipants(ctx context.Context, convID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ?", convID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// CreateMessage inserts the message and bumps the conversation's updated_at so
// conversation listings sort by latest activity.
func (r *conversationRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *conversationRepository) GetMessage(ctx context.Context, msgID uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).Preload("Sender").First(&msg, msgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", msgID)
		}
		return nil, models.NewInternalError(err)
	}
	return &msg, nil
}

// ListMessages returns messages newest first.
func (r *conversationRepository) ListMessages(ctx context.Context, convID uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Preload("Sender").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *conversationRepository) LastMessage(ctx context.Context, convID uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Preload("Sender").
		Order("created_at DESC").
		First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &msg, nil
}

// UnreadCount counts unread messages in the conversation sent by anyone other
// than userID.
func (r *conversationRepository) UnreadCount(ctx context.Context, convID, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", convID, userID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// TotalUnread counts unread messages addressed to userID across all their
// conversations.
func (r *conversationRepository) TotalUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = messages.conversation_id AND cp.user_id = ?", userID).
		Where("messages.sender_id != ? AND messages.is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// MarkConversationRead marks every unread message in the conversation not sent
// by userID as read. Returns the number of messages updated.
func (r *conversationRepository) MarkConversationRead(ctx context.Context, convID, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", convID, userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *conversationRepository) MarkMessageRead(ctx context.Context, msgID uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", msgID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now().UTC(),
		}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteConversation removes the conversation with its messages and
// participant rows in one transaction.
func (r *conversationRepository) DeleteConversation(ctx context.Context, convID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.ConversationParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Conversation{}, convID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
