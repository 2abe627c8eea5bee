package models

import "time"

// Conversation is a private channel between a fixed set of participants.
// It owns its participant rows and messages; both are removed when the last
// participant leaves.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Participants []User    `gorm:"many2many:conversation_participants;" json:"-"`
	Messages     []Message `gorm:"foreignKey:ConversationID" json:"-"`
}

// TableName specifies the table name for GORM
func (Conversation) TableName() string {
	return "conversations"
}

// ConversationParticipant is the membership record linking a user to a
// conversation. It doubles as the GORM join table for Conversation.Participants.
type ConversationParticipant struct {
	ConversationID uint      `gorm:"primaryKey" json:"conversation_id"`
	UserID         uint      `gorm:"primaryKey" json:"user_id"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// TableName specifies the table name for GORM
func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

// Message is a single unit of conversation content. Content is immutable once
// created; is_read only ever flips from false to true.
type Message struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ConversationID uint       `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint       `gorm:"not null;index" json:"sender_id"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	IsRead         bool       `gorm:"default:false" json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"-"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// MessageView is the API response shape for a message.
type MessageView struct {
	ID             uint         `json:"id"`
	ConversationID uint         `json:"conversation_id"`
	SenderID       uint         `json:"sender_id"`
	Content        string       `json:"content"`
	IsRead         bool         `json:"is_read"`
	CreatedAt      time.Time    `json:"created_at"`
	Sender         *UserSummary `json:"sender,omitempty"`
}

// ConversationView is the API response shape for a conversation listing entry.
type ConversationView struct {
	ID           uint          `json:"id"`
	CreatedAt    time.Time     `json:"created_at"`
	Participants []UserSummary `json:"participants"`
	LastMessage  *MessageView  `json:"last_message,omitempty"`
	UnreadCount  int64         `json:"unread_count"`
}
