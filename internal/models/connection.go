package models

import (
	"time"

	"gorm.io/gorm"
)

// ConnectionStatus represents the status of a connection between two users.
type ConnectionStatus string

const (
	// ConnectionStatusPending indicates a request awaiting the receiver's answer.
	ConnectionStatusPending ConnectionStatus = "pending"
	// ConnectionStatusAccepted indicates an established connection.
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	// ConnectionStatusDeclined indicates the receiver declined the request.
	ConnectionStatusDeclined ConnectionStatus = "declined"
	// ConnectionStatusBlocked indicates the receiver blocked the requester.
	ConnectionStatusBlocked ConnectionStatus = "blocked"
)

// Valid reports whether s is one of the known connection statuses.
func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionStatusPending, ConnectionStatusAccepted, ConnectionStatusDeclined, ConnectionStatusBlocked:
		return true
	}
	return false
}

// Connection represents a directed request between two users that, once
// accepted, denotes a symmetric relationship. At most one row exists per
// unordered user pair; PairMinID/PairMaxID carry the canonical pair key so
// the unique index holds regardless of request direction.
type Connection struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;index" json:"requester_id"`
	ReceiverID  uint             `gorm:"not null;index" json:"receiver_id"`
	PairMinID   uint             `gorm:"not null;uniqueIndex:idx_connection_pair" json:"-"`
	PairMaxID   uint             `gorm:"not null;uniqueIndex:idx_connection_pair" json:"-"`
	Status      ConnectionStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relationships
	Requester User `gorm:"foreignKey:RequesterID" json:"-"`
	Receiver  User `gorm:"foreignKey:ReceiverID" json:"-"`
}

// TableName specifies the table name for GORM
func (Connection) TableName() string {
	return "connections"
}

// BeforeCreate fills the canonical pair key. The unique index on
// (pair_min_id, pair_max_id) is what makes duplicate requests in either
// direction fail atomically at the store.
func (c *Connection) BeforeCreate(_ *gorm.DB) error {
	c.PairMinID, c.PairMaxID = c.RequesterID, c.ReceiverID
	if c.PairMinID > c.PairMaxID {
		c.PairMinID, c.PairMaxID = c.PairMaxID, c.PairMinID
	}
	return nil
}

// ConnectionView is the API response shape for a connection, enriched with
// the requester, the receiver and "user" (the other party relative to the
// caller).
type ConnectionView struct {
	ID          uint             `json:"id"`
	RequesterID uint             `json:"requester_id"`
	ReceiverID  uint             `json:"receiver_id"`
	Status      ConnectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Requester   *UserSummary     `json:"requester,omitempty"`
	Receiver    *UserSummary     `json:"receiver,omitempty"`
	User        *UserSummary     `json:"user,omitempty"`
}
