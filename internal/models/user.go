// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a member of the network.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Username        string    `gorm:"uniqueIndex;not null" json:"username"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	AvatarURL       string    `json:"avatar_url"`
	Headline        string    `json:"headline"`
	CurrentPosition string    `json:"current_position"`
	CurrentCompany  string    `json:"current_company"`
	Industry        string    `json:"industry"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserSummary is the display projection of a user attached to connections,
// conversations and messages.
type UserSummary struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	AvatarURL       string `json:"avatar_url"`
	Headline        string `json:"headline"`
	CurrentPosition string `json:"current_position"`
	CurrentCompany  string `json:"current_company"`
}

// Summary returns the display projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		AvatarURL:       u.AvatarURL,
		Headline:        u.Headline,
		CurrentPosition: u.CurrentPosition,
		CurrentCompany:  u.CurrentCompany,
	}
}
