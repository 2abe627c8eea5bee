// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"linknet/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User` with a filled-in
// professional profile. Optional override functions may modify the generated
// user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:        gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:           gofakeit.Email(),
		FirstName:       gofakeit.FirstName(),
		LastName:        gofakeit.LastName(),
		AvatarURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Headline:        gofakeit.JobTitle() + " at " + gofakeit.Company(),
		CurrentPosition: gofakeit.JobTitle(),
		CurrentCompany:  gofakeit.Company(),
		Industry:        gofakeit.BuzzWord(),
		IsActive:        true,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateConnection persists a connection between two users with the given
// status. The pair index rejects a second row for the same two users.
func (f *Factory) CreateConnection(requester, receiver *models.User, status models.ConnectionStatus) (*models.Connection, error) {
	conn := &models.Connection{
		RequesterID: requester.ID,
		ReceiverID:  receiver.ID,
		Status:      status,
	}
	if err := f.db.Create(conn).Error; err != nil {
		return nil, err
	}
	return conn, nil
}

// CreateConversation persists a conversation with the given participants.
func (f *Factory) CreateConversation(participants ...*models.User) (*models.Conversation, error) {
	conv := &models.Conversation{}
	if err := f.db.Create(conv).Error; err != nil {
		return nil, err
	}
	for _, p := range participants {
		row := &models.ConversationParticipant{ConversationID: conv.ID, UserID: p.ID}
		if err := f.db.Create(row).Error; err != nil {
			return nil, err
		}
	}
	return conv, nil
}

// CreateMessage constructs and persists a sample `models.Message` in the
// provided conversation from the provided sender.
func (f *Factory) CreateMessage(conversation *models.Conversation, sender *models.User, overrides ...func(*models.Message)) (*models.Message, error) {
	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       sender.ID,
		Content:        gofakeit.Sentence(10),
	}

	// realistic created_at spread over the last two weeks
	daysBack := f.rand.Intn(14)
	minsBack := f.rand.Intn(24 * 60)
	message.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(message)
	}

	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}
