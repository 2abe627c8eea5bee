package seed

import (
	"fmt"
	"log"

	"linknet/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	NumConnections  int
	MessagesPerConv int
	ShouldClean     bool
}

// Seed populates the database with test data: users with professional
// profiles, a mesh of connections in assorted statuses, and message history
// between connected pairs.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d connections...", opts.NumUsers, opts.NumConnections)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	connections, err := createConnectionMesh(f, users, opts.NumConnections)
	if err != nil {
		return fmt.Errorf("failed to create connections: %w", err)
	}
	log.Printf("✓ %d connections created", len(connections))

	count, err := createConversations(f, connections, opts.MessagesPerConv)
	if err != nil {
		return fmt.Errorf("failed to create conversations: %w", err)
	}
	log.Printf("✓ %d conversations with message history created", count)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE messages, conversation_participants, conversations, connections, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a few well-known users so a fresh environment has
	// predictable logins.
	if count >= 3 {
		for _, name := range []string{"alice", "bob", "test"} {
			user, err := f.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// createConnectionMesh wires random user pairs together. Roughly 70% of the
// connections are accepted so the network feels established; the rest stay
// pending or declined. The unique pair index makes retries on collision safe.
func createConnectionMesh(f *Factory, users []*models.User, count int) ([]*models.Connection, error) {
	if len(users) < 2 {
		return nil, nil
	}

	statuses := []models.ConnectionStatus{
		models.ConnectionStatusAccepted,
		models.ConnectionStatusAccepted,
		models.ConnectionStatusAccepted,
		models.ConnectionStatusAccepted,
		models.ConnectionStatusAccepted,
		models.ConnectionStatusAccepted,
		models.ConnectionStatusAccepted,
		models.ConnectionStatusPending,
		models.ConnectionStatusPending,
		models.ConnectionStatusDeclined,
	}

	connections := make([]*models.Connection, 0, count)
	attempts := 0
	for len(connections) < count && attempts < count*10 {
		attempts++
		a := users[f.rand.Intn(len(users))]
		b := users[f.rand.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}

		status := statuses[f.rand.Intn(len(statuses))]
		conn, err := f.CreateConnection(a, b, status)
		if err != nil {
			// most likely a duplicate pair, pick another one
			continue
		}
		connections = append(connections, conn)
	}

	return connections, nil
}

// createConversations gives each accepted connection a conversation with a
// short back-and-forth message history.
func createConversations(f *Factory, connections []*models.Connection, messagesPerConv int) (int, error) {
	if messagesPerConv <= 0 {
		messagesPerConv = 8
	}

	count := 0
	for _, conn := range connections {
		if conn.Status != models.ConnectionStatusAccepted {
			continue
		}

		a := &models.User{ID: conn.RequesterID}
		b := &models.User{ID: conn.ReceiverID}
		conv, err := f.CreateConversation(a, b)
		if err != nil {
			return count, err
		}

		numMessages := 1 + f.rand.Intn(messagesPerConv)
		for i := 0; i < numMessages; i++ {
			sender := a
			if f.rand.Intn(2) == 1 {
				sender = b
			}
			read := f.rand.Float32() < 0.6
			if _, err := f.CreateMessage(conv, sender, func(m *models.Message) {
				m.IsRead = read
			}); err != nil {
				return count, err
			}
		}
		count++
	}

	return count, nil
}
