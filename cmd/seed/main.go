// Command main runs the database seeder for LinkNet.
package main

import (
	"flag"
	"log"

	"linknet/internal/config"
	"linknet/internal/database"
	"linknet/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numConnections := flag.Int("connections", 150, "Number of connections to create")
	messagesPerConv := flag.Int("messages", 8, "Maximum messages per conversation")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d connections, clean=%v\n", *numUsers, *numConnections, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(database.DB, seed.Options{
		NumUsers:        *numUsers,
		NumConnections:  *numConnections,
		MessagesPerConv: *messagesPerConv,
		ShouldClean:     *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
}
