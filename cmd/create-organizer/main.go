package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/evalyhq/evaly-backend/internal/config"
	"github.com/evalyhq/evaly-backend/internal/database"
	"github.com/evalyhq/evaly-backend/internal/logger"
	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/evalyhq/evaly-backend/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	organizerRepo := repository.NewOrganizerRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Organizer ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Organization ID
	fmt.Print("Enter Organization ID (blank generates a new one): ")
	orgIDStr, _ := reader.ReadString('\n')
	orgIDStr = strings.TrimSpace(orgIDStr)
	orgID := uuid.New()
	if orgIDStr != "" {
		parsed, err := uuid.Parse(orgIDStr)
		if err != nil {
			fmt.Println("Error: Organization ID must be a UUID")
			return
		}
		orgID = parsed
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	newOrganizer := &model.Organizer{
		OrganizationID: orgID,
		Email:          email,
		Name:           name,
		PasswordHash:   string(hashedPassword),
	}

	// Create Organizer
	if err := organizerRepo.Create(ctx, newOrganizer); err != nil {
		log.Fatal().Err(err).Msg("Failed to create organizer")
	}

	fmt.Printf("\nSuccess! Organizer '%s' (%s) created with ID: %s in organization %s\n",
		newOrganizer.Name, newOrganizer.Email, newOrganizer.ID, newOrganizer.OrganizationID)
}
