// Command bootstrap provisions a new organization and its first
// organization_admin account. The HTTP API can only create users inside
// an existing org, so this runs once per tenant.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"planivo-backend/internal/auth"
	"planivo-backend/internal/config"
	"planivo-backend/internal/models"
	"planivo-backend/internal/storage"
)

func main() {
	orgName := flag.String("org-name", "", "Organization display name")
	orgSlug := flag.String("org-slug", "", "Organization slug (unique)")
	email := flag.String("email", "", "Admin account email")
	firstName := flag.String("first-name", "Admin", "Admin first name")
	lastName := flag.String("last-name", "", "Admin last name")
	flag.Parse()

	if *orgName == "" || *orgSlug == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Print("Admin password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	if len(password) < 8 {
		log.Fatal("Password must be at least 8 characters")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := storage.NewStorage(db)

	org, err := store.GetOrganizationBySlug(ctx, *orgSlug)
	switch {
	case err == nil:
		log.Printf("Organization %q already exists (%s); adding admin to it", *orgSlug, org.ID)
	case errors.Is(err, storage.ErrOrgNotFound):
		org, err = store.CreateOrganization(ctx, models.CreateOrganizationInput{
			Name: *orgName,
			Slug: *orgSlug,
		})
		if err != nil {
			log.Fatalf("Failed to create organization: %v", err)
		}
		log.Printf("Created organization %s (%s)", org.Slug, org.ID)
	default:
		log.Fatalf("Failed to look up organization: %v", err)
	}

	existing, err := store.GetUserByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("Failed to look up user: %v", err)
	}
	if existing != nil {
		log.Fatalf("User %s already exists", *email)
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		OrgID:        org.ID,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         auth.RoleOrganizationAdmin,
		FirstName:    *firstName,
		LastName:     *lastName,
		IsActive:     true,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Created organization admin %s (%s)", user.Email, user.ID)
}
