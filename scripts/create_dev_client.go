package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/config"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/database"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/services"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Parse command line flags
	role := flag.String("role", models.RoleAdmin, "User role (admin or user)")
	flag.Parse()

	if *role != models.RoleAdmin && *role != models.RoleUser {
		log.Fatalf("Unknown role %q, expected admin or user", *role)
	}

	_ = godotenv.Load()
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.InitDatabase(conf.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	ctx := context.Background()
	users := services.NewUserService(db)
	clients := services.NewClientService(db)

	// Determine client credentials based on role
	clientID := fmt.Sprintf("dev-%s-client", *role)
	clientSecret := fmt.Sprintf("dev-%s-secret-123", *role)

	// Check if client already exists
	if _, err := clients.GetClientByID(ctx, clientID); err == nil {
		fmt.Printf("Development client already exists for role '%s'!\n", *role)
		printUsage(clientID, clientSecret)
		return
	}

	user, err := userForRole(ctx, users, *role)
	if err != nil {
		log.Fatal("Failed to get user for role:", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash secret:", err)
	}

	client := &models.OAuthClient{
		ID:         clientID,
		Secret:     string(hash),
		Name:       fmt.Sprintf("Development %s Client", *role),
		Domain:     "http://localhost",
		UserID:     user.ID,
		Scopes:     "recipes:read recipes:write matching:read",
		GrantTypes: "client_credentials",
	}
	if err := clients.CreateClient(ctx, client); err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Printf("Development OAuth client created for role '%s'!\n", *role)
	fmt.Printf("User ID: %s\n", user.ID)
	printUsage(clientID, clientSecret)
}

func printUsage(clientID, clientSecret string) {
	fmt.Printf("Client ID: %s\n", clientID)
	fmt.Printf("Client Secret: %s\n", clientSecret)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://localhost:8080/api/v1/oauth/token \\\n")
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", clientID)
	fmt.Printf("  -d 'client_secret=%s'\n", clientSecret)
}

// userForRole gets or creates the development user owning the client
func userForRole(ctx context.Context, users services.UserService, role string) (*models.User, error) {
	email := fmt.Sprintf("%s@recipes.local", role)

	user, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		fmt.Printf("Found existing user: %s (ID: %s, Role: %s)\n", user.Email, user.ID, user.Role)
		return user, nil
	}
	if !errors.Is(err, services.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Email: email,
		Name:  fmt.Sprintf("%s User", role),
		Role:  role,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	fmt.Printf("Created new user: %s (ID: %s, Role: %s)\n", user.Email, user.ID, user.Role)
	return user, nil
}
