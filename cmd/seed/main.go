package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/arielgp/secrets-service/config"
	"github.com/arielgp/secrets-service/internal/application"
	pginfra "github.com/arielgp/secrets-service/internal/infrastructure/postgres"
	"github.com/arielgp/secrets-service/pkg/helpers"
)

// Seeds a demo account through the real registration pipeline so the stored
// secret goes through the same hash-then-encrypt write path as production.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	cipher, err := helpers.NewCredentialCipher(cfg.CipherSecret)
	if err != nil {
		log.Fatalf("failed to init credential cipher: %v", err)
	}
	svc := application.NewAuthService(
		pginfra.NewUserRepository(pool),
		cipher,
		helpers.NewPasswordHasher(cfg.BcryptCost),
		logger,
	)

	email, password := "demo@example.com", "password123"
	u, err := svc.RegisterLocal(ctx, email, password)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)
}
