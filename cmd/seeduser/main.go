// cmd/seeduser installs the built-in roles and creates or resets the admin user.
// Usage: SEED_ADMIN_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"context"
	"os"

	"avyyan/internal/config"
	"avyyan/internal/infra"
	"avyyan/internal/model"
	"avyyan/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	username := envOr("SEED_ADMIN_USERNAME", "admin")
	fullName := envOr("SEED_ADMIN_NAME", "Administrator")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		if cfg.IsProduction() {
			log.Fatal().Msg("SEED_ADMIN_PASSWORD is required in production")
		}
		password = "admin1234"
	}
	var email *string
	if e := os.Getenv("SEED_ADMIN_EMAIL"); e != "" {
		email = &e
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}
	ctx := context.Background()

	// Existing roles keep their edited permissions; admin always gets the wildcard back.
	for _, role := range model.DefaultRoles() {
		res := db.WithContext(ctx).Exec(`
			INSERT INTO roles (name, permissions, created_at, updated_at)
			VALUES (?, ?, NOW(), NOW())
			ON CONFLICT (name) DO NOTHING
		`, role.Name, role.Permissions)
		if res.Error != nil {
			log.Fatal().Err(res.Error).Str("role", role.Name).Msg("role insert error")
		}
	}
	if err := db.WithContext(ctx).Exec(
		`UPDATE roles SET permissions = ? WHERE name = ?`,
		model.DefaultRoles()[0].Permissions, model.RoleAdmin,
	).Error; err != nil {
		log.Fatal().Err(err).Msg("admin role update error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	result := db.WithContext(ctx).Exec(`
		INSERT INTO users (username, full_name, email, password_hash, role_name, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, true, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    full_name = EXCLUDED.full_name,
		    email = COALESCE(EXCLUDED.email, users.email),
		    role_name = EXCLUDED.role_name,
		    active = true,
		    updated_at = NOW()
	`, username, fullName, email, string(hash), model.RoleAdmin)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("user upsert error")
	}
	log.Info().Str("username", username).Int("roles", len(model.DefaultRoles())).Msg("seed complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
