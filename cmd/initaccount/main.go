package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chirper-app/gatekit/pkg/account"
	"github.com/chirper-app/gatekit/pkg/config"
	"github.com/chirper-app/gatekit/pkg/login"
)

type Config struct {
	Database config.DatabaseConfig
}

func main() {
	// Parse command line arguments
	email := flag.String("email", "", "Email for the new account (required)")
	name := flag.String("name", "", "Display name for the new account (required)")
	password := flag.String("password", "", "Password for the new account (required)")
	language := flag.String("language", "en", "Preferred language code")
	flag.Parse()

	if *email == "" || *name == "" || *password == "" {
		fmt.Println("Error: email, name, and password are required")
		flag.Usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	pool, err := pgxpool.New(context.Background(), cfg.Database.ToDatabaseURL())
	if err != nil {
		slog.Error("Failed creating dbpool", "db", cfg.Database.Database, "host", cfg.Database.Host, "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	hasher := login.NewBcryptHasher(0)
	hash, err := hasher.Hash(*password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		os.Exit(1)
	}

	repo := account.NewPostgresAccountRepository(pool)
	created, err := repo.Create(context.Background(), account.CreateAccountParams{
		Email:             *email,
		Name:              *name,
		PasswordHash:      hash,
		PreferredLanguage: *language,
	})
	if err != nil {
		slog.Error("Failed to create account", "email", *email, "error", err)
		os.Exit(1)
	}

	slog.Info("Account created successfully", "email", created.Email, "id", created.ID)
}
