package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/config"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/database"
	appLogger "github.com/josesojo2828/Dgo-Byke-Server/internal/infra/logger"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/security"
	postgresrepo "github.com/josesojo2828/Dgo-Byke-Server/internal/repository/postgres"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := appLogger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() {
		_ = logr.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, logr)
	if err != nil {
		log.Fatalf("failed to init postgres: %v", err)
	}
	defer pool.Close()

	repos := postgresrepo.NewRepositories(pool)
	hasher := security.NewHasher(cfg.Auth.BcryptCost)

	seeder := seed.New(repos.Users, repos.Roles, repos.Permissions, hasher, logr)
	if err := seeder.Run(ctx, cfg.Seed); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	logr.Info("seed completed")
}
