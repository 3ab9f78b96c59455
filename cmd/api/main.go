package main

import (
	"context"
	"fmt"
	"log"

	"hackathon-tracker/core"
)

func main() {
	cfg := core.Load()
	ctx := context.Background()

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := core.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	var sessions core.SessionStore
	switch cfg.SessionBackend {
	case "redis":
		redisClient, err := core.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer redisClient.Close()
		sessions = core.NewRedisSessionStore(redisClient)
	default:
		// Memory-resident registry: every session dies with the process.
		sessions = core.NewMemorySessionStore()
	}

	userRepo := core.NewPgUserRepository(db)
	hackathonRepo := core.NewPgHackathonRepository(db)
	auditRepo := core.NewPgAuditRepository(db)
	authService := core.NewAuthService(userRepo, sessions, cfg.BcryptCost)

	if err := core.BootstrapAdmin(ctx, userRepo, cfg); err != nil {
		log.Fatalf("bootstrap admin failed: %v", err)
	}

	router := core.NewRouter(cfg, authService, userRepo, hackathonRepo, auditRepo)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting api server on %s (sessions=%s)", addr, cfg.SessionBackend)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
