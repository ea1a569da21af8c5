package main

import (
	"context"
	"log"

	"github.com/xodiumx/foodgram/config"
	"github.com/xodiumx/foodgram/internal/database"
	"github.com/xodiumx/foodgram/internal/server"
	"github.com/xodiumx/foodgram/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional: without it rate limiting and the token blacklist
	// are disabled but the API still serves.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, continuing without it: %v", err)
		redisClient = nil
	}

	var imageStore service.ImageStore
	if cfg.AWSRegion != "" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Printf("S3 unavailable, image uploads disabled: %v", err)
		} else {
			if err := s3cfg.SetupBucketPolicy(context.Background()); err != nil {
				log.Printf("Failed to apply bucket policy: %v", err)
			}
			imageStore = service.NewS3ImageStore(s3cfg)
		}
	}

	srv := server.NewServer(db, redisClient, cfg.JWTSecret, imageStore)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := srv.Start(cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
