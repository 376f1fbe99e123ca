package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ekthaa/customer-client/internal/api"
	"github.com/ekthaa/customer-client/internal/config"
	"github.com/ekthaa/customer-client/internal/repository"
	"github.com/ekthaa/customer-client/internal/service"
	"github.com/ekthaa/customer-client/internal/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	seed := flag.Bool("seed", false, "create demo accounts, businesses, products and offers")
	uploadDir := flag.String("uploads", "", "directory for receipt photos (default: a temp dir)")
	flag.Parse()

	// Load configuration
	cfg := config.LoadConfig()
	logger := utils.NewLogger()

	// Create repository
	var repo repository.Repository
	switch cfg.Server.Store {
	case "postgres":
		db, err := config.SetupDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to set up database: %v", err)
		}
		defer db.Close()
		repo = repository.NewPostgresRepository(db)
	case "memory":
		repo = repository.NewMemoryRepository()
	default:
		log.Fatalf("Unknown SANDBOX_STORE %q (want memory or postgres)", cfg.Server.Store)
	}

	if *seed {
		res, err := service.Seed(context.Background(), repo, time.Now())
		if err != nil {
			log.Fatalf("Failed to seed: %v", err)
		}
		logger.Info("Seeded customer %s and merchant %s (password %q)", res.Customer.Phone, res.Merchant.Phone, service.DemoPassword)
		for _, b := range res.Businesses {
			logger.Info("Business %q access PIN %s", b.Name, b.AccessPIN)
		}
	}

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)

	// Create API handler
	handler := api.NewHandler(svc, logger, *uploadDir)

	// Set up Gin router
	router := gin.Default()

	// Add middleware for JWT secret
	router.Use(api.JWTSecretMiddleware([]byte(cfg.Auth.JWTSecret)))

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting sandbox on %s with %s store", serverAddr, cfg.Server.Store)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
