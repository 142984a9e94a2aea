package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dibyendu02/eMadhyam-backend/config"
	"github.com/dibyendu02/eMadhyam-backend/internal/delivery"
	"github.com/dibyendu02/eMadhyam-backend/internal/events"
	"github.com/dibyendu02/eMadhyam-backend/internal/middleware"
	"github.com/dibyendu02/eMadhyam-backend/internal/payment"
	"github.com/dibyendu02/eMadhyam-backend/internal/repository"
	"github.com/dibyendu02/eMadhyam-backend/internal/usecase"
)

func main() {
	cfg := config.LoadConfig()

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.Info("Starting eMadhyam backend...")
	logger.Infof("Log level set to: %s", logLevel.String())

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	database, closeDB, err := repository.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := closeDB(); err != nil {
			logger.Errorf("Error closing MongoDB connection: %v", err)
		}
	}()
	logger.Info("Database connection established.")

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// --- Repositories ---
	orderRepo, err := repository.NewMongoOrderRepository(startupCtx, database, logger)
	if err != nil {
		logger.Fatalf("FATAL: Failed to initialize order repository: %v", err)
	}
	userRepo, err := repository.NewMongoUserRepository(startupCtx, database, logger)
	if err != nil {
		logger.Fatalf("FATAL: Failed to initialize user repository: %v", err)
	}
	productRepo := repository.NewMongoProductRepository(database, logger)
	categoryRepo := repository.NewMongoTaxonomyRepository(database, "categories", "category", logger)
	colorRepo := repository.NewMongoTaxonomyRepository(database, "colortypes", "color type", logger)
	plantTypeRepo := repository.NewMongoTaxonomyRepository(database, "planttypes", "plant type", logger)
	productTypeRepo := repository.NewMongoTaxonomyRepository(database, "producttypes", "product type", logger)
	bannerRepo := repository.NewMongoBannerRepository(database, logger)
	logger.Info("Repositories initialized.")

	// Legacy carts stored product ids as plain strings; fold them into
	// quantity-tagged items once at startup.
	migrated, err := userRepo.MigrateLegacyCarts(startupCtx)
	if err != nil {
		logger.Fatalf("FATAL: Cart migration failed: %v", err)
	}
	if migrated > 0 {
		logger.Infof("Migrated %d legacy carts to tagged items", migrated)
	}

	// --- External services ---
	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger)

	var publisher events.Publisher
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNatsPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.Warnf("Failed to connect to NATS at %s, order events disabled: %v", cfg.NATSURL, err)
			publisher = events.NoopPublisher{}
		} else {
			publisher = natsPublisher
		}
	} else {
		logger.Info("NATS_URL not set, order events disabled")
		publisher = events.NoopPublisher{}
	}
	defer publisher.Close()

	// --- Use cases ---
	orderUseCase := usecase.NewOrderUseCase(orderRepo, userRepo, productRepo, gateway, usecase.Secrets{
		KeySecret:     cfg.RazorpayKeySecret,
		WebhookSecret: cfg.RazorpayWebhookSecret,
	}, publisher, logger)
	userUseCase := usecase.NewUserUseCase(userRepo, productRepo, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, categoryRepo, logger)
	categoryUseCase := usecase.NewTaxonomyUseCase(categoryRepo, "category", logger)
	colorUseCase := usecase.NewTaxonomyUseCase(colorRepo, "color type", logger)
	plantTypeUseCase := usecase.NewTaxonomyUseCase(plantTypeRepo, "plant type", logger)
	productTypeUseCase := usecase.NewTaxonomyUseCase(productTypeRepo, "product type", logger)
	bannerUseCase := usecase.NewBannerUseCase(bannerRepo, logger)
	logger.Info("Use cases initialized.")

	// --- HTTP surface ---
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	delivery.NewOrderHandler(orderUseCase, logger).RegisterRoutes(router, cfg.JWTSecret)
	delivery.NewUserHandler(userUseCase, cfg.JWTSecret, logger).RegisterRoutes(router)
	delivery.NewProductHandler(productUseCase, logger).RegisterRoutes(router, cfg.JWTSecret)
	delivery.NewTaxonomyHandler(categoryUseCase, "category", logger).RegisterRoutes(router, cfg.JWTSecret)
	delivery.NewTaxonomyHandler(colorUseCase, "colortype", logger).RegisterRoutes(router, cfg.JWTSecret)
	delivery.NewTaxonomyHandler(plantTypeUseCase, "planttype", logger).RegisterRoutes(router, cfg.JWTSecret)
	delivery.NewTaxonomyHandler(productTypeUseCase, "producttype", logger).RegisterRoutes(router, cfg.JWTSecret)
	delivery.NewBannerHandler(bannerUseCase, logger).RegisterRoutes(router, cfg.JWTSecret)
	logger.Info("Routes registered.")

	server := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("FATAL: Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received, draining connections...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shut down: %v", err)
	}
	logger.Info("Server stopped.")
}
