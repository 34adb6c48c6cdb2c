package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mercadito/internal/config"
	"mercadito/internal/database"
	"mercadito/internal/discount"
	"mercadito/internal/handler"
	"mercadito/internal/repository"
	"mercadito/internal/router"
	"mercadito/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting mercadito API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize discount code loader with S3 and local fallback
	fileLoader := discount.NewFileLoader(logger)
	var codeLoader discount.Loader

	if cfg.Discount.S3Enabled {
		s3Loader, err := discount.NewS3Loader(ctx, cfg.Discount.S3Bucket, cfg.Discount.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			codeLoader = fileLoader
		} else {
			codeLoader = discount.NewFallbackLoader(s3Loader, fileLoader, cfg.Discount.S3Prefix, true, logger)
		}
	} else {
		codeLoader = fileLoader
		logger.Info().Msg("using local file system for discount code files (S3 disabled)")
	}

	// Initialize discount code validator
	validatorConfig := &discount.ValidatorConfig{
		FilePaths:     cfg.Discount.FilePaths,
		MinMatchCount: cfg.Discount.MinMatchCount,
	}
	validator, err := discount.NewValidator(ctx, validatorConfig, codeLoader, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize discount validator: %w", err)
	}
	defer validator.Close()

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, catalogService, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, catalogService, validator, cfg.Currency.Default, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, orderHandler, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
