package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-watchlist/internal/watchlist/config"
	delivery "golang-stock-watchlist/internal/watchlist/delivery/http"
	_ "golang-stock-watchlist/internal/watchlist/docs"
	"golang-stock-watchlist/internal/watchlist/repository"
	"golang-stock-watchlist/internal/watchlist/service"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/postgres"
	"golang-stock-watchlist/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the watchlist service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Watchlist Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	stockRepo := repository.NewStockRepository(db.DB)
	basicRepo := repository.NewStockBasicRepository(db.DB)
	kLineRepo := repository.NewDailyKLineRepository(db.DB)

	// Initialize services
	searchCacheTTL, err := time.ParseDuration(cfg.Watchlist.SearchCacheTTL)
	if err != nil {
		appLogger.Fatal("Invalid search cache TTL", logger.ErrorField(err))
	}
	pollingInterval, err := time.ParseDuration(cfg.Watchlist.PollingInterval)
	if err != nil {
		appLogger.Fatal("Invalid polling interval", logger.ErrorField(err))
	}

	nameResolver := service.NewNameResolver(basicRepo)
	stockSvc := service.NewStockService(stockRepo, basicRepo, kLineRepo, nameResolver,
		redisClient.Client, appLogger, searchCacheTTL, cfg.Watchlist.SearchMaxPerSecond)
	priceRefreshSvc, err := service.NewPriceRefreshService(stockRepo, kLineRepo, appLogger,
		cfg.Watchlist.PriceRefreshCron, pollingInterval)
	if err != nil {
		appLogger.Fatal("Failed to initialize price refresh service", logger.ErrorField(err))
	}

	// Seed sample data on first boot
	if cfg.Watchlist.SeedSampleData {
		seeder := service.NewSeeder(stockRepo, appLogger)
		if err := seeder.Run(ctx); err != nil {
			appLogger.Fatal("Failed to seed sample data", logger.ErrorField(err))
		}
	}

	// Start price refresh loop
	go priceRefreshSvc.Start(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	stockHandler := delivery.NewStockHandler(stockSvc, appLogger)
	stocksGroup := e.Group("/stocks")
	stockHandler.RegisterRoutes(stocksGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Stock Watchlist API
// @version 1.0
// @description REST backend for a personal stock watchlist.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{Use: "watchlist-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-watchlist.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing watchlist-service CLI: %s\n", err)
		os.Exit(1)
	}
}
