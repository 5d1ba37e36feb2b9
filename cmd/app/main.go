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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"papertrade/configs"
	"papertrade/internal/adapter"
	"papertrade/internal/database"
	delivery "papertrade/internal/delivery/http"
	"papertrade/internal/infra"
	"papertrade/internal/repository"
	"papertrade/internal/service"
	"papertrade/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	// Initialize quote provider
	quotes := adapter.NewQuoteClient(cfg.Quote.BaseURL, cfg.Quote.APIKey)

	// Initialize services
	positionService := service.NewPositionService(ledgerRepo, quotes)
	tradingService := usecase.NewTradingService(ledgerRepo, quotes)
	auditService := service.NewAuditService(userRepo, ledgerRepo)

	// Initialize handlers
	routerConfig := &delivery.RouterConfig{
		AuthHandler:      delivery.NewAuthHandler(userRepo, ledgerRepo, cfg.Trading.StartingCash),
		TradeHandler:     delivery.NewTradeHandler(tradingService),
		PortfolioHandler: delivery.NewPortfolioHandler(positionService, tradingService),
	}

	// Nightly ledger reconciliation: every stored balance must still be
	// derivable from cash events plus trades
	cronScheduler := cron.New()
	_, err = cronScheduler.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if failed, err := auditService.CheckAll(ctx); err != nil {
			log.Printf("ERROR: Ledger audit failed: %v", err)
		} else if failed > 0 {
			log.Printf("ERROR: Ledger audit found %d drifting account(s)", failed)
		}
	})
	if err != nil {
		log.Fatalf("Failed to add audit cron job: %v", err)
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Initialize HTTP server
	e := echo.New()
	e.HideBanner = true
	delivery.SetupRoutes(e, routerConfig)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Papertrade API starting on %s", addr)
	log.Printf("Environment: %s", cfg.Server.Env)
	log.Printf("Starting cash: $%s", cfg.Trading.StartingCash.StringFixed(2))

	// Run server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}
