package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-funnel/internal/client"
	"checkout-funnel/internal/config"
	"checkout-funnel/internal/handler"
	"checkout-funnel/internal/repository"
	"checkout-funnel/internal/server"
	"checkout-funnel/internal/service"
	"checkout-funnel/internal/session"

	"cloud.google.com/go/storage"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(&cfg.Log)

	prices, err := service.NewPriceTable(&cfg.Pricing)
	if err != nil {
		logger.Error("Invalid pricing configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Session.Secret == "" {
		logger.Warn("SESSION_SECRET is not set; funnel sessions are signed with an empty key")
	}
	sessions := session.NewManager(cfg.Session.Secret, time.Duration(cfg.Session.TTLMinutes)*time.Minute)

	db := client.InitSqliteClient(cfg.DatabasePath)
	paypalClient := client.NewPaypalClient(&cfg.Paypal)
	subscriberClient := client.NewMailerLiteClient(&cfg.MailerLite, logger)

	// A storage client is optional: without one the download issuer serves
	// the static fallback link only.
	var storageClient *storage.Client
	if cfg.Storage.Bucket != "" {
		storageClient, err = storage.NewClient(context.Background())
		if err != nil {
			logger.Warn("Object storage unavailable, downloads will use the fallback link", "error", err)
			storageClient = nil
		}
	}
	downloads := client.NewDownloadLinkIssuer(storageClient, &cfg.Storage, logger)

	leadRepo := repository.NewLeadRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	deliveryService := service.NewDeliveryService(deliveryRepo, downloads, logger)
	checkoutService := service.NewCheckoutService(paypalClient, purchaseRepo, sessions, prices, logger)
	funnelService := service.NewFunnelService(
		paypalClient,
		purchaseRepo,
		deliveryService,
		sessions,
		prices,
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
		logger,
	)
	leadService := service.NewLeadService(leadRepo, subscriberClient, logger)

	paypalHandler := handler.NewPaypalHandler(checkoutService, &cfg.Paypal, logger)
	leadHandler := handler.NewLeadHandler(leadService, logger)
	funnelHandler := handler.NewFunnelHandler(funnelService, logger)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService, logger)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(paypalHandler, leadHandler, funnelHandler, deliveryHandler, sessions)

	logger.Info("Starting HTTP server", "addr", serverAddr, "environment", cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}

func newLogger(cfg *config.Log) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(h)
}
