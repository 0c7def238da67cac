package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "github.com/ishant212/NFT-AirBnB/internal/api/http"
	"github.com/ishant212/NFT-AirBnB/internal/asset"
	"github.com/ishant212/NFT-AirBnB/internal/config"
	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/escrow"
	"github.com/ishant212/NFT-AirBnB/internal/events"
	"github.com/ishant212/NFT-AirBnB/internal/jobs"
	"github.com/ishant212/NFT-AirBnB/internal/logger"
	"github.com/ishant212/NFT-AirBnB/internal/payment"
	"github.com/ishant212/NFT-AirBnB/internal/registry"
	"github.com/ishant212/NFT-AirBnB/internal/repository"
	"github.com/ishant212/NFT-AirBnB/internal/repository/memory"
	"github.com/ishant212/NFT-AirBnB/internal/repository/postgres"
	"github.com/ishant212/NFT-AirBnB/internal/scheduler"
	"github.com/ishant212/NFT-AirBnB/internal/security"
	"github.com/ishant212/NFT-AirBnB/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting NFT rental marketplace...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "driver", cfg.Database.Driver)

	// Initialize Repositories
	var (
		listings repository.ListingRepository
		rentals  repository.RentalRepository
	)
	switch cfg.Database.Driver {
	case "postgres":
		logger.Debug("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db)
		listings = store.Listings
		rentals = store.Rentals
	default:
		logger.Info("Using in-memory store")
		store := memory.NewStore()
		listings = store.Listings
		rentals = store.Rentals
	}

	// Initialize Event Publisher
	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		logger.Info("Publishing events to Kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		logger.Info("Kafka disabled, recording events in memory")
		publisher = events.NewRecorder()
	}
	defer publisher.Close()

	// Initialize Custody, Rights, Bank
	custody := asset.NewCustody()
	rights := registry.NewRights(publisher)
	bank := payment.NewBank()
	ledger := escrow.NewLedger(rentals)
	payAdapter := payment.NewBankAdapter(bank, payment.EscrowAccount)

	// Rebuild usage grants and escrow holdings from rentals that survive a
	// restart
	active, err := rentals.ListActive(context.Background(), service.SystemClock().Unix())
	if err != nil {
		logger.Error("Failed to load active rentals", "error", err)
		log.Fatalf("Failed to load active rentals: %v", err)
	}
	for _, rt := range active {
		rights.Restore(rt.Asset, rt.Renter, rt.Expiry)
	}
	if len(active) > 0 {
		logger.Info("Restored usage grants", "count", len(active))
	}
	restored, err := ledger.RestoreHoldings(context.Background(), bank, payment.EscrowAccount, service.SystemClock().Unix())
	if err != nil {
		logger.Error("Failed to restore escrowed deposits", "error", err)
		log.Fatalf("Failed to restore escrowed deposits: %v", err)
	}
	if restored > 0 {
		logger.Info("Restored escrowed deposits", "count", restored)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Services
	marketplaceSvc := service.NewMarketplaceService(
		listings,
		rentals,
		custody,
		rights,
		ledger,
		payAdapter,
		publisher,
		service.FeeConfig{
			FeeBps:       cfg.Fees.FeeBps,
			FeeRecipient: domain.Address(cfg.Fees.FeeRecipient),
		},
		service.SystemClock,
	)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(rentals, marketplaceSvc, cfg, service.SystemClock)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Set up HTTP server
	handler := httpapi.NewMarketplaceHandler(marketplaceSvc, bank, custody, tokenManager, payment.EscrowAccount)
	router := httpapi.NewRouter(handler, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
