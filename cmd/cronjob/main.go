package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

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
	"github.com/ishant212/NFT-AirBnB/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sweep-refundable-deposits')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting marketplace cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize Repositories
	var rentals repository.RentalRepository
	var listings repository.ListingRepository
	switch cfg.Database.Driver {
	case "postgres":
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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
		rentals = store.Rentals
		listings = store.Listings
	default:
		logger.Info("Using in-memory store")
		store := memory.NewStore()
		rentals = store.Rentals
		listings = store.Listings
	}

	// Initialize Event Publisher
	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		publisher = events.NewRecorder()
	}
	defer publisher.Close()

	// Initialize Services
	bank := payment.NewBank()
	ledger := escrow.NewLedger(rentals)

	// Escrowed deposits live in the persisted ledger; credit them to this
	// process's bank mirror so refunds can actually disburse.
	restored, err := ledger.RestoreHoldings(context.Background(), bank, payment.EscrowAccount, service.SystemClock().Unix())
	if err != nil {
		logger.Error("Failed to restore escrowed deposits", "error", err)
		log.Fatalf("Failed to restore escrowed deposits: %v", err)
	}
	if restored > 0 {
		logger.Info("Restored escrowed deposits", "count", restored)
	}
	marketplaceSvc := service.NewMarketplaceService(
		listings,
		rentals,
		asset.NewCustody(),
		registry.NewRights(publisher),
		ledger,
		payment.NewBankAdapter(bank, payment.EscrowAccount),
		publisher,
		service.FeeConfig{
			FeeBps:       cfg.Fees.FeeBps,
			FeeRecipient: domain.Address(cfg.Fees.FeeRecipient),
		},
		service.SystemClock,
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(rentals, marketplaceSvc, cfg, service.SystemClock)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "sweep-refundable-deposits":
		jobRunner.SweepRefundableDeposits()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - sweep-refundable-deposits\n")
		os.Exit(1)
	}
}
