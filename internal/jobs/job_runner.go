package jobs

import (
	"github.com/ishant212/NFT-AirBnB/internal/config"
	"github.com/ishant212/NFT-AirBnB/internal/logger"
	"github.com/ishant212/NFT-AirBnB/internal/repository"
	"github.com/ishant212/NFT-AirBnB/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals     repository.RentalRepository
	marketplace service.MarketplaceService
	config      *config.Config
	clock       service.Clock
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rentals repository.RentalRepository, marketplace service.MarketplaceService, cfg *config.Config, clock service.Clock) *JobRunner {
	return &JobRunner{
		rentals:     rentals,
		marketplace: marketplace,
		config:      cfg,
		clock:       clock,
	}
}

// Config returns the loaded configuration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
