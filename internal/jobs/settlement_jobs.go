package jobs

import (
	"context"
	"errors"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/logger"
)

const sweepBatchSize = 100

// SweepRefundableDeposits finds rentals whose usage period has lapsed with
// the deposit still escrowed and triggers the refund for each. The refund
// operation is unprivileged, so the sweep is just another caller — usage
// expiry itself stays a lazy timestamp comparison and is never driven from
// here.
func (jr *JobRunner) SweepRefundableDeposits() {
	jr.runWithRecovery("SweepRefundableDeposits", func() {
		ctx := context.Background()
		now := jr.clock().Unix()

		pending, err := jr.rentals.ListExpiredUnsettled(ctx, now, sweepBatchSize)
		if err != nil {
			logger.Error("Failed to list refundable deposits", "error", err)
			return
		}

		refunded := 0
		for _, rt := range pending {
			if _, err := jr.marketplace.RefundDeposit(ctx, rt.Asset); err != nil {
				// Another caller may have settled it between the query and now.
				if errors.Is(err, domain.ErrAlreadySettled) {
					continue
				}
				logger.Error("Failed to refund deposit", "asset", rt.Asset.String(), "renter", rt.Renter, "error", err)
				continue
			}
			refunded++
		}

		logger.Info("Deposit sweep finished", "candidates", len(pending), "refunded", refunded)
	})
}
