package escrow

import (
	"context"
	"errors"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/payment"
	"github.com/ishant212/NFT-AirBnB/internal/repository"
)

const restoreBatchSize = 1000

// Ledger is the single source of truth for deposit obligations. The
// obligation itself lives on the rental record (deposit amount + settled
// flag); the ledger's job is the gate: a deposit pays out exactly once, and
// only after the rental's expiry.
type Ledger struct {
	rentals repository.RentalRepository
}

func NewLedger(rentals repository.RentalRepository) *Ledger {
	return &Ledger{rentals: rentals}
}

// RecordDeposit persists the rental record carrying the deposit obligation.
// The obligation starts unsettled, including zero-amount deposits, so the
// refund path stays uniform.
func (l *Ledger) RecordDeposit(ctx context.Context, rental *domain.Rental) error {
	rental.DepositSettled = false
	return l.rentals.Upsert(ctx, rental)
}

// Settle marks the asset's deposit obligation settled and returns the rental
// for disbursement. Fails with ErrNoActiveRental when no rental record
// exists, ErrNotExpired before the rental's expiry, and ErrAlreadySettled on
// a second call.
func (l *Ledger) Settle(ctx context.Context, asset domain.AssetID, now int64) (*domain.Rental, error) {
	rental, err := l.rentals.Get(ctx, asset)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNoActiveRental
		}
		return nil, err
	}
	if rental.DepositSettled {
		return nil, domain.ErrAlreadySettled
	}
	if !rental.Expired(now) {
		return nil, domain.ErrNotExpired
	}
	if err := l.rentals.SetDepositSettled(ctx, asset, true); err != nil {
		return nil, err
	}
	rental.DepositSettled = true
	return rental, nil
}

// RestoreHoldings credits the escrow account with every unsettled deposit
// obligation on record. Called at process start so a fresh bank mirror holds
// the funds the persisted ledger says are escrowed; without it a new process
// could not pay out deposits collected by a previous one.
func (l *Ledger) RestoreHoldings(ctx context.Context, bank *payment.Bank, escrowAccount domain.Address, now int64) (int, error) {
	active, err := l.rentals.ListActive(ctx, now)
	if err != nil {
		return 0, err
	}
	lapsed, err := l.rentals.ListExpiredUnsettled(ctx, now, restoreBatchSize)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, rt := range append(active, lapsed...) {
		if rt.DepositSettled || rt.DepositAmount == 0 {
			continue
		}
		if err := bank.Mint(rt.PaymentToken, escrowAccount, rt.DepositAmount); err != nil {
			return restored, err
		}
		restored++
	}
	return restored, nil
}

// Reopen reverses a settlement whose disbursement failed, keeping the
// settled mark and the fund movement consistent: a failed transfer must not
// leave "settled" true with funds unpaid.
func (l *Ledger) Reopen(ctx context.Context, asset domain.AssetID) error {
	return l.rentals.SetDepositSettled(ctx, asset, false)
}
