package service

import (
	"context"
	"errors"
	"sync"

	"github.com/ishant212/NFT-AirBnB/internal/asset"
	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/escrow"
	"github.com/ishant212/NFT-AirBnB/internal/events"
	"github.com/ishant212/NFT-AirBnB/internal/logger"
	"github.com/ishant212/NFT-AirBnB/internal/payment"
	"github.com/ishant212/NFT-AirBnB/internal/registry"
	"github.com/ishant212/NFT-AirBnB/internal/repository"
)

// FeeConfig is fixed at startup and never changes through the public surface.
type FeeConfig struct {
	FeeBps       uint16
	FeeRecipient domain.Address
}

type marketplaceService struct {
	listings repository.ListingRepository
	rentals  repository.RentalRepository
	custody  *asset.Custody
	rights   *registry.Rights
	ledger   *escrow.Ledger
	pay      payment.Adapter
	pub      events.Publisher
	fees     FeeConfig
	clock    Clock

	lockMu sync.Mutex
	locks  map[domain.AssetID]*sync.Mutex
}

func NewMarketplaceService(
	listings repository.ListingRepository,
	rentals repository.RentalRepository,
	custody *asset.Custody,
	rights *registry.Rights,
	ledger *escrow.Ledger,
	pay payment.Adapter,
	pub events.Publisher,
	fees FeeConfig,
	clock Clock,
) MarketplaceService {
	return &marketplaceService{
		listings: listings,
		rentals:  rentals,
		custody:  custody,
		rights:   rights,
		ledger:   ledger,
		pay:      pay,
		pub:      pub,
		fees:     fees,
		clock:    clock,
		locks:    make(map[domain.AssetID]*sync.Mutex),
	}
}

// lockAsset serializes mutating operations per asset for their full
// duration, closing the reentrancy window around external transfers.
func (s *marketplaceService) lockAsset(a domain.AssetID) func() {
	s.lockMu.Lock()
	mu, ok := s.locks[a]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[a] = mu
	}
	s.lockMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

func (s *marketplaceService) List(ctx context.Context, caller domain.Address, a domain.AssetID, pricePerHour int64, payToken domain.PaymentToken, requireDeposit bool, depositBps, depositCapBps uint16) (*domain.Listing, error) {
	unlock := s.lockAsset(a)
	defer unlock()

	if !s.custody.IsApprovedOrOwner(a, caller) {
		return nil, domain.ErrNotAuthorized
	}
	if pricePerHour < 0 {
		return nil, domain.ErrOverflow
	}
	if requireDeposit && depositBps > depositCapBps {
		return nil, domain.ErrInvalidDeposit
	}

	listing := &domain.Listing{
		Asset:          a,
		Owner:          caller,
		PricePerHour:   pricePerHour,
		PaymentToken:   payToken,
		RequireDeposit: requireDeposit,
		DepositBps:     depositBps,
		DepositCapBps:  depositCapBps,
	}
	if err := s.listings.Upsert(ctx, listing); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.Listed{
		Asset:          a,
		Owner:          caller,
		PaymentToken:   payToken,
		PricePerHour:   pricePerHour,
		RequireDeposit: requireDeposit,
	})
	logger.Info("Asset listed", "asset", a.String(), "owner", caller, "price_per_hour", pricePerHour, "token", payToken.String())
	return listing, nil
}

func (s *marketplaceService) Rent(ctx context.Context, caller domain.Address, a domain.AssetID, hours int64, attached int64) (*domain.Rental, error) {
	unlock := s.lockAsset(a)
	defer unlock()

	now := s.clock().Unix()

	listing, err := s.listings.Get(ctx, a)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotListed
		}
		return nil, err
	}
	// Listings are not purged when custody changes; they go stale and die here.
	if !s.custody.IsApprovedOrOwner(a, listing.Owner) {
		return nil, domain.ErrNotListed
	}
	if _, held := s.rights.HolderOf(a, now); held {
		return nil, domain.ErrAlreadyRented
	}
	if hours <= 0 {
		return nil, domain.ErrZeroDuration
	}

	rent, err := domain.MulChecked(listing.PricePerHour, hours)
	if err != nil {
		return nil, err
	}
	var deposit int64
	if listing.RequireDeposit {
		if deposit, err = domain.ComputeDeposit(rent, listing.DepositBps, listing.DepositCapBps); err != nil {
			return nil, err
		}
	}
	total, err := domain.AddChecked(rent, deposit)
	if err != nil {
		return nil, err
	}
	fee, proceeds, err := domain.SplitFee(rent, s.fees.FeeBps)
	if err != nil {
		return nil, err
	}
	duration, err := domain.MulChecked(hours, domain.SecondsPerHour)
	if err != nil {
		return nil, err
	}
	expiry, err := domain.AddChecked(now, duration)
	if err != nil {
		return nil, err
	}

	// A prior rental can leave an unsettled deposit behind (settlement is
	// independent of re-listing). It is necessarily expired by now, so pay
	// it out before the record is overwritten — a deposit is never dropped.
	if err := s.settlePriorDeposit(ctx, a, now); err != nil {
		return nil, err
	}

	if err := s.pay.Collect(ctx, caller, total, listing.PaymentToken, attached); err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		Asset:         a,
		Renter:        caller,
		Owner:         listing.Owner,
		StartTime:     now,
		Hours:         hours,
		Expiry:        expiry,
		PaymentToken:  listing.PaymentToken,
		RentAmount:    rent,
		DepositAmount: deposit,
	}
	// The record is written before any funds leave escrow, so every failure
	// from here on is undone by one full refund of the collected total.
	if err := s.ledger.RecordDeposit(ctx, rental); err != nil {
		return nil, s.refundCollected(ctx, caller, total, listing.PaymentToken, err)
	}

	payouts := make([]payment.Payout, 0, 2)
	if fee > 0 {
		payouts = append(payouts, payment.Payout{Recipient: s.fees.FeeRecipient, Amount: fee})
	}
	payouts = append(payouts, payment.Payout{Recipient: listing.Owner, Amount: proceeds})
	if err := s.pay.DisburseAll(ctx, listing.PaymentToken, payouts...); err != nil {
		if delErr := s.rentals.Delete(ctx, a); delErr != nil {
			logger.Error("Failed to remove rental record after aborted rent", "asset", a.String(), "error", delErr)
		}
		return nil, s.refundCollected(ctx, caller, total, listing.PaymentToken, err)
	}

	s.rights.Grant(ctx, a, caller, expiry)

	s.publish(ctx, domain.Rented{Asset: a, Renter: caller, Expiry: expiry})
	logger.Info("Asset rented", "asset", a.String(), "renter", caller, "hours", hours, "rent", rent, "deposit", deposit, "fee", fee, "expiry", expiry)
	return rental, nil
}

func (s *marketplaceService) RefundDeposit(ctx context.Context, a domain.AssetID) (*domain.Rental, error) {
	unlock := s.lockAsset(a)
	defer unlock()

	now := s.clock().Unix()

	if _, err := s.rentals.Get(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNoActiveRental
		}
		return nil, err
	}

	rental, err := s.ledger.Settle(ctx, a, now)
	if err != nil {
		return nil, err
	}
	if rental.DepositAmount > 0 {
		if err := s.pay.Disburse(ctx, rental.Renter, rental.DepositAmount, rental.PaymentToken); err != nil {
			// Settled must not stand with funds unpaid.
			if reopenErr := s.ledger.Reopen(ctx, a); reopenErr != nil {
				logger.Error("Failed to reopen deposit after transfer failure", "asset", a.String(), "error", reopenErr)
			}
			return nil, err
		}
	}

	s.publish(ctx, domain.DepositRefunded{Asset: a, Renter: rental.Renter, Amount: rental.DepositAmount})
	logger.Info("Deposit refunded", "asset", a.String(), "renter", rental.Renter, "amount", rental.DepositAmount)
	return rental, nil
}

func (s *marketplaceService) GetListing(ctx context.Context, a domain.AssetID) (*domain.Listing, error) {
	listing, err := s.listings.Get(ctx, a)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrNotListed
	}
	return listing, err
}

func (s *marketplaceService) ListListings(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	return s.listings.List(ctx, page, pageSize)
}

func (s *marketplaceService) GetRental(ctx context.Context, a domain.AssetID) (*domain.Rental, error) {
	rental, err := s.rentals.Get(ctx, a)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrNoActiveRental
	}
	return rental, err
}

func (s *marketplaceService) HolderOf(_ context.Context, a domain.AssetID) (domain.Address, bool) {
	return s.rights.HolderOf(a, s.clock().Unix())
}

// settlePriorDeposit pays out a leftover unsettled deposit from a previous
// rental of the same asset. Called with the asset lock held, before any
// funds for the new rental move.
func (s *marketplaceService) settlePriorDeposit(ctx context.Context, a domain.AssetID, now int64) error {
	prior, err := s.rentals.Get(ctx, a)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if prior.DepositSettled {
		return nil
	}

	settled, err := s.ledger.Settle(ctx, a, now)
	if err != nil {
		return err
	}
	if settled.DepositAmount > 0 {
		if err := s.pay.Disburse(ctx, settled.Renter, settled.DepositAmount, settled.PaymentToken); err != nil {
			if reopenErr := s.ledger.Reopen(ctx, a); reopenErr != nil {
				logger.Error("Failed to reopen deposit after transfer failure", "asset", a.String(), "error", reopenErr)
			}
			return err
		}
	}
	s.publish(ctx, domain.DepositRefunded{Asset: a, Renter: settled.Renter, Amount: settled.DepositAmount})
	return nil
}

// refundCollected returns collected funds to the payer after a mid-operation
// failure so the whole rent attempt nets to zero, then surfaces cause.
func (s *marketplaceService) refundCollected(ctx context.Context, payer domain.Address, amount int64, token domain.PaymentToken, cause error) error {
	if amount > 0 {
		if err := s.pay.Disburse(ctx, payer, amount, token); err != nil {
			logger.Error("Failed to refund payer after aborted rent", "payer", payer, "amount", amount, "error", err)
		}
	}
	return cause
}

func (s *marketplaceService) publish(ctx context.Context, ev domain.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		logger.Error("Failed to publish event", "kind", ev.Kind(), "key", ev.Key(), "error", err)
	}
}
