package service

import (
	"context"
	"time"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
)

// Clock supplies the engine's notion of now. Injected so tests can move time
// past a rental's expiry.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

type MarketplaceService interface {
	// List creates or overwrites the asset's listing. Caller must own the
	// asset or hold an operator approval. No funds move.
	List(ctx context.Context, caller domain.Address, asset domain.AssetID, pricePerHour int64, payToken domain.PaymentToken, requireDeposit bool, depositBps, depositCapBps uint16) (*domain.Listing, error)

	// Rent executes a rental: collects rent+deposit, splits the fee,
	// disburses proceeds, escrows the deposit and grants usage rights. The
	// whole operation is atomic; attached is the accompanying payment value.
	Rent(ctx context.Context, caller domain.Address, asset domain.AssetID, hours int64, attached int64) (*domain.Rental, error)

	// RefundDeposit settles the asset's deposit obligation and pays the
	// renter. Deliberately unprivileged: the only beneficiary is the renter
	// and the only effect is releasing money already escrowed.
	RefundDeposit(ctx context.Context, asset domain.AssetID) (*domain.Rental, error)

	GetListing(ctx context.Context, asset domain.AssetID) (*domain.Listing, error)
	ListListings(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error)
	GetRental(ctx context.Context, asset domain.AssetID) (*domain.Rental, error)
	HolderOf(ctx context.Context, asset domain.AssetID) (domain.Address, bool)
}
