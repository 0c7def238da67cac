package repository

import (
	"context"
	"errors"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
)

// ErrNotFound is returned by every repository when the keyed record does not
// exist. The engine maps it to the appropriate state error (ErrNotListed,
// ErrNoActiveRental).
var ErrNotFound = errors.New("record not found")

type ListingRepository interface {
	// Upsert writes the listing, overwriting any prior listing for the asset.
	Upsert(ctx context.Context, listing *domain.Listing) error
	Get(ctx context.Context, asset domain.AssetID) (*domain.Listing, error)
	List(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error)
}

type RentalRepository interface {
	// Upsert writes the rental, overwriting any prior rental for the asset.
	Upsert(ctx context.Context, rental *domain.Rental) error
	Get(ctx context.Context, asset domain.AssetID) (*domain.Rental, error)
	SetDepositSettled(ctx context.Context, asset domain.AssetID, settled bool) error
	// Delete removes the rental record. Deleting a missing record is not an
	// error.
	Delete(ctx context.Context, asset domain.AssetID) error
	// ListExpiredUnsettled returns rentals whose usage period lapsed at or
	// before now and whose deposit has not been settled yet.
	ListExpiredUnsettled(ctx context.Context, now int64, limit int32) ([]domain.Rental, error)
	// ListActive returns rentals whose usage period is still running at now.
	ListActive(ctx context.Context, now int64) ([]domain.Rental, error)
}
