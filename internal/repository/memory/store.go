package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/repository"
)

// Store holds listings and rentals in mutex-guarded maps. It backs tests and
// single-node dev mode; the postgres store is the deployment counterpart.
type Store struct {
	Listings repository.ListingRepository
	Rentals  repository.RentalRepository
}

func NewStore() *Store {
	return &Store{
		Listings: &listingRepository{listings: make(map[domain.AssetID]domain.Listing)},
		Rentals:  &rentalRepository{rentals: make(map[domain.AssetID]domain.Rental)},
	}
}

type listingRepository struct {
	mu       sync.RWMutex
	listings map[domain.AssetID]domain.Listing
}

func (r *listingRepository) Upsert(_ context.Context, listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if prior, ok := r.listings[listing.Asset]; ok {
		listing.CreatedOn = prior.CreatedOn
	} else {
		listing.CreatedOn = now
	}
	listing.UpdatedOn = now
	r.listings[listing.Asset] = *listing
	return nil
}

func (r *listingRepository) Get(_ context.Context, asset domain.AssetID) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.listings[asset]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &listing, nil
}

func (r *listingRepository) List(_ context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Asset.Contract != all[j].Asset.Contract {
			return all[i].Asset.Contract < all[j].Asset.Contract
		}
		return all[i].Asset.TokenID < all[j].Asset.TokenID
	})

	total := int32(len(all))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

type rentalRepository struct {
	mu      sync.RWMutex
	rentals map[domain.AssetID]domain.Rental
}

func (r *rentalRepository) Upsert(_ context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if prior, ok := r.rentals[rental.Asset]; ok {
		rental.CreatedOn = prior.CreatedOn
	} else {
		rental.CreatedOn = now
	}
	rental.UpdatedOn = now
	r.rentals[rental.Asset] = *rental
	return nil
}

func (r *rentalRepository) Get(_ context.Context, asset domain.AssetID) (*domain.Rental, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rental, ok := r.rentals[asset]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rental, nil
}

func (r *rentalRepository) SetDepositSettled(_ context.Context, asset domain.AssetID, settled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rental, ok := r.rentals[asset]
	if !ok {
		return repository.ErrNotFound
	}
	rental.DepositSettled = settled
	rental.UpdatedOn = time.Now()
	r.rentals[asset] = rental
	return nil
}

func (r *rentalRepository) Delete(_ context.Context, asset domain.AssetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rentals, asset)
	return nil
}

func (r *rentalRepository) ListActive(_ context.Context, now int64) ([]domain.Rental, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Rental
	for _, rt := range r.rentals {
		if !rt.Expired(now) {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *rentalRepository) ListExpiredUnsettled(_ context.Context, now int64, limit int32) ([]domain.Rental, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Rental
	for _, rt := range r.rentals {
		if !rt.DepositSettled && rt.Expired(now) {
			out = append(out, rt)
			if limit > 0 && int32(len(out)) >= limit {
				break
			}
		}
	}
	return out, nil
}
