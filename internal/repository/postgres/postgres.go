package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/ishant212/NFT-AirBnB/internal/repository"
)

// Store bundles the postgres-backed repositories behind one connection.
type Store struct {
	Listings repository.ListingRepository
	Rentals  repository.RentalRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		Listings: NewListingRepository(db),
		Rentals:  NewRentalRepository(db),
	}
}
