package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Upsert(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO listings (contract, token_id, owner, price_per_hour, payment_kind, payment_token, require_deposit, deposit_bps, deposit_cap_bps, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	          ON CONFLICT (contract, token_id) DO UPDATE SET
	            owner = EXCLUDED.owner,
	            price_per_hour = EXCLUDED.price_per_hour,
	            payment_kind = EXCLUDED.payment_kind,
	            payment_token = EXCLUDED.payment_token,
	            require_deposit = EXCLUDED.require_deposit,
	            deposit_bps = EXCLUDED.deposit_bps,
	            deposit_cap_bps = EXCLUDED.deposit_cap_bps,
	            updated_on = EXCLUDED.updated_on`
	_, err := r.db.ExecContext(ctx, query,
		l.Asset.Contract, l.Asset.TokenID, l.Owner, l.PricePerHour,
		l.PaymentToken.Kind, l.PaymentToken.Token,
		l.RequireDeposit, l.DepositBps, l.DepositCapBps, time.Now())
	return err
}

func (r *listingRepository) Get(ctx context.Context, asset domain.AssetID) (*domain.Listing, error) {
	l := &domain.Listing{}
	query := `SELECT contract, token_id, owner, price_per_hour, payment_kind, payment_token, require_deposit, deposit_bps, deposit_cap_bps, created_on, updated_on
	          FROM listings WHERE contract = $1 AND token_id = $2`
	err := r.db.QueryRowContext(ctx, query, asset.Contract, asset.TokenID).Scan(
		&l.Asset.Contract, &l.Asset.TokenID, &l.Owner, &l.PricePerHour,
		&l.PaymentToken.Kind, &l.PaymentToken.Token,
		&l.RequireDeposit, &l.DepositBps, &l.DepositCapBps, &l.CreatedOn, &l.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM listings`).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT contract, token_id, owner, price_per_hour, payment_kind, payment_token, require_deposit, deposit_bps, deposit_cap_bps, created_on, updated_on
	          FROM listings ORDER BY contract, token_id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(&l.Asset.Contract, &l.Asset.TokenID, &l.Owner, &l.PricePerHour,
			&l.PaymentToken.Kind, &l.PaymentToken.Token,
			&l.RequireDeposit, &l.DepositBps, &l.DepositCapBps, &l.CreatedOn, &l.UpdatedOn); err != nil {
			return nil, 0, err
		}
		listings = append(listings, l)
	}
	return listings, count, rows.Err()
}
