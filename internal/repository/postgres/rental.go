package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Upsert(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (contract, token_id, renter, owner, start_time, hours, expiry, payment_kind, payment_token, rent_amount, deposit_amount, deposit_settled, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
	          ON CONFLICT (contract, token_id) DO UPDATE SET
	            renter = EXCLUDED.renter,
	            owner = EXCLUDED.owner,
	            start_time = EXCLUDED.start_time,
	            hours = EXCLUDED.hours,
	            expiry = EXCLUDED.expiry,
	            payment_kind = EXCLUDED.payment_kind,
	            payment_token = EXCLUDED.payment_token,
	            rent_amount = EXCLUDED.rent_amount,
	            deposit_amount = EXCLUDED.deposit_amount,
	            deposit_settled = EXCLUDED.deposit_settled,
	            updated_on = EXCLUDED.updated_on`
	_, err := r.db.ExecContext(ctx, query,
		rt.Asset.Contract, rt.Asset.TokenID, rt.Renter, rt.Owner,
		rt.StartTime, rt.Hours, rt.Expiry,
		rt.PaymentToken.Kind, rt.PaymentToken.Token,
		rt.RentAmount, rt.DepositAmount, rt.DepositSettled, time.Now())
	return err
}

func (r *rentalRepository) Get(ctx context.Context, asset domain.AssetID) (*domain.Rental, error) {
	rt := &domain.Rental{}
	query := `SELECT contract, token_id, renter, owner, start_time, hours, expiry, payment_kind, payment_token, rent_amount, deposit_amount, deposit_settled, created_on, updated_on
	          FROM rentals WHERE contract = $1 AND token_id = $2`
	err := r.db.QueryRowContext(ctx, query, asset.Contract, asset.TokenID).Scan(
		&rt.Asset.Contract, &rt.Asset.TokenID, &rt.Renter, &rt.Owner,
		&rt.StartTime, &rt.Hours, &rt.Expiry,
		&rt.PaymentToken.Kind, &rt.PaymentToken.Token,
		&rt.RentAmount, &rt.DepositAmount, &rt.DepositSettled, &rt.CreatedOn, &rt.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) SetDepositSettled(ctx context.Context, asset domain.AssetID, settled bool) error {
	query := `UPDATE rentals SET deposit_settled = $1, updated_on = $2 WHERE contract = $3 AND token_id = $4`
	res, err := r.db.ExecContext(ctx, query, settled, time.Now(), asset.Contract, asset.TokenID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *rentalRepository) Delete(ctx context.Context, asset domain.AssetID) error {
	query := `DELETE FROM rentals WHERE contract = $1 AND token_id = $2`
	_, err := r.db.ExecContext(ctx, query, asset.Contract, asset.TokenID)
	return err
}

func (r *rentalRepository) ListActive(ctx context.Context, now int64) ([]domain.Rental, error) {
	query := `SELECT contract, token_id, renter, owner, start_time, hours, expiry, payment_kind, payment_token, rent_amount, deposit_amount, deposit_settled, created_on, updated_on
	          FROM rentals WHERE expiry > $1`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(&rt.Asset.Contract, &rt.Asset.TokenID, &rt.Renter, &rt.Owner,
			&rt.StartTime, &rt.Hours, &rt.Expiry,
			&rt.PaymentToken.Kind, &rt.PaymentToken.Token,
			&rt.RentAmount, &rt.DepositAmount, &rt.DepositSettled, &rt.CreatedOn, &rt.UpdatedOn); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListExpiredUnsettled(ctx context.Context, now int64, limit int32) ([]domain.Rental, error) {
	if limit < 1 {
		limit = 100
	}
	query := `SELECT contract, token_id, renter, owner, start_time, hours, expiry, payment_kind, payment_token, rent_amount, deposit_amount, deposit_settled, created_on, updated_on
	          FROM rentals WHERE deposit_settled = false AND expiry <= $1 ORDER BY expiry LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(&rt.Asset.Contract, &rt.Asset.TokenID, &rt.Renter, &rt.Owner,
			&rt.StartTime, &rt.Hours, &rt.Expiry,
			&rt.PaymentToken.Kind, &rt.PaymentToken.Token,
			&rt.RentAmount, &rt.DepositAmount, &rt.DepositSettled, &rt.CreatedOn, &rt.UpdatedOn); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}
