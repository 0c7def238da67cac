package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishant212/NFT-AirBnB/internal/asset"
	"github.com/ishant212/NFT-AirBnB/internal/config"
	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/escrow"
	"github.com/ishant212/NFT-AirBnB/internal/events"
	"github.com/ishant212/NFT-AirBnB/internal/payment"
	"github.com/ishant212/NFT-AirBnB/internal/registry"
	"github.com/ishant212/NFT-AirBnB/internal/repository/memory"
	"github.com/ishant212/NFT-AirBnB/internal/service"
)

func TestSweepRefundableDeposits(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_000_000, 0)
	clock := func() time.Time { return now }

	store := memory.NewStore()
	bank := payment.NewBank()
	custody := asset.NewCustody()
	rec := events.NewRecorder()
	svc := service.NewMarketplaceService(
		store.Listings,
		store.Rentals,
		custody,
		registry.NewRights(rec),
		escrow.NewLedger(store.Rentals),
		payment.NewBankAdapter(bank, payment.EscrowAccount),
		rec,
		service.FeeConfig{FeeBps: 0},
		clock,
	)

	owner := domain.Address("0xowner")
	renter := domain.Address("0xrenter")
	native := domain.NativeToken()

	// Two rentals with escrowed deposits, one expiring sooner than the other.
	for i := int64(1); i <= 2; i++ {
		a := domain.AssetID{Contract: "0xnft", TokenID: i}
		custody.Mint(a, owner)
		_, err := svc.List(ctx, owner, a, 1000, native, true, 5000, 20000)
		require.NoError(t, err)
		require.NoError(t, bank.Mint(native, renter, 1500*i))
		_, err = svc.Rent(ctx, renter, a, i, 1500*i) // rent 1000*i + deposit 500*i
		require.NoError(t, err)
	}

	runner := NewJobRunner(store.Rentals, svc, &config.Config{}, clock)

	t.Run("Nothing refundable before expiry", func(t *testing.T) {
		runner.SweepRefundableDeposits()
		assert.Equal(t, int64(0), bank.BalanceOf(native, renter))
	})

	t.Run("Refunds only lapsed deposits", func(t *testing.T) {
		now = now.Add(time.Hour) // first rental expired, second still running
		runner.SweepRefundableDeposits()
		assert.Equal(t, int64(500), bank.BalanceOf(native, renter))
		assert.Equal(t, int64(1000), bank.BalanceOf(native, payment.EscrowAccount))
	})

	t.Run("Sweep is idempotent", func(t *testing.T) {
		now = now.Add(time.Hour) // both expired now
		runner.SweepRefundableDeposits()
		runner.SweepRefundableDeposits()
		assert.Equal(t, int64(1500), bank.BalanceOf(native, renter))
		assert.Equal(t, int64(0), bank.BalanceOf(native, payment.EscrowAccount))
		assert.Len(t, rec.OfKind("marketplace.deposit_refunded"), 2)
	})
}

// A sweep run by a separate process shares only the rental store with the
// process that collected the deposits. Its bank starts empty, so it must
// rebuild escrow holdings from the ledger before it can refund anything.
func TestSweepAfterRestart(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_000_000, 0)
	clock := func() time.Time { return now }

	store := memory.NewStore()
	owner := domain.Address("0xowner")
	renter := domain.Address("0xrenter")
	native := domain.NativeToken()
	a := domain.AssetID{Contract: "0xnft", TokenID: 1}

	// First process collects a rental with a 500 deposit.
	{
		bank := payment.NewBank()
		custody := asset.NewCustody()
		rec := events.NewRecorder()
		svc := service.NewMarketplaceService(
			store.Listings,
			store.Rentals,
			custody,
			registry.NewRights(rec),
			escrow.NewLedger(store.Rentals),
			payment.NewBankAdapter(bank, payment.EscrowAccount),
			rec,
			service.FeeConfig{FeeBps: 0},
			clock,
		)
		custody.Mint(a, owner)
		_, err := svc.List(ctx, owner, a, 1000, native, true, 5000, 20000)
		require.NoError(t, err)
		require.NoError(t, bank.Mint(native, renter, 1500))
		_, err = svc.Rent(ctx, renter, a, 1, 1500)
		require.NoError(t, err)
	}

	// Second process starts fresh against the same store.
	bank := payment.NewBank()
	rec := events.NewRecorder()
	ledger := escrow.NewLedger(store.Rentals)
	svc := service.NewMarketplaceService(
		store.Listings,
		store.Rentals,
		asset.NewCustody(),
		registry.NewRights(rec),
		ledger,
		payment.NewBankAdapter(bank, payment.EscrowAccount),
		rec,
		service.FeeConfig{FeeBps: 0},
		clock,
	)

	now = now.Add(time.Hour)
	restored, err := ledger.RestoreHoldings(ctx, bank, payment.EscrowAccount, now.Unix())
	require.NoError(t, err)
	assert.Equal(t, 1, restored)

	runner := NewJobRunner(store.Rentals, svc, &config.Config{}, clock)
	runner.SweepRefundableDeposits()

	assert.Equal(t, int64(500), bank.BalanceOf(native, renter))
	assert.Equal(t, int64(0), bank.BalanceOf(native, payment.EscrowAccount))
	assert.Len(t, rec.OfKind("marketplace.deposit_refunded"), 1)
}
