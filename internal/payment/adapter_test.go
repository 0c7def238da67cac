package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
)

func TestBank_TransferFrom(t *testing.T) {
	token := domain.FungibleToken("0xerc20")

	t.Run("Consumes allowance", func(t *testing.T) {
		bank := NewBank()
		assert.NoError(t, bank.Mint(token, "0xowner", 1000))
		bank.Approve(token, "0xowner", "0xspender", 600)

		err := bank.TransferFrom(token, "0xspender", "0xowner", "0xdest", 400)
		assert.NoError(t, err)
		assert.Equal(t, int64(600), bank.BalanceOf(token, "0xowner"))
		assert.Equal(t, int64(400), bank.BalanceOf(token, "0xdest"))
		assert.Equal(t, int64(200), bank.Allowance(token, "0xowner", "0xspender"))
	})

	t.Run("Allowance shortfall", func(t *testing.T) {
		bank := NewBank()
		assert.NoError(t, bank.Mint(token, "0xowner", 1000))
		bank.Approve(token, "0xowner", "0xspender", 100)

		err := bank.TransferFrom(token, "0xspender", "0xowner", "0xdest", 400)
		assert.ErrorIs(t, err, domain.ErrTransferFailed)
		assert.Equal(t, int64(1000), bank.BalanceOf(token, "0xowner"))
	})

	t.Run("Unlimited allowance never decrements", func(t *testing.T) {
		bank := NewBank()
		assert.NoError(t, bank.Mint(token, "0xowner", 1000))
		bank.Approve(token, "0xowner", "0xspender", UnlimitedAllowance)

		assert.NoError(t, bank.TransferFrom(token, "0xspender", "0xowner", "0xdest", 400))
		assert.Equal(t, UnlimitedAllowance, bank.Allowance(token, "0xowner", "0xspender"))
	})

	t.Run("Balance shortfall", func(t *testing.T) {
		bank := NewBank()
		bank.Approve(token, "0xowner", "0xspender", 1000)

		err := bank.TransferFrom(token, "0xspender", "0xowner", "0xdest", 400)
		assert.ErrorIs(t, err, domain.ErrTransferFailed)
	})
}

func TestBankAdapter_CollectNative(t *testing.T) {
	native := domain.NativeToken()
	bank := NewBank()
	adapter := NewBankAdapter(bank, EscrowAccount)
	ctx := context.Background()

	assert.NoError(t, bank.Mint(native, "0xpayer", 10_000))

	t.Run("Exact attached value", func(t *testing.T) {
		err := adapter.Collect(ctx, "0xpayer", 1050, native, 1050)
		assert.NoError(t, err)
		assert.Equal(t, int64(1050), bank.BalanceOf(native, EscrowAccount))
		assert.Equal(t, int64(8950), bank.BalanceOf(native, "0xpayer"))
	})

	t.Run("One unit under", func(t *testing.T) {
		err := adapter.Collect(ctx, "0xpayer", 1050, native, 1049)
		assert.ErrorIs(t, err, domain.ErrValueMismatch)
	})

	t.Run("One unit over", func(t *testing.T) {
		err := adapter.Collect(ctx, "0xpayer", 1050, native, 1051)
		assert.ErrorIs(t, err, domain.ErrValueMismatch)
	})

	t.Run("Nothing moves on mismatch", func(t *testing.T) {
		assert.Equal(t, int64(1050), bank.BalanceOf(native, EscrowAccount))
		assert.Equal(t, int64(8950), bank.BalanceOf(native, "0xpayer"))
	})
}

func TestBankAdapter_CollectFungible(t *testing.T) {
	token := domain.FungibleToken("0xerc20")
	ctx := context.Background()

	t.Run("Pulls through allowance", func(t *testing.T) {
		bank := NewBank()
		adapter := NewBankAdapter(bank, EscrowAccount)
		assert.NoError(t, bank.Mint(token, "0xpayer", 10_000))
		bank.Approve(token, "0xpayer", EscrowAccount, 2000)

		err := adapter.Collect(ctx, "0xpayer", 1500, token, 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(1500), bank.BalanceOf(token, EscrowAccount))
		assert.Equal(t, int64(500), bank.Allowance(token, "0xpayer", EscrowAccount))
	})

	t.Run("No allowance", func(t *testing.T) {
		bank := NewBank()
		adapter := NewBankAdapter(bank, EscrowAccount)
		assert.NoError(t, bank.Mint(token, "0xpayer", 10_000))

		err := adapter.Collect(ctx, "0xpayer", 1500, token, 0)
		assert.ErrorIs(t, err, domain.ErrTransferFailed)
	})

	t.Run("Declared amount must match", func(t *testing.T) {
		bank := NewBank()
		adapter := NewBankAdapter(bank, EscrowAccount)
		assert.NoError(t, bank.Mint(token, "0xpayer", 10_000))
		bank.Approve(token, "0xpayer", EscrowAccount, 2000)

		err := adapter.Collect(ctx, "0xpayer", 1500, token, 1400)
		assert.ErrorIs(t, err, domain.ErrValueMismatch)

		err = adapter.Collect(ctx, "0xpayer", 1500, token, 1500)
		assert.NoError(t, err)
	})
}

func TestBank_TransferAll(t *testing.T) {
	native := domain.NativeToken()

	t.Run("All legs land", func(t *testing.T) {
		bank := NewBank()
		assert.NoError(t, bank.Mint(native, EscrowAccount, 100))

		err := bank.TransferAll(native, EscrowAccount, []Payout{
			{Recipient: "0xfees", Amount: 5},
			{Recipient: "0xowner", Amount: 95},
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(5), bank.BalanceOf(native, "0xfees"))
		assert.Equal(t, int64(95), bank.BalanceOf(native, "0xowner"))
		assert.Equal(t, int64(0), bank.BalanceOf(native, EscrowAccount))
	})

	t.Run("Shortfall rolls back earlier legs", func(t *testing.T) {
		bank := NewBank()
		assert.NoError(t, bank.Mint(native, EscrowAccount, 100))

		err := bank.TransferAll(native, EscrowAccount, []Payout{
			{Recipient: "0xfees", Amount: 60},
			{Recipient: "0xowner", Amount: 60},
		})
		assert.ErrorIs(t, err, domain.ErrTransferFailed)
		assert.Equal(t, int64(100), bank.BalanceOf(native, EscrowAccount))
		assert.Equal(t, int64(0), bank.BalanceOf(native, "0xfees"))
		assert.Equal(t, int64(0), bank.BalanceOf(native, "0xowner"))
	})
}

func TestBankAdapter_Disburse(t *testing.T) {
	native := domain.NativeToken()
	bank := NewBank()
	adapter := NewBankAdapter(bank, EscrowAccount)
	ctx := context.Background()

	assert.NoError(t, bank.Mint(native, EscrowAccount, 500))

	t.Run("Success", func(t *testing.T) {
		err := adapter.Disburse(ctx, "0xowner", 300, native)
		assert.NoError(t, err)
		assert.Equal(t, int64(300), bank.BalanceOf(native, "0xowner"))
		assert.Equal(t, int64(200), bank.BalanceOf(native, EscrowAccount))
	})

	t.Run("Escrow shortfall", func(t *testing.T) {
		err := adapter.Disburse(ctx, "0xowner", 300, native)
		assert.ErrorIs(t, err, domain.ErrTransferFailed)
	})
}
