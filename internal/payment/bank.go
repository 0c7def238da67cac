package payment

import (
	"fmt"
	"math"
	"sync"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
)

type balanceKey struct {
	token   domain.PaymentToken
	account domain.Address
}

type allowanceKey struct {
	token   domain.PaymentToken
	owner   domain.Address
	spender domain.Address
}

// UnlimitedAllowance never decrements, mirroring a max-value token approval.
const UnlimitedAllowance int64 = math.MaxInt64

// Bank is the account store behind the payment adapter: balances per
// (token, account) and pull allowances per (token, owner, spender). It covers
// both the native currency and fungible tokens through the same tagged token
// type.
type Bank struct {
	mu         sync.Mutex
	balances   map[balanceKey]int64
	allowances map[allowanceKey]int64
}

func NewBank() *Bank {
	return &Bank{
		balances:   make(map[balanceKey]int64),
		allowances: make(map[allowanceKey]int64),
	}
}

// Mint credits freshly issued funds to an account.
func (b *Bank) Mint(token domain.PaymentToken, account domain.Address, amount int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.credit(token, account, amount)
}

func (b *Bank) BalanceOf(token domain.PaymentToken, account domain.Address) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[balanceKey{token: token, account: account}]
}

// Approve authorizes spender to pull up to amount of owner's funds.
// Overwrites any prior allowance.
func (b *Bank) Approve(token domain.PaymentToken, owner, spender domain.Address, amount int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allowances[allowanceKey{token: token, owner: owner, spender: spender}] = amount
}

func (b *Bank) Allowance(token domain.PaymentToken, owner, spender domain.Address) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.allowances[allowanceKey{token: token, owner: owner, spender: spender}]
}

// Transfer moves funds directly between two accounts.
func (b *Bank) Transfer(token domain.PaymentToken, from, to domain.Address, amount int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.move(token, from, to, amount)
}

// TransferAll moves several payouts out of one account as a single unit:
// either every leg lands or none do.
func (b *Bank) TransferAll(token domain.PaymentToken, from domain.Address, payouts []Payout) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range payouts {
		if err := b.move(token, from, p.Recipient, p.Amount); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = b.move(token, payouts[j].Recipient, from, payouts[j].Amount)
			}
			return err
		}
	}
	return nil
}

// TransferFrom moves owner's funds on behalf of spender, consuming allowance.
func (b *Bank) TransferFrom(token domain.PaymentToken, spender, from, to domain.Address, amount int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := allowanceKey{token: token, owner: from, spender: spender}
	allowance := b.allowances[key]
	if allowance < amount {
		return fmt.Errorf("%w: allowance %d below %d", domain.ErrTransferFailed, allowance, amount)
	}
	if err := b.move(token, from, to, amount); err != nil {
		return err
	}
	if allowance != UnlimitedAllowance {
		b.allowances[key] = allowance - amount
	}
	return nil
}

// move and credit require b.mu to be held.

func (b *Bank) move(token domain.PaymentToken, from, to domain.Address, amount int64) error {
	if amount < 0 {
		return domain.ErrOverflow
	}
	fromKey := balanceKey{token: token, account: from}
	if b.balances[fromKey] < amount {
		return fmt.Errorf("%w: balance %d below %d", domain.ErrTransferFailed, b.balances[fromKey], amount)
	}
	if err := b.credit(token, to, amount); err != nil {
		return err
	}
	b.balances[fromKey] -= amount
	return nil
}

func (b *Bank) credit(token domain.PaymentToken, account domain.Address, amount int64) error {
	key := balanceKey{token: token, account: account}
	next, err := domain.AddChecked(b.balances[key], amount)
	if err != nil {
		return err
	}
	b.balances[key] = next
	return nil
}
