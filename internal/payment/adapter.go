package payment

import (
	"context"
	"fmt"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/logger"
)

// Adapter moves funds between callers and the marketplace escrow account,
// polymorphic over the payment token variant.
//
// Collect pulls amount from payer into escrow. For native payments the
// attached value must equal amount exactly (ErrValueMismatch on any
// deviation; under- and overpayment are both rejected rather than silently
// adjusted). For fungible tokens the pull is authorized by a pre-existing
// allowance (ErrTransferFailed when allowance or balance is short); attached,
// when non-zero, is the payer's declared total and must match amount.
//
// Disburse pushes funds out of escrow. A failed disbursement must never be
// recorded as settled by the caller.
//
// DisburseAll pushes several payouts out of escrow atomically: on failure no
// leg has moved, so escrow still holds the full amount and the caller can
// refund it in one piece.
type Adapter interface {
	Collect(ctx context.Context, payer domain.Address, amount int64, token domain.PaymentToken, attached int64) error
	Disburse(ctx context.Context, recipient domain.Address, amount int64, token domain.PaymentToken) error
	DisburseAll(ctx context.Context, token domain.PaymentToken, payouts ...Payout) error
}

// Payout is one disbursement leg.
type Payout struct {
	Recipient domain.Address
	Amount    int64
}

// EscrowAccount is the well-known account collected funds sit in between
// collection and disbursement.
const EscrowAccount = domain.Address("escrow:marketplace")

type bankAdapter struct {
	bank   *Bank
	escrow domain.Address
}

// NewBankAdapter returns an Adapter backed by the account bank, escrowing
// collected funds under escrowAccount.
func NewBankAdapter(bank *Bank, escrowAccount domain.Address) Adapter {
	return &bankAdapter{bank: bank, escrow: escrowAccount}
}

func (a *bankAdapter) Collect(ctx context.Context, payer domain.Address, amount int64, token domain.PaymentToken, attached int64) error {
	logger.ExternalServiceCall("bank", "collect", "payer", payer, "amount", amount, "token", token.String())

	var err error
	switch {
	case token.IsNative() && attached != amount:
		err = fmt.Errorf("%w: attached %d, required %d", domain.ErrValueMismatch, attached, amount)
	case token.IsNative():
		err = a.bank.Transfer(token, payer, a.escrow, amount)
	case attached != 0 && attached != amount:
		err = fmt.Errorf("%w: declared %d, required %d", domain.ErrValueMismatch, attached, amount)
	default:
		err = a.bank.TransferFrom(token, a.escrow, payer, a.escrow, amount)
	}
	logger.ExternalServiceResult("bank", "collect", err, "payer", payer, "amount", amount)
	return err
}

func (a *bankAdapter) Disburse(ctx context.Context, recipient domain.Address, amount int64, token domain.PaymentToken) error {
	logger.ExternalServiceCall("bank", "disburse", "recipient", recipient, "amount", amount, "token", token.String())
	err := a.bank.Transfer(token, a.escrow, recipient, amount)
	logger.ExternalServiceResult("bank", "disburse", err, "recipient", recipient, "amount", amount)
	return err
}

func (a *bankAdapter) DisburseAll(ctx context.Context, token domain.PaymentToken, payouts ...Payout) error {
	logger.ExternalServiceCall("bank", "disburse_all", "legs", len(payouts), "token", token.String())
	err := a.bank.TransferAll(token, a.escrow, payouts)
	logger.ExternalServiceResult("bank", "disburse_all", err, "legs", len(payouts))
	return err
}
