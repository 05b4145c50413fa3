package memory

import (
	"context"
	"fmt"
	"sync"

	domainerrors "domin/contexts/finance-core/fee-vault/domain/errors"
	"domin/contexts/finance-core/fee-vault/ports"
)

// TokenLedger is an in-memory fungible token ledger standing in for the fee
// currency. Transfers require a prior allowance from the owner, as a real
// token would.
type TokenLedger struct {
	mu         sync.Mutex
	balances   map[string]int64
	allowances map[string]int64
}

func NewTokenLedger() *TokenLedger {
	return &TokenLedger{
		balances:   map[string]int64{},
		allowances: map[string]int64{},
	}
}

// Faucet credits an account out of thin air. Test/bootstrap helper.
func (l *TokenLedger) Faucet(_ context.Context, currency string, account string, amount int64) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[accountKey(currency, account)] += amount
	return nil
}

// Approve lets spender move up to amount of owner's funds.
func (l *TokenLedger) Approve(_ context.Context, currency string, owner string, spender string, amount int64) error {
	if amount < 0 {
		return domainerrors.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.allowances[allowanceKey(currency, owner, spender)] = amount
	return nil
}

// TransferFrom pulls funds from -> to on behalf of the recipient. The owner
// must have approved the recipient for at least amount; the allowance is
// consumed by the transfer.
func (l *TokenLedger) TransferFrom(_ context.Context, currency string, from string, to string, amount int64) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	key := allowanceKey(currency, from, to)
	if l.allowances[key] < amount {
		return fmt.Errorf("%w: %s", domainerrors.ErrInsufficientAllowance, from)
	}
	fromKey := accountKey(currency, from)
	if l.balances[fromKey] < amount {
		return fmt.Errorf("%w: %s", domainerrors.ErrInsufficientFunds, from)
	}
	l.allowances[key] -= amount
	l.balances[fromKey] -= amount
	l.balances[accountKey(currency, to)] += amount
	return nil
}

func (l *TokenLedger) BalanceOf(_ context.Context, currency string, account string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balances[accountKey(currency, account)], nil
}

func accountKey(currency string, account string) string {
	return currency + "|" + account
}

func allowanceKey(currency string, owner string, spender string) string {
	return currency + "|" + owner + "|" + spender
}

var _ ports.TokenLedger = (*TokenLedger)(nil)
