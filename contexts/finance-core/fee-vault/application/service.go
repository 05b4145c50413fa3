package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"domin/contexts/finance-core/fee-vault/domain/entities"
	domainerrors "domin/contexts/finance-core/fee-vault/domain/errors"
	"domin/contexts/finance-core/fee-vault/ports"
)

// Service manages prepaid fee balances and authorizer reward accrual.
type Service struct {
	Repo             ports.Repository
	Ledger           ports.TokenLedger
	Guard            ports.AuthorizationGuard
	Idempotency      ports.IdempotencyStore
	Clock            ports.Clock
	IdempotencyTTL   time.Duration
	DefaultRedeemFee int64
	RewardPercentage int64
	Logger           *slog.Logger
}

// SetFeeCurrency configures the fee currency and the treasury account. The
// caller must hold the role bound to the config selector; unbound means deny.
func (s Service) SetFeeCurrency(ctx context.Context, caller string, currency string, treasury string) (entities.FeeConfig, error) {
	currency = strings.TrimSpace(currency)
	treasury = strings.TrimSpace(treasury)
	if currency == "" || treasury == "" {
		return entities.FeeConfig{}, domainerrors.ErrFeeCurrencyNotSet
	}
	allowed, err := s.Guard.CanCall(ctx, caller, entities.TargetName, entities.SelectorSetFeeCurrency)
	if err != nil {
		return entities.FeeConfig{}, err
	}
	if !allowed {
		return entities.FeeConfig{}, fmt.Errorf("%w: %s", domainerrors.ErrUnauthorizedConfig, caller)
	}

	config := entities.FeeConfig{
		Currency:  currency,
		Treasury:  treasury,
		UpdatedAt: s.now(),
	}
	if err := s.Repo.SetFeeConfig(ctx, config); err != nil {
		return entities.FeeConfig{}, err
	}
	ResolveLogger(s.Logger).Info("fee currency configured",
		"event", "vault_fee_currency_set",
		"module", "finance-core/fee-vault",
		"layer", "application",
		"currency", currency,
		"treasury", treasury,
	)
	return config, nil
}

// DepositPrepaidFee pulls amount from the caller into the treasury and
// credits the authorizer's prepaid balance. Anyone may top up any authorizer.
func (s Service) DepositPrepaidFee(
	ctx context.Context,
	idempotencyKey string,
	caller string,
	authorizerID uint64,
	amount int64,
) (entities.FeeBalance, error) {
	var out entities.FeeBalance
	if amount <= 0 {
		return out, domainerrors.ErrInvalidAmount
	}
	if strings.TrimSpace(idempotencyKey) == "" {
		return out, domainerrors.ErrIdempotencyKeyRequired
	}
	config, found, err := s.Repo.GetFeeConfig(ctx)
	if err != nil {
		return out, err
	}
	if !found {
		return out, domainerrors.ErrFeeCurrencyNotSet
	}

	requestHash := hashStrings(
		"vault_deposit",
		caller,
		strconv.FormatUint(authorizerID, 10),
		strconv.FormatInt(amount, 10),
	)
	err = s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			if err := s.Ledger.TransferFrom(ctx, config.Currency, caller, config.Treasury, amount); err != nil {
				return nil, err
			}
			balance, err := s.Repo.Credit(ctx, authorizerID, amount, s.now())
			if err != nil {
				return nil, err
			}
			ResolveLogger(s.Logger).Info("prepaid fee deposited",
				"event", "vault_fee_deposited",
				"module", "finance-core/fee-vault",
				"layer", "application",
				"authorizer_id", authorizerID,
				"depositor", caller,
				"amount", amount,
				"balance", balance.Balance,
			)
			return json.Marshal(balance)
		},
	)
	return out, err
}

// DebitForRedemption charges the flat redemption fee against the authorizer's
// prepaid balance and accrues the authorizer reward. Called once per batch.
func (s Service) DebitForRedemption(ctx context.Context, authorizerID uint64) (entities.FeeBalance, entities.RewardAccrual, error) {
	fee := s.DefaultRedeemFee
	reward := entities.RewardFor(fee, s.RewardPercentage)
	balance, accrual, err := s.Repo.Debit(ctx, authorizerID, fee, reward, s.now())
	if err != nil {
		return entities.FeeBalance{}, entities.RewardAccrual{}, err
	}
	ResolveLogger(s.Logger).Info("redemption fee debited",
		"event", "vault_fee_debited",
		"module", "finance-core/fee-vault",
		"layer", "application",
		"authorizer_id", authorizerID,
		"fee", fee,
		"reward", reward,
		"balance", balance.Balance,
	)
	return balance, accrual, nil
}

// EnsureFunds reports whether the authorizer's balance covers one flat fee.
// Read-only pre-flight used before any asset-side effect.
func (s Service) EnsureFunds(ctx context.Context, authorizerID uint64) error {
	balance, err := s.Repo.GetBalance(ctx, authorizerID)
	if err != nil {
		return err
	}
	if balance.Balance < s.DefaultRedeemFee {
		return fmt.Errorf("%w: authorizer %d", domainerrors.ErrInsufficientPrepaidFee, authorizerID)
	}
	return nil
}

// GetFeeBalance returns the prepaid balance; unknown authorizers read zero.
func (s Service) GetFeeBalance(ctx context.Context, authorizerID uint64) (entities.FeeBalance, error) {
	return s.Repo.GetBalance(ctx, authorizerID)
}

// GetAuthorizerReward returns the cumulative reward accrual.
func (s Service) GetAuthorizerReward(ctx context.Context, authorizerID uint64) (entities.RewardAccrual, error) {
	return s.Repo.GetReward(ctx, authorizerID)
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.Get(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.Payload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Payload:     payload,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}
	return decode(payload)
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}
