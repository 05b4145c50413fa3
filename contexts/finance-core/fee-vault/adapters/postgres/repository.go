package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"domin/contexts/finance-core/fee-vault/domain/entities"
	domainerrors "domin/contexts/finance-core/fee-vault/domain/errors"
	"domin/contexts/finance-core/fee-vault/ports"
)

// Repository persists vault state in Postgres. Debit runs balance decrement
// and reward accrual in one transaction.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// The config table holds at most one row; id is pinned to 1.
const configRowID = 1

func (r *Repository) SetFeeConfig(ctx context.Context, config entities.FeeConfig) error {
	row := configModel{
		ID:        configRowID,
		Currency:  config.Currency,
		Treasury:  config.Treasury,
		UpdatedAt: config.UpdatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (r *Repository) GetFeeConfig(ctx context.Context) (entities.FeeConfig, bool, error) {
	var row configModel
	err := r.db.WithContext(ctx).
		Where("id = ?", configRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.FeeConfig{}, false, nil
		}
		return entities.FeeConfig{}, false, err
	}
	return entities.FeeConfig{
		Currency:  row.Currency,
		Treasury:  row.Treasury,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

func (r *Repository) Credit(ctx context.Context, authorizerID uint64, amount int64, now time.Time) (entities.FeeBalance, error) {
	var row balanceModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBalance(tx, authorizerID, &row); err != nil {
			return err
		}
		row.Balance += amount
		row.UpdatedAt = now.UTC()
		return tx.Save(&row).Error
	})
	if err != nil {
		return entities.FeeBalance{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) Debit(ctx context.Context, authorizerID uint64, fee int64, reward int64, now time.Time) (entities.FeeBalance, entities.RewardAccrual, error) {
	var balanceRow balanceModel
	var rewardRow rewardModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBalance(tx, authorizerID, &balanceRow); err != nil {
			return err
		}
		if balanceRow.Balance < fee {
			return fmt.Errorf("%w: authorizer %d", domainerrors.ErrInsufficientPrepaidFee, authorizerID)
		}
		balanceRow.Balance -= fee
		balanceRow.UpdatedAt = now.UTC()
		if err := tx.Save(&balanceRow).Error; err != nil {
			return err
		}

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("authorizer_id = ?", authorizerID).
			First(&rewardRow).
			Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			rewardRow = rewardModel{AuthorizerID: authorizerID}
		}
		rewardRow.Accrued += reward
		rewardRow.UpdatedAt = now.UTC()
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "authorizer_id"}},
			UpdateAll: true,
		}).Create(&rewardRow).Error
	})
	if err != nil {
		return entities.FeeBalance{}, entities.RewardAccrual{}, err
	}
	return balanceRow.toEntity(), rewardRow.toEntity(), nil
}

func (r *Repository) GetBalance(ctx context.Context, authorizerID uint64) (entities.FeeBalance, error) {
	var row balanceModel
	err := r.db.WithContext(ctx).
		Where("authorizer_id = ?", authorizerID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.FeeBalance{AuthorizerID: authorizerID}, nil
		}
		return entities.FeeBalance{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetReward(ctx context.Context, authorizerID uint64) (entities.RewardAccrual, error) {
	var row rewardModel
	err := r.db.WithContext(ctx).
		Where("authorizer_id = ?", authorizerID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RewardAccrual{AuthorizerID: authorizerID}, nil
		}
		return entities.RewardAccrual{}, err
	}
	return row.toEntity(), nil
}

// Get implements the idempotency store on the same database.
func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		Payload:     row.Payload,
		ExpiresAt:   row.ExpiresAt,
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		Payload:     record.Payload,
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&row).Error
}

func lockBalance(tx *gorm.DB, authorizerID uint64, row *balanceModel) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("authorizer_id = ?", authorizerID).
		First(row).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		*row = balanceModel{AuthorizerID: authorizerID}
	}
	return nil
}

type configModel struct {
	ID        int       `gorm:"column:id;primaryKey"`
	Currency  string    `gorm:"column:currency"`
	Treasury  string    `gorm:"column:treasury"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (configModel) TableName() string {
	return "vault_fee_config"
}

type balanceModel struct {
	AuthorizerID uint64    `gorm:"column:authorizer_id;primaryKey"`
	Balance      int64     `gorm:"column:balance"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (balanceModel) TableName() string {
	return "vault_fee_balances"
}

func (m balanceModel) toEntity() entities.FeeBalance {
	return entities.FeeBalance{
		AuthorizerID: m.AuthorizerID,
		Balance:      m.Balance,
		UpdatedAt:    m.UpdatedAt,
	}
}

type rewardModel struct {
	AuthorizerID uint64    `gorm:"column:authorizer_id;primaryKey"`
	Accrued      int64     `gorm:"column:accrued"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (rewardModel) TableName() string {
	return "vault_reward_accruals"
}

func (m rewardModel) toEntity() entities.RewardAccrual {
	return entities.RewardAccrual{
		AuthorizerID: m.AuthorizerID,
		Accrued:      m.Accrued,
		UpdatedAt:    m.UpdatedAt,
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	Payload     []byte    `gorm:"column:payload"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "vault_idempotency_keys"
}

var (
	_ ports.Repository       = (*Repository)(nil)
	_ ports.IdempotencyStore = (*Repository)(nil)
)
