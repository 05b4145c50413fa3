package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"domin/contexts/delegation/delegation-ledger/domain/entities"
	domainerrors "domin/contexts/delegation/delegation-ledger/domain/errors"
	"domin/contexts/delegation/delegation-ledger/ports"
)

// Repository persists token state in Postgres. Token ids come from the
// bigserial primary keys, so allocation order matches insert order.
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

func (r *Repository) MintAuthorizer(ctx context.Context, input ports.MintAuthorizerInput) (entities.AuthorizerToken, error) {
	row := authorizerModel{
		Owner:    input.Owner,
		MintedAt: input.MintedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.AuthorizerToken{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) MintOperator(ctx context.Context, input ports.MintOperatorInput) (entities.OperatorToken, error) {
	var row operatorModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent authorizerModel
		if err := tx.Where("token_id = ?", input.ParentAuthorizerID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUnknownAuthorizer
			}
			return err
		}
		row = operatorModel{
			Owner:              input.Owner,
			ParentAuthorizerID: input.ParentAuthorizerID,
			MintedAt:           input.MintedAt.UTC(),
			UpdatedAt:          input.MintedAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrOperatorSlotTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return entities.OperatorToken{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetAuthorizer(ctx context.Context, tokenID uint64) (entities.AuthorizerToken, error) {
	var row authorizerModel
	err := r.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AuthorizerToken{}, domainerrors.ErrUnknownAuthorizer
		}
		return entities.AuthorizerToken{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetOperator(ctx context.Context, tokenID uint64) (entities.OperatorToken, error) {
	var row operatorModel
	err := r.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.OperatorToken{}, domainerrors.ErrUnknownOperator
		}
		return entities.OperatorToken{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindOperatorByParent(ctx context.Context, authorizerID uint64) (entities.OperatorToken, bool, error) {
	var row operatorModel
	err := r.db.WithContext(ctx).
		Where("parent_authorizer_id = ?", authorizerID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.OperatorToken{}, false, nil
		}
		return entities.OperatorToken{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) RegisterParent(ctx context.Context, operatorID uint64, newAuthorizerID uint64, now time.Time) (entities.OperatorToken, error) {
	var row operatorModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token_id = ?", operatorID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUnknownOperator
			}
			return err
		}
		row.ParentAuthorizerID = newAuthorizerID
		row.UpdatedAt = now.UTC()
		if err := tx.Save(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrOperatorSlotTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return entities.OperatorToken{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) SetDelegate(ctx context.Context, operatorID uint64, delegateRef string, now time.Time) (entities.OperatorToken, error) {
	var row operatorModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token_id = ?", operatorID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUnknownOperator
			}
			return err
		}
		row.BoundDelegate = delegateRef
		row.UpdatedAt = now.UTC()
		return tx.Save(&row).Error
	})
	if err != nil {
		return entities.OperatorToken{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) SetVerification(ctx context.Context, verification entities.DelegateVerification) error {
	row := verificationModel{
		AuthorizerID: verification.AuthorizerID,
		DelegateRef:  verification.DelegateRef,
		Verified:     verification.Verified,
		UpdatedAt:    verification.UpdatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "authorizer_id"}, {Name: "delegate_ref"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (r *Repository) GetVerification(ctx context.Context, authorizerID uint64, delegateRef string) (bool, error) {
	var row verificationModel
	err := r.db.WithContext(ctx).
		Where("authorizer_id = ? AND delegate_ref = ?", authorizerID, delegateRef).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return row.Verified, nil
}

func (r *Repository) TransferAuthorizer(ctx context.Context, tokenID uint64, newOwner string, _ time.Time) (entities.AuthorizerToken, error) {
	var row authorizerModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token_id = ?", tokenID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUnknownAuthorizer
			}
			return err
		}
		row.Owner = newOwner
		return tx.Save(&row).Error
	})
	if err != nil {
		return entities.AuthorizerToken{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) TransferOperator(ctx context.Context, tokenID uint64, newOwner string, now time.Time) (entities.OperatorToken, error) {
	var row operatorModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token_id = ?", tokenID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUnknownOperator
			}
			return err
		}
		row.Owner = newOwner
		row.UpdatedAt = now.UTC()
		return tx.Save(&row).Error
	})
	if err != nil {
		return entities.OperatorToken{}, err
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type authorizerModel struct {
	TokenID  uint64    `gorm:"column:token_id;primaryKey;autoIncrement"`
	Owner    string    `gorm:"column:owner"`
	MintedAt time.Time `gorm:"column:minted_at"`
}

func (authorizerModel) TableName() string {
	return "ledger_authorizer_tokens"
}

func (m authorizerModel) toEntity() entities.AuthorizerToken {
	return entities.AuthorizerToken{
		TokenID:  m.TokenID,
		Owner:    m.Owner,
		MintedAt: m.MintedAt,
	}
}

type operatorModel struct {
	TokenID            uint64    `gorm:"column:token_id;primaryKey;autoIncrement"`
	Owner              string    `gorm:"column:owner"`
	ParentAuthorizerID uint64    `gorm:"column:parent_authorizer_id;uniqueIndex"`
	BoundDelegate      string    `gorm:"column:bound_delegate"`
	MintedAt           time.Time `gorm:"column:minted_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (operatorModel) TableName() string {
	return "ledger_operator_tokens"
}

func (m operatorModel) toEntity() entities.OperatorToken {
	return entities.OperatorToken{
		TokenID:            m.TokenID,
		Owner:              m.Owner,
		ParentAuthorizerID: m.ParentAuthorizerID,
		BoundDelegate:      m.BoundDelegate,
		MintedAt:           m.MintedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

type verificationModel struct {
	AuthorizerID uint64    `gorm:"column:authorizer_id;primaryKey"`
	DelegateRef  string    `gorm:"column:delegate_ref;primaryKey"`
	Verified     bool      `gorm:"column:verified"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (verificationModel) TableName() string {
	return "ledger_delegate_verifications"
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	Payload     []byte    `gorm:"column:payload"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "ledger_idempotency_keys"
}

var (
	_ ports.Repository       = (*Repository)(nil)
	_ ports.IdempotencyStore = (*Repository)(nil)
)
