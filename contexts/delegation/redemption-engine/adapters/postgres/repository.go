package postgresadapter

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"domin/contexts/delegation/redemption-engine/domain/entities"
	"domin/contexts/delegation/redemption-engine/ports"
)

// Repository persists audit records and outbox rows in one transaction.
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

func (r *Repository) AppendAudit(ctx context.Context, records []entities.AuditRecord, outbox []ports.OutboxMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			row := auditModelFromEntity(record)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, message := range outbox {
			row := outboxModel{
				OutboxID:  message.OutboxID,
				Topic:     message.Topic,
				Payload:   message.Payload,
				CreatedAt: message.CreatedAt.UTC(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) ListAuditsByAuthorizer(ctx context.Context, authorizerID uint64, limit int) ([]entities.AuditRecord, error) {
	var rows []auditModel
	if err := r.db.WithContext(ctx).
		Where("authorizer_id = ?", authorizerID).
		Order("redeemed_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.AuditRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			Topic:     row.Topic,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	stamp := publishedAt.UTC()
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Update("published_at", &stamp).
		Error
}

type auditModel struct {
	AuditID      string    `gorm:"column:audit_id;primaryKey"`
	RedemptionID string    `gorm:"column:redemption_id;index"`
	AuthorizerID uint64    `gorm:"column:authorizer_id;index"`
	OperatorID   uint64    `gorm:"column:operator_id"`
	DelegateRef  string    `gorm:"column:delegate_ref"`
	AssetRef     string    `gorm:"column:asset_ref"`
	AssetID      uint64    `gorm:"column:asset_id"`
	AssetOwner   string    `gorm:"column:asset_owner"`
	Memo         string    `gorm:"column:memo"`
	RedeemedAt   time.Time `gorm:"column:redeemed_at"`
}

func (auditModel) TableName() string {
	return "redemption_audit_records"
}

func auditModelFromEntity(record entities.AuditRecord) auditModel {
	return auditModel{
		AuditID:      record.AuditID,
		RedemptionID: record.RedemptionID,
		AuthorizerID: record.AuthorizerID,
		OperatorID:   record.OperatorID,
		DelegateRef:  record.DelegateRef,
		AssetRef:     record.AssetRef,
		AssetID:      record.AssetID,
		AssetOwner:   record.AssetOwner,
		Memo:         record.Memo,
		RedeemedAt:   record.RedeemedAt.UTC(),
	}
}

func (m auditModel) toEntity() entities.AuditRecord {
	return entities.AuditRecord{
		AuditID:      m.AuditID,
		RedemptionID: m.RedemptionID,
		AuthorizerID: m.AuthorizerID,
		OperatorID:   m.OperatorID,
		DelegateRef:  m.DelegateRef,
		AssetRef:     m.AssetRef,
		AssetID:      m.AssetID,
		AssetOwner:   m.AssetOwner,
		Memo:         m.Memo,
		RedeemedAt:   m.RedeemedAt,
	}
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	Topic       string     `gorm:"column:topic"`
	Payload     []byte     `gorm:"column:payload"`
	CreatedAt   time.Time  `gorm:"column:created_at;index"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "redemption_outbox"
}

var _ ports.Repository = (*Repository)(nil)
