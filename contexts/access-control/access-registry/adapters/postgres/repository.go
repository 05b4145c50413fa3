package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"domin/contexts/access-control/access-registry/domain/entities"
	domainerrors "domin/contexts/access-control/access-registry/domain/errors"
	"domin/contexts/access-control/access-registry/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

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

func (r *Repository) GrantRole(ctx context.Context, input ports.GrantRoleInput) (entities.RoleMembership, error) {
	membership := entities.RoleMembership{
		RoleID:    input.RoleID,
		Principal: input.Principal,
		GrantedAt: input.GrantedAt.UTC(),
		Delay:     input.Delay,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRole(tx, input.RoleID, input.GrantedAt); err != nil {
			return err
		}
		row := membershipModelFromEntity(membership)
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "role_id"}, {Name: "principal"}},
			UpdateAll: true,
		}).Create(&row).Error
	})
	if err != nil {
		return entities.RoleMembership{}, err
	}
	return membership, nil
}

func (r *Repository) LabelRole(ctx context.Context, roleID uint64, label string, now time.Time) (entities.Role, error) {
	role := entities.Role{
		RoleID:    roleID,
		Label:     label,
		CreatedAt: now.UTC(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRole(tx, roleID, now); err != nil {
			return err
		}
		var row roleModel
		if err := tx.Where("role_id = ?", roleID).First(&row).Error; err != nil {
			return err
		}
		role.CreatedAt = row.CreatedAt
		return tx.Model(&roleModel{}).
			Where("role_id = ?", roleID).
			Update("label", label).
			Error
	})
	if err != nil {
		return entities.Role{}, err
	}
	return role, nil
}

func (r *Repository) SetTargetFunctionRole(ctx context.Context, input ports.SetTargetFunctionRoleInput) ([]entities.FunctionBinding, error) {
	items := make([]entities.FunctionBinding, 0, len(input.Selectors))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, selector := range input.Selectors {
			binding := entities.FunctionBinding{
				Target:    input.Target,
				Selector:  selector,
				RoleID:    input.RoleID,
				UpdatedAt: input.UpdatedAt.UTC(),
			}
			row := bindingModelFromEntity(binding)
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "target"}, {Name: "selector"}},
				UpdateAll: true,
			}).Create(&row).Error; err != nil {
				return err
			}
			items = append(items, binding)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) GetRole(ctx context.Context, roleID uint64) (entities.Role, error) {
	var row roleModel
	err := r.db.WithContext(ctx).
		Where("role_id = ?", roleID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Role{}, domainerrors.ErrUnknownRole
		}
		return entities.Role{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetMembership(ctx context.Context, roleID uint64, principal string) (entities.RoleMembership, bool, error) {
	var row membershipModel
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND principal = ?", roleID, principal).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RoleMembership{}, false, nil
		}
		return entities.RoleMembership{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListRoleMembers(ctx context.Context, roleID uint64) ([]entities.RoleMembership, error) {
	var rows []membershipModel
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", roleID).
		Order("principal ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.RoleMembership, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetTargetFunctionRole(ctx context.Context, target string, selector string) (entities.FunctionBinding, error) {
	var row bindingModel
	err := r.db.WithContext(ctx).
		Where("target = ? AND selector = ?", target, selector).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.FunctionBinding{}, domainerrors.ErrUnknownBinding
		}
		return entities.FunctionBinding{}, err
	}
	return row.toEntity(), nil
}

func ensureRole(tx *gorm.DB, roleID uint64, now time.Time) error {
	row := roleModel{
		RoleID:    roleID,
		CreatedAt: now.UTC(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}},
		DoNothing: true,
	}).Create(&row).Error
}

type roleModel struct {
	RoleID    uint64    `gorm:"column:role_id;primaryKey"`
	Label     string    `gorm:"column:label"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (roleModel) TableName() string {
	return "access_roles"
}

func (m roleModel) toEntity() entities.Role {
	return entities.Role{
		RoleID:    m.RoleID,
		Label:     m.Label,
		CreatedAt: m.CreatedAt,
	}
}

type membershipModel struct {
	RoleID       uint64    `gorm:"column:role_id;primaryKey"`
	Principal    string    `gorm:"column:principal;primaryKey"`
	GrantedAt    time.Time `gorm:"column:granted_at"`
	DelaySeconds int64     `gorm:"column:delay_seconds"`
}

func (membershipModel) TableName() string {
	return "access_role_members"
}

func membershipModelFromEntity(membership entities.RoleMembership) membershipModel {
	return membershipModel{
		RoleID:       membership.RoleID,
		Principal:    membership.Principal,
		GrantedAt:    membership.GrantedAt,
		DelaySeconds: int64(membership.Delay / time.Second),
	}
}

func (m membershipModel) toEntity() entities.RoleMembership {
	return entities.RoleMembership{
		RoleID:    m.RoleID,
		Principal: m.Principal,
		GrantedAt: m.GrantedAt,
		Delay:     time.Duration(m.DelaySeconds) * time.Second,
	}
}

type bindingModel struct {
	Target    string    `gorm:"column:target;primaryKey"`
	Selector  string    `gorm:"column:selector;primaryKey"`
	RoleID    uint64    `gorm:"column:role_id"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bindingModel) TableName() string {
	return "access_function_bindings"
}

func bindingModelFromEntity(binding entities.FunctionBinding) bindingModel {
	return bindingModel{
		Target:    binding.Target,
		Selector:  binding.Selector,
		RoleID:    binding.RoleID,
		UpdatedAt: binding.UpdatedAt,
	}
}

func (m bindingModel) toEntity() entities.FunctionBinding {
	return entities.FunctionBinding{
		Target:    m.Target,
		Selector:  m.Selector,
		RoleID:    m.RoleID,
		UpdatedAt: m.UpdatedAt,
	}
}
