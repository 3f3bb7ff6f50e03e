package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/repositories"
	"github.com/rafabene/avantpro-cms/internal/domain/valueobjects"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	model := toUserModel(user)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isForeignKeyViolation(err) {
			return domainerrors.ErrCustomRoleNotFound
		}
		return err
	}

	user.CreatedAt = time.Unix(model.CreatedAt, 0).UTC()
	user.UpdatedAt = time.Unix(model.UpdatedAt, 0).UTC()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	var model UserModel

	// Soft delete: ignorar registros deletados
	if err := dbFrom(ctx, r.db).Where("id = ? AND deleted_at IS NULL", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toUserEntity(&model)
}

// UpdateRole grava apenas a referência de papel do usuário
func (r *UserRepository) UpdateRole(ctx context.Context, user *entities.User) error {
	now := time.Now()

	result := dbFrom(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ? AND deleted_at IS NULL", user.ID).
		Updates(map[string]interface{}{
			"role":           user.Role.String(),
			"custom_role_id": customRoleID(user.Role),
			"updated_at":     now.Unix(),
		})
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return domainerrors.ErrCustomRoleNotFound
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}

	user.UpdatedAt = time.Unix(now.Unix(), 0).UTC()
	return nil
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	var models []*UserModel

	query := dbFrom(ctx, r.db).Model(&UserModel{})

	// Soft delete: ignorar registros deletados
	query = query.Where("deleted_at IS NULL AND organization_id = ?", filters.OrganizationID)

	// Aplicar filtros
	if filters.Role != nil {
		query = query.Where("role = ?", filters.Role.String())
	}

	// Paginação
	page, pageSize := repositories.NormalizePage(filters.Page, filters.PageSize)
	offset := (page - 1) * pageSize
	query = query.Order("created_at ASC, id ASC").Limit(pageSize).Offset(offset)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]*entities.User, 0, len(models))
	for _, model := range models {
		user, err := toUserEntity(model)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SoftDelete mantém o papel textual para histórico, mas zera a foreign key
// para que o papel customizado possa ser removido depois
func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().Unix()

	result := dbFrom(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at":     now,
			"custom_role_id": nil,
			"updated_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountUsersWithRole(ctx context.Context, roleID int64) (int64, error) {
	var count int64

	err := dbFrom(ctx, r.db).
		Model(&UserModel{}).
		Where("custom_role_id = ? AND deleted_at IS NULL", roleID).
		Count(&count).Error
	return count, err
}

func customRoleID(ref entities.RoleRef) *int64 {
	if id, ok := ref.Custom(); ok {
		return &id
	}
	return nil
}

// Conversores
func toUserModel(user *entities.User) *UserModel {
	var deletedAt *int64
	if user.DeletedAt != nil {
		ts := user.DeletedAt.Unix()
		deletedAt = &ts
	}

	model := &UserModel{
		ID:             user.ID,
		OrganizationID: user.OrganizationID,
		Email:          user.Email.String(),
		Name:           user.Name,
		Role:           user.Role.String(),
		CustomRoleID:   customRoleID(user.Role),
		DeletedAt:      deletedAt,
	}
	if !user.CreatedAt.IsZero() {
		model.CreatedAt = user.CreatedAt.Unix()
	}
	if !user.UpdatedAt.IsZero() {
		model.UpdatedAt = user.UpdatedAt.Unix()
	}
	return model
}

func toUserEntity(model *UserModel) (*entities.User, error) {
	email, err := valueobjects.NewEmail(model.Email)
	if err != nil {
		return nil, err
	}

	role, err := entities.ParseRoleRef(model.Role)
	if err != nil {
		return nil, err
	}

	var deletedAt *time.Time
	if model.DeletedAt != nil {
		ts := time.Unix(*model.DeletedAt, 0)
		deletedAt = &ts
	}

	return &entities.User{
		ID:             model.ID,
		OrganizationID: model.OrganizationID,
		Email:          email,
		Name:           model.Name,
		Role:           role,
		CreatedAt:      time.Unix(model.CreatedAt, 0).UTC(),
		UpdatedAt:      time.Unix(model.UpdatedAt, 0).UTC(),
		DeletedAt:      deletedAt,
	}, nil
}
