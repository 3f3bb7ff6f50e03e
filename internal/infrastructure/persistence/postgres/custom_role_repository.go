package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/repositories"
)

// CustomRoleRepository implementa repositories.CustomRoleRepository
type CustomRoleRepository struct {
	db *gorm.DB
}

// NewCustomRoleRepository cria um novo CustomRoleRepository
func NewCustomRoleRepository(db *gorm.DB) repositories.CustomRoleRepository {
	return &CustomRoleRepository{db: db}
}

func (r *CustomRoleRepository) Create(ctx context.Context, role *entities.CustomRoleDefinition) error {
	model := toCustomRoleModel(role)

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return err
	}

	role.ID = model.ID
	role.CreatedAt = time.Unix(model.CreatedAt, 0).UTC()
	role.UpdatedAt = time.Unix(model.UpdatedAt, 0).UTC()
	return nil
}

func (r *CustomRoleRepository) FindByID(ctx context.Context, id int64) (*entities.CustomRoleDefinition, error) {
	var model CustomRoleModel

	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toCustomRoleEntity(&model)
}

func (r *CustomRoleRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*entities.CustomRoleDefinition, error) {
	var models []*CustomRoleModel

	if err := dbFrom(ctx, r.db).
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	roles := make([]*entities.CustomRoleDefinition, 0, len(models))
	for _, model := range models {
		role, err := toCustomRoleEntity(model)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// Update grava todos os campos mutáveis numa única instrução UPDATE
func (r *CustomRoleRepository) Update(ctx context.Context, role *entities.CustomRoleDefinition) error {
	model := toCustomRoleModel(role)
	model.UpdatedAt = time.Now().Unix()

	result := dbFrom(ctx, r.db).
		Model(&CustomRoleModel{ID: role.ID}).
		Select("name", "description", "based_on_role", "is_default", "permissions", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCustomRoleNotFound
	}

	role.UpdatedAt = time.Unix(model.UpdatedAt, 0).UTC()
	return nil
}

// Delete remove o papel; a foreign key de users.custom_role_id rejeita a
// exclusão enquanto houver referências
func (r *CustomRoleRepository) Delete(ctx context.Context, id int64) error {
	result := dbFrom(ctx, r.db).Delete(&CustomRoleModel{}, id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return domainerrors.ErrCustomRoleInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCustomRoleNotFound
	}
	return nil
}

func (r *CustomRoleRepository) ClearDefault(ctx context.Context, organizationID string, exceptID int64) error {
	return dbFrom(ctx, r.db).
		Model(&CustomRoleModel{}).
		Where("organization_id = ? AND id <> ? AND is_default = ?", organizationID, exceptID, true).
		Updates(map[string]interface{}{
			"is_default": false,
			"updated_at": time.Now().Unix(),
		}).Error
}

// Conversores
func toCustomRoleModel(role *entities.CustomRoleDefinition) *CustomRoleModel {
	permissions := map[string]bool(role.Permissions.Clone())
	if permissions == nil {
		permissions = map[string]bool{}
	}

	model := &CustomRoleModel{
		ID:             role.ID,
		OrganizationID: role.OrganizationID,
		Name:           role.Name,
		Description:    role.Description,
		BasedOnRole:    string(role.BasedOnRole),
		IsDefault:      role.IsDefault,
		Permissions:    permissions,
		CreatedByID:    role.CreatedByID,
	}
	if !role.CreatedAt.IsZero() {
		model.CreatedAt = role.CreatedAt.Unix()
	}
	if !role.UpdatedAt.IsZero() {
		model.UpdatedAt = role.UpdatedAt.Unix()
	}
	return model
}

func toCustomRoleEntity(model *CustomRoleModel) (*entities.CustomRoleDefinition, error) {
	// papéis gravados com uma base desconhecida nunca são promovidos
	basedOn, err := entities.ParseSystemRole(model.BasedOnRole)
	if err != nil {
		return nil, err
	}

	return &entities.CustomRoleDefinition{
		ID:             model.ID,
		Name:           model.Name,
		Description:    model.Description,
		OrganizationID: model.OrganizationID,
		BasedOnRole:    basedOn,
		IsDefault:      model.IsDefault,
		Permissions:    entities.PermissionSet(model.Permissions),
		CreatedByID:    model.CreatedByID,
		CreatedAt:      time.Unix(model.CreatedAt, 0).UTC(),
		UpdatedAt:      time.Unix(model.UpdatedAt, 0).UTC(),
	}, nil
}
