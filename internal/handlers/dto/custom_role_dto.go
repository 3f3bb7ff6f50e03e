package dto

import (
	"time"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
)

// CreateCustomRoleRequest representa a requisição para criar um papel customizado
type CreateCustomRoleRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description *string         `json:"description" binding:"omitempty,max=500"`
	BasedOnRole string          `json:"based_on_role" binding:"required"`
	Permissions map[string]bool `json:"permissions" binding:"omitempty,dive,keys,permission_key,endkeys"`
	IsDefault   bool            `json:"is_default"`
}

// UpdateCustomRoleRequest representa a atualização parcial de um papel.
// Quando presente, permissions substitui todos os overrides.
type UpdateCustomRoleRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	BasedOnRole *string          `json:"based_on_role"`
	Permissions *map[string]bool `json:"permissions"`
	IsDefault   *bool            `json:"is_default"`
}

// CustomRoleResponse representa a resposta de um papel customizado
type CustomRoleResponse struct {
	ID             int64           `json:"id"`
	Role           string          `json:"role"`
	Name           string          `json:"name"`
	Description    *string         `json:"description,omitempty"`
	OrganizationID string          `json:"organization_id"`
	BasedOnRole    string          `json:"based_on_role"`
	IsDefault      bool            `json:"is_default"`
	Permissions    map[string]bool `json:"permissions"`
	CreatedByID    string          `json:"created_by_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToCustomRoleResponse converte uma entidade CustomRoleDefinition
func ToCustomRoleResponse(role *entities.CustomRoleDefinition) CustomRoleResponse {
	perms := map[string]bool(role.Permissions.Clone())
	if perms == nil {
		perms = map[string]bool{}
	}

	return CustomRoleResponse{
		ID:             role.ID,
		Role:           role.Ref().String(),
		Name:           role.Name,
		Description:    role.Description,
		OrganizationID: role.OrganizationID,
		BasedOnRole:    role.BasedOnRole.String(),
		IsDefault:      role.IsDefault,
		Permissions:    perms,
		CreatedByID:    role.CreatedByID,
		CreatedAt:      role.CreatedAt,
		UpdatedAt:      role.UpdatedAt,
	}
}

// ToCustomRoleResponses converte uma lista de papéis
func ToCustomRoleResponses(roles []*entities.CustomRoleDefinition) []CustomRoleResponse {
	responses := make([]CustomRoleResponse, len(roles))
	for i, role := range roles {
		responses[i] = ToCustomRoleResponse(role)
	}
	return responses
}
