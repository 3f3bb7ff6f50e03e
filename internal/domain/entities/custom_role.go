package entities

import (
	"strings"
	"time"

	domainerrors "github.com/rafabene/avantpro-cms/internal/domain/errors"
)

// CustomRoleDefinition é um papel de uma organização que herda de um SystemRole
// e sobrescreve permissões de forma esparsa
type CustomRoleDefinition struct {
	ID             int64
	Name           string
	Description    *string
	OrganizationID string
	BasedOnRole    SystemRole
	IsDefault      bool
	Permissions    PermissionSet // overrides esparsos, nunca expandidos
	CreatedByID    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Ref retorna a referência usada nos usuários
func (r *CustomRoleDefinition) Ref() RoleRef {
	return CustomRoleRef(r.ID)
}

// Resolve aplica override sobre herança para uma chave
func (r *CustomRoleDefinition) Resolve(key string) bool {
	if value, ok := r.Permissions.Lookup(key); ok {
		return value
	}
	return r.BasedOnRole.HasPermission(key)
}

// Validate valida regras de negócio da entidade
func (r *CustomRoleDefinition) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return domainerrors.NewValidationError("name", domainerrors.ErrRoleNameRequired)
	}

	if !r.BasedOnRole.IsValid() {
		return domainerrors.NewValidationError("based_on_role", domainerrors.ErrInvalidSystemRole)
	}
	if r.BasedOnRole.IsSuperadmin() {
		return domainerrors.NewValidationError("based_on_role", domainerrors.ErrSuperadminBase)
	}

	if invalid := r.Permissions.InvalidKeys(); len(invalid) > 0 {
		return domainerrors.NewValidationError("permissions."+invalid[0], domainerrors.ErrInvalidPermissionKey)
	}

	if r.OrganizationID == "" {
		return domainerrors.NewValidationError("organization_id", domainerrors.ErrValidation)
	}

	return nil
}
