package dto

import (
	"github.com/rafabene/avantpro-cms/internal/domain/entities"
)

// CatalogEntry lista as ações válidas de um recurso
type CatalogEntry struct {
	Resource string   `json:"resource"`
	Actions  []string `json:"actions"`
}

// CatalogResponse representa o catálogo de permissões
type CatalogResponse struct {
	Resources []CatalogEntry `json:"resources"`
}

// SystemRoleResponse representa o conjunto completo de um papel de sistema
type SystemRoleResponse struct {
	Role        string          `json:"role"`
	Bypass      bool            `json:"bypass"`
	Permissions map[string]bool `json:"permissions"`
}

// EffectivePermissionsResponse representa as permissões resolvidas do usuário autenticado
type EffectivePermissionsResponse struct {
	UserID         string          `json:"user_id"`
	OrganizationID string          `json:"organization_id"`
	Role           string          `json:"role"`
	Permissions    map[string]bool `json:"permissions"`
}

// ToCatalogResponse monta o catálogo na ordem de declaração
func ToCatalogResponse() CatalogResponse {
	resources := entities.AllResources()
	entries := make([]CatalogEntry, len(resources))
	for i, resource := range resources {
		actions := entities.ValidActionsFor(resource)
		names := make([]string, len(actions))
		for j, action := range actions {
			names[j] = string(action)
		}
		entries[i] = CatalogEntry{Resource: string(resource), Actions: names}
	}
	return CatalogResponse{Resources: entries}
}

// ToSystemRoleResponses lista os papéis de sistema com seus conjuntos completos
func ToSystemRoleResponses() []SystemRoleResponse {
	roles := entities.AllSystemRoles()
	responses := make([]SystemRoleResponse, len(roles))
	for i, role := range roles {
		responses[i] = SystemRoleResponse{
			Role:        role.String(),
			Bypass:      role.IsSuperadmin(),
			Permissions: entities.PermissionsFor(role),
		}
	}
	return responses
}
