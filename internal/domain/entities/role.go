package entities

import (
	"strings"

	domainerrors "github.com/rafabene/avantpro-cms/internal/domain/errors"
)

// SystemRole representa um dos papéis fixos do sistema
type SystemRole string

const (
	RoleSuperadmin  SystemRole = "superadmin"
	RoleAdmin       SystemRole = "admin"
	RoleEditor      SystemRole = "editor"
	RoleContributor SystemRole = "contributor"
	RoleViewer      SystemRole = "viewer"
)

// systemRoles na ordem do mais ao menos privilegiado
var systemRoles = []SystemRole{RoleSuperadmin, RoleAdmin, RoleEditor, RoleContributor, RoleViewer}

// AllSystemRoles retorna os cinco papéis de sistema
func AllSystemRoles() []SystemRole {
	roles := make([]SystemRole, len(systemRoles))
	copy(roles, systemRoles)
	return roles
}

// ParseSystemRole converte uma string em SystemRole.
// Valores não declarados (inclusive o legado "reader") são rejeitados.
func ParseSystemRole(value string) (SystemRole, error) {
	role := SystemRole(strings.TrimSpace(value))
	if !role.IsValid() {
		return "", domainerrors.ErrInvalidSystemRole
	}
	return role, nil
}

// IsValid verifica se o papel é um dos cinco declarados
func (r SystemRole) IsValid() bool {
	for _, role := range systemRoles {
		if role == r {
			return true
		}
	}
	return false
}

// IsSuperadmin indica o papel com permissão universal
func (r SystemRole) IsSuperadmin() bool {
	return r == RoleSuperadmin
}

func (r SystemRole) String() string {
	return string(r)
}

func perms(resource Resource, actions ...Action) []Permission {
	out := make([]Permission, len(actions))
	for i, action := range actions {
		out[i] = Permission{Resource: resource, Action: action}
	}
	return out
}

func join(groups ...[]Permission) []Permission {
	var out []Permission
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// roleGrants lista o que cada papel concede. Tudo que não está listado é negado
// explicitamente em PermissionsFor.
var roleGrants = map[SystemRole][]Permission{
	RoleSuperadmin: AllPermissions(),
	RoleAdmin: join(
		perms(ResourcePage, contentActions...),
		perms(ResourceBlog, contentActions...),
		perms(ResourceCourse, contentActions...),
		perms(ResourceMedia, crudActions...),
		perms(ResourceCategory, crudActions...),
		perms(ResourceTag, crudActions...),
		perms(ResourceUser, ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionInvite, ActionManage),
		perms(ResourceOrganization, ActionRead, ActionUpdate),
		perms(ResourceSetting, ActionRead, ActionUpdate, ActionManage),
		perms(ResourceAnalytics, ActionRead),
		perms(ResourceAPIKey, ActionCreate, ActionRead, ActionDelete, ActionManage),
	),
	RoleEditor: join(
		perms(ResourcePage, ActionCreate, ActionRead, ActionUpdate),
		perms(ResourceBlog, ActionCreate, ActionRead, ActionUpdate, ActionPublish, ActionUnpublish),
		perms(ResourceCourse, ActionCreate, ActionRead, ActionUpdate),
		perms(ResourceMedia, ActionCreate, ActionRead, ActionUpdate),
		perms(ResourceCategory, ActionCreate, ActionRead, ActionUpdate),
		perms(ResourceTag, ActionCreate, ActionRead, ActionUpdate),
		perms(ResourceUser, ActionRead),
		perms(ResourceOrganization, ActionRead),
		perms(ResourceAnalytics, ActionRead),
	),
	RoleContributor: join(
		perms(ResourcePage, ActionCreate, ActionRead, ActionUpdate),
		perms(ResourceBlog, ActionCreate, ActionRead, ActionUpdate),
		perms(ResourceCourse, ActionRead),
		perms(ResourceMedia, ActionCreate, ActionRead),
		perms(ResourceCategory, ActionRead),
		perms(ResourceTag, ActionRead),
		perms(ResourceOrganization, ActionRead),
	),
	RoleViewer: join(
		perms(ResourcePage, ActionRead),
		perms(ResourceBlog, ActionRead),
		perms(ResourceCourse, ActionRead),
		perms(ResourceMedia, ActionRead),
		perms(ResourceCategory, ActionRead),
		perms(ResourceTag, ActionRead),
		perms(ResourceOrganization, ActionRead),
	),
}

// rolePermissions guarda os conjuntos completos, montados na inicialização
var rolePermissions = buildRolePermissions()

func buildRolePermissions() map[SystemRole]PermissionSet {
	sets := make(map[SystemRole]PermissionSet, len(systemRoles))
	for _, role := range systemRoles {
		set := make(PermissionSet, len(validKeys))
		for key := range validKeys {
			set[key] = false
		}
		for _, p := range roleGrants[role] {
			set[p.Key()] = true
		}
		sets[role] = set
	}
	return sets
}

// PermissionsFor retorna o conjunto completo de permissões de um papel.
// O mapa retornado é uma cópia; papéis desconhecidos recebem um conjunto vazio.
func PermissionsFor(role SystemRole) PermissionSet {
	set, ok := rolePermissions[role]
	if !ok {
		return PermissionSet{}
	}
	return set.Clone()
}

// HasPermission consulta o conjunto do papel sem copiar.
// Não aplica o bypass de superadmin; isso é responsabilidade do resolver.
func (r SystemRole) HasPermission(key string) bool {
	return rolePermissions[r][key]
}
