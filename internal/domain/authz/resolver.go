// Package authz resolve permissões de um Principal aplicando override sobre herança:
// overrides explícitos do papel customizado vencem o conjunto do papel de sistema base,
// e qualquer chave não coberta por nenhum dos dois é negada.
//
// Toda incerteza (papel ausente, erro do store, contexto cancelado) resulta em negação.
package authz

import (
	"context"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-cms/internal/domain/errors"
)

// RoleLoader carrega definições de papéis customizados.
// Retorna (nil, nil) quando o papel não existe.
type RoleLoader interface {
	FindByID(ctx context.Context, id int64) (*entities.CustomRoleDefinition, error)
}

// Resolver calcula allow/deny para um Principal. Não mantém estado mutável.
type Resolver struct {
	roles RoleLoader
}

// NewResolver cria um Resolver
func NewResolver(roles RoleLoader) *Resolver {
	return &Resolver{roles: roles}
}

// Resolve retorna se o principal pode executar action sobre resource.
// Qualquer erro retornado vem acompanhado de false.
func (r *Resolver) Resolve(ctx context.Context, principal entities.Principal, resource entities.Resource, action entities.Action) (bool, error) {
	if principal.Role.IsSuperadmin() {
		return true, nil
	}

	key := entities.NewPermission(resource, action).Key()

	if role, ok := principal.Role.System(); ok {
		return role.HasPermission(key), nil
	}

	def, err := r.loadCustom(ctx, principal)
	if err != nil {
		return false, err
	}
	return def.Resolve(key), nil
}

// HasPermission é um alias de Resolve para o par informado
func (r *Resolver) HasPermission(ctx context.Context, principal entities.Principal, p entities.Permission) (bool, error) {
	return r.Resolve(ctx, principal, p.Resource, p.Action)
}

// HasAnyPermission retorna true no primeiro par permitido
func (r *Resolver) HasAnyPermission(ctx context.Context, principal entities.Principal, perms []entities.Permission) (bool, error) {
	for _, p := range perms {
		allowed, err := r.Resolve(ctx, principal, p.Resource, p.Action)
		if err != nil {
			return false, err
		}
		if allowed {
			return true, nil
		}
	}
	return false, nil
}

// HasAllPermissions retorna false no primeiro par negado
func (r *Resolver) HasAllPermissions(ctx context.Context, principal entities.Principal, perms []entities.Permission) (bool, error) {
	for _, p := range perms {
		allowed, err := r.Resolve(ctx, principal, p.Resource, p.Action)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}
	return true, nil
}

// EffectivePermissions resolve todas as chaves do catálogo de uma vez.
// O papel customizado é carregado uma única vez.
func (r *Resolver) EffectivePermissions(ctx context.Context, principal entities.Principal) (entities.PermissionSet, error) {
	all := entities.AllPermissions()
	set := make(entities.PermissionSet, len(all))

	switch {
	case principal.Role.IsSuperadmin():
		for _, p := range all {
			set[p.Key()] = true
		}
	case principal.Role.Kind() == entities.RoleRefSystem:
		role, _ := principal.Role.System()
		for _, p := range all {
			set[p.Key()] = role.HasPermission(p.Key())
		}
	default:
		def, err := r.loadCustom(ctx, principal)
		if err != nil {
			return nil, err
		}
		for _, p := range all {
			set[p.Key()] = def.Resolve(p.Key())
		}
	}

	return set, nil
}

func (r *Resolver) loadCustom(ctx context.Context, principal entities.Principal) (*entities.CustomRoleDefinition, error) {
	id, ok := principal.Role.Custom()
	if !ok {
		return nil, domainerrors.ErrInvalidRoleReference
	}

	// contexto cancelado nunca consulta cache nem store
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	def, err := r.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if def == nil || def.OrganizationID != principal.OrganizationID {
		return nil, domainerrors.ErrCustomRoleNotFound
	}
	return def, nil
}
