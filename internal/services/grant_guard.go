package services

import (
	"context"
	errs "errors"

	"github.com/rafabene/avantpro-cms/internal/domain/authz"
	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	"github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
)

// grantGuard impede que um ator conceda, por papel customizado ou atribuição,
// permissões que ele mesmo não tem. Superadmin não tem limite.
type grantGuard struct {
	resolver *authz.Resolver
	logger   ports.Logger
}

func newGrantGuard(roles authz.RoleLoader, logger ports.Logger) grantGuard {
	return grantGuard{resolver: authz.NewResolver(roles), logger: logger.With("component", "grant_guard")}
}

// held retorna as permissões do ator; nil quando ele não tem limite
func (g grantGuard) held(ctx context.Context, actor entities.Principal) (entities.PermissionSet, error) {
	if actor.Role.IsSuperadmin() {
		return nil, nil
	}
	set, err := g.resolver.EffectivePermissions(ctx, actor)
	if errs.Is(err, errors.ErrCustomRoleNotFound) || errs.Is(err, errors.ErrInvalidRoleReference) {
		return nil, errors.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return set, nil
}

// roleGrants resolve o conjunto efetivo de uma referência dentro da organização.
// Papel customizado inexistente não concede nada.
func (g grantGuard) roleGrants(ctx context.Context, organizationID string, ref entities.RoleRef) (entities.PermissionSet, error) {
	set, err := g.resolver.EffectivePermissions(ctx, entities.Principal{Role: ref, OrganizationID: organizationID})
	if errs.Is(err, errors.ErrCustomRoleNotFound) {
		return entities.PermissionSet{}, nil
	}
	return set, err
}

// ensureWithin falha com ErrForbidden quando granted libera algo fora de held.
// held nil significa ator sem limite.
func (g grantGuard) ensureWithin(actor entities.Principal, held, granted entities.PermissionSet) error {
	if held == nil {
		return nil
	}
	if key, beyond := granted.GrantsBeyond(held); beyond {
		g.logger.Warn("grant above actor level refused",
			"org_id", actor.OrganizationID,
			"actor_role", actor.Role.String(),
			"permission", key,
		)
		return errors.ErrForbidden
	}
	return nil
}

// effectiveOf expande um papel customizado ainda não gravado sobre o catálogo
func effectiveOf(role *entities.CustomRoleDefinition) entities.PermissionSet {
	all := entities.AllPermissions()
	set := make(entities.PermissionSet, len(all))
	for _, p := range all {
		set[p.Key()] = role.Resolve(p.Key())
	}
	return set
}
