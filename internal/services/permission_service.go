package services

import (
	"context"
	errs "errors"

	"github.com/rafabene/avantpro-cms/internal/domain/authz"
	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	"github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/domain/repositories"
)

// PermissionService responde consultas de permissão para usuários e principals
type PermissionService struct {
	userRepo repositories.UserRepository
	resolver *authz.Resolver
	logger   ports.Logger
}

// NewPermissionService cria um novo PermissionService
func NewPermissionService(userRepo repositories.UserRepository, resolver *authz.Resolver, logger ports.Logger) *PermissionService {
	return &PermissionService{
		userRepo: userRepo,
		resolver: resolver,
		logger:   logger,
	}
}

// PrincipalFor monta o principal atual do usuário a partir do store
func (s *PermissionService) PrincipalFor(ctx context.Context, userID string) (entities.Principal, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return entities.Principal{}, err
	}
	if user == nil {
		return entities.Principal{}, errors.ErrUserNotFound
	}
	return user.Principal(), nil
}

// LoadSession resolve de uma vez todas as permissões do usuário
func (s *PermissionService) LoadSession(ctx context.Context, userID string) (*authz.Session, error) {
	principal, err := s.PrincipalFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.SessionFor(ctx, principal)
}

// SessionFor resolve as permissões de um principal já carregado.
// Um papel customizado que não existe mais gera uma sessão que nega tudo.
func (s *PermissionService) SessionFor(ctx context.Context, principal entities.Principal) (*authz.Session, error) {
	effective, err := s.resolver.EffectivePermissions(ctx, principal)
	if errs.Is(err, errors.ErrCustomRoleNotFound) {
		s.logger.Warn("principal references a missing custom role",
			"org_id", principal.OrganizationID,
			"role", principal.Role.String(),
		)
		return authz.NewSession(principal, entities.PermissionSet{}), nil
	}
	if err != nil {
		s.logger.Error("failed to resolve effective permissions",
			"org_id", principal.OrganizationID,
			"role", principal.Role.String(),
			"error", err,
		)
		return nil, err
	}
	return authz.NewSession(principal, effective), nil
}

// Check resolve um par. Em erro o resultado é sempre false.
func (s *PermissionService) Check(ctx context.Context, principal entities.Principal, resource entities.Resource, action entities.Action) (bool, error) {
	permission := entities.NewPermission(resource, action)
	allowed, err := s.resolver.HasPermission(ctx, principal, permission)
	if err != nil {
		s.logger.Warn("permission check failed closed",
			"org_id", principal.OrganizationID,
			"role", principal.Role.String(),
			"permission", permission.Key(),
			"error", err,
		)
		return false, err
	}
	return allowed, nil
}

// CheckAny é true se ao menos um dos pares for permitido
func (s *PermissionService) CheckAny(ctx context.Context, principal entities.Principal, perms ...entities.Permission) (bool, error) {
	return s.resolver.HasAnyPermission(ctx, principal, perms)
}

// CheckAll é true se todos os pares forem permitidos
func (s *PermissionService) CheckAll(ctx context.Context, principal entities.Principal, perms ...entities.Permission) (bool, error) {
	return s.resolver.HasAllPermissions(ctx, principal, perms)
}
