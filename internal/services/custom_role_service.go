package services

import (
	"context"
	"strings"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	"github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/domain/repositories"
)

// CustomRoleService contém o ciclo de vida dos papéis customizados
type CustomRoleService struct {
	roleRepo repositories.CustomRoleRepository
	userRepo repositories.UserRepository
	uow      ports.UnitOfWork
	cache    ports.RoleCacheInvalidator
	guard    grantGuard
	logger   ports.Logger
}

// NewCustomRoleService cria um novo CustomRoleService
func NewCustomRoleService(
	roleRepo repositories.CustomRoleRepository,
	userRepo repositories.UserRepository,
	uow ports.UnitOfWork,
	cache ports.RoleCacheInvalidator,
	logger ports.Logger,
) *CustomRoleService {
	if cache == nil {
		cache = ports.NoopRoleCache{}
	}
	return &CustomRoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		uow:      uow,
		cache:    cache,
		guard:    newGrantGuard(roleRepo, logger),
		logger:   logger,
	}
}

// CreateCustomRoleInput representa os dados para criar um papel customizado
type CreateCustomRoleInput struct {
	Actor          entities.Principal
	OrganizationID string
	Name           string
	Description    *string
	BasedOnRole    string
	Permissions    map[string]bool
	IsDefault      bool
	CreatedByID    string
}

// UpdateCustomRoleInput contém os campos alterados; nil mantém o valor atual.
// Permissions substitui o mapa inteiro de overrides.
type UpdateCustomRoleInput struct {
	Actor       entities.Principal
	Name        *string
	Description *string
	BasedOnRole *string
	Permissions *map[string]bool
	IsDefault   *bool
}

// Create cria um papel customizado. Os overrides são gravados exatamente como recebidos.
// O papel não pode liberar nada que o ator não tenha.
func (s *CustomRoleService) Create(ctx context.Context, input CreateCustomRoleInput) (*entities.CustomRoleDefinition, error) {
	role := &entities.CustomRoleDefinition{
		Name:           input.Name,
		Description:    normalizeDescription(input.Description),
		OrganizationID: input.OrganizationID,
		BasedOnRole:    entities.SystemRole(strings.TrimSpace(input.BasedOnRole)),
		IsDefault:      input.IsDefault,
		Permissions:    toPermissionSet(input.Permissions),
		CreatedByID:    input.CreatedByID,
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}

	held, err := s.guard.held(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	if err := s.guard.ensureWithin(input.Actor, held, effectiveOf(role)); err != nil {
		return nil, err
	}

	var cleared []int64
	err = s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.roleRepo.Create(ctx, role); err != nil {
			return err
		}
		var err error
		cleared, err = s.clearOtherDefaults(ctx, role)
		return err
	})
	if err != nil {
		s.logger.Error("failed to create custom role", "org_id", input.OrganizationID, "error", err)
		return nil, err
	}

	for _, id := range cleared {
		s.invalidate(ctx, id)
	}

	s.logger.Info("custom role created",
		"org_id", role.OrganizationID,
		"role_id", role.ID,
		"based_on", role.BasedOnRole,
		"overrides", len(role.Permissions),
	)
	return role, nil
}

// Update altera um papel da organização, com a mesma restrição de Create
func (s *CustomRoleService) Update(ctx context.Context, organizationID string, id int64, input UpdateCustomRoleInput) (*entities.CustomRoleDefinition, error) {
	held, err := s.guard.held(ctx, input.Actor)
	if err != nil {
		return nil, err
	}

	var (
		updated *entities.CustomRoleDefinition
		cleared []int64
	)

	err = s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		role, err := s.findOwned(ctx, organizationID, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			role.Name = *input.Name
		}
		if input.Description != nil {
			role.Description = normalizeDescription(input.Description)
		}
		if input.BasedOnRole != nil {
			role.BasedOnRole = entities.SystemRole(strings.TrimSpace(*input.BasedOnRole))
		}
		if input.Permissions != nil {
			role.Permissions = toPermissionSet(*input.Permissions)
		}
		if input.IsDefault != nil {
			role.IsDefault = *input.IsDefault
		}

		if err := role.Validate(); err != nil {
			return err
		}
		if err := s.guard.ensureWithin(input.Actor, held, effectiveOf(role)); err != nil {
			return err
		}
		if err := s.roleRepo.Update(ctx, role); err != nil {
			return err
		}
		if cleared, err = s.clearOtherDefaults(ctx, role); err != nil {
			return err
		}

		updated = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, other := range append(cleared, id) {
		s.invalidate(ctx, other)
	}
	s.logger.Info("custom role updated", "org_id", organizationID, "role_id", id)
	return updated, nil
}

// Delete remove um papel que nenhum usuário referencia
func (s *CustomRoleService) Delete(ctx context.Context, organizationID string, id int64) error {
	err := s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.findOwned(ctx, organizationID, id); err != nil {
			return err
		}

		count, err := s.userRepo.CountUsersWithRole(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return errors.ErrCustomRoleInUse
		}

		return s.roleRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info("custom role deleted", "org_id", organizationID, "role_id", id)
	return nil
}

// Get busca um papel da organização
func (s *CustomRoleService) Get(ctx context.Context, organizationID string, id int64) (*entities.CustomRoleDefinition, error) {
	return s.findOwned(ctx, organizationID, id)
}

// List lista os papéis da organização
func (s *CustomRoleService) List(ctx context.Context, organizationID string) ([]*entities.CustomRoleDefinition, error) {
	return s.roleRepo.ListByOrganization(ctx, organizationID)
}

// findOwned trata papéis de outras organizações como inexistentes
func (s *CustomRoleService) findOwned(ctx context.Context, organizationID string, id int64) (*entities.CustomRoleDefinition, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil || role.OrganizationID != organizationID {
		return nil, errors.ErrCustomRoleNotFound
	}
	return role, nil
}

// clearOtherDefaults desmarca os demais papéis padrão da organização quando role é o
// novo padrão e devolve os ids alterados
func (s *CustomRoleService) clearOtherDefaults(ctx context.Context, role *entities.CustomRoleDefinition) ([]int64, error) {
	if !role.IsDefault {
		return nil, nil
	}

	roles, err := s.roleRepo.ListByOrganization(ctx, role.OrganizationID)
	if err != nil {
		return nil, err
	}
	var ids []int64
	for _, other := range roles {
		if other.IsDefault && other.ID != role.ID {
			ids = append(ids, other.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if err := s.roleRepo.ClearDefault(ctx, role.OrganizationID, role.ID); err != nil {
		return nil, err
	}
	return ids, nil
}

// invalidate roda depois do commit; falhas na propagação não desfazem a mutação
func (s *CustomRoleService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("failed to propagate custom role invalidation", "role_id", id, "error", err)
	}
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toPermissionSet(perms map[string]bool) entities.PermissionSet {
	set := make(entities.PermissionSet, len(perms))
	for key, value := range perms {
		set[key] = value
	}
	return set
}
