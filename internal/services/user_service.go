package services

import (
	"context"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	"github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/domain/repositories"
)

// UserService contém a lógica de negócio para usuários
type UserService struct {
	userRepo repositories.UserRepository
	roleRepo repositories.CustomRoleRepository
	uow      ports.UnitOfWork
	guard    grantGuard
	logger   ports.Logger
}

// NewUserService cria um novo UserService
func NewUserService(
	userRepo repositories.UserRepository,
	roleRepo repositories.CustomRoleRepository,
	uow ports.UnitOfWork,
	logger ports.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		uow:      uow,
		guard:    newGrantGuard(roleRepo, logger),
		logger:   logger,
	}
}

// AssignRoleInput representa a troca de papel de um usuário
type AssignRoleInput struct {
	Actor  entities.Principal
	UserID string
	Role   string // "editor" ou "custom:<id>"
}

// GetUser busca um usuário da organização por ID
func (s *UserService) GetUser(ctx context.Context, organizationID, id string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.OrganizationID != organizationID {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

// ListUsers lista usuários com filtros
func (s *UserService) ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	return s.userRepo.List(ctx, filters)
}

// AssignRole atualiza a referência de papel de um usuário da organização do ator.
// Papéis customizados precisam pertencer à mesma organização. O ator não pode
// atribuir nem retirar um papel que libere algo que ele não tenha, o que inclui
// promover ou rebaixar um superadmin.
func (s *UserService) AssignRole(ctx context.Context, input AssignRoleInput) (*entities.User, error) {
	ref, err := entities.ParseRoleRef(input.Role)
	if err != nil {
		return nil, errors.NewValidationError("role", err)
	}
	actor := input.Actor
	if ref.IsSuperadmin() && !actor.Role.IsSuperadmin() {
		return nil, errors.ErrForbidden
	}

	held, err := s.guard.held(ctx, actor)
	if err != nil {
		return nil, err
	}

	orgID := actor.OrganizationID
	var user *entities.User

	err = s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		found, err := s.GetUser(ctx, orgID, input.UserID)
		if err != nil {
			return err
		}
		if found.Role.IsSuperadmin() && !actor.Role.IsSuperadmin() {
			return errors.ErrForbidden
		}

		if id, ok := ref.Custom(); ok {
			role, err := s.roleRepo.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if role == nil || role.OrganizationID != orgID {
				return errors.ErrCustomRoleNotFound
			}
		}

		granted, err := s.guard.roleGrants(ctx, orgID, ref)
		if err != nil {
			return err
		}
		if err := s.guard.ensureWithin(actor, held, granted); err != nil {
			return err
		}
		current, err := s.guard.roleGrants(ctx, orgID, found.Role)
		if err != nil {
			return err
		}
		if err := s.guard.ensureWithin(actor, held, current); err != nil {
			return err
		}

		found.AssignRole(ref)
		if err := s.userRepo.UpdateRole(ctx, found); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role assigned",
		"org_id", orgID,
		"user_id", user.ID,
		"role", ref.String(),
	)
	return user, nil
}

// DeleteUser remove (soft delete) um usuário da organização.
// O papel customizado que ele ocupava deixa de contar como em uso.
func (s *UserService) DeleteUser(ctx context.Context, organizationID, id string) error {
	err := s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetUser(ctx, organizationID, id); err != nil {
			return err
		}
		return s.userRepo.SoftDelete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", "org_id", organizationID, "user_id", id)
	return nil
}
