// Package memory implementa os repositórios em memória para desenvolvimento local e testes.
// Os dois repositórios compartilham o mesmo Store para que a exclusão de papéis respeite
// as referências dos usuários, como a foreign key faz no PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/domain/repositories"
)

// Store guarda usuários e papéis customizados
type Store struct {
	mu     sync.RWMutex
	nextID int64
	roles  map[int64]*entities.CustomRoleDefinition
	users  map[string]*entities.User
	uow    unitOfWork
}

// NewStore cria um Store vazio
func NewStore() *Store {
	return &Store{
		roles: make(map[int64]*entities.CustomRoleDefinition),
		users: make(map[string]*entities.User),
	}
}

// CustomRoles retorna o repositório de papéis customizados
func (s *Store) CustomRoles() repositories.CustomRoleRepository {
	return &customRoleRepository{store: s}
}

// Users retorna o repositório de usuários
func (s *Store) Users() repositories.UserRepository {
	return &userRepository{store: s}
}

// UnitOfWork retorna uma UnitOfWork que serializa as transações no Store.
// Não há rollback: operações que falham no meio deixam o que já foi escrito.
func (s *Store) UnitOfWork() ports.UnitOfWork {
	return &s.uow
}

type unitOfWork struct {
	mu sync.Mutex
}

func (u *unitOfWork) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(ctx)
}

func cloneRole(r *entities.CustomRoleDefinition) *entities.CustomRoleDefinition {
	out := *r
	out.Permissions = r.Permissions.Clone()
	if r.Description != nil {
		d := *r.Description
		out.Description = &d
	}
	return &out
}

func cloneUser(u *entities.User) *entities.User {
	out := *u
	return &out
}

type customRoleRepository struct {
	store *Store
}

func (r *customRoleRepository) Create(ctx context.Context, role *entities.CustomRoleDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now().UTC()
	role.ID = s.nextID
	role.CreatedAt = now
	role.UpdatedAt = now
	s.roles[role.ID] = cloneRole(role)
	return nil
}

func (r *customRoleRepository) FindByID(ctx context.Context, id int64) (*entities.CustomRoleDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[id]
	if !ok {
		return nil, nil
	}
	return cloneRole(role), nil
}

func (r *customRoleRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*entities.CustomRoleDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.CustomRoleDefinition, 0)
	for _, role := range s.roles {
		if role.OrganizationID == organizationID {
			out = append(out, cloneRole(role))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *customRoleRepository) Update(ctx context.Context, role *entities.CustomRoleDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[role.ID]; !ok {
		return domainerrors.ErrCustomRoleNotFound
	}
	role.UpdatedAt = time.Now().UTC()
	s.roles[role.ID] = cloneRole(role)
	return nil
}

func (r *customRoleRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[id]; !ok {
		return domainerrors.ErrCustomRoleNotFound
	}
	if s.countUsersWithRoleLocked(id) > 0 {
		return domainerrors.ErrCustomRoleInUse
	}
	delete(s.roles, id)
	return nil
}

func (r *customRoleRepository) ClearDefault(ctx context.Context, organizationID string, exceptID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, role := range s.roles {
		if role.OrganizationID == organizationID && id != exceptID && role.IsDefault {
			role.IsDefault = false
			role.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (s *Store) countUsersWithRoleLocked(roleID int64) int64 {
	var count int64
	for _, u := range s.users {
		if u.IsDeleted() {
			continue
		}
		if id, ok := u.Role.Custom(); ok && id == roleID {
			count++
		}
	}
	return count
}

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := user.Validate(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok || user.IsDeleted() {
		return nil, nil
	}
	return cloneUser(user), nil
}

func (r *userRepository) UpdateRole(ctx context.Context, user *entities.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok || stored.IsDeleted() {
		return domainerrors.ErrUserNotFound
	}
	if id, ok := user.Role.Custom(); ok {
		if _, exists := s.roles[id]; !exists {
			return domainerrors.ErrCustomRoleNotFound
		}
	}
	stored.Role = user.Role
	stored.UpdatedAt = time.Now().UTC()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *userRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*entities.User, 0)
	for _, u := range s.users {
		if u.IsDeleted() || u.OrganizationID != filters.OrganizationID {
			continue
		}
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		matched = append(matched, cloneUser(u))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	page, pageSize := repositories.NormalizePage(filters.Page, filters.PageSize)
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []*entities.User{}, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *userRepository) SoftDelete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[id]
	if !ok || stored.IsDeleted() {
		return domainerrors.ErrUserNotFound
	}
	stored.SoftDelete()
	stored.UpdatedAt = *stored.DeletedAt
	return nil
}

func (r *userRepository) CountUsersWithRole(ctx context.Context, customRoleID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countUsersWithRoleLocked(customRoleID), nil
}
