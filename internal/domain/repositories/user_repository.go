package repositories

import (
	"context"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
)

// UserRepository define a interface para persistência de usuários
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	UpdateRole(ctx context.Context, user *entities.User) error
	List(ctx context.Context, filters UserFilters) ([]*entities.User, error)

	// SoftDelete marca o usuário como removido e solta a referência ao papel customizado
	SoftDelete(ctx context.Context, id string) error

	// CountUsersWithRole conta usuários ativos cuja referência aponta para o papel customizado
	CountUsersWithRole(ctx context.Context, customRoleID int64) (int64, error)
}

// UserFilters contém filtros para listagem de usuários
type UserFilters struct {
	OrganizationID string
	Role           *entities.RoleRef
	Page           int // Página (começa em 1)
	PageSize       int // Itens por página (default: 20, max: 100)
}

// NormalizePage aplica os limites de paginação (default 20, máximo 100)
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
