package repositories

import (
	"context"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
)

// CustomRoleRepository define a interface para persistência de papéis customizados.
// FindByID retorna (nil, nil) quando o papel não existe.
type CustomRoleRepository interface {
	Create(ctx context.Context, role *entities.CustomRoleDefinition) error
	FindByID(ctx context.Context, id int64) (*entities.CustomRoleDefinition, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*entities.CustomRoleDefinition, error)
	Update(ctx context.Context, role *entities.CustomRoleDefinition) error

	// Delete remove o papel. Deve falhar com ErrCustomRoleInUse se algum usuário
	// ainda o referenciar, independente da checagem feita pelo serviço.
	Delete(ctx context.Context, id int64) error

	// ClearDefault desmarca IsDefault dos papéis da organização, exceto exceptID
	ClearDefault(ctx context.Context, organizationID string, exceptID int64) error
}
