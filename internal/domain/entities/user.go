package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/rafabene/avantpro-cms/internal/domain/valueobjects"
)

var (
	ErrInvalidUserData = errors.New("invalid user data")
)

// User representa um usuário de uma organização.
// Apenas os campos que o núcleo de autorização consome.
type User struct {
	ID             string
	OrganizationID string
	Email          valueobjects.Email
	Name           string
	Role           RoleRef
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time // Soft delete
}

// Principal retorna o sujeito de autorização do usuário
func (u *User) Principal() Principal {
	return Principal{Role: u.Role, OrganizationID: u.OrganizationID}
}

// AssignRole troca a referência de papel do usuário
func (u *User) AssignRole(ref RoleRef) {
	u.Role = ref
	u.UpdatedAt = time.Now()
}

// IsDeleted verifica se o usuário foi deletado (soft delete)
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// SoftDelete marca o usuário como deletado
func (u *User) SoftDelete() {
	now := time.Now()
	u.DeletedAt = &now
}

// Validate valida regras de negócio da entidade User
func (u *User) Validate() error {
	if u.Email.IsZero() {
		return fmt.Errorf("%w: email is required", ErrInvalidUserData)
	}

	if u.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidUserData)
	}

	if u.OrganizationID == "" {
		return fmt.Errorf("%w: organization is required", ErrInvalidUserData)
	}

	if u.Role.IsZero() {
		return fmt.Errorf("%w: invalid role", ErrInvalidUserData)
	}

	return nil
}
