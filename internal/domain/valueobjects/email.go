package valueobjects

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidEmail = errors.New("invalid email format")

const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// Email é o endereço de um usuário já na forma gravada em users.email:
// sem espaços nas pontas e em minúsculas, para que o índice único não
// distinga "Ana@X.com" de "ana@x.com".
type Email struct {
	value string
}

// NewEmail normaliza e valida um endereço
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if len(normalized) > maxEmailLength || !emailPattern.MatchString(normalized) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: normalized}, nil
}

// String retorna o endereço normalizado
func (e Email) String() string {
	return e.value
}

// IsZero indica um Email não inicializado
func (e Email) IsZero() bool {
	return e.value == ""
}
