package errors

import "errors"

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound       = errors.New("error.user_not_found")
	ErrCustomRoleNotFound = errors.New("error.custom_role_not_found")
	ErrCustomRoleInUse    = errors.New("error.custom_role_in_use")
	ErrUnauthorized       = errors.New("error.unauthorized")
	ErrForbidden          = errors.New("error.forbidden")
)

// Validation errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrValidation           = errors.New("error.validation")
	ErrRoleNameRequired     = errors.New("error.role_name_required")
	ErrInvalidSystemRole    = errors.New("error.invalid_system_role")
	ErrSuperadminBase       = errors.New("error.superadmin_base_not_allowed")
	ErrInvalidPermissionKey = errors.New("error.invalid_permission_key")
	ErrInvalidRoleReference = errors.New("error.invalid_role_reference")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeConflict     = "/problems/conflict"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeInternal     = "/problems/internal-error"
	ProblemTypeBadRequest   = "/problems/bad-request"
)

// DomainError representa um erro de domínio com contexto adicional.
// Field identifica o campo de entrada rejeitado, quando houver.
type DomainError struct {
	Type    string
	Title   string
	Field   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError cria um DomainError de validação para um campo
func NewValidationError(field string, err error) *DomainError {
	return &DomainError{
		Type:    ProblemTypeValidation,
		Title:   "error.validation.title",
		Field:   field,
		Message: field + " is invalid",
		Err:     err,
	}
}

// IsValidation indica se err é (ou envolve) um erro de validação
func IsValidation(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type == ProblemTypeValidation
	}
	return errors.Is(err, ErrValidation)
}
