package entities

import (
	"strconv"
	"strings"

	domainerrors "github.com/rafabene/avantpro-cms/internal/domain/errors"
)

// CustomRolePrefix é o prefixo do formato de fio de papéis customizados ("custom:<id>")
const CustomRolePrefix = "custom"

// RoleRefKind distingue as duas variantes de RoleRef
type RoleRefKind uint8

const (
	RoleRefSystem RoleRefKind = iota + 1
	RoleRefCustom
)

// RoleRef é a referência de papel de um usuário: um SystemRole ou o id de um
// CustomRoleDefinition. O valor zero não é válido.
type RoleRef struct {
	kind   RoleRefKind
	system SystemRole
	custom int64
}

// SystemRoleRef cria uma referência para um papel de sistema
func SystemRoleRef(role SystemRole) RoleRef {
	return RoleRef{kind: RoleRefSystem, system: role}
}

// CustomRoleRef cria uma referência para um papel customizado
func CustomRoleRef(id int64) RoleRef {
	return RoleRef{kind: RoleRefCustom, custom: id}
}

// ParseRoleRef converte o formato de fio ("editor" ou "custom:42") em RoleRef.
// Só a forma canônica é aceita: "custom:007", "custom:+5" e " editor" são rejeitados.
func ParseRoleRef(value string) (RoleRef, error) {
	ref, err := parseRoleRef(value)
	if err != nil || ref.String() != value {
		return RoleRef{}, domainerrors.ErrInvalidRoleReference
	}
	return ref, nil
}

func parseRoleRef(value string) (RoleRef, error) {
	if prefix, rawID, ok := strings.Cut(value, ":"); ok {
		if prefix != CustomRolePrefix {
			return RoleRef{}, domainerrors.ErrInvalidRoleReference
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || id <= 0 {
			return RoleRef{}, domainerrors.ErrInvalidRoleReference
		}
		return CustomRoleRef(id), nil
	}
	role, err := ParseSystemRole(value)
	if err != nil {
		return RoleRef{}, domainerrors.ErrInvalidRoleReference
	}
	return SystemRoleRef(role), nil
}

// Kind retorna a variante da referência
func (r RoleRef) Kind() RoleRefKind {
	return r.kind
}

// System retorna o papel de sistema quando a referência é dessa variante
func (r RoleRef) System() (SystemRole, bool) {
	return r.system, r.kind == RoleRefSystem
}

// Custom retorna o id do papel customizado quando a referência é dessa variante
func (r RoleRef) Custom() (int64, bool) {
	return r.custom, r.kind == RoleRefCustom
}

// IsZero indica uma referência não inicializada
func (r RoleRef) IsZero() bool {
	return r.kind == 0
}

// IsSuperadmin indica System(superadmin)
func (r RoleRef) IsSuperadmin() bool {
	return r.kind == RoleRefSystem && r.system.IsSuperadmin()
}

// String retorna o formato de fio
func (r RoleRef) String() string {
	switch r.kind {
	case RoleRefSystem:
		return string(r.system)
	case RoleRefCustom:
		return CustomRolePrefix + ":" + strconv.FormatInt(r.custom, 10)
	default:
		return ""
	}
}

// MarshalText implementa encoding.TextMarshaler
func (r RoleRef) MarshalText() ([]byte, error) {
	if r.IsZero() {
		return nil, domainerrors.ErrInvalidRoleReference
	}
	return []byte(r.String()), nil
}

// UnmarshalText implementa encoding.TextUnmarshaler
func (r *RoleRef) UnmarshalText(text []byte) error {
	ref, err := ParseRoleRef(string(text))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// Principal é o sujeito avaliado numa checagem de permissão
type Principal struct {
	Role           RoleRef
	OrganizationID string
}
