package authz

import "github.com/rafabene/avantpro-cms/internal/domain/entities"

// Decision é o resultado tri-state de uma consulta na Session
type Decision int

const (
	// DecisionUnknown significa que as permissões ainda não foram carregadas
	DecisionUnknown Decision = iota
	DecisionDeny
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// Allowed é true apenas para DecisionAllow
func (d Decision) Allowed() bool {
	return d == DecisionAllow
}

func decide(allowed bool) Decision {
	if allowed {
		return DecisionAllow
	}
	return DecisionDeny
}

// Session guarda o conjunto efetivo de um principal para consultas em lote.
// O valor zero é uma sessão ainda não carregada e responde DecisionUnknown.
type Session struct {
	loaded     bool
	principal  entities.Principal
	superadmin bool
	perms      entities.PermissionSet
}

// NewSession cria uma sessão carregada a partir do conjunto já resolvido
func NewSession(principal entities.Principal, effective entities.PermissionSet) *Session {
	return &Session{
		loaded:     true,
		principal:  principal,
		superadmin: principal.Role.IsSuperadmin(),
		perms:      effective.Clone(),
	}
}

// Loaded indica se a sessão já tem permissões
func (s *Session) Loaded() bool {
	return s != nil && s.loaded
}

// Principal retorna o principal da sessão
func (s *Session) Principal() (entities.Principal, bool) {
	if !s.Loaded() {
		return entities.Principal{}, false
	}
	return s.principal, true
}

// HasPermission consulta um par
func (s *Session) HasPermission(resource entities.Resource, action entities.Action) Decision {
	if !s.Loaded() {
		return DecisionUnknown
	}
	if s.superadmin {
		return DecisionAllow
	}
	return decide(s.perms.Allows(entities.NewPermission(resource, action).Key()))
}

// HasAnyPermission é Allow se ao menos um par for permitido
func (s *Session) HasAnyPermission(perms ...entities.Permission) Decision {
	if !s.Loaded() {
		return DecisionUnknown
	}
	for _, p := range perms {
		if s.HasPermission(p.Resource, p.Action) == DecisionAllow {
			return DecisionAllow
		}
	}
	return DecisionDeny
}

// HasAllPermissions é Allow se todos os pares forem permitidos
func (s *Session) HasAllPermissions(perms ...entities.Permission) Decision {
	if !s.Loaded() {
		return DecisionUnknown
	}
	for _, p := range perms {
		if s.HasPermission(p.Resource, p.Action) != DecisionAllow {
			return DecisionDeny
		}
	}
	return DecisionAllow
}

// Effective retorna uma cópia do conjunto efetivo
func (s *Session) Effective() (entities.PermissionSet, bool) {
	if !s.Loaded() {
		return nil, false
	}
	return s.perms.Clone(), true
}
