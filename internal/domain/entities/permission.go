package entities

import (
	"sort"
	"strings"

	domainerrors "github.com/rafabene/avantpro-cms/internal/domain/errors"
)

// Resource é um substantivo protegido do CMS
type Resource string

const (
	ResourcePage         Resource = "page"
	ResourceBlog         Resource = "blog"
	ResourceCourse       Resource = "course"
	ResourceMedia        Resource = "media"
	ResourceCategory     Resource = "category"
	ResourceTag          Resource = "tag"
	ResourceUser         Resource = "user"
	ResourceOrganization Resource = "organization"
	ResourceSetting      Resource = "setting"
	ResourceAnalytics    Resource = "analytics"
	ResourceAPIKey       Resource = "api_key"
)

// Action é um verbo aplicado a um Resource
type Action string

const (
	ActionCreate    Action = "create"
	ActionRead      Action = "read"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionPublish   Action = "publish"
	ActionUnpublish Action = "unpublish"
	ActionInvite    Action = "invite"
	ActionManage    Action = "manage"
	ActionAdmin     Action = "admin"
)

var (
	crudActions    = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	contentActions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionPublish, ActionUnpublish}
)

// catalogEntry associa um recurso às ações válidas para ele
type catalogEntry struct {
	resource Resource
	actions  []Action
}

// catalog é a declaração estática de recursos e ações válidas.
// A ordem aqui é a ordem exposta por AllResources.
var catalog = []catalogEntry{
	{ResourcePage, contentActions},
	{ResourceBlog, contentActions},
	{ResourceCourse, contentActions},
	{ResourceMedia, crudActions},
	{ResourceCategory, crudActions},
	{ResourceTag, crudActions},
	{ResourceUser, []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionInvite, ActionManage}},
	{ResourceOrganization, []Action{ActionRead, ActionUpdate, ActionManage}},
	{ResourceSetting, []Action{ActionRead, ActionUpdate, ActionManage}},
	{ResourceAnalytics, []Action{ActionRead}},
	{ResourceAPIKey, []Action{ActionCreate, ActionRead, ActionDelete, ActionManage}},
}

// validKeys é construído uma única vez a partir do catálogo
var validKeys = buildValidKeys()

func buildValidKeys() map[string]struct{} {
	keys := make(map[string]struct{})
	for _, entry := range catalog {
		for _, action := range entry.actions {
			keys[Permission{Resource: entry.resource, Action: action}.Key()] = struct{}{}
		}
	}
	return keys
}

// AllResources retorna os recursos do catálogo na ordem de declaração
func AllResources() []Resource {
	resources := make([]Resource, len(catalog))
	for i, entry := range catalog {
		resources[i] = entry.resource
	}
	return resources
}

// ValidActionsFor retorna as ações válidas para um recurso.
// Recursos desconhecidos não têm ações válidas.
func ValidActionsFor(resource Resource) []Action {
	for _, entry := range catalog {
		if entry.resource == resource {
			actions := make([]Action, len(entry.actions))
			copy(actions, entry.actions)
			return actions
		}
	}
	return nil
}

// IsValidPermission verifica se o par (resource, action) está declarado no catálogo
func IsValidPermission(resource Resource, action Action) bool {
	_, ok := validKeys[Permission{Resource: resource, Action: action}.Key()]
	return ok
}

// AllPermissions retorna todas as permissões válidas do catálogo
func AllPermissions() []Permission {
	perms := make([]Permission, 0, len(validKeys))
	for _, entry := range catalog {
		for _, action := range entry.actions {
			perms = append(perms, Permission{Resource: entry.resource, Action: action})
		}
	}
	return perms
}

// Permission é o par (resource, action)
type Permission struct {
	Resource Resource
	Action   Action
}

// NewPermission cria uma Permission
func NewPermission(resource Resource, action Action) Permission {
	return Permission{Resource: resource, Action: action}
}

// Key retorna a forma canônica "<resource>.<action>"
func (p Permission) Key() string {
	return string(p.Resource) + "." + string(p.Action)
}

// String implementa fmt.Stringer
func (p Permission) String() string {
	return p.Key()
}

// IsValid verifica a permissão contra o catálogo
func (p Permission) IsValid() bool {
	return IsValidPermission(p.Resource, p.Action)
}

// ParsePermissionKey converte "<resource>.<action>" em Permission.
// Apenas o formato é verificado; use IsValid para checar o catálogo.
func ParsePermissionKey(key string) (Permission, error) {
	resource, action, ok := strings.Cut(key, ".")
	if !ok || resource == "" || action == "" || strings.Contains(action, ".") {
		return Permission{}, domainerrors.ErrInvalidPermissionKey
	}
	if key != strings.ToLower(key) {
		return Permission{}, domainerrors.ErrInvalidPermissionKey
	}
	return Permission{Resource: Resource(resource), Action: Action(action)}, nil
}

// IsValidPermissionKey verifica formato e catálogo de uma chave
func IsValidPermissionKey(key string) bool {
	_, ok := validKeys[key]
	return ok
}

// PermissionSet mapeia chaves de permissão para booleanos.
// Chave ausente significa "não especificado"; presente com false significa negado.
type PermissionSet map[string]bool

// Lookup retorna o valor e se a chave está presente
func (s PermissionSet) Lookup(key string) (value bool, present bool) {
	value, present = s[key]
	return value, present
}

// Allows retorna o valor da chave, tratando ausência como negação
func (s PermissionSet) Allows(key string) bool {
	return s[key]
}

// Clone retorna uma cópia independente
func (s PermissionSet) Clone() PermissionSet {
	if s == nil {
		return nil
	}
	out := make(PermissionSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// InvalidKeys retorna as chaves que não pertencem ao catálogo
func (s PermissionSet) InvalidKeys() []string {
	var invalid []string
	for key := range s {
		if !IsValidPermissionKey(key) {
			invalid = append(invalid, key)
		}
	}
	sort.Strings(invalid)
	return invalid
}

// GrantsBeyond retorna a primeira chave do catálogo que s permite e held nega
func (s PermissionSet) GrantsBeyond(held PermissionSet) (string, bool) {
	for _, p := range AllPermissions() {
		key := p.Key()
		if s[key] && !held[key] {
			return key, true
		}
	}
	return "", false
}
