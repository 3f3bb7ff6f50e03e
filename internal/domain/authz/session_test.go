package authz

import (
	"context"
	"testing"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
)

func TestSession_Unloaded(t *testing.T) {
	var zero Session
	var nilSession *Session

	for name, s := range map[string]*Session{"zero": &zero, "nil": nilSession} {
		t.Run(name, func(t *testing.T) {
			if s.Loaded() {
				t.Error("sessão não carregada reportou Loaded")
			}
			if d := s.HasPermission(entities.ResourcePage, entities.ActionRead); d != DecisionUnknown {
				t.Errorf("esperava unknown, obteve %s", d)
			}
			if d := s.HasAnyPermission(entities.NewPermission(entities.ResourcePage, entities.ActionRead)); d != DecisionUnknown {
				t.Errorf("esperava unknown, obteve %s", d)
			}
			if d := s.HasAllPermissions(); d != DecisionUnknown {
				t.Errorf("esperava unknown, obteve %s", d)
			}
			if _, ok := s.Effective(); ok {
				t.Error("sessão não carregada não tem conjunto efetivo")
			}
			if _, ok := s.Principal(); ok {
				t.Error("sessão não carregada não tem principal")
			}
		})
	}

	if DecisionUnknown.Allowed() {
		t.Error("unknown nunca é allow")
	}
}

func TestSession_Loaded(t *testing.T) {
	resolver := NewResolver(newLoader(juniorEditor()))
	principal := customPrincipal(10)

	effective, err := resolver.EffectivePermissions(context.Background(), principal)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	session := NewSession(principal, effective)

	if d := session.HasPermission(entities.ResourcePage, entities.ActionPublish); d != DecisionAllow {
		t.Errorf("page.publish: esperava allow, obteve %s", d)
	}
	if d := session.HasPermission(entities.ResourceBlog, entities.ActionPublish); d != DecisionDeny {
		t.Errorf("blog.publish: esperava deny, obteve %s", d)
	}
	if d := session.HasPermission("widget", "explode"); d != DecisionDeny {
		t.Errorf("par fora do catálogo: esperava deny, obteve %s", d)
	}

	blogPublish := entities.NewPermission(entities.ResourceBlog, entities.ActionPublish)
	pageCreate := entities.NewPermission(entities.ResourcePage, entities.ActionCreate)

	if d := session.HasAnyPermission(blogPublish, pageCreate); d != DecisionAllow {
		t.Errorf("any: esperava allow, obteve %s", d)
	}
	if d := session.HasAllPermissions(blogPublish, pageCreate); d != DecisionDeny {
		t.Errorf("all: esperava deny, obteve %s", d)
	}
	if d := session.HasAnyPermission(); d != DecisionDeny {
		t.Errorf("any vazio: esperava deny, obteve %s", d)
	}
	if d := session.HasAllPermissions(); d != DecisionAllow {
		t.Errorf("all vazio: esperava allow, obteve %s", d)
	}

	t.Run("conjunto efetivo é cópia", func(t *testing.T) {
		effective["blog.publish"] = true
		if session.HasPermission(entities.ResourceBlog, entities.ActionPublish) != DecisionDeny {
			t.Error("alterar o conjunto de origem não deveria afetar a sessão")
		}

		copySet, ok := session.Effective()
		if !ok {
			t.Fatal("sessão carregada deveria ter conjunto efetivo")
		}
		copySet["blog.publish"] = true
		if session.HasPermission(entities.ResourceBlog, entities.ActionPublish) != DecisionDeny {
			t.Error("alterar a cópia não deveria afetar a sessão")
		}
	})

	t.Run("principal", func(t *testing.T) {
		got, ok := session.Principal()
		if !ok || got != principal {
			t.Errorf("esperava %v, obteve %v", principal, got)
		}
	})
}

func TestSession_Superadmin(t *testing.T) {
	session := NewSession(systemPrincipal(entities.RoleSuperadmin), entities.PermissionSet{})

	if d := session.HasPermission("widget", "explode"); d != DecisionAllow {
		t.Errorf("esperava allow para qualquer par, obteve %s", d)
	}
	if d := session.HasAllPermissions(entities.NewPermission(entities.ResourcePage, entities.ActionAdmin)); d != DecisionAllow {
		t.Errorf("esperava allow, obteve %s", d)
	}
}
