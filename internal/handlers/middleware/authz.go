package middleware

import (
	"context"
	errs "errors"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	"github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/handlers/dto"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/metrics"
)

// PermissionChecker resolve um par recurso/ação para um principal
type PermissionChecker interface {
	Check(ctx context.Context, principal entities.Principal, resource entities.Resource, action entities.Action) (bool, error)
}

// Authorizer protege rotas por permissão
type Authorizer struct {
	checker PermissionChecker
	logger  ports.Logger
	metrics *metrics.Metrics
}

// NewAuthorizer cria um novo Authorizer. m pode ser nil.
func NewAuthorizer(checker PermissionChecker, logger ports.Logger, m *metrics.Metrics) *Authorizer {
	return &Authorizer{
		checker: checker,
		logger:  logger,
		metrics: m,
	}
}

// RequirePermission deixa passar apenas principals com resource.action.
// Deve vir depois de RequireAuth. Papel customizado inexistente nega com 403;
// demais erros de resolução negam com 500.
func (a *Authorizer) RequirePermission(resource entities.Resource, action entities.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c))
			return
		}

		allowed, err := a.checker.Check(c.Request.Context(), principal, resource, action)
		switch {
		case err != nil && !errs.Is(err, errors.ErrCustomRoleNotFound):
			a.metrics.ObserveDecision(string(resource), string(action), "error")
			a.logger.Error("permission check failed",
				"user_id", GetUserID(c),
				"resource", resource,
				"action", action,
				"error", err,
			)
			dto.Abort(c, dto.InternalErrorResponseI18n(c))
		case err != nil || !allowed:
			a.metrics.ObserveDecision(string(resource), string(action), "deny")
			a.logger.Debug("permission denied",
				"user_id", GetUserID(c),
				"role", principal.Role.String(),
				"resource", resource,
				"action", action,
			)
			dto.Abort(c, dto.ForbiddenErrorResponseI18n(c))
		default:
			a.metrics.ObserveDecision(string(resource), string(action), "allow")
			c.Next()
		}
	}
}
